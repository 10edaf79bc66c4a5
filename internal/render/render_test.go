package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/lsp"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

func TestFrameSetGet(t *testing.T) {
	f := NewFrame(layout.Rect{X: 2, Y: 1, Width: 4, Height: 3})

	f.Set(3, 2, Cell{Symbol: "x"})
	c, ok := f.Get(3, 2)
	require.True(t, ok)
	assert.Equal(t, "x", c.Symbol)

	// Out-of-area writes are dropped, reads report absence.
	f.Set(0, 0, Cell{Symbol: "y"})
	_, ok = f.Get(0, 0)
	assert.False(t, ok)
	_, ok = f.Get(6, 1)
	assert.False(t, ok)
}

func TestFrameSetStringWideRune(t *testing.T) {
	f := NewFrame(layout.Rect{Width: 10, Height: 1})
	end := f.SetString(0, 0, "a漢b", nil, nil, 0)
	assert.Equal(t, 4, end)

	c, _ := f.Get(0, 0)
	assert.Equal(t, "a", c.Symbol)
	c, _ = f.Get(1, 0)
	assert.Equal(t, "漢", c.Symbol)
	c, _ = f.Get(2, 0)
	assert.Equal(t, "", c.Symbol) // spill cell of the wide rune
	c, _ = f.Get(3, 0)
	assert.Equal(t, "b", c.Symbol)
}

func TestFrameFillAndClear(t *testing.T) {
	f := NewFrame(layout.Rect{Width: 3, Height: 3})
	f.Fill(layout.Rect{X: 1, Y: 1, Width: 2, Height: 2}, Cell{Symbol: "#"})

	c, _ := f.Get(1, 1)
	assert.Equal(t, "#", c.Symbol)
	c, _ = f.Get(0, 0)
	assert.Equal(t, " ", c.Symbol)

	f.Clear()
	c, _ = f.Get(1, 1)
	assert.Equal(t, " ", c.Symbol)
}

func TestPrepareDiagnostics(t *testing.T) {
	d := &lsp.DocState{
		Diagnostics: []lsp.Diagnostic{
			{Range: lsp.Range{Start: lsp.Position{Line: 2}, End: lsp.Position{Line: 2, Character: 4}}, Severity: 3, Message: "warn here"},
			{Range: lsp.Range{Start: lsp.Position{Line: 2}, End: lsp.Position{Line: 2, Character: 1}}, Severity: 4, Message: "error here"},
			{Range: lsp.Range{Start: lsp.Position{Line: 9}, End: lsp.Position{Line: 9, Character: 1}}, Severity: 1, Message: "off screen"},
		},
	}
	recs := PrepareDiagnostics(d, 0, 5)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Line)
	assert.Equal(t, 4, recs[0].Gutter)
	assert.Len(t, recs[0].Messages, 2)
}

func TestSeverityAtChar(t *testing.T) {
	text := "abc\ndef\n"
	d := &lsp.DocState{
		Diagnostics: []lsp.Diagnostic{
			{Range: lsp.Range{Start: lsp.Position{Line: 1, Character: 0}, End: lsp.Position{Line: 1, Character: 2}}, Severity: 4},
		},
	}
	// "d" is char 4, "e" char 5; the range [4,6) covers both, not "f".
	assert.Equal(t, 4, SeverityAtChar(d, text, 4, lsp.EncodingUTF16))
	assert.Equal(t, 4, SeverityAtChar(d, text, 5, lsp.EncodingUTF16))
	assert.Equal(t, 0, SeverityAtChar(d, text, 6, lsp.EncodingUTF16))
	assert.Equal(t, 0, SeverityAtChar(d, text, 0, lsp.EncodingUTF16))
}

func TestPrepareInlayHints(t *testing.T) {
	text := "one\ntwo\nthree\n"
	hints := []lsp.InlayHintResult{
		{CharOffset: 10, Label: ": c"}, // line 2 col 2
		{CharOffset: 4, Label: ": a"},  // line 1 col 0
		{CharOffset: 6, Label: ": b"},  // line 1 col 2
	}
	spans := PrepareInlayHints(text, hints, 1, 2, lsp.EncodingUTF16)
	require.Len(t, spans, 3)
	assert.Equal(t, InlaySpan{Line: 1, Col: 0, Label: ": a"}, spans[0])
	assert.Equal(t, InlaySpan{Line: 1, Col: 2, Label: ": b"}, spans[1])
	assert.Equal(t, InlaySpan{Line: 2, Col: 2, Label: ": c"}, spans[2])

	spans = PrepareInlayHints(text, hints, 2, 2, lsp.EncodingUTF16)
	require.Len(t, spans, 1)
	assert.Equal(t, 2, spans[0].Line)
}

func TestDrawTerminalClipsToRect(t *testing.T) {
	f := NewFrame(layout.Rect{Width: 10, Height: 3})
	DrawTerminal(f, layout.Rect{X: 1, Y: 0, Width: 4, Height: 2}, []string{"hello wide", "x"})

	c, _ := f.Get(1, 0)
	assert.Equal(t, "h", c.Symbol)
	c, _ = f.Get(4, 0)
	assert.Equal(t, "l", c.Symbol)
	// Column 5 is outside the terminal's rect and must stay untouched.
	c, _ = f.Get(5, 0)
	assert.Equal(t, " ", c.Symbol)

	c, _ = f.Get(1, 1)
	assert.Equal(t, "x", c.Symbol)
	c, _ = f.Get(2, 1)
	assert.Equal(t, " ", c.Symbol)
}

type fakeMode struct{ mode string }

func (f *fakeMode) Mode() string     { return f.mode }
func (f *fakeMode) SetMode(m string) { f.mode = m }

type fakeSel struct{ sel rope.Selection }

func (f *fakeSel) Selection() rope.Selection     { return f.sel }
func (f *fakeSel) SetSelection(s rope.Selection) { f.sel = s }

func TestEvaluateStatusline(t *testing.T) {
	caps := registry.Capabilities{
		Mode:      &fakeMode{mode: "normal"},
		Selection: &fakeSel{sel: rope.Single(rope.Point(0))},
	}
	segs := EvaluateStatusline(caps)
	// The mode segment renders; position (no cursor cap) and the
	// single-range selection segment both stay silent.
	assert.Contains(t, segs, "normal")
	for _, s := range segs {
		assert.NotContains(t, s, ":")
	}
}
