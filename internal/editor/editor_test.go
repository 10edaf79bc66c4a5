package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

func resetRegistry(t *testing.T) {
	t.Helper()
	registry.ResetAll()
	// Insert-mode fallback insertion resolves through the registry, so
	// tests driving HandleKey need it registered just like a real run.
	registry.RegisterAction(&registry.Action{
		ID: "action.default_char", Name: "default_char",
		RequiredCaps: []registry.Capability{registry.CapSelection, registry.CapText, registry.CapEdit},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if ctx.CharArg != 0 {
				ctx.Caps.Edit.InsertAtSelection(string(ctx.CharArg))
			}
			return registry.Ok()
		},
	})
	t.Cleanup(registry.ResetAll)
}

func TestInsertDefaultCharEditsFocusedBuffer(t *testing.T) {
	resetRegistry(t)
	e := New()
	e.fsm.SetMode(keys.ModeInsert)

	e.HandleKey(keys.KeyPress{Key: 'h'})
	e.HandleKey(keys.KeyPress{Key: 'i'})

	buf, ok := e.FocusedBuffer()
	if !ok {
		t.Fatal("expected a focused text buffer")
	}
	if buf.Text() != "hi" {
		t.Fatalf("expected text %q, got %q", "hi", buf.Text())
	}
}

func TestRunActionAppliesMotionResult(t *testing.T) {
	resetRegistry(t)
	registry.RegisterAction(&registry.Action{
		ID: "test.select_all", Name: "test.select_all",
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.MotionResult(rope.Single(rope.Region{Anchor: 0, Head: ctx.Caps.Text.LenChars()}))
		},
	})
	e := New()
	buf, _ := e.FocusedBuffer()
	tx, _ := buf.PrepareInsertAtSelection("hello")
	_ = e.ApplyTransaction(buf, tx)

	e.runAction("test.select_all", registry.ActionContext{})
	if buf.Selection().Primary().Head != 5 {
		t.Fatalf("expected selection head at 5, got %d", buf.Selection().Primary().Head)
	}
}

func TestSplitHorizontalCreatesSecondLeaf(t *testing.T) {
	resetRegistry(t)
	e := New()
	e.dispatchResult(registry.ActionResult{Kind: registry.ResultSplit, Split: registry.SplitHorizontal}, nil, registry.ActionContext{})

	areas := e.layout.ComputeViewAreas(e.area)
	if len(areas) != 2 {
		t.Fatalf("expected 2 leaves after split, got %d", len(areas))
	}
	if e.focused.Kind != layout.ViewText {
		t.Fatal("expected focus to move to the new text leaf")
	}
}

func TestCloseSplitReturnsToSingleLeaf(t *testing.T) {
	resetRegistry(t)
	e := New()
	e.dispatchResult(registry.ActionResult{Kind: registry.ResultSplit, Split: registry.SplitHorizontal}, nil, registry.ActionContext{})
	e.dispatchResult(registry.ActionResult{Kind: registry.ResultCloseSplit}, nil, registry.ActionContext{})

	if !e.layout.IsLeaf() {
		t.Fatal("expected closing one of two splits to collapse back to a single leaf")
	}
}

func TestRegisterSetNumberedRing(t *testing.T) {
	rs := NewRegisterSet()
	rs.Set(0, "first")
	rs.Set(0, "second")
	v, ok := rs.Get('1')
	if !ok || v != "second" {
		t.Fatalf("expected register '1' to hold most recent yank, got %q ok=%v", v, ok)
	}
	v, ok = rs.Get('2')
	if !ok || v != "first" {
		t.Fatalf("expected register '2' to hold prior yank, got %q ok=%v", v, ok)
	}
}

func TestRegisterSetBlackHole(t *testing.T) {
	rs := NewRegisterSet()
	rs.Set('_', "discarded")
	if _, ok := rs.Get('_'); ok {
		t.Fatal("expected the black-hole register to discard writes")
	}
}

func TestJumpListBackForward(t *testing.T) {
	jl := NewJumpList(10)
	jl.Push(JumpEntry{Buffer: 1})
	jl.Push(JumpEntry{Buffer: 2})
	jl.Push(JumpEntry{Buffer: 3})

	e, ok := jl.Back()
	if !ok || e.Buffer != 2 {
		t.Fatalf("expected Back to land on buffer 2, got %+v ok=%v", e, ok)
	}
	e, ok = jl.Back()
	if !ok || e.Buffer != 1 {
		t.Fatalf("expected Back again to land on buffer 1, got %+v ok=%v", e, ok)
	}
	e, ok = jl.Forward()
	if !ok || e.Buffer != 2 {
		t.Fatalf("expected Forward to land back on buffer 2, got %+v ok=%v", e, ok)
	}
}

func TestMacroRecordAndPlay(t *testing.T) {
	resetRegistry(t)
	e := New()
	e.fsm.SetMode(keys.ModeInsert)

	e.macros.StartRecording('q')
	e.HandleKey(keys.KeyPress{Key: 'a'})
	e.HandleKey(keys.KeyPress{Key: 'b'})
	e.macros.StopRecording()

	buf, _ := e.FocusedBuffer()
	if buf.Text() != "ab" {
		t.Fatalf("expected recording to still type normally, got %q", buf.Text())
	}

	e.fsm.SetMode(keys.ModeInsert)
	e.PlayMacro('q')
	if buf.Text() != "abab" {
		t.Fatalf("expected macro replay to type 'ab' again, got %q", buf.Text())
	}
}

func TestMergeSelectionsCollapsesToSpan(t *testing.T) {
	sel := rope.NewSelection(rope.Region{Anchor: 0, Head: 2}, rope.Region{Anchor: 5, Head: 8})
	merged := mergeSelections(sel)
	if merged.Len() != 1 {
		t.Fatalf("expected 1 merged range, got %d", merged.Len())
	}
	r := merged.Primary()
	if r.Start() != 0 || r.End() != 8 {
		t.Fatalf("expected merged span [0,8), got [%d,%d)", r.Start(), r.End())
	}
}

func TestOpenFileAttachesSyntaxAndSaveBufferRoundTrips(t *testing.T) {
	resetRegistry(t)
	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	e := New()
	id, err := e.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	buf, ok := e.Buffer(id)
	if !ok {
		t.Fatal("expected opened buffer to exist")
	}
	if buf.Document().Syntax() == nil {
		t.Fatal("expected a syntax tracker attached for a .go file")
	}
	if buf.Text() != "package main\n" {
		t.Fatalf("expected file contents loaded, got %q", buf.Text())
	}

	tx, err := buf.Prepare([]buffer.Edit{{Start: buf.Selection().Primary().Start(), End: buf.Selection().Primary().Start(), Text: "\nfunc main() {}\n"}})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := e.ApplyTransaction(buf, tx); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := e.SaveBuffer(buf); err != nil {
		t.Fatalf("SaveBuffer: %v", err)
	}
	on, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(on) != buf.Text() {
		t.Fatalf("expected saved file to match buffer text, got %q want %q", string(on), buf.Text())
	}
}

func TestCloseBufferFreesUnsharedDocument(t *testing.T) {
	resetRegistry(t)
	e := New()
	buf, _ := e.FocusedBuffer()
	docID := buf.DocumentId()
	e.CloseBufferID(buf.Id())
	if _, ok := e.documents[docID]; ok {
		t.Fatal("expected document to be freed once its last buffer closed")
	}
}
