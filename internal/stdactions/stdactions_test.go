package stdactions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

func TestRegisteredActionsResolve(t *testing.T) {
	for _, name := range []string{
		"char_left", "char_right", "line_up", "line_down",
		"word_next_start", "word_prev_start", "word_next_end",
		"delete_selection", "yank", "paste_after", "undo", "redo",
		"select_all", "split_lines", "enter_insert", "enter_normal",
		"find_char_forward", "replace_char",
		"split_horizontal", "focus_down", "quit",
		"hover", "completion", "signature_help", "goto_definition",
		"references", "format_document", "code_action", "inlay_hints",
	} {
		_, ok := registry.Actions.ByNameOrAlias(name)
		assert.True(t, ok, "action %q not registered", name)
	}
}

func TestRegisteredCommandsResolve(t *testing.T) {
	for _, name := range []string{"write", "w", "quit", "q", "q!", "wq", "edit", "e", "bn", "bp"} {
		_, ok := registry.Commands.ByNameOrAlias(name)
		assert.True(t, ok, "command %q not registered", name)
	}
}

func TestDefaultKeybindingsParse(t *testing.T) {
	all := registry.Keybindings.All()
	require.NotEmpty(t, all)
	for _, kb := range all {
		_, ok := registry.Actions.ByNameOrAlias(kb.Action)
		assert.True(t, ok, "binding %q targets unknown action %q", kb.ID, kb.Action)
		for _, s := range kb.Keys {
			_, err := keys.Parse(s)
			assert.NoError(t, err, "binding %q key %q", kb.ID, s)
		}
	}
}

func TestFindCharTarget(t *testing.T) {
	runes := []rune("one two one\nnext")

	// f: land on the match.
	pos, ok := findCharTarget(runes, 0, 'o', 1, true, false)
	require.True(t, ok)
	assert.Equal(t, 6, pos) // the "o" in "two"

	// count 2 skips to the second occurrence.
	pos, ok = findCharTarget(runes, 0, 'o', 2, true, false)
	require.True(t, ok)
	assert.Equal(t, 8, pos)

	// t: stop one short.
	pos, ok = findCharTarget(runes, 0, 'o', 1, true, true)
	require.True(t, ok)
	assert.Equal(t, 5, pos)

	// backward.
	pos, ok = findCharTarget(runes, 10, 'w', 1, false, false)
	require.True(t, ok)
	assert.Equal(t, 5, pos)

	// the search never crosses the newline.
	_, ok = findCharTarget(runes, 0, 'x', 1, true, false)
	assert.False(t, ok)
}

func TestFindCharActionUpdatesSelection(t *testing.T) {
	action, ok := registry.Actions.ByNameOrAlias("find_char_forward")
	require.True(t, ok)

	// First call requests the char-arg continuation.
	res := action.Handler(registry.ActionContext{Count: 1})
	assert.Equal(t, registry.ResultPending, res.Kind)
	assert.Equal(t, registry.PendingCharArg, res.Pending)

	// Second call, with the fed char, moves every range's head.
	text := "abcabc"
	ctx := registry.ActionContext{
		Caps:      registry.Capabilities{Text: staticText(text)},
		Selection: rope.Single(rope.Point(0)),
		Count:     1,
		CharArg:   'c',
	}
	res = action.Handler(ctx)
	require.Equal(t, registry.ResultMotion, res.Kind)
	assert.Equal(t, 2, res.Selection.Primary().Head)
}

// staticText is a minimal TextAccess over a fixed string.
type staticText string

func (s staticText) Text() string          { return string(s) }
func (s staticText) Slice(a, b int) string { return string([]rune(string(s))[a:b]) }
func (s staticText) LenChars() int         { return len([]rune(string(s))) }
func (s staticText) RowCol(point int) (int, int) {
	row, col := 0, 0
	for i, r := range []rune(string(s)) {
		if i == point {
			break
		}
		if r == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return row, col
}
func (s staticText) TextPoint(row, col int) int {
	r, c := 0, 0
	runes := []rune(string(s))
	for i, ch := range runes {
		if r == row && c == col {
			return i
		}
		if ch == '\n' {
			r++
			c = 0
		} else {
			c++
		}
	}
	return len(runes)
}

func TestTextObjectPairs(t *testing.T) {
	text := "a (b [c] d) e"

	inner := pairedInner('(', ')')
	r, ok := inner(text, 5)
	require.True(t, ok)
	assert.Equal(t, "b [c] d", text[r.Start():r.End()])

	around := pairedAround('(', ')')
	r, ok = around(text, 5)
	require.True(t, ok)
	assert.Equal(t, "(b [c] d)", text[r.Start():r.End()])

	// Nested pair resolves to the closest enclosing one.
	r, ok = pairedInner('[', ']')(text, 6)
	require.True(t, ok)
	assert.Equal(t, "c", text[r.Start():r.End()])

	_, ok = inner(text, 12)
	assert.False(t, ok)
}

func TestQuotedTextObject(t *testing.T) {
	text := `say "hello" now`
	r, ok := quotedInner('"')(text, 7)
	require.True(t, ok)
	assert.Equal(t, "hello", text[r.Start():r.End()])

	r, ok = quotedAround('"')(text, 7)
	require.True(t, ok)
	assert.Equal(t, `"hello"`, text[r.Start():r.End()])
}
