package popup

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushReplacesSameID(t *testing.T) {
	s := NewStack()
	s.Push(NewCompletion(3, []CompletionItem{{Label: "foo"}}))
	s.Push(NewCompletion(5, []CompletionItem{{Label: "bar"}}))
	require.Equal(t, 1, len(s.All()))
	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, 5, top.(*Completion).TriggerColumn())
}

func TestCompletionFilterPrefixBeforeSubstring(t *testing.T) {
	c := NewCompletion(5, []CompletionItem{{Label: "foo"}, {Label: "foobar"}, {Label: "bar"}})
	c.SetFilter("fo")
	labels := labelsOf(c.Items())
	assert.Equal(t, []string{"foo", "foobar"}, labels)

	c.SetFilter("b")
	labels = labelsOf(c.Items())
	assert.Equal(t, []string{"bar", "foobar"}, labels)
}

func labelsOf(items []CompletionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestCompletionTabAccepts(t *testing.T) {
	c := NewCompletion(5, []CompletionItem{{Label: "foobar"}})
	c.SetFilter("foo")
	res := c.HandleEvent(Event{Kind: EventKey, Key: '\t'})
	require.True(t, res.Dismiss)
	require.NotNil(t, c.Accepted)
	assert.Equal(t, "foobar", c.Accepted.Text)
}

func TestCompletionTriggerColumnDismissal(t *testing.T) {
	c := NewCompletion(5, nil)
	c.SetCursorColumn(5)
	assert.True(t, c.CheckTriggerColumn())
	c.SetCursorColumn(3)
	assert.False(t, c.CheckTriggerColumn())
}

func TestHoverParsesBoldAndCode(t *testing.T) {
	h := NewHover(0, 0, "**bold** and `code`")
	require.NotEmpty(t, h.Lines())
	var sawBold, sawCode bool
	for _, l := range h.Lines() {
		for _, sp := range l.Spans {
			if sp.Style&StyleBold != 0 {
				sawBold = true
			}
			if sp.Style&StyleCode != 0 {
				sawCode = true
			}
		}
	}
	assert.True(t, sawBold)
	assert.True(t, sawCode)
}

func TestCodeActionsSortOrder(t *testing.T) {
	ca := NewCodeActions([]CodeActionItem{
		{Title: "cmd", Kind: KindCommand},
		{Title: "fix", Kind: KindQuickfix},
		{Title: "refactor", Kind: KindRefactor},
	})
	items := ca.Items()
	assert.Equal(t, "fix", items[0].Title)
	assert.Equal(t, "refactor", items[1].Title)
	assert.Equal(t, "cmd", items[2].Title)
}

func TestLocationResultMaterialization(t *testing.T) {
	assert.Nil(t, NewLocationResult(nil).Direct)
	assert.Nil(t, NewLocationResult(nil).Picker)

	one := NewLocationResult([]Location{{URI: "a", Line: 1}})
	require.NotNil(t, one.Direct)
	assert.Nil(t, one.Picker)

	many := NewLocationResult([]Location{{URI: "a"}, {URI: "b"}})
	assert.Nil(t, many.Direct)
	require.NotNil(t, many.Picker)
}

func TestPlaceClampsToScreen(t *testing.T) {
	screen := layout.Rect{X: 0, Y: 0, Width: 20, Height: 10}
	c := NewCompletion(0, []CompletionItem{{Label: "a"}, {Label: "b"}})
	rect := Place(c, screen, CursorHint{X: 18, Y: 9})
	assert.GreaterOrEqual(t, rect.X, screen.X)
	assert.LessOrEqual(t, rect.X+rect.Width, screen.X+screen.Width)
	assert.GreaterOrEqual(t, rect.Y, screen.Y)
	assert.LessOrEqual(t, rect.Y+rect.Height, screen.Y+screen.Height)
}

func TestStackHandleCursorMovedDismissesFlagged(t *testing.T) {
	s := NewStack()
	s.Push(NewSignature(0, 0, []SignatureInfo{{Label: "f(x)"}}, 0)) // dismiss_on_cursor_move = false
	s.Push(NewCodeActions(nil))                                     // dismiss_on_cursor_move = true
	s.HandleCursorMoved()
	require.Equal(t, 1, len(s.All()))
	top, _ := s.Top()
	assert.Equal(t, "signature-help", top.ID())
}
