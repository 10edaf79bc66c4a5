package popup

import "sort"

// CompletionItem is one candidate offered by the LSP coordinator.
type CompletionItem struct {
	Label string
	Detail string
	InsertText string // if empty, Label is inserted verbatim
}

// AcceptResult is returned to the caller when Tab/Enter accepts an item.
type AcceptResult struct {
	TriggerColumn int
	CursorColumn  int
	Text          string
}

// Completion is the trigger-column-anchored completion list popup.
type Completion struct {
	triggerColumn int
	cursorColumn  int
	all           []CompletionItem
	filtered      []CompletionItem
	filter        string
	selected      int

	// Accepted is set by HandleEvent when Tab/Enter accepts an item;
	// the editor's LSP completion state machine polls this after
	// routing the key through the popup stack.
	Accepted *AcceptResult
}

// NewCompletion builds a completion popup anchored at triggerColumn with
// the given candidate items, already deduplicated/ordered by the LSP
// coordinator.
func NewCompletion(triggerColumn int, items []CompletionItem) *Completion {
	c := &Completion{triggerColumn: triggerColumn, cursorColumn: triggerColumn, all: items}
	c.SetFilter("")
	return c
}

func (c *Completion) ID() string { return "completion" }
func (c *Completion) Anchor() Anchor {
	return Anchor{Kind: AnchorCursor, PreferAbove: false}
}
func (c *Completion) SizeHints() SizeHints {
	return SizeHints{MinWidth: 10, PreferredWidth: 30, MaxWidth: 60, MinHeight: 1, PreferredHeight: 8, MaxHeight: 12}
}
func (c *Completion) IsModal() bool             { return false }
func (c *Completion) DismissOnCursorMove() bool { return false } // trigger-column check supersedes this; see CheckTriggerColumn
func (c *Completion) AsAny() any                { return c }

// TriggerColumn exposes the replacement-range start.
func (c *Completion) TriggerColumn() int { return c.triggerColumn }

// Items returns the currently filtered, ordered list.
func (c *Completion) Items() []CompletionItem { return c.filtered }

// Selected returns the index of the currently highlighted item.
func (c *Completion) Selected() int { return c.selected }

// SetFilter re-runs fuzzy filtering against typed:
// character-in-order fuzzy match, prefix matches before substring
// matches, ties broken by label length.
func (c *Completion) SetFilter(typed string) {
	c.filter = typed
	c.filtered = c.filtered[:0]
	type scored struct {
		item CompletionItem
		rank int
	}
	var matches []scored
	for _, it := range c.all {
		rank, ok := fuzzyRank(it.Label, typed)
		if !ok {
			continue
		}
		matches = append(matches, scored{it, rank})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return len(matches[i].item.Label) < len(matches[j].item.Label)
	})
	for _, m := range matches {
		c.filtered = append(c.filtered, m.item)
	}
	if c.selected >= len(c.filtered) {
		c.selected = 0
	}
}

// fuzzyRank reports whether typed's characters occur in order within
// label (case-sensitive), and a sort rank: 0 for an exact prefix
// match, 1 for any other in-order match.
func fuzzyRank(label, typed string) (int, bool) {
	if typed == "" {
		return 1, true
	}
	li, ti := 0, 0
	lr, tr := []rune(label), []rune(typed)
	for li < len(lr) && ti < len(tr) {
		if lr[li] == tr[ti] {
			ti++
		}
		li++
	}
	if ti < len(tr) {
		return 0, false
	}
	if len(lr) >= len(tr) && string(lr[:len(tr)]) == typed {
		return 0, true
	}
	return 1, true
}

// SetCursorColumn updates the tracked cursor column; callers should
// dismiss the popup (CheckTriggerColumn) whenever it drops below the
// trigger column.
func (c *Completion) SetCursorColumn(col int) { c.cursorColumn = col }

// CheckTriggerColumn reports whether the popup should remain active:
// false once the cursor column has dropped below the trigger column.
func (c *Completion) CheckTriggerColumn() bool { return c.cursorColumn >= c.triggerColumn }

func (c *Completion) HandleEvent(e Event) EventResult {
	if e.Kind != EventKey {
		return EventResult{}
	}
	switch e.Key {
	case '\t', '\r', '\n':
		if len(c.filtered) == 0 {
			return EventResult{Consumed: true, Dismiss: true}
		}
		item := c.filtered[c.selected]
		text := item.InsertText
		if text == "" {
			text = item.Label
		}
		c.Accepted = &AcceptResult{TriggerColumn: c.triggerColumn, CursorColumn: c.cursorColumn, Text: text}
		return EventResult{Consumed: true, Dismiss: true}
	case 27: // Esc
		return EventResult{Consumed: true, Dismiss: true}
	case keyDown:
		if len(c.filtered) > 0 {
			c.selected = (c.selected + 1) % len(c.filtered)
		}
		return EventResult{Consumed: true}
	case keyUp:
		if len(c.filtered) > 0 {
			c.selected = (c.selected - 1 + len(c.filtered)) % len(c.filtered)
		}
		return EventResult{Consumed: true}
	case 14: // Ctrl-N
		if e.Mods&ModCtrl != 0 && len(c.filtered) > 0 {
			c.selected = (c.selected + 1) % len(c.filtered)
			return EventResult{Consumed: true}
		}
	case 16: // Ctrl-P
		if e.Mods&ModCtrl != 0 && len(c.filtered) > 0 {
			c.selected = (c.selected - 1 + len(c.filtered)) % len(c.filtered)
			return EventResult{Consumed: true}
		}
	case keyLeft, keyRight, keyPageUp, keyPageDown, keyHome, keyEnd:
		// Horizontal/paging keys dismiss but do not consume.
		return EventResult{Consumed: false, Dismiss: true}
	}
	return EventResult{}
}

// Pseudo key codes for the navigation keys, distinct
// from any printable rune range; the terminal front-end maps its own
// key representation onto these before calling HandleEvent.
const (
	keyUp = -(iota + 1)
	keyDown
	keyLeft
	keyRight
	keyPageUp
	keyPageDown
	keyHome
	keyEnd
)
