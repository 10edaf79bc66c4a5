// Package popup implements the overlay stack: completion, hover,
// signature help, code actions, and the location picker, with
// anchor-based positioning, key/mouse event routing, and a
// cursor-movement dismissal policy. Downcast access to a concrete
// popup goes through an explicit AsAny method on the Popup interface.
package popup

import "github.com/rowan-editor/rowan/internal/layout"

// AnchorKind selects how a popup's position is computed relative to the
// cursor, an explicit screen position, or the screen center.
type AnchorKind int

const (
	AnchorCursor AnchorKind = iota
	AnchorPosition
	AnchorCenter
)

// Anchor is a popup's declared positioning request.
type Anchor struct {
	Kind        AnchorKind
	X, Y        int  // meaningful only for AnchorPosition
	PreferAbove bool // AnchorCursor, AnchorPosition
}

// SizeHints bounds a popup's content box.
type SizeHints struct {
	MinWidth, MinHeight           int
	MaxWidth, MaxHeight           int
	PreferredWidth, PreferredHeight int
}

// EventKind enumerates the events a popup's handler may receive.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouseDown
	EventMouseScroll
	EventCursorMoved
)

// Event is routed to the topmost popup (or, for CursorMoved, broadcast
// to every popup flagged dismiss_on_cursor_move).
type Event struct {
	Kind EventKind
	Key  rune  // EventKey
	Mods int   // EventKey: bit 0 shift, bit 1 ctrl, bit 2 alt, bit 3 super
	X, Y int   // EventMouseDown, EventMouseScroll
	ScrollDelta int // EventMouseScroll
}

const (
	ModShift = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// EventResult reports what handling an Event did: consumed stops
// downstream input, dismiss pops the popup.
type EventResult struct {
	Consumed bool
	Dismiss  bool
}

// Popup is the trait-object interface every concrete overlay
// implements.
type Popup interface {
	ID() string
	Anchor() Anchor
	SizeHints() SizeHints
	IsModal() bool
	DismissOnCursorMove() bool
	HandleEvent(Event) EventResult
	// AsAny exposes the concrete popup for downcast access, used e.g.
	// by the completion popup's SetFilter after each inserted
	// character.
	AsAny() any
}

// Stack owns the popup stack: topmost popup receives events first.
type Stack struct {
	popups []Popup
}

// NewStack returns an empty popup stack.
func NewStack() *Stack { return &Stack{} }

// Push adds p to the top of the stack. Pushing an id already present
// replaces that popup in place rather than stacking a duplicate.
func (s *Stack) Push(p Popup) {
	for i, existing := range s.popups {
		if existing.ID() == p.ID() {
			s.popups[i] = p
			return
		}
	}
	s.popups = append(s.popups, p)
}

// Pop removes and returns the topmost popup, if any.
func (s *Stack) Pop() (Popup, bool) {
	if len(s.popups) == 0 {
		return nil, false
	}
	top := s.popups[len(s.popups)-1]
	s.popups = s.popups[:len(s.popups)-1]
	return top, true
}

// Dismiss removes the popup with the given id, wherever it sits in the
// stack.
func (s *Stack) Dismiss(id string) bool {
	for i, p := range s.popups {
		if p.ID() == id {
			s.popups = append(s.popups[:i], s.popups[i+1:]...)
			return true
		}
	}
	return false
}

// DismissAll clears the stack.
func (s *Stack) DismissAll() { s.popups = nil }

// Top returns the topmost popup without removing it.
func (s *Stack) Top() (Popup, bool) {
	if len(s.popups) == 0 {
		return nil, false
	}
	return s.popups[len(s.popups)-1], true
}

// Empty reports whether the stack has no popups.
func (s *Stack) Empty() bool { return len(s.popups) == 0 }

// All returns every popup bottom-to-top.
func (s *Stack) All() []Popup { return append([]Popup(nil), s.popups...) }

// Find returns the popup with the given id, if present.
func (s *Stack) Find(id string) (Popup, bool) {
	for _, p := range s.popups {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// HandleKey dispatches Escape to dismiss the topmost popup; any other
// key routes to the topmost popup.
// Returns the EventResult from whichever popup handled it, and false if
// the stack was empty (the caller should fall through to the normal
// input pipeline).
func (s *Stack) HandleKey(key rune, mods int) (EventResult, bool) {
	top, ok := s.Top()
	if !ok {
		return EventResult{}, false
	}
	if key == 27 && mods == 0 { // Escape
		s.Pop()
		return EventResult{Consumed: true, Dismiss: true}, true
	}
	res := top.HandleEvent(Event{Kind: EventKey, Key: key, Mods: mods})
	if res.Dismiss {
		s.Dismiss(top.ID())
	}
	return res, true
}

// HandleCursorMoved dismisses every popup flagged dismiss_on_cursor_move.
func (s *Stack) HandleCursorMoved() {
	var kept []Popup
	for _, p := range s.popups {
		if p.DismissOnCursorMove() {
			continue
		}
		kept = append(kept, p)
	}
	s.popups = kept
}

// MouseDown routes a press at (x, y) against the currently computed
// placements. A press inside the topmost popup containing it routes
// there; a press outside every popup dismisses the whole stack and lets
// the click fall through.
func (s *Stack) MouseDown(placements map[string]layout.Rect, x, y int) (target Popup, result EventResult, fellThrough bool) {
	for i := len(s.popups) - 1; i >= 0; i-- {
		p := s.popups[i]
		rect, ok := placements[p.ID()]
		if !ok || !rectContains(rect, x, y) {
			continue
		}
		res := p.HandleEvent(Event{Kind: EventMouseDown, X: x, Y: y})
		if p.IsModal() {
			res.Consumed = true
		}
		if res.Dismiss {
			s.Dismiss(p.ID())
		}
		return p, res, false
	}
	s.DismissAll()
	return nil, EventResult{}, true
}

// MouseScroll routes a scroll event to whichever popup's placement
// contains (x, y), if any.
func (s *Stack) MouseScroll(placements map[string]layout.Rect, x, y, delta int) (Popup, EventResult, bool) {
	for i := len(s.popups) - 1; i >= 0; i-- {
		p := s.popups[i]
		rect, ok := placements[p.ID()]
		if !ok || !rectContains(rect, x, y) {
			continue
		}
		res := p.HandleEvent(Event{Kind: EventMouseScroll, X: x, Y: y, ScrollDelta: delta})
		return p, res, true
	}
	return nil, EventResult{}, false
}

func rectContains(r layout.Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
