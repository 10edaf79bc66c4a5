package registry

import "fmt"

// The process-wide tables, one per entry kind. Each stdactions/*.go
// file calls the corresponding Register* function from its own
// init().
var (
	Actions            Index[*Action]
	Motions            Index[*Motion]
	Commands           Index[*Command]
	Hooks              Index[*Hook]
	Options            Index[*Option]
	Keybindings        Index[*Keybinding]
	Panels             Index[*Panel]
	StatuslineSegments Index[*StatuslineSegment]
	Notifications      Index[*NotificationType]

	textObjects textObjectIndex
)

// textObjectIndex wraps Index[*TextObject] with the additional
// by-trigger lookup text objects need (primary + alternates).
type textObjectIndex struct {
	Index[*TextObject]
	byTrigger map[rune]*TextObject
}

// RegisterTextObject adds a text object to the pending set.
func RegisterTextObject(t *TextObject) { textObjects.Register(t) }

// TextObjects returns the frozen text-object table (building it lazily
// on first use, same as Index[T]).
func TextObjects() *textObjectIndex {
	textObjects.ensureFrozen()
	return &textObjects
}

// ByTrigger looks up a text object by its primary or alternate trigger
// character.
func (t *textObjectIndex) ByTrigger(r rune) (*TextObject, bool) {
	t.ensureFrozen()
	if t.byTrigger == nil {
		t.buildTriggerIndex()
	}
	to, ok := t.byTrigger[r]
	return to, ok
}

func (t *textObjectIndex) buildTriggerIndex() {
	t.byTrigger = make(map[rune]*TextObject)
	var collisions []Collision
	for _, e := range t.All() {
		for _, r := range e.triggers() {
			claimRune(t.byTrigger, &collisions, r, e)
		}
	}
	t.collisions = append(t.collisions, collisions...)
}

func claimRune(table map[rune]*TextObject, collisions *[]Collision, key rune, e *TextObject) {
	cur, ok := table[key]
	if !ok {
		table[key] = e
		return
	}
	winner, shadowed := pickWinner(cur, e)
	table[key] = winner
	*collisions = append(*collisions, Collision{
		Key:        string(key),
		Source:     "trigger",
		WinnerID:   winner.EntryID(),
		ShadowedID: shadowed.EntryID(),
	})
}

// Register* convenience wrappers, one per table.
func RegisterAction(a *Action)                     { Actions.Register(a) }
func RegisterMotion(m *Motion)                     { Motions.Register(m) }
func RegisterCommand(c *Command)                   { Commands.Register(c) }
func RegisterHook(h *Hook)                         { Hooks.Register(h) }
func RegisterOption(o *Option)                      { Options.Register(o) }
func RegisterKeybinding(k *Keybinding)              { Keybindings.Register(k) }
func RegisterPanel(p *Panel)                        { Panels.Register(p) }
func RegisterStatuslineSegment(s *StatuslineSegment) { StatuslineSegments.Register(s) }
func RegisterNotificationType(n *NotificationType)   { Notifications.Register(n) }

// FreezeAll freezes every table and validates RequiredCaps on Actions
// and Commands, so a reference to an unimplemented capability is
// rejected at startup rather than at first dispatch; the returned error
// reports only such an unknown capability. strict selects the
// debug-build collision policy (panic) vs the release one (record the
// collisions, readable through each table's Collisions, and continue).
func FreezeAll(strict bool) error {
	Actions.Freeze(strict)
	Motions.Freeze(strict)
	Commands.Freeze(strict)
	Hooks.Freeze(strict)
	Options.Freeze(strict)
	Keybindings.Freeze(strict)
	Panels.Freeze(strict)
	StatuslineSegments.Freeze(strict)
	Notifications.Freeze(strict)
	textObjects.Freeze(strict)
	textObjects.buildTriggerIndex()

	for _, a := range Actions.All() {
		if err := ValidateCapabilities(a.RequiredCaps); err != nil {
			return fmt.Errorf("registry: action %q: %w", a.ID, err)
		}
	}
	for _, c := range Commands.All() {
		if err := ValidateCapabilities(c.RequiredCaps); err != nil {
			return fmt.Errorf("registry: command %q: %w", c.ID, err)
		}
	}
	return nil
}

// ResetAll clears every table. Test-only.
func ResetAll() {
	Actions.Reset()
	Motions.Reset()
	Commands.Reset()
	Hooks.Reset()
	Options.Reset()
	Keybindings.Reset()
	Panels.Reset()
	StatuslineSegments.Reset()
	Notifications.Reset()
	textObjects.Reset()
	textObjects.byTrigger = nil
}
