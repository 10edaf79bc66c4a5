package keys

import (
	"unicode"

	"github.com/rowan-editor/rowan/internal/registry"
)

// Mode names one of the input FSM's base modes. A
// PendingAction continuation is tracked as a separate field rather than
// a distinct Mode value, but behaves like one: while pendingKind != nil
// every incoming key is consumed as the pending continuation's input
// instead of being looked up in a mode trie.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeInsert Mode = "insert"
	ModeWindow Mode = "window"
	ModeMatch  Mode = "match"
	ModeSpace  Mode = "space"
	ModeGoto   Mode = "goto"
	ModeView   Mode = "view"
)

// EventKind is what HandleKey decided to do with the key it was given.
type EventKind int

const (
	// EventWaiting means the pending sequence is a prefix of one or more
	// bindings; the FSM emits a "pending prompt" and waits for more input.
	EventWaiting EventKind = iota
	// EventCleared means no trie match existed for the accumulated
	// sequence and pending state was reset.
	EventCleared
	// EventInsertDefault means no match existed, the sequence was a
	// single key, and mode is Insert: the default text-insertion action
	// should run.
	EventInsertDefault
	// EventAction means a leaf match resolved and the caller should
	// build an ActionContext with the returned fields and dispatch.
	EventAction
	// EventCharArgFed means the FSM was in a PendingAction continuation
	// and this key satisfied it; CharArg carries the fed key's rune and
	// the FSM has returned to its prior mode.
	EventCharArgFed
	// EventDigit means the key was consumed into pending_count and no
	// further action is needed this keystroke.
	EventDigit
)

// Event is HandleKey's result.
type Event struct {
	Kind     EventKind
	Action   string
	Count    int
	Register rune
	Extend   bool
	CharArg  rune
	Pending  registry.PendingKind // valid when Kind == EventCharArgFed: which continuation this satisfied
	Key      KeyPress    // the raw key, useful for EventInsertDefault/EventCharArgFed
}

// FSM is the per-editor input state machine.
type FSM struct {
	tries map[Mode]*Trie
	mode  Mode

	pendingKeys    Sequence
	pendingCount   int // 0 means "no explicit count yet"
	pendingRegister rune
	awaitingRegister bool
	pendingKind    *registry.PendingKind
	extend         bool
}

// NewFSM builds an FSM with an empty trie for every base mode. Callers
// populate tries via Bind before first use (typically once at startup
// from the frozen registry.Keybindings table).
func NewFSM() *FSM {
	f := &FSM{
		tries: map[Mode]*Trie{
			ModeNormal: NewTrie(),
			ModeInsert: NewTrie(),
			ModeWindow: NewTrie(),
			ModeMatch:  NewTrie(),
			ModeSpace:  NewTrie(),
			ModeGoto:   NewTrie(),
			ModeView:   NewTrie(),
		},
		mode: ModeNormal,
	}
	return f
}

// Trie returns the mutable trie for a mode, for bulk Bind calls at
// startup.
func (f *FSM) Trie(m Mode) *Trie { return f.tries[m] }

// Mode returns the FSM's current base mode.
func (f *FSM) Mode() Mode { return f.mode }

// SetMode switches the base mode and clears any pending input, matching
// a ModeChanged hook firing before resolution of further keys is
// meaningful in the old mode.
func (f *FSM) SetMode(m Mode) {
	f.mode = m
	f.resetPending()
}

// SetExtend sets whether motions should preserve the anchor (the
// shift modifier / explicit extend mode).
func (f *FSM) SetExtend(v bool) { f.extend = v }

func (f *FSM) resetPending() {
	f.pendingKeys = nil
	f.pendingCount = 0
	f.awaitingRegister = false
}

// EnterPending switches the FSM into a PendingAction(kind)
// continuation: the Action handler returned Pending(kind) and the
// editor is telling the FSM the next key should feed that context
// field.
func (f *FSM) EnterPending(kind registry.PendingKind) {
	k := kind
	f.pendingKind = &k
	f.pendingKeys = nil
}

// count returns the resolved count for this keystroke's dispatch,
// defaulting to 1.
func (f *FSM) count() int {
	if f.pendingCount == 0 {
		return 1
	}
	return f.pendingCount
}

// HandleKey feeds one KeyPress through the resolution algorithm:
// count digits accumulate, a register prefix waits for its name, and
// everything else runs through the active mode's trie.
func (f *FSM) HandleKey(k KeyPress) Event {
	k.fix()

	// A pending char-arg/text-object/register continuation short-circuits
	// the trie entirely: the very next key is the fed value.
	if f.pendingKind != nil {
		kind := *f.pendingKind
		f.pendingKind = nil
		return Event{Kind: EventCharArgFed, CharArg: k.Character(), Pending: kind, Key: k}
	}
	if f.awaitingRegister {
		f.awaitingRegister = false
		f.pendingRegister = k.Character()
		return Event{Kind: EventWaiting, Key: k}
	}

	// Step 1: digit accumulation, Normal mode only, not mid-sequence.
	if f.mode == ModeNormal && len(f.pendingKeys) == 0 && unicode.IsDigit(k.Key) && k.IsCharacter() {
		if !(f.pendingCount == 0 && k.Key == '0') { // a leading "0" is itself a motion (start of line), not a count digit
			f.pendingCount = f.pendingCount*10 + int(k.Key-'0')
			return Event{Kind: EventDigit, Key: k}
		}
	}

	// The register-prefix key '"' begins a one-key register-name wait.
	if f.mode == ModeNormal && len(f.pendingKeys) == 0 && k.Key == '"' && k.IsCharacter() {
		f.awaitingRegister = true
		return Event{Kind: EventWaiting, Key: k}
	}

	f.pendingKeys = append(f.pendingKeys, k)
	trie := f.tries[f.mode]
	kind, action := trie.Lookup(f.pendingKeys)

	switch kind {
	case NoMatch:
		single := len(f.pendingKeys) == 1
		f.resetPending()
		if single && f.mode == ModeInsert && k.IsCharacter() {
			return Event{Kind: EventInsertDefault, Key: k}
		}
		return Event{Kind: EventCleared, Key: k}
	case Prefix:
		return Event{Kind: EventWaiting, Key: k}
	default: // Leaf
		count := f.count()
		reg := f.pendingRegister
		f.pendingRegister = 0
		f.resetPending()
		return Event{Kind: EventAction, Action: action, Count: count, Register: reg, Extend: f.extend, Key: k}
	}
}
