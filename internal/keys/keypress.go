// Package keys implements KeyPress, a
// per-mode keymap trie built from registry.Keybinding entries, and the
// input finite-state machine that turns a stream of KeyPresses into
// resolved actions plus pending-input state (count, register,
// char-arg).
package keys

import (
	"fmt"
	"strings"
)

// Modifier bit offsets: shift/super/alt/ctrl each add a power-of-two
// band above the rune range so every (key, modifiers) combination gets
// a distinct int.
const (
	shift = 0x10000000
	super = 0x20000000
	alt   = 0x40000000
	ctrl  = 0x80000000
)

// KeyPress is one physical key event with its modifier state.
type KeyPress struct {
	Key   rune
	Shift bool
	Super bool
	Alt   bool
	Ctrl  bool
}

// Index returns a unique integer encoding of the key press, usable as a
// map/trie key.
func (k KeyPress) Index() int {
	i := int(k.Key)
	if k.Shift {
		i += shift
	}
	if k.Super {
		i += super
	}
	if k.Alt {
		i += alt
	}
	if k.Ctrl {
		i += ctrl
	}
	return i
}

// IsCharacter reports whether this key press represents plain typed
// text (no Super/Ctrl, Shift allowed for uppercase letters) rather than
// a chorded shortcut.
func (k KeyPress) IsCharacter() bool {
	return !k.Super && !k.Ctrl
}

// Character returns the rune this key press types, undoing fix()'s
// lowercase+Shift canonicalization for letters: shift+h types 'H'.
func (k KeyPress) Character() rune {
	if k.Shift && k.Key >= 'a' && k.Key <= 'z' {
		return k.Key - ('a' - 'A')
	}
	return k.Key
}

// fix canonicalizes an uppercase ASCII letter key into lowercase+Shift,
// so "A" and "shift+a" always compare equal.
func (k *KeyPress) fix() {
	if k.Key >= 'A' && k.Key <= 'Z' {
		k.Key += 'a' - 'A'
		k.Shift = true
	}
}

// New builds a canonicalized KeyPress.
func New(key rune, shiftMod, superMod, altMod, ctrlMod bool) KeyPress {
	k := KeyPress{Key: key, Shift: shiftMod, Super: superMod, Alt: altMod, Ctrl: ctrlMod}
	k.fix()
	return k
}

// String renders the key press the way keybinding configs name it,
// e.g. "super+shift+a", "ctrl+w".
func (k KeyPress) String() string {
	var parts []string
	if k.Super {
		parts = append(parts, "super")
	}
	if k.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Alt {
		parts = append(parts, "alt")
	}
	if k.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, string(k.Key))
	return strings.Join(parts, "+")
}

// Parse turns a keybinding-config string like "ctrl+w" or "s" back into
// a KeyPress. It is the inverse of String for well-formed input.
func Parse(s string) (KeyPress, error) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 {
		return KeyPress{}, fmt.Errorf("keys: empty key string")
	}
	keyPart := parts[len(parts)-1]
	if keyPart == "" {
		return KeyPress{}, fmt.Errorf("keys: malformed key string %q", s)
	}
	r := []rune(keyPart)
	if len(r) != 1 {
		return KeyPress{}, fmt.Errorf("keys: multi-rune key name %q not supported", keyPart)
	}
	k := KeyPress{Key: r[0]}
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "super":
			k.Super = true
		case "ctrl":
			k.Ctrl = true
		case "alt":
			k.Alt = true
		case "shift":
			k.Shift = true
		default:
			return KeyPress{}, fmt.Errorf("keys: unknown modifier %q in %q", mod, s)
		}
	}
	k.fix()
	return k, nil
}

// Sequence is an ordered run of KeyPresses, the unit a Keybinding and
// the input FSM's pending_keys both operate on.
type Sequence []KeyPress

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = k.String()
	}
	return strings.Join(parts, " ")
}
