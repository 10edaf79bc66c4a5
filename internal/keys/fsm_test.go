package keys

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/registry"
)

func TestKeyPressIndexModifiers(t *testing.T) {
	base := KeyPress{Key: 'a'}.Index()
	withShift := KeyPress{Key: 'a', Shift: true}.Index()
	if withShift != base+shift {
		t.Errorf("expected shift to add %d, got delta %d", shift, withShift-base)
	}
}

func TestKeyPressFixUppercase(t *testing.T) {
	k := KeyPress{Key: 'A'}
	k.fix()
	if k.Key != 'a' || !k.Shift {
		t.Errorf("expected fix() to lowercase+shift, got %+v", k)
	}
}

func TestKeyPressString(t *testing.T) {
	k := KeyPress{Key: 'a', Shift: true, Super: true}
	if got := k.String(); got != "super+shift+a" {
		t.Errorf("expected %q, got %q", "super+shift+a", got)
	}
}

func TestTrieLeafAndPrefix(t *testing.T) {
	tr := NewTrie()
	tr.Bind(Sequence{{Key: 'g'}, {Key: 'g'}}, "goto_top")

	kind, _ := tr.Lookup(Sequence{{Key: 'g'}})
	if kind != Prefix {
		t.Fatalf("expected prefix match for 'g', got %v", kind)
	}
	kind, action := tr.Lookup(Sequence{{Key: 'g'}, {Key: 'g'}})
	if kind != Leaf || action != "goto_top" {
		t.Fatalf("expected leaf goto_top, got %v %q", kind, action)
	}
	kind, _ = tr.Lookup(Sequence{{Key: 'x'}})
	if kind != NoMatch {
		t.Fatalf("expected no match for 'x', got %v", kind)
	}
}

func TestFSMCountAccumulation(t *testing.T) {
	f := NewFSM()
	f.Trie(ModeNormal).Bind(Sequence{{Key: 'j'}}, "move_down")

	ev := f.HandleKey(KeyPress{Key: '3'})
	if ev.Kind != EventDigit {
		t.Fatalf("expected digit event, got %v", ev.Kind)
	}
	ev = f.HandleKey(KeyPress{Key: 'j'})
	if ev.Kind != EventAction || ev.Action != "move_down" || ev.Count != 3 {
		t.Fatalf("expected move_down with count 3, got %+v", ev)
	}
}

func TestFSMDefaultCountIsOne(t *testing.T) {
	f := NewFSM()
	f.Trie(ModeNormal).Bind(Sequence{{Key: 'j'}}, "move_down")
	ev := f.HandleKey(KeyPress{Key: 'j'})
	if ev.Count != 1 {
		t.Fatalf("expected default count 1, got %d", ev.Count)
	}
}

func TestFSMNoMatchInsertFallsThrough(t *testing.T) {
	f := NewFSM()
	f.SetMode(ModeInsert)
	ev := f.HandleKey(KeyPress{Key: 'x'})
	if ev.Kind != EventInsertDefault {
		t.Fatalf("expected default insert in Insert mode on no match, got %v", ev.Kind)
	}
}

func TestFSMNoMatchNormalClears(t *testing.T) {
	f := NewFSM()
	ev := f.HandleKey(KeyPress{Key: 'Q'})
	if ev.Kind != EventCleared {
		t.Fatalf("expected cleared in Normal mode on no match, got %v", ev.Kind)
	}
}

func TestFSMPendingCharArg(t *testing.T) {
	f := NewFSM()
	f.EnterPending(registry.PendingCharArg)
	ev := f.HandleKey(KeyPress{Key: 'x'})
	if ev.Kind != EventCharArgFed || ev.CharArg != 'x' || ev.Pending != registry.PendingCharArg {
		t.Fatalf("expected char-arg fed with 'x', got %+v", ev)
	}
}

func TestFSMRegisterPrefix(t *testing.T) {
	f := NewFSM()
	f.Trie(ModeNormal).Bind(Sequence{{Key: 'p'}}, "paste")
	ev := f.HandleKey(KeyPress{Key: '"'})
	if ev.Kind != EventWaiting {
		t.Fatalf("expected waiting after register prefix, got %v", ev.Kind)
	}
	ev = f.HandleKey(KeyPress{Key: 'a'})
	if ev.Kind != EventWaiting {
		t.Fatalf("expected waiting after register name, got %v", ev.Kind)
	}
	ev = f.HandleKey(KeyPress{Key: 'p'})
	if ev.Kind != EventAction || ev.Register != 'a' {
		t.Fatalf("expected paste dispatched with register 'a', got %+v", ev)
	}
}
