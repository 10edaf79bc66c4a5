package registry

import "testing"

func TestIndexDeterministicLookup(t *testing.T) {
	var idx Index[*Action]
	idx.Register(&Action{ID: "a", Name: "alpha", Priority: 1})
	idx.Register(&Action{ID: "b", Name: "beta", Priority: 0})

	first, ok := idx.ByName("alpha")
	if !ok || first.ID != "a" {
		t.Fatalf("expected to find alpha/a, got %+v ok=%v", first, ok)
	}
	second, ok := idx.ByName("alpha")
	if !ok || second.ID != first.ID {
		t.Fatalf("expected repeated lookups to agree: %+v vs %+v", first, second)
	}
}

func TestIndexCollisionPriorityThenID(t *testing.T) {
	var idx Index[*Action]
	idx.Register(&Action{ID: "z", Name: "dup", Priority: 5})
	idx.Register(&Action{ID: "a", Name: "dup", Priority: 5})
	idx.Freeze(false)

	winner, ok := idx.ByName("dup")
	if !ok || winner.ID != "a" {
		t.Fatalf("expected id 'a' to win tie on priority, got %+v", winner)
	}
	cols := idx.Collisions()
	if len(cols) != 1 || cols[0].WinnerID != "a" || cols[0].ShadowedID != "z" {
		t.Fatalf("unexpected collision record: %+v", cols)
	}
}

func TestIndexCollisionHigherPriorityWins(t *testing.T) {
	var idx Index[*Action]
	idx.Register(&Action{ID: "low", Name: "dup", Priority: 1})
	idx.Register(&Action{ID: "high", Name: "dup", Priority: 10})
	idx.Freeze(false)

	winner, ok := idx.ByName("dup")
	if !ok || winner.ID != "high" {
		t.Fatalf("expected higher priority id to win, got %+v", winner)
	}
}

func TestIndexStrictFreezePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected Freeze(strict=true) to panic on collision")
		}
	}()
	var idx Index[*Action]
	idx.Register(&Action{ID: "x", Name: "dup"})
	idx.Register(&Action{ID: "y", Name: "dup"})
	idx.Freeze(true)
}

func TestValidateCapabilitiesRejectsUnknown(t *testing.T) {
	if err := ValidateCapabilities([]Capability{CapCursor}); err != nil {
		t.Fatalf("expected known capability to validate, got %v", err)
	}
	if err := ValidateCapabilities([]Capability{"bogus"}); err == nil {
		t.Fatal("expected unknown capability to error")
	}
}

func TestTextObjectByTrigger(t *testing.T) {
	ResetAll()
	defer ResetAll()
	RegisterTextObject(&TextObject{ID: "word", Name: "word", Trigger: 'w'})
	RegisterTextObject(&TextObject{ID: "paren", Name: "paren", Trigger: '(', AltTriggers: []rune{')', 'b'}})

	to, ok := TextObjects().ByTrigger('b')
	if !ok || to.ID != "paren" {
		t.Fatalf("expected alt trigger 'b' to resolve to paren, got %+v", to)
	}
	to, ok = TextObjects().ByTrigger('w')
	if !ok || to.ID != "word" {
		t.Fatalf("expected trigger 'w' to resolve to word, got %+v", to)
	}
}

func TestCapabilitiesHas(t *testing.T) {
	c := Capabilities{}
	if c.Has([]Capability{CapCursor}) {
		t.Fatal("expected empty Capabilities to fail Has check")
	}
}
