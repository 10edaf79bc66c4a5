package transaction

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/rope"
)

func buildInsert(t *testing.T, docLen, at int, text string) Transaction {
	t.Helper()
	tx, err := NewBuilder(docLen).Retain(at).InsertText(text).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tx
}

func buildDelete(t *testing.T, docLen, at, n int) Transaction {
	t.Helper()
	tx, err := NewBuilder(docLen).Retain(at).Delete(n).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tx
}

func TestApplyInsert(t *testing.T) {
	r := rope.New("hello world")
	tx := buildInsert(t, r.LenChars(), 5, ",")
	got := tx.Apply(r).String()
	if want := "hello, world"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyDelete(t *testing.T) {
	r := rope.New("hello world")
	tx := buildDelete(t, r.LenChars(), 5, 6)
	got := tx.Apply(r).String()
	if want := "hello"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Applying tx then tx.Invert(before) to a rope yields the original
// rope.
func TestInvertRoundTripInsert(t *testing.T) {
	before := rope.New("hello world")
	tx := buildInsert(t, before.LenChars(), 5, ", there")
	after := tx.Apply(before)
	inv := tx.Invert(before)
	back := inv.Apply(after)
	if back.String() != before.String() {
		t.Errorf("round trip failed: got %q, want %q", back.String(), before.String())
	}
}

func TestInvertRoundTripDelete(t *testing.T) {
	before := rope.New("hello world")
	tx := buildDelete(t, before.LenChars(), 0, 6)
	after := tx.Apply(before)
	inv := tx.Invert(before)
	back := inv.Apply(after)
	if back.String() != before.String() {
		t.Errorf("round trip failed: got %q, want %q", back.String(), before.String())
	}
}

func TestInvertRoundTripReplace(t *testing.T) {
	before := rope.New("the quick brown fox")
	tx, err := NewBuilder(before.LenChars()).Retain(4).Delete(5).InsertText("slow").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	after := tx.Apply(before)
	if got, want := after.String(), "the slow brown fox"; got != want {
		t.Fatalf("apply: got %q, want %q", got, want)
	}
	inv := tx.Invert(before)
	back := inv.Apply(after)
	if back.String() != before.String() {
		t.Errorf("round trip failed: got %q, want %q", back.String(), before.String())
	}
}

func TestComposeInsertThenInsert(t *testing.T) {
	before := rope.New("hello world")
	tx1 := buildInsert(t, before.LenChars(), 0, "say: ")
	mid := tx1.Apply(before)
	tx2 := buildInsert(t, mid.LenChars(), mid.LenChars(), "!")
	composed, err := Compose(tx1, tx2)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	got := composed.Apply(before).String()
	want := tx2.Apply(tx1.Apply(before)).String()
	if got != want {
		t.Errorf("composed apply mismatch: got %q, want %q", got, want)
	}
}

func TestComposeDeleteThenRetain(t *testing.T) {
	before := rope.New("hello world")
	tx1 := buildDelete(t, before.LenChars(), 0, 6)
	mid := tx1.Apply(before)
	tx2 := buildDelete(t, mid.LenChars(), 0, 0)
	composed, err := Compose(tx1, tx2)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got, want := composed.Apply(before).String(), "world"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildRejectsOverConsumption(t *testing.T) {
	_, err := NewBuilder(3).Retain(5).Build()
	if err == nil {
		t.Fatal("expected error for over-consuming builder")
	}
}

func TestMapPositionAcrossInsertAndDelete(t *testing.T) {
	before := rope.New("hello world")
	tx, err := NewBuilder(before.LenChars()).InsertText(">> ").Retain(5).Delete(6).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	after := tx.Apply(before)
	if got, want := after.String(), ">> hello"; got != want {
		t.Fatalf("apply: got %q, want %q", got, want)
	}
	// "hello" starts at source offset 0, maps to dest offset 3 (after the
	// inserted ">> ").
	if got := tx.MapPosition(0); got != 3 {
		t.Errorf("MapPosition(0) = %d, want 3", got)
	}
	// Offset 7 falls inside the deleted " world" span and collapses to
	// the edit point in the output (8, right after "hello").
	if got := tx.MapPosition(7); got != 8 {
		t.Errorf("MapPosition(7) = %d, want 8", got)
	}
}

func TestRebaseSelectionThroughTransaction(t *testing.T) {
	before := rope.New("hello world")
	tx := buildInsert(t, before.LenChars(), 0, "say: ")
	sel := rope.NewSelection(rope.Point(0), rope.Point(6))
	rebased := tx.RebaseSelection(sel)
	ranges := rebased.Ranges()
	if ranges[0] != rope.Point(5) || ranges[1] != rope.Point(11) {
		t.Errorf("unexpected rebase: %+v", ranges)
	}
}
