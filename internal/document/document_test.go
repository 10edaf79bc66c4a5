package document

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/rope"
	"github.com/rowan-editor/rowan/internal/transaction"
)

const bufA BufferId = 1
const bufB BufferId = 2

func insertTx(t *testing.T, docLen, at int, s string) transaction.Transaction {
	t.Helper()
	tx, err := transaction.NewBuilder(docLen).Retain(at).InsertText(s).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tx
}

func TestApplyAdvancesVersionAndDirty(t *testing.T) {
	d := New(1, "hello")
	if d.Dirty() {
		t.Fatal("new document should not be dirty")
	}
	tx := insertTx(t, 5, 5, " world")
	if err := d.Apply(tx, map[BufferId]rope.Selection{bufA: rope.Single(rope.Point(5))}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if d.Text().String() != "hello world" {
		t.Fatalf("got %q", d.Text().String())
	}
	if d.Version() != 1 {
		t.Fatalf("expected version 1, got %d", d.Version())
	}
	if !d.Dirty() {
		t.Fatal("expected dirty after apply")
	}
}

func TestUndoRestoresSiblingSelections(t *testing.T) {
	d := New(1, "hello world")
	tx := insertTx(t, d.Text().LenChars(), 0, ">> ")
	pre := map[BufferId]rope.Selection{
		bufA: rope.Single(rope.Point(0)),
		bufB: rope.Single(rope.Point(11)),
	}
	if err := d.Apply(tx, pre); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !d.CanUndo() {
		t.Fatal("expected undo available")
	}
	res, ok := d.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if d.Text().String() != "hello world" {
		t.Fatalf("undo did not restore text, got %q", d.Text().String())
	}
	if res.Selections[bufA] != rope.Single(rope.Point(0)) {
		t.Errorf("bufA selection not restored: %+v", res.Selections[bufA])
	}
	if res.Selections[bufB] != rope.Single(rope.Point(11)) {
		t.Errorf("bufB selection not restored: %+v", res.Selections[bufB])
	}
}

func TestRedoReappliesAndRebasesSelections(t *testing.T) {
	d := New(1, "hello world")
	tx := insertTx(t, d.Text().LenChars(), 0, ">> ")
	pre := map[BufferId]rope.Selection{bufA: rope.Single(rope.Point(0))}
	if err := d.Apply(tx, pre); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := d.Undo(); !ok {
		t.Fatal("undo failed")
	}
	res, ok := d.Redo()
	if !ok {
		t.Fatal("redo failed")
	}
	if d.Text().String() != ">> hello world" {
		t.Fatalf("redo did not reapply, got %q", d.Text().String())
	}
	if res.Selections[bufA] != rope.Single(rope.Point(3)) {
		t.Errorf("expected rebased selection to move past the insertion at its head (3), got %+v", res.Selections[bufA])
	}
}

func TestApplyRejectsStaleBaseLen(t *testing.T) {
	d := New(1, "hello")
	tx := insertTx(t, 999, 0, "x")
	if err := d.Apply(tx, nil); err == nil {
		t.Fatal("expected error for mismatched base length")
	}
}

func TestInsertGroupCoalescesUndoEntries(t *testing.T) {
	d := New(1, "")
	d.BeginInsertGroup()
	for _, ch := range []string{"h", "e", "l", "l", "o"} {
		tx := insertTx(t, d.Text().LenChars(), d.Text().LenChars(), ch)
		if err := d.Apply(tx, map[BufferId]rope.Selection{bufA: rope.Single(rope.Point(d.Text().LenChars()))}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	d.EndInsertGroup()
	if d.Text().String() != "hello" {
		t.Fatalf("got %q", d.Text().String())
	}
	if _, ok := d.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if d.Text().String() != "" {
		t.Fatalf("expected a single coalesced undo entry to clear all typing, got %q", d.Text().String())
	}
}

func TestInsertGroupDoesNotAbsorbPriorEdit(t *testing.T) {
	d := New(1, "")
	tx := insertTx(t, 0, 0, "x")
	if err := d.Apply(tx, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}

	d.BeginInsertGroup()
	for _, ch := range []string{"a", "b"} {
		tx := insertTx(t, d.Text().LenChars(), d.Text().LenChars(), ch)
		if err := d.Apply(tx, nil); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	d.EndInsertGroup()

	// Undoing the group removes only the grouped typing, not the edit
	// that preceded it.
	if _, ok := d.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if d.Text().String() != "x" {
		t.Fatalf("expected group undo to leave %q, got %q", "x", d.Text().String())
	}
}

type recordingTracker struct {
	edits []string
}

func (r *recordingTracker) Edit(tx transaction.Transaction, newText string) error {
	r.edits = append(r.edits, newText)
	return nil
}

func TestSyntaxTrackerNotifiedOnApplyUndoRedo(t *testing.T) {
	d := New(1, "ab")
	tracker := &recordingTracker{}
	d.SetSyntax(tracker)

	tx := insertTx(t, 2, 2, "c")
	if err := d.Apply(tx, map[BufferId]rope.Selection{bufA: rope.Single(rope.Point(2))}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := d.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if _, ok := d.Redo(); !ok {
		t.Fatal("redo failed")
	}

	want := []string{"abc", "ab", "abc"}
	if len(tracker.edits) != len(want) {
		t.Fatalf("expected %d syntax notifications, got %d: %v", len(want), len(tracker.edits), tracker.edits)
	}
	for i, w := range want {
		if tracker.edits[i] != w {
			t.Fatalf("notification %d: expected %q, got %q", i, w, tracker.edits[i])
		}
	}
}
