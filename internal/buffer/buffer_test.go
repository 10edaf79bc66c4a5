package buffer

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/document"
	"github.com/rowan-editor/rowan/internal/rope"
)

func TestPrepareInsertAtCursor(t *testing.T) {
	doc := document.New(1, "hello")
	buf := New(1, doc)
	buf.SetCursor(5)

	tx, err := buf.PrepareInsertAtSelection(" world")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if _, ok := doc.Undo(); ok {
		t.Fatal("nothing should be undoable yet")
	}
	if err := doc.Apply(tx, map[document.BufferId]rope.Selection{1: buf.Selection()}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := doc.Text().String(); got != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", got)
	}
	buf.ApplySelectionRebase(tx)
	if buf.Cursor() != 11 {
		t.Fatalf("expected cursor at 11, got %d", buf.Cursor())
	}
}

func TestPrepareDeleteSelection(t *testing.T) {
	doc := document.New(1, "hello world")
	buf := New(1, doc)
	buf.SetSelection(rope.Single(rope.Region{Anchor: 0, Head: 6}))

	tx, err := buf.PrepareDeleteSelection()
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := doc.Apply(tx, map[document.BufferId]rope.Selection{1: buf.Selection()}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	buf.ApplySelectionRebase(tx)
	if got := doc.Text().String(); got != "world" {
		t.Fatalf("expected %q, got %q", "world", got)
	}
	if buf.Cursor() != 0 {
		t.Fatalf("expected cursor at 0 after deleting leading selection, got %d", buf.Cursor())
	}
}

func TestSetCursorClearsPreferredColumn(t *testing.T) {
	doc := document.New(1, "abc\ndef")
	buf := New(1, doc)
	buf.SetPreferredColumn(2)
	buf.SetCursor(1)
	if buf.PreferredColumn() != nil {
		t.Fatal("expected SetCursor to clear the preferred column")
	}
}

func TestPrepareDeleteCharsBackspace(t *testing.T) {
	doc := document.New(1, "abc")
	buf := New(1, doc)
	buf.SetCursor(3)
	tx, err := buf.PrepareDeleteChars(1, false)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := doc.Apply(tx, map[document.BufferId]rope.Selection{1: buf.Selection()}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	buf.ApplySelectionRebase(tx)
	if got := doc.Text().String(); got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
}
