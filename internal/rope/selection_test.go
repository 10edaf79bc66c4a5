package rope

import "testing"

func TestSelectionNormalizeMergesOverlaps(t *testing.T) {
	s := NewSelection(Region{0, 3}, Region{2, 5}, Region{8, 10})
	if s.Len() != 2 {
		t.Fatalf("expected 2 ranges after merge, got %d", s.Len())
	}
	ranges := s.Ranges()
	if ranges[0] != (Region{0, 5}) {
		t.Errorf("expected merged range {0,5}, got %+v", ranges[0])
	}
}

func TestSelectionPrimaryIsLast(t *testing.T) {
	// Selecting all then splitting on newlines leaves the primary on
	// the last range.
	s := NewSelection(Region{0, 3}, Region{4, 7}, Region{8, 13})
	if s.Primary() != (Region{8, 13}) {
		t.Errorf("expected primary to be last range, got %+v", s.Primary())
	}
}

func TestSelectionAdjustRebasesAllRanges(t *testing.T) {
	s := NewSelection(Region{1, 1}, Region{10, 10})
	out := s.Adjust(0, 5) // insert 5 chars at offset 0
	ranges := out.Ranges()
	if ranges[0] != Point(6) || ranges[1] != Point(15) {
		t.Errorf("unexpected rebase: %+v", ranges)
	}
}

func TestSelectionAdjustCollapsesDeletedSpan(t *testing.T) {
	s := Single(Point(5))
	out := s.Adjust(2, -10) // erase [2, 12), point 5 is inside it
	if out.Primary() != Point(2) {
		t.Errorf("expected point to collapse to edit start, got %+v", out.Primary())
	}
}

func TestEmptyDocumentCursorAtZero(t *testing.T) {
	s := Single(Point(0))
	if s.Cursor() != 0 {
		t.Errorf("expected cursor 0 on empty doc, got %d", s.Cursor())
	}
}
