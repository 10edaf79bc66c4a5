package layout

import "testing"

func TestSingleLeafHasNoSeparators(t *testing.T) {
	l := Single(Text(1))
	area := Rect{0, 0, 80, 24}
	if seps := l.SeparatorPositions(area); len(seps) != 0 {
		t.Fatalf("expected no separators for a single leaf, got %v", seps)
	}
	if _, ok := l.Remove(Text(1)); ok {
		t.Fatal("expected Remove on the sole leaf to report emptied tree")
	}
}

func TestComputeViewAreasDisjointAndCovers(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), Single(Text(2)))
	area := Rect{0, 0, 81, 24}
	areas := l.ComputeViewAreas(area)
	if len(areas) != 2 {
		t.Fatalf("expected 2 leaf areas, got %d", len(areas))
	}
	a, b := areas[0].Area, areas[1].Area
	if a.X+a.Width >= b.X {
		t.Fatalf("expected areas to be disjoint with room for separator: %+v %+v", a, b)
	}
	totalWidth := a.Width + 1 + b.Width // +1 separator column
	if totalWidth != area.Width {
		t.Fatalf("expected areas plus separator to cover input width, got %d want %d", totalWidth, area.Width)
	}
}

func TestViewAtFindsLeaf(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), Single(Text(2)))
	area := Rect{0, 0, 81, 24}
	v, ok := l.ViewAt(area, 79, 5)
	if !ok || v.BufferID != 2 {
		t.Fatalf("expected right pane (buffer 2), got %+v ok=%v", v, ok)
	}
}

func TestResizeAtPathUpdatesSeparator(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), Single(Text(2)))
	area := Rect{0, 0, 81, 24}

	_, sepRect, path, ok := l.SeparatorWithPathAt(area, 40, 5)
	if !ok {
		t.Fatal("expected to find a separator at x=40")
	}
	_ = sepRect

	if err := l.ResizeAtPath(area, path, 70, 5); err != nil {
		t.Fatalf("ResizeAtPath failed: %v", err)
	}
	newSep, err := l.SeparatorRectAtPath(area, path)
	if err != nil {
		t.Fatalf("SeparatorRectAtPath failed: %v", err)
	}
	if newSep.X <= sepRect.X {
		t.Fatalf("expected separator to move right after resize, before=%d after=%d", sepRect.X, newSep.X)
	}
}

func TestRemoveCollapsesSplit(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), Single(Text(2)))
	remaining, ok := l.Remove(Text(1))
	if !ok {
		t.Fatal("expected Remove to report non-empty result")
	}
	if !remaining.IsLeaf() {
		t.Fatal("expected removing one side of a 2-leaf split to collapse to the other leaf")
	}
	v, _ := remaining.Leaf()
	if v.BufferID != 2 {
		t.Fatalf("expected surviving leaf to be buffer 2, got %+v", v)
	}
}

func TestNextViewCyclesInOrder(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), NewSplit(V, 0.5, Single(Text(2)), Single(Terminal(9))))
	next, ok := l.NextView(Text(1))
	if !ok || next.BufferID != 2 {
		t.Fatalf("expected next view to be buffer 2, got %+v", next)
	}
	next, ok = l.NextView(Terminal(9))
	if !ok || next.BufferID != 1 {
		t.Fatalf("expected wraparound to buffer 1, got %+v", next)
	}
}

func TestNextBufferSkipsTerminals(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), NewSplit(V, 0.5, Single(Terminal(9)), Single(Text(2))))
	next, ok := l.NextBuffer(Text(1))
	if !ok || next.BufferID != 2 {
		t.Fatalf("expected NextBuffer to skip the terminal leaf, got %+v", next)
	}
}

func TestInOrderPredecessor(t *testing.T) {
	l := NewSplit(H, 0.5, Single(Text(1)), Single(Text(2)))
	pred, ok := l.InOrderPredecessor(Text(2))
	if !ok || pred.BufferID != 1 {
		t.Fatalf("expected predecessor of buffer 2 to be buffer 1, got %+v", pred)
	}
}

func TestViewInDirection(t *testing.T) {
	// Two panes side by side: buffer 1 left, buffer 2 right.
	l := NewSplit(H, 0.5, Single(Text(1)), Single(Text(2)))
	area := Rect{0, 0, 81, 24}
	v, ok := l.ViewInDirection(area, Text(1), Right, 5)
	if !ok || v.BufferID != 2 {
		t.Fatalf("expected Right from buffer 1 to find buffer 2, got %+v ok=%v", v, ok)
	}
	_, ok = l.ViewInDirection(area, Text(1), Left, 5)
	if ok {
		t.Fatal("expected no candidate to the left of the leftmost pane")
	}
}
