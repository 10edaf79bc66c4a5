package layout

// Equal reports whether two BufferViews name the same leaf.
func (v BufferView) Equal(o BufferView) bool {
	return v.Kind == o.Kind && v.BufferID == o.BufferID && v.TerminalID == o.TerminalID
}

// leaves returns every leaf in the tree in in-order traversal order.
func (l *Layout) leaves() []BufferView {
	var out []BufferView
	l.collectLeaves(&out)
	return out
}

func (l *Layout) collectLeaves(out *[]BufferView) {
	if l.IsLeaf() {
		*out = append(*out, *l.leaf)
		return
	}
	l.first.collectLeaves(out)
	l.second.collectLeaves(out)
}

// Remove drops the leaf matching v from the tree, collapsing the
// ancestor split that held it into its surviving sibling. Returns
// (nil, false) if removing v would empty the tree entirely.
func (l *Layout) Remove(v BufferView) (*Layout, bool) {
	if l.IsLeaf() {
		if l.leaf.Equal(v) {
			return nil, false
		}
		return l, true
	}
	if removed, ok := removeFrom(l.first, v); ok {
		if removed == nil {
			return l.second, true
		}
		return NewSplit(l.dir, l.ratio, removed, l.second), true
	}
	if removed, ok := removeFrom(l.second, v); ok {
		if removed == nil {
			return l.first, true
		}
		return NewSplit(l.dir, l.ratio, l.first, removed), true
	}
	return l, true
}

// removeFrom tries to remove v from the subtree rooted at n, returning
// ok=true only if v was actually found there.
func removeFrom(n *Layout, v BufferView) (*Layout, bool) {
	if n.IsLeaf() {
		if n.leaf.Equal(v) {
			return nil, true
		}
		return n, false
	}
	if removed, found := removeFrom(n.first, v); found {
		if removed == nil {
			return n.second, true
		}
		return NewSplit(n.dir, n.ratio, removed, n.second), true
	}
	if removed, found := removeFrom(n.second, v); found {
		if removed == nil {
			return n.first, true
		}
		return NewSplit(n.dir, n.ratio, n.first, removed), true
	}
	return n, false
}

// NextView / PrevView cycle through every leaf (text and terminal) in
// in-order traversal.
func (l *Layout) NextView(current BufferView) (BufferView, bool) {
	return cycle(l.leaves(), current, 1)
}

func (l *Layout) PrevView(current BufferView) (BufferView, bool) {
	return cycle(l.leaves(), current, -1)
}

// NextBuffer / PrevBuffer cycle through text leaves only.
func (l *Layout) NextBuffer(current BufferView) (BufferView, bool) {
	return cycle(textLeaves(l.leaves()), current, 1)
}

func (l *Layout) PrevBuffer(current BufferView) (BufferView, bool) {
	return cycle(textLeaves(l.leaves()), current, -1)
}

func textLeaves(all []BufferView) []BufferView {
	out := make([]BufferView, 0, len(all))
	for _, v := range all {
		if v.Kind == ViewText {
			out = append(out, v)
		}
	}
	return out
}

func cycle(views []BufferView, current BufferView, step int) (BufferView, bool) {
	if len(views) == 0 {
		return BufferView{}, false
	}
	idx := -1
	for i, v := range views {
		if v.Equal(current) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return views[0], true
	}
	n := len(views)
	next := ((idx+step)%n + n) % n
	return views[next], true
}

// InOrderPredecessor returns the leaf immediately before v in in-order
// traversal, or the leaf after it when v is the first leaf; it decides
// which leaf receives focus when the focused leaf is removed.
func (l *Layout) InOrderPredecessor(v BufferView) (BufferView, bool) {
	leaves := l.leaves()
	for i, lv := range leaves {
		if lv.Equal(v) {
			if i == 0 {
				if len(leaves) > 1 {
					return leaves[1], true
				}
				return BufferView{}, false
			}
			return leaves[i-1], true
		}
	}
	return BufferView{}, false
}

// ViewInDirection finds the nearest sibling leaf in the requested
// screen direction from current's rect, using perpendicularHint (e.g.
// the cursor's screen position) as a tiebreaker along the
// perpendicular axis.
func (l *Layout) ViewInDirection(area Rect, current BufferView, dir FocusDirection, perpendicularHint int) (BufferView, bool) {
	areas := l.ComputeViewAreas(area)
	var from Rect
	found := false
	for _, la := range areas {
		if la.View.Equal(current) {
			from = la.Area
			found = true
			break
		}
	}
	if !found {
		return BufferView{}, false
	}

	var best *LeafArea
	bestDist := -1
	for i := range areas {
		la := &areas[i]
		if la.View.Equal(current) {
			continue
		}
		if !onSide(from, la.Area, dir) {
			continue
		}
		if !perpendicularOverlaps(from, la.Area, dir, perpendicularHint) {
			continue
		}
		d := axisDistance(from, la.Area, dir)
		if best == nil || d < bestDist {
			best = la
			bestDist = d
		}
	}
	if best == nil {
		return BufferView{}, false
	}
	return best.View, true
}

func onSide(from, to Rect, dir FocusDirection) bool {
	switch dir {
	case Left:
		return to.X+to.Width <= from.X
	case Right:
		return to.X >= from.X+from.Width
	case Up:
		return to.Y+to.Height <= from.Y
	case Down:
		return to.Y >= from.Y+from.Height
	}
	return false
}

// perpendicularOverlaps reports whether to's span on the axis
// perpendicular to dir contains hint (falls back to any overlap with
// from's span if hint is outside both).
func perpendicularOverlaps(from, to Rect, dir FocusDirection, hint int) bool {
	switch dir {
	case Left, Right:
		if hint >= to.Y && hint < to.Y+to.Height {
			return true
		}
		return to.Y < from.Y+from.Height && from.Y < to.Y+to.Height
	default:
		if hint >= to.X && hint < to.X+to.Width {
			return true
		}
		return to.X < from.X+from.Width && from.X < to.X+to.Width
	}
}

func axisDistance(from, to Rect, dir FocusDirection) int {
	switch dir {
	case Left:
		return from.X - (to.X + to.Width)
	case Right:
		return to.X - (from.X + from.Width)
	case Up:
		return from.Y - (to.Y + to.Height)
	case Down:
		return to.Y - (from.Y + from.Height)
	}
	return 0
}
