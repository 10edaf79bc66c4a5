// Package layout implements the binary split/layout tree:
// a Single leaf wraps a text buffer or embedded terminal, a Split node
// divides its area between two children along an axis at a ratio.
// Paths (not node pointers) are the stable identity for a split across
// resize operations. The tree lives on the single editor-loop thread,
// so no locking is needed.
package layout

import "fmt"

// Direction names the axis a Split divides along.
type Direction int

const (
	// H arranges the two children side by side (divided by a vertical
	// separator column).
	H Direction = iota
	// V stacks the two children top/bottom (divided by a horizontal
	// separator row).
	V
)

// FocusDirection names a directional-navigation request, distinct from the split Direction above since a
// query can ask for any of the four screen directions regardless of
// split axis.
type FocusDirection int

const (
	Left FocusDirection = iota
	Right
	Up
	Down
)

// ViewKind distinguishes a text buffer leaf from an embedded terminal
// leaf.
type ViewKind int

const (
	ViewText ViewKind = iota
	ViewTerminal
)

// BufferView is the tagged-union leaf value. BufferID and
// TerminalID are opaque uint64s rather than the concrete buffer.Id/
// terminal.Id types so this package doesn't need to import either
// (layout is a dependency of both, not the reverse).
type BufferView struct {
	Kind       ViewKind
	BufferID   uint64
	TerminalID uint64
}

func Text(id uint64) BufferView     { return BufferView{Kind: ViewText, BufferID: id} }
func Terminal(id uint64) BufferView { return BufferView{Kind: ViewTerminal, TerminalID: id} }

// Rect is the frame/buffer abstraction's rectangle, reused by
// internal/layout for area computation and by internal/render for the
// actual cell grid.
type Rect struct {
	X, Y, Width, Height int
}

// Layout is a node in the binary split tree: either a Single leaf
// (Leaf != nil) or a Split (First/Second != nil).
type Layout struct {
	leaf *BufferView

	dir           Direction
	ratio         float64
	first, second *Layout
}

// minRatio/maxRatio bound a user resize so neither side collapses.
const (
	minRatio = 0.1
	maxRatio = 0.9
)

// Single builds a leaf layout wrapping a view.
func Single(v BufferView) *Layout { return &Layout{leaf: &v} }

// NewSplit builds a Split node dividing along dir at ratio (clamped).
func NewSplit(dir Direction, ratio float64, first, second *Layout) *Layout {
	return &Layout{dir: dir, ratio: clampRatio(ratio), first: first, second: second}
}

func clampRatio(r float64) float64 {
	if r < minRatio {
		return minRatio
	}
	if r > maxRatio {
		return maxRatio
	}
	return r
}

// IsLeaf reports whether this node is a Single.
func (l *Layout) IsLeaf() bool { return l.leaf != nil }

// Leaf returns the wrapped view and true if this node is a Single.
func (l *Layout) Leaf() (BufferView, bool) {
	if l.leaf == nil {
		return BufferView{}, false
	}
	return *l.leaf, true
}

// Children returns a Split node's two subtrees; nil, nil for a leaf.
func (l *Layout) Children() (*Layout, *Layout) { return l.first, l.second }

// Dir returns a Split node's axis.
func (l *Layout) Dir() Direction { return l.dir }

// Ratio returns a Split node's current division ratio.
func (l *Layout) Ratio() float64 { return l.ratio }

// SplitPath is a sequence of branch choices through the tree: false
// selects First, true selects Second. Stable across ratio changes,
// invalidated only by structural changes.
type SplitPath []bool

// splitAreas divides area into (first, separator, second) per dir/ratio,
// reserving one cell for the separator.
func splitAreas(dir Direction, ratio float64, area Rect) (first, sep, second Rect) {
	if dir == H {
		avail := area.Width - 1
		if avail < 0 {
			avail = 0
		}
		w1 := int(float64(avail) * ratio)
		first = Rect{X: area.X, Y: area.Y, Width: w1, Height: area.Height}
		sep = Rect{X: area.X + w1, Y: area.Y, Width: 1, Height: area.Height}
		second = Rect{X: area.X + w1 + 1, Y: area.Y, Width: area.Width - w1 - 1, Height: area.Height}
		return
	}
	avail := area.Height - 1
	if avail < 0 {
		avail = 0
	}
	h1 := int(float64(avail) * ratio)
	first = Rect{X: area.X, Y: area.Y, Width: area.Width, Height: h1}
	sep = Rect{X: area.X, Y: area.Y + h1, Width: area.Width, Height: 1}
	second = Rect{X: area.X, Y: area.Y + h1 + 1, Width: area.Width, Height: area.Height - h1 - 1}
	return
}

// LeafArea pairs a leaf view with its computed screen rect and stable
// path.
type LeafArea struct {
	View BufferView
	Area Rect
	Path SplitPath
}

// ComputeViewAreas returns every leaf's rect and path within area.
func (l *Layout) ComputeViewAreas(area Rect) []LeafArea {
	var out []LeafArea
	l.walkAreas(area, nil, &out)
	return out
}

func (l *Layout) walkAreas(area Rect, path SplitPath, out *[]LeafArea) {
	if l.IsLeaf() {
		*out = append(*out, LeafArea{View: *l.leaf, Area: area, Path: append(SplitPath(nil), path...)})
		return
	}
	first, _, second := splitAreas(l.dir, l.ratio, area)
	l.first.walkAreas(first, append(path, false), out)
	l.second.walkAreas(second, append(path, true), out)
}

// ViewAt returns the leaf whose rect contains (x, y).
func (l *Layout) ViewAt(area Rect, x, y int) (BufferView, bool) {
	for _, la := range l.ComputeViewAreas(area) {
		if rectContains(la.Area, x, y) {
			return la.View, true
		}
	}
	return BufferView{}, false
}

func rectContains(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// nodeAt walks path and returns the node plus its computed area.
func (l *Layout) nodeAt(area Rect, path SplitPath) (*Layout, Rect, error) {
	n := l
	a := area
	for i, branch := range path {
		if n.IsLeaf() {
			return nil, Rect{}, fmt.Errorf("layout: path exhausted tree at depth %d", i)
		}
		first, _, second := splitAreas(n.dir, n.ratio, a)
		if !branch {
			n, a = n.first, first
		} else {
			n, a = n.second, second
		}
	}
	return n, a, nil
}

// SeparatorWithPathAt finds the separator under (x, y), if any, and
// returns its direction, rect, and stable path.
func (l *Layout) SeparatorWithPathAt(area Rect, x, y int) (Direction, Rect, SplitPath, bool) {
	return l.findSeparator(area, nil, x, y)
}

func (l *Layout) findSeparator(area Rect, path SplitPath, x, y int) (Direction, Rect, SplitPath, bool) {
	if l.IsLeaf() {
		return 0, Rect{}, nil, false
	}
	first, sep, second := splitAreas(l.dir, l.ratio, area)
	if rectContains(sep, x, y) {
		return l.dir, sep, append(SplitPath(nil), path...), true
	}
	if rectContains(first, x, y) {
		return l.first.findSeparator(first, append(path, false), x, y)
	}
	if rectContains(second, x, y) {
		return l.second.findSeparator(second, append(path, true), x, y)
	}
	return 0, Rect{}, nil, false
}

// SeparatorRectAtPath recomputes the separator rect for a previously
// captured path.
func (l *Layout) SeparatorRectAtPath(area Rect, path SplitPath) (Rect, error) {
	n, a, err := l.nodeAt(area, path)
	if err != nil {
		return Rect{}, err
	}
	if n.IsLeaf() {
		return Rect{}, fmt.Errorf("layout: path resolves to a leaf, not a split")
	}
	_, sep, _ := splitAreas(n.dir, n.ratio, a)
	return sep, nil
}

// ResizeAtPath recomputes the ratio of the split at path from a mouse
// position.
func (l *Layout) ResizeAtPath(area Rect, path SplitPath, mouseX, mouseY int) error {
	n, a, err := l.nodeAt(area, path)
	if err != nil {
		return err
	}
	if n.IsLeaf() {
		return fmt.Errorf("layout: path resolves to a leaf, not a split")
	}
	if n.dir == H {
		extent := a.Width - 1
		if extent <= 0 {
			return nil
		}
		n.ratio = clampRatio(float64(mouseX-a.X) / float64(extent))
	} else {
		extent := a.Height - 1
		if extent <= 0 {
			return nil
		}
		n.ratio = clampRatio(float64(mouseY-a.Y) / float64(extent))
	}
	return nil
}

// SeparatorPositions returns the rect of every separator in the tree,
// empty for a single-leaf layout.
func (l *Layout) SeparatorPositions(area Rect) []Rect {
	var out []Rect
	l.walkSeparators(area, &out)
	return out
}

func (l *Layout) walkSeparators(area Rect, out *[]Rect) {
	if l.IsLeaf() {
		return
	}
	first, sep, second := splitAreas(l.dir, l.ratio, area)
	*out = append(*out, sep)
	l.first.walkSeparators(first, out)
	l.second.walkSeparators(second, out)
}
