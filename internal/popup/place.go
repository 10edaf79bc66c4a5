package popup

import "github.com/rowan-editor/rowan/internal/layout"

// margin is the minimum gap kept between a popup and the screen edge.
const margin = 1

// CursorHint is the on-screen cursor position used for AnchorCursor
// placement.
type CursorHint struct{ X, Y int }

// Place computes a popup's final screen rectangle for one render frame:
//  1. clamp preferred size within [min, max] and the available screen,
//  2. for cursor/position anchors, place below when preferred, else
//     above, and fall back to whichever side is larger when neither fits,
//  3. shift left to stay on screen,
//  4. clamp the final rect to the screen.
func Place(p Popup, screen layout.Rect, cursor CursorHint) layout.Rect {
	hints := p.SizeHints()
	w := clampDim(hints.PreferredWidth, hints.MinWidth, hints.MaxWidth, screen.Width-2*margin)
	h := clampDim(hints.PreferredHeight, hints.MinHeight, hints.MaxHeight, screen.Height-2*margin)

	anchor := p.Anchor()
	var x, y int
	switch anchor.Kind {
	case AnchorCenter:
		x = screen.X + (screen.Width-w)/2
		y = screen.Y + (screen.Height-h)/2
	case AnchorPosition:
		x, y = placeNear(anchor.X, anchor.Y, w, h, anchor.PreferAbove, screen)
	default: // AnchorCursor
		x, y = placeNear(cursor.X, cursor.Y, w, h, anchor.PreferAbove, screen)
	}

	return clampRect(layout.Rect{X: x, Y: y, Width: w, Height: h}, screen)
}

func clampDim(preferred, min, max, screenAvail int) int {
	v := preferred
	if max > 0 && v > max {
		v = max
	}
	if v < min {
		v = min
	}
	if v > screenAvail {
		v = screenAvail
	}
	if v < 0 {
		v = 0
	}
	return v
}

// placeNear implements step 2: place below the anchor row when
// preferred (or always, if preferAbove is false) and it fits; otherwise
// above; if neither the space below nor above fits the full height, use
// whichever is larger and let the final clamp clip it.
func placeNear(ax, ay, w, h int, preferAbove bool, screen layout.Rect) (x, y int) {
	below := screen.Y + screen.Height - (ay + 1)
	above := ay - screen.Y

	placeBelow := !preferAbove && below >= h
	placeAbove := preferAbove && above >= h
	if !placeBelow && !placeAbove {
		if preferAbove {
			placeAbove = above >= below
		} else {
			placeBelow = below >= above
		}
	}

	if placeAbove {
		y = ay - h
	} else {
		y = ay + 1
	}
	x = shiftLeft(ax, w, screen)
	return x, y
}

// shiftLeft implements step 3: slide the popup left only as far as
// needed to keep its right edge on screen.
func shiftLeft(x, w int, screen layout.Rect) int {
	rightEdge := screen.X + screen.Width - margin
	if x+w > rightEdge {
		x = rightEdge - w
	}
	if x < screen.X+margin {
		x = screen.X + margin
	}
	return x
}

func clampRect(r, screen layout.Rect) layout.Rect {
	if r.X < screen.X {
		r.X = screen.X
	}
	if r.Y < screen.Y {
		r.Y = screen.Y
	}
	if r.X+r.Width > screen.X+screen.Width {
		r.Width = screen.X + screen.Width - r.X
	}
	if r.Y+r.Height > screen.Y+screen.Height {
		r.Height = screen.Y + screen.Height - r.Y
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// PlaceAll computes every popup's rect for this frame, used by
// Stack.MouseDown/MouseScroll click-outside detection.
func (s *Stack) PlaceAll(screen layout.Rect, cursor CursorHint) map[string]layout.Rect {
	out := make(map[string]layout.Rect, len(s.popups))
	for _, p := range s.popups {
		out[p.ID()] = Place(p, screen, cursor)
	}
	return out
}
