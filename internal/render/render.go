// Package render prepares everything a frame needs before the physical
// draw: the cell-grid frame abstraction the terminal front-end consumes,
// per-line diagnostic display records, inlay-hint spans for the visible
// viewport, and statusline segment evaluation. The draw itself happens
// outside this module; render only fills Frames and returns display
// records.
package render

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/rowan-editor/rowan/internal/layout"
)

// Modifier is a bitmask of text attributes a Cell carries alongside its
// colors.
type Modifier uint8

const (
	ModBold Modifier = 1 << iota
	ModItalic
	ModUnderline
	ModReverse
	ModDim
	ModStrikethrough
)

// Cell is one screen cell: a symbol plus its style. Wide runes occupy
// their leading cell; the cells they spill into hold an empty symbol.
type Cell struct {
	Symbol    string
	Fg        color.Color
	Bg        color.Color
	Modifiers Modifier
}

// Style builds the lipgloss style that renders this cell's attributes.
func (c Cell) Style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.Fg != nil {
		s = s.Foreground(c.Fg)
	}
	if c.Bg != nil {
		s = s.Background(c.Bg)
	}
	if c.Modifiers&ModBold != 0 {
		s = s.Bold(true)
	}
	if c.Modifiers&ModItalic != 0 {
		s = s.Italic(true)
	}
	if c.Modifiers&ModUnderline != 0 {
		s = s.Underline(true)
	}
	if c.Modifiers&ModReverse != 0 {
		s = s.Reverse(true)
	}
	if c.Modifiers&ModDim != 0 {
		s = s.Faint(true)
	}
	if c.Modifiers&ModStrikethrough != 0 {
		s = s.Strikethrough(true)
	}
	return s
}

// Frame is the 2-D cell buffer a renderer draws widgets into.
type Frame struct {
	area  layout.Rect
	cells []Cell
}

// NewFrame allocates a cleared frame covering area.
func NewFrame(area layout.Rect) *Frame {
	f := &Frame{area: area}
	f.cells = make([]Cell, area.Width*area.Height)
	f.Clear()
	return f
}

// Area returns the rectangle this frame covers.
func (f *Frame) Area() layout.Rect { return f.area }

// Clear resets every cell to a blank space with no style.
func (f *Frame) Clear() {
	for i := range f.cells {
		f.cells[i] = Cell{Symbol: " "}
	}
}

func (f *Frame) index(x, y int) (int, bool) {
	if x < f.area.X || y < f.area.Y || x >= f.area.X+f.area.Width || y >= f.area.Y+f.area.Height {
		return 0, false
	}
	return (y-f.area.Y)*f.area.Width + (x - f.area.X), true
}

// Get returns the cell at absolute screen coordinates (x, y).
func (f *Frame) Get(x, y int) (Cell, bool) {
	i, ok := f.index(x, y)
	if !ok {
		return Cell{}, false
	}
	return f.cells[i], true
}

// Set writes one cell at absolute screen coordinates, ignoring writes
// outside the frame's area.
func (f *Frame) Set(x, y int, c Cell) {
	if i, ok := f.index(x, y); ok {
		f.cells[i] = c
	}
}

// SetString writes s starting at (x, y), advancing by display width so
// wide runes take two columns. Returns the x coordinate after the last
// written cell.
func (f *Frame) SetString(x, y int, s string, fg, bg color.Color, mods Modifier) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		f.Set(x, y, Cell{Symbol: string(r), Fg: fg, Bg: bg, Modifiers: mods})
		for i := 1; i < w; i++ {
			f.Set(x+i, y, Cell{Symbol: "", Fg: fg, Bg: bg, Modifiers: mods})
		}
		x += w
	}
	return x
}

// Fill paints every cell inside r with c.
func (f *Frame) Fill(r layout.Rect, c Cell) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			f.Set(x, y, c)
		}
	}
}
