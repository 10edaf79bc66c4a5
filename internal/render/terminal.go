package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/rowan-editor/rowan/internal/layout"
)

// DrawTerminal paints a terminal panel's current screen lines into
// rect, clipping each row to the rect's width so a wide emulator never
// bleeds into a neighboring split.
func DrawTerminal(f *Frame, rect layout.Rect, lines []string) {
	for row := 0; row < rect.Height; row++ {
		y := rect.Y + row
		x := rect.X
		limit := rect.X + rect.Width
		if row < len(lines) {
			for _, r := range lines[row] {
				w := runewidth.RuneWidth(r)
				if w == 0 {
					continue
				}
				if x+w > limit {
					break
				}
				f.Set(x, y, Cell{Symbol: string(r)})
				for i := 1; i < w; i++ {
					f.Set(x+i, y, Cell{Symbol: ""})
				}
				x += w
			}
		}
		for ; x < limit; x++ {
			f.Set(x, y, Cell{Symbol: " "})
		}
	}
}
