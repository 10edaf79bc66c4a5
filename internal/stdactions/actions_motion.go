package stdactions

import (
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

// motionNames lists every registry.Motion id this file wraps into an
// Action of the same base name. Each wrapper applies the motion across every range in the
// selection via Selection.MapRanges, honoring ActionContext.Count and
// ActionContext.Extend uniformly: the same count/extend plumbing
// applies identically whether one cursor or fifty are selected.
var motionNames = []string{
	"char_left", "char_right",
	"line_up", "line_down",
	"line_start", "line_end", "first_non_blank",
	"doc_start", "doc_end",
	"word_next_start", "word_prev_start", "word_next_end",
	"paragraph_next", "paragraph_prev",
}

// verticalMotionNames marks the subset that should preserve the
// buffer's remembered preferred column instead of resetting it.
var verticalMotionNames = map[string]bool{
	"line_up": true, "line_down": true,
}

func init() {
	for _, name := range motionNames {
		registerMotionAction(name)
	}
}

// verticalSign gives the row delta direction for the vertical motion
// names, since moveVertical needs the raw line delta rather than the
// motion handler's own column (which always aims for the range's
// current column, not the remembered preferred one).
var verticalSign = map[string]int{"line_up": -1, "line_down": 1}

func registerMotionAction(name string) {
	id := "motion." + name
	actionName := name
	vertical := verticalMotionNames[name]
	sign := verticalSign[name]

	registry.RegisterAction(&registry.Action{
		ID:           "action." + actionName,
		Name:         actionName,
		RequiredCaps: []registry.Capability{registry.CapCursor, registry.CapSelection, registry.CapText},
		Flags:        registry.ActionFlags{TerminalSafe: false, VerticalMotion: vertical},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			text := ctx.Caps.Text.Text()
			count := ctx.Count
			if count < 1 {
				count = 1
			}

			if vertical {
				return moveVertical(ctx, text, count*sign)
			}

			m, ok := registry.Motions.ByID(id)
			if !ok {
				return registry.Err("motion not registered: " + id)
			}
			sel := ctx.Selection.MapRanges(func(r rope.Region) rope.Region {
				return m.Handler(text, r, count, ctx.Extend)
			})
			return registry.MotionResult(sel)
		},
	})
}

// moveVertical applies a vertical motion while reading/writing the
// buffer's preferredColumn: the column
// aimed for is whatever was remembered from the previous vertical move
// in the run, not necessarily the range's own current column, so a
// cursor gliding across short lines snaps back to its original column
// once a long enough line is reached again.
func moveVertical(ctx registry.ActionContext, text string, deltaLines int) registry.ActionResult {
	primary := ctx.Selection.Primary()
	_, col := textPointRowCol(text, primary.Head)
	if pc, ok := ctx.Caps.Cursor.PreferredColumn(); ok {
		col = pc
	}

	sel := ctx.Selection.MapRanges(func(r rope.Region) rope.Region {
		row, _ := textPointRowCol(text, r.Head)
		targetRow := row + deltaLines
		if targetRow < 0 {
			targetRow = 0
		}
		head := textPointOf(text, targetRow, col)
		return motionResult(r, head, ctx.Extend)
	})

	ctx.Caps.Cursor.SetPreferredColumn(col)
	return registry.MotionResult(sel)
}
