package stdactions

import (
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

func init() {
	registerModeChange("enter_normal", string(keys.ModeNormal))
	registerModeChange("enter_window_mode", string(keys.ModeWindow))
	registerModeChange("enter_match_mode", string(keys.ModeMatch))
	registerModeChange("enter_space_mode", string(keys.ModeSpace))
	registerModeChange("enter_goto_mode", string(keys.ModeGoto))
	registerModeChange("enter_view_mode", string(keys.ModeView))

	registry.RegisterAction(&registry.Action{
		ID: "action.enter_insert", Name: "enter_insert",
		RequiredCaps: []registry.Capability{registry.CapMode},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.enter_insert_append", Name: "enter_insert_append",
		RequiredCaps: []registry.Capability{registry.CapMode, registry.CapCursor, registry.CapText},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			n := ctx.Caps.Text.LenChars()
			pos := clampPos(ctx.Selection.Cursor()+1, n)
			ctx.Caps.Cursor.SetCursor(pos)
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.enter_insert_line_start", Name: "enter_insert_line_start",
		RequiredCaps: []registry.Capability{registry.CapMode, registry.CapCursor, registry.CapText},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			ctx.Caps.Cursor.SetCursor(firstNonBlank(ctx.Caps.Text.Text(), ctx.Selection.Cursor()))
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.enter_insert_line_end", Name: "enter_insert_line_end",
		RequiredCaps: []registry.Capability{registry.CapMode, registry.CapCursor, registry.CapText},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			text := ctx.Caps.Text.Text()
			row, _ := textPointRowCol(text, ctx.Selection.Cursor())
			ctx.Caps.Cursor.SetCursor(textPointOf(text, row, lineLength(text, row)))
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.open_line_below", Name: "open_line_below",
		RequiredCaps: []registry.Capability{registry.CapMode, registry.CapSelection, registry.CapText, registry.CapEdit},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			text := ctx.Caps.Text.Text()
			row, _ := textPointRowCol(text, ctx.Selection.Cursor())
			pos := textPointOf(text, row, lineLength(text, row))
			ctx.Caps.Edit.InsertAt(pos, "\n")
			ctx.Caps.Selection.SetSelection(rope.Single(rope.Point(pos + 1)))
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.open_line_above", Name: "open_line_above",
		RequiredCaps: []registry.Capability{registry.CapMode, registry.CapSelection, registry.CapText, registry.CapEdit},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			text := ctx.Caps.Text.Text()
			row, _ := textPointRowCol(text, ctx.Selection.Cursor())
			pos := textPointOf(text, row, 0)
			ctx.Caps.Edit.InsertAt(pos, "\n")
			ctx.Caps.Selection.SetSelection(rope.Single(rope.Point(pos)))
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
		},
	})
}

func registerModeChange(name, mode string) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		RequiredCaps: []registry.Capability{registry.CapMode},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultModeChange, Mode: mode}
		},
	})
}

// firstNonBlank returns pos's line start advanced past leading
// whitespace, the target `I` (insert-at-line-start) lands on.
func firstNonBlank(text string, pos int) int {
	runes := []rune(text)
	row, _ := textPointRowCol(text, pos)
	start := textPointOf(text, row, 0)
	end := start
	for end < len(runes) && runes[end] != '\n' && (runes[end] == ' ' || runes[end] == '\t') {
		end++
	}
	return end
}
