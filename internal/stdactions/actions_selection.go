package stdactions

import (
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

func init() {
	registry.RegisterAction(&registry.Action{
		ID: "action.select_all", Name: "select_all",
		RequiredCaps: []registry.Capability{registry.CapSelection, registry.CapText},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			n := ctx.Caps.Text.LenChars()
			return registry.MotionResult(rope.Single(rope.Region{Anchor: 0, Head: n}))
		},
	})

	selectionResult("split_lines", registry.ResultSplitLines)
	selectionResult("duplicate_selections_up", registry.ResultDuplicateSelectionsUp)
	selectionResult("duplicate_selections_down", registry.ResultDuplicateSelectionsDown)
	selectionResult("merge_selections", registry.ResultMergeSelections)
	selectionResult("align_selections", registry.ResultAlign)
	selectionResult("tabs_to_spaces", registry.ResultTabsToSpaces)
	selectionResult("spaces_to_tabs", registry.ResultSpacesToTabs)
	selectionResult("trim_selections", registry.ResultTrimSelections)

	selectionResult("save_jump", registry.ResultSaveJump)
	selectionResult("jump_forward", registry.ResultJumpForward)
	selectionResult("jump_backward", registry.ResultJumpBackward)
	selectionResult("save_selections", registry.ResultSaveSelections)
	selectionResult("restore_selections", registry.ResultRestoreSelections)

	registry.RegisterAction(&registry.Action{
		ID: "action.record_macro", Name: "record_macro",
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultRecordMacro, MacroName: ctx.Register}
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.play_macro", Name: "play_macro",
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultPlayMacro, MacroName: ctx.Register}
		},
	})
}

// selectionResult registers a no-capability action whose handler is a
// pure translation of a key sequence into one of the selection-shape
// ActionResult kinds; the effect itself lives in
// internal/editor's selectionops.go, reached through dispatchResult.
func selectionResult(name string, kind registry.ActionResultKind) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: kind}
		},
	})
}
