package stdactions

import "github.com/rowan-editor/rowan/internal/registry"

// windowResult registers a zero-capability action that does nothing
// but translate a key sequence into one of the window-shaped
// ActionResult kinds (Split/CloseSplit/Focus*/BufferNext|Prev/
// CloseBuffer/CloseOtherBuffers/Quit/ForceQuit/ForceRedraw): the
// actual effect lives in internal/editor.dispatchResult's table, not
// in the handler.
func windowResult(name string, terminalSafe bool, kind registry.ActionResultKind) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		Flags: registry.ActionFlags{TerminalSafe: terminalSafe},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: kind}
		},
	})
}

func init() {
	windowResult("quit", true, registry.ResultQuit)
	windowResult("force_quit", true, registry.ResultForceQuit)
	windowResult("force_redraw", true, registry.ResultForceRedraw)

	windowResult("close_split", true, registry.ResultCloseSplit)

	windowResult("focus_left", true, registry.ResultFocusLeft)
	windowResult("focus_right", true, registry.ResultFocusRight)
	windowResult("focus_up", true, registry.ResultFocusUp)
	windowResult("focus_down", true, registry.ResultFocusDown)

	windowResult("buffer_next", true, registry.ResultBufferNext)
	windowResult("buffer_prev", true, registry.ResultBufferPrev)
	windowResult("close_buffer", true, registry.ResultCloseBuffer)
	windowResult("close_other_buffers", true, registry.ResultCloseOtherBuffers)

	registerSplitKind("split_horizontal", registry.SplitHorizontal)
	registerSplitKind("split_vertical", registry.SplitVertical)
	registerSplitKind("split_terminal_horizontal", registry.SplitTerminalHorizontal)
	registerSplitKind("split_terminal_vertical", registry.SplitTerminalVertical)
}

// registerSplitKind registers one of the four split variants. Unlike a
// windowResult action, its result also carries which SplitKind
// dispatch should create, since ResultSplit alone is ambiguous.
func registerSplitKind(name string, kind registry.SplitKind) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		Flags: registry.ActionFlags{TerminalSafe: true},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultSplit, Split: kind}
		},
	})
}
