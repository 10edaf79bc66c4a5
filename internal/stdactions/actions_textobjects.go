package stdactions

import (
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

// textObjectCaps is shared by every text-object-driven action: the
// first keystroke returns Pending(TextObject), the
// second feeds CharArg with the trigger character, and the handler
// looks it up via registry.TextObjects().ByTrigger before acting.
var textObjectCaps = []registry.Capability{
	registry.CapCursor, registry.CapSelection, registry.CapText, registry.CapEdit,
}

func init() {
	registerTextObjectAction("select_inner", textObjectSelect(false))
	registerTextObjectAction("select_around", textObjectSelect(true))
	registerTextObjectAction("delete_inner", textObjectDelete(false))
	registerTextObjectAction("delete_around", textObjectDelete(true))
	registerTextObjectAction("change_inner", textObjectChange(false))
	registerTextObjectAction("change_around", textObjectChange(true))
}

// registerTextObjectAction wires the two-phase dance: called with
// CharArg == 0 it requests the pending continuation; called again with
// CharArg set (by internal/editor's resumePending) it runs act.
func registerTextObjectAction(name string, act func(ctx registry.ActionContext, to *registry.TextObject) registry.ActionResult) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		RequiredCaps: textObjectCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if ctx.CharArg == 0 {
				return registry.ActionResult{Kind: registry.ResultPending, Pending: registry.PendingTextObject}
			}
			to, ok := registry.TextObjects().ByTrigger(ctx.CharArg)
			if !ok {
				ctx.Caps.Message.Warn("no text object bound to that key")
				return registry.Ok()
			}
			return act(ctx, to)
		},
	})
}

func textObjectSelect(around bool) func(registry.ActionContext, *registry.TextObject) registry.ActionResult {
	return func(ctx registry.ActionContext, to *registry.TextObject) registry.ActionResult {
		text := ctx.Caps.Text.Text()
		pos := ctx.Selection.Cursor()
		r, ok := resolveTextObject(to, around, text, pos)
		if !ok {
			return registry.Ok()
		}
		return registry.MotionResult(rope.Single(r))
	}
}

func textObjectDelete(around bool) func(registry.ActionContext, *registry.TextObject) registry.ActionResult {
	return func(ctx registry.ActionContext, to *registry.TextObject) registry.ActionResult {
		text := ctx.Caps.Text.Text()
		pos := ctx.Selection.Cursor()
		r, ok := resolveTextObject(to, around, text, pos)
		if !ok {
			return registry.Ok()
		}
		ctx.Caps.Edit.DeleteRange(r.Start(), r.End())
		return registry.Ok()
	}
}

func textObjectChange(around bool) func(registry.ActionContext, *registry.TextObject) registry.ActionResult {
	return func(ctx registry.ActionContext, to *registry.TextObject) registry.ActionResult {
		text := ctx.Caps.Text.Text()
		pos := ctx.Selection.Cursor()
		r, ok := resolveTextObject(to, around, text, pos)
		if !ok {
			return registry.Ok()
		}
		ctx.Caps.Edit.DeleteRange(r.Start(), r.End())
		ctx.Caps.Selection.SetSelection(rope.Single(rope.Point(r.Start())))
		return registry.ActionResult{Kind: registry.ResultModeChange, Mode: string(keys.ModeInsert)}
	}
}

func resolveTextObject(to *registry.TextObject, around bool, text string, pos int) (rope.Region, bool) {
	if around {
		return to.Around(text, pos)
	}
	return to.Inner(text, pos)
}
