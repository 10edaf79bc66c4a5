package stdactions

import (
	"strings"
	"unicode"

	"github.com/rowan-editor/rowan/internal/registry"
)

// editCaps is the RequiredCaps list shared by every plain text-editing
// action below: they all need to read the selection/text and mutate
// the document through EditAccess.
var editCaps = []registry.Capability{
	registry.CapCursor, registry.CapSelection, registry.CapText, registry.CapEdit,
}

func init() {
	// default_char is the Insert-mode fallback: any key with no binding
	// inserts itself at every selected range.
	registry.RegisterAction(&registry.Action{
		ID: "action.default_char", Name: "default_char",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if ctx.CharArg == 0 {
				return registry.Ok()
			}
			ctx.Caps.Edit.InsertAtSelection(string(ctx.CharArg))
			return registry.Ok()
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.delete_selection", Name: "delete_selection",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			ctx.Caps.Edit.DeleteSelection()
			return registry.Ok()
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.delete_char_backward", Name: "delete_char_backward",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			count := ctx.Count
			if count < 1 {
				count = 1
			}
			ctx.Caps.Edit.DeleteChars(count, false)
			return registry.Ok()
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.delete_char_forward", Name: "delete_char_forward",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			count := ctx.Count
			if count < 1 {
				count = 1
			}
			ctx.Caps.Edit.DeleteChars(count, true)
			return registry.Ok()
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.yank", Name: "yank",
		RequiredCaps: []registry.Capability{registry.CapSelection, registry.CapText, registry.CapRegister},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			text := ctx.Caps.Text.Text()
			runes := []rune(text)
			r := ctx.Selection.Primary()
			yanked := string(runes[r.Start():r.End()])
			reg := ctx.Register
			if reg == 0 {
				reg = '"'
			}
			ctx.Caps.Register.SetRegister(reg, yanked)
			return registry.Ok()
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.paste_after", Name: "paste_after",
		RequiredCaps: append(append([]registry.Capability{}, editCaps...), registry.CapRegister),
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return pasteFrom(ctx, true)
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.paste_before", Name: "paste_before",
		RequiredCaps: append(append([]registry.Capability{}, editCaps...), registry.CapRegister),
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return pasteFrom(ctx, false)
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.join_lines", Name: "join_lines",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			joinLines(ctx)
			return registry.Ok()
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.upper_case", Name: "upper_case",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			transformCase(ctx, strings.ToUpper)
			return registry.Ok()
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.lower_case", Name: "lower_case",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			transformCase(ctx, strings.ToLower)
			return registry.Ok()
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.toggle_case", Name: "toggle_case",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			transformCase(ctx, swapCase)
			return registry.Ok()
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.indent", Name: "indent",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultSpacesToTabs}
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.deindent", Name: "deindent",
		RequiredCaps: editCaps,
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultTabsToSpaces}
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.undo", Name: "undo",
		RequiredCaps: []registry.Capability{registry.CapUndo},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if !ctx.Caps.Undo.Undo() {
				ctx.Caps.Message.Warn("nothing to undo")
			}
			return registry.Ok()
		},
	})
	registry.RegisterAction(&registry.Action{
		ID: "action.redo", Name: "redo",
		RequiredCaps: []registry.Capability{registry.CapUndo},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if !ctx.Caps.Undo.Redo() {
				ctx.Caps.Message.Warn("nothing to redo")
			}
			return registry.Ok()
		},
	})

	registry.RegisterAction(&registry.Action{
		ID: "action.repeat_last_insert", Name: "repeat_last_insert",
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			return registry.ActionResult{Kind: registry.ResultRepeatLastInsert}
		},
	})
}

// pasteFrom builds the insert text from the named register (or the
// unnamed default) and inserts it relative to the primary range, the
// same prepare/apply path every other edit command shares.
func pasteFrom(ctx registry.ActionContext, after bool) registry.ActionResult {
	reg := ctx.Register
	if reg == 0 {
		reg = '"'
	}
	text, ok := ctx.Caps.Register.GetRegister(reg)
	if !ok || text == "" {
		ctx.Caps.Message.Warn("register is empty")
		return registry.Ok()
	}
	if !after {
		ctx.Caps.Edit.InsertAtSelection(text)
		return registry.Ok()
	}
	// paste_after inserts past the primary range's end rather than
	// replacing the selection, matching the usual "p" semantics.
	r := ctx.Selection.Primary()
	ctx.Caps.Edit.InsertAt(r.End(), text)
	return registry.Ok()
}

// joinLines replaces the newline (and any leading indentation on the
// following line) immediately after each range's end with a single
// space, the classic join-lines transform.
func joinLines(ctx registry.ActionContext) {
	text := ctx.Caps.Text.Text()
	runes := []rune(text)
	ranges := ctx.Selection.Ranges()
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		pos := r.End()
		lineEnd := pos
		for lineEnd < len(runes) && runes[lineEnd] != '\n' {
			lineEnd++
		}
		if lineEnd >= len(runes) {
			continue
		}
		next := lineEnd + 1
		for next < len(runes) && (runes[next] == ' ' || runes[next] == '\t') {
			next++
		}
		ctx.Caps.Edit.ReplaceRange(lineEnd, next, " ")
	}
}

// transformCase rewrites every selected range's text through f.
func transformCase(ctx registry.ActionContext, f func(string) string) {
	text := ctx.Caps.Text.Text()
	runes := []rune(text)
	ranges := ctx.Selection.Ranges()
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		if r.Len() == 0 {
			continue
		}
		ctx.Caps.Edit.ReplaceRange(r.Start(), r.End(), f(string(runes[r.Start():r.End()])))
	}
}

func swapCase(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			out = append(out, unicode.ToLower(r))
		case unicode.IsLower(r):
			out = append(out, unicode.ToUpper(r))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
