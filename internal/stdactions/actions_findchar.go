package stdactions

import (
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

// The f/t/r family: the first keystroke resolves the action, which
// returns Pending(CharArg); the next raw key is fed back as CharArg and
// the handler runs for real.
func init() {
	registerFindChar("find_char_forward", true, false)
	registerFindChar("find_till_forward", true, true)
	registerFindChar("find_char_backward", false, false)
	registerFindChar("find_till_backward", false, true)

	registry.RegisterAction(&registry.Action{
		ID: "action.replace_char", Name: "replace_char",
		RequiredCaps: []registry.Capability{registry.CapCursor, registry.CapSelection, registry.CapText, registry.CapEdit},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if ctx.CharArg == 0 {
				return registry.ActionResult{Kind: registry.ResultPending, Pending: registry.PendingCharArg}
			}
			pos := ctx.Selection.Cursor()
			if pos >= ctx.Caps.Text.LenChars() {
				return registry.Ok()
			}
			if ctx.Caps.Text.Slice(pos, pos+1) == "\n" {
				return registry.Ok()
			}
			ctx.Caps.Edit.ReplaceRange(pos, pos+1, string(ctx.CharArg))
			ctx.Caps.Selection.SetSelection(rope.Single(rope.Point(pos)))
			return registry.Ok()
		},
	})
}

func registerFindChar(name string, forward, till bool) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		RequiredCaps: []registry.Capability{registry.CapSelection, registry.CapText},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			if ctx.CharArg == 0 {
				return registry.ActionResult{Kind: registry.ResultPending, Pending: registry.PendingCharArg}
			}
			runes := []rune(ctx.Caps.Text.Text())
			moved := false
			sel := ctx.Selection.MapRanges(func(r rope.Region) rope.Region {
				head, ok := findCharTarget(runes, r.Head, ctx.CharArg, ctx.Count, forward, till)
				if !ok {
					return r
				}
				moved = true
				return motionResult(r, head, ctx.Extend)
			})
			if !moved {
				return registry.Ok()
			}
			return registry.MotionResult(sel)
		},
	})
}

// findCharTarget locates the count-th occurrence of target from head
// within the current line, returning the new head. A till motion stops
// one short of the match on its approach side.
func findCharTarget(runes []rune, head int, target rune, count int, forward, till bool) (int, bool) {
	if count < 1 {
		count = 1
	}
	pos := head
	for i := 0; i < count; i++ {
		next, ok := scanLine(runes, pos, target, forward)
		if !ok {
			return 0, false
		}
		pos = next
	}
	if till {
		if forward {
			pos--
		} else {
			pos++
		}
		if pos == head {
			return 0, false
		}
	}
	return pos, true
}

func scanLine(runes []rune, from int, target rune, forward bool) (int, bool) {
	if forward {
		for i := from + 1; i < len(runes); i++ {
			if runes[i] == '\n' {
				return 0, false
			}
			if runes[i] == target {
				return i, true
			}
		}
		return 0, false
	}
	for i := from - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return 0, false
		}
		if runes[i] == target {
			return i, true
		}
	}
	return 0, false
}
