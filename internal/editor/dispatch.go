package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/limetext/log4go"
	"github.com/limetext/util"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/registry"
)

// HandleKey feeds one keystroke through the popup stack and the input
// FSM and dispatches whatever it resolves to. It is the single entry
// point the cmd/rowan event loop calls, one key at a time.
func (e *Editor) HandleKey(k keys.KeyPress) {
	if e.macros.Recording() {
		e.macros.Feed(k)
	}
	e.lspc.tick = int(time.Now().UnixMilli())
	e.lspc.completion.CheckTimeout(e.lspc.tick, e.lspc.timeoutTicks)

	// Popups see the key first: a consuming popup stops the input
	// pipeline; a non-consuming one (completion arrow-out, hover) lets
	// the key fall through to the FSM after its dismissal took effect.
	if top, res, handled := e.routePopupKey(k); handled {
		e.collectPopupResult(top)
		if res.Consumed {
			return
		}
	}

	// A focused terminal owns the keyboard: chords still resolve
	// through the trie (splits, focus moves, quit), everything else is
	// forwarded to the shell's PTY.
	if tp, ok := e.focusedTerminalPanel(); ok {
		ev := e.fsm.HandleKey(k)
		switch ev.Kind {
		case keys.EventAction:
			e.runAction(ev.Action, registry.ActionContext{Count: ev.Count, Register: ev.Register, Extend: ev.Extend})
		case keys.EventWaiting, keys.EventDigit:
		default:
			e.writeKeyToTerminal(tp, k)
		}
		return
	}

	prevBuf, prevCursor := e.cursorSnapshot()
	ev := e.fsm.HandleKey(k)
	switch ev.Kind {
	case keys.EventDigit, keys.EventWaiting, keys.EventCleared:
		return
	case keys.EventInsertDefault:
		e.insertDefaultChar(ev.Key)
	case keys.EventCharArgFed:
		e.resumePending(ev)
	case keys.EventAction:
		e.runAction(ev.Action, registry.ActionContext{
			Count:    ev.Count,
			Register: ev.Register,
			Extend:   ev.Extend,
		})
	}
	e.afterInput(prevBuf, prevCursor)
}

// cursorSnapshot records which buffer had focus and where its cursor
// was, so afterInput can tell whether this keystroke moved it.
func (e *Editor) cursorSnapshot() (buffer.Id, int) {
	if buf, ok := e.FocusedBuffer(); ok {
		return buf.Id(), buf.Cursor()
	}
	return 0, -1
}

// PlayMacro replays a previously recorded key sequence through HandleKey,
// re-resolving every count/register fresh.
func (e *Editor) PlayMacro(r rune) {
	seq, ok := e.macros.Get(r)
	if !ok {
		e.Warn("no macro recorded in that register")
		return
	}
	for _, k := range seq {
		e.HandleKey(k)
	}
}

// insertDefaultChar routes an unbound Insert-mode key through the
// registered default_char action, so the fallback insertion policy is
// an ordinary registration rather than a special case here.
func (e *Editor) insertDefaultChar(k keys.KeyPress) {
	if !k.IsCharacter() {
		return
	}
	ch := k.Character()
	e.runAction("default_char", registry.ActionContext{Count: 1, CharArg: ch})
	e.lastInsertText = string(ch)
	e.signatureTyped(ch)
}

// resumePending feeds a CharArg continuation's result back into the
// handler that requested it. The editor, not the
// FSM, is responsible for remembering which action/context was
// waiting, since the FSM itself is dispatch-agnostic.
func (e *Editor) resumePending(ev keys.Event) {
	if e.pendingAction == nil {
		return
	}
	action := e.pendingAction
	ctx := e.pendingCtx
	e.pendingAction = nil
	ctx.CharArg = ev.CharArg
	if buf, ok := e.FocusedBuffer(); ok {
		ctx.Caps = e.capsFor(buf)
		ctx.Selection = buf.Selection()
		ctx.Cursor = buf.Cursor()
		if !action.Flags.VerticalMotion {
			buf.ClearPreferredColumn()
		}
	}
	e.dispatchResult(action.Handler(ctx), action, ctx)
}

// runAction resolves name against the frozen Actions table and
// dispatches it, honoring the terminal-safe whitelist.
func (e *Editor) runAction(name string, partial registry.ActionContext) {
	action, ok := registry.Actions.ByNameOrAlias(name)
	if !ok {
		e.Warn("unknown action: " + name)
		return
	}
	buf, isText := e.FocusedBuffer()
	if !isText && !action.Flags.TerminalSafe {
		e.Warn("action not available while a terminal is focused: " + name)
		return
	}

	prof := util.Prof.Enter("editor.dispatch." + action.Name)
	defer prof.Exit()
	defer func() {
		if r := recover(); r != nil {
			log4go.Error("action %s panicked: %v", action.Name, r)
			e.Error(fmt.Sprintf("action %s failed", action.Name))
		}
	}()

	ctx := partial
	if isText {
		ctx.Caps = e.capsFor(buf)
		ctx.Selection = buf.Selection()
		ctx.Cursor = buf.Cursor()
		if !action.Flags.VerticalMotion {
			buf.ClearPreferredColumn()
		}
	} else {
		ctx.Caps = e.capsForFocus()
	}
	e.dispatchResult(action.Handler(ctx), action, ctx)
}

// dispatchResult is the table-driven ActionResult handler: every
// ActionResultKind maps to exactly one editor-level effect,
// independent of which Action produced it.
func (e *Editor) dispatchResult(res registry.ActionResult, action *registry.Action, ctx registry.ActionContext) {
	buf, hasBuf := e.FocusedBuffer()

	switch res.Kind {
	case registry.ResultOk:
		return

	case registry.ResultMotion:
		if hasBuf {
			buf.SetSelection(res.Selection)
		}

	case registry.ResultInsertWithMotion:
		if !hasBuf {
			return
		}
		buf.SetSelection(res.Selection)
		tx, err := buf.PrepareInsertAtSelection(res.InsertText)
		if err != nil {
			e.Warn(err.Error())
			return
		}
		if err := e.ApplyTransaction(buf, tx); err != nil {
			e.Warn(err.Error())
			return
		}
		e.lastInsertText = res.InsertText

	case registry.ResultModeChange:
		e.fsm.SetMode(keys.Mode(res.Mode))
		if hasBuf {
			buf.SetMode(keys.Mode(res.Mode))
			// Consecutive Insert-mode typing coalesces into one undo
			// entry; any mode change closes the group.
			if keys.Mode(res.Mode) == keys.ModeInsert {
				buf.Document().BeginInsertGroup()
			} else {
				buf.Document().EndInsertGroup()
			}
		}
		e.hooks.Fire(registry.EventModeChanged, e.capsForFocus())

	case registry.ResultQuit:
		e.quit = true

	case registry.ResultForceQuit:
		e.quit = true
		e.forceQuit = true

	case registry.ResultForceRedraw:
		e.forceRedraw = true

	case registry.ResultError:
		e.Error(res.Message)

	case registry.ResultPending:
		e.fsm.EnterPending(res.Pending)
		e.pendingAction = action
		e.pendingCtx = registry.ActionContext{Count: ctx.Count, Register: ctx.Register, Extend: ctx.Extend}
		if hasBuf {
			e.pendingCtx.Selection = buf.Selection()
			e.pendingCtx.Cursor = buf.Cursor()
		}

	case registry.ResultTogglePanel:
		e.panelOpen[res.PanelName] = !e.panelOpen[res.PanelName]

	case registry.ResultSplit:
		e.split(res.Split)

	case registry.ResultCloseSplit:
		e.closeSplit()

	case registry.ResultFocusLeft:
		e.focusDirection(layout.Left)
	case registry.ResultFocusRight:
		e.focusDirection(layout.Right)
	case registry.ResultFocusUp:
		e.focusDirection(layout.Up)
	case registry.ResultFocusDown:
		e.focusDirection(layout.Down)

	case registry.ResultBufferNext:
		e.cycleBuffer(true)
	case registry.ResultBufferPrev:
		e.cycleBuffer(false)

	case registry.ResultCloseBuffer:
		if hasBuf {
			e.CloseBufferID(buf.Id())
		}
	case registry.ResultCloseOtherBuffers:
		if hasBuf {
			e.closeOtherBuffers(buf.Id())
		}

	case registry.ResultSplitLines:
		if hasBuf {
			e.selectionOpSplitLines(buf)
		}
	case registry.ResultDuplicateSelectionsUp:
		if hasBuf {
			e.selectionOpDuplicate(buf, true)
		}
	case registry.ResultDuplicateSelectionsDown:
		if hasBuf {
			e.selectionOpDuplicate(buf, false)
		}
	case registry.ResultMergeSelections:
		if hasBuf {
			buf.SetSelection(mergeSelections(buf.Selection()))
		}
	case registry.ResultAlign:
		if hasBuf {
			e.selectionOpAlign(buf)
		}
	case registry.ResultTabsToSpaces:
		if hasBuf {
			e.convertIndentation(buf, true)
		}
	case registry.ResultSpacesToTabs:
		if hasBuf {
			e.convertIndentation(buf, false)
		}
	case registry.ResultTrimSelections:
		if hasBuf {
			buf.SetSelection(trimSelections(buf.Selection(), buf.Text()))
		}

	case registry.ResultSaveJump:
		if hasBuf {
			e.saveJump(buf)
		}
	case registry.ResultJumpBackward:
		if hasBuf {
			e.jump(buf, false)
		}
	case registry.ResultJumpForward:
		if hasBuf {
			e.jump(buf, true)
		}

	case registry.ResultSaveSelections:
		if hasBuf {
			e.savedSelections[buf.Id()] = buf.Selection()
		}
	case registry.ResultRestoreSelections:
		if hasBuf {
			if sel, ok := e.savedSelections[buf.Id()]; ok {
				buf.SetSelection(sel)
			}
		}

	case registry.ResultRecordMacro:
		if e.macros.Recording() {
			// The key that stopped recording was already fed; a replay
			// must not re-trigger recording with it.
			e.macros.TrimLast()
			e.macros.StopRecording()
		} else {
			e.macros.StartRecording(res.MacroName)
		}
	case registry.ResultPlayMacro:
		e.PlayMacro(res.MacroName)

	case registry.ResultRepeatLastInsert:
		if hasBuf && e.lastInsertText != "" {
			tx, err := buf.PrepareInsertAtSelection(e.lastInsertText)
			if err == nil {
				_ = e.ApplyTransaction(buf, tx)
			}
		}
	case registry.ResultRepeatLastObject:
		e.Warn("repeat last object is not yet implemented")
	}
}

func (e *Editor) saveJump(buf *buffer.Buffer) {
	jl := e.jumpListFor(buf.Id())
	jl.Push(JumpEntry{Buffer: buf.Id(), Selection: buf.Selection()})
}

func (e *Editor) jump(buf *buffer.Buffer, forward bool) {
	jl := e.jumpListFor(buf.Id())
	var entry JumpEntry
	var ok bool
	if forward {
		entry, ok = jl.Forward()
	} else {
		entry, ok = jl.Back()
	}
	if !ok {
		return
	}
	if target, exists := e.Buffer(entry.Buffer); exists {
		target.SetSelection(entry.Selection)
	}
}

func (e *Editor) jumpListFor(id buffer.Id) *JumpList {
	jl, ok := e.jumps[id]
	if !ok {
		jl = NewJumpList(100)
		e.jumps[id] = jl
	}
	return jl
}

func (e *Editor) split(kind registry.SplitKind) {
	switch kind {
	case registry.SplitHorizontal, registry.SplitVertical:
		buf, ok := e.FocusedBuffer()
		if !ok {
			return
		}
		newID, err := e.OpenSibling(buf.DocumentId())
		if err != nil {
			e.Warn(err.Error())
			return
		}
		dir := layout.H
		if kind == registry.SplitVertical {
			dir = layout.V
		}
		e.insertSplit(dir, layout.Text(uint64(newID)))
	case registry.SplitTerminalHorizontal, registry.SplitTerminalVertical:
		dir := layout.H
		if kind == registry.SplitTerminalVertical {
			dir = layout.V
		}
		id, ok := e.openTerminal(dir)
		if !ok {
			return
		}
		e.insertSplit(dir, layout.Terminal(id))
	}
}

// insertSplit turns the currently focused leaf into a 2-way split
// holding the old leaf and newLeaf, replacing it in place in the tree.
func (e *Editor) insertSplit(dir layout.Direction, newLeaf layout.BufferView) {
	replacement := layout.NewSplit(dir, 0.5, layout.Single(e.focused), layout.Single(newLeaf))
	e.layout = spliceReplace(e.layout, e.focused, replacement)
	e.setFocus(newLeaf)
}

// spliceReplace walks l and replaces the leaf matching target with
// replacement, used when turning a single leaf into a split in place.
func spliceReplace(l *layout.Layout, target layout.BufferView, replacement *layout.Layout) *layout.Layout {
	if l.IsLeaf() {
		leaf, _ := l.Leaf()
		if leaf.Equal(target) {
			return replacement
		}
		return l
	}
	first, second := l.Children()
	return layout.NewSplit(l.Dir(), l.Ratio(), spliceReplace(first, target, replacement), spliceReplace(second, target, replacement))
}

func (e *Editor) closeSplit() {
	newLayout, ok := e.layout.Remove(e.focused)
	if !ok {
		e.quit = true
		return
	}
	pred, hasPred := e.layout.InOrderPredecessor(e.focused)
	e.layout = newLayout
	if hasPred {
		e.setFocus(pred)
	}
}

func (e *Editor) focusDirection(dir layout.FocusDirection) {
	col := 0
	if buf, ok := e.FocusedBuffer(); ok {
		_, col = buf.RowCol(buf.Cursor())
	}
	next, ok := e.layout.ViewInDirection(e.area, e.focused, dir, col)
	if ok {
		e.setFocus(next)
	}
}

// convertIndentation rewrites each selected range's leading whitespace
// run between tabs and TabWidth-wide space runs.
func (e *Editor) convertIndentation(buf *buffer.Buffer, toSpaces bool) {
	width := buf.Prefs().TabWidth
	if width <= 0 {
		width = 4
	}
	runes := []rune(buf.Text())
	var edits []buffer.Edit
	for _, r := range buf.Selection().Ranges() {
		lineStart := r.Start()
		for lineStart > 0 && runes[lineStart-1] != '\n' {
			lineStart--
		}
		end := lineStart
		for end < len(runes) && (runes[end] == ' ' || runes[end] == '\t') {
			end++
		}
		if end == lineStart {
			continue
		}
		cols := 0
		for _, ch := range runes[lineStart:end] {
			if ch == '\t' {
				cols += width - cols%width
			} else {
				cols++
			}
		}
		if toSpaces {
			edits = append(edits, buffer.Edit{Start: lineStart, End: end, Text: strings.Repeat(" ", cols)})
		} else {
			edits = append(edits, buffer.Edit{Start: lineStart, End: end, Text: strings.Repeat("\t", cols/width) + strings.Repeat(" ", cols%width)})
		}
	}
	if len(edits) == 0 {
		return
	}
	tx, err := buf.Prepare(edits)
	if err != nil {
		e.Warn(err.Error())
		return
	}
	if err := e.ApplyTransaction(buf, tx); err != nil {
		e.Warn(err.Error())
	}
}
