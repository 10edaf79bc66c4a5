package editor

import (
	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/lsp"
	"github.com/rowan-editor/rowan/internal/popup"
)

// Popups exposes the overlay stack for frame preparation (placement
// and drawing happen there; the editor only owns routing and
// lifecycle).
func (e *Editor) Popups() *popup.Stack { return e.popups }

// popupKeyFor maps a KeyPress onto the popup event encoding: control
// chords become their control code plus ModCtrl, everything else is
// the typed rune.
func popupKeyFor(k keys.KeyPress) (rune, int) {
	mods := 0
	if k.Shift {
		mods |= popup.ModShift
	}
	if k.Alt {
		mods |= popup.ModAlt
	}
	if k.Super {
		mods |= popup.ModSuper
	}
	if k.Ctrl {
		mods |= popup.ModCtrl
		if k.Key >= 'a' && k.Key <= 'z' {
			return k.Key - 'a' + 1, mods
		}
	}
	return k.Character(), mods
}

// routePopupKey offers a keystroke to the popup stack before the input
// FSM sees it. It returns the popup that was on top when the key was
// handled, so accept results can be collected after a dismissing key.
func (e *Editor) routePopupKey(k keys.KeyPress) (popup.Popup, popup.EventResult, bool) {
	top, ok := e.popups.Top()
	if !ok {
		return nil, popup.EventResult{}, false
	}
	key, mods := popupKeyFor(k)
	res, handled := e.popups.HandleKey(key, mods)
	return top, res, handled
}

// collectPopupResult applies whatever an accepting keystroke left
// behind on the popup that handled it: a completion insertion, a code
// action, or a picked location.
func (e *Editor) collectPopupResult(top popup.Popup) {
	switch p := top.AsAny().(type) {
	case *popup.Completion:
		if p.Accepted != nil {
			e.acceptCompletion(p.Accepted)
			p.Accepted = nil
		}
	case *popup.CodeActions:
		if p.Accepted != nil {
			e.applyCodeAction(p.Accepted)
			p.Accepted = nil
		}
	case *popup.LocationPicker:
		if p.Accepted != nil {
			e.navigateTo(*p.Accepted)
			p.Accepted = nil
		}
	}
}

// acceptCompletion replaces the text from the trigger column to the
// cursor with the accepted item.
func (e *Editor) acceptCompletion(res *popup.AcceptResult) {
	buf, ok := e.FocusedBuffer()
	if !ok {
		return
	}
	e.lspc.completion.BeginInsert()
	row, _ := buf.RowCol(buf.Cursor())
	start := buf.TextPoint(row, res.TriggerColumn)
	tx, err := buf.Prepare([]buffer.Edit{{Start: start, End: buf.Cursor(), Text: res.Text}})
	if err != nil {
		e.Warn(err.Error())
		e.lspc.completion.Dismiss()
		return
	}
	if err := e.ApplyTransaction(buf, tx); err != nil {
		e.Warn(err.Error())
	}
	buf.SetCursor(start + len([]rune(res.Text)))
	e.lspc.completion.Dismiss()
}

// afterInput runs once per processed keystroke: popups flagged
// dismiss-on-cursor-move go away when the cursor moved, and an active
// completion session re-filters or dismisses against the new cursor
// column.
func (e *Editor) afterInput(prevBuf buffer.Id, prevCursor int) {
	buf, ok := e.FocusedBuffer()
	if !ok {
		return
	}
	if buf.Id() != prevBuf || buf.Cursor() != prevCursor {
		e.popups.HandleCursorMoved()
	}
	e.syncCompletionPopup(buf)
}

// syncCompletionPopup enforces the trigger-column contract: once the
// cursor column drops below the trigger column the popup is dismissed;
// otherwise the text typed since the trigger becomes the live filter.
func (e *Editor) syncCompletionPopup(buf *buffer.Buffer) {
	p, ok := e.popups.Find("completion")
	if !ok {
		return
	}
	c, ok := p.AsAny().(*popup.Completion)
	if !ok {
		return
	}
	row, col := buf.RowCol(buf.Cursor())
	c.SetCursorColumn(col)
	if !c.CheckTriggerColumn() {
		e.popups.Dismiss("completion")
		e.lspc.completion.Dismiss()
		return
	}
	typed := buf.Slice(buf.TextPoint(row, c.TriggerColumn()), buf.Cursor())
	e.lspc.completion.TypedText = typed
	c.SetFilter(typed)
}

// signatureTyped advances the signature-help state machine for a
// character typed in insert mode: parens track nesting, commas advance
// the active parameter.
func (e *Editor) signatureTyped(ch rune) {
	s := e.lspc.signature
	switch ch {
	case '(':
		s.OpenParen()
	case ')':
		s.CloseParen()
		if s.Phase == lsp.SignatureInactive {
			e.popups.Dismiss("signature-help")
		}
	case ',':
		s.Comma()
	default:
		return
	}
	if p, ok := e.popups.Find("signature-help"); ok {
		if sig, ok := p.AsAny().(*popup.Signature); ok {
			sig.SetParameterIndex(s.ParameterIndex)
		}
	}
}
