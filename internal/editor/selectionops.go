package editor

import (
	"strings"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/rope"
)

// mergeSelections collapses every range in sel into a single range
// spanning the lowest start to the highest end.
func mergeSelections(sel rope.Selection) rope.Selection {
	ranges := sel.Ranges()
	if len(ranges) <= 1 {
		return sel
	}
	lo, hi := ranges[0].Start(), ranges[0].End()
	for _, r := range ranges[1:] {
		if r.Start() < lo {
			lo = r.Start()
		}
		if r.End() > hi {
			hi = r.End()
		}
	}
	return rope.Single(rope.Region{Anchor: lo, Head: hi})
}

// trimSelections shrinks each range to exclude leading/trailing
// whitespace, the generalization of vim's `gv` text-object trim.
func trimSelections(sel rope.Selection, text string) rope.Selection {
	runes := []rune(text)
	ranges := sel.Ranges()
	out := make([]rope.Region, 0, len(ranges))
	for _, r := range ranges {
		start, end := r.Start(), r.End()
		for start < end && isTrimmable(runes[start]) {
			start++
		}
		for end > start && isTrimmable(runes[end-1]) {
			end--
		}
		if r.Anchor <= r.Head {
			out = append(out, rope.Region{Anchor: start, Head: end})
		} else {
			out = append(out, rope.Region{Anchor: end, Head: start})
		}
	}
	return rope.NewSelection(out...)
}

func isTrimmable(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// selectionOpSplitLines replaces the focused selection with one range
// per line the old ranges spanned.
func (e *Editor) selectionOpSplitLines(b *buffer.Buffer) {
	text := b.Text()
	var out []rope.Region
	for _, r := range b.Selection().Ranges() {
		segs := strings.Split(text[r.Start():r.End()], "\n")
		pos := r.Start()
		for i, seg := range segs {
			out = append(out, rope.Region{Anchor: pos, Head: pos + len([]rune(seg))})
			pos += len([]rune(seg)) + 1
			if i == len(segs)-1 {
				pos -= 1
			}
		}
	}
	if len(out) == 0 {
		return
	}
	b.SetSelection(rope.NewSelection(out...))
}

// selectionOpDuplicate adds, for every range in the current selection, a
// same-column range on the adjacent line above (up) or below (down),
// mirroring a multi-cursor editor's "add cursor above/below".
func (e *Editor) selectionOpDuplicate(b *buffer.Buffer, up bool) {
	sel := b.Selection()
	var additions []rope.Region
	for _, r := range sel.Ranges() {
		row, col := b.RowCol(r.Head)
		targetRow := row + 1
		if up {
			targetRow = row - 1
		}
		if targetRow < 0 {
			continue
		}
		head := b.TextPoint(targetRow, col)
		if head < 0 {
			continue
		}
		additions = append(additions, rope.Point(head))
	}
	for _, a := range additions {
		sel = sel.Add(a)
	}
	b.SetSelection(sel)
}

// selectionOpAlign pads every selected range's starting column on a
// contiguous visual block to the widest one in the set, a simplified
// single-pass version of an editor's "align cursors" command.
func (e *Editor) selectionOpAlign(b *buffer.Buffer) {
	sel := b.Selection()
	ranges := sel.Ranges()
	if len(ranges) <= 1 {
		return
	}
	maxCol := 0
	cols := make([]int, len(ranges))
	for i, r := range ranges {
		_, col := b.RowCol(r.Start())
		cols[i] = col
		if col > maxCol {
			maxCol = col
		}
	}
	var edits []buffer.Edit
	for i, r := range ranges {
		if cols[i] < maxCol {
			edits = append(edits, buffer.Edit{Start: r.Start(), End: r.Start(), Text: strings.Repeat(" ", maxCol-cols[i])})
		}
	}
	if len(edits) == 0 {
		return
	}
	tx, err := b.Prepare(edits)
	if err != nil {
		e.Warn(err.Error())
		return
	}
	if err := e.ApplyTransaction(b, tx); err != nil {
		e.Warn(err.Error())
	}
}

// closeOtherBuffers closes every buffer except keep.
func (e *Editor) closeOtherBuffers(keep buffer.Id) {
	var ids []buffer.Id
	for id := range e.buffers {
		if id != keep {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		e.CloseBufferID(id)
	}
}

// cycleBuffer moves layout focus to the next/previous text buffer.
func (e *Editor) cycleBuffer(forward bool) {
	var next layout.BufferView
	var ok bool
	if forward {
		next, ok = e.layout.NextBuffer(e.focused)
	} else {
		next, ok = e.layout.PrevBuffer(e.focused)
	}
	if ok {
		e.setFocus(next)
	}
}
