package transaction

import "github.com/rowan-editor/rowan/internal/rope"

// MapPosition threads a single char offset through the whole op sequence,
// the multi-op generalization of rope.AdjustPosition for transactions that
// bundle more than one edit (as every multi-cursor edit does: one op-run
// per selection range, composed into one Transaction).
func (t Transaction) MapPosition(pos int) int {
	src, dst := 0, 0
	for _, op := range t.ops {
		switch op.Kind {
		case Retain:
			if pos < src+op.N {
				return dst + (pos - src)
			}
			src += op.N
			dst += op.N
		case Insert:
			// Inserted text never consumes source chars; a position
			// sitting at the insertion point stays ahead of it, matching
			// rope.AdjustPosition's delta>=0 "pos >= at" rule.
			dst += rope.Utf8CharCount(op.Text)
		case Delete:
			if pos < src+op.N {
				return dst
			}
			src += op.N
		}
	}
	return dst + (pos - src)
}

// RebaseSelection maps every range of sel through t.
func (t Transaction) RebaseSelection(sel rope.Selection) rope.Selection {
	return sel.MapPositions(t.MapPosition)
}
