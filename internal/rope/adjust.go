package rope

// AdjustPosition maps a char offset through a single edit at `at` that
// changed the document length by `delta` (positive for insert, negative
// for erase), the rule selection rebasing applies to every position
// after a buffer mutation.
//
// Positions strictly before the edit are untouched. Positions at or after
// the edit shift by delta, except that a position which falls strictly
// inside a deleted span collapses to the edit point rather than going
// negative or landing mid-deletion.
func AdjustPosition(pos, at, delta int) int {
	switch {
	case delta >= 0:
		if pos >= at {
			return pos + delta
		}
		return pos
	default:
		erased := -delta
		end := at + erased
		switch {
		case pos <= at:
			return pos
		case pos >= end:
			return pos + delta
		default:
			return at
		}
	}
}

// AdjustRegion maps both endpoints of r through an edit, used when
// rebasing a single selection range.
func AdjustRegion(r Region, at, delta int) Region {
	return Region{
		Anchor: AdjustPosition(r.Anchor, at, delta),
		Head:   AdjustPosition(r.Head, at, delta),
	}
}

// Adjust rebases every range in the selection through an edit at `at`
// changing length by `delta`. This is the single-edit form of the rule
// that transaction.Transaction.MapPosition and RebaseSelection apply
// across all of a transaction's ops.
func (s Selection) Adjust(at, delta int) Selection {
	return s.MapPositions(func(p int) int { return AdjustPosition(p, at, delta) })
}
