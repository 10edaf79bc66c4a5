package rope

import "sort"

// Selection is an ordered, non-overlapping list of Regions plus a
// primary index. Ranges may be empty (point) and the primary index
// must always be valid.
type Selection struct {
	ranges  []Region
	primary int
}

// NewSelection builds a Selection from the given ranges, normalizing
// (sorting, merging overlaps) and defaulting primary to the last
// range.
func NewSelection(ranges ...Region) Selection {
	if len(ranges) == 0 {
		ranges = []Region{Point(0)}
	}
	s := Selection{ranges: append([]Region(nil), ranges...)}
	s.normalize()
	s.primary = len(s.ranges) - 1
	return s
}

// Single returns a Selection with a single region, primary 0.
func Single(r Region) Selection { return Selection{ranges: []Region{r}, primary: 0} }

// Ranges returns a copy of the selection's ranges in ascending order.
func (s Selection) Ranges() []Region {
	out := make([]Region, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Len returns the number of ranges in the selection.
func (s Selection) Len() int { return len(s.ranges) }

// Primary returns the primary range. Selection invariant: primary index
// is always valid, so this never panics on a properly constructed value.
func (s Selection) Primary() Region {
	if len(s.ranges) == 0 {
		return Point(0)
	}
	return s.ranges[s.primary]
}

// PrimaryIndex returns the index of the primary range.
func (s Selection) PrimaryIndex() int { return s.primary }

// Cursor returns the head of the primary range — the buffer.Buffer
// invariant `cursor == selection.primary().head` is expressed by callers
// reading this value.
func (s Selection) Cursor() int { return s.Primary().Head }

// WithPrimary returns a copy with a different primary index, clamped into
// range.
func (s Selection) WithPrimary(idx int) Selection {
	out := s.clone()
	if idx < 0 {
		idx = 0
	}
	if idx >= len(out.ranges) {
		idx = len(out.ranges) - 1
	}
	out.primary = idx
	return out
}

func (s Selection) clone() Selection {
	out := Selection{ranges: make([]Region, len(s.ranges)), primary: s.primary}
	copy(out.ranges, s.ranges)
	return out
}

// Add appends a region and makes it primary.
func (s Selection) Add(r Region) Selection {
	out := s.clone()
	out.ranges = append(out.ranges, r)
	out.normalize()
	for i, rr := range out.ranges {
		if rr == r {
			out.primary = i
			break
		}
	}
	return out
}

// Replace swaps all ranges for a new set, primary defaulting to the last.
func Replace(ranges []Region) Selection {
	return NewSelection(ranges...)
}

// MapPositions applies f to every anchor/head in the selection, used by
// Rebase and by motions operating uniformly across all ranges.
func (s Selection) MapPositions(f func(int) int) Selection {
	out := s.clone()
	for i, r := range out.ranges {
		out.ranges[i] = Region{Anchor: f(r.Anchor), Head: f(r.Head)}
	}
	return out
}

// MapRanges applies f to every range independently (e.g. every motion
// handler), keeping primary pinned to the same logical range when
// possible.
func (s Selection) MapRanges(f func(Region) Region) Selection {
	out := s.clone()
	for i, r := range out.ranges {
		out.ranges[i] = f(r)
	}
	out.normalize()
	return out
}

// normalize sorts ranges by start position and merges overlapping ones,
// keeping the primary pointing at an equivalent range afterwards.
func (s *Selection) normalize() {
	if len(s.ranges) == 0 {
		s.ranges = []Region{Point(0)}
		s.primary = 0
		return
	}
	primaryRegion := Region{}
	hadPrimary := s.primary >= 0 && s.primary < len(s.ranges)
	if hadPrimary {
		primaryRegion = s.ranges[s.primary]
	}

	sort.SliceStable(s.ranges, func(i, j int) bool {
		return s.ranges[i].Start() < s.ranges[j].Start()
	})

	merged := s.ranges[:0:0]
	for _, r := range s.ranges {
		if n := len(merged); n > 0 && r.Start() <= merged[n-1].End() {
			merged[n-1] = merged[n-1].Merge(r)
			continue
		}
		merged = append(merged, r)
	}
	s.ranges = merged

	if !hadPrimary {
		s.primary = len(s.ranges) - 1
		return
	}
	for i, r := range s.ranges {
		if r == primaryRegion {
			s.primary = i
			return
		}
	}
	// The primary range was merged into another; fall back to whichever
	// range now contains its old head.
	for i, r := range s.ranges {
		if r.Contains(primaryRegion.Head) {
			s.primary = i
			return
		}
	}
	if s.primary >= len(s.ranges) {
		s.primary = len(s.ranges) - 1
	}
}

// SplitOnDelimiter turns segments, given relative to the start of base,
// into absolute ranges, one per segment in the given order. It does not
// search text for delimiters itself; the caller supplies the segments.
func SplitOnDelimiter(text string, base Region, segments []Region) []Region {
	out := make([]Region, 0, len(segments))
	for _, seg := range segments {
		out = append(out, Region{Anchor: base.Start() + seg.Start(), Head: base.Start() + seg.End()})
	}
	return out
}
