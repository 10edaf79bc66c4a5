// Package rope implements the immutable-view rope that backs every
// Document. Ropes are persistent: editing a rope never mutates the
// receiver, it returns a new value that shares untouched leaf chunks
// with the original, so undo snapshots are cheap copies rather than
// deep clones.
package rope

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// leafTarget is the approximate rune length a leaf is split at. Chunks
// smaller than this are left alone; larger ones are split on insert so a
// single edit never touches more than a couple of leaves' worth of text.
const leafTarget = 1024

// Rope is a persistent sequence of characters stored as a slice of leaf
// chunks. The zero value is a valid empty rope.
type Rope struct {
	leaves []string
	// runeLens[i] is the rune count of leaves[i], cached so LenChars and
	// offset lookups don't re-scan UTF-8 on every call.
	runeLens []int
	length   int
}

// New builds a Rope from a string, splitting it into leaves.
func New(s string) Rope {
	if s == "" {
		return Rope{}
	}
	var r Rope
	for len(s) > 0 {
		chunk, rest := splitAt(s, leafTarget)
		r.leaves = append(r.leaves, chunk)
		n := utf8.RuneCountInString(chunk)
		r.runeLens = append(r.runeLens, n)
		r.length += n
		s = rest
	}
	return r
}

// splitAt splits s after approximately n runes, always on a rune boundary.
func splitAt(s string, n int) (head, tail string) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], s[i:]
		}
		count++
	}
	return s, ""
}

// LenChars returns the number of characters (runes) in the rope.
func (r Rope) LenChars() int { return r.length }

// IsEmpty reports whether the rope has no characters.
func (r Rope) IsEmpty() bool { return r.length == 0 }

// String returns the full text of the rope.
func (r Rope) String() string {
	var b strings.Builder
	b.Grow(r.byteLen())
	for _, l := range r.leaves {
		b.WriteString(l)
	}
	return b.String()
}

func (r Rope) byteLen() int {
	n := 0
	for _, l := range r.leaves {
		n += len(l)
	}
	return n
}

// leafOffset locates the leaf containing the char offset `at`, returning
// the leaf index and the rune offset of `at` within that leaf. An offset
// equal to the rope length returns the (possibly out of range) leaf just
// past the end, with inLeaf equal to that leaf's length.
func (r Rope) leafOffset(at int) (leafIdx, inLeaf int) {
	remaining := at
	for i, n := range r.runeLens {
		if remaining <= n {
			return i, remaining
		}
		remaining -= n
	}
	if len(r.leaves) == 0 {
		return 0, 0
	}
	return len(r.leaves) - 1, r.runeLens[len(r.runeLens)-1]
}

// byteIndexInLeaf converts a rune offset within a leaf to a byte offset.
func byteIndexInLeaf(leaf string, runeOff int) int {
	if runeOff <= 0 {
		return 0
	}
	count := 0
	for i := range leaf {
		if count == runeOff {
			return i
		}
		count++
	}
	return len(leaf)
}

// Slice returns the text of the half-open char range [a, b).
func (r Rope) Slice(a, b int) string {
	if a < 0 {
		a = 0
	}
	if b > r.length {
		b = r.length
	}
	if a >= b {
		return ""
	}
	startLeaf, startOff := r.leafOffset(a)
	endLeaf, endOff := r.leafOffset(b)

	if startLeaf == endLeaf {
		l := r.leaves[startLeaf]
		return l[byteIndexInLeaf(l, startOff):byteIndexInLeaf(l, endOff)]
	}

	var sb strings.Builder
	first := r.leaves[startLeaf]
	sb.WriteString(first[byteIndexInLeaf(first, startOff):])
	for i := startLeaf + 1; i < endLeaf; i++ {
		sb.WriteString(r.leaves[i])
	}
	last := r.leaves[endLeaf]
	sb.WriteString(last[:byteIndexInLeaf(last, endOff)])
	return sb.String()
}

// Insert returns a new rope with text inserted at the char offset at.
func (r Rope) Insert(at int, text string) Rope {
	if text == "" {
		return r
	}
	if r.length == 0 {
		return New(text)
	}
	if at < 0 {
		at = 0
	}
	if at > r.length {
		at = r.length
	}

	leafIdx, inLeaf := r.leafOffset(at)
	leaf := r.leaves[leafIdx]
	bidx := byteIndexInLeaf(leaf, inLeaf)
	merged := leaf[:bidx] + text + leaf[bidx:]

	out := Rope{
		leaves:   make([]string, 0, len(r.leaves)+2),
		runeLens: make([]int, 0, len(r.runeLens)+2),
	}
	out.leaves = append(out.leaves, r.leaves[:leafIdx]...)
	out.runeLens = append(out.runeLens, r.runeLens[:leafIdx]...)

	for len(merged) > 0 && utf8.RuneCountInString(merged) > leafTarget*2 {
		chunk, rest := splitAt(merged, leafTarget)
		out.leaves = append(out.leaves, chunk)
		out.runeLens = append(out.runeLens, utf8.RuneCountInString(chunk))
		merged = rest
	}
	if merged != "" {
		out.leaves = append(out.leaves, merged)
		out.runeLens = append(out.runeLens, utf8.RuneCountInString(merged))
	}

	out.leaves = append(out.leaves, r.leaves[leafIdx+1:]...)
	out.runeLens = append(out.runeLens, r.runeLens[leafIdx+1:]...)
	out.length = r.length + utf8.RuneCountInString(text)
	return out
}

// Delete returns a new rope with the half-open char range [a, b) removed.
func (r Rope) Delete(a, b int) Rope {
	if a < 0 {
		a = 0
	}
	if b > r.length {
		b = r.length
	}
	if a >= b {
		return r
	}
	before := r.Slice(0, a)
	after := r.Slice(b, r.length)
	return New(before + after)
}

// Replace returns a new rope with [a, b) replaced by text.
func (r Rope) Replace(a, b int, text string) Rope {
	return r.Delete(a, b).Insert(a, text)
}

// RowCol converts a char offset into a zero-based (row, column) pair;
// negative or past-end offsets clamp rather than panic.
func (r Rope) RowCol(point int) (row, col int) {
	if point < 0 {
		return 0, 0
	}
	if point > r.length {
		point = r.length
	}
	text := r.Slice(0, point)
	row = strings.Count(text, "\n")
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		col = utf8.RuneCountInString(text[idx+1:])
	} else {
		col = utf8.RuneCountInString(text)
	}
	return row, col
}

// TextPoint converts a (row, column) pair back into a char offset.
func (r Rope) TextPoint(row, col int) int {
	if row < 0 {
		row = 0
	}
	full := r.String()
	lineStart := 0
	cur := 0
	for cur < row {
		idx := strings.IndexByte(full[lineStart:], '\n')
		if idx < 0 {
			lineStart = len(full)
			break
		}
		lineStart += idx + 1
		cur++
	}
	lineEnd := len(full)
	if idx := strings.IndexByte(full[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	lineRunes := utf8.RuneCountInString(full[lineStart:lineEnd])
	if col > lineRunes {
		col = lineRunes
	}
	if col < 0 {
		col = 0
	}
	return utf8.RuneCountInString(full[:lineStart]) + col
}

// VisualColumn returns the display-column (tab/width aware) of point on
// its line, using go-runewidth the way the rendering layer measures glyph
// width for cursor placement.
func (r Rope) VisualColumn(point int, tabWidth int) int {
	row, _ := r.RowCol(point)
	lineStart := r.TextPoint(row, 0)
	text := r.Slice(lineStart, point)
	col := 0
	for _, ru := range text {
		if ru == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col += runewidth.RuneWidth(ru)
	}
	return col
}

// ---- Encoding helpers ----

// Utf8CharCount returns the number of non-continuation bytes in s, which
// equals the number of codepoints s decodes to.
func Utf8CharCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i]&0xC0 != 0x80 {
			n++
		}
	}
	return n
}

// Utf8CodepointSizeFromByte returns the byte length of the UTF-8 sequence
// that starts with the given lead byte.
func Utf8CodepointSizeFromByte(b byte) int {
	switch {
	case b&0x80 == 0x00:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// CharToUTF16 converts a char (rune) offset within s to a UTF-16 code
// unit offset, the single choke point the LSP coordinator must use when
// talking to a server declaring UTF-16 offset encoding.
func CharToUTF16(s string, charOffset int) int {
	units := 0
	i := 0
	for _, ru := range s {
		if i == charOffset {
			return units
		}
		if ru > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i++
	}
	return units
}

// UTF16ToChar converts a UTF-16 code unit offset within s back to a char
// (rune) offset.
func UTF16ToChar(s string, utf16Offset int) int {
	units := 0
	i := 0
	for _, ru := range s {
		if units >= utf16Offset {
			return i
		}
		if ru > 0xFFFF {
			units += 2
		} else {
			units++
		}
		i++
	}
	return i
}

// DecodeUTF16Pair mirrors utf16.DecodeRune, completing the
// encode/decode round trip.
func DecodeUTF16Pair(r1, r2 uint16) rune {
	return utf16.DecodeRune(rune(r1), rune(r2))
}
