package stdactions

import (
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

func init() {
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.word", Name: "word", Trigger: 'w',
		Inner: wordInner, Around: wordAround,
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.paren", Name: "paren", Trigger: '(', AltTriggers: []rune{')', 'b'},
		Inner: pairedInner('(', ')'), Around: pairedAround('(', ')'),
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.bracket", Name: "bracket", Trigger: '[', AltTriggers: []rune{']'},
		Inner: pairedInner('[', ']'), Around: pairedAround('[', ']'),
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.brace", Name: "brace", Trigger: '{', AltTriggers: []rune{'}', 'B'},
		Inner: pairedInner('{', '}'), Around: pairedAround('{', '}'),
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.angle", Name: "angle", Trigger: '<', AltTriggers: []rune{'>'},
		Inner: pairedInner('<', '>'), Around: pairedAround('<', '>'),
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.dquote", Name: "double_quote", Trigger: '"',
		Inner: quotedInner('"'), Around: quotedAround('"'),
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.squote", Name: "single_quote", Trigger: '\'',
		Inner: quotedInner('\''), Around: quotedAround('\''),
	})
	registry.RegisterTextObject(&registry.TextObject{
		ID: "textobject.backtick", Name: "backtick", Trigger: '`',
		Inner: quotedInner('`'), Around: quotedAround('`'),
	})
}

// wordInner expands around pos to the contiguous run of word (or
// punctuation) characters, classify.go's word-start/end classes doing
// the boundary detection.
func wordInner(text string, pos int) (rope.Region, bool) {
	runes := []rune(text)
	if len(runes) == 0 {
		return rope.Region{}, false
	}
	a, b := expandByClass(runes, pos, pos, classWordStart)
	_, b2 := expandByClass(runes, pos, pos, classWordEnd)
	if b2 > b {
		b = b2
	}
	return rope.Region{Anchor: a, Head: b}, true
}

// wordAround additionally swallows one trailing (or, failing that,
// leading) run of whitespace, the usual vim-style "a word" behavior.
func wordAround(text string, pos int) (rope.Region, bool) {
	r, ok := wordInner(text, pos)
	if !ok {
		return r, false
	}
	runes := []rune(text)
	end := r.End()
	start := r.Start()
	grew := false
	for end < len(runes) && (runes[end] == ' ' || runes[end] == '\t') {
		end++
		grew = true
	}
	if !grew {
		for start > 0 && (runes[start-1] == ' ' || runes[start-1] == '\t') {
			start--
		}
	}
	return rope.Region{Anchor: start, Head: end}, true
}

// pairedInner/pairedAround find the innermost enclosing (open, close)
// pair around pos by scanning outward with a depth counter, the same
// bracket-matching idiom any modal editor's text objects use.
func pairedInner(open, close rune) func(string, int) (rope.Region, bool) {
	return func(text string, pos int) (rope.Region, bool) {
		runes := []rune(text)
		start, end, ok := findEnclosingPair(runes, pos, open, close)
		if !ok {
			return rope.Region{}, false
		}
		return rope.Region{Anchor: start + 1, Head: end}, true
	}
}

func pairedAround(open, close rune) func(string, int) (rope.Region, bool) {
	return func(text string, pos int) (rope.Region, bool) {
		runes := []rune(text)
		start, end, ok := findEnclosingPair(runes, pos, open, close)
		if !ok {
			return rope.Region{}, false
		}
		return rope.Region{Anchor: start, Head: end + 1}, true
	}
}

// findEnclosingPair returns the rune offsets of the enclosing open/close
// delimiters, or false if pos is not nested inside one.
func findEnclosingPair(runes []rune, pos int, open, close rune) (start, end int, ok bool) {
	depth := 0
	start = -1
	for i := pos - 1; i >= 0; i-- {
		switch runes[i] {
		case close:
			depth++
		case open:
			if depth == 0 {
				start = i
			} else {
				depth--
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	depth = 0
	end = -1
	for i := pos; i < len(runes); i++ {
		switch runes[i] {
		case open:
			depth++
		case close:
			if depth == 0 {
				end = i
			} else {
				depth--
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// quotedInner/quotedAround find the nearest pair of quote runes on pos's
// line, since quotes (unlike brackets) aren't nestable.
func quotedInner(q rune) func(string, int) (rope.Region, bool) {
	return func(text string, pos int) (rope.Region, bool) {
		start, end, ok := findQuotePair(text, pos, q)
		if !ok {
			return rope.Region{}, false
		}
		return rope.Region{Anchor: start + 1, Head: end}, true
	}
}

func quotedAround(q rune) func(string, int) (rope.Region, bool) {
	return func(text string, pos int) (rope.Region, bool) {
		start, end, ok := findQuotePair(text, pos, q)
		if !ok {
			return rope.Region{}, false
		}
		return rope.Region{Anchor: start, Head: end + 1}, true
	}
}

func findQuotePair(text string, pos int, q rune) (start, end int, ok bool) {
	runes := []rune(text)
	lineStart := pos
	for lineStart > 0 && runes[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := pos
	for lineEnd < len(runes) && runes[lineEnd] != '\n' {
		lineEnd++
	}
	var positions []int
	for i := lineStart; i < lineEnd; i++ {
		if runes[i] == q {
			positions = append(positions, i)
		}
	}
	for i := 0; i+1 < len(positions); i += 2 {
		if positions[i] <= pos && pos <= positions[i+1] {
			return positions[i], positions[i+1], true
		}
	}
	return 0, 0, false
}
