package rope

import "regexp"

// Classification flags describing what lies at a position: word motions
// and word text objects in stdactions are built on this bit layout.
const (
	ClassWordStart = 1 << iota
	ClassWordEnd
	ClassPunctuationStart
	ClassPunctuationEnd
	ClassSubWordStart
	ClassSubWordEnd
	ClassLineStart
	ClassLineEnd
	ClassEmptyLine
	ClassMiddleWord
	ClassWordStartWithPunctuation
	ClassWordEndWithPunctuation
	ClassOpeningParenthesis
	ClassClosingParenthesis

	DefaultSeparators = `[!"#$%&'()*+,\-./:;<=>?@\[\\\]^` + "`" + `{|}~]`
)

var (
	reUpper     = regexp.MustCompile(`[A-Z]`)
	reWord      = regexp.MustCompile(`\w`)
	reSpace     = regexp.MustCompile(`\s`)
	reOpenParen = regexp.MustCompile(`[(\[{]`)
	reCloseParen = regexp.MustCompile(`[)\]}]`)
)

// Classify reproduces View.Classify against a Rope: it looks at the
// single characters immediately before and after `point` and returns a
// bitwise OR of the flags above. Word separators default to
// DefaultSeparators; callers (via the word_separators option) may
// supply a different separator regex.
func (r Rope) Classify(point int, separators string) int {
	if separators == "" {
		separators = DefaultSeparators
	}
	reSep, err := regexp.Compile(separators)
	if err != nil {
		reSep = regexp.MustCompile(DefaultSeparators)
	}

	size := r.LenChars()
	if size == 0 || point < 0 || point > size {
		return 3520
	}

	a, b := "", ""
	if point > 0 {
		a = r.Slice(point-1, point)
	}
	if point < size {
		b = r.Slice(point, point+1)
	}

	res := 0

	if a == b && reSep.MatchString(a) {
		return 0
	}

	if reUpper.MatchString(b) && !reUpper.MatchString(a) {
		res |= ClassSubWordStart | ClassSubWordEnd
	}
	if a == "_" && b != "_" {
		res |= ClassSubWordStart
	}
	if b == "_" && a != "_" {
		res |= ClassSubWordEnd
	}

	sepNonEmpty := separators != ""
	if (reSep.MatchString(b) && sepNonEmpty) || b == "" {
		if !(reSep.MatchString(a) && sepNonEmpty) {
			res |= ClassPunctuationStart
		}
	}
	if (reSep.MatchString(a) && sepNonEmpty) || a == "" {
		if !(reSep.MatchString(b) && sepNonEmpty) {
			res |= ClassPunctuationEnd
		}
	}

	if reWord.MatchString(b) && ((reSep.MatchString(a) && sepNonEmpty) || reSpace.MatchString(a) || a == "") {
		res |= ClassWordStart
	}
	if reWord.MatchString(a) && ((reSep.MatchString(b) && sepNonEmpty) || reSpace.MatchString(b) || b == "") {
		res |= ClassWordEnd
	}

	if a == "\n" || a == "" {
		res |= ClassLineStart
	}
	if b == "\n" || b == "" {
		res |= ClassLineEnd
		if separators == "" {
			res |= ClassWordEnd
		}
	}
	if (a == "\n" && b == "\n") || (a == "" && b == "") {
		res |= ClassEmptyLine
	}
	if reWord.MatchString(a) && reWord.MatchString(b) {
		res |= ClassMiddleWord
	}

	if res&ClassPunctuationStart != 0 && (reSpace.MatchString(a) || a == "") {
		res |= ClassWordStartWithPunctuation
	}
	if res&ClassPunctuationEnd != 0 && (reSpace.MatchString(b) || b == "") {
		res |= ClassWordEndWithPunctuation
	}

	if reOpenParen.MatchString(a) || reOpenParen.MatchString(b) {
		res |= ClassOpeningParenthesis
	}
	if reCloseParen.MatchString(a) || reCloseParen.MatchString(b) {
		res |= ClassClosingParenthesis
	}
	if a == "," {
		res |= ClassOpeningParenthesis
	}
	if b == "," {
		res |= ClassClosingParenthesis
	}

	return res
}

// FindByClass searches forward (or backward) from point for the next
// position whose Classify result intersects classes.
func (r Rope) FindByClass(point int, forward bool, classes int, separators string) int {
	step := -1
	if forward {
		step = 1
	}
	size := r.LenChars()
	for p := point + step; ; p += step {
		if p <= 0 {
			return 0
		}
		if p >= size {
			return size
		}
		if r.Classify(p, separators)&classes != 0 {
			return p
		}
	}
}

// ExpandByClass grows a region outward in both directions until it hits a
// boundary matching classes, mirroring View.ExpandByClass.
func (r Rope) ExpandByClass(reg Region, classes int, separators string) Region {
	a := reg.Start()
	if a > 0 {
		a--
	} else if a < 0 {
		a = 0
	}
	b := reg.End()
	size := r.LenChars()
	if b < size {
		b++
	} else if b > size {
		b = size
	}
	for ; a > 0 && r.Classify(a, separators)&classes == 0; a-- {
	}
	for ; b < size && r.Classify(b, separators)&classes == 0; b++ {
	}
	return Region{Anchor: a, Head: b}
}
