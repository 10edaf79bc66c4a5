package stdactions

import (
	"strings"

	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

// applyMotionCount runs step count times, the uniform loop every
// character-at-a-time Motion handler shares.
func applyMotionCount(count int, step func(int) int, head int) int {
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		head = step(head)
	}
	return head
}

// motionResult builds the new Region: extend keeps the anchor and
// moves only the head; otherwise the range collapses to a point at the
// new head.
func motionResult(r rope.Region, newHead int, extend bool) rope.Region {
	if extend {
		return r.WithHead(newHead)
	}
	return rope.Point(newHead)
}

func clampPos(p, n int) int {
	if p < 0 {
		return 0
	}
	if p > n {
		return n
	}
	return p
}

func init() {
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.char_left", Name: "char_left", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			n := len([]rune(text))
			head := applyMotionCount(count, func(p int) int { return clampPos(p-1, n) }, r.Head)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.char_right", Name: "char_right", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			n := len([]rune(text))
			head := applyMotionCount(count, func(p int) int { return clampPos(p+1, n) }, r.Head)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.line_up", Name: "line_up", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			head := verticalMove(text, r.Head, -count)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.line_down", Name: "line_down", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			head := verticalMove(text, r.Head, count)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.line_start", Name: "line_start", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			row, _ := textPointRowCol(text, r.Head)
			head := textPointOf(text, row, 0)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.line_end", Name: "line_end", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			row, _ := textPointRowCol(text, r.Head)
			lineLen := lineLength(text, row)
			head := textPointOf(text, row, lineLen)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.first_non_blank", Name: "first_non_blank", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			row, _ := textPointRowCol(text, r.Head)
			start := textPointOf(text, row, 0)
			runes := []rune(text)
			end := start
			for end < len(runes) && runes[end] != '\n' && (runes[end] == ' ' || runes[end] == '\t') {
				end++
			}
			return motionResult(r, end, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.doc_start", Name: "doc_start", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			return motionResult(r, 0, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.doc_end", Name: "doc_end", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			return motionResult(r, len([]rune(text)), extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.word_next_start", Name: "word_next_start", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			runes := []rune(text)
			head := applyMotionCount(count, func(p int) int {
				return findByClass(runes, p, true, classWordStart|classPunctuationStart)
			}, r.Head)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.word_prev_start", Name: "word_prev_start", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			runes := []rune(text)
			head := applyMotionCount(count, func(p int) int {
				return findByClass(runes, p, false, classWordStart|classPunctuationStart)
			}, r.Head)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.word_next_end", Name: "word_next_end", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			runes := []rune(text)
			head := applyMotionCount(count, func(p int) int {
				return findByClass(runes, p, true, classWordEnd|classPunctuationEnd)
			}, r.Head)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.paragraph_next", Name: "paragraph_next", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			runes := []rune(text)
			head := applyMotionCount(count, func(p int) int {
				return findByClass(runes, p, true, classEmptyLine)
			}, r.Head)
			return motionResult(r, head, extend)
		},
	})
	registry.RegisterMotion(&registry.Motion{
		ID: "motion.paragraph_prev", Name: "paragraph_prev", Priority: 0,
		Handler: func(text string, r rope.Region, count int, extend bool) rope.Region {
			runes := []rune(text)
			head := applyMotionCount(count, func(p int) int {
				return findByClass(runes, p, false, classEmptyLine)
			}, r.Head)
			return motionResult(r, head, extend)
		},
	})
}

// verticalMove computes the rune offset delta lines away from point,
// honoring the Open Question decision that preferred column is tracked
// by internal/buffer, not by the motion itself — the motion always aims
// for point's own current column, and internal/stdactions' action
// wrapper (actions_motion.go) is what consults/updates the buffer's
// remembered preferred column around calling this.
func verticalMove(text string, point, deltaLines int) int {
	row, col := textPointRowCol(text, point)
	targetRow := row + deltaLines
	if targetRow < 0 {
		targetRow = 0
	}
	return textPointOf(text, targetRow, col)
}

func textPointRowCol(text string, point int) (row, col int) {
	runes := []rune(text)
	if point < 0 {
		return 0, 0
	}
	if point > len(runes) {
		point = len(runes)
	}
	for i := 0; i < point; i++ {
		if runes[i] == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return row, col
}

func textPointOf(text string, row, col int) int {
	lines := strings.Split(text, "\n")
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	offset := 0
	for i := 0; i < row; i++ {
		offset += len([]rune(lines[i])) + 1
	}
	lineRunes := len([]rune(lines[row]))
	if col > lineRunes {
		col = lineRunes
	}
	if col < 0 {
		col = 0
	}
	return offset + col
}

func lineLength(text string, row int) int {
	lines := strings.Split(text, "\n")
	if row < 0 || row >= len(lines) {
		return 0
	}
	return len([]rune(lines[row]))
}
