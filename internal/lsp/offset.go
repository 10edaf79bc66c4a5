package lsp

import (
	"strings"

	"github.com/rowan-editor/rowan/internal/rope"
)

// CharToPosition converts a char offset into text to an LSP Position
// in the given encoding. All char<->Position conversion funnels
// through here and PositionToChar; mixing encodings anywhere else is a
// defect.
func CharToPosition(text string, charOffset int, enc OffsetEncoding) Position {
	runes := []rune(text)
	if charOffset > len(runes) {
		charOffset = len(runes)
	}
	line := 0
	lineStart := 0
	for i := 0; i < charOffset; i++ {
		if runes[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineText := string(runes[lineStart:charOffset])
	return Position{Line: line, Character: encodeColumn(lineText, enc)}
}

// PositionToChar is the inverse conversion.
func PositionToChar(text string, pos Position, enc OffsetEncoding) int {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(lines) {
		return len([]rune(text))
	}
	charsBefore := 0
	runes := []rune(text)
	line := 0
	for i, r := range runes {
		if line == pos.Line {
			charsBefore = i
			break
		}
		if r == '\n' {
			line++
		}
	}
	lineText := lines[pos.Line]
	return charsBefore + decodeColumn(lineText, pos.Character, enc)
}

func encodeColumn(s string, enc OffsetEncoding) int {
	switch enc {
	case EncodingUTF8:
		return len(s)
	case EncodingUTF32:
		return rope.Utf8CharCount(s)
	default: // EncodingUTF16
		return rope.CharToUTF16(s, rope.Utf8CharCount(s))
	}
}

func decodeColumn(s string, col int, enc OffsetEncoding) int {
	switch enc {
	case EncodingUTF8:
		if col > len(s) {
			col = len(s)
		}
		return rope.Utf8CharCount(s[:col])
	case EncodingUTF32:
		runes := []rune(s)
		if col > len(runes) {
			col = len(runes)
		}
		return col
	default: // EncodingUTF16
		return rope.UTF16ToChar(s, col)
	}
}
