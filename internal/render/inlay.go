package render

import (
	"sort"

	"github.com/rowan-editor/rowan/internal/lsp"
)

// InlaySpan is one inlay hint positioned for drawing: the line and
// column it is injected at, plus its label text.
type InlaySpan struct {
	Line  int
	Col   int
	Label string
}

// PrepareInlayHints converts cached inlay hints into drawable spans for
// the visible line range, sorted by (line, col) so a renderer can
// interleave them with the line's own cells in one pass. Hints outside
// [startLine, endLine] are dropped.
func PrepareInlayHints(text string, hints []lsp.InlayHintResult, startLine, endLine int, enc lsp.OffsetEncoding) []InlaySpan {
	var out []InlaySpan
	for _, h := range hints {
		pos := lsp.CharToPosition(text, h.CharOffset, enc)
		if pos.Line < startLine || pos.Line > endLine {
			continue
		}
		out = append(out, InlaySpan{Line: pos.Line, Col: pos.Character, Label: h.Label})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Col < out[j].Col
	})
	return out
}
