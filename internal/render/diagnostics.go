package render

import (
	"sort"

	"github.com/rowan-editor/rowan/internal/lsp"
)

// LineDiagnostics is the per-line display record for one rendered line:
// the gutter marker severity plus every message starting on the line,
// highest severity first.
type LineDiagnostics struct {
	Line     int
	Gutter   int // 4=error, 3=warning, 2=information, 1=hint; 0 = none
	Messages []string
}

// PrepareDiagnostics converts a document's raw diagnostics into display
// records for the visible line range [startLine, endLine], sorted by
// line. Lines without diagnostics produce no record.
func PrepareDiagnostics(d *lsp.DocState, startLine, endLine int) []LineDiagnostics {
	if d == nil {
		return nil
	}
	byLine := map[int][]lsp.Diagnostic{}
	for _, diag := range d.Diagnostics {
		line := diag.Range.Start.Line
		if line < startLine || line > endLine {
			continue
		}
		byLine[line] = append(byLine[line], diag)
	}
	out := make([]LineDiagnostics, 0, len(byLine))
	for line, diags := range byLine {
		sort.SliceStable(diags, func(i, j int) bool { return diags[i].Severity > diags[j].Severity })
		rec := LineDiagnostics{Line: line, Gutter: diags[0].Severity}
		for _, diag := range diags {
			rec.Messages = append(rec.Messages, diag.Message)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// SeverityAtChar returns the highest severity among diagnostics whose
// range covers the given character offset, for underline styling; 0
// when none does. text is the document content the offsets index into.
func SeverityAtChar(d *lsp.DocState, text string, char int, enc lsp.OffsetEncoding) int {
	if d == nil {
		return 0
	}
	best := 0
	for _, diag := range d.Diagnostics {
		start := lsp.PositionToChar(text, diag.Range.Start, enc)
		end := lsp.PositionToChar(text, diag.Range.End, enc)
		if char < start || char >= end {
			continue
		}
		if diag.Severity > best {
			best = diag.Severity
		}
	}
	return best
}
