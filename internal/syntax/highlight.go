package syntax

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// HighlightQuery wraps a compiled tree-sitter query (a highlights.scm
// source) for a single language, reusable across every document parsed
// with that grammar.
type HighlightQuery struct {
	lang  *sitter.Language
	query *sitter.Query
}

// NewHighlightQuery compiles a tree-sitter query against lang. source is
// the query text (the contents of a highlights.scm file), not a path:
// this package has no opinion on where query sources live.
func NewHighlightQuery(lang *sitter.Language, source string) (*HighlightQuery, error) {
	q, err := sitter.NewQuery([]byte(source), lang)
	if err != nil {
		return nil, err
	}
	return &HighlightQuery{lang: lang, query: q}, nil
}

// Capture is one matched, named span from a highlight query.
type Capture struct {
	Name                 string
	StartByte, EndByte    uint32
	StartPoint, EndPoint  sitter.Point
}

// Highlights runs hq over the current tree and returns every capture in
// document order, the editor's highlight iterator. Render consumes this to paint spans; it does not itself
// decide colors.
func (s *State) Highlights(hq *HighlightQuery) []Capture {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(hq.query, s.tree.RootNode())

	var out []Capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, s.source)
		for _, c := range m.Captures {
			out = append(out, Capture{
				Name:       hq.query.CaptureNameForId(c.Index),
				StartByte:  c.Node.StartByte(),
				EndByte:    c.Node.EndByte(),
				StartPoint: c.Node.StartPoint(),
				EndPoint:   c.Node.EndPoint(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartByte != out[j].StartByte {
			return out[i].StartByte < out[j].StartByte
		}
		return out[i].EndByte > out[j].EndByte
	})
	return out
}

// HighlightsInRange restricts the iterator to captures overlapping
// [startByte, endByte), the common case of highlighting only the visible
// viewport rather than the whole file.
func (s *State) HighlightsInRange(hq *HighlightQuery, startByte, endByte uint32) []Capture {
	all := s.Highlights(hq)
	var out []Capture
	for _, c := range all {
		if c.EndByte > startByte && c.StartByte < endByte {
			out = append(out, c)
		}
	}
	return out
}
