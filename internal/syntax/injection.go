package syntax

import sitter "github.com/smacker/go-tree-sitter"

// Injection is a span of source that should be parsed with a different
// grammar than its enclosing document,
// e.g. a fenced code block inside Markdown or a template expression
// inside HTML.
type Injection struct {
	Language             string
	StartByte, EndByte   uint32
	StartPoint, EndPoint sitter.Point
}

// injectionCaptureNames are the two capture names an injections.scm query
// is expected to pair per match, following the convention tree-sitter's
// own highlight/injection queries use: the node naming the target
// language and the node holding the text to reparse with it.
const (
	captureLanguage = "injection.language"
	captureContent  = "injection.content"
)

// Injections runs an injections.scm-style query over the tree and
// resolves each match to a concrete language name plus byte range. A
// match with a literal injection.language capture uses that node's text
// directly; staticLanguage overrides this for queries that only tag
// injection.content and bake the language into a query property
// (#set! injection.language "..."), which this package's query wrapper
// does not itself parse from predicates.
func (s *State) Injections(hq *HighlightQuery, staticLanguage string) []Injection {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(hq.query, s.tree.RootNode())

	var out []Injection
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, s.source)

		var lang string
		var content *sitter.Node
		for _, c := range m.Captures {
			switch hq.query.CaptureNameForId(c.Index) {
			case captureLanguage:
				lang = string(s.source[c.Node.StartByte():c.Node.EndByte()])
			case captureContent:
				content = c.Node
			}
		}
		if content == nil {
			continue
		}
		if lang == "" {
			lang = staticLanguage
		}
		if lang == "" {
			continue
		}
		out = append(out, Injection{
			Language:   lang,
			StartByte:  content.StartByte(),
			EndByte:    content.EndByte(),
			StartPoint: content.StartPoint(),
			EndPoint:   content.EndPoint(),
		})
	}
	return out
}

// ResolveInjections builds a child State for every injection whose
// language is registered, parsing just that byte span's text. Unknown
// languages are skipped rather than erroring: an unsupported fenced-code
// language in a Markdown file shouldn't block highlighting the rest of
// the document.
func (s *State) ResolveInjections(hq *HighlightQuery, staticLanguage string) map[Injection]*State {
	out := make(map[Injection]*State)
	for _, inj := range s.Injections(hq, staticLanguage) {
		if _, ok := LanguageByName(inj.Language); !ok {
			continue
		}
		child, err := New(inj.Language, string(s.source[inj.StartByte:inj.EndByte]))
		if err != nil {
			continue
		}
		out[inj] = child
	}
	return out
}
