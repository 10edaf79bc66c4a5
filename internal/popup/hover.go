package popup

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// StyleFlag is a bitmask of inline text styling recovered from the
// hover content's markdown.
type StyleFlag int

const (
	StyleBold StyleFlag = 1 << iota
	StyleItalic
	StyleCode
	StyleHeader
)

// StyledSpan is one run of text sharing a style within a StyledLine.
type StyledSpan struct {
	Text  string
	Style StyleFlag
}

// StyledLine is one pre-parsed, already-wrapped-by-style line of hover
// content.
type StyledLine struct {
	Spans []StyledSpan
}

// Hover is the non-modal hover-info popup.
type Hover struct {
	x, y  int
	lines []StyledLine
}

// NewHover parses markdown once into []StyledLine via goldmark's AST
// and anchors the popup at the given screen position (typically the
// hovered token's start).
func NewHover(x, y int, markdown string) *Hover {
	return &Hover{x: x, y: y, lines: parseHoverMarkdown(markdown)}
}

func (h *Hover) ID() string { return "hover" }
func (h *Hover) Anchor() Anchor {
	return Anchor{Kind: AnchorPosition, X: h.x, Y: h.y, PreferAbove: false}
}
func (h *Hover) SizeHints() SizeHints {
	return SizeHints{MinWidth: 10, PreferredWidth: 60, MaxWidth: 80, MinHeight: 1, PreferredHeight: len(h.lines), MaxHeight: 20}
}
func (h *Hover) IsModal() bool             { return false }
func (h *Hover) DismissOnCursorMove() bool { return false }
func (h *Hover) AsAny() any                { return h }

// Lines returns the pre-parsed styled content.
func (h *Hover) Lines() []StyledLine { return h.lines }

// HandleEvent dismisses on any key except vertical scroll.
func (h *Hover) HandleEvent(e Event) EventResult {
	switch e.Kind {
	case EventMouseScroll:
		return EventResult{Consumed: true}
	case EventKey:
		if e.Key == keyUp || e.Key == keyDown {
			return EventResult{Consumed: true}
		}
		return EventResult{Consumed: true, Dismiss: true}
	}
	return EventResult{}
}

// parseHoverMarkdown walks goldmark's AST once, flattening headers,
// fenced code blocks, inline code, and bold/italic emphasis into styled
// lines.
func parseHoverMarkdown(src string) []StyledLine {
	source := []byte(src)
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var lines []StyledLine
	var cur StyledLine
	flush := func() {
		if len(cur.Spans) > 0 {
			lines = append(lines, cur)
			cur = StyledLine{}
		}
	}

	var emphasisStack []StyleFlag
	currentStyle := func() StyleFlag {
		var s StyleFlag
		for _, f := range emphasisStack {
			s |= f
		}
		return s
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				emphasisStack = append(emphasisStack, StyleHeader)
			} else {
				flush()
				emphasisStack = emphasisStack[:len(emphasisStack)-1]
			}
		case *ast.Emphasis:
			flag := StyleItalic
			if node.Level >= 2 {
				flag = StyleBold
			}
			if entering {
				emphasisStack = append(emphasisStack, flag)
			} else {
				emphasisStack = emphasisStack[:len(emphasisStack)-1]
			}
		case *ast.CodeSpan:
			if entering {
				text := string(nodeText(node, source))
				cur.Spans = append(cur.Spans, StyledSpan{Text: text, Style: currentStyle() | StyleCode})
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if entering {
				for i := 0; i < node.Lines().Len(); i++ {
					seg := node.Lines().At(i)
					lines = append(lines, StyledLine{Spans: []StyledSpan{{Text: string(seg.Value(source)), Style: StyleCode}}})
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				cur.Spans = append(cur.Spans, StyledSpan{Text: string(node.Segment.Value(source)), Style: currentStyle()})
				if node.SoftLineBreak() || node.HardLineBreak() {
					flush()
				}
			}
		case *ast.Paragraph:
			if !entering {
				flush()
			}
		}
		return ast.WalkContinue, nil
	})
	flush()
	return lines
}

func nodeText(n ast.Node, source []byte) []byte {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
		}
	}
	return out
}
