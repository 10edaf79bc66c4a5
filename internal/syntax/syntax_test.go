package syntax

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/transaction"
)

func TestLanguageForExtResolvesRegisteredGrammar(t *testing.T) {
	name, lang, ok := LanguageForExt(".go")
	if !ok || name != "go" || lang == nil {
		t.Fatalf("expected .go to resolve to the registered go grammar, got name=%q ok=%v", name, ok)
	}
}

func TestNewParsesInitialSource(t *testing.T) {
	src := "package main\n\nfunc main() {}\n"
	s, err := New("go", src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	root := s.Tree().RootNode()
	if root.Type() != "source_file" {
		t.Fatalf("expected root type source_file, got %q", root.Type())
	}
	if root.HasError() {
		t.Fatalf("expected no parse errors, tree: %s", root.String())
	}
}

func TestEditReparsesIncrementally(t *testing.T) {
	src := "package main\n\nfunc main() {}\n"
	s, err := New("go", src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	newText := "package main\n\nfunc main() { x := 1; _ = x }\n"
	builder := transaction.NewBuilder(len([]rune(src)))
	insertAt := len([]rune("package main\n\nfunc main() {"))
	builder.Retain(insertAt).InsertText(" x := 1; _ = x").Retain(len([]rune(src)) - insertAt)
	tx, err := builder.Build()
	if err != nil {
		t.Fatalf("build tx: %v", err)
	}

	if err := s.Edit(tx, newText); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if string(s.Source()) != newText {
		t.Fatalf("expected source updated to %q, got %q", newText, string(s.Source()))
	}
	if s.Tree().RootNode().Type() != "source_file" {
		t.Fatalf("expected reparsed root type source_file, got %q", s.Tree().RootNode().Type())
	}
}

func TestHighlightsFindsFunctionDeclaration(t *testing.T) {
	lang, _ := LanguageByName("go")
	hq, err := NewHighlightQuery(lang, `(function_declaration name: (identifier) @function)`)
	if err != nil {
		t.Fatalf("NewHighlightQuery: %v", err)
	}

	s, err := New("go", "package main\n\nfunc main() {}\n")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	caps := s.Highlights(hq)
	if len(caps) != 1 {
		t.Fatalf("expected 1 capture, got %d: %+v", len(caps), caps)
	}
	if caps[0].Name != "function" {
		t.Fatalf("expected capture name 'function', got %q", caps[0].Name)
	}
	got := string(s.Source()[caps[0].StartByte:caps[0].EndByte])
	if got != "main" {
		t.Fatalf("expected capture text 'main', got %q", got)
	}
}

func TestResolveInjectionsEmptyWhenQueryNeverMatches(t *testing.T) {
	lang, _ := LanguageByName("go")
	// Go source has no injected languages; this query never matches, so
	// ResolveInjections should return an empty, non-nil map rather than error.
	hq, err := NewHighlightQuery(lang, `(comment) @injection.content`)
	if err != nil {
		t.Fatalf("NewHighlightQuery: %v", err)
	}

	s, err := New("go", "package main\n")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	resolved := s.ResolveInjections(hq, "")
	if len(resolved) != 0 {
		t.Fatalf("expected no resolved injections without a language capture, got %d", len(resolved))
	}
}
