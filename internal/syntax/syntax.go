// Package syntax keeps an incremental tree-sitter parse tree in sync with
// a document's rope.
//
// Built on the usual go-tree-sitter
// sitter.NewParser/SetLanguage/ParseCtx idiom, extended from
// single-shot parsing into the incremental tree.Edit + reparse cycle
// go-tree-sitter's API is built around.
package syntax

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/limetext/util"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rowan-editor/rowan/internal/transaction"
)

var (
	langMu    sync.RWMutex
	languages = map[string]*sitter.Language{}
	byExt     = map[string]string{}
)

// RegisterLanguage makes a tree-sitter grammar available under name
// for the given file extensions (including the leading dot). Intended
// to be called from init() in a language-specific file, so adding a
// grammar never touches this file.
func RegisterLanguage(name string, lang *sitter.Language, exts []string) {
	langMu.Lock()
	defer langMu.Unlock()
	languages[name] = lang
	for _, ext := range exts {
		byExt[ext] = name
	}
}

// LanguageByName looks up a registered grammar.
func LanguageByName(name string) (*sitter.Language, bool) {
	langMu.RLock()
	defer langMu.RUnlock()
	lang, ok := languages[name]
	return lang, ok
}

// LanguageForExt resolves a file extension (e.g. ".go") to a registered
// grammar name, mirroring sacenox-symb's langForExt dispatch.
func LanguageForExt(ext string) (string, *sitter.Language, bool) {
	langMu.RLock()
	defer langMu.RUnlock()
	name, ok := byExt[ext]
	if !ok {
		return "", nil, false
	}
	return name, languages[name], true
}

// State is one document's incremental parse state: the current tree, the
// source it was parsed from, and the parser configured for its language.
// Not safe for concurrent use; the editor loop owns it the way it owns
// everything else.
type State struct {
	langName string
	parser   *sitter.Parser
	tree     *sitter.Tree
	source   []byte
}

// New creates parse state for the given registered language name and
// initial source text, running the first (non-incremental) parse.
func New(langName string, initial string) (*State, error) {
	lang, ok := LanguageByName(langName)
	if !ok {
		return nil, fmt.Errorf("syntax: unregistered language %q", langName)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	s := &State{langName: langName, parser: p, source: []byte(initial)}
	tree, err := p.ParseCtx(context.Background(), nil, s.source)
	if err != nil {
		return nil, err
	}
	s.tree = tree
	return s, nil
}

// Close releases the parser's C resources. Callers must call this when a
// document's syntax state is discarded (buffer/document close).
func (s *State) Close() {
	if s.tree != nil {
		s.tree.Close()
	}
	s.parser.Close()
}

// Language returns the registered grammar name this state parses with.
func (s *State) Language() string { return s.langName }

// Tree returns the current parse tree. Callers must not retain it across
// the next Edit call: Edit mutates and replaces it.
func (s *State) Tree() *sitter.Tree { return s.tree }

// Source returns the byte slice the current tree was parsed from.
func (s *State) Source() []byte { return s.source }

// Edit applies the rune-indexed transaction tx (already applied to the
// document's rope, producing newText) to the tree, notifying tree-sitter
// of each changed byte range before reparsing incrementally against the
// old tree. This keeps the invariant that the syntax tree is consistent
// with the rope after every applied transaction.
func (s *State) Edit(tx transaction.Transaction, newText string) error {
	newSrc := []byte(newText)
	oldByte, newByte := 0, 0
	for _, op := range tx.Ops() {
		switch op.Kind {
		case transaction.Retain:
			n := byteLenOfRunes(s.source, oldByte, op.N)
			oldByte += n
			newByte += n
		case transaction.Delete:
			start := oldByte
			n := byteLenOfRunes(s.source, oldByte, op.N)
			oldByte += n
			s.tree.Edit(sitter.EditInput{
				StartIndex:  uint32(start),
				OldEndIndex: uint32(oldByte),
				NewEndIndex: uint32(newByte),
				StartPoint:  pointAt(s.source, start),
				OldEndPoint: pointAt(s.source, oldByte),
				NewEndPoint: pointAt(newSrc, newByte),
			})
		case transaction.Insert:
			start := newByte
			newByte += len(op.Text)
			s.tree.Edit(sitter.EditInput{
				StartIndex:  uint32(oldByte),
				OldEndIndex: uint32(oldByte),
				NewEndIndex: uint32(newByte),
				StartPoint:  pointAt(s.source, oldByte),
				OldEndPoint: pointAt(s.source, oldByte),
				NewEndPoint: pointAt(newSrc, start+len(op.Text)),
			})
		}
	}

	prof := util.Prof.Enter("syntax.parse")
	tree, err := s.parser.ParseCtx(context.Background(), s.tree, newSrc)
	prof.Exit()
	if err != nil {
		return err
	}
	s.tree.Close()
	s.tree = tree
	s.source = newSrc
	return nil
}

// byteLenOfRunes returns the byte length of n runes in b starting at byte
// offset start.
func byteLenOfRunes(b []byte, start, n int) int {
	i := start
	for c := 0; c < n && i < len(b); c++ {
		_, size := utf8.DecodeRune(b[i:])
		if size == 0 {
			size = 1
		}
		i += size
	}
	return i - start
}

// pointAt converts a byte offset in src to a tree-sitter row/column point.
func pointAt(src []byte, offset int) sitter.Point {
	if offset > len(src) {
		offset = len(src)
	}
	row, lastNL := uint32(0), -1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			row++
			lastNL = i
		}
	}
	return sitter.Point{Row: row, Column: uint32(offset - lastNL - 1)}
}
