package lsp

import "context"

// textDocumentItem mirrors LSP's TextDocumentItem, sent on didOpen.
type textDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type didOpenParams struct {
	TextDocument textDocumentItem `json:"textDocument"`
}

type versionedTextDocumentID struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type contentChangeFull struct {
	Text string `json:"text"`
}

type contentChangeIncremental struct {
	Range Range  `json:"range"`
	Text  string `json:"text"`
}

type didChangeParams struct {
	TextDocument   versionedTextDocumentID `json:"textDocument"`
	ContentChanges []any                   `json:"contentChanges"`
}

type didCloseParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type textDocumentIdentifier struct {
	URI string `json:"uri"`
}

type didSaveParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

type willSaveParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Reason       int                    `json:"reason"`
}

// Sync is the document-sync facade: open, full and incremental change
// notification, will-save/did-save, close.
type Sync struct {
	client *Client
	docs   *DiagnosticsManager
}

// NewSync builds a facade bound to one client and the shared diagnostics
// manager (so open/close keep DocState in sync with the wire protocol).
func NewSync(client *Client, docs *DiagnosticsManager) *Sync {
	return &Sync{client: client, docs: docs}
}

// OpenDocument sends didOpen and registers the document's state.
func (s *Sync) OpenDocument(ctx context.Context, uri, language, text string) error {
	s.docs.Open(uri, language, text)
	return s.client.conn.Notify(ctx, "textDocument/didOpen", didOpenParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: language, Version: 1, Text: text},
	})
}

// NotifyChangeFull sends a full-document didChange.
func (s *Sync) NotifyChangeFull(ctx context.Context, uri, newText string) error {
	d, ok := s.docs.Get(uri)
	if !ok {
		return nil
	}
	d.Version++
	d.TextMirror = newText
	return s.client.conn.Notify(ctx, "textDocument/didChange", didChangeParams{
		TextDocument:   versionedTextDocumentID{URI: uri, Version: d.Version},
		ContentChanges: []any{contentChangeFull{Text: newText}},
	})
}

// NotifyChangeIncremental sends an incremental didChange covering
// [startChar, endChar) in the pre-edit text, replaced by newText. The char range is converted to an LSP Range using the
// client's declared encoding at the choke point (offset.go).
func (s *Sync) NotifyChangeIncremental(ctx context.Context, uri string, startChar, endChar int, newText string) error {
	d, ok := s.docs.Get(uri)
	if !ok {
		return nil
	}
	enc := s.client.Config.Encoding
	rng := Range{
		Start: CharToPosition(d.TextMirror, startChar, enc),
		End:   CharToPosition(d.TextMirror, endChar, enc),
	}
	d.Version++
	runes := []rune(d.TextMirror)
	d.TextMirror = string(runes[:startChar]) + newText + string(runes[endChar:])
	return s.client.conn.Notify(ctx, "textDocument/didChange", didChangeParams{
		TextDocument:   versionedTextDocumentID{URI: uri, Version: d.Version},
		ContentChanges: []any{contentChangeIncremental{Range: rng, Text: newText}},
	})
}

// PreferIncremental reports whether the client negotiated incremental
// sync support; the editor defaults to incremental when true, full
// otherwise.
func (s *Sync) PreferIncremental() bool { return s.client.SupportsIncrementalSync }

// NotifyWillSave sends willSave.
func (s *Sync) NotifyWillSave(ctx context.Context, uri string, reason int) error {
	return s.client.conn.Notify(ctx, "textDocument/willSave", willSaveParams{
		TextDocument: textDocumentIdentifier{URI: uri}, Reason: reason,
	})
}

// NotifyDidSave sends didSave.
func (s *Sync) NotifyDidSave(ctx context.Context, uri string, text *string) error {
	return s.client.conn.Notify(ctx, "textDocument/didSave", didSaveParams{
		TextDocument: textDocumentIdentifier{URI: uri}, Text: text,
	})
}

// CloseDocument sends didClose and drops local state.
func (s *Sync) CloseDocument(ctx context.Context, uri string) error {
	s.docs.Close(uri)
	return s.client.conn.Notify(ctx, "textDocument/didClose", didCloseParams{
		TextDocument: struct {
			URI string `json:"uri"`
		}{URI: uri},
	})
}
