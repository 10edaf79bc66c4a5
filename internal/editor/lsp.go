package editor

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/limetext/log4go"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/document"
	"github.com/rowan-editor/rowan/internal/lsp"
	"github.com/rowan-editor/rowan/internal/popup"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/syntax"
	"github.com/rowan-editor/rowan/internal/transaction"
)

// lspCoordinator is the editor's half of the LSP coordinator: it owns
// the server registry, the shared document-state manager, one
// Sync/Features pair per running client, the completion/signature
// state machines, and the result queue responses are delivered
// through. Requests run on goroutines; every response is wrapped in a
// closure and applied on the editor loop, so state transitions happen
// when responses arrive, never mid-dispatch.
type lspCoordinator struct {
	servers  *lsp.Registry
	docs     *lsp.DiagnosticsManager
	syncs    map[string]*lsp.Sync
	features map[string]*lsp.Features

	results chan func(*Editor)

	completion *lsp.CompletionState
	signature  *lsp.SignatureState
	inlays     map[buffer.Id]*lsp.InlayCache

	tick         int
	timeoutTicks int
}

func newLSPCoordinator() lspCoordinator {
	timeout := 2000
	if opt, ok := registry.Options.ByName("completion_timeout_ms"); ok {
		if v, ok := opt.Default.(int); ok {
			timeout = v
		}
	}
	return lspCoordinator{
		servers:      lsp.NewRegistry(),
		docs:         lsp.NewDiagnosticsManager(),
		syncs:        make(map[string]*lsp.Sync),
		features:     make(map[string]*lsp.Features),
		results:      make(chan func(*Editor), 64),
		completion:   lsp.NewCompletionState(),
		signature:    lsp.NewSignatureState(),
		inlays:       make(map[buffer.Id]*lsp.InlayCache),
		timeoutTicks: timeout,
	}
}

// LSPServers exposes the server registry so the host can configure
// languages and install its Dial function before any file opens.
func (e *Editor) LSPServers() *lsp.Registry { return e.lspc.servers }

// Diagnostics exposes the shared document-state manager; the host's
// publishDiagnostics handler writes into it (it is internally locked).
func (e *Editor) Diagnostics() *lsp.DiagnosticsManager { return e.lspc.docs }

// LSPResults exposes the response queue so the host loop can select on
// it alongside input.
func (e *Editor) LSPResults() <-chan func(*Editor) { return e.lspc.results }

// RunLSPResult applies one queued response closure on the editor loop.
func (e *Editor) RunLSPResult(fn func(*Editor)) {
	if fn != nil {
		fn(e)
	}
}

// DrainLSPResults applies every queued response without blocking.
func (e *Editor) DrainLSPResults() {
	for {
		select {
		case fn := <-e.lspc.results:
			e.RunLSPResult(fn)
		default:
			return
		}
	}
}

// enqueueLSP delivers a response closure to the editor loop, dropping
// it if the queue is saturated (the next request will refresh).
func (e *Editor) enqueueLSP(fn func(*Editor)) {
	select {
	case e.lspc.results <- fn:
	default:
		log4go.Warn("lsp: result queue full, dropping response")
	}
}

// Shutdown drains every running language server. Called by the host
// once the editor loop exits.
func (e *Editor) Shutdown(ctx context.Context) {
	e.lspc.servers.ShutdownAll(ctx)
	for _, tp := range e.terminals {
		if tp.Term != nil {
			_ = tp.Term.Close()
		}
	}
}

func uriForDoc(doc *document.Document) string {
	path := doc.Path()
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + path
}

func pathForURI(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func languageForDoc(doc *document.Document) (string, bool) {
	if doc.Path() == "" {
		return "", false
	}
	name, _, ok := syntax.LanguageForExt(filepath.Ext(doc.Path()))
	if !ok {
		return "", false
	}
	return name, ok
}

// clientFor returns the running Sync/Features pair for buf's language,
// starting the server on first use. ok is false when no server is
// configured, the document has no path, or the dial failed (already
// surfaced as a warning).
func (e *Editor) clientFor(buf *buffer.Buffer) (*lsp.Sync, *lsp.Features, string, bool) {
	doc := buf.Document()
	lang, ok := languageForDoc(doc)
	if !ok {
		return nil, nil, "", false
	}
	client, started, err := e.lspc.servers.ClientFor(lang)
	if err != nil {
		e.Warn("language server for " + lang + " failed to start: " + err.Error())
		return nil, nil, "", false
	}
	if client == nil {
		return nil, nil, "", false
	}
	if started || e.lspc.syncs[lang] == nil {
		e.lspc.syncs[lang] = lsp.NewSync(client, e.lspc.docs)
		e.lspc.features[lang] = lsp.NewFeatures(client, e.lspc.docs)
	}
	return e.lspc.syncs[lang], e.lspc.features[lang], uriForDoc(doc), true
}

// lspDidOpen starts the language's server if needed and sends didOpen.
func (e *Editor) lspDidOpen(buf *buffer.Buffer) {
	sync, _, uri, ok := e.clientFor(buf)
	if !ok {
		return
	}
	lang, _ := languageForDoc(buf.Document())
	if err := sync.OpenDocument(context.Background(), uri, lang, buf.Text()); err != nil {
		log4go.Warn("lsp: didOpen %s: %s", uri, err)
	}
}

// lspDidChange mirrors an applied transaction to the server,
// incremental when the client negotiated it, full otherwise. It runs
// on the editor loop so didChange versions stay ordered.
func (e *Editor) lspDidChange(buf *buffer.Buffer, tx transaction.Transaction) {
	if cache, ok := e.lspc.inlays[buf.Id()]; ok {
		cache.Invalidate()
	}
	sync, _, uri, ok := e.clientFor(buf)
	if !ok {
		return
	}
	e.lspc.docs.BumpGeneration(uri)
	newText := buf.Text()
	var err error
	if start, end, mid, changed := txSpan(tx, newText); changed && sync.PreferIncremental() {
		err = sync.NotifyChangeIncremental(context.Background(), uri, start, end, mid)
	} else if changed {
		err = sync.NotifyChangeFull(context.Background(), uri, newText)
	}
	if err != nil {
		log4go.Warn("lsp: didChange %s: %s", uri, err)
	}
}

func (e *Editor) lspDidSave(buf *buffer.Buffer) {
	sync, _, uri, ok := e.clientFor(buf)
	if !ok {
		return
	}
	if err := sync.NotifyDidSave(context.Background(), uri, nil); err != nil {
		log4go.Warn("lsp: didSave %s: %s", uri, err)
	}
}

func (e *Editor) lspDidClose(doc *document.Document) {
	lang, ok := languageForDoc(doc)
	if !ok {
		return
	}
	sync, ok := e.lspc.syncs[lang]
	if !ok {
		return
	}
	if err := sync.CloseDocument(context.Background(), uriForDoc(doc)); err != nil {
		log4go.Warn("lsp: didClose %s: %s", doc.Path(), err)
	}
}

// txSpan reduces a transaction to one contiguous replacement against
// its source: the old char range [start, end) and the text that
// replaced it in the post-edit document. changed is false for an
// all-retain transaction.
func txSpan(tx transaction.Transaction, newText string) (start, end int, replacement string, changed bool) {
	oldPos, newPos := 0, 0
	firstOld, lastOld := -1, 0
	firstNew, lastNew := 0, 0
	for _, op := range tx.Ops() {
		switch op.Kind {
		case transaction.Retain:
			oldPos += op.N
			newPos += op.N
		case transaction.Delete:
			if firstOld < 0 {
				firstOld, firstNew = oldPos, newPos
			}
			oldPos += op.N
			lastOld, lastNew = oldPos, newPos
		case transaction.Insert:
			if firstOld < 0 {
				firstOld, firstNew = oldPos, newPos
			}
			newPos += len([]rune(op.Text))
			lastOld, lastNew = oldPos, newPos
		}
	}
	if firstOld < 0 {
		return 0, 0, "", false
	}
	runes := []rune(newText)
	return firstOld, lastOld, string(runes[firstNew:lastNew]), true
}

// ---- LspAccess capability ----

// lspCaps implements registry.LspAccess for one focused buffer: each
// method enqueues the request and returns immediately.
type lspCaps struct {
	e *Editor
	b *buffer.Buffer
}

func (c lspCaps) RequestHover() {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		e.Warn("no language server for this buffer")
		return
	}
	cursor := buf.Cursor()
	row, col := buf.RowCol(cursor)
	go func() {
		res, err := feats.Hover(context.Background(), uri, cursor)
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				e.Warn("hover failed: " + err.Error())
				return
			}
			if res.Contents == "" {
				e.Info("no hover information")
				return
			}
			e.popups.Push(popup.NewHover(col, row, res.Contents))
		})
	}()
}

func (c lspCaps) RequestCompletion() {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		e.Warn("no language server for this buffer")
		return
	}
	cursor := buf.Cursor()
	_, col := buf.RowCol(cursor)
	e.lspc.completion.BeginRequest(col, e.lspc.tick)
	gen := e.lspc.completion.Generation
	go func() {
		items, _, err := feats.Completion(context.Background(), uri, cursor, gen)
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				e.lspc.completion.Dismiss()
				e.Warn("completion failed: " + err.Error())
				return
			}
			if !e.lspc.completion.Activate(gen) {
				return // stale: dismissed, retyped, or timed out meanwhile
			}
			if len(items) == 0 {
				e.lspc.completion.Dismiss()
				return
			}
			converted := make([]popup.CompletionItem, len(items))
			for i, it := range items {
				converted[i] = popup.CompletionItem{Label: it.Label, Detail: it.Detail, InsertText: it.InsertText}
			}
			e.popups.Push(popup.NewCompletion(e.lspc.completion.TriggerColumn, converted))
			if buf, ok := e.FocusedBuffer(); ok {
				e.syncCompletionPopup(buf)
			}
		})
	}()
}

func (c lspCaps) RequestSignatureHelp() {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		e.Warn("no language server for this buffer")
		return
	}
	cursor := buf.Cursor()
	row, col := buf.RowCol(cursor)
	e.lspc.signature.BeginRequest(col)
	go func() {
		res, err := feats.SignatureHelp(context.Background(), uri, cursor)
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				e.lspc.signature.Dismiss()
				e.Warn("signature help failed: " + err.Error())
				return
			}
			if len(res.Signatures) == 0 {
				e.lspc.signature.Dismiss()
				return
			}
			e.lspc.signature.Activate()
			overloads := make([]popup.SignatureInfo, len(res.Signatures))
			for i, s := range res.Signatures {
				info := popup.SignatureInfo{Label: s.Label}
				for _, p := range s.Parameters {
					info.Parameters = append(info.Parameters, popup.ParameterInfo{Name: p})
				}
				overloads[i] = info
			}
			e.popups.Push(popup.NewSignature(col, row, overloads, res.ActiveParameter))
		})
	}()
}

func (c lspCaps) GotoDefinition()  { c.locationRequest(true) }
func (c lspCaps) FindReferences() { c.locationRequest(false) }

func (c lspCaps) locationRequest(definition bool) {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		e.Warn("no language server for this buffer")
		return
	}
	cursor := buf.Cursor()
	go func() {
		var refs []lsp.LocationRef
		var err error
		if definition {
			refs, err = feats.GotoDefinition(context.Background(), uri, cursor)
		} else {
			refs, err = feats.References(context.Background(), uri, cursor)
		}
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				e.Warn("location request failed: " + err.Error())
				return
			}
			locations := make([]popup.Location, len(refs))
			for i, r := range refs {
				locations[i] = popup.Location{URI: r.URI, Line: r.Line, Col: r.Col}
			}
			res := popup.NewLocationResult(locations)
			switch {
			case res.Direct != nil:
				e.navigateTo(*res.Direct)
			case res.Picker != nil:
				e.popups.Push(res.Picker)
			default:
				e.Warn("no matches")
			}
		})
	}()
}

func (c lspCaps) FormatDocument() {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		e.Warn("no language server for this buffer")
		return
	}
	bufID := buf.Id()
	go func() {
		edits, err := feats.Format(context.Background(), uri)
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				e.Warn("format failed: " + err.Error())
				return
			}
			if target, ok := e.Buffer(bufID); ok {
				e.applyTextEdits(target, uri, edits)
			}
		})
	}()
}

func (c lspCaps) RequestCodeActions() {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		e.Warn("no language server for this buffer")
		return
	}
	r := buf.Selection().Primary()
	start, end := r.Start(), r.End()
	go func() {
		actions, err := feats.CodeAction(context.Background(), uri, start, end)
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				e.Warn("code actions failed: " + err.Error())
				return
			}
			if len(actions) == 0 {
				e.Info("no code actions available")
				return
			}
			items := make([]popup.CodeActionItem, len(actions))
			for i, a := range actions {
				items[i] = codeActionItem(a)
			}
			e.popups.Push(popup.NewCodeActions(items))
		})
	}()
}

func (c lspCaps) RequestInlayHints(startLine, endLine int) {
	e, buf := c.e, c.b
	_, feats, uri, ok := e.clientFor(buf)
	if !ok {
		return
	}
	cache := e.inlayCacheFor(buf.Id())
	version := int(buf.Document().Version())
	if _, ok := cache.Lookup(startLine, endLine, version); ok {
		return
	}
	go func() {
		hints, err := feats.InlayHints(context.Background(), uri, startLine, endLine)
		e.enqueueLSP(func(e *Editor) {
			if err != nil {
				log4go.Warn("lsp: inlay hints: %s", err)
				return
			}
			cache.Store(startLine, endLine, version, hints)
		})
	}()
}

func (e *Editor) inlayCacheFor(id buffer.Id) *lsp.InlayCache {
	cache, ok := e.lspc.inlays[id]
	if !ok {
		cache = lsp.NewInlayCache()
		e.lspc.inlays[id] = cache
	}
	return cache
}

// CachedInlayHints returns the hints last fetched for this viewport and
// version, for frame preparation; a miss returns nothing (a refresh is
// already in flight or never requested).
func (e *Editor) CachedInlayHints(id buffer.Id, startLine, endLine int) ([]lsp.InlayHintResult, bool) {
	buf, ok := e.Buffer(id)
	if !ok {
		return nil, false
	}
	return e.inlayCacheFor(id).Lookup(startLine, endLine, int(buf.Document().Version()))
}

// codeActionItem converts a wire code action into the popup's shape.
func codeActionItem(a lsp.CodeActionResult) popup.CodeActionItem {
	item := popup.CodeActionItem{Title: a.Title, Kind: codeActionKind(a.Kind, a.Command != nil && a.Edit == nil)}
	if a.Edit != nil {
		edit := &popup.WorkspaceEdit{Changes: make(map[string]any, len(a.Edit.Changes))}
		for uri, edits := range a.Edit.Changes {
			edit.Changes[uri] = edits
		}
		item.Edit = edit
	}
	if a.Command != nil {
		item.Command = &popup.ServerCommand{Command: a.Command.Command, Arguments: a.Command.Arguments}
	}
	return item
}

func codeActionKind(kind string, commandOnly bool) popup.CodeActionKind {
	switch {
	case strings.HasPrefix(kind, "quickfix"):
		return popup.KindQuickfix
	case strings.HasPrefix(kind, "refactor"):
		return popup.KindRefactor
	case strings.HasPrefix(kind, "source"):
		return popup.KindSource
	case commandOnly:
		return popup.KindCommand
	default:
		return popup.KindCommand
	}
}

// navigateTo opens (or focuses) the location's file and moves the
// cursor there.
func (e *Editor) navigateTo(loc popup.Location) {
	path := pathForURI(loc.URI)
	target, ok := e.bufferForPath(path)
	if !ok {
		if err := e.ReplaceFocusedWithFile(path); err != nil {
			e.Error(err.Error())
			return
		}
		target, ok = e.FocusedBuffer()
		if !ok {
			return
		}
	}
	target.SetCursor(target.TextPoint(loc.Line, loc.Col))
}

func (e *Editor) bufferForPath(path string) (*buffer.Buffer, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, buf := range e.buffers {
		p := buf.Document().Path()
		if p == "" {
			continue
		}
		if bp, err := filepath.Abs(p); err == nil && bp == abs {
			return buf, true
		}
	}
	return nil, false
}

// applyTextEdits converts wire text edits into one transaction against
// target. Positions are converted against the server's mirror before
// anything mutates, then applied in a single prepare/apply pass.
func (e *Editor) applyTextEdits(target *buffer.Buffer, uri string, edits []lsp.FormatEdit) {
	if len(edits) == 0 {
		return
	}
	d, ok := e.lspc.docs.Get(uri)
	if !ok {
		return
	}
	enc := lsp.EncodingUTF16
	if _, feats, _, ok := e.clientFor(target); ok && feats != nil {
		enc = e.encodingFor(target)
	}
	converted := make([]buffer.Edit, 0, len(edits))
	for _, te := range edits {
		start := lsp.PositionToChar(d.TextMirror, te.Range.Start, enc)
		end := lsp.PositionToChar(d.TextMirror, te.Range.End, enc)
		converted = append(converted, buffer.Edit{Start: start, End: end, Text: te.Text})
	}
	sort.Slice(converted, func(i, j int) bool { return converted[i].Start < converted[j].Start })
	tx, err := target.Prepare(converted)
	if err != nil {
		e.Warn(err.Error())
		return
	}
	if err := e.ApplyTransaction(target, tx); err != nil {
		e.Warn(err.Error())
	}
}

func (e *Editor) encodingFor(buf *buffer.Buffer) lsp.OffsetEncoding {
	lang, ok := languageForDoc(buf.Document())
	if !ok {
		return lsp.EncodingUTF16
	}
	if client, _, err := e.lspc.servers.ClientFor(lang); err == nil && client != nil {
		return client.Config.Encoding
	}
	return lsp.EncodingUTF16
}

// applyCodeAction carries out an accepted code action: workspace edit
// first, then the server command, matching the accept contract of
// returning "a workspace edit, a server command, or both".
func (e *Editor) applyCodeAction(item *popup.CodeActionItem) {
	if item.Edit != nil {
		for uri, payload := range item.Edit.Changes {
			edits, ok := payload.([]lsp.TextEditResult)
			if !ok {
				continue
			}
			target, found := e.bufferForPath(pathForURI(uri))
			if !found {
				e.Warn("code action edit targets a closed document: " + uri)
				continue
			}
			converted := make([]lsp.FormatEdit, len(edits))
			for i, te := range edits {
				converted[i] = lsp.FormatEdit{Range: te.Range, Text: te.NewText}
			}
			e.applyTextEdits(target, uri, converted)
		}
	}
	if item.Command != nil {
		buf, ok := e.FocusedBuffer()
		if !ok {
			return
		}
		_, feats, _, ok := e.clientFor(buf)
		if !ok {
			return
		}
		cmd := &lsp.ServerCommandResult{Command: item.Command.Command, Arguments: item.Command.Arguments}
		go func() {
			if err := feats.ExecuteCommand(context.Background(), cmd); err != nil {
				e.enqueueLSP(func(e *Editor) { e.Warn("command failed: " + err.Error()) })
			}
		}()
	}
}
