// Package editor implements the top-level orchestration: it owns
// buffers, documents, the layout tree, focus, registers, and the hook
// runtime, and drives action dispatch by wiring capability traits
// (internal/registry) onto whichever buffer (or terminal) currently
// has focus. Arena-plus-index ownership avoids the cyclic
// editor<->buffer references this shape would otherwise need.
package editor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/limetext/log4go"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/document"
	"github.com/rowan-editor/rowan/internal/hook"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/popup"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
	"github.com/rowan-editor/rowan/internal/syntax"
	"github.com/rowan-editor/rowan/internal/terminal"
	"github.com/rowan-editor/rowan/internal/transaction"
	"github.com/rowan-editor/rowan/internal/watch"
)

// Notification is a surfaced user-facing message.
type Notification struct {
	Level   string // "info", "warn", "error"
	Message string
}

// Editor is the top-level state, one arena-owned struct:
// Map<BufferId, Buffer>, Map<DocumentId, Document>, the layout tree,
// focus, registers, the hook runtime, and an extension map.
type Editor struct {
	buffers   map[buffer.Id]*buffer.Buffer
	documents map[document.Id]*document.Document
	layout    *layout.Layout
	focused   layout.BufferView

	fsm    *keys.FSM
	hooks  *hook.Runtime

	registers RegisterSet
	jumps     map[buffer.Id]*JumpList
	macros    MacroState

	savedSelections map[buffer.Id]rope.Selection

	panelOpen map[string]bool

	notifications []Notification

	pendingAction *registry.Action
	pendingCtx    registry.ActionContext

	quit      bool
	forceQuit bool
	forceRedraw bool

	lastInsertText  string
	lastInsertCount int

	nextBufferID   buffer.Id
	nextDocumentID document.Id
	nextTerminalID uint64

	area layout.Rect

	watcher         *watch.Watcher
	externalChanges chan string

	popups *popup.Stack
	lspc   lspCoordinator

	terminals map[uint64]*terminal.TerminalPanel
	// spawnTerminal is overridable so tests can substitute a fake in
	// place of a real PTY, the same seam lsp.Registry.Dial provides.
	spawnTerminal func(id terminal.Id, cols, rows int) (*terminal.Terminal, error)
}

// New creates an Editor with a single empty text buffer as its layout.
func New() *Editor {
	e := &Editor{
		buffers:         make(map[buffer.Id]*buffer.Buffer),
		documents:       make(map[document.Id]*document.Document),
		fsm:             keys.NewFSM(),
		hooks:           hook.New(),
		registers:       NewRegisterSet(),
		macros:          newMacroState(),
		jumps:           make(map[buffer.Id]*JumpList),
		savedSelections: make(map[buffer.Id]rope.Selection),
		panelOpen:       make(map[string]bool),
		area:            layout.Rect{Width: 80, Height: 24},
		externalChanges: make(chan string, 64),
		popups:          popup.NewStack(),
		lspc:            newLSPCoordinator(),
		terminals:       make(map[uint64]*terminal.TerminalPanel),
		spawnTerminal:   defaultSpawnTerminal,
	}
	id := e.OpenScratchBuffer("")
	e.layout = layout.Single(layout.Text(uint64(id)))
	e.focused = layout.Text(uint64(id))
	return e
}

// BindKeymapFromRegistry populates the FSM's per-mode tries from every
// frozen registry.Keybinding, resolving mode-local key-sequence
// collisions by registry.Keybinding priority (ties favor the binding
// whose own id sorts first, same as every other registry.Index).
func (e *Editor) BindKeymapFromRegistry() error {
	byModeSeq := map[string]map[string]*registry.Keybinding{}
	for _, kb := range registry.Keybindings.All() {
		m := byModeSeq[kb.Mode]
		if m == nil {
			m = make(map[string]*registry.Keybinding)
			byModeSeq[kb.Mode] = m
		}
		seqKey := fmt.Sprint(kb.Keys)
		if cur, ok := m[seqKey]; ok {
			if kb.Priority < cur.Priority || (kb.Priority == cur.Priority && kb.ID >= cur.ID) {
				continue
			}
		}
		m[seqKey] = kb
	}
	for mode, seqs := range byModeSeq {
		trie := e.fsm.Trie(keys.Mode(mode))
		if trie == nil {
			continue
		}
		for _, kb := range seqs {
			seq := make(keys.Sequence, 0, len(kb.Keys))
			for _, s := range kb.Keys {
				k, err := keys.Parse(s)
				if err != nil {
					return fmt.Errorf("editor: keybinding %q: %w", kb.ID, err)
				}
				seq = append(seq, k)
			}
			trie.Bind(seq, kb.Action)
		}
	}
	return nil
}

// ---- Document / Buffer lifecycle ----

// OpenScratchBuffer creates a fresh Document with the given initial
// text and a Buffer viewing it, returning the new buffer's id.
func (e *Editor) OpenScratchBuffer(initial string) buffer.Id {
	docID := e.nextDocumentID
	e.nextDocumentID++
	doc := document.New(docID, initial)
	e.documents[docID] = doc

	bufID := e.nextBufferID
	e.nextBufferID++
	buf := buffer.New(bufID, doc)
	e.buffers[bufID] = buf

	e.hooks.Fire(registry.EventBufferOpen, e.capsFor(buf))
	return bufID
}

// OpenFile reads path from disk and opens it as a new Document/Buffer
// pair, attaching incremental syntax state when the extension maps to a
// registered grammar.
func (e *Editor) OpenFile(path string) (buffer.Id, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("editor: open %s: %w", path, err)
	}

	docID := e.nextDocumentID
	e.nextDocumentID++
	doc := document.New(docID, string(data))
	doc.SetPath(path)
	if name, _, ok := syntax.LanguageForExt(filepath.Ext(path)); ok {
		if st, err := syntax.New(name, string(data)); err == nil {
			doc.SetSyntax(st)
		}
	}
	e.documents[docID] = doc

	bufID := e.nextBufferID
	e.nextBufferID++
	buf := buffer.New(bufID, doc)
	e.buffers[bufID] = buf

	e.watchPath(path)
	e.lspDidOpen(buf)
	e.hooks.Fire(registry.EventBufferOpen, e.capsFor(buf))
	return bufID, nil
}

// watchPath registers path with the shared filesystem watcher. The
// watcher's callback runs on its own goroutine, so it only enqueues the
// path; DrainExternalChanges applies the effect on the editor loop.
func (e *Editor) watchPath(path string) {
	if e.watcher == nil {
		e.watcher = watch.NewWatcher()
	}
	e.watcher.Watch(path, func() {
		select {
		case e.externalChanges <- path:
		default:
		}
	})
}

// DrainExternalChanges processes queued on-disk changes to open files,
// called once per editor tick. A clean document is reloaded in place
// (through the normal transaction path, so sibling selections rebase
// and BufferChange fires); a dirty one only gets a warning, since
// reloading would discard unsaved edits.
func (e *Editor) DrainExternalChanges() {
	for {
		select {
		case path := <-e.externalChanges:
			e.reloadIfClean(path)
		default:
			return
		}
	}
}

func (e *Editor) reloadIfClean(path string) {
	for _, doc := range e.documents {
		if doc.Path() != path {
			continue
		}
		if doc.Dirty() {
			e.Warn("file changed on disk (buffer has unsaved edits): " + path)
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		if string(data) == doc.Text().String() {
			return
		}
		for _, buf := range e.siblings(doc.Id()) {
			tx, err := buf.Prepare([]buffer.Edit{{Start: 0, End: doc.Text().LenChars(), Text: string(data)}})
			if err != nil {
				return
			}
			if err := e.ApplyTransaction(buf, tx); err == nil {
				doc.MarkSaved()
				e.Info("reloaded from disk: " + path)
			}
			return
		}
		return
	}
}

// SaveBuffer writes buf's document to its path. Returns an error if the
// document was never opened from (or assigned) a path.
func (e *Editor) SaveBuffer(buf *buffer.Buffer) error {
	doc, ok := e.documents[buf.DocumentId()]
	if !ok {
		return fmt.Errorf("editor: buffer %d has no document", buf.Id())
	}
	if doc.Path() == "" {
		return fmt.Errorf("editor: buffer %d has no file path", buf.Id())
	}
	if err := os.WriteFile(doc.Path(), []byte(doc.Text().String()), 0o644); err != nil {
		return err
	}
	doc.MarkSaved()
	e.lspDidSave(buf)
	e.hooks.Fire(registry.EventBufferSave, e.capsFor(buf))
	return nil
}

// OpenSibling creates a new Buffer viewing an existing Document, a
// split onto the same file.
func (e *Editor) OpenSibling(docID document.Id) (buffer.Id, error) {
	doc, ok := e.documents[docID]
	if !ok {
		return 0, fmt.Errorf("editor: no such document %d", docID)
	}
	bufID := e.nextBufferID
	e.nextBufferID++
	buf := buffer.New(bufID, doc)
	e.buffers[bufID] = buf
	return bufID, nil
}

// Buffer returns the buffer for id, if it exists.
func (e *Editor) Buffer(id buffer.Id) (*buffer.Buffer, bool) {
	b, ok := e.buffers[id]
	return b, ok
}

// FocusedBuffer returns the currently focused text buffer, or false if
// the focus is a terminal.
func (e *Editor) FocusedBuffer() (*buffer.Buffer, bool) {
	if e.focused.Kind != layout.ViewText {
		return nil, false
	}
	return e.Buffer(buffer.Id(e.focused.BufferID))
}

// siblings returns every buffer sharing doc, the set the cross-entity
// invariant's "all sibling buffers' selections are rebased" iterates.
func (e *Editor) siblings(docID document.Id) []*buffer.Buffer {
	var out []*buffer.Buffer
	for _, b := range e.buffers {
		if b.DocumentId() == docID {
			out = append(out, b)
		}
	}
	return out
}

// CloseBufferID removes a buffer from the editor; if it was the last
// buffer viewing its document, the document itself is freed.
func (e *Editor) CloseBufferID(id buffer.Id) {
	buf, ok := e.buffers[id]
	if !ok {
		return
	}
	e.hooks.Fire(registry.EventBufferClose, e.capsFor(buf))
	docID := buf.DocumentId()
	delete(e.buffers, id)
	delete(e.jumps, id)
	delete(e.savedSelections, id)
	if len(e.siblings(docID)) == 0 {
		if doc, ok := e.documents[docID]; ok {
			e.lspDidClose(doc)
			if st, ok := doc.Syntax().(*syntax.State); ok {
				st.Close()
			}
		}
		delete(e.documents, docID)
	}
	delete(e.lspc.inlays, id)
}

// ApplyTransaction runs the two-phase apply step:
// applies tx to the document owning buf, rejecting if buf is
// read-only, then rebases every sibling buffer's selection through tx,
// strictly before firing BufferChange so hooks always observe valid
// post-edit selections.
func (e *Editor) ApplyTransaction(buf *buffer.Buffer, tx transaction.Transaction) error {
	if buf.ReadOnly() {
		return fmt.Errorf("editor: buffer is read-only")
	}
	doc := buf.Document()
	sibs := e.siblings(doc.Id())
	selections := make(map[document.BufferId]rope.Selection, len(sibs))
	for _, s := range sibs {
		selections[s.Id()] = s.Selection()
	}
	if err := doc.Apply(tx, selections); err != nil {
		return err
	}
	for _, s := range sibs {
		s.ApplySelectionRebase(tx)
	}
	e.lspDidChange(buf, tx)
	e.hooks.Fire(registry.EventBufferChange, e.capsFor(buf))
	return nil
}

// Undo reverts the most recent undo entry on buf's document, restoring
// every sibling's selection from the entry.
func (e *Editor) Undo(buf *buffer.Buffer) bool {
	res, ok := buf.Document().Undo()
	if !ok {
		return false
	}
	e.restoreSiblingSelections(buf.DocumentId(), res.Selections)
	return true
}

// Redo reapplies the most recently undone entry.
func (e *Editor) Redo(buf *buffer.Buffer) bool {
	res, ok := buf.Document().Redo()
	if !ok {
		return false
	}
	e.restoreSiblingSelections(buf.DocumentId(), res.Selections)
	return true
}

func (e *Editor) restoreSiblingSelections(docID document.Id, sels map[document.BufferId]rope.Selection) {
	for _, s := range e.siblings(docID) {
		if sel, ok := sels[s.Id()]; ok {
			s.SetSelection(sel)
		}
	}
}

// ---- Notifications ----

func (e *Editor) notify(level, msg string) {
	switch level {
	case "error":
		log4go.Error("%s", msg)
	case "warn":
		log4go.Warn("%s", msg)
	default:
		log4go.Fine("%s", msg)
	}
	e.notifications = append(e.notifications, Notification{Level: level, Message: msg})
}

func (e *Editor) Warn(msg string)  { e.notify("warn", msg) }
func (e *Editor) Error(msg string) { e.notify("error", msg) }
func (e *Editor) Info(msg string)  { e.notify("info", msg) }

// Notifications drains and returns every queued notification.
func (e *Editor) Notifications() []Notification {
	out := e.notifications
	e.notifications = nil
	return out
}

// ---- Quit / redraw flags ----

func (e *Editor) Quit() bool        { return e.quit || e.forceQuit }
func (e *Editor) ForceQuit() bool   { return e.forceQuit }
func (e *Editor) NeedsRedraw() bool { return e.forceRedraw }
func (e *Editor) ClearRedraw()      { e.forceRedraw = false }

// DirtyBuffers returns every buffer id whose document has unsaved
// changes.
func (e *Editor) DirtyBuffers() []buffer.Id {
	var out []buffer.Id
	for id, b := range e.buffers {
		if b.Document().Dirty() {
			out = append(out, id)
		}
	}
	return out
}

// Layout / Focus

func (e *Editor) Layout() *layout.Layout    { return e.layout }
func (e *Editor) Focused() layout.BufferView { return e.focused }
func (e *Editor) Area() layout.Rect          { return e.area }
func (e *Editor) SetArea(r layout.Rect)      { e.area = r }

// ReplaceFocusedWithFile opens path as a new buffer and swaps it into
// the currently focused layout leaf in place, the `:e` ex-command's
// effect.
func (e *Editor) ReplaceFocusedWithFile(path string) error {
	id, err := e.OpenFile(path)
	if err != nil {
		return err
	}
	view := layout.Text(uint64(id))
	e.layout = spliceReplace(e.layout, e.focused, layout.Single(view))
	e.setFocus(view)
	return nil
}

func (e *Editor) setFocus(v layout.BufferView) {
	e.focused = v
	e.hooks.Fire(registry.EventViewFocusChanged, e.capsForFocus())
	if buf, ok := e.FocusedBuffer(); ok {
		e.fsm.SetMode(buf.Mode())
	}
}
