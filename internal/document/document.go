// Package document owns the rope, undo log, and version counter for an
// open file: one Document is shared by every sibling buffer onto the
// same text.
package document

import (
	"fmt"

	"github.com/limetext/util"

	"github.com/rowan-editor/rowan/internal/rope"
	"github.com/rowan-editor/rowan/internal/transaction"
)

// Id uniquely identifies a Document for the lifetime of the process.
type Id uint64

// BufferId identifies a view onto a Document, defined here (rather than
// in internal/buffer) so Document's undo entries can key selections by
// it without an import cycle.
type BufferId uint64

// entry is one undo-log record: the transaction that produced the
// current state, its precomputed inverse, and every sibling buffer's
// selection immediately before the transaction was applied — restoring
// all of those on Undo is what lets a multi-sibling edit undo cleanly.
type entry struct {
	forward    transaction.Transaction
	inverse    transaction.Transaction
	selections map[BufferId]rope.Selection
}

// Document is the shared text + undo log behind one or more Buffers.
type Document struct {
	id      Id
	path    string
	text    rope.Rope
	version uint64
	dirty   bool

	undo []entry
	redo []entry

	// groupOpen marks that applies should coalesce into one undo step
	// until the group closes; groupStarted flips once the group's first
	// entry has been pushed, so later applies compose into it rather
	// than into whatever entry preceded the group.
	groupOpen    bool
	groupStarted bool

	syntax SyntaxTracker
}

// SyntaxTracker lets a Document keep an incremental parse tree in sync
// with its rope without this package importing internal/syntax
// directly. internal/editor wires a *syntax.State in via SetSyntax
// when a document's language is known.
type SyntaxTracker interface {
	Edit(tx transaction.Transaction, newText string) error
}

// SetSyntax attaches (or clears, with nil) the syntax tracker every
// subsequent Apply/Undo/Redo notifies of the document's text changes.
func (d *Document) SetSyntax(t SyntaxTracker) {
	d.syntax = t
}

// Syntax returns the attached syntax tracker, if any.
func (d *Document) Syntax() SyntaxTracker { return d.syntax }

// New creates a Document over the given initial text.
func New(id Id, initial string) *Document {
	return &Document{id: id, text: rope.New(initial)}
}

func (d *Document) Id() Id           { return d.id }
func (d *Document) Path() string     { return d.path }
func (d *Document) SetPath(p string) { d.path = p }
func (d *Document) Text() rope.Rope  { return d.text }
func (d *Document) Version() uint64  { return d.version }
func (d *Document) Dirty() bool      { return d.dirty }
func (d *Document) MarkSaved()       { d.dirty = false }
func (d *Document) CanUndo() bool    { return len(d.undo) > 0 }
func (d *Document) CanRedo() bool    { return len(d.redo) > 0 }

// BeginInsertGroup opens a run of Applies that should coalesce into a
// single undo entry, mirroring MarkUndoGroupsForGluingCommand. It is
// idempotent: calling it while a group is already open is a no-op,
// matching MaybeMarkUndoGroupsForGluingCommand's "don't overwrite an
// existing mark" behavior.
func (d *Document) BeginInsertGroup() {
	if d.groupOpen {
		return
	}
	d.groupOpen = true
	d.groupStarted = false
}

// EndInsertGroup closes the current coalescing group. The next Apply
// starts a fresh undo entry.
func (d *Document) EndInsertGroup() {
	d.groupOpen = false
	d.groupStarted = false
}

// Apply runs tx against the document's rope, advances the version, and
// records an undo entry. selections is every sibling buffer's
// selection immediately before this edit, captured by the caller
// before Apply. Returns an error if tx was built against a stale
// document length.
func (d *Document) Apply(tx transaction.Transaction, selections map[BufferId]rope.Selection) error {
	prof := util.Prof.Enter("document.apply")
	defer prof.Exit()
	if tx.BaseLen() != d.text.LenChars() {
		return fmt.Errorf("document: transaction base length %d does not match document length %d", tx.BaseLen(), d.text.LenChars())
	}
	before := d.text
	inv := tx.Invert(before)

	if d.groupOpen && d.groupStarted && len(d.undo) > 0 {
		last := &d.undo[len(d.undo)-1]
		composed, err := transaction.Compose(last.forward, tx)
		if err != nil {
			return err
		}
		last.forward = composed
		last.inverse = composed.Invert(d.textBeforeEntry(len(d.undo) - 1))
	} else {
		d.undo = append(d.undo, entry{forward: tx, inverse: inv, selections: cloneSelMap(selections)})
		d.groupStarted = d.groupOpen
	}

	d.text = tx.Apply(before)
	d.version++
	d.dirty = true
	d.redo = d.redo[:0]
	d.notifySyntax(tx)
	return nil
}

// notifySyntax feeds an applied transaction to the attached syntax
// tracker, if any. A parse failure never fails the edit: the rope is the
// source of truth, the syntax tree a best-effort derivative of it.
func (d *Document) notifySyntax(tx transaction.Transaction) {
	if d.syntax == nil {
		return
	}
	_ = d.syntax.Edit(tx, d.text.String())
}

// textBeforeEntry reconstructs the rope state immediately before undo
// entry i, by applying the inverses of entry i and every later entry to
// the current text. Used only while a group is open and we need to
// recompute the composed entry's inverse.
func (d *Document) textBeforeEntry(i int) rope.Rope {
	// The document's current rope already reflects entries [0, len(undo)),
	// so walking the inverses of entries after i, in reverse, from the
	// current text recovers the pre-entry-i snapshot without keeping a
	// full history of ropes around.
	text := d.text
	for j := len(d.undo) - 1; j > i; j-- {
		text = d.undo[j].inverse.Apply(text)
	}
	return d.undo[i].inverse.Apply(text)
}

// UndoResult carries what the caller (internal/editor, for every
// sibling buffer) needs to restore after an undo/redo step.
type UndoResult struct {
	Applied     transaction.Transaction
	Selections  map[BufferId]rope.Selection
}

// Undo reverts the most recent undo entry, returning the selections to
// restore per sibling buffer. ok is false if there is nothing to undo.
func (d *Document) Undo() (UndoResult, bool) {
	if len(d.undo) == 0 {
		return UndoResult{}, false
	}
	e := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.text = e.inverse.Apply(d.text)
	d.version++
	d.dirty = true
	d.redo = append(d.redo, e)
	d.notifySyntax(e.inverse)
	return UndoResult{Applied: e.inverse, Selections: e.selections}, true
}

// Redo reapplies the most recently undone entry. The selections returned
// are the entry's pre-edit selections rebased forward through the
// reapplied transaction, reconstructing the post-edit state without
// having to store it separately.
func (d *Document) Redo() (UndoResult, bool) {
	if len(d.redo) == 0 {
		return UndoResult{}, false
	}
	e := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.text = e.forward.Apply(d.text)
	d.version++
	d.dirty = true
	d.undo = append(d.undo, e)
	d.notifySyntax(e.forward)

	rebased := make(map[BufferId]rope.Selection, len(e.selections))
	for id, sel := range e.selections {
		rebased[id] = e.forward.RebaseSelection(sel)
	}
	return UndoResult{Applied: e.forward, Selections: rebased}, true
}

func cloneSelMap(m map[BufferId]rope.Selection) map[BufferId]rope.Selection {
	out := make(map[BufferId]rope.Selection, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
