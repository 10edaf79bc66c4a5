// Package buffer implements Buffer: a view onto a shared
// Document carrying its own selection, cursor (the selection primary's
// head), scroll position, mode and view preferences. Multiple Buffers
// may share one Document (sibling buffers); the sibling-rebase
// orchestration itself lives in internal/editor, the only package
// holding the map[BufferId]*Buffer needed to iterate siblings.
package buffer

import (
	"fmt"
	"sort"

	"github.com/rowan-editor/rowan/internal/document"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/rope"
	"github.com/rowan-editor/rowan/internal/transaction"
)

// Id identifies a Buffer for the lifetime of its view. Defined as an
// alias of document.BufferId since the undo log already keys selection
// snapshots by that type.
type Id = document.BufferId

// ViewPrefs holds the per-view display preferences; the Option
// registry is the mechanism for anything more dynamic than these.
type ViewPrefs struct {
	TabWidth           int
	TranslateTabsToSpaces bool
	WordWrap           bool
}

// DefaultViewPrefs is what a fresh Buffer starts with.
func DefaultViewPrefs() ViewPrefs {
	return ViewPrefs{TabWidth: 4, TranslateTabsToSpaces: false, WordWrap: false}
}

// Buffer is a view onto a Document.
type Buffer struct {
	id        Id
	doc       *document.Document
	selection rope.Selection
	scrollLine int
	mode      keys.Mode
	prefs     ViewPrefs
	readOnly  bool

	// preferredColumn is remembered across a run of vertical motions
	// and reset by any horizontal or non-motion action.
	preferredColumn *int
}

// New creates a Buffer viewing doc, with a single point selection at 0
// (matching Window.NewFile's initial `text.Region{0, 0}` selection).
func New(id Id, doc *document.Document) *Buffer {
	return &Buffer{
		id:        id,
		doc:       doc,
		selection: rope.Single(rope.Point(0)),
		mode:      keys.ModeNormal,
		prefs:     DefaultViewPrefs(),
	}
}

func (b *Buffer) Id() Id                  { return b.id }
func (b *Buffer) DocumentId() document.Id { return b.doc.Id() }
func (b *Buffer) Document() *document.Document { return b.doc }

// Selection returns the buffer's current selection.
func (b *Buffer) Selection() rope.Selection { return b.selection }

// SetSelection replaces the buffer's selection outright, matching the
// capability trait contract used by motions and by the SaveSelections/
// RestoreSelections actions.
func (b *Buffer) SetSelection(sel rope.Selection) { b.selection = sel }

// Cursor returns the primary range's head — the invariant `cursor ==
// selection.primary().head` is enforced by reading it this way rather
// than storing a separate field that could drift.
func (b *Buffer) Cursor() int { return b.selection.Cursor() }

// SetCursor collapses the selection to a single point at pos and
// clears the remembered preferred column, matching a horizontal motion
// or any non-vertical-motion action per the Open Question decision.
func (b *Buffer) SetCursor(pos int) {
	b.selection = rope.Single(rope.Point(clampInt(pos, 0, b.doc.Text().LenChars())))
	b.preferredColumn = nil
}

// PreferredColumn returns the remembered visual column for a run of
// vertical motions, or nil if none is being tracked.
func (b *Buffer) PreferredColumn() *int { return b.preferredColumn }

// SetPreferredColumn records col as the column subsequent vertical
// motions should aim for.
func (b *Buffer) SetPreferredColumn(col int) { c := col; b.preferredColumn = &c }

// ClearPreferredColumn drops the remembered column; every action other
// than a vertical motion must call this.
func (b *Buffer) ClearPreferredColumn() { b.preferredColumn = nil }

// Mode returns the buffer's modal state.
func (b *Buffer) Mode() keys.Mode { return b.mode }

// SetMode updates the buffer's modal state, called when this buffer is
// focused and the input FSM's mode changes.
func (b *Buffer) SetMode(m keys.Mode) { b.mode = m }

// ScrollLine / SetScrollLine track the topmost visible line for
// rendering.
func (b *Buffer) ScrollLine() int     { return b.scrollLine }
func (b *Buffer) SetScrollLine(n int) { b.scrollLine = n }

// Prefs returns the view preferences.
func (b *Buffer) Prefs() ViewPrefs      { return b.prefs }
func (b *Buffer) SetPrefs(p ViewPrefs) { b.prefs = p }

// ReadOnly / SetReadOnly: a read-only buffer rejects Apply.
func (b *Buffer) ReadOnly() bool      { return b.readOnly }
func (b *Buffer) SetReadOnly(v bool) { b.readOnly = v }

// ---- TextAccess capability ----

func (b *Buffer) Text() string                      { return b.doc.Text().String() }
func (b *Buffer) Slice(a, c int) string              { return b.doc.Text().Slice(a, c) }
func (b *Buffer) LenChars() int                      { return b.doc.Text().LenChars() }
func (b *Buffer) RowCol(point int) (int, int)        { return b.doc.Text().RowCol(point) }
func (b *Buffer) TextPoint(row, col int) int         { return b.doc.Text().TextPoint(row, col) }

// Edit is one replacement span: the half-open char range [Start, End)
// is replaced by Text (Start==End is a pure insert; Text=="" is a pure
// delete), the shape every stdactions edit command builds before
// calling Prepare.
type Edit struct {
	Start, End int
	Text       string
}

func (e Edit) region() rope.Region { return rope.Region{Anchor: e.Start, Head: e.End} }

// Prepare builds a Transaction from a set of non-overlapping edits
// against the buffer's current document text.
// The caller applies the returned transaction via internal/editor,
// which also rebases every sibling buffer's selection through it; this
// buffer's own post-edit selection is simply tx.RebaseSelection(old),
// per the Design Notes' "canonical rebase map" — a position sitting at
// an edit's start lands past an insertion and collapses into a
// deletion, which is exactly the cursor placement editing commands
// want.
func (b *Buffer) Prepare(edits []Edit) (transaction.Transaction, error) {
	sorted := append([]Edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	base := b.doc.Text().LenChars()
	bld := transaction.NewBuilder(base)
	pos := 0
	for _, e := range sorted {
		if e.Start < pos {
			return transaction.Transaction{}, fmt.Errorf("buffer: overlapping edits at %d", e.Start)
		}
		bld.Retain(e.Start - pos)
		if n := e.End - e.Start; n > 0 {
			bld.Delete(n)
		}
		if e.Text != "" {
			bld.InsertText(e.Text)
		}
		pos = e.End
	}
	return bld.Build()
}

// PrepareInsertAtSelection builds the Transaction for typing/pasting
// text at every selection range, replacing any non-empty range with
// text.
func (b *Buffer) PrepareInsertAtSelection(text string) (transaction.Transaction, error) {
	ranges := b.selection.Ranges()
	edits := make([]Edit, len(ranges))
	for i, r := range ranges {
		edits[i] = Edit{Start: r.Start(), End: r.End(), Text: text}
	}
	return b.Prepare(edits)
}

// PrepareDeleteSelection builds the Transaction that deletes every
// non-empty selected range.
func (b *Buffer) PrepareDeleteSelection() (transaction.Transaction, error) {
	var edits []Edit
	for _, r := range b.selection.Ranges() {
		if r.Len() > 0 {
			edits = append(edits, Edit{Start: r.Start(), End: r.End()})
		}
	}
	return b.Prepare(edits)
}

// PrepareDeleteChars builds the Transaction for a count-character
// delete relative to each (possibly empty) selection range's head —
// backspace (forward=false) or delete-forward (forward=true).
func (b *Buffer) PrepareDeleteChars(count int, forward bool) (transaction.Transaction, error) {
	n := b.LenChars()
	var edits []Edit
	for _, r := range b.selection.Ranges() {
		if r.Len() > 0 {
			edits = append(edits, Edit{Start: r.Start(), End: r.End()})
			continue
		}
		at := r.Head
		if forward {
			end := clampInt(at+count, 0, n)
			if end > at {
				edits = append(edits, Edit{Start: at, End: end})
			}
		} else {
			start := clampInt(at-count, 0, n)
			if at > start {
				edits = append(edits, Edit{Start: start, End: at})
			}
		}
	}
	return b.Prepare(edits)
}

// ApplySelectionRebase is called by internal/editor after the owning
// Document applied a transaction, to update this buffer's selection —
// whether it was the acting buffer or merely a sibling.
func (b *Buffer) ApplySelectionRebase(tx transaction.Transaction) {
	b.selection = tx.RebaseSelection(b.selection)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
