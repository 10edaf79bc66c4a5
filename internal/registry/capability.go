package registry

import "github.com/rowan-editor/rowan/internal/rope"

// Capability names the narrow editor facets an Action/Command can
// declare as required_caps. They are checked at
// Freeze time against the set the host process actually implements.
type Capability string

const (
	CapCursor       Capability = "cursor"
	CapSelection    Capability = "selection"
	CapText         Capability = "text"
	CapMode         Capability = "mode"
	CapMessage      Capability = "message"
	CapSearch       Capability = "search"
	CapUndo         Capability = "undo"
	CapEdit         Capability = "edit"
	CapSelectionOps Capability = "selection_ops"
	CapBufferOps    Capability = "buffer_ops"
	CapRegister     Capability = "register"
	CapWindowOps    Capability = "window_ops"
	CapLsp          Capability = "lsp"
)

// AllCapabilities is the complete set the core implements; used by
// ValidateCapabilities to reject typos/unimplemented names at startup
// rather than at first dispatch.
var AllCapabilities = map[Capability]bool{
	CapCursor: true, CapSelection: true, CapText: true, CapMode: true,
	CapMessage: true, CapSearch: true, CapUndo: true, CapEdit: true,
	CapSelectionOps: true, CapBufferOps: true, CapRegister: true,
	CapWindowOps: true, CapLsp: true,
}

// ValidateCapabilities checks that every capability in want is
// implemented, returning an error naming the first unknown one.
func ValidateCapabilities(want []Capability) error {
	for _, c := range want {
		if !AllCapabilities[c] {
			return &UnimplementedCapabilityError{Capability: c}
		}
	}
	return nil
}

// UnimplementedCapabilityError is returned by ValidateCapabilities and
// by Freeze when an Action/Command declares a capability the process
// doesn't know how to satisfy.
type UnimplementedCapabilityError struct {
	Capability Capability
}

func (e *UnimplementedCapabilityError) Error() string {
	return "registry: unimplemented capability required: " + string(e.Capability)
}

// CursorAccess exposes the focused buffer's cursor position, plus the
// remembered preferred visual column a run of vertical motions aims for.
type CursorAccess interface {
	Cursor() int
	SetCursor(pos int)
	PreferredColumn() (int, bool)
	SetPreferredColumn(col int)
}

// SelectionAccess exposes the focused buffer's selection.
type SelectionAccess interface {
	Selection() rope.Selection
	SetSelection(rope.Selection)
}

// TextAccess exposes read-only text queries against the focused
// buffer's document.
type TextAccess interface {
	Text() string
	Slice(a, b int) string
	LenChars() int
	RowCol(point int) (row, col int)
	TextPoint(row, col int) int
}

// ModeAccess exposes the input FSM's current mode.
type ModeAccess interface {
	Mode() string
	SetMode(string)
}

// MessageAccess lets a handler surface a warning/error notification
// without needing the full Editor.
type MessageAccess interface {
	Warn(msg string)
	Error(msg string)
	Info(msg string)
}

// SearchAccess exposes pattern search against the focused buffer.
type SearchAccess interface {
	Find(pattern string, from int, ignoreCase, literal bool) (rope.Region, bool)
}

// UndoAccess exposes undo/redo on the focused buffer's document.
type UndoAccess interface {
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
}

// EditAccess lets a handler prepare and apply a transaction against the
// focused buffer.
type EditAccess interface {
	InsertAt(pos int, text string)
	DeleteRange(a, b int)
	ReplaceRange(a, b int, text string)

	// InsertAtSelection replaces every selected range with text in one
	// transaction.
	InsertAtSelection(text string)
	// DeleteSelection deletes every non-empty selected range.
	DeleteSelection()
	// DeleteChars deletes count characters relative to each (possibly
	// empty) range's head: backward (backspace) or forward (delete-fwd).
	DeleteChars(count int, forward bool)
}

// SelectionOpsAccess exposes selection-shape operations that are
// neither plain motions nor text edits: split, merge, duplicate, align.
type SelectionOpsAccess interface {
	SplitLines()
	DuplicateSelectionsUp()
	DuplicateSelectionsDown()
	MergeSelections()
	Align()
	TrimSelections()
}

// BufferOpsAccess exposes whole-buffer/window operations (split, focus,
// close, buffer cycling) so window-shaped ActionResults can be carried
// out by a capability rather than reaching into the Editor directly.
type BufferOpsAccess interface {
	CloseBuffer()
	CloseOtherBuffers()
	NextBuffer()
	PrevBuffer()
}

// RegisterAccess exposes the editor-scoped named registers to yank/paste
// style actions without handing them the whole Editor.
type RegisterAccess interface {
	GetRegister(r rune) (string, bool)
	SetRegister(r rune, text string)
}

// WindowOpsAccess exposes the whole-editor operations ex-mode commands
// drive,
// distinct from BufferOpsAccess's per-buffer close/cycle operations
// since opening/saving a named file and quitting operate above any
// single buffer.
type WindowOpsAccess interface {
	Save() error
	SaveCurrentAs(path string) error
	OpenFile(path string) error
	Quit()
	ForceQuit()
}

// LspAccess exposes fire-and-forget language-server requests for the
// focused buffer. Every method only enqueues the request; the response
// arrives asynchronously on the editor loop's result queue and is
// surfaced as a popup, navigation, or edit there, so a handler calling
// these never blocks input.
type LspAccess interface {
	RequestHover()
	RequestCompletion()
	RequestSignatureHelp()
	GotoDefinition()
	FindReferences()
	FormatDocument()
	RequestCodeActions()
	RequestInlayHints(startLine, endLine int)
}

// Capabilities bundles whatever subset of the capability traits is
// available in the current ActionContext. A handler should nil-check
// before using any field beyond the ones it declared as required_caps;
// the dispatcher guarantees every declared-required field is non-nil
// but makes no promises about the others (e.g. a terminal-focused
// context has only Message and WindowOps populated).
type Capabilities struct {
	Cursor       CursorAccess
	Selection    SelectionAccess
	Text         TextAccess
	Mode         ModeAccess
	Message      MessageAccess
	Search       SearchAccess
	Undo         UndoAccess
	Edit         EditAccess
	SelectionOps SelectionOpsAccess
	BufferOps    BufferOpsAccess
	Register     RegisterAccess
	WindowOps    WindowOpsAccess
	Lsp          LspAccess
}

// Has reports whether every capability named in want is populated.
func (c Capabilities) Has(want []Capability) bool {
	for _, w := range want {
		switch w {
		case CapCursor:
			if c.Cursor == nil {
				return false
			}
		case CapSelection:
			if c.Selection == nil {
				return false
			}
		case CapText:
			if c.Text == nil {
				return false
			}
		case CapMode:
			if c.Mode == nil {
				return false
			}
		case CapMessage:
			if c.Message == nil {
				return false
			}
		case CapSearch:
			if c.Search == nil {
				return false
			}
		case CapUndo:
			if c.Undo == nil {
				return false
			}
		case CapEdit:
			if c.Edit == nil {
				return false
			}
		case CapSelectionOps:
			if c.SelectionOps == nil {
				return false
			}
		case CapBufferOps:
			if c.BufferOps == nil {
				return false
			}
		case CapRegister:
			if c.Register == nil {
				return false
			}
		case CapLsp:
			if c.Lsp == nil {
				return false
			}
		case CapWindowOps:
			if c.WindowOps == nil {
				return false
			}
		}
	}
	return true
}
