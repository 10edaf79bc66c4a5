package editor

import (
	"strings"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/rope"
)

// bufferCaps is the concrete implementation of every registry
// capability trait, closing over an Editor and the Buffer it targets.
// One instance is built per dispatch rather than cached, since the
// focused buffer can change between keystrokes.
type bufferCaps struct {
	e *Editor
	b *buffer.Buffer
}

func (c bufferCaps) Cursor() int         { return c.b.Cursor() }
func (c bufferCaps) SetCursor(pos int)   { c.b.SetCursor(pos) }
func (c bufferCaps) PreferredColumn() (int, bool) {
	if p := c.b.PreferredColumn(); p != nil {
		return *p, true
	}
	return 0, false
}
func (c bufferCaps) SetPreferredColumn(col int) { c.b.SetPreferredColumn(col) }
func (c bufferCaps) Selection() rope.Selection { return c.b.Selection() }
func (c bufferCaps) SetSelection(sel rope.Selection) { c.b.SetSelection(sel) }
func (c bufferCaps) Text() string                     { return c.b.Text() }
func (c bufferCaps) Slice(a, b int) string            { return c.b.Slice(a, b) }
func (c bufferCaps) LenChars() int                    { return c.b.LenChars() }
func (c bufferCaps) RowCol(point int) (int, int)      { return c.b.RowCol(point) }
func (c bufferCaps) TextPoint(row, col int) int       { return c.b.TextPoint(row, col) }
func (c bufferCaps) Mode() string                     { return string(c.b.Mode()) }
func (c bufferCaps) SetMode(m string)                 { c.b.SetMode(keys.Mode(m)) }
func (c bufferCaps) Warn(msg string)  { c.e.Warn(msg) }
func (c bufferCaps) Error(msg string) { c.e.Error(msg) }
func (c bufferCaps) Info(msg string)  { c.e.Info(msg) }

// Find performs a plain substring search forward from from, wrapping to
// the start of the document once. The pattern is always matched
// literally; the literal flag is not consulted and regex patterns are
// not supported.
func (c bufferCaps) Find(pattern string, from int, ignoreCase, literal bool) (rope.Region, bool) {
	text := c.b.Text()
	hay := text
	needle := pattern
	if ignoreCase {
		hay = strings.ToLower(hay)
		needle = strings.ToLower(needle)
	}
	if from < 0 {
		from = 0
	}
	if from > len(hay) {
		from = len(hay)
	}
	if idx := strings.Index(hay[from:], needle); idx >= 0 {
		start := from + idx
		return rope.Region{Anchor: start, Head: start + len([]rune(pattern))}, true
	}
	if idx := strings.Index(hay[:from], needle); idx >= 0 {
		return rope.Region{Anchor: idx, Head: idx + len([]rune(pattern))}, true
	}
	return rope.Region{}, false
}

func (c bufferCaps) Undo() bool    { return c.e.Undo(c.b) }
func (c bufferCaps) Redo() bool    { return c.e.Redo(c.b) }
func (c bufferCaps) CanUndo() bool { return c.b.Document().CanUndo() }
func (c bufferCaps) CanRedo() bool { return c.b.Document().CanRedo() }

func (c bufferCaps) InsertAt(pos int, text string) {
	tx, err := c.b.Prepare([]buffer.Edit{{Start: pos, End: pos, Text: text}})
	if err != nil {
		c.e.Warn(err.Error())
		return
	}
	if err := c.e.ApplyTransaction(c.b, tx); err != nil {
		c.e.Warn(err.Error())
	}
}

func (c bufferCaps) DeleteRange(a, b int) {
	tx, err := c.b.Prepare([]buffer.Edit{{Start: a, End: b}})
	if err != nil {
		c.e.Warn(err.Error())
		return
	}
	if err := c.e.ApplyTransaction(c.b, tx); err != nil {
		c.e.Warn(err.Error())
	}
}

func (c bufferCaps) ReplaceRange(a, b int, text string) {
	tx, err := c.b.Prepare([]buffer.Edit{{Start: a, End: b, Text: text}})
	if err != nil {
		c.e.Warn(err.Error())
		return
	}
	if err := c.e.ApplyTransaction(c.b, tx); err != nil {
		c.e.Warn(err.Error())
	}
}

func (c bufferCaps) InsertAtSelection(text string) {
	tx, err := c.b.PrepareInsertAtSelection(text)
	if err != nil {
		c.e.Warn(err.Error())
		return
	}
	if err := c.e.ApplyTransaction(c.b, tx); err != nil {
		c.e.Warn(err.Error())
	}
}

func (c bufferCaps) DeleteSelection() {
	tx, err := c.b.PrepareDeleteSelection()
	if err != nil {
		c.e.Warn(err.Error())
		return
	}
	if err := c.e.ApplyTransaction(c.b, tx); err != nil {
		c.e.Warn(err.Error())
	}
}

func (c bufferCaps) DeleteChars(count int, forward bool) {
	tx, err := c.b.PrepareDeleteChars(count, forward)
	if err != nil {
		c.e.Warn(err.Error())
		return
	}
	if err := c.e.ApplyTransaction(c.b, tx); err != nil {
		c.e.Warn(err.Error())
	}
}

func (c bufferCaps) SplitLines()             { c.e.selectionOpSplitLines(c.b) }
func (c bufferCaps) DuplicateSelectionsUp()   { c.e.selectionOpDuplicate(c.b, true) }
func (c bufferCaps) DuplicateSelectionsDown() { c.e.selectionOpDuplicate(c.b, false) }
func (c bufferCaps) MergeSelections()         { c.b.SetSelection(mergeSelections(c.b.Selection())) }
func (c bufferCaps) Align()                   { c.e.selectionOpAlign(c.b) }
func (c bufferCaps) TrimSelections()          { c.b.SetSelection(trimSelections(c.b.Selection(), c.b.Text())) }

func (c bufferCaps) CloseBuffer()        { c.e.CloseBufferID(c.b.Id()) }
func (c bufferCaps) CloseOtherBuffers()  { c.e.closeOtherBuffers(c.b.Id()) }
func (c bufferCaps) NextBuffer()         { c.e.cycleBuffer(true) }
func (c bufferCaps) PrevBuffer()         { c.e.cycleBuffer(false) }

func (c bufferCaps) GetRegister(r rune) (string, bool) { return c.e.GetRegister(r) }
func (c bufferCaps) SetRegister(r rune, text string)   { c.e.SetRegister(r, text) }

// capsFor builds the full capability bundle for buf. Every registered
// Action's RequiredCaps is checked against AllCapabilities at freeze
// time (registry.FreezeAll), so by dispatch time any capability a
// handler declares is guaranteed to resolve to one of these fields.
func (e *Editor) capsFor(buf *buffer.Buffer) registry.Capabilities {
	c := bufferCaps{e: e, b: buf}
	return registry.Capabilities{
		Cursor: c, Selection: c, Text: c, Mode: c, Message: c,
		Search: c, Undo: c, Edit: c, SelectionOps: c, BufferOps: c,
		Register: c, WindowOps: windowOpsCaps{e}, Lsp: lspCaps{e: e, b: buf},
	}
}

// capsForFocus returns capabilities for the focused view, or a bundle
// holding only Message and WindowOps if a terminal is focused.
func (e *Editor) capsForFocus() registry.Capabilities {
	if buf, ok := e.FocusedBuffer(); ok {
		return e.capsFor(buf)
	}
	return registry.Capabilities{Message: messageOnlyCaps{e}, WindowOps: windowOpsCaps{e}}
}

type messageOnlyCaps struct{ e *Editor }

func (m messageOnlyCaps) Warn(msg string)  { m.e.Warn(msg) }
func (m messageOnlyCaps) Error(msg string) { m.e.Error(msg) }
func (m messageOnlyCaps) Info(msg string)  { m.e.Info(msg) }
