package registry

import "github.com/rowan-editor/rowan/internal/rope"

// ActionContext is the pure-function input to an Action or Motion
// handler. It carries whatever capabilities
// the current focus (text buffer vs terminal) makes available, plus
// the resolved count/register/extend/char-arg state the input FSM
// accumulated before dispatch.
type ActionContext struct {
	Caps      Capabilities
	Selection rope.Selection
	Cursor    int
	Count     int // defaults to 1 when no explicit count was typed
	Extend    bool
	Register  rune // 0 if none was given
	CharArg   rune // fed by a PendingAction(kind) continuation, e.g. f/t/r
	Args      map[string]any
}

// PendingKind names what a Pending ActionResult is waiting on: the
// next key feeds a specific ActionContext field.
type PendingKind int

const (
	PendingCharArg PendingKind = iota
	PendingTextObject
	PendingRegister
	PendingCount
)

// ActionResultKind enumerates the ActionResult variants. Handlers
// return exactly one kind, optionally carrying kind-specific payload
// fields below.
type ActionResultKind int

const (
	ResultOk ActionResultKind = iota
	ResultMotion
	ResultInsertWithMotion
	ResultModeChange
	ResultQuit
	ResultForceQuit
	ResultForceRedraw
	ResultError
	ResultPending
	ResultTogglePanel
	ResultSplit
	ResultCloseSplit
	ResultFocusLeft
	ResultFocusRight
	ResultFocusUp
	ResultFocusDown
	ResultBufferNext
	ResultBufferPrev
	ResultCloseBuffer
	ResultCloseOtherBuffers
	ResultSplitLines
	ResultDuplicateSelectionsUp
	ResultDuplicateSelectionsDown
	ResultMergeSelections
	ResultAlign
	ResultTabsToSpaces
	ResultSpacesToTabs
	ResultTrimSelections
	ResultSaveJump
	ResultJumpForward
	ResultJumpBackward
	ResultSaveSelections
	ResultRestoreSelections
	ResultRecordMacro
	ResultPlayMacro
	ResultRepeatLastInsert
	ResultRepeatLastObject
)

// SplitKind distinguishes the four ResultSplit flavors.
type SplitKind int

const (
	SplitHorizontal SplitKind = iota
	SplitVertical
	SplitTerminalHorizontal
	SplitTerminalVertical
)

// ActionResult is the tagged-union return value of an Action handler.
// Only the fields relevant to Kind are meaningful. Carrying the effect
// as data lets the editor's dispatch table route on it without the
// handler needing editor access.
type ActionResult struct {
	Kind ActionResultKind

	Selection rope.Selection // ResultMotion, ResultInsertWithMotion
	InsertText string         // ResultInsertWithMotion
	Mode       string         // ResultModeChange
	Message    string         // ResultError
	PanelName  string         // ResultTogglePanel
	Pending    PendingKind    // ResultPending
	Split      SplitKind      // ResultSplit
	MacroName  rune           // ResultRecordMacro, ResultPlayMacro
}

// Ok is the zero-cost success result most handlers return.
func Ok() ActionResult { return ActionResult{Kind: ResultOk} }

// Err builds a ResultError carrying msg.
func Err(msg string) ActionResult { return ActionResult{Kind: ResultError, Message: msg} }

// MotionResult wraps a new selection as a ResultMotion.
func MotionResult(sel rope.Selection) ActionResult {
	return ActionResult{Kind: ResultMotion, Selection: sel}
}

// Action is a registered, named dispatch unit.
type Action struct {
	ID           string
	Name         string
	Aliases      []string
	Description  string
	Handler      func(ActionContext) ActionResult
	RequiredCaps []Capability
	Priority     int
	Flags        ActionFlags
}

// ActionFlags are boolean traits of an action consulted by dispatch,
// e.g. whether it's allowed while the focused view is a terminal.
type ActionFlags struct {
	TerminalSafe bool
	// VerticalMotion marks an action that should preserve the buffer's
	// remembered preferred column instead of resetting it.
	VerticalMotion bool
}

func (a *Action) EntryID() string        { return a.ID }
func (a *Action) EntryName() string      { return a.Name }
func (a *Action) EntryAliases() []string { return a.Aliases }
func (a *Action) EntryPriority() int     { return a.Priority }

// Motion is a pure function from a range to a new range.
type Motion struct {
	ID       string
	Name     string
	Aliases  []string
	Handler  func(text string, r rope.Region, count int, extend bool) rope.Region
	Priority int
}

func (m *Motion) EntryID() string        { return m.ID }
func (m *Motion) EntryName() string      { return m.Name }
func (m *Motion) EntryAliases() []string { return m.Aliases }
func (m *Motion) EntryPriority() int     { return m.Priority }

// TextObject pairs inner/around range functions keyed by a trigger
// character plus alternate triggers.
type TextObject struct {
	ID          string
	Name        string
	Aliases     []string
	Trigger     rune
	AltTriggers []rune
	Inner       func(text string, pos int) (rope.Region, bool)
	Around      func(text string, pos int) (rope.Region, bool)
	Priority    int
}

func (t *TextObject) EntryID() string        { return t.ID }
func (t *TextObject) EntryName() string      { return t.Name }
func (t *TextObject) EntryAliases() []string { return t.Aliases }
func (t *TextObject) EntryPriority() int     { return t.Priority }
func (t *TextObject) triggers() []rune       { return append([]rune{t.Trigger}, t.AltTriggers...) }

// CommandContext is the input to an ex-mode (`:name`) Command handler.
type CommandContext struct {
	Caps Capabilities
	Args []string
}

// CommandOutcome is a Command handler's success payload.
type CommandOutcome struct {
	Message string
}

// CommandError is the error type Command handlers return.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string { return e.Message }

// Command is a registered ex-mode command.
type Command struct {
	ID           string
	Name         string
	Aliases      []string
	Handler      func(CommandContext) (CommandOutcome, error)
	RequiredCaps []Capability
	Flags        ActionFlags
}

func (c *Command) EntryID() string        { return c.ID }
func (c *Command) EntryName() string      { return c.Name }
func (c *Command) EntryAliases() []string { return c.Aliases }
func (c *Command) EntryPriority() int     { return 0 }
