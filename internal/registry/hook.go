package registry

// HookEvent enumerates the synchronous transition points hooks can
// attach to.
type HookEvent string

const (
	EventBufferOpen        HookEvent = "BufferOpen"
	EventBufferClose       HookEvent = "BufferClose"
	EventBufferChange      HookEvent = "BufferChange"
	EventBufferSave        HookEvent = "BufferSave"
	EventModeChanged       HookEvent = "ModeChanged"
	EventViewFocusChanged  HookEvent = "ViewFocusChanged"
	EventWindowFocusChanged HookEvent = "WindowFocusChanged"
)

// HookAction is a sync hook handler's return value, letting later
// handlers in priority order decide whether to keep processing.
type HookAction int

const (
	HookContinue HookAction = iota
	HookStopPropagation
)

// HookContext is the input to a hook handler. Extension is an
// arbitrary read/write slot handlers can use to pass data to each
// other within one event.
type HookContext struct {
	Event     HookEvent
	Caps      Capabilities
	Extension map[string]any
}

// Hook is a registered handler for one event kind.
type Hook struct {
	ID       string
	Event    HookEvent
	Priority int
	Handler  func(HookContext) HookAction
	// Mutable marks that this hook needs write access to editor state
	// beyond Capabilities. The editor runtime checks this flag to
	// decide which context shape to build.
	Mutable bool
	// Async marks a hook that may suspend. Async hooks are never run
	// from inside synchronous dispatch.
	Async bool
}

func (h *Hook) EntryID() string        { return h.ID }
func (h *Hook) EntryName() string      { return string(h.Event) }
func (h *Hook) EntryAliases() []string { return nil }
func (h *Hook) EntryPriority() int     { return h.Priority }

// OptionScope distinguishes a global setting from a per-buffer one.
type OptionScope int

const (
	ScopeGlobal OptionScope = iota
	ScopeBuffer
)

// OptionValueType names the dynamic type an Option's value holds.
type OptionValueType int

const (
	OptBool OptionValueType = iota
	OptInt
	OptString
	OptFloat
)

// Option is a registered editor setting.
type Option struct {
	ID          string
	Name        string
	Aliases     []string
	ValueType   OptionValueType
	Default     any
	Scope       OptionScope
	Description string
}

func (o *Option) EntryID() string        { return o.ID }
func (o *Option) EntryName() string      { return o.Name }
func (o *Option) EntryAliases() []string { return o.Aliases }
func (o *Option) EntryPriority() int     { return 0 }

// Keybinding maps a key sequence in a mode to an action name.
type Keybinding struct {
	ID       string
	Mode     string
	Keys     []string // normalized KeyPress.String() sequence
	Action   string
	Priority int
}

func (k *Keybinding) EntryID() string        { return k.ID }
func (k *Keybinding) EntryName() string      { return k.Action }
func (k *Keybinding) EntryAliases() []string { return nil }
func (k *Keybinding) EntryPriority() int     { return k.Priority }

// Panel is a layered, toggleable layout participant.
type Panel struct {
	ID        string
	Name      string
	Aliases   []string
	Layer     int
	ModeName  string
	Singleton bool
	Sticky    bool
	Factory   func() any
}

func (p *Panel) EntryID() string        { return p.ID }
func (p *Panel) EntryName() string      { return p.Name }
func (p *Panel) EntryAliases() []string { return p.Aliases }
func (p *Panel) EntryPriority() int     { return p.Layer }

// StatuslineSegment is a registered statusline entry evaluated each
// render frame.
type StatuslineSegment struct {
	ID       string
	Name     string
	Aliases  []string
	Priority int
	Render   func(Capabilities) string
}

func (s *StatuslineSegment) EntryID() string        { return s.ID }
func (s *StatuslineSegment) EntryName() string      { return s.Name }
func (s *StatuslineSegment) EntryAliases() []string { return s.Aliases }
func (s *StatuslineSegment) EntryPriority() int     { return s.Priority }

// NotificationType is a registered notification kind.
type NotificationType struct {
	ID       string
	Name     string
	Aliases  []string
	Priority int
	// DefaultTimeoutMS is how long the notification is shown before
	// auto-dismissal; 0 means it persists until explicitly cleared.
	DefaultTimeoutMS int
}

func (n *NotificationType) EntryID() string        { return n.ID }
func (n *NotificationType) EntryName() string      { return n.Name }
func (n *NotificationType) EntryAliases() []string { return n.Aliases }
func (n *NotificationType) EntryPriority() int     { return n.Priority }
