package lsp

// CompletionPhase enumerates the completion state machine's states.
type CompletionPhase int

const (
	CompletionInactive CompletionPhase = iota
	CompletionRequesting
	CompletionActive
	CompletionInserting
)

// CompletionState tracks one buffer's completion session.
type CompletionState struct {
	Phase         CompletionPhase
	TriggerColumn int
	TypedText     string
	// StartedAtTick records when a Requesting state began, in terms of
	// an opaque monotonic tick the caller supplies.
	StartedAtTick int
	Generation    int
}

// NewCompletionState returns an Inactive state.
func NewCompletionState() *CompletionState { return &CompletionState{} }

// BeginRequest transitions Inactive -> Requesting.
func (s *CompletionState) BeginRequest(triggerColumn, tick int) {
	s.Phase = CompletionRequesting
	s.TriggerColumn = triggerColumn
	s.TypedText = ""
	s.StartedAtTick = tick
	s.Generation++
}

// Activate transitions Requesting -> Active once a response arrives,
// provided the response's generation still matches.
func (s *CompletionState) Activate(generation int) bool {
	if s.Phase != CompletionRequesting || generation != s.Generation {
		return false
	}
	s.Phase = CompletionActive
	return true
}

// TypeChar appends a typed character, updating the popup's filter.
func (s *CompletionState) TypeChar(r rune) {
	if s.Phase != CompletionActive {
		return
	}
	s.TypedText += string(r)
}

// Backspace removes the last typed character. If the cursor would fall
// past TriggerColumn, the caller should call Dismiss instead.
func (s *CompletionState) Backspace() {
	if s.Phase != CompletionActive || s.TypedText == "" {
		return
	}
	r := []rune(s.TypedText)
	s.TypedText = string(r[:len(r)-1])
}

// BeginInsert transitions Active -> Inserting (the brief window between
// accept and the transaction landing).
func (s *CompletionState) BeginInsert() {
	if s.Phase == CompletionActive {
		s.Phase = CompletionInserting
	}
}

// Dismiss sets Inactive.
func (s *CompletionState) Dismiss() {
	s.Phase = CompletionInactive
	s.TypedText = ""
}

// CheckTimeout silently returns Requesting to Inactive if it has been
// pending longer than timeoutTicks.
func (s *CompletionState) CheckTimeout(currentTick, timeoutTicks int) {
	if s.Phase == CompletionRequesting && currentTick-s.StartedAtTick > timeoutTicks {
		s.Dismiss()
	}
}

// SignaturePhase enumerates the signature-help state machine.
type SignaturePhase int

const (
	SignatureInactive SignaturePhase = iota
	SignatureRequesting
	SignatureActive
)

// SignatureState tracks one buffer's signature-help session.
type SignatureState struct {
	Phase         SignaturePhase
	TriggerColumn int
	ParameterIndex int
	NestingDepth  int
}

func NewSignatureState() *SignatureState { return &SignatureState{} }

// BeginRequest transitions Inactive -> Requesting with
// parameter_index=0.
func (s *SignatureState) BeginRequest(triggerColumn int) {
	s.Phase = SignatureRequesting
	s.TriggerColumn = triggerColumn
	s.ParameterIndex = 0
}

// Activate transitions Requesting -> Active with nesting_depth=1.
func (s *SignatureState) Activate() {
	if s.Phase != SignatureRequesting {
		return
	}
	s.Phase = SignatureActive
	s.NestingDepth = 1
}

// OpenParen increments nesting depth for a typed "(" inside an active
// signature session.
func (s *SignatureState) OpenParen() {
	if s.Phase == SignatureActive {
		s.NestingDepth++
	}
}

// CloseParen decrements nesting depth, dismissing once it reaches zero.
func (s *SignatureState) CloseParen() {
	if s.Phase != SignatureActive {
		return
	}
	s.NestingDepth--
	if s.NestingDepth <= 0 {
		s.Dismiss()
	}
}

// Comma advances the parameter index.
func (s *SignatureState) Comma() {
	if s.Phase == SignatureActive {
		s.ParameterIndex++
	}
}

// BackspaceOverComma retreats the parameter index.
func (s *SignatureState) BackspaceOverComma() {
	if s.Phase == SignatureActive && s.ParameterIndex > 0 {
		s.ParameterIndex--
	}
}

// Dismiss sets Inactive.
func (s *SignatureState) Dismiss() {
	s.Phase = SignatureInactive
	s.ParameterIndex = 0
	s.NestingDepth = 0
}
