package editor

import (
	"github.com/atotto/clipboard"

	"github.com/rowan-editor/rowan/internal/buffer"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/rope"
)

// RegisterSet holds the editor-scoped registers: named registers (one rune per register), a
// numbered yank-ring (registers '1'-'9', shifting on each new yank the
// way a shell's kill-ring or vim's numbered registers do), and the
// "+"/"*" registers proxying the system clipboard.
type RegisterSet struct {
	named  map[rune]string
	ring   [9]string
}

// NewRegisterSet returns an empty register set.
func NewRegisterSet() RegisterSet {
	return RegisterSet{named: make(map[rune]string)}
}

// GetRegister / SetRegister expose the editor's RegisterSet through the
// registry.RegisterAccess capability.
func (e *Editor) GetRegister(r rune) (string, bool) { return e.registers.Get(r) }
func (e *Editor) SetRegister(r rune, text string)   { e.registers.Set(r, text) }

// Set stores text into register r. Register '_' is the black-hole
// register.
func (rs *RegisterSet) Set(r rune, text string) {
	switch r {
	case '_':
		return
	case '+', '*':
		_ = clipboard.WriteAll(text)
		return
	case 0:
		rs.pushRing(text)
		rs.named['"'] = text
	default:
		rs.named[r] = text
	}
}

// pushRing shifts the numbered yank-ring: '1' holds the most recent
// unnamed yank, '2' the one before that, and so on through '9'.
func (rs *RegisterSet) pushRing(text string) {
	copy(rs.ring[1:], rs.ring[:8])
	rs.ring[0] = text
}

// Get returns the text last stored in register r.
func (rs *RegisterSet) Get(r rune) (string, bool) {
	switch r {
	case '+', '*':
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", false
		}
		return text, true
	case 0, '"':
		v, ok := rs.named['"']
		return v, ok
	}
	if r >= '1' && r <= '9' {
		idx := int(r - '1')
		if idx < len(rs.ring) && rs.ring[idx] != "" {
			return rs.ring[idx], true
		}
		return "", false
	}
	v, ok := rs.named[r]
	return v, ok
}

// JumpEntry is a single jump-list location.
type JumpEntry struct {
	Buffer    buffer.Id
	Selection rope.Selection
}

// JumpList is a bounded back/forward ring, the structure a browser's
// history stack or vim's jumplist both use: pushing while not at the
// tail truncates everything after the cursor.
type JumpList struct {
	entries []JumpEntry
	cursor  int
	cap     int
}

// NewJumpList returns an empty list capped at capacity entries.
func NewJumpList(capacity int) *JumpList {
	return &JumpList{cap: capacity}
}

// Push records a new jump location, truncating any forward history.
func (jl *JumpList) Push(e JumpEntry) {
	if jl.cursor < len(jl.entries)-1 {
		jl.entries = jl.entries[:jl.cursor+1]
	}
	jl.entries = append(jl.entries, e)
	if len(jl.entries) > jl.cap {
		jl.entries = jl.entries[len(jl.entries)-jl.cap:]
	}
	jl.cursor = len(jl.entries) - 1
}

// Back moves one entry toward the start of the list.
func (jl *JumpList) Back() (JumpEntry, bool) {
	if jl.cursor == 0 {
		return JumpEntry{}, false
	}
	jl.cursor--
	return jl.entries[jl.cursor], true
}

// Forward moves one entry toward the end of the list.
func (jl *JumpList) Forward() (JumpEntry, bool) {
	if jl.cursor >= len(jl.entries)-1 {
		return JumpEntry{}, false
	}
	jl.cursor++
	return jl.entries[jl.cursor], true
}

// MacroState holds in-progress and recorded macros.
type MacroState struct {
	recorded  map[rune]keys.Sequence
	recording *rune
	buffer    keys.Sequence
}

func newMacroState() MacroState {
	return MacroState{recorded: make(map[rune]keys.Sequence)}
}

// StartRecording begins capturing keys into register r.
func (ms *MacroState) StartRecording(r rune) {
	reg := r
	ms.recording = &reg
	ms.buffer = nil
}

// Recording reports whether a macro is currently being captured.
func (ms *MacroState) Recording() bool { return ms.recording != nil }

// Feed appends a key to the in-progress recording, a no-op if nothing
// is being recorded.
func (ms *MacroState) Feed(k keys.KeyPress) {
	if ms.recording == nil {
		return
	}
	ms.buffer = append(ms.buffer, k)
}

// TrimLast drops the most recently fed key, used when the key that
// triggered stop-recording was itself captured and must not replay.
func (ms *MacroState) TrimLast() {
	if ms.recording == nil {
		return
	}
	if n := len(ms.buffer); n > 0 {
		ms.buffer = ms.buffer[:n-1]
	}
}

// StopRecording finalizes the in-progress macro into its register.
func (ms *MacroState) StopRecording() {
	if ms.recording == nil {
		return
	}
	ms.recorded[*ms.recording] = ms.buffer
	ms.recording = nil
	ms.buffer = nil
}

// Get returns the recorded key sequence for register r.
func (ms *MacroState) Get(r rune) (keys.Sequence, bool) {
	seq, ok := ms.recorded[r]
	return seq, ok
}
