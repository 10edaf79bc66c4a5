package terminal

import (
	"bytes"
	"fmt"
)

// scanEscapeResponses finds the escape sequences the VT parser doesn't
// synthesize responses for and returns the bytes to
// write back to the PTY for each occurrence: DA1 (ESC [ c) replies
// "ESC [ ? 6 c"; DSR (ESC [ 6 n) replies with the cursor position;
// DECSCUSR (ESC [ Ps SP q) updates the tracked cursor shape (no PTY
// reply). t.cursorShape is updated in place for DECSCUSR matches.
func scanEscapeResponses(chunk []byte, t *Terminal) [][]byte {
	var replies [][]byte
	i := 0
	for i < len(chunk) {
		if chunk[i] != 0x1b { // ESC
			i++
			continue
		}
		if rest := chunk[i:]; bytes.HasPrefix(rest, []byte("\x1b[c")) {
			replies = append(replies, []byte("\x1b[?6c"))
			i += len("\x1b[c")
			continue
		}
		if rest := chunk[i:]; bytes.HasPrefix(rest, []byte("\x1b[6n")) {
			row, col := cursorPosition(t)
			replies = append(replies, []byte(fmt.Sprintf("\x1b[%d;%dR", row, col)))
			i += len("\x1b[6n")
			continue
		}
		if n, shape, ok := matchDECSCUSR(chunk[i:]); ok {
			t.mu.Lock()
			t.cursorShape = shape
			t.mu.Unlock()
			i += n
			continue
		}
		i++
	}
	return replies
}

// cursorPosition supplies the 1-indexed row/col for the DSR reply. The
// narrow `emulator` interface this package depends on does not expose
// the cursor position and Terminal keeps no copy of it, so the reply
// always reports row 1, column 1.
func cursorPosition(t *Terminal) (row, col int) {
	return 1, 1
}

// matchDECSCUSR parses "ESC [ Ps SP q" at the start of b, returning the
// byte length consumed and the resulting CursorShape.
func matchDECSCUSR(b []byte) (n int, shape CursorShape, ok bool) {
	if len(b) < 4 || b[0] != 0x1b || b[1] != '[' {
		return 0, 0, false
	}
	j := 2
	start := j
	for j < len(b) && b[j] >= '0' && b[j] <= '9' {
		j++
	}
	if j == len(b) || b[j] != ' ' {
		return 0, 0, false
	}
	j++
	if j == len(b) || b[j] != 'q' {
		return 0, 0, false
	}
	ps := 0
	for _, d := range b[start : j-2] {
		ps = ps*10 + int(d-'0')
	}
	switch ps {
	case 0, 1, 2:
		shape = CursorBlock
	case 3, 4:
		shape = CursorUnderline
	case 5, 6:
		shape = CursorBar
	default:
		shape = CursorBlock
	}
	return j + 1, shape, true
}
