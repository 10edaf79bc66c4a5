// Package terminal implements the embedded-terminal panel: a
// PTY-backed shell spawned per layout leaf, fed through a VT parser,
// with a small response table for escape sequences the parser itself
// doesn't synthesize replies for, and shell-init injection for the
// host-binary command-not-found hook. github.com/creack/pty supplies
// the PTY; github.com/charmbracelet/x/vt holds the VT/ANSI emulation
// state.
package terminal

import (
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"github.com/charmbracelet/x/vt"
)

// Id is the opaque per-terminal identifier, sequential and unique for
// the process lifetime.
type Id uint64

// emulator is the narrow subset of *vt.Terminal's surface this package
// depends on, kept as an interface so tests can substitute a fake
// without spawning a real PTY.
type emulator interface {
	io.Writer
	Resize(cols, rows int)
	// String renders the current screen contents, one row per line.
	String() string
}

// Terminal is one embedded PTY panel.
type Terminal struct {
	ID Id

	mu    sync.Mutex
	pty   *os.File
	cmd   *exec.Cmd
	vt    emulator
	dead  bool

	cols, rows int
	cursorShape CursorShape

	// out is the bounded channel the dedicated reader thread feeds.
	out chan []byte
}

// CursorShape tracks the last DECSCUSR request.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Spawn starts shell as the terminal's child process with cols x rows,
// inheriting env plus TOME_BIN/TOME_SOCKET for host-editor IPC.
func Spawn(id Id, shell string, args []string, cols, rows int, binPath, socketPath string) (*Terminal, error) {
	cmd := exec.Command(shell, args...)
	cmd.Env = append(os.Environ(), "TOME_BIN="+binPath, "TOME_SOCKET="+socketPath)

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}

	t := &Terminal{
		ID:   id,
		pty:  f,
		cmd:  cmd,
		vt:   vt.NewTerminal(cols, rows),
		cols: cols, rows: rows,
		out: make(chan []byte, 256),
	}
	go t.readLoop()
	return t, nil
}

// readLoop is the dedicated reader thread: it pipes PTY
// output into the bounded channel, terminating (and marking the
// terminal dead) on disconnect.
func (t *Terminal) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case t.out <- chunk:
			default:
				// Channel full: drop the oldest by draining one slot so
				// a slow consumer can't deadlock the reader thread.
				select {
				case <-t.out:
				default:
				}
				t.out <- chunk
			}
		}
		if err != nil {
			t.mu.Lock()
			t.dead = true
			t.mu.Unlock()
			close(t.out)
			return
		}
	}
}

// Dead reports whether the reader thread observed a disconnect.
func (t *Terminal) Dead() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dead
}

// Drain non-blockingly consumes every pending output chunk and feeds it
// through the VT parser plus the escape-response table.
func (t *Terminal) Drain() {
	for {
		select {
		case chunk, ok := <-t.out:
			if !ok {
				return
			}
			t.feed(chunk)
		default:
			return
		}
	}
}

// feed scans chunk for escape sequences that need a synthesized reply
// (DA1/DSR/DECSCUSR), writes any reply back to the PTY, and forwards
// every byte to the VT emulator for display state.
func (t *Terminal) feed(chunk []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.vt.Write(chunk)
	for _, reply := range scanEscapeResponses(chunk, t) {
		_, _ = t.pty.Write(reply)
	}
}

// Write sends user keystrokes to the PTY.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.pty.Write(p)
}

// Resize forwards new dimensions to both the VT parser and the PTY.
func (t *Terminal) Resize(cols, rows int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cols, t.rows = cols, rows
	t.vt.Resize(cols, rows)
	return pty.Setsize(t.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// ScreenLines returns the emulator's current display, one string per
// screen row, for frame preparation.
func (t *Terminal) ScreenLines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Split(t.vt.String(), "\n")
}

// CursorShapeNow returns the last DECSCUSR-tracked cursor shape.
func (t *Terminal) CursorShapeNow() CursorShape {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursorShape
}

// Close terminates the child process and its PTY fd.
func (t *Terminal) Close() error {
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	return t.pty.Close()
}
