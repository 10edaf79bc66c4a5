package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeEmulator struct {
	written [][]byte
	cols, rows int
}

func (f *fakeEmulator) Write(p []byte) (int, error) {
	f.written = append(f.written, append([]byte(nil), p...))
	return len(p), nil
}

func (f *fakeEmulator) Resize(cols, rows int) {
	f.cols, f.rows = cols, rows
}

func (f *fakeEmulator) String() string {
	var b []byte
	for _, chunk := range f.written {
		b = append(b, chunk...)
	}
	return string(b)
}

func newFakeTerminal() (*Terminal, *fakeEmulator) {
	fe := &fakeEmulator{}
	t := &Terminal{vt: fe, out: make(chan []byte, 16)}
	return t, fe
}

func TestFeedForwardsToEmulator(t *testing.T) {
	term, fe := newFakeTerminal()
	term.feed([]byte("hello"))
	assert.Len(t, fe.written, 1)
	assert.Equal(t, "hello", string(fe.written[0]))
}

func TestDECSCUSRUpdatesCursorShape(t *testing.T) {
	term, _ := newFakeTerminal()
	term.feed([]byte("\x1b[4 q"))
	assert.Equal(t, CursorUnderline, term.CursorShapeNow())
}

func TestMatchDECSCUSRVariants(t *testing.T) {
	n, shape, ok := matchDECSCUSR([]byte("\x1b[6 qtrailing"))
	assert.True(t, ok)
	assert.Equal(t, CursorBar, shape)
	assert.Equal(t, len("\x1b[6 q"), n)

	_, _, ok = matchDECSCUSR([]byte("not escape"))
	assert.False(t, ok)
}

func TestScanEscapeResponsesDA1(t *testing.T) {
	term, _ := newFakeTerminal()
	replies := scanEscapeResponses([]byte("\x1b[c"), term)
	assert := assert.New(t)
	assert.Len(replies, 1)
	assert.Equal("\x1b[?6c", string(replies[0]))
}

func TestScanEscapeResponsesDSR(t *testing.T) {
	term, _ := newFakeTerminal()
	replies := scanEscapeResponses([]byte("\x1b[6n"), term)
	assert.Len(t, replies, 1)
	assert.Equal(t, "\x1b[1;1R", string(replies[0]))
}

func TestDetectShellKind(t *testing.T) {
	assert.Equal(t, ShellFish, DetectShellKind("/usr/bin/fish"))
	assert.Equal(t, ShellZsh, DetectShellKind("/bin/zsh"))
	assert.Equal(t, ShellBash, DetectShellKind("/bin/bash"))
	assert.Equal(t, ShellUnknown, DetectShellKind("/bin/dash"))
}

func TestInitArgsFishOnly(t *testing.T) {
	assert.NotEmpty(t, InitArgs(ShellFish, "/usr/local/bin/rowan"))
	assert.Empty(t, InitArgs(ShellBash, "/usr/local/bin/rowan"))
	assert.Empty(t, InitArgs(ShellZsh, "/usr/local/bin/rowan"))
}

func TestAwaitShellReadyMissingProcShortCircuits(t *testing.T) {
	assert.True(t, AwaitShellReady(999999999, "bash", 1, 0))
}
