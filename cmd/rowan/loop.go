package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/rowan-editor/rowan/internal/editor"
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/layout"
)

// run is the editor loop: raw-mode stdin and window-size changes feed
// one select, and every resulting state transition completes before the
// next event is taken. Drawing is delegated to whatever front-end
// consumes the prepared frame; this loop only keeps the core's event
// queue moving.
func run(ed *editor.Editor) error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, old)
		if w, h, err := term.GetSize(fd); err == nil {
			ed.SetArea(layout.Rect{Width: w, Height: h})
		}
	}

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, unix.SIGWINCH)
	defer signal.Stop(winch)

	input := make(chan []byte, 8)
	readErr := make(chan error, 1)
	go func() {
		for {
			buf := make([]byte, 64)
			n, err := os.Stdin.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			input <- buf[:n]
		}
	}()

	for !ed.Quit() {
		select {
		case chunk := <-input:
			for _, k := range decodeKeys(chunk) {
				ed.HandleKey(k)
				if ed.Quit() {
					break
				}
			}
		case <-winch:
			if w, h, err := term.GetSize(fd); err == nil {
				ed.SetArea(layout.Rect{Width: w, Height: h})
			}
		case fn := <-ed.LSPResults():
			ed.RunLSPResult(fn)
		case err := <-readErr:
			return err
		}
		ed.DrainExternalChanges()
		ed.DrainLSPResults()
		ed.DrainTerminals()
	}
	return nil
}

// decodeKeys turns a chunk of raw terminal bytes into KeyPresses. It
// understands the encodings the core keymap is bound against: plain
// runes, Ctrl-letter bytes, and ESC either alone or as an Alt prefix.
func decodeKeys(b []byte) []keys.KeyPress {
	var out []keys.KeyPress
	runes := []rune(string(b))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == 0x1b:
			if i+1 < len(runes) && runes[i+1] != 0x1b {
				out = append(out, keys.New(runes[i+1], false, false, true, false))
				i++
			} else {
				out = append(out, keys.New(0x1b, false, false, false, false))
			}
		case r < 0x20 && r != '\t' && r != '\r' && r != '\n':
			out = append(out, keys.New(r+'a'-1, false, false, false, true))
		case r == '\r':
			out = append(out, keys.New('\n', false, false, false, false))
		default:
			out = append(out, keys.New(r, false, false, false, false))
		}
	}
	return out
}
