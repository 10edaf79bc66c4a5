package editor

import (
	"os"

	"github.com/limetext/log4go"

	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/terminal"
)

// defaultSpawnTerminal starts the user's shell on a real PTY, sized to
// the requested cell grid.
func defaultSpawnTerminal(id terminal.Id, cols, rows int) (*terminal.Terminal, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	bin, err := os.Executable()
	if err != nil {
		bin = os.Args[0]
	}
	return terminal.Spawn(id, shell, nil, cols, rows, bin, os.Getenv("TOME_SOCKET"))
}

// openTerminal spawns a shell for a new terminal leaf, building the
// panel instance through the registered "terminal" panel factory, and
// returns the new leaf id.
func (e *Editor) openTerminal(dir layout.Direction) (uint64, bool) {
	cols, rows := e.area.Width, e.area.Height
	if dir == layout.H {
		rows /= 2
	} else {
		cols /= 2
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	id := e.nextTerminalID + 1
	t, err := e.spawnTerminal(terminal.Id(id), cols, rows)
	if err != nil {
		e.Warn("could not start terminal: " + err.Error())
		return 0, false
	}
	e.nextTerminalID = id

	panel := &terminal.TerminalPanel{}
	if reg, ok := registry.Panels.ByNameOrAlias("terminal"); ok && reg.Factory != nil {
		if tp, ok := reg.Factory().(*terminal.TerminalPanel); ok {
			panel = tp
		}
	}
	panel.Term = t
	e.terminals[id] = panel
	return id, true
}

// focusedTerminalPanel returns the panel for the focused view when it
// is a terminal leaf.
func (e *Editor) focusedTerminalPanel() (*terminal.TerminalPanel, bool) {
	if e.focused.Kind != layout.ViewTerminal {
		return nil, false
	}
	tp, ok := e.terminals[e.focused.TerminalID]
	return tp, ok
}

// writeKeyToTerminal encodes a key press back into the byte sequence a
// shell expects: control chords as control codes, Alt as an ESC
// prefix, Enter as carriage return.
func (e *Editor) writeKeyToTerminal(tp *terminal.TerminalPanel, k keys.KeyPress) {
	if tp.Term == nil {
		return
	}
	var out []byte
	if k.Alt {
		out = append(out, 0x1b)
	}
	switch {
	case k.Ctrl && k.Key >= 'a' && k.Key <= 'z':
		out = append(out, byte(k.Key-'a'+1))
	case k.Key == '\n':
		out = append(out, '\r')
	default:
		out = append(out, []byte(string(k.Character()))...)
	}
	if _, err := tp.Term.Write(out); err != nil {
		log4go.Warn("terminal: write: %s", err)
	}
}

// TerminalPanel returns the panel behind a terminal layout leaf, for
// frame preparation and PTY writes.
func (e *Editor) TerminalPanel(id uint64) (*terminal.TerminalPanel, bool) {
	tp, ok := e.terminals[id]
	return tp, ok
}

// DrainTerminals consumes pending PTY output for every live terminal
// and removes dead ones from the layout, called once per editor tick.
func (e *Editor) DrainTerminals() {
	for id, tp := range e.terminals {
		if tp.Term == nil {
			continue
		}
		tp.Term.Drain()
		if tp.Term.Dead() {
			e.removeTerminal(id, tp)
		}
	}
}

func (e *Editor) removeTerminal(id uint64, tp *terminal.TerminalPanel) {
	_ = tp.Term.Close()
	delete(e.terminals, id)

	view := layout.Terminal(id)
	focusedIt := e.focused.Equal(view)
	if newLayout, ok := e.layout.Remove(view); ok {
		if focusedIt {
			if pred, hasPred := e.layout.InOrderPredecessor(view); hasPred {
				e.layout = newLayout
				e.setFocus(pred)
			} else {
				e.layout = newLayout
			}
		} else {
			e.layout = newLayout
		}
	}
	e.Info("terminal exited")
}
