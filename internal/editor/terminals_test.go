package editor

import (
	"testing"
	"time"

	"github.com/rowan-editor/rowan/internal/layout"
	"github.com/rowan-editor/rowan/internal/registry"
	"github.com/rowan-editor/rowan/internal/terminal"
)

func TestTerminalSplitSpawnsShellAndReapsDead(t *testing.T) {
	resetRegistry(t)
	e := New()

	spawned := false
	e.spawnTerminal = func(id terminal.Id, cols, rows int) (*terminal.Terminal, error) {
		spawned = true
		return terminal.Spawn(id, "/bin/sh", nil, cols, rows, "/bin/true", "")
	}

	e.dispatchResult(registry.ActionResult{Kind: registry.ResultSplit, Split: registry.SplitTerminalHorizontal}, nil, registry.ActionContext{})
	if !spawned {
		t.Fatal("split did not call the spawn hook")
	}
	if len(e.terminals) == 0 {
		t.Skip("no PTY available in this environment")
	}

	tp, ok := e.TerminalPanel(1)
	if !ok || tp.Term == nil {
		t.Fatal("terminal panel not registered for the new leaf")
	}
	if !e.Focused().Equal(layout.Terminal(1)) {
		t.Fatalf("focus should move to the new terminal leaf, got %+v", e.Focused())
	}

	// Killing the shell ends the reader thread; the next drain tick
	// removes the dead leaf and returns focus to a text view.
	_ = tp.Term.Close()
	deadline := time.Now().Add(2 * time.Second)
	for !tp.Term.Dead() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !tp.Term.Dead() {
		t.Skip("PTY close not observed in time")
	}
	e.DrainTerminals()
	if len(e.terminals) != 0 {
		t.Fatal("dead terminal should be removed from the editor")
	}
	if _, ok := e.FocusedBuffer(); !ok {
		t.Fatal("focus should return to a text buffer after the terminal dies")
	}
}
