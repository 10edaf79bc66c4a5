package editor

import (
	"errors"

	"github.com/rowan-editor/rowan/internal/registry"
)

// windowOpsCaps implements WindowOpsAccess against the whole editor:
// ex-mode commands save/open/quit above any single buffer.
type windowOpsCaps struct{ e *Editor }

func (w windowOpsCaps) Save() error {
	buf, ok := w.e.FocusedBuffer()
	if !ok {
		return errors.New("no buffer focused")
	}
	return w.e.SaveBuffer(buf)
}

func (w windowOpsCaps) SaveCurrentAs(path string) error {
	buf, ok := w.e.FocusedBuffer()
	if !ok {
		return errors.New("no buffer focused")
	}
	buf.Document().SetPath(path)
	return w.e.SaveBuffer(buf)
}

func (w windowOpsCaps) OpenFile(path string) error {
	return w.e.ReplaceFocusedWithFile(path)
}

func (w windowOpsCaps) Quit()      { w.e.quit = true }
func (w windowOpsCaps) ForceQuit() { w.e.quit = true; w.e.forceQuit = true }

// ExecuteCommand resolves an ex-mode command by name or alias and runs
// it, surfacing the outcome message or error as a notification. Unknown
// names are a user-facing error, not a defect.
func (e *Editor) ExecuteCommand(name string, args []string) {
	cmd, ok := registry.Commands.ByNameOrAlias(name)
	if !ok {
		e.Error("unknown command: " + name)
		return
	}
	_, isText := e.FocusedBuffer()
	if !isText && !cmd.Flags.TerminalSafe {
		e.Warn("command not available while a terminal is focused: " + name)
		return
	}
	ctx := registry.CommandContext{Caps: e.capsForFocus(), Args: args}
	outcome, err := cmd.Handler(ctx)
	if err != nil {
		e.Error(err.Error())
		return
	}
	if outcome.Message != "" {
		e.Info(outcome.Message)
	}
}
