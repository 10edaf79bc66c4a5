package main

import "github.com/charmbracelet/x/ansi"

// featureProfile selects which terminal feature sequences are emitted
// on enter/exit, driven by the TERMINAL_CONFIG env var: "kitty" forces
// the Kitty keyboard protocol on, "no-kitty" forces it off, "basic"
// skips everything except the alternate screen, and "default" (or
// unset) enables everything but Kitty.
type featureProfile struct {
	kittyKeyboard bool
	sgrMouse      bool
	anyEventMouse bool
	altScreen     bool
	resetCursor   bool
}

func profileFromEnv(v string) featureProfile {
	switch v {
	case "kitty":
		return featureProfile{kittyKeyboard: true, sgrMouse: true, anyEventMouse: true, altScreen: true, resetCursor: true}
	case "no-kitty", "default", "":
		return featureProfile{sgrMouse: true, anyEventMouse: true, altScreen: true, resetCursor: true}
	case "basic":
		return featureProfile{altScreen: true}
	default:
		return featureProfile{sgrMouse: true, anyEventMouse: true, altScreen: true, resetCursor: true}
	}
}

// Enter returns the escape sequences emitted when the editor takes over
// the terminal.
func (p featureProfile) Enter() string {
	var s string
	if p.altScreen {
		s += ansi.SetMode(ansi.AltScreenSaveCursorMode)
	}
	if p.sgrMouse {
		s += ansi.SetMode(ansi.ButtonEventMouseMode, ansi.SgrExtMouseMode)
	}
	if p.anyEventMouse {
		s += ansi.SetMode(ansi.AnyEventMouseMode)
	}
	if p.kittyKeyboard {
		s += ansi.PushKittyKeyboard(ansi.KittyDisambiguateEscapeCodes)
	}
	return s
}

// Exit returns the sequences restoring the terminal, in reverse order
// of Enter; it is also what the panic handler emits so a crash leaves
// the user's shell usable.
func (p featureProfile) Exit() string {
	var s string
	if p.kittyKeyboard {
		s += ansi.PopKittyKeyboard(1)
	}
	if p.anyEventMouse {
		s += ansi.ResetMode(ansi.AnyEventMouseMode)
	}
	if p.sgrMouse {
		s += ansi.ResetMode(ansi.SgrExtMouseMode, ansi.ButtonEventMouseMode)
	}
	if p.resetCursor {
		s += ansi.SetCursorStyle(0)
	}
	if p.altScreen {
		s += ansi.ResetMode(ansi.AltScreenSaveCursorMode)
	}
	return s
}
