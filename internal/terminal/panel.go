package terminal

import "github.com/rowan-editor/rowan/internal/registry"

// TerminalPanel is the per-instance state the registered Panel factory
// produces: one layout leaf's view onto a Terminal.
type TerminalPanel struct {
	Term *Terminal
}

func init() {
	registry.RegisterPanel(&registry.Panel{
		ID:        "terminal",
		Name:      "terminal",
		Layer:     0,
		ModeName:  "terminal",
		Singleton: false,
		Sticky:    false,
		Factory:   func() any { return &TerminalPanel{} },
	})
}
