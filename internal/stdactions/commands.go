package stdactions

import "github.com/rowan-editor/rowan/internal/registry"

func init() {
	registry.RegisterCommand(&registry.Command{
		ID: "command.write", Name: "write", Aliases: []string{"w"},
		RequiredCaps: []registry.Capability{registry.CapWindowOps, registry.CapMessage},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			if len(ctx.Args) > 0 {
				if err := ctx.Caps.WindowOps.SaveCurrentAs(ctx.Args[0]); err != nil {
					return registry.CommandOutcome{}, &registry.CommandError{Message: err.Error()}
				}
				return registry.CommandOutcome{Message: "written: " + ctx.Args[0]}, nil
			}
			if err := ctx.Caps.WindowOps.Save(); err != nil {
				return registry.CommandOutcome{}, &registry.CommandError{Message: err.Error()}
			}
			return registry.CommandOutcome{Message: "written"}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.quit", Name: "quit", Aliases: []string{"q"},
		RequiredCaps: []registry.Capability{registry.CapWindowOps},
		Flags:        registry.ActionFlags{TerminalSafe: true},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.WindowOps.Quit()
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.quit_force", Name: "quit!", Aliases: []string{"q!"},
		RequiredCaps: []registry.Capability{registry.CapWindowOps},
		Flags:        registry.ActionFlags{TerminalSafe: true},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.WindowOps.ForceQuit()
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.write_quit", Name: "write-quit", Aliases: []string{"wq", "x"},
		RequiredCaps: []registry.Capability{registry.CapWindowOps, registry.CapMessage},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			if err := ctx.Caps.WindowOps.Save(); err != nil {
				return registry.CommandOutcome{}, &registry.CommandError{Message: err.Error()}
			}
			ctx.Caps.WindowOps.Quit()
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.edit", Name: "edit", Aliases: []string{"e", "open", "o"},
		RequiredCaps: []registry.Capability{registry.CapWindowOps, registry.CapMessage},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			if len(ctx.Args) == 0 {
				return registry.CommandOutcome{}, &registry.CommandError{Message: "edit: path required"}
			}
			if err := ctx.Caps.WindowOps.OpenFile(ctx.Args[0]); err != nil {
				return registry.CommandOutcome{}, &registry.CommandError{Message: err.Error()}
			}
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.buffer_close", Name: "buffer-close", Aliases: []string{"bc", "bclose"},
		RequiredCaps: []registry.Capability{registry.CapBufferOps},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.BufferOps.CloseBuffer()
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.buffer_close_others", Name: "buffer-close-others", Aliases: []string{"bco"},
		RequiredCaps: []registry.Capability{registry.CapBufferOps},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.BufferOps.CloseOtherBuffers()
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.buffer_next", Name: "buffer-next", Aliases: []string{"bn", "bnext"},
		RequiredCaps: []registry.Capability{registry.CapBufferOps},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.BufferOps.NextBuffer()
			return registry.CommandOutcome{}, nil
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.buffer_previous", Name: "buffer-previous", Aliases: []string{"bp", "bprev"},
		RequiredCaps: []registry.Capability{registry.CapBufferOps},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.BufferOps.PrevBuffer()
			return registry.CommandOutcome{}, nil
		},
	})
}
