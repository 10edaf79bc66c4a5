package stdactions

import (
	"github.com/rowan-editor/rowan/internal/keys"
	"github.com/rowan-editor/rowan/internal/registry"
)

// The language-server actions: each handler only enqueues the request
// through LspAccess and returns; the response lands on the editor
// loop's result queue and surfaces as a popup, navigation, or edit.
func init() {
	lspAction("hover", func(l registry.LspAccess) { l.RequestHover() })
	lspAction("completion", func(l registry.LspAccess) { l.RequestCompletion() })
	lspAction("signature_help", func(l registry.LspAccess) { l.RequestSignatureHelp() })
	lspAction("goto_definition", func(l registry.LspAccess) { l.GotoDefinition() })
	lspAction("references", func(l registry.LspAccess) { l.FindReferences() })
	lspAction("format_document", func(l registry.LspAccess) { l.FormatDocument() })
	lspAction("code_action", func(l registry.LspAccess) { l.RequestCodeActions() })

	registry.RegisterAction(&registry.Action{
		ID: "action.inlay_hints", Name: "inlay_hints",
		RequiredCaps: []registry.Capability{registry.CapLsp, registry.CapCursor, registry.CapText},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			row, _ := ctx.Caps.Text.RowCol(ctx.Cursor)
			start := row - 50
			if start < 0 {
				start = 0
			}
			ctx.Caps.Lsp.RequestInlayHints(start, row+50)
			return registry.Ok()
		},
	})

	registry.RegisterCommand(&registry.Command{
		ID: "command.format", Name: "format", Aliases: []string{"fmt"},
		RequiredCaps: []registry.Capability{registry.CapLsp},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.Lsp.FormatDocument()
			return registry.CommandOutcome{}, nil
		},
	})
	registry.RegisterCommand(&registry.Command{
		ID: "command.definition", Name: "definition", Aliases: []string{"def"},
		RequiredCaps: []registry.Capability{registry.CapLsp},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.Lsp.GotoDefinition()
			return registry.CommandOutcome{}, nil
		},
	})
	registry.RegisterCommand(&registry.Command{
		ID: "command.references", Name: "references", Aliases: []string{"refs"},
		RequiredCaps: []registry.Capability{registry.CapLsp},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.Lsp.FindReferences()
			return registry.CommandOutcome{}, nil
		},
	})
	registry.RegisterCommand(&registry.Command{
		ID: "command.code_action", Name: "code-action", Aliases: []string{"ca"},
		RequiredCaps: []registry.Capability{registry.CapLsp},
		Handler: func(ctx registry.CommandContext) (registry.CommandOutcome, error) {
			ctx.Caps.Lsp.RequestCodeActions()
			return registry.CommandOutcome{}, nil
		},
	})

	// Space-prefixed pickers plus goto-mode jumps; completion is bound
	// in Insert mode where typing happens. The space key can't go
	// through bind's space-separated sequence syntax, so these register
	// their key lists directly.
	bindSeq(keys.ModeNormal, "space_k", []string{" ", "k"}, "hover")
	bindSeq(keys.ModeNormal, "space_a", []string{" ", "a"}, "code_action")
	bindSeq(keys.ModeNormal, "space_s", []string{" ", "s"}, "signature_help")
	bindSeq(keys.ModeNormal, "space_f", []string{" ", "f"}, "format_document")
	bindSeq(keys.ModeNormal, "space_h", []string{" ", "h"}, "inlay_hints")
	bind(keys.ModeNormal, "g d", "goto_definition")
	bind(keys.ModeNormal, "g r", "references")
	bind(keys.ModeInsert, "ctrl+n", "completion")
}

func bindSeq(mode keys.Mode, slug string, seq []string, action string) {
	registry.RegisterKeybinding(&registry.Keybinding{
		ID:     "keybinding." + string(mode) + "." + slug,
		Mode:   string(mode),
		Keys:   seq,
		Action: action,
	})
}

func lspAction(name string, run func(registry.LspAccess)) {
	registry.RegisterAction(&registry.Action{
		ID: "action." + name, Name: name,
		RequiredCaps: []registry.Capability{registry.CapLsp},
		Handler: func(ctx registry.ActionContext) registry.ActionResult {
			run(ctx.Caps.Lsp)
			return registry.Ok()
		},
	})
}
