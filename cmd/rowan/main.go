// Command rowan is the terminal entry point: it parses the one
// positional path argument, applies the TERMINAL_CONFIG feature
// profile, and hands control to the core editor loop. It owns no
// rendering logic of its own.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/limetext/log4go"
	"github.com/spf13/cobra"

	"github.com/rowan-editor/rowan/internal/editor"
	"github.com/rowan-editor/rowan/internal/registry"
	_ "github.com/rowan-editor/rowan/internal/render"
	_ "github.com/rowan-editor/rowan/internal/stdactions"
	_ "github.com/rowan-editor/rowan/internal/terminal"
)

var rootCmd = &cobra.Command{
	Use:   "rowan [path]",
	Short: "rowan - a modal, multi-selection terminal text editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := profileFromEnv(os.Getenv("TERMINAL_CONFIG"))

		if err := registry.FreezeAll(false); err != nil {
			return err
		}
		for _, c := range registry.Actions.Collisions() {
			log4go.Warn("registry collision: %s %q shadowed %s", c.Source, c.Key, c.ShadowedID)
		}

		ed := editor.New()
		registerLanguageServers(ed)
		if err := ed.BindKeymapFromRegistry(); err != nil {
			return err
		}
		if len(args) == 1 {
			if err := ed.ReplaceFocusedWithFile(args[0]); err != nil {
				return err
			}
		}

		os.Stdout.WriteString(profile.Enter())
		defer os.Stdout.WriteString(profile.Exit())
		defer func() {
			// The deferred Exit above still runs after the re-panic, so
			// a crash never leaves the terminal in the alternate screen.
			if r := recover(); r != nil {
				log4go.Error("panic: %v", r)
				panic(r)
			}
		}()

		err := run(ed)
		ed.Shutdown(context.Background())
		return err
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
