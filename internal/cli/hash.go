package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/identity"
	"github.com/stacksjs/launchpad/internal/prefix"
)

func (a *App) newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [dir]",
		Short: "Show the environment identity and prefixes for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("cli.hash: %w", err)
			}
			cfg, signals, err := a.loadConfig()
			if err != nil {
				return err
			}

			layout := prefix.Layout{DataHome: a.dataHome(cfg, signals)}
			hash := identity.Identify(abs)
			local := layout.Local(hash)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "project:   %s\n", abs)
			fmt.Fprintf(out, "hash:      %s\n", hash)
			fmt.Fprintf(out, "local:     %s\n", local.Root)
			fmt.Fprintf(out, "global:    %s\n", layout.Global().Root)
			fmt.Fprintf(out, "installed: %t\n", local.Installed(a.fs()))
			return nil
		},
	}
}
