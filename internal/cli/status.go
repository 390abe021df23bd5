package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/prefix"
	"github.com/stacksjs/launchpad/internal/shell"
)

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the environment active in the current shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}
}

func (a *App) runStatus(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	dir := a.getenv(shell.VarProjectDir)
	if dir == "" {
		fmt.Fprintln(out, "No launchpad environment is active in this shell.")
		return nil
	}
	binPath := a.getenv(shell.VarEnvBinPath)

	fmt.Fprintf(out, "project: %s\n", dir)
	fmt.Fprintf(out, "hash:    %s\n", a.getenv(shell.VarProjectHash))
	if binPath != "" {
		p := prefix.Prefix{Root: filepath.Dir(binPath)}
		fmt.Fprintf(out, "bin:     %s (installed: %t)\n", binPath, p.Installed(a.fs()))
	}
	if orig := a.getenv(shell.VarOriginalPath); orig != "" {
		fmt.Fprintf(out, "restore: PATH=%s\n", orig)
	}
	return nil
}
