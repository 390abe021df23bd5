package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/shell"
	"github.com/stacksjs/launchpad/internal/sniff"
)

func (a *App) newShellcodeCmd() *cobra.Command {
	var shellType string

	cmd := &cobra.Command{
		Use:   "shellcode",
		Short: "Print the shell hook that activates environments on cd",
		Long: `Prints the shell integration snippet. Add it to your rc file with:

  eval "$(launchpad shellcode)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shellType == "" {
				shellType = a.detectShell()
			}
			snippet := shell.HookSnippet(shellType, a.binary(), sniff.ManifestNames)
			if snippet == "" {
				return fmt.Errorf("cli.shellcode: %q: %w", shellType, ErrUnsupportedShell)
			}
			fmt.Fprint(cmd.OutOrStdout(), snippet)
			return nil
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", "shell type (zsh, bash); detected from $SHELL when empty")
	return cmd
}
