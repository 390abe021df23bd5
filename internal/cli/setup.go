package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/setup"
)

func (a *App) newSetupCmd() *cobra.Command {
	var yes bool
	var shellType string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install the shell hook and write a config template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shellType == "" {
				shellType = a.detectShell()
			}
			r := &setup.Runner{
				Fs:         a.fs(),
				CfgPath:    a.CfgPath,
				Home:       a.Home,
				Shell:      shellType,
				Binary:     a.binary(),
				FormRunner: a.FormRunner,
				Yes:        yes,
				Out:        cmd.OutOrStdout(),
			}
			if r.FormRunner == nil {
				r.FormRunner = &setup.HuhFormRunner{}
			}
			if _, err := r.Run(); err != nil {
				return fmt.Errorf("cli.setup: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout())
			a.runDoctor(cmd)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().StringVar(&shellType, "shell", "", "shell to configure (zsh, bash)")
	return cmd
}
