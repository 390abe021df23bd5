package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/activate"
	"github.com/stacksjs/launchpad/internal/install"
	"github.com/stacksjs/launchpad/internal/output"
	"github.com/stacksjs/launchpad/internal/prefix"
	"github.com/stacksjs/launchpad/internal/shell"
	"github.com/stacksjs/launchpad/internal/sniff"
)

// installRetryDelay는 설치 재시도 간격이다.
const installRetryDelay = 2 * time.Second

type devFlags struct {
	shell  bool
	dryRun bool
	quiet  bool
}

func (a *App) newDevCmd() *cobra.Command {
	var f devFlags

	cmd := &cobra.Command{
		Use:   "dev [dir]",
		Short: "Activate the development environment for a project directory",
		Long: `Reads the dependency file in dir (default: current directory), installs the
declared packages into the project's environment and activates it.

With --shell the activation script is printed to stdout for eval:

  eval "$(launchpad dev --shell)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runDev(cmd, dir, f)
		},
	}
	cmd.Flags().BoolVar(&f.shell, "shell", false, "print an activation script for eval")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "show what would be installed")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress status output")
	return cmd
}

func (a *App) runDev(cmd *cobra.Command, dir string, f devFlags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, signals, err := a.loadConfig()
	if err != nil {
		if f.shell {
			fmt.Fprintf(stderr, "⚠️ %v\n", err)
			fmt.Fprint(stdout, shell.Fallback())
			return nil
		}
		return err
	}

	policy := output.PassThrough
	if signals.ShellIntegration {
		policy = output.ShellIntegration
	}
	console := output.NewConsole(stdout, stderr, output.Options{
		Policy:      policy,
		Verbose:     cfg.Verbose,
		ShellOutput: f.shell,
	})

	command, args := cfg.Installer.Command, cfg.Installer.Args
	if command == "" {
		command = install.DefaultCommand
	}
	if len(args) == 0 {
		args = install.DefaultArgs
	}

	engine := &activate.Engine{
		Fs:           a.fs(),
		Layout:       prefix.Layout{DataHome: a.dataHome(cfg, signals)},
		Sniffer:      &sniff.YAMLSniffer{Fs: a.fs()},
		SniffTimeout: cfg.SniffTimeout,
		Installer: &install.CommandInstaller{
			Commander:  a.Commander,
			Command:    command,
			Args:       args,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: installRetryDelay,
			Timeout:    cfg.Timeout,
			Progress:   console.Progress,
		},
		Console: console,
		Stdout:  stdout,
		Home:    a.Home,
		Messages: activate.Messages{
			Show:         cfg.IsShowShellMessages(),
			Activation:   cfg.ShellActivationMessage,
			Deactivation: cfg.ShellDeactivationMessage,
		},
	}

	return engine.Run(a.context(cmd), dir, activate.Options{
		ShellOutput:      f.shell,
		DryRun:           f.dryRun,
		Quiet:            f.quiet,
		ShellIntegration: signals.ShellIntegration,
		SkipGlobal:       cfg.SkipGlobalScan,
	})
}

func (a *App) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
