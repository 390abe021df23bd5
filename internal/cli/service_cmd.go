package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/output"
	"github.com/stacksjs/launchpad/internal/service"
)

func (a *App) newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"services"},
		Short:   "Manage background services (databases, caches, web servers)",
	}

	type action struct {
		use, short, done string
		run              func(*service.Manager, context.Context, string) error
	}
	actions := []action{
		{"start", "Start a service", "Started", (*service.Manager).Start},
		{"stop", "Stop a service", "Stopped", (*service.Manager).Stop},
		{"restart", "Restart a service", "Restarted", (*service.Manager).Restart},
		{"enable", "Start a service automatically at login", "Enabled", (*service.Manager).Enable},
		{"disable", "Stop starting a service at login", "Disabled", (*service.Manager).Disable},
	}
	for _, act := range actions {
		cmd.AddCommand(&cobra.Command{
			Use:   act.use + " <service>",
			Short: act.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := a.serviceManager(cmd)
				if err != nil {
					return err
				}
				if err := act.run(m, a.context(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ %s %s\n", act.done, args[0])
				return nil
			},
		})
	}

	cmd.AddCommand(a.newServiceListCmd(), a.newServiceStatusCmd())
	return cmd
}

func (a *App) newServiceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available services and their last known state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.serviceManager(cmd)
			if err != nil {
				return err
			}
			listed, err := m.List()
			if err != nil {
				return err
			}
			records := make(map[string]service.Record, len(listed))
			for _, l := range listed {
				records[l.Name] = l.Record
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %-18s %-6s %-9s %s\n", "NAME", "DISPLAY", "PORT", "STATUS", "ENABLED")
			for _, def := range service.All() {
				rec, ok := records[def.Name]
				status := "-"
				if ok && rec.Status != "" {
					status = string(rec.Status)
				}
				fmt.Fprintf(out, "%-12s %-18s %-6d %-9s %t\n", def.Name, def.DisplayName, def.Port, status, rec.Enabled)
			}
			return nil
		},
	}
}

func (a *App) newServiceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <service>",
		Short: "Query a service's state and run its health check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.serviceManager(cmd)
			if err != nil {
				return err
			}
			ctx := a.context(cmd)
			rec, err := m.Status(ctx, args[0])
			if err != nil {
				return err
			}
			healthy, err := m.Health(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", args[0], rec.Status)
			fmt.Fprintf(out, "enabled: %t\n", rec.Enabled)
			if rec.StartedAt != "" {
				fmt.Fprintf(out, "started: %s\n", rec.StartedAt)
			}
			fmt.Fprintf(out, "healthy: %t\n", healthy)
			return nil
		},
	}
}

// serviceManager는 config에서 서비스 디렉토리와 유닛 옵션을 읽어 Manager를 만든다.
func (a *App) serviceManager(cmd *cobra.Command) (*service.Manager, error) {
	cfg, signals, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	dataHome := a.dataHome(cfg, signals)
	data, logs, conf := cfg.ServiceDirs(dataHome)

	platform := a.Platform
	if platform == "" {
		platform = service.CurrentPlatform()
	}
	console := output.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Options{Verbose: cfg.Verbose})

	return &service.Manager{
		Commander: a.Commander,
		Fs:        a.fs(),
		Platform:  platform,
		Paths:     service.Paths{DataDir: data, LogDir: logs, ConfigDir: conf},
		Home:      a.Home,
		StatePath: filepath.Join(dataHome, service.StateFileName),
		Unit: service.UnitOptions{
			AutoRestart:     cfg.Services.AutoRestart,
			StartupTimeout:  cfg.Services.StartupTimeout,
			ShutdownTimeout: cfg.Services.ShutdownTimeout,
		},
		Logger: console.Logger(),
	}, nil
}
