package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/config"
	"github.com/stacksjs/launchpad/internal/doctor"
	"github.com/stacksjs/launchpad/internal/install"
	"github.com/stacksjs/launchpad/internal/setup"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	fixStyle  = lipgloss.NewStyle().Faint(true)
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the launchpad installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.runDoctor(cmd)
			return nil
		},
	}
}

func (a *App) runDoctor(cmd *cobra.Command) {
	cfg, signals, err := a.loadConfig()
	if err != nil {
		// config 문제는 CheckConfig가 보고한다.
		cfg = config.Default()
	}

	installer := cfg.Installer.Command
	if installer == "" {
		installer = install.DefaultCommand
	}
	shellType := a.detectShell()

	results := doctor.RunAll(a.context(cmd), doctor.Options{
		Commander: a.Commander,
		Fs:        a.fs(),
		Installer: installer,
		DataHome:  a.dataHome(cfg, signals),
		CfgPath:   a.CfgPath,
		Shell:     shellType,
		RCPath:    setup.ShellRCPath(shellType, a.Home),
		Path:      a.getenv("PATH"),
	})
	printDiagResults(cmd.OutOrStdout(), results)
}

// printDiagResults는 진단 결과 목록을 출력한다.
func printDiagResults(w io.Writer, results []doctor.DiagResult) {
	for _, r := range results {
		fmt.Fprintf(w, "  %s %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "      %s\n", fixStyle.Render("Fix: "+r.Fix))
		}
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return okStyle.Render("[OK]")
	case doctor.StatusWarn:
		return warnStyle.Render("[!!]")
	case doctor.StatusFail:
		return failStyle.Render("[FAIL]")
	default:
		return "[??]"
	}
}
