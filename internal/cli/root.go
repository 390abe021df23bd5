package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/stacksjs/launchpad/internal/cmdexec"
	"github.com/stacksjs/launchpad/internal/config"
	"github.com/stacksjs/launchpad/internal/prefix"
	"github.com/stacksjs/launchpad/internal/service"
	"github.com/stacksjs/launchpad/internal/setup"
)

// App은 CLI 명령이 공유하는 의존성이다. 테스트에서는 필드를 직접 채운다.
type App struct {
	Commander  cmdexec.Commander
	CfgPath    string
	Fs         afero.Fs
	Getenv     func(string) string
	Home       string
	Binary     string
	FormRunner setup.FormRunner
	Platform   service.Platform

	verbose bool
}

// NewApp은 실제 명령 실행기와 OS 파일시스템을 쓰는 App을 생성한다.
func NewApp() *App {
	home := homeDir()
	binary, err := os.Executable()
	if err != nil {
		binary = prefix.AppName
	}
	return &App{
		Commander:  &cmdexec.RealCommander{},
		CfgPath:    filepath.Join(home, ".config", prefix.AppName, "config.toml"),
		Fs:         afero.NewOsFs(),
		Getenv:     os.Getenv,
		Home:       home,
		Binary:     binary,
		FormRunner: &setup.HuhFormRunner{},
		Platform:   service.CurrentPlatform(),
	}
}

// NewRootCmd는 launchpad CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           prefix.AppName,
		Short:         "Per-project development environments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", a.CfgPath, "config file path")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		a.newDevCmd(),
		a.newShellcodeCmd(),
		a.newHashCmd(),
		a.newStatusCmd(),
		a.newDoctorCmd(),
		a.newSetupCmd(),
		a.newServiceCmd(),
	)
	return cmd
}

// loadConfig는 config 파일을 읽고 환경변수 신호를 덮어쓴다.
func (a *App) loadConfig() (*config.Config, config.Signals, error) {
	signals := config.ReadSignals(a.getenv)
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		return nil, signals, err
	}
	signals.Apply(cfg)
	if a.verbose {
		cfg.Verbose = true
	}
	return cfg, signals, nil
}

func (a *App) dataHome(cfg *config.Config, signals config.Signals) string {
	return prefix.ResolveDataHome(signals.Home, cfg.DataHome, a.getenv)
}

func (a *App) getenv(key string) string {
	if a.Getenv == nil {
		return os.Getenv(key)
	}
	return a.Getenv(key)
}

// detectShell은 $SHELL에서 셸 이름을 읽는다.
func (a *App) detectShell() string {
	if sh := a.getenv("SHELL"); sh != "" {
		return filepath.Base(sh)
	}
	return ""
}

func (a *App) fs() afero.Fs {
	if a.Fs == nil {
		return afero.NewOsFs()
	}
	return a.Fs
}

func (a *App) binary() string {
	if a.Binary == "" {
		return prefix.AppName
	}
	return a.Binary
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot determine home directory: %v\n", err)
		return "."
	}
	return home
}
