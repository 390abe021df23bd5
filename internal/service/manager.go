package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/stacksjs/launchpad/internal/cmdexec"
)

// Manager는 launchd/systemd를 통해 서비스를 시작하고 멈춘다.
type Manager struct {
	Commander cmdexec.Commander
	Fs        afero.Fs
	Platform  Platform
	Paths     Paths
	Home      string
	StatePath string
	Unit      UnitOptions
	Logger    *log.Logger
	Now       func() time.Time
}

// Listing은 상태 파일에 등록된 서비스 하나다.
type Listing struct {
	Name   string
	Record Record
}

// Start는 디렉토리와 설정을 준비하고 유닛을 기록한 뒤 서비스를 시작한다.
// 데이터 디렉토리가 비어 있으면 초기화 명령을 먼저 실행한다.
func (m *Manager) Start(ctx context.Context, name string) error {
	def, err := m.resolve(name)
	if err != nil {
		return fmt.Errorf("service.Start: %w", err)
	}
	state, err := LoadState(m.Fs, m.StatePath)
	if err != nil {
		return fmt.Errorf("service.Start: %w", err)
	}
	rec, _ := state.Get(def.Name)

	if err := m.prepare(ctx, def); err != nil {
		return fmt.Errorf("service.Start: %s: %w", def.Name, err)
	}
	unitPath, err := m.writeUnit(def, rec.Enabled)
	if err != nil {
		return fmt.Errorf("service.Start: %s: %w", def.Name, err)
	}

	var runErr error
	switch m.Platform {
	case PlatformDarwin:
		_, runErr = m.Commander.Run(ctx, "launchctl", "load", "-w", unitPath)
	case PlatformLinux:
		if _, runErr = m.systemctl(ctx, "daemon-reload"); runErr == nil {
			_, runErr = m.systemctl(ctx, "start", UnitName(def.Name))
		}
	}
	if runErr != nil {
		rec.Status = StatusFailed
		state.Set(def.Name, rec)
		_ = state.Save(m.Fs, m.StatePath)
		return fmt.Errorf("service.Start: %s: %w", def.Name, runErr)
	}

	rec.Status = StatusRunning
	rec.StartedAt = m.now().Format(time.RFC3339)
	state.Set(def.Name, rec)
	m.logger().Debug("service started", "name", def.Name, "unit", unitPath)
	return state.Save(m.Fs, m.StatePath)
}

// Stop은 서비스를 멈춘다. 등록된 적 없는 서비스는 아무 것도 하지 않는다.
func (m *Manager) Stop(ctx context.Context, name string) error {
	def, err := m.resolve(name)
	if err != nil {
		return fmt.Errorf("service.Stop: %w", err)
	}
	state, err := LoadState(m.Fs, m.StatePath)
	if err != nil {
		return fmt.Errorf("service.Stop: %w", err)
	}
	rec, registered := state.Get(def.Name)
	unitPath, err := UnitPath(m.Platform, m.Home, def.Name)
	if err != nil {
		return fmt.Errorf("service.Stop: %w", err)
	}
	if exists, _ := afero.Exists(m.Fs, unitPath); !registered && !exists {
		return nil
	}

	switch m.Platform {
	case PlatformDarwin:
		_, err = m.Commander.Run(ctx, "launchctl", "unload", unitPath)
	case PlatformLinux:
		_, err = m.systemctl(ctx, "stop", UnitName(def.Name))
	}
	if err != nil {
		return fmt.Errorf("service.Stop: %s: %w", def.Name, err)
	}

	rec.Status = StatusStopped
	rec.PID = 0
	state.Set(def.Name, rec)
	return state.Save(m.Fs, m.StatePath)
}

// Restart는 Stop 후 Start한다.
func (m *Manager) Restart(ctx context.Context, name string) error {
	if err := m.Stop(ctx, name); err != nil {
		return err
	}
	return m.Start(ctx, name)
}

// Enable은 로그인 시 자동 시작되도록 유닛을 등록한다.
func (m *Manager) Enable(ctx context.Context, name string) error {
	return m.setEnabled(ctx, name, true)
}

// Disable은 자동 시작 등록을 해제한다.
func (m *Manager) Disable(ctx context.Context, name string) error {
	return m.setEnabled(ctx, name, false)
}

func (m *Manager) setEnabled(ctx context.Context, name string, enabled bool) error {
	def, err := m.resolve(name)
	if err != nil {
		return fmt.Errorf("service.setEnabled: %w", err)
	}
	state, err := LoadState(m.Fs, m.StatePath)
	if err != nil {
		return fmt.Errorf("service.setEnabled: %w", err)
	}
	rec, registered := state.Get(def.Name)
	if !enabled && !registered {
		return nil
	}
	if _, err := m.writeUnit(def, enabled); err != nil {
		return fmt.Errorf("service.setEnabled: %s: %w", def.Name, err)
	}

	if m.Platform == PlatformLinux {
		action := "disable"
		if enabled {
			action = "enable"
		}
		if _, err := m.systemctl(ctx, "daemon-reload"); err != nil {
			return fmt.Errorf("service.setEnabled: %s: %w", def.Name, err)
		}
		if _, err := m.systemctl(ctx, action, UnitName(def.Name)); err != nil {
			return fmt.Errorf("service.setEnabled: %s: %w", def.Name, err)
		}
	}

	rec.Enabled = enabled
	if rec.Status == "" {
		rec.Status = StatusStopped
	}
	state.Set(def.Name, rec)
	return state.Save(m.Fs, m.StatePath)
}

// Status는 서비스 관리자에게 현재 상태를 묻고 상태 파일을 갱신한다.
func (m *Manager) Status(ctx context.Context, name string) (Record, error) {
	def, err := m.resolve(name)
	if err != nil {
		return Record{}, fmt.Errorf("service.Status: %w", err)
	}
	state, err := LoadState(m.Fs, m.StatePath)
	if err != nil {
		return Record{}, fmt.Errorf("service.Status: %w", err)
	}
	rec, _ := state.Get(def.Name)

	switch m.Platform {
	case PlatformDarwin:
		if _, err := m.Commander.Run(ctx, "launchctl", "list", Label(def.Name)); err != nil {
			rec.Status = StatusStopped
		} else {
			rec.Status = StatusRunning
		}
	case PlatformLinux:
		out, _ := m.systemctl(ctx, "is-active", UnitName(def.Name))
		rec.Status = systemdStatus(strings.TrimSpace(string(out)))
	}
	rec.LastCheckedAt = m.now().Format(time.RFC3339)
	state.Set(def.Name, rec)
	if err := state.Save(m.Fs, m.StatePath); err != nil {
		return rec, err
	}
	return rec, nil
}

// Health는 정의된 health check 명령을 서비스 환경변수와 함께 실행해 기대 종료 코드와 비교한다.
// health check가 없는 서비스는 항상 정상으로 본다.
func (m *Manager) Health(ctx context.Context, name string) (bool, error) {
	def, err := m.resolve(name)
	if err != nil {
		return false, fmt.Errorf("service.Health: %w", err)
	}
	hc := def.HealthCheck
	if hc == nil || len(hc.Command) == 0 {
		return true, nil
	}
	if hc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(hc.Timeout)*time.Second)
		defer cancel()
	}
	_, runErr := m.Commander.RunWithEnv(ctx, def.Env, hc.Command[0], hc.Command[1:]...)
	code := exitCode(runErr)
	m.logger().Debug("health check", "name", def.Name, "exit", code, "want", hc.ExpectedExitCode)
	return code == hc.ExpectedExitCode, nil
}

// List는 상태 파일에 등록된 서비스를 이름 순으로 반환한다.
func (m *Manager) List() ([]Listing, error) {
	state, err := LoadState(m.Fs, m.StatePath)
	if err != nil {
		return nil, fmt.Errorf("service.List: %w", err)
	}
	var out []Listing
	for _, name := range state.Names() {
		out = append(out, Listing{Name: name, Record: state.Services[name]})
	}
	return out, nil
}

func (m *Manager) resolve(name string) (Definition, error) {
	def, ok := Lookup(name)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	if !m.Platform.Supported() {
		return Definition{}, fmt.Errorf("%s: %w", m.Platform, ErrPlatformNotSupported)
	}
	return Resolve(def, m.Paths), nil
}

// prepare는 디렉토리와 기본 설정 파일을 만들고 필요하면 초기화 명령을 실행한다.
func (m *Manager) prepare(ctx context.Context, def Definition) error {
	dirs := []string{m.Paths.LogDir, filepath.Dir(def.LogFile)}
	if def.DataDirectory != "" {
		dirs = append(dirs, def.DataDirectory)
	}
	if def.ConfigFile != "" {
		dirs = append(dirs, filepath.Dir(def.ConfigFile))
	}
	if def.PidFile != "" {
		dirs = append(dirs, filepath.Dir(def.PidFile))
	}
	for _, dir := range dirs {
		if err := m.Fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if def.ConfigFile != "" {
		exists, err := afero.Exists(m.Fs, def.ConfigFile)
		if err != nil {
			return err
		}
		if content, ok := DefaultConfig(def, m.Paths); ok && !exists {
			if err := afero.WriteFile(m.Fs, def.ConfigFile, []byte(content), 0644); err != nil {
				return err
			}
		}
	}

	if len(def.InitCommand) > 0 && def.DataDirectory != "" {
		empty, err := afero.IsEmpty(m.Fs, def.DataDirectory)
		if err != nil {
			return err
		}
		if empty {
			m.logger().Info("Initializing service data", "name", def.Name, "dir", def.DataDirectory)
			if out, err := m.Commander.RunWithEnv(ctx, def.Env, def.InitCommand[0], def.InitCommand[1:]...); err != nil {
				return fmt.Errorf("init: %w: %s", err, strings.TrimSpace(string(out)))
			}
		}
	}
	return nil
}

func (m *Manager) writeUnit(def Definition, enabled bool) (string, error) {
	path, err := UnitPath(m.Platform, m.Home, def.Name)
	if err != nil {
		return "", err
	}
	opts := m.Unit
	opts.Enabled = enabled
	if opts.WorkingDir == "" {
		opts.WorkingDir = def.DataDirectory
	}
	content, err := RenderUnit(m.Platform, def, opts)
	if err != nil {
		return "", err
	}
	if err := m.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(m.Fs, path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Manager) systemctl(ctx context.Context, args ...string) ([]byte, error) {
	return m.Commander.Run(ctx, "systemctl", append([]string{"--user"}, args...)...)
}

func (m *Manager) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return log.New(io.Discard)
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func systemdStatus(state string) Status {
	switch state {
	case "active", "activating", "reloading":
		return StatusRunning
	case "failed":
		return StatusFailed
	case "inactive", "deactivating":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// exitCode는 명령 에러에서 종료 코드를 꺼낸다. 종료 코드가 없는 실패는 -1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}
