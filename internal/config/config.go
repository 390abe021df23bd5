package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("config error")

// 기본값.
const (
	DefaultMaxRetries          = 3
	DefaultTimeout             = 60 * time.Second
	DefaultSniffTimeout        = 10 * time.Second
	DefaultActivationMessage   = "✅ Environment activated for {path}"
	DefaultDeactivationMessage = "dev environment deactivated"
)

// Config는 launchpad 설정 파일의 최상위 구조체다.
type Config struct {
	Verbose        bool   `toml:"verbose"`
	DataHome       string `toml:"data_home"`
	SkipGlobalScan bool   `toml:"skip_global_scan"`
	MaxRetries     int    `toml:"max_retries"`

	// Timeout은 설치 시도 1회의 제한 시간이다.
	Timeout      time.Duration `toml:"timeout"`
	SniffTimeout time.Duration `toml:"sniff_timeout"`

	ShowShellMessages        *bool  `toml:"show_shell_messages"`
	ShellActivationMessage   string `toml:"shell_activation_message"`
	ShellDeactivationMessage string `toml:"shell_deactivation_message"`

	Installer Installer `toml:"installer"`
	Services  Services  `toml:"services"`
}

// Installer는 외부 설치 명령 설정이다.
type Installer struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Services는 서비스 관리 설정이다.
type Services struct {
	DataDir         string        `toml:"data_dir"`
	LogDir          string        `toml:"log_dir"`
	ConfigDir       string        `toml:"config_dir"`
	AutoRestart     bool          `toml:"auto_restart"`
	StartupTimeout  time.Duration `toml:"startup_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default는 기본값이 채워진 Config를 반환한다.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load는 config.toml을 파싱하여 Config를 반환한다.
// 파일이 없으면 기본값을 반환한다 (graceful).
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 Config를 TOML 파일로 저장한다 (0600 권한).
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsShowShellMessages는 show_shell_messages 설정값을 반환한다.
func (c *Config) IsShowShellMessages() bool {
	if c.ShowShellMessages == nil {
		return true
	}
	return *c.ShowShellMessages
}

// ServiceDirs는 서비스 데이터/로그/설정 디렉토리를 dataHome 기준으로 채워 반환한다.
func (c *Config) ServiceDirs(dataHome string) (data, logs, conf string) {
	data = expandHome(c.Services.DataDir)
	logs = expandHome(c.Services.LogDir)
	conf = expandHome(c.Services.ConfigDir)
	if data == "" {
		data = filepath.Join(dataHome, "services")
	}
	if logs == "" {
		logs = filepath.Join(dataHome, "logs")
	}
	if conf == "" {
		conf = filepath.Join(dataHome, "services", "config")
	}
	return data, logs, conf
}

func (c *Config) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SniffTimeout == 0 {
		c.SniffTimeout = DefaultSniffTimeout
	}
	if c.ShowShellMessages == nil {
		t := true
		c.ShowShellMessages = &t
	}
	if c.ShellActivationMessage == "" {
		c.ShellActivationMessage = DefaultActivationMessage
	}
	if c.ShellDeactivationMessage == "" {
		c.ShellDeactivationMessage = DefaultDeactivationMessage
	}
	if c.Services.StartupTimeout == 0 {
		c.Services.StartupTimeout = 30 * time.Second
	}
	if c.Services.ShutdownTimeout == 0 {
		c.Services.ShutdownTimeout = 10 * time.Second
	}
	c.DataHome = expandHome(c.DataHome)
}

func (c *Config) validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("config.Load: %w: max_retries는 0 이상이어야 합니다", ErrConfig)
	}
	if c.Timeout < 0 || c.SniffTimeout < 0 {
		return fmt.Errorf("config.Load: %w: timeout은 음수일 수 없습니다", ErrConfig)
	}
	for _, a := range c.Installer.Args {
		if strings.Contains(a, "{packages}") && a != "{packages}" {
			return fmt.Errorf("config.Load: %w: installer.args의 {packages}는 단독 인자여야 합니다", ErrConfig)
		}
	}
	return nil
}

// ValidateFilePermissions는 파일 권한이 0600보다 넓으면 에러를 반환한다.
func ValidateFilePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config.ValidateFilePermissions: %w", err)
	}
	perm := info.Mode().Perm()
	if perm&0077 != 0 {
		return fmt.Errorf("config.ValidateFilePermissions: %s 권한이 %o (0600 필요)", path, perm)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
