package setup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/stacksjs/launchpad/internal/shell"
	"github.com/stacksjs/launchpad/internal/sniff"
)

// ErrUnsupportedShell은 hook 스니펫이 없는 셸일 때 반환된다.
var ErrUnsupportedShell = errors.New("unsupported shell")

// SupportedShells는 hook을 설치할 수 있는 셸 목록이다.
var SupportedShells = []string{"zsh", "bash"}

// DetectShell은 현재 사용자의 셸을 감지한다.
func DetectShell() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

// ShellRCPath는 셸별 RC 파일 경로를 반환한다. 지원하지 않는 셸이면 빈 문자열.
func ShellRCPath(shellType, home string) string {
	switch shellType {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	default:
		return ""
	}
}

// HookInstalled는 rc 파일에 launchpad hook이 있는지 보고한다.
func HookInstalled(fs afero.Fs, rcPath string) bool {
	existing, err := afero.ReadFile(fs, rcPath)
	if err != nil {
		return false
	}
	return strings.Contains(string(existing), shell.HookMarker)
}

// InstallShellHook은 셸 RC 파일에 launchpad hook을 추가한다.
// 이미 설치되어 있으면 건너뛰고 false를 반환한다.
func InstallShellHook(fs afero.Fs, shellType, rcPath, binary string) (bool, error) {
	snippet := shell.HookSnippet(shellType, binary, sniff.ManifestNames)
	if snippet == "" {
		return false, fmt.Errorf("setup.InstallShellHook: %q: %w", shellType, ErrUnsupportedShell)
	}
	if HookInstalled(fs, rcPath) {
		return false, nil
	}

	if err := fs.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
		return false, fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	f, err := fs.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return false, fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n%s", snippet); err != nil {
		return false, fmt.Errorf("setup.InstallShellHook: %w", err)
	}
	return true, nil
}
