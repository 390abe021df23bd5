package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/stacksjs/launchpad/internal/cmdexec"
	"github.com/stacksjs/launchpad/internal/config"
	"github.com/stacksjs/launchpad/internal/setup"
	"github.com/stacksjs/launchpad/internal/shell"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// Options는 RunAll이 검사할 환경이다.
type Options struct {
	Commander cmdexec.Commander
	Fs        afero.Fs
	Installer string
	DataHome  string
	CfgPath   string
	Shell     string
	RCPath    string
	Path      string
}

// CheckBinaries는 패키지 설치 명령과 bash 존재 여부를 확인한다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander, installer string) []DiagResult {
	binaries := []struct {
		name    string
		args    []string
		install string
		status  Status
	}{
		{installer, []string{"--version"}, "https://pkgx.sh", StatusFail},
		{"bash", []string{"--version"}, "install bash with your system package manager", StatusWarn},
	}

	var results []DiagResult
	for _, b := range binaries {
		path, err := cmd.LookPath(b.name)
		if err != nil {
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  b.status,
				Message: fmt.Sprintf("%s not found in PATH", b.name),
				Fix:     fmt.Sprintf("install: %s", b.install),
			})
			continue
		}
		out, err := cmd.Run(ctx, path, b.args...)
		if err != nil {
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  StatusWarn,
				Message: fmt.Sprintf("%s found at %s but %s failed", b.name, path, strings.Join(b.args, " ")),
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    b.name,
			Status:  StatusOK,
			Message: firstLine(out),
		})
	}
	return results
}

// CheckDataHome은 데이터 홈이 쓰기 가능한지 확인한다.
// 아직 없으면 첫 활성화 때 생성되므로 경고만 한다.
func CheckDataHome(fs afero.Fs, dataHome string) DiagResult {
	ok, err := afero.DirExists(fs, dataHome)
	if err != nil || !ok {
		return DiagResult{
			Name:    "data_home",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s does not exist yet", dataHome),
			Fix:     "it is created on the first `launchpad dev`",
		}
	}
	f, err := afero.TempFile(fs, dataHome, ".doctor-*")
	if err != nil {
		return DiagResult{
			Name:    "data_home",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s is not writable", dataHome),
			Fix:     fmt.Sprintf("chmod u+w %s", dataHome),
		}
	}
	name := f.Name()
	f.Close()
	_ = fs.Remove(name)
	return DiagResult{
		Name:    "data_home",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s is writable", dataHome),
	}
}

// CheckConfig는 config 파일 파싱과 권한을 확인한다.
func CheckConfig(cfgPath string) DiagResult {
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		return DiagResult{
			Name:    "config",
			Status:  StatusOK,
			Message: "no config file, using defaults",
		}
	}
	if _, err := config.Load(cfgPath); err != nil {
		return DiagResult{
			Name:    "config",
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     fmt.Sprintf("fix or remove %s", cfgPath),
		}
	}
	if err := config.ValidateFilePermissions(cfgPath); err != nil {
		return DiagResult{
			Name:    "config",
			Status:  StatusWarn,
			Message: err.Error(),
			Fix:     fmt.Sprintf("chmod 600 %s", cfgPath),
		}
	}
	return DiagResult{
		Name:    "config",
		Status:  StatusOK,
		Message: cfgPath,
	}
}

// CheckShellHook은 rc 파일에 hook이 설치되었는지 확인한다.
func CheckShellHook(fs afero.Fs, shellType, rcPath string) DiagResult {
	if rcPath == "" {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("unsupported shell %q", shellType),
			Fix:     "use zsh or bash, or eval `launchpad dev --shell` manually",
		}
	}
	if !setup.HookInstalled(fs, rcPath) {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("hook not installed in %s", rcPath),
			Fix:     "launchpad setup",
		}
	}
	return DiagResult{
		Name:    "shell_hook",
		Status:  StatusOK,
		Message: fmt.Sprintf("hook installed in %s", rcPath),
	}
}

// CheckPath는 PATH에 시스템 디렉토리가 있는지 확인한다.
func CheckPath(pathEnv string) DiagResult {
	entries := filepath.SplitList(pathEnv)
	var missing []string
	for _, dir := range []string{"/usr/bin", "/bin"} {
		if !slices.Contains(entries, dir) {
			missing = append(missing, dir)
		}
	}
	if len(missing) > 0 {
		return DiagResult{
			Name:    "path",
			Status:  StatusWarn,
			Message: fmt.Sprintf("PATH is missing %s", strings.Join(missing, ", ")),
			Fix:     fmt.Sprintf("export PATH=\"$PATH:%s\"", shell.MinimalPath),
		}
	}
	return DiagResult{
		Name:    "path",
		Status:  StatusOK,
		Message: "system directories present",
	}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, opts Options) []DiagResult {
	var results []DiagResult
	results = append(results, CheckBinaries(ctx, opts.Commander, opts.Installer)...)
	results = append(results, CheckConfig(opts.CfgPath))
	results = append(results, CheckDataHome(opts.Fs, opts.DataHome))
	results = append(results, CheckShellHook(opts.Fs, opts.Shell, opts.RCPath))
	results = append(results, CheckPath(opts.Path))
	return results
}

// Failed는 결과 중 FAIL이 있는지 보고한다.
func Failed(results []DiagResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
