package setup

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/stacksjs/launchpad/internal/config"
)

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	Fs         afero.Fs
	CfgPath    string
	Home       string
	Shell      string // 비어있으면 $SHELL에서 감지.
	Binary     string
	FormRunner FormRunner
	Yes        bool // true면 모든 확인을 건너뛴다.
	Out        io.Writer
}

// Result는 setup이 실제로 바꾼 내용이다.
type Result struct {
	Shell       string
	RCPath      string
	HookAdded   bool
	ConfigAdded bool
}

// Run은 셸 hook 설치와 config 템플릿 생성을 수행한다.
func (r *Runner) Run() (*Result, error) {
	shellType, err := r.shellType()
	if err != nil {
		return nil, err
	}
	res := &Result{Shell: shellType, RCPath: ShellRCPath(shellType, r.Home)}

	if HookInstalled(r.Fs, res.RCPath) {
		fmt.Fprintf(r.Out, "Shell integration already present in %s\n", res.RCPath)
	} else {
		ok := r.Yes
		if !ok {
			ok, err = r.FormRunner.RunConfirm(fmt.Sprintf("Add launchpad shell integration to %s?", res.RCPath))
			if err != nil {
				return nil, err
			}
		}
		if ok {
			added, err := InstallShellHook(r.Fs, shellType, res.RCPath, r.Binary)
			if err != nil {
				return nil, err
			}
			res.HookAdded = added
			fmt.Fprintf(r.Out, "✅ Shell integration added to %s\n", res.RCPath)
			fmt.Fprintf(r.Out, "   Restart your shell or run: source %s\n", res.RCPath)
		} else {
			fmt.Fprintln(r.Out, "Skipped shell integration.")
		}
	}

	added, err := r.writeConfigTemplate()
	if err != nil {
		return nil, err
	}
	res.ConfigAdded = added
	if added {
		fmt.Fprintf(r.Out, "Config template written: %s\n", r.CfgPath)
	}
	return res, nil
}

func (r *Runner) shellType() (string, error) {
	shellType := r.Shell
	if shellType == "" {
		shellType = DetectShell()
	}
	if slices.Contains(SupportedShells, shellType) {
		return shellType, nil
	}
	if r.Yes || r.FormRunner == nil {
		return "", fmt.Errorf("setup.Run: %q: %w", shellType, ErrUnsupportedShell)
	}
	selected, err := r.FormRunner.RunShellSelect(SupportedShells)
	if err != nil {
		return "", err
	}
	if !slices.Contains(SupportedShells, selected) {
		return "", fmt.Errorf("setup.Run: %q: %w", selected, ErrUnsupportedShell)
	}
	return selected, nil
}

// writeConfigTemplate은 config 파일이 없을 때만 템플릿을 쓴다 (0600 권한).
func (r *Runner) writeConfigTemplate() (bool, error) {
	if r.CfgPath == "" {
		return false, nil
	}
	exists, err := afero.Exists(r.Fs, r.CfgPath)
	if err != nil {
		return false, fmt.Errorf("setup.writeConfigTemplate: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := r.Fs.MkdirAll(filepath.Dir(r.CfgPath), 0700); err != nil {
		return false, fmt.Errorf("setup.writeConfigTemplate: %w", err)
	}
	if err := afero.WriteFile(r.Fs, r.CfgPath, []byte(config.Template), 0600); err != nil {
		return false, fmt.Errorf("setup.writeConfigTemplate: %w", err)
	}
	return true, nil
}
