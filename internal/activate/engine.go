// Package activate runs the environment activation pipeline: fast-path gate,
// manifest sniffing, classification, installation and script synthesis.
package activate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/stacksjs/launchpad/internal/classify"
	"github.com/stacksjs/launchpad/internal/identity"
	"github.com/stacksjs/launchpad/internal/install"
	"github.com/stacksjs/launchpad/internal/output"
	"github.com/stacksjs/launchpad/internal/prefix"
	"github.com/stacksjs/launchpad/internal/shell"
	"github.com/stacksjs/launchpad/internal/sniff"
)

var (
	// ErrNotDirectory는 활성화 대상이 디렉토리가 아닐 때의 sentinel error다.
	ErrNotDirectory = errors.New("not a directory")
	// ErrInstallIncomplete는 셸 출력 모드가 아닐 때 일부 패키지 설치가 실패했음을 나타낸다.
	ErrInstallIncomplete = errors.New("package installation incomplete")
)

// Options는 한 번의 활성화 실행 옵션이다.
type Options struct {
	// ShellOutput이면 stdout에 활성화 스크립트를 출력하고 실패해도 에러를 반환하지 않는다.
	ShellOutput bool
	DryRun      bool
	Quiet       bool
	// ShellIntegration은 셸 hook에서 호출된 저지연 모드다.
	ShellIntegration bool
	SkipGlobal       bool
}

// Messages는 스크립트에 포함되는 활성화/비활성화 안내 문구다.
type Messages struct {
	Show         bool
	Activation   string
	Deactivation string
}

// Engine은 활성화 파이프라인이다.
type Engine struct {
	Fs           afero.Fs
	Layout       prefix.Layout
	Sniffer      sniff.Sniffer
	SniffTimeout time.Duration
	Installer    install.Installer
	// Discovery가 zero value면 prefix.DefaultDiscovery를 사용한다.
	Discovery prefix.DiscoveryPolicy
	Console   *output.Console
	// Stdout은 활성화 스크립트를 받는다.
	Stdout io.Writer
	// Home은 전역 manifest 자동 탐색 기준 디렉토리다. 비어 있으면 탐색하지 않는다.
	Home     string
	Messages Messages
}

// target은 한 번의 실행에서 계산되는 프로젝트 정보다.
type target struct {
	dir    string
	hash   string
	local  prefix.Prefix
	global prefix.Prefix
}

// Run은 dir에 대한 활성화 파이프라인을 실행한다.
//
// ShellOutput 모드에서는 어떤 에러나 패닉이 나더라도 stdout에 최소 fallback 스크립트를
// 쓰고 nil을 반환한다. 그 외 모드에서는 에러를 그대로 반환한다.
func (e *Engine) Run(ctx context.Context, dir string, opts Options) (err error) {
	if !opts.ShellOutput {
		err = e.run(ctx, dir, opts)
		if err != nil {
			e.console().Logger().Debug("activation failed", "dir", dir, "err", err)
		}
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			e.console().Logger().Debug("activation panicked", "dir", dir, "panic", r)
			e.writeFallback()
			err = nil
		}
	}()
	if runErr := e.run(ctx, dir, opts); runErr != nil {
		e.console().Logger().Debug("activation failed, emitting fallback", "dir", dir, "err", runErr)
		e.writeFallback()
	}
	return nil
}

func (e *Engine) run(ctx context.Context, dir string, opts Options) error {
	tg, err := e.resolve(dir)
	if err != nil {
		return err
	}
	con := e.console()
	con.Logger().Debug("activating", "dir", tg.dir, "hash", tg.hash)

	manifest, found := sniff.FindManifest(e.Fs, tg.dir)
	if !found {
		if !opts.ShellOutput {
			con.Println(output.Stdout, "No dependency file found")
			return nil
		}
		return e.emit(tg, nil)
	}

	// gate (a): 셸 hook에서 이미 설치된 prefix가 있으면 sniff/설치 없이 바로 생성한다.
	// 설치된 버전이 manifest 제약을 만족하는지는 다시 확인하지 않는다.
	if opts.ShellOutput && opts.ShellIntegration && (tg.local.Installed(e.Fs) || tg.global.Installed(e.Fs)) {
		con.Logger().Debug("fast path", "local", tg.local.Root)
		return e.emit(tg, nil)
	}

	adapter := &sniff.Adapter{Sniffer: e.Sniffer, Timeout: e.SniffTimeout, Logger: con.Logger()}
	res := adapter.Sniff(ctx, tg.dir)

	skipGlobal := opts.SkipGlobal || opts.ShellIntegration
	reqs := res.Packages
	if !skipGlobal {
		reqs = append(reqs, e.scanGlobal(ctx, adapter, tg.dir)...)
	}
	localPkgs, globalPkgs := classify.Classify(reqs, skipGlobal)

	// gate (b): 선언된 패키지가 없으면 설치 없이 생성한다.
	if len(localPkgs) == 0 && len(globalPkgs) == 0 {
		if !opts.ShellOutput {
			con.Printf(output.Stdout, "No packages declared in %s\n", manifest)
			return nil
		}
		return e.emit(tg, res.Env)
	}

	var rep install.Report
	if opts.ShellIntegration && tg.local.Installed(e.Fs) {
		con.Logger().Debug("local environment present, skipping install", "dir", tg.dir)
	} else {
		orch := &install.Orchestrator{Installer: e.Installer, Fs: e.Fs, Console: con}
		rep = orch.InstallSets(ctx, install.Sets{
			Local:        localPkgs,
			Global:       globalPkgs,
			LocalPrefix:  tg.local,
			GlobalPrefix: tg.global,
		}, install.Options{Quiet: opts.Quiet, ShellIntegration: opts.ShellIntegration, DryRun: opts.DryRun})
	}

	if opts.ShellOutput {
		return e.emit(tg, res.Env)
	}
	if rep.Failed() {
		return fmt.Errorf("activate.Run: %w: %w", ErrInstallIncomplete, errors.Join(rep.Errors...))
	}
	if !opts.DryRun && !opts.Quiet {
		con.Printf(output.Stdout, "✅ Environment ready for %s (%d local, %d global)\n", tg.dir, len(localPkgs), len(globalPkgs))
	}
	return nil
}

func (e *Engine) resolve(dir string) (target, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return target{}, fmt.Errorf("activate.Run: %w", err)
	}
	ok, err := afero.IsDir(e.Fs, abs)
	if err != nil || !ok {
		return target{}, fmt.Errorf("activate.Run: %s: %w", abs, ErrNotDirectory)
	}
	hash := identity.Identify(abs)
	return target{
		dir:    abs,
		hash:   hash,
		local:  e.Layout.Local(hash),
		global: e.Layout.Global(),
	}, nil
}

// GlobalScanDirs는 전역 선언을 찾는 보조 위치다.
func (e *Engine) GlobalScanDirs() []string {
	if e.Home == "" {
		return nil
	}
	return []string{filepath.Join(e.Home, ".dotfiles"), e.Home}
}

// scanGlobal은 보조 위치 manifest의 global 선언만 모은다.
func (e *Engine) scanGlobal(ctx context.Context, adapter *sniff.Adapter, projectDir string) []sniff.Requirement {
	var reqs []sniff.Requirement
	for _, d := range e.GlobalScanDirs() {
		if d == projectDir {
			continue
		}
		if _, ok := sniff.FindManifest(e.Fs, d); !ok {
			continue
		}
		reqs = append(reqs, classify.GlobalOnly(adapter.Sniff(ctx, d).Packages)...)
	}
	return reqs
}

// emit은 활성화 스크립트를 생성해 stdout에 쓴다.
// 생성된 스크립트가 파싱되지 않으면 fallback 스크립트를 대신 쓴다.
func (e *Engine) emit(tg target, env []sniff.EnvVar) error {
	script := shell.Synthesize(e.activation(tg, env))
	if err := shell.Validate(script); err != nil {
		e.console().Logger().Debug("generated script failed to parse", "err", err)
		script = shell.Fallback()
	}
	if _, err := io.WriteString(e.stdout(), script); err != nil {
		return fmt.Errorf("activate.emit: %w", err)
	}
	return nil
}

func (e *Engine) activation(tg target, env []sniff.EnvVar) shell.Activation {
	discovery := e.Discovery
	if discovery.LibNames == nil {
		discovery = prefix.DefaultDiscovery
	}
	vars := make([]shell.EnvVar, 0, len(env))
	for _, v := range env {
		vars = append(vars, shell.EnvVar{Key: v.Key, Value: v.Value})
	}
	return shell.Activation{
		ProjectDir:          tg.dir,
		Hash:                tg.hash,
		LocalBinDirs:        tg.local.ExistingBinDirs(e.Fs),
		GlobalBinDirs:       tg.global.ExistingBinDirs(e.Fs),
		LibDirs:             discovery.LibDirs(e.Fs, tg.local.Root, tg.global.Root),
		Env:                 vars,
		EnvBinPath:          tg.local.BinDir(),
		ShowMessages:        e.Messages.Show,
		ActivationMessage:   e.Messages.Activation,
		DeactivationMessage: e.Messages.Deactivation,
	}
}

func (e *Engine) writeFallback() {
	_, _ = io.WriteString(e.stdout(), shell.Fallback()) // 쓰기 실패 시 더 할 수 있는 것이 없다
}

func (e *Engine) console() *output.Console {
	if e.Console == nil {
		e.Console = output.Discard()
	}
	return e.Console
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout == nil {
		return io.Discard
	}
	return e.Stdout
}
