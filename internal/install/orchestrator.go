package install

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/stacksjs/launchpad/internal/output"
	"github.com/stacksjs/launchpad/internal/prefix"
)

// Sets는 한 번의 활성화에서 설치할 local/global 패키지 집합이다.
type Sets struct {
	Local        []string
	Global       []string
	LocalPrefix  prefix.Prefix
	GlobalPrefix prefix.Prefix
}

// Options는 설치 출력과 동작을 조정한다.
type Options struct {
	Quiet            bool
	ShellIntegration bool
	DryRun           bool
}

// Report는 InstallSets 결과다.
type Report struct {
	GlobalInstalled bool
	LocalInstalled  bool
	Errors          []error
}

// Failed는 설치 실패가 있었는지 확인한다.
func (r Report) Failed() bool { return len(r.Errors) > 0 }

// Orchestrator는 global, local 순서로 패키지 집합을 설치한다.
type Orchestrator struct {
	Installer Installer
	Fs        afero.Fs
	Console   *output.Console
}

// InstallSets는 global 집합을 먼저, 그 다음 local 집합을 설치한다.
// 집합마다 한 번만 시도하며 실패는 Report에 기록하고 다음 집합으로 진행한다.
// 에러를 반환하지 않는다. 호출자는 결과와 상관없이 스크립트 생성을 계속한다.
func (o *Orchestrator) InstallSets(ctx context.Context, sets Sets, opts Options) Report {
	var rep Report
	if len(sets.Global) > 0 {
		rep.GlobalInstalled = o.installSet(ctx, "global", sets.Global, sets.GlobalPrefix, opts, &rep)
	}
	if len(sets.Local) > 0 {
		rep.LocalInstalled = o.installSet(ctx, "local", sets.Local, sets.LocalPrefix, opts, &rep)
	}
	return rep
}

func (o *Orchestrator) installSet(ctx context.Context, kind string, pkgs []string, p prefix.Prefix, opts Options, rep *Report) bool {
	con := o.console()
	if opts.DryRun {
		con.Printf(output.Stdout, "Would install %d %s package(s) into %s: %v\n", len(pkgs), kind, p.Root, pkgs)
		return false
	}

	if err := o.safeInstall(ctx, pkgs, p.Root); err != nil {
		rep.Errors = append(rep.Errors, fmt.Errorf("install.InstallSets: %s: %w", kind, err))
		if !opts.Quiet && !opts.ShellIntegration {
			con.Logger().Warn("Failed to install "+kind+" packages", "err", err)
		}
		if !opts.Quiet {
			con.Println(output.Stderr, "⚠️ Environment not ready")
			con.Println(output.Stderr, capitalize(kind)+" packages need installation")
			con.Println(output.Stderr, "Generating minimal shell environment for development")
		}
		return false
	}

	if o.Fs != nil {
		if err := o.Fs.MkdirAll(p.BinDir(), 0755); err != nil {
			rep.Errors = append(rep.Errors, fmt.Errorf("install.InstallSets: %s: %w", kind, err))
			return false
		}
	}
	return true
}

// safeInstall은 Installer의 패닉도 에러로 바꾼다.
func (o *Orchestrator) safeInstall(ctx context.Context, pkgs []string, root string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("installer panic: %v", r)
		}
	}()
	return o.Installer.Install(ctx, pkgs, root)
}

func (o *Orchestrator) console() *output.Console {
	if o.Console == nil {
		return output.Discard()
	}
	return o.Console
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
