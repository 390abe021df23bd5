// Package prefix describes the on-disk install layout: one prefix per project
// plus a shared global prefix, each with bin/sbin/lib directories.
package prefix

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// AppName은 데이터 디렉토리 아래 사용하는 애플리케이션 디렉토리 이름이다.
const AppName = "launchpad"

// globalName은 전역 prefix의 디렉토리 이름이다.
const globalName = "global"

// Layout은 prefix들이 위치하는 데이터 홈을 나타낸다.
type Layout struct {
	DataHome string
}

// Local은 프로젝트 식별자에 해당하는 prefix를 반환한다.
func (l Layout) Local(hash string) Prefix {
	return Prefix{Root: filepath.Join(l.DataHome, hash)}
}

// Global은 전역 prefix를 반환한다.
func (l Layout) Global() Prefix {
	return Prefix{Root: filepath.Join(l.DataHome, globalName)}
}

// Prefix는 하나의 패키지 설치 루트다.
type Prefix struct {
	Root string
}

// BinDir은 prefix의 bin 디렉토리 경로다.
func (p Prefix) BinDir() string { return filepath.Join(p.Root, "bin") }

// SbinDir은 prefix의 sbin 디렉토리 경로다.
func (p Prefix) SbinDir() string { return filepath.Join(p.Root, "sbin") }

// Installed는 bin 디렉토리가 존재하는지 확인한다.
// bin 디렉토리 존재 여부만이 "설치됨" 신호이며 root 아래 다른 내용은 보지 않는다.
func (p Prefix) Installed(fs afero.Fs) bool {
	return dirExists(fs, p.BinDir())
}

// ExistingBinDirs는 존재하는 bin, sbin 디렉토리를 순서대로 반환한다.
func (p Prefix) ExistingBinDirs(fs afero.Fs) []string {
	var dirs []string
	for _, d := range []string{p.BinDir(), p.SbinDir()} {
		if dirExists(fs, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// ResolveDataHome은 데이터 홈 경로를 결정한다.
// 우선순위: override(LAUNCHPAD_HOME) > configured > $XDG_DATA_HOME/launchpad > ~/.local/share/launchpad.
func ResolveDataHome(override, configured string, getenv func(string) string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home := getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir() // 실패 시 상대 경로로 동작
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func dirExists(fs afero.Fs, path string) bool {
	ok, err := afero.DirExists(fs, path)
	return err == nil && ok
}
