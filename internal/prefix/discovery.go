package prefix

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DiscoveryPolicy는 prefix 안에서 라이브러리 디렉토리를 찾는 규칙이다.
//
// 탐색 순서: root의 lib 디렉토리, 그 다음 <root>/<domain>/<version>/<lib>.
// domain은 Exclude에 없는 하위 디렉토리, version은 VersionPrefix로 시작하는 디렉토리다.
type DiscoveryPolicy struct {
	Exclude       map[string]bool
	VersionPrefix string
	LibNames      []string
}

// DefaultDiscovery는 기본 탐색 규칙이다.
var DefaultDiscovery = DiscoveryPolicy{
	Exclude: map[string]bool{
		"bin": true, "sbin": true, "lib": true, "lib64": true,
		"share": true, "include": true, "etc": true,
		"pkgs": true, ".tmp": true, ".cache": true,
	},
	VersionPrefix: "v",
	LibNames:      []string{"lib", "lib64"},
}

// LibDirs는 주어진 root들에서 라이브러리 디렉토리를 발견 순서대로 중복 없이 반환한다.
// 디렉토리 읽기 오류는 무시한다.
func (p DiscoveryPolicy) LibDirs(fs afero.Fs, roots ...string) []string {
	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if seen[dir] || !dirExists(fs, dir) {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	for _, root := range roots {
		if root == "" {
			continue
		}
		for _, name := range p.LibNames {
			add(filepath.Join(root, name))
		}
		for _, domain := range p.subdirs(fs, root) {
			if p.Exclude[domain] {
				continue
			}
			domainDir := filepath.Join(root, domain)
			for _, version := range p.subdirs(fs, domainDir) {
				if !strings.HasPrefix(version, p.VersionPrefix) {
					continue
				}
				for _, name := range p.LibNames {
					add(filepath.Join(domainDir, version, name))
				}
			}
		}
	}
	return dirs
}

func (p DiscoveryPolicy) subdirs(fs afero.Fs, dir string) []string {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
