// Package sniff detects a project's dependency manifest and turns it into
// package requirements plus declared environment variables.
package sniff

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
)

// Requirement은 manifest에 선언된 하나의 패키지 요구사항이다.
type Requirement struct {
	Project    string
	Constraint string
	Global     bool
}

// EnvVar는 manifest에 선언된 환경변수 하나다. 선언 순서를 유지하기 위해 map 대신 사용한다.
type EnvVar struct {
	Key   string
	Value string
}

// Result는 sniff 결과다.
type Result struct {
	// File은 읽은 manifest 경로다. manifest가 없으면 빈 문자열이다.
	File     string
	Packages []Requirement
	Env      []EnvVar
}

// Empty는 선언된 패키지와 환경변수가 모두 없는지 확인한다.
func (r Result) Empty() bool {
	return len(r.Packages) == 0 && len(r.Env) == 0
}

// Sniffer는 디렉토리의 manifest를 해석하는 외부 협력자 계약이다.
type Sniffer interface {
	Sniff(ctx context.Context, dir string) (Result, error)
}

// ManifestNames는 인식하는 manifest 파일 이름이다. 앞쪽이 우선한다.
var ManifestNames = []string{
	"dependencies.yaml", "dependencies.yml",
	"deps.yaml", "deps.yml",
	"pkgx.yaml", "pkgx.yml",
	".pkgx.yaml", ".pkgx.yml",
	"launchpad.yaml", "launchpad.yml",
	".launchpad.yaml", ".launchpad.yml",
}

// FindManifest는 dir 바로 아래에서 첫 번째 manifest 파일을 찾는다.
func FindManifest(fs afero.Fs, dir string) (string, bool) {
	for _, name := range ManifestNames {
		path := filepath.Join(dir, name)
		info, err := fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
