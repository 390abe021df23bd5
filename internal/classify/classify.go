// Package classify splits sniffed requirements into local and global
// install sets of canonical "project@constraint" strings.
package classify

import (
	"strings"

	"github.com/stacksjs/launchpad/internal/sniff"
)

// Wildcard는 제약이 없거나 비정상일 때 사용하는 버전 제약이다.
const Wildcard = "*"

// artifactPrefixes는 값이 문자열로 잘못 직렬화되었을 때 나타나는 접두사다.
var artifactPrefixes = []string{"[object", "map[", "&{", "{", "["}

// NormalizeConstraint는 버전 제약을 정규화한다.
// 빈 문자열이나 객체가 문자열화된 값(예: "[object Object]", "map[...]")은 Wildcard가 된다.
func NormalizeConstraint(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return Wildcard
	}
	for _, p := range artifactPrefixes {
		if strings.HasPrefix(c, p) {
			return Wildcard
		}
	}
	return c
}

// Spec은 "project@constraint" 형식의 설치 문자열을 만든다.
func Spec(r sniff.Requirement) string {
	return strings.TrimSpace(r.Project) + "@" + NormalizeConstraint(r.Constraint)
}

// Classify는 요구사항을 local/global 설치 문자열로 나눈다.
// skipGlobal이면 global 요구사항도 local로 강등한다.
// 이름이 빈 요구사항과 중복은 버린다(먼저 나온 것이 우선).
func Classify(reqs []sniff.Requirement, skipGlobal bool) (local, global []string) {
	seen := make(map[string]bool)
	for _, r := range reqs {
		if strings.TrimSpace(r.Project) == "" {
			continue
		}
		spec := Spec(r)
		if seen[spec] {
			continue
		}
		seen[spec] = true
		if r.Global && !skipGlobal {
			global = append(global, spec)
		} else {
			local = append(local, spec)
		}
	}
	return local, global
}

// GlobalOnly는 요구사항 중 global 표시된 것만 남긴다.
// 홈 디렉토리 등 보조 위치의 manifest는 global 선언만 기여한다.
func GlobalOnly(reqs []sniff.Requirement) []sniff.Requirement {
	var out []sniff.Requirement
	for _, r := range reqs {
		if r.Global {
			out = append(out, r)
		}
	}
	return out
}
