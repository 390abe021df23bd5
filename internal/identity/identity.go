// Package identity derives the stable project identifier used to namespace
// per-project install prefixes on disk.
package identity

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// rootName은 base name이 없는 경로(빈 문자열, ".", "/")에 사용하는 이름이다.
const rootName = "root"

// Identify는 디렉토리 경로를 "<base>_<hex8>" 형식의 식별자로 변환한다.
// 같은 경로는 항상 같은 식별자를 갖는다. 경로 존재 여부는 확인하지 않는다.
func Identify(path string) string {
	clean := path
	if clean != "" {
		clean = filepath.Clean(clean)
	}
	sum := xxhash.Sum64String(clean)
	return fmt.Sprintf("%s_%08x", baseName(clean), uint32(sum>>32))
}

// baseName은 파일시스템에 안전한 base name을 반환한다.
func baseName(path string) string {
	base := filepath.Base(path)
	if path == "" || base == "." || base == string(filepath.Separator) {
		return rootName
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, base)
}
