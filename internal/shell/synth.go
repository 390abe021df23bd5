package shell

import (
	"regexp"
	"strings"
)

// 스크립트가 관리하는 변수 이름.
const (
	VarOriginalPath = "LAUNCHPAD_ORIGINAL_PATH"
	VarEnvBinPath   = "LAUNCHPAD_ENV_BIN_PATH"
	VarProjectDir   = "LAUNCHPAD_PROJECT_DIR"
	VarProjectHash  = "LAUNCHPAD_PROJECT_HASH"

	// DeactivateFunc는 디렉토리 이동 시 호출되는 비활성화 함수 이름이다.
	DeactivateFunc = "_launchpad_dev_try_bye"
)

// MinimalPath는 PATH가 비어 있을 때 원래 값으로 저장하는 최소 시스템 PATH다.
const MinimalPath = "/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin"

// SystemPaths는 PATH에 항상 있어야 하는 시스템 디렉토리다.
var SystemPaths = []string{"/usr/local/bin", "/usr/bin", "/bin", "/usr/sbin", "/sbin"}

// LibraryVars는 백업 후 덮어쓰는 라이브러리 경로 변수다.
var LibraryVars = []string{"DYLD_LIBRARY_PATH", "DYLD_FALLBACK_LIBRARY_PATH", "LD_LIBRARY_PATH"}

// BackupVar는 변수의 원래 값을 저장하는 변수 이름을 반환한다.
func BackupVar(name string) string { return "LAUNCHPAD_ORIGINAL_" + name }

var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EnvVar는 export할 사용자 정의 변수다.
type EnvVar struct {
	Key   string
	Value string
}

// Activation은 활성화 스크립트 생성 입력이다.
type Activation struct {
	ProjectDir string
	Hash       string

	// Local/Global bin 디렉토리 목록. 디스크에 존재하는 것만 넣는다 (bin, sbin 순).
	LocalBinDirs  []string
	GlobalBinDirs []string
	// LibDirs는 발견 순서(project 먼저)의 라이브러리 디렉토리다.
	LibDirs []string
	Env     []EnvVar

	// EnvBinPath는 LAUNCHPAD_ENV_BIN_PATH로 export할 경로다.
	EnvBinPath string

	ShowMessages        bool
	ActivationMessage   string
	DeactivationMessage string
}

// ValidEnvKey는 export 가능한 사용자 변수 이름인지 확인한다.
// 스크립트가 관리하는 PATH, 라이브러리 경로, LAUNCHPAD_* 변수는 제외한다.
func ValidEnvKey(key string) bool {
	if !envKeyPattern.MatchString(key) || key == "PATH" || strings.HasPrefix(key, "LAUNCHPAD_") {
		return false
	}
	for _, v := range LibraryVars {
		if key == v {
			return false
		}
	}
	return true
}

// Synthesize는 활성화 스크립트를 생성한다.
func Synthesize(a Activation) string {
	s := &Script{}
	s.Comment("Launchpad environment setup for " + a.ProjectDir)

	s.GuardedBackup(VarOriginalPath, "PATH", MinimalPath)

	var segs []Segment
	for _, d := range a.LocalBinDirs {
		segs = append(segs, Lit(d))
	}
	for _, d := range a.GlobalBinDirs {
		segs = append(segs, Lit(d))
	}
	segs = append(segs, Ref(VarOriginalPath))
	s.ExportJoined("PATH", segs...)
	s.EnsureSystemPaths()

	for _, v := range LibraryVars {
		s.BackupIfSet(BackupVar(v), v, VarProjectDir)
	}
	if len(a.LibDirs) > 0 {
		for _, v := range LibraryVars {
			s.ExportPrepend(v, a.LibDirs, BackupVar(v))
		}
	}

	s.Export(VarEnvBinPath, a.EnvBinPath)
	s.Export(VarProjectDir, a.ProjectDir)
	s.Export(VarProjectHash, a.Hash)

	for _, e := range a.Env {
		if !ValidEnvKey(e.Key) {
			continue
		}
		s.Export(e.Key, e.Value)
	}

	if a.ShowMessages && a.ActivationMessage != "" {
		s.Echo(strings.ReplaceAll(a.ActivationMessage, "{path}", a.ProjectDir))
	}

	s.Blank()
	writeDeactivate(s, a)
	return s.String()
}

// insidePattern은 dir 자신과 모든 하위 경로에 매치되는 case 패턴이다.
// "/proj-other" 같은 접두사만 같은 형제 디렉토리는 매치하지 않는다.
func insidePattern(dir string) string {
	return dq(dir) + "|" + dq(strings.TrimSuffix(dir, "/")) + "/*"
}

func writeDeactivate(s *Script, a Activation) {
	s.Func(DeactivateFunc, func(s *Script) {
		s.Block(`case "$PWD" in`, "esac", func(s *Script) {
			s.Line(insidePattern(a.ProjectDir) + ") return 0 ;;")
		})

		s.If(`[[ -n "${`+VarOriginalPath+`-}" ]]`, func(s *Script) {
			s.Line(`export PATH="$` + VarOriginalPath + `"`)
		})
		for _, v := range LibraryVars {
			b := BackupVar(v)
			s.IfElse(`[[ -n "${`+b+`+x}" ]]`,
				func(s *Script) { s.Line("export " + v + `="$` + b + `"`) },
				func(s *Script) { s.Line("unset " + v) },
			)
		}

		unset := []string{VarEnvBinPath, VarProjectDir, VarProjectHash, VarOriginalPath}
		for _, v := range LibraryVars {
			unset = append(unset, BackupVar(v))
		}
		s.Line("unset " + strings.Join(unset, " "))

		if a.ShowMessages && a.DeactivationMessage != "" {
			s.Echo(a.DeactivationMessage)
		}
		s.Line("unset -f " + DeactivateFunc)
	})
}

// Fallback은 활성화 파이프라인 전체가 실패했을 때 출력하는 최소 스크립트다.
// 시스템 디렉토리를 PATH에 보장하고 명령 해시 테이블을 비운다.
func Fallback() string {
	s := &Script{}
	s.Comment("Launchpad fallback environment")
	s.EnsureSystemPaths()
	s.Line("hash -r 2>/dev/null || true")
	return s.String()
}
