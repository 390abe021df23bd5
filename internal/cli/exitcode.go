package cli

import (
	"errors"
)

// ExitCode는 launchpad의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitInstallIncomplete는 패키지 설치 실패다.
	ExitInstallIncomplete ExitCode = 2
	// ExitNotDirectory는 활성화 대상 디렉토리가 없는 경우다.
	ExitNotDirectory ExitCode = 3
	// ExitUnsupported는 지원하지 않는 대상(셸/서비스/플랫폼)이다.
	ExitUnsupported ExitCode = 4
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 5
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrInstallIncomplete):
		return ExitInstallIncomplete
	case errors.Is(err, ErrNotDirectory):
		return ExitNotDirectory
	case errors.Is(err, ErrUnsupportedShell),
		errors.Is(err, ErrUnknownService),
		errors.Is(err, ErrPlatformNotSupported):
		return ExitUnsupported
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitGeneral
	}
}
