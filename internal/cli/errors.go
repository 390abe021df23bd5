package cli

import (
	"github.com/stacksjs/launchpad/internal/activate"
	"github.com/stacksjs/launchpad/internal/config"
	"github.com/stacksjs/launchpad/internal/service"
	"github.com/stacksjs/launchpad/internal/setup"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
	// ErrNotDirectory는 활성화 대상이 디렉토리가 아닐 때의 sentinel error다.
	ErrNotDirectory = activate.ErrNotDirectory
	// ErrInstallIncomplete는 일부 패키지 설치가 실패했을 때의 sentinel error다.
	ErrInstallIncomplete = activate.ErrInstallIncomplete
	// ErrUnsupportedShell은 hook을 만들 수 없는 셸일 때의 sentinel error다.
	ErrUnsupportedShell = setup.ErrUnsupportedShell
	// ErrUnknownService는 정의되지 않은 서비스 이름일 때의 sentinel error다.
	ErrUnknownService = service.ErrUnknownService
	// ErrPlatformNotSupported는 서비스 관리자가 없는 플랫폼일 때의 sentinel error다.
	ErrPlatformNotSupported = service.ErrPlatformNotSupported
)
