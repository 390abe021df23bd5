package config

import "strings"

// 환경변수 이름.
const (
	EnvSkipGlobalScan   = "LAUNCHPAD_SKIP_GLOBAL_AUTO_SCAN"
	EnvShellIntegration = "LAUNCHPAD_SHELL_INTEGRATION"
	EnvTestMode         = "LAUNCHPAD_TEST_MODE"
	EnvHome             = "LAUNCHPAD_HOME"
	EnvVerbose          = "LAUNCHPAD_VERBOSE"
)

// Signals는 동작 분기를 결정하는 환경변수 값이다.
type Signals struct {
	SkipGlobalScan   bool
	ShellIntegration bool
	TestMode         bool
	Home             string
	Verbose          bool
}

// ReadSignals는 getenv로 Signals를 읽는다.
// LAUNCHPAD_SHELL_INTEGRATION은 "1"일 때만 켜진다.
func ReadSignals(getenv func(string) string) Signals {
	return Signals{
		SkipGlobalScan:   truthy(getenv(EnvSkipGlobalScan)),
		ShellIntegration: getenv(EnvShellIntegration) == "1",
		TestMode:         truthy(getenv(EnvTestMode)),
		Home:             getenv(EnvHome),
		Verbose:          truthy(getenv(EnvVerbose)),
	}
}

// Apply는 환경변수 신호를 설정 위에 덮어쓴다.
// 테스트 모드에서는 홈 디렉토리의 전역 manifest를 읽지 않는다.
func (s Signals) Apply(cfg *Config) {
	if s.SkipGlobalScan || s.TestMode {
		cfg.SkipGlobalScan = true
	}
	if s.Verbose {
		cfg.Verbose = true
	}
	if s.Home != "" {
		cfg.DataHome = s.Home
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
