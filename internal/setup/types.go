package setup

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)

	// RunShellSelect는 셸을 감지하지 못했을 때 셸 선택 UI를 표시한다.
	RunShellSelect(shells []string) (string, error)
}
