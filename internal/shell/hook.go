package shell

import (
	"fmt"
	"strings"
)

// HookMarker는 rc 파일에 hook이 이미 설치되었는지 판별하는 표식이다.
const HookMarker = "launchpad shell integration"

// manifestList는 hook이 존재 여부를 검사하는 manifest 파일 이름 목록이다.
func manifestList(names []string) string {
	return strings.Join(names, " ")
}

// HookSnippet는 셸 디렉토리 변경 hook 스니펫을 반환한다.
// 지원하지 않는 셸이면 빈 문자열을 반환한다.
func HookSnippet(shellType, binary string, manifests []string) string {
	var register string
	switch shellType {
	case "zsh":
		register = `if [[ -z "${chpwd_functions[(r)_launchpad_chpwd]+1}" ]]; then
  chpwd_functions+=(_launchpad_chpwd)
fi`
	case "bash":
		register = `if [[ ";${PROMPT_COMMAND:-};" != *";_launchpad_chpwd;"* ]]; then
  PROMPT_COMMAND="_launchpad_chpwd;${PROMPT_COMMAND:-}"
fi`
	default:
		return ""
	}

	return fmt.Sprintf(`# %[1]s (%[2]s)
_launchpad_has_manifest() {
  local f
  for f in %[3]s; do
    [[ -f "$1/$f" ]] && return 0
  done
  return 1
}

_launchpad_chpwd() {
  [[ -n "${_LAUNCHPAD_ACTIVATING:-}" ]] && return 0
  if typeset -f %[4]s >/dev/null 2>&1; then
    %[4]s
  fi
  if [[ "${%[5]s:-}" != "$PWD" ]] && _launchpad_has_manifest "$PWD"; then
    _LAUNCHPAD_ACTIVATING=1
    eval "$(LAUNCHPAD_SHELL_INTEGRATION=1 %[6]s dev --shell "$PWD")"
    unset _LAUNCHPAD_ACTIVATING
  fi
}
%[7]s
_launchpad_chpwd
`, HookMarker, shellType, manifestList(manifests), DeactivateFunc, VarProjectDir, binary, register)
}
