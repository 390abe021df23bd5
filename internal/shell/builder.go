package shell

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Segment은 ':'로 연결되는 값의 한 조각이다.
type Segment struct {
	text string
	ref  bool
}

// Lit은 리터럴 경로 조각이다.
func Lit(s string) Segment { return Segment{text: s} }

// Ref는 변수 참조 조각이다.
func Ref(name string) Segment { return Segment{text: name, ref: true} }

func (s Segment) render() string {
	if s.ref {
		return "$" + s.text
	}
	return escapeDQ(s.text)
}

// escapeDQ는 큰따옴표 안에서 문자 그대로 해석되도록 escape한다.
func escapeDQ(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '"', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func dq(s string) string { return `"` + escapeDQ(s) + `"` }

// quote는 값을 셸 단어로 quote한다. quote할 수 없는 값(null byte 등)은 ok=false다.
func quote(s string) (string, bool) {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "", false
	}
	return q, true
}

// Script는 셸 스크립트를 한 줄씩 조립한다.
type Script struct {
	b     strings.Builder
	depth int
}

// Line은 현재 들여쓰기로 한 줄을 추가한다.
func (s *Script) Line(line string) *Script {
	if line != "" {
		s.b.WriteString(strings.Repeat("  ", s.depth))
		s.b.WriteString(line)
	}
	s.b.WriteByte('\n')
	return s
}

// Blank는 빈 줄을 추가한다.
func (s *Script) Blank() *Script { return s.Line("") }

// Comment는 주석 줄을 추가한다.
func (s *Script) Comment(text string) *Script {
	for _, l := range strings.Split(text, "\n") {
		s.Line("# " + l)
	}
	return s
}

// Block은 open/end 줄 사이에 들여쓴 본문을 추가한다.
func (s *Script) Block(open, end string, body func(*Script)) *Script {
	s.Line(open)
	s.depth++
	body(s)
	s.depth--
	return s.Line(end)
}

// If는 if 블록을 추가한다.
func (s *Script) If(cond string, body func(*Script)) *Script {
	return s.Block("if "+cond+"; then", "fi", body)
}

// IfElse는 if/else 블록을 추가한다.
func (s *Script) IfElse(cond string, then, otherwise func(*Script)) *Script {
	s.Line("if " + cond + "; then")
	s.depth++
	then(s)
	s.depth--
	s.Line("else")
	s.depth++
	otherwise(s)
	s.depth--
	return s.Line("fi")
}

// Func는 셸 함수 정의를 추가한다.
func (s *Script) Func(name string, body func(*Script)) *Script {
	return s.Block(name+"() {", "}", body)
}

// GuardedBackup은 source의 현재 값을 backup에 한 번만 저장한다.
// 빈 backup은 미저장으로 보고, source가 비어 있으면 fallback을 저장한다.
func (s *Script) GuardedBackup(backup, source, fallback string) *Script {
	return s.If(`[[ -z "${`+backup+`:-}" ]]`, func(s *Script) {
		s.Line("export " + backup + `="${` + source + ":-" + escapeDQ(fallback) + `}"`)
	})
}

// BackupIfSet은 marker가 선언되지 않았고 source가 set일 때만 source를 backup에 저장한다.
// backup의 set 여부가 곧 source의 원래 set 여부가 되므로 빈 문자열도 그대로 복원된다.
func (s *Script) BackupIfSet(backup, source, marker string) *Script {
	return s.If(`[[ -z "${`+marker+`+x}" && -n "${`+source+`+x}" ]]`, func(s *Script) {
		s.Line("export " + backup + `="$` + source + `"`)
	})
}

// ExportJoined는 segment들을 ':'로 연결해 export한다.
func (s *Script) ExportJoined(key string, segs ...Segment) *Script {
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = seg.render()
	}
	return s.Line("export " + key + `="` + strings.Join(parts, ":") + `"`)
}

// ExportPrepend는 dirs를 backup 값 앞에 붙여 export한다.
// backup이 비어 있으면 뒤에 ':'가 남지 않는다.
func (s *Script) ExportPrepend(key string, dirs []string, backup string) *Script {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = escapeDQ(d)
	}
	return s.Line("export " + key + `="` + strings.Join(parts, ":") + "${" + backup + ":+:$" + backup + `}"`)
}

// Export는 값을 quote해서 export한다. quote할 수 없는 값이면 false를 반환하고 아무것도 쓰지 않는다.
func (s *Script) Export(key, value string) bool {
	q, ok := quote(value)
	if !ok {
		return false
	}
	s.Line("export " + key + "=" + q)
	return true
}

// Echo는 메시지를 stderr로 출력하는 줄을 추가한다.
func (s *Script) Echo(msg string) *Script {
	q, ok := quote(msg)
	if !ok {
		return s
	}
	return s.Line("echo " + q + " >&2")
}

// EnsureSystemPaths는 PATH에 없는 시스템 디렉토리를 뒤에 덧붙인다.
func (s *Script) EnsureSystemPaths() *Script {
	s.Block("for _launchpad_sys_path in "+strings.Join(SystemPaths, " ")+"; do", "done", func(s *Script) {
		s.If(`[[ ":${PATH-}:" != *":${_launchpad_sys_path}:"* && -d "${_launchpad_sys_path}" ]]`, func(s *Script) {
			s.Line(`export PATH="${PATH:+$PATH:}${_launchpad_sys_path}"`)
		})
	})
	return s.Line("unset _launchpad_sys_path")
}

// String은 조립된 스크립트를 반환한다.
func (s *Script) String() string { return s.b.String() }

// Validate는 스크립트가 bash 문법으로 파싱되는지 확인한다.
func Validate(script string) error {
	p := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := p.Parse(strings.NewReader(script), "activation"); err != nil {
		return err
	}
	return nil
}
