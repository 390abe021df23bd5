// Package output routes human-readable messages through an explicit policy
// so that shell-integration runs keep stdout clean for the activation script.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Stream은 메시지가 향하는 출력 스트림이다.
type Stream int

const (
	// Stdout은 표준 출력이다.
	Stdout Stream = iota
	// Stderr는 표준 에러다.
	Stderr
)

// String은 스트림 이름을 반환한다.
func (s Stream) String() string {
	if s == Stdout {
		return "stdout"
	}
	return "stderr"
}

// Policy는 (stream, message) 쌍을 통과시킬지 결정한다.
type Policy interface {
	Allow(s Stream, msg string) bool
}

// PolicyFunc는 함수를 Policy로 사용하기 위한 어댑터다.
type PolicyFunc func(s Stream, msg string) bool

// Allow는 f(s, msg)를 호출한다.
func (f PolicyFunc) Allow(s Stream, msg string) bool { return f(s, msg) }

// PassThrough는 모든 메시지를 통과시킨다.
var PassThrough Policy = PolicyFunc(func(Stream, string) bool { return true })

// progressMarkers는 셸 통합 모드에서도 보여줄 진행 상태 표시다.
var progressMarkers = []string{"🔄", "⬇️", "🔧", "✅", "⚠️", "❌", "%", "bytes"}

// ShellIntegration은 셸 hook 실행 중 사용하는 정책이다.
// 진행 상태 표시가 있는 메시지만 통과시킨다.
var ShellIntegration Policy = PolicyFunc(func(_ Stream, msg string) bool {
	for _, m := range progressMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
})

// filteredWriter는 Write 단위로 Policy를 적용한다.
// 걸러진 쓰기도 성공으로 보고해서 호출자가 오류로 취급하지 않게 한다.
type filteredWriter struct {
	w      io.Writer
	stream Stream
	policy Policy
}

func (f *filteredWriter) Write(p []byte) (int, error) {
	if !f.policy.Allow(f.stream, string(p)) {
		return len(p), nil
	}
	if _, err := f.w.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Options는 Console 생성 옵션이다.
type Options struct {
	// Policy가 nil이면 PassThrough를 사용한다.
	Policy  Policy
	Verbose bool
	// ShellOutput이면 사람이 읽는 출력도 stderr로 보낸다. stdout은 스크립트 전용이다.
	ShellOutput bool
}

// Console은 정책이 적용된 출력 대상과 로거를 묶는다.
type Console struct {
	out    io.Writer
	err    io.Writer
	logger *log.Logger
}

// NewConsole은 Console을 생성한다.
func NewConsole(stdout, stderr io.Writer, opts Options) *Console {
	policy := opts.Policy
	if policy == nil {
		policy = PassThrough
	}
	human := stdout
	if opts.ShellOutput {
		human = stderr
	}
	c := &Console{
		out: &filteredWriter{w: human, stream: Stdout, policy: policy},
		err: &filteredWriter{w: stderr, stream: Stderr, policy: policy},
	}
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	c.logger = log.NewWithOptions(c.err, log.Options{
		Prefix: "launchpad",
		Level:  level,
	})
	return c
}

// Discard는 아무것도 출력하지 않는 Console이다.
func Discard() *Console {
	return NewConsole(io.Discard, io.Discard, Options{})
}

// Logger는 정책이 적용된 stderr로 기록하는 로거를 반환한다.
func (c *Console) Logger() *log.Logger { return c.logger }

// Writer는 정책이 적용된 스트림 writer를 반환한다.
func (c *Console) Writer(s Stream) io.Writer {
	if s == Stdout {
		return c.out
	}
	return c.err
}

// Println은 메시지 한 줄을 출력한다.
func (c *Console) Println(s Stream, msg string) {
	fmt.Fprintln(c.Writer(s), msg)
}

// Printf는 형식화된 메시지를 출력한다.
func (c *Console) Printf(s Stream, format string, args ...any) {
	fmt.Fprintf(c.Writer(s), format, args...)
}

// Progress는 외부 설치 프로그램의 출력 한 줄을 stderr로 전달한다.
func (c *Console) Progress(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	c.Println(Stderr, line)
}
