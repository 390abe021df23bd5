// Package install installs package sets into prefixes through an external
// installer and absorbs failures so activation can always continue.
package install

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stacksjs/launchpad/internal/cmdexec"
)

// Installer는 패키지 목록을 대상 prefix에 설치하는 외부 협력자 계약이다.
// 이미 설치된 패키지는 설치 프로그램이 감지해야 한다(멱등).
type Installer interface {
	Install(ctx context.Context, packages []string, prefix string) error
}

// 인자 템플릿 placeholder.
const (
	PlaceholderPrefix   = "{prefix}"
	PlaceholderPackages = "{packages}"
)

// DefaultCommand와 DefaultArgs는 기본 설치 명령이다.
var (
	DefaultCommand = "pkgx"
	DefaultArgs    = []string{"install", "--prefix", PlaceholderPrefix, PlaceholderPackages}
)

// CommandInstaller는 외부 명령으로 설치하는 Installer 구현이다.
type CommandInstaller struct {
	Commander cmdexec.Commander
	Command   string
	Args      []string
	// MaxRetries는 최대 시도 횟수다. 1 미만이면 1번 시도한다.
	MaxRetries int
	RetryDelay time.Duration
	// Timeout은 시도 1회의 제한 시간이다. 0이면 제한하지 않는다.
	Timeout time.Duration
	// Progress가 nil이 아니면 명령 출력을 한 줄씩 전달받는다.
	Progress func(line string)
}

var _ Installer = (*CommandInstaller)(nil)

// Install은 설치 명령을 실행한다. 실패하면 RetryDelay 간격으로 재시도한다.
func (c *CommandInstaller) Install(ctx context.Context, packages []string, prefix string) error {
	if len(packages) == 0 {
		return nil
	}
	name := c.Command
	if name == "" {
		name = DefaultCommand
	}
	tmpl := c.Args
	if len(tmpl) == 0 {
		tmpl = DefaultArgs
	}
	args := ExpandArgs(tmpl, prefix, packages)

	attempts := max(c.MaxRetries, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && c.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("install.Install: %w", ctx.Err())
			case <-time.After(c.RetryDelay):
			}
		}
		out, err := c.runOnce(ctx, name, args)
		c.forward(out)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("install.Install: %s %s: %w", name, strings.Join(packages, " "), lastErr)
}

func (c *CommandInstaller) runOnce(ctx context.Context, name string, args []string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return c.Commander.Run(ctx, name, args...)
}

func (c *CommandInstaller) forward(out []byte) {
	if c.Progress == nil || len(out) == 0 {
		return
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		c.Progress(sc.Text())
	}
}

// ExpandArgs는 인자 템플릿의 placeholder를 치환한다.
// {packages}는 패키지마다 하나의 인자로 펼쳐진다.
func ExpandArgs(tmpl []string, prefix string, packages []string) []string {
	args := make([]string, 0, len(tmpl)+len(packages))
	for _, a := range tmpl {
		if a == PlaceholderPackages {
			args = append(args, packages...)
			continue
		}
		args = append(args, strings.ReplaceAll(a, PlaceholderPrefix, prefix))
	}
	return args
}
