package sniff

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout은 Adapter의 기본 sniff 제한 시간이다.
const DefaultTimeout = 10 * time.Second

// Adapter는 Sniffer 호출을 감싸 실패를 빈 결과로 바꾼다.
// manifest 문제로 활성화가 중단되어서는 안 되므로 Sniff는 에러를 반환하지 않는다.
type Adapter struct {
	Sniffer Sniffer
	Timeout time.Duration
	// Logger가 nil이 아니면 실패를 debug 레벨로 기록한다.
	Logger *log.Logger
}

type outcome struct {
	res Result
	err error
}

// Sniff는 제한 시간 안에 Sniffer를 호출한다. 에러, 패닉, 시간 초과는 모두 빈 Result가 된다.
func (a *Adapter) Sniff(ctx context.Context, dir string) Result {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("sniff.Adapter: panic: %v", r)}
			}
		}()
		res, err := a.Sniffer.Sniff(ctx, dir)
		done <- outcome{res: res, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: fmt.Errorf("sniff.Adapter: %w", ctx.Err())}
	}

	if out.err != nil {
		if a.Logger != nil {
			a.Logger.Debug("failed to read dependency file", "dir", dir, "err", out.err)
		}
		return Result{}
	}
	return out.res
}
