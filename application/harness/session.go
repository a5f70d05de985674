package harness

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-stack/stack"
	"github.com/sirupsen/logrus"

	"shopqa/application/commands"
	"shopqa/application/datagen"
	"shopqa/application/dom"
	"shopqa/application/pages"
)

// T is the test handle a body receives. Fatalf ends the body of the current
// attempt only; the runner decides whether to retry.
type T interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
	Failed() bool
}

// Session is everything one attempt of a test body works with
type Session struct {
	T        T
	Context  context.Context
	Doc      *dom.Document
	Env      *commands.Env
	Commands *commands.Registry
	Data     *datagen.Generator
	Pages    *pages.Site
	Log      *logrus.Entry
}

// Run executes a registered command and fails the test on error
func (s *Session) Run(name string, args ...any) any {
	s.T.Helper()
	out, err := s.Commands.Run(s.Context, s.Env, name, args...)
	if err != nil {
		s.T.Fatalf("%v", err)
	}
	return out
}

// attemptT records failures of one attempt
type attemptT struct {
	log *logrus.Entry

	mu     sync.Mutex
	failed bool
	errs   []string
	trace  stack.CallStack
}

func (t *attemptT) Helper() {}

func (t *attemptT) Fatalf(format string, args ...any) {
	t.fail(fmt.Sprintf(format, args...))
	runtime.Goexit()
}

func (t *attemptT) Errorf(format string, args ...any) {
	t.fail(fmt.Sprintf(format, args...))
}

func (t *attemptT) Logf(format string, args ...any) {
	t.log.Infof(format, args...)
}

func (t *attemptT) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func (t *attemptT) fail(msg string) {
	trace := stack.Trace().TrimBelow(stack.Caller(2)).TrimRuntime()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
	t.errs = append(t.errs, msg)
	if t.trace == nil {
		t.trace = trace
	}
}

func (t *attemptT) panicked(p any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
	t.errs = append(t.errs, fmt.Sprintf("panic: %v", p))
	t.trace = stack.Trace().TrimRuntime()
}

func (t *attemptT) failure() (string, stack.CallStack) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.failed {
		return "", nil
	}
	return t.errs[0], t.trace
}
