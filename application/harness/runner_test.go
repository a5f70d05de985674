package harness_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopqa/application/commands"
	"shopqa/application/harness"
	"shopqa/domain/entities"
	bt "shopqa/infrastructure/browser/browsertest"
	"shopqa/infrastructure/config"
	"shopqa/infrastructure/security"
)

const base = "https://shop.test"

// reporter stands in for the outer *testing.T
type reporter struct {
	mu     sync.Mutex
	errors []string
	logs   []string
}

func (r *reporter) Helper() {}

func (r *reporter) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *reporter) Logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

type memHistory struct {
	results []entities.TestResult
}

func (h *memHistory) AppendHistory(r entities.TestResult) error {
	h.results = append(h.results, r)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.BaseURL = base
	cfg.Timeouts.Command = 200 * time.Millisecond
	cfg.Timeouts.PageLoad = 200 * time.Millisecond
	cfg.Timeouts.PollInterval = 10 * time.Millisecond
	cfg.Artifacts.ScreenshotsDir = t.TempDir()
	return cfg
}

func newRunner(t *testing.T, shop *bt.Shop, failOn ...string) (*harness.Runner, *[]harness.Failure) {
	cfg := testConfig(t)
	r := harness.NewRunner(cfg, shop, nil, security.NewExceptionPolicy(failOn, nil), nil, nil)
	var failures []harness.Failure
	r.OnFail = func(f harness.Failure) { failures = append(failures, f) }
	return r, &failures
}

func TestRun_PassingTestResetsStateFirst(t *testing.T) {
	shop := bt.NewShop(base)
	runner, failures := newRunner(t, shop)
	history := &memHistory{}
	runner.History = history
	rep := &reporter{}

	result := runner.Run(rep, "home page loads", func(s *harness.Session) {
		s.Pages.Home().Visit().VerifyHomePageLoaded()
	})

	assert.Equal(t, entities.TestStatusPassed, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.NotEmpty(t, result.ID)
	assert.Empty(t, *failures)
	assert.Empty(t, rep.errors)
	require.Len(t, history.results, 1)
	assert.Equal(t, "home page loads", history.results[0].Title)

	calls := shop.Calls()
	require.GreaterOrEqual(t, len(calls), 4)
	assert.Equal(t, []string{"clearCookies", "clearStorage", "viewport 1280x720", "goto /"}, calls[:4])
}

func TestRun_FailingTestIsRetriedAndReported(t *testing.T) {
	shop := bt.NewShop(base)
	runner, failures := newRunner(t, shop)
	rep := &reporter{}

	var reachedEnd bool
	result := runner.Run(rep, "missing banner", func(s *harness.Session) {
		s.Pages.Home().Visit().WaitForElement("#no-such-banner", 50*time.Millisecond)
		reachedEnd = true
	})

	assert.False(t, reachedEnd)
	assert.Equal(t, entities.TestStatusFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Contains(t, result.Error, "#no-such-banner")

	require.Len(t, *failures, 3)
	assert.Equal(t, 2, (*failures)[1].Attempt)
	assert.NotEmpty(t, (*failures)[0].Trace)
	assert.Equal(t, base+"/", (*failures)[0].URL)

	shots := shop.Screenshots()
	require.Len(t, shots, 3)
	assert.True(t, strings.HasSuffix(shots[0], "failed-missing-banner.png"), shots[0])
	assert.True(t, strings.HasSuffix(shots[2], "failed-missing-banner-attempt-3.png"), shots[2])
	assert.Equal(t, shots, result.Screenshots)

	require.Len(t, rep.errors, 1)
	assert.Contains(t, rep.errors[0], "failed after 3 attempt(s)")
}

func TestRun_FlakyTestPassesOnRetry(t *testing.T) {
	shop := bt.NewShop(base)
	runner, failures := newRunner(t, shop)
	rep := &reporter{}

	attempts := 0
	result := runner.Run(rep, "flaky", func(s *harness.Session) {
		attempts++
		if attempts == 1 {
			s.T.Fatalf("first attempt fails")
		}
	})

	assert.Equal(t, entities.TestStatusPassed, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Len(t, *failures, 1)
	assert.Empty(t, rep.errors)
}

func TestRun_InteractiveUsesOpenModeRetries(t *testing.T) {
	shop := bt.NewShop(base)
	runner, _ := newRunner(t, shop)
	runner.Config.Interactive = true

	result := runner.Run(&reporter{}, "always fails", func(s *harness.Session) {
		s.T.Fatalf("nope")
	})

	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "nope", result.Error)
}

func TestRun_PageExceptionsIgnoredByDefault(t *testing.T) {
	shop := bt.NewShop(base)
	runner, _ := newRunner(t, shop)

	result := runner.Run(&reporter{}, "noisy page", func(s *harness.Session) {
		home := s.Pages.Home().Visit()
		shop.Emit("Uncaught ReferenceError: gtag is not defined")
		home.VerifyHomePageLoaded()
	})

	assert.Equal(t, entities.TestStatusPassed, result.Status)
	require.Len(t, result.Ignored, 1)
	assert.Contains(t, result.Ignored[0].Message, "gtag")
}

func TestRun_PageExceptionFailsWhenConfigured(t *testing.T) {
	shop := bt.NewShop(base)
	runner, failures := newRunner(t, shop, "TypeError")
	runner.Config.Retries.RunMode = 0

	result := runner.Run(&reporter{}, "broken cart script", func(s *harness.Session) {
		s.Pages.Home().Visit()
		shop.Emit("Uncaught TypeError: cart is null")
		s.Pages.Cart().Visit()
	})

	assert.Equal(t, entities.TestStatusFailed, result.Status)
	assert.Contains(t, result.Error, "uncaught page exception: Uncaught TypeError: cart is null")
	require.Len(t, *failures, 1)
	assert.ErrorIs(t, (*failures)[0].Err, harness.ErrPageException)
}

func TestRun_PanicInBodyFailsAttempt(t *testing.T) {
	shop := bt.NewShop(base)
	runner, _ := newRunner(t, shop)
	runner.Config.Retries.RunMode = 0

	result := runner.Run(&reporter{}, "panics", func(s *harness.Session) {
		var m map[string]int
		m["x"]++
	})

	assert.Equal(t, entities.TestStatusFailed, result.Status)
	assert.Contains(t, result.Error, "panic: assignment to entry in nil map")
}

func TestRun_ErrorfKeepsBodyRunning(t *testing.T) {
	shop := bt.NewShop(base)
	runner, _ := newRunner(t, shop)
	runner.Config.Retries.RunMode = 0

	var after bool
	result := runner.Run(&reporter{}, "soft failure", func(s *harness.Session) {
		s.T.Errorf("soft %d", 1)
		after = s.T.Failed()
	})

	assert.True(t, after)
	assert.Equal(t, "soft 1", result.Error)
}

func TestSession_RunsCommands(t *testing.T) {
	shop := bt.NewShop(base)
	runner, _ := newRunner(t, shop)

	result := runner.Run(&reporter{}, "login command", func(s *harness.Session) {
		s.Run("login", bt.DefaultUser.Email, bt.DefaultUser.Password)
		s.Pages.Home().VerifyLoggedInAs(bt.DefaultUser.FirstName)
	})

	assert.Equal(t, entities.TestStatusPassed, result.Status, result.Error)
	assert.Equal(t, bt.DefaultUser.Email, shop.LoggedIn())
}

func TestSession_RunsProjectCommands(t *testing.T) {
	shop := bt.NewShop(base)
	registry, err := commands.WithBuiltins(map[string]commands.Handler{
		"verifyFeaturedItems": func(ctx context.Context, env *commands.Env, _ commands.Args) (any, error) {
			return nil, env.Doc.Get(".features_items").ShouldExist(ctx)
		},
	})
	require.NoError(t, err)

	runner := harness.NewRunner(testConfig(t), shop, nil, security.NewExceptionPolicy(nil, nil), registry, nil)
	result := runner.Run(&reporter{}, "project command", func(s *harness.Session) {
		s.Run("login", bt.DefaultUser.Email, bt.DefaultUser.Password)
		s.Run("verifyFeaturedItems")
	})

	assert.Equal(t, entities.TestStatusPassed, result.Status, result.Error)
	assert.Equal(t, bt.DefaultUser.Email, shop.LoggedIn())
}

func TestSession_UnknownCommandFails(t *testing.T) {
	shop := bt.NewShop(base)
	runner, _ := newRunner(t, shop)
	runner.Config.Retries.RunMode = 0

	result := runner.Run(&reporter{}, "typo", func(s *harness.Session) {
		s.Run("logn")
	})

	assert.Equal(t, entities.TestStatusFailed, result.Status)
	assert.Contains(t, result.Error, "logn")
}
