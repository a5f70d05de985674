// Package harness runs test bodies against a live browser: it resets client
// state before each attempt, watches uncaught page exceptions, retries failed
// tests and captures failure artifacts.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"shopqa/application/commands"
	"shopqa/application/datagen"
	"shopqa/application/dom"
	"shopqa/application/pages"
	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
	"shopqa/infrastructure/config"
)

// ErrPageException marks an attempt failed by an uncaught page exception
var ErrPageException = errors.New("uncaught page exception")

// Reporter receives the final outcome of a test; *testing.T satisfies it
type Reporter interface {
	Helper()
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
}

// History keeps finished test results
type History interface {
	AppendHistory(result entities.TestResult) error
}

// Failure describes one failed attempt for the diagnostic hook
type Failure struct {
	Title      string
	RunID      string
	Attempt    int
	URL        string
	Err        error
	Screenshot string
	Trace      stack.CallStack
}

// Body is the code of one test
type Body func(s *Session)

// Runner executes tests one at a time on a shared driver
type Runner struct {
	Driver   interfaces.Driver
	API      interfaces.APIClient
	Store    interfaces.StateStore
	Registry *commands.Registry
	Policy   interfaces.ExceptionPolicy
	Config   *config.Config
	Logger   *logrus.Entry
	History  History

	// OnFail is called after every failed attempt, once the screenshot is taken
	OnFail func(Failure)

	mu sync.Mutex
}

// NewRunner wires a runner. A nil registry means the built-in commands only.
func NewRunner(cfg *config.Config, drv interfaces.Driver, api interfaces.APIClient, policy interfaces.ExceptionPolicy, registry *commands.Registry, logger *logrus.Entry) *Runner {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	if registry == nil {
		registry = commands.Builtin()
	}
	r := &Runner{
		Driver:   drv,
		API:      api,
		Registry: registry,
		Policy:   policy,
		Config:   cfg,
		Logger:   logger.WithField("component", "harness"),
	}
	r.OnFail = r.logFailure
	return r
}

// Run executes one test with retries and reports the binary outcome to t
func (r *Runner) Run(t Reporter, title string, body Body) entities.TestResult {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	result := entities.TestResult{
		ID:     uuid.NewString(),
		Title:  title,
		Status: entities.TestStatusRunning,
	}
	log := r.Logger.WithFields(logrus.Fields{"test": title, "run_id": result.ID})
	started := time.Now()

	var lastErr error
	attempts := r.Config.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		result.Attempts = attempt
		err := r.attempt(log.WithField("attempt", attempt), &result, attempt, body)
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		if attempt < attempts {
			log.WithError(err).Warnf("Attempt %d of %d failed, retrying", attempt, attempts)
		}
	}

	result.Duration = time.Since(started)
	if lastErr != nil {
		result.Status = entities.TestStatusFailed
		result.Error = lastErr.Error()
		t.Errorf("%s: failed after %d attempt(s): %v", title, result.Attempts, lastErr)
	} else {
		result.Status = entities.TestStatusPassed
		t.Logf("%s: passed in %d attempt(s)", title, result.Attempts)
	}
	log.WithFields(logrus.Fields{
		"status":   result.Status,
		"attempts": result.Attempts,
		"duration": result.Duration,
	}).Info("Test finished")

	if r.History != nil {
		if err := r.History.AppendHistory(result); err != nil {
			log.WithError(err).Warn("Failed to record test result")
		}
	}
	return result
}

func (r *Runner) attempt(log *logrus.Entry, result *entities.TestResult, attempt int, body Body) error {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if err := r.beforeEach(ctx); err != nil {
		return fmt.Errorf("before each hook: %w", err)
	}

	var (
		excMu   sync.Mutex
		fatal   error
		ignored []entities.PageException
	)
	remove := r.Driver.OnPageError(func(exc entities.PageException) {
		verdict := entities.VerdictIgnore
		if r.Policy != nil {
			verdict = r.Policy.Classify(ctx, exc)
		}

		excMu.Lock()
		defer excMu.Unlock()
		if verdict == entities.VerdictFail {
			if fatal == nil {
				fatal = fmt.Errorf("%w: %s", ErrPageException, exc.Message)
				cancel(fatal)
			}
			return
		}
		log.WithField("exception", exc.Message).Warn("Ignored uncaught page exception")
		ignored = append(ignored, exc)
	})

	t := &attemptT{log: log}
	session := r.session(ctx, t, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				t.panicked(p)
			}
		}()
		body(session)
	}()
	<-done
	remove()

	excMu.Lock()
	err := fatal
	result.Ignored = append(result.Ignored, ignored...)
	excMu.Unlock()

	msg, trace := t.failure()
	if err == nil && msg == "" {
		return nil
	}
	if err == nil {
		err = errors.New(msg)
	}

	failure := Failure{
		Title:   result.Title,
		RunID:   result.ID,
		Attempt: attempt,
		Err:     err,
		Trace:   trace,
	}
	failure.URL, _ = r.Driver.URL(context.Background())

	shot := r.screenshotPath(result.Title, attempt)
	if serr := r.Driver.Screenshot(context.Background(), shot); serr != nil {
		log.WithError(serr).Warn("Failed to capture failure screenshot")
	} else {
		failure.Screenshot = shot
		result.Screenshots = append(result.Screenshots, shot)
	}

	if r.OnFail != nil {
		r.OnFail(failure)
	}
	return err
}

// beforeEach resets client state so attempts never see each other's session
func (r *Runner) beforeEach(ctx context.Context) error {
	return multierr.Combine(
		r.Driver.ClearCookies(ctx),
		r.Driver.ClearStorage(ctx),
		r.Driver.SetViewport(ctx, r.Config.Viewport.Width, r.Config.Viewport.Height),
	)
}

func (r *Runner) session(ctx context.Context, t *attemptT, log *logrus.Entry) *Session {
	doc := dom.NewDocument(r.Driver, dom.Timeouts{
		Command:  r.Config.Timeouts.Command,
		PageLoad: r.Config.Timeouts.PageLoad,
		Interval: r.Config.Timeouts.PollInterval,
	}, log)

	return &Session{
		T:       t,
		Context: ctx,
		Doc:     doc,
		Env: &commands.Env{
			Doc:            doc,
			API:            r.API,
			Store:          r.Store,
			BaseURL:        r.Config.BaseURL,
			ScreenshotsDir: r.Config.Artifacts.ScreenshotsDir,
			Log:            log,
		},
		Commands: r.Registry,
		Data:     datagen.NewRandom(),
		Pages:    pages.NewSite(t, ctx, doc, r.Config.BaseURL),
		Log:      log,
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (r *Runner) screenshotPath(title string, attempt int) string {
	name := strings.Trim(unsafeChars.ReplaceAllString(title, "-"), "-")
	if name == "" {
		name = "test"
	}
	name = "failed-" + name
	if attempt > 1 {
		name = fmt.Sprintf("%s-attempt-%d", name, attempt)
	}
	return filepath.Join(r.Config.Artifacts.ScreenshotsDir, name+".png")
}

func (r *Runner) logFailure(f Failure) {
	r.Logger.WithFields(logrus.Fields{
		"test":       f.Title,
		"run_id":     f.RunID,
		"attempt":    f.Attempt,
		"url":        f.URL,
		"screenshot": f.Screenshot,
		"trace":      fmt.Sprintf("%+v", f.Trace),
	}).WithError(f.Err).Error("Test attempt failed")
}
