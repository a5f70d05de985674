// Package dom turns raw selectors into lazily resolved, retrying locators.
package dom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"shopqa/application/wait"
	"shopqa/domain/entities"
	"shopqa/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is the per-attempt error when a query matches nothing
var ErrNotFound = errors.New("no element matched")

// Timeouts bounds every retry loop started from a Document
type Timeouts struct {
	Command  time.Duration
	PageLoad time.Duration
	Interval time.Duration
}

// DefaultTimeouts mirrors the runner defaults
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Command:  10 * time.Second,
		PageLoad: 30 * time.Second,
		Interval: 100 * time.Millisecond,
	}
}

// Document is the entry point for querying the page behind a Driver
type Document struct {
	drv      interfaces.Driver
	timeouts Timeouts
	log      *logrus.Entry
}

// NewDocument wraps a driver. A nil logger discards output.
func NewDocument(drv interfaces.Driver, timeouts Timeouts, log *logrus.Entry) *Document {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	def := DefaultTimeouts()
	if timeouts.Command <= 0 {
		timeouts.Command = def.Command
	}
	if timeouts.PageLoad <= 0 {
		timeouts.PageLoad = def.PageLoad
	}
	if timeouts.Interval <= 0 {
		timeouts.Interval = def.Interval
	}
	return &Document{drv: drv, timeouts: timeouts, log: log}
}

// Driver exposes the underlying runtime
func (d *Document) Driver() interfaces.Driver { return d.drv }

// Timeouts returns the active timeouts
func (d *Document) Timeouts() Timeouts { return d.timeouts }

// WithTimeout returns a document whose commands wait up to timeout instead of the default
func (d *Document) WithTimeout(timeout time.Duration) *Document {
	cp := *d
	if timeout > 0 {
		cp.timeouts.Command = timeout
	}
	return &cp
}

func (d *Document) poll() wait.Options {
	return wait.Options{Interval: d.timeouts.Interval, Timeout: d.timeouts.Command}
}

// Get starts a locator from a CSS selector
func (d *Document) Get(selector string) Locator {
	return Locator{doc: d, query: entities.CSS(selector)}
}

// Contains finds elements matching selector whose text contains text
func (d *Document) Contains(selector, text string) Locator {
	return d.Get(selector).Contains(text)
}

// Frame returns a locator on the body of the iframe matching selector
func (d *Document) Frame(selector string) Locator {
	q := entities.Query{Steps: []entities.Step{
		{Kind: entities.StepFrame, Value: selector},
		{Kind: entities.StepCSS, Value: "body"},
	}}
	return Locator{doc: d, query: q}
}

// Visit navigates and waits until the page has passed its load gate
func (d *Document) Visit(ctx context.Context, url string) error {
	d.log.WithField("url", url).Debug("visit")

	loadCtx, cancel := context.WithTimeout(ctx, d.timeouts.PageLoad)
	defer cancel()
	if err := d.drv.Goto(loadCtx, url); err != nil {
		return fmt.Errorf("visit %s: %w", url, err)
	}
	return d.WaitForPageLoad(ctx)
}

// WaitForPageLoad waits for a visible body
func (d *Document) WaitForPageLoad(ctx context.Context) error {
	return d.WithTimeout(d.timeouts.PageLoad).Get("body").ShouldBeVisible(ctx)
}

// URL returns the current location
func (d *Document) URL(ctx context.Context) (string, error) {
	return d.drv.URL(ctx)
}

// Title returns the document title
func (d *Document) Title(ctx context.Context) (string, error) {
	return d.drv.Title(ctx)
}

// ShouldURLContain waits until the location contains fragment
func (d *Document) ShouldURLContain(ctx context.Context, fragment string) error {
	return d.expectURL(ctx, fmt.Sprintf("include %q", fragment), func(u string) bool {
		return strings.Contains(u, fragment)
	})
}

// ShouldURLNotContain waits until the location no longer contains fragment
func (d *Document) ShouldURLNotContain(ctx context.Context, fragment string) error {
	return d.expectURL(ctx, fmt.Sprintf("not include %q", fragment), func(u string) bool {
		return !strings.Contains(u, fragment)
	})
}

// ShouldURLEqual waits until the location equals want
func (d *Document) ShouldURLEqual(ctx context.Context, want string) error {
	return d.expectURL(ctx, fmt.Sprintf("equal %q", want), func(u string) bool {
		return u == want
	})
}

func (d *Document) expectURL(ctx context.Context, condition string, ok func(string) bool) error {
	var current string
	err := wait.Until(ctx, d.poll(), func(ctx context.Context) (bool, error) {
		u, err := d.drv.URL(ctx)
		if err != nil {
			return false, err
		}
		current = u
		return ok(u), nil
	})
	if err == nil {
		return nil
	}
	return &entities.AssertionError{
		Selector:  "location",
		Condition: condition,
		Observed:  fmt.Sprintf("it was %q", current),
		Timeout:   d.timeouts.Command,
		Err:       err,
	}
}

// ScrollTo scrolls the window to a named position
func (d *Document) ScrollTo(ctx context.Context, position string) error {
	return d.drv.ScrollTo(ctx, position)
}

// Screenshot saves the current page to path
func (d *Document) Screenshot(ctx context.Context, path string) error {
	return d.drv.Screenshot(ctx, path)
}

// Eval runs a script in the page
func (d *Document) Eval(ctx context.Context, script string, arg any) (any, error) {
	return d.drv.Eval(ctx, script, arg)
}
