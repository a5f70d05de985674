package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
)

// PlaywrightDriver drives Chromium through playwright-go
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Entry
	opts    Options

	mu       sync.Mutex
	handlers map[int]func(entities.PageException)
	nextID   int
}

// NewPlaywrightDriver starts playwright, launches Chromium and opens one page
func NewPlaywrightDriver(opts Options, logger *logrus.Entry) (*PlaywrightDriver, error) {
	opts = opts.withDefaults()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-popup-blocking",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-notifications",
		},
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	if opts.BinaryPath != "" {
		launch.ExecutablePath = playwright.String(opts.BinaryPath)
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	d := &PlaywrightDriver{
		pw:       pw,
		browser:  browser,
		context:  bctx,
		page:     page,
		logger:   logger.WithField("component", "playwright"),
		opts:     opts,
		handlers: map[int]func(entities.PageException){},
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})
	page.OnPageError(func(err error) {
		d.dispatch(entities.PageException{
			Message: err.Error(),
			URL:     page.URL(),
			At:      time.Now(),
		})
	})

	return d, nil
}

func (d *PlaywrightDriver) ms(ctx context.Context) *float64 {
	return playwright.Float(float64(budget(ctx, d.opts.CommandTimeout).Milliseconds()))
}

// locate builds a playwright locator for q. Playwright locators are lazy too,
// so the query is only resolved when an action runs.
func (d *PlaywrightDriver) locate(q entities.Query) (playwright.Locator, error) {
	var (
		loc   playwright.Locator
		frame playwright.FrameLocator
	)
	for _, step := range q.Steps {
		switch step.Kind {
		case entities.StepCSS:
			switch {
			case frame != nil:
				loc, frame = frame.Locator(step.Value), nil
			case loc != nil:
				loc = loc.Locator(step.Value)
			default:
				loc = d.page.Locator(step.Value)
			}
		case entities.StepFrame:
			if loc != nil {
				frame = loc.FrameLocator(step.Value)
			} else {
				frame = d.page.FrameLocator(step.Value)
			}
			loc = nil
		case entities.StepNth, entities.StepLast, entities.StepHasText:
			if loc == nil {
				return nil, fmt.Errorf("query %s: %s step needs a preceding selector", q, step.Kind)
			}
			switch step.Kind {
			case entities.StepNth:
				index := step.Index
				if index < 0 {
					n, err := loc.Count()
					if err != nil {
						return nil, err
					}
					var ok bool
					if index, ok = entities.NthIndex(index, n); !ok {
						// an index past the end matches nothing
						index = n
					}
				}
				loc = loc.Nth(index)
			case entities.StepLast:
				loc = loc.Last()
			default:
				loc = loc.Filter(playwright.LocatorFilterOptions{HasText: exactText(step.Value)})
			}
		default:
			return nil, fmt.Errorf("unsupported step %q", step.Kind)
		}
	}
	if frame != nil {
		loc = frame.Locator("body")
	}
	if loc == nil {
		return nil, errors.New("empty query")
	}
	return loc, nil
}

func (d *PlaywrightDriver) Goto(ctx context.Context, url string) error {
	d.logger.Debugf("Navigating to: %s", url)
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(budget(ctx, d.opts.PageLoadTimeout).Milliseconds())),
	})
	return err
}

func (d *PlaywrightDriver) URL(ctx context.Context) (string, error) {
	return d.page.URL(), nil
}

func (d *PlaywrightDriver) Title(ctx context.Context) (string, error) {
	return d.page.Title()
}

func (d *PlaywrightDriver) Count(ctx context.Context, q entities.Query) (int, error) {
	loc, err := d.locate(q)
	if err != nil {
		return 0, err
	}
	return loc.Count()
}

func (d *PlaywrightDriver) Texts(ctx context.Context, q entities.Query) ([]string, error) {
	loc, err := d.locate(q)
	if err != nil {
		return nil, err
	}
	return loc.AllInnerTexts()
}

func (d *PlaywrightDriver) Visible(ctx context.Context, q entities.Query) (bool, error) {
	loc, err := d.locate(q)
	if err != nil {
		return false, err
	}
	return loc.First().IsVisible()
}

func (d *PlaywrightDriver) Attribute(ctx context.Context, q entities.Query, name string) (string, bool, error) {
	loc, err := d.locate(q)
	if err != nil {
		return "", false, err
	}
	v, err := loc.First().Evaluate(scriptGetAttr, name, playwright.LocatorEvaluateOptions{Timeout: d.ms(ctx)})
	if err != nil || v == nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (d *PlaywrightDriver) Value(ctx context.Context, q entities.Query) (string, error) {
	loc, err := d.locate(q)
	if err != nil {
		return "", err
	}
	return loc.First().InputValue(playwright.LocatorInputValueOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) Click(ctx context.Context, q entities.Query) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	d.logger.Debugf("Clicking on: %s", q)
	return loc.First().Click(playwright.LocatorClickOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) Fill(ctx context.Context, q entities.Query, text string) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	d.logger.Debugf("Typing text into: %s", q)
	return loc.First().Fill(text, playwright.LocatorFillOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) Clear(ctx context.Context, q entities.Query) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	return loc.First().Clear(playwright.LocatorClearOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) Select(ctx context.Context, q entities.Query, label string) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	_, err = loc.First().SelectOption(playwright.SelectOptionValues{
		Labels: playwright.StringSlice(label),
	}, playwright.LocatorSelectOptionOptions{Timeout: d.ms(ctx)})
	return err
}

func (d *PlaywrightDriver) Check(ctx context.Context, q entities.Query) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	return loc.First().Check(playwright.LocatorCheckOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) Hover(ctx context.Context, q entities.Query) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	return loc.First().Hover(playwright.LocatorHoverOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) SetFiles(ctx context.Context, q entities.Query, paths []string) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	return loc.First().SetInputFiles(paths, playwright.LocatorSetInputFilesOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) DragTo(ctx context.Context, src, dst entities.Query) error {
	from, err := d.locate(src)
	if err != nil {
		return err
	}
	to, err := d.locate(dst)
	if err != nil {
		return err
	}
	return from.First().DragTo(to.First(), playwright.LocatorDragToOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) ScrollIntoView(ctx context.Context, q entities.Query) error {
	loc, err := d.locate(q)
	if err != nil {
		return err
	}
	return loc.First().ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{Timeout: d.ms(ctx)})
}

func (d *PlaywrightDriver) ScrollTo(ctx context.Context, position string) error {
	p, err := scrollFractions(position)
	if err != nil {
		return err
	}
	_, err = d.page.Evaluate(scriptScroll, p)
	return err
}

func (d *PlaywrightDriver) Eval(ctx context.Context, script string, arg any) (any, error) {
	if arg == nil {
		return d.page.Evaluate(script)
	}
	return d.page.Evaluate(script, arg)
}

func (d *PlaywrightDriver) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	cookies, err := d.context.Cookies()
	if err != nil {
		return nil, err
	}
	out := make([]entities.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, entities.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		})
	}
	return out, nil
}

func (d *PlaywrightDriver) SetCookie(ctx context.Context, c entities.Cookie) error {
	cookie := playwright.OptionalCookie{
		Name:     c.Name,
		Value:    c.Value,
		HttpOnly: playwright.Bool(c.HTTPOnly),
		Secure:   playwright.Bool(c.Secure),
	}
	if c.Domain != "" {
		cookie.Domain = playwright.String(c.Domain)
		cookie.Path = playwright.String(c.Path)
		if c.Path == "" {
			cookie.Path = playwright.String("/")
		}
	} else {
		cookie.URL = playwright.String(d.page.URL())
	}
	if c.Expires > 0 {
		cookie.Expires = playwright.Float(c.Expires)
	}
	return d.context.AddCookies([]playwright.OptionalCookie{cookie})
}

func (d *PlaywrightDriver) ClearCookies(ctx context.Context) error {
	return d.context.ClearCookies()
}

func (d *PlaywrightDriver) StorageItem(ctx context.Context, key string) (string, bool, error) {
	v, err := d.page.Evaluate(scriptGetItem, key)
	if err != nil || v == nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (d *PlaywrightDriver) SetStorageItem(ctx context.Context, key, value string) error {
	_, err := d.page.Evaluate(scriptSetItem, []string{key, value})
	return err
}

func (d *PlaywrightDriver) StorageItems(ctx context.Context) (map[string]string, error) {
	v, err := d.page.Evaluate(scriptListItems)
	if err != nil {
		return nil, err
	}
	return stringMap(v), nil
}

func (d *PlaywrightDriver) ClearStorage(ctx context.Context) error {
	_, err := d.page.Evaluate(scriptClear)
	return err
}

func (d *PlaywrightDriver) SetViewport(ctx context.Context, width, height int) error {
	return d.page.SetViewportSize(width, height)
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (d *PlaywrightDriver) OnPageError(handler func(entities.PageException)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.handlers[id] = handler
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.handlers, id)
	}
}

func (d *PlaywrightDriver) dispatch(exc entities.PageException) {
	d.mu.Lock()
	handlers := make([]func(entities.PageException), 0, len(d.handlers))
	for _, h := range d.handlers {
		handlers = append(handlers, h)
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(exc)
	}
}

// Close shuts the page, context, browser and playwright server down
func (d *PlaywrightDriver) Close() error {
	var err error
	if d.context != nil {
		err = multierr.Append(err, d.context.Close())
	}
	if d.browser != nil {
		err = multierr.Append(err, d.browser.Close())
	}
	if d.pw != nil {
		err = multierr.Append(err, d.pw.Stop())
	}
	return err
}

// exactText builds a has-text filter. Playwright matches plain strings
// ignoring case, a pattern without flags does not.
func exactText(text string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(text))
}

var _ interfaces.Driver = (*PlaywrightDriver)(nil)
