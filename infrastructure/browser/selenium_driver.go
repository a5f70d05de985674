package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/log"
	"go.uber.org/multierr"

	"shopqa/domain/entities"
	"shopqa/domain/interfaces"
)

// errNoMatch is returned by element primitives when the query matched nothing
var errNoMatch = errors.New("no element matches")

// SeleniumDriver drives Chrome through a local ChromeDriver service
type SeleniumDriver struct {
	wd          selenium.WebDriver
	service     *selenium.Service
	logger      *logrus.Entry
	opts        Options
	userDataDir string

	mu       sync.Mutex
	handlers map[int]func(entities.PageException)
	nextID   int
}

// findChromeDriver returns the configured ChromeDriver, or the first one found
// in the usual install locations
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("browser.driver_path %q: %w", configured, err)
		}
		return configured, nil
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
	}
	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", errors.New("chromedriver not found. Install it or set browser.driver_path")
}

// findChromeBinary returns the configured browser, or the first one found.
// An empty result lets ChromeDriver pick its default.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}
	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// NewSeleniumDriver starts ChromeDriver and opens a session on a fresh profile
func NewSeleniumDriver(opts Options, logger *logrus.Entry) (*SeleniumDriver, error) {
	opts = opts.withDefaults()
	logger = logger.WithField("component", "selenium")

	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, err
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	userDataDir, err := os.MkdirTemp("", "shopqa-chrome-")
	if err != nil {
		return nil, fmt.Errorf("failed to create user data directory: %w", err)
	}

	service, err := selenium.NewChromeDriverService(driverPath, opts.DriverPort)
	if err != nil {
		os.RemoveAll(userDataDir)
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.SetLogLevel(log.Browser, log.Severe)

	args := []string{
		"--disable-dev-shm-usage",
		"--no-sandbox",
		"--disable-notifications",
		fmt.Sprintf("--window-size=%d,%d", opts.Width, opts.Height),
		fmt.Sprintf("--user-data-dir=%s", userDataDir),
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	chromeCaps := chrome.Capabilities{Args: args}
	if binary := findChromeBinary(opts.BinaryPath); binary != "" {
		logger.Infof("Using Chrome binary at: %s", binary)
		chromeCaps.Path = binary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", opts.DriverPort))
	if err != nil {
		service.Stop()
		os.RemoveAll(userDataDir)
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found, set browser.binary_path: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumDriver{
		wd:          wd,
		service:     service,
		logger:      logger,
		opts:        opts,
		userDataDir: userDataDir,
		handlers:    map[int]func(entities.PageException){},
	}, nil
}

// call invokes a function expression with the given arguments
func (s *SeleniumDriver) call(fn string, args ...any) (any, error) {
	return s.wd.ExecuteScript("return ("+fn+").apply(null, arguments);", args)
}

// resolve finds every element matching q, switching into frames on the way.
// It always starts from the top-level document.
func (s *SeleniumDriver) resolve(q entities.Query) ([]selenium.WebElement, error) {
	if err := s.wd.SwitchFrame(nil); err != nil {
		return nil, err
	}

	var set []selenium.WebElement
	root := true
	find := func(css string) ([]selenium.WebElement, error) {
		if root {
			return s.wd.FindElements(selenium.ByCSSSelector, css)
		}
		var out []selenium.WebElement
		for _, el := range set {
			found, err := el.FindElements(selenium.ByCSSSelector, css)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
		return out, nil
	}

	for _, step := range q.Steps {
		switch step.Kind {
		case entities.StepCSS:
			found, err := find(step.Value)
			if err != nil {
				return nil, err
			}
			set, root = found, false
		case entities.StepFrame:
			frames, err := find(step.Value)
			if err != nil || len(frames) == 0 {
				return nil, err
			}
			if err := s.wd.SwitchFrame(frames[0]); err != nil {
				return nil, err
			}
			set, root = nil, true
		case entities.StepNth:
			i, ok := entities.NthIndex(step.Index, len(set))
			if !ok {
				return nil, nil
			}
			set = set[i : i+1]
		case entities.StepLast:
			if len(set) > 0 {
				set = set[len(set)-1:]
			}
		case entities.StepHasText:
			var out []selenium.WebElement
			for _, el := range set {
				text, err := el.Text()
				if err != nil {
					return nil, err
				}
				if entities.HasText(text, step.Value) {
					out = append(out, el)
				}
			}
			set = out
		default:
			return nil, fmt.Errorf("unsupported step %q", step.Kind)
		}
	}
	if root {
		return nil, fmt.Errorf("query %s selects a frame, not elements", q)
	}
	return set, nil
}

func (s *SeleniumDriver) first(q entities.Query) (selenium.WebElement, error) {
	set, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: %s", errNoMatch, q)
	}
	return set[0], nil
}

func (s *SeleniumDriver) Goto(ctx context.Context, url string) error {
	s.logger.Debugf("Navigating to: %s", url)
	if err := s.wd.SetPageLoadTimeout(budget(ctx, s.opts.PageLoadTimeout)); err != nil {
		return err
	}
	defer s.drainLogs()
	return s.wd.Get(url)
}

func (s *SeleniumDriver) URL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

func (s *SeleniumDriver) Title(ctx context.Context) (string, error) {
	return s.wd.Title()
}

func (s *SeleniumDriver) Count(ctx context.Context, q entities.Query) (int, error) {
	set, err := s.resolve(q)
	return len(set), err
}

func (s *SeleniumDriver) Texts(ctx context.Context, q entities.Query) ([]string, error) {
	set, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(set))
	for _, el := range set {
		text, err := el.Text()
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func (s *SeleniumDriver) Visible(ctx context.Context, q entities.Query) (bool, error) {
	set, err := s.resolve(q)
	if err != nil || len(set) == 0 {
		return false, err
	}
	return set[0].IsDisplayed()
}

func (s *SeleniumDriver) Attribute(ctx context.Context, q entities.Query, name string) (string, bool, error) {
	el, err := s.first(q)
	if err != nil {
		return "", false, err
	}
	v, err := s.call(scriptGetAttr, el, name)
	if err != nil || v == nil {
		return "", false, err
	}
	str, ok := v.(string)
	return str, ok, nil
}

func (s *SeleniumDriver) Value(ctx context.Context, q entities.Query) (string, error) {
	el, err := s.first(q)
	if err != nil {
		return "", err
	}
	v, err := s.call(`(el) => el.value`, el)
	if err != nil {
		return "", err
	}
	str, _ := v.(string)
	return str, nil
}

func (s *SeleniumDriver) Click(ctx context.Context, q entities.Query) error {
	s.logger.Debugf("Clicking on: %s", q)
	el, err := s.first(q)
	if err != nil {
		return err
	}
	if _, err := s.call(`(el) => el.scrollIntoView({block: 'center'})`, el); err != nil {
		s.logger.Warnf("Failed to scroll to element: %v", err)
	}
	defer s.drainLogs()
	return el.Click()
}

func (s *SeleniumDriver) Fill(ctx context.Context, q entities.Query, text string) error {
	s.logger.Debugf("Typing text into: %s", q)
	el, err := s.first(q)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return err
	}
	return el.SendKeys(text)
}

func (s *SeleniumDriver) Clear(ctx context.Context, q entities.Query) error {
	el, err := s.first(q)
	if err != nil {
		return err
	}
	return el.Clear()
}

func (s *SeleniumDriver) Select(ctx context.Context, q entities.Query, label string) error {
	el, err := s.first(q)
	if err != nil {
		return err
	}
	option, err := el.FindElement(selenium.ByXPATH, fmt.Sprintf(".//option[normalize-space(.)=%s]", xpathLiteral(label)))
	if err != nil {
		return fmt.Errorf("option %q: %w", label, err)
	}
	return option.Click()
}

func (s *SeleniumDriver) Check(ctx context.Context, q entities.Query) error {
	el, err := s.first(q)
	if err != nil {
		return err
	}
	checked, err := el.IsSelected()
	if err != nil || checked {
		return err
	}
	return el.Click()
}

func (s *SeleniumDriver) Hover(ctx context.Context, q entities.Query) error {
	el, err := s.first(q)
	if err != nil {
		return err
	}
	return el.MoveTo(0, 0)
}

func (s *SeleniumDriver) SetFiles(ctx context.Context, q entities.Query, paths []string) error {
	el, err := s.first(q)
	if err != nil {
		return err
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		abs = append(abs, a)
	}
	return el.SendKeys(strings.Join(abs, "\n"))
}

func (s *SeleniumDriver) DragTo(ctx context.Context, src, dst entities.Query) error {
	to, err := s.first(dst)
	if err != nil {
		return err
	}
	from, err := s.first(src)
	if err != nil {
		return err
	}
	_, err = s.call(scriptDrag, []any{from, to})
	return err
}

func (s *SeleniumDriver) ScrollIntoView(ctx context.Context, q entities.Query) error {
	el, err := s.first(q)
	if err != nil {
		return err
	}
	_, err = s.call(`(el) => el.scrollIntoView({block: 'center'})`, el)
	return err
}

func (s *SeleniumDriver) ScrollTo(ctx context.Context, position string) error {
	p, err := scrollFractions(position)
	if err != nil {
		return err
	}
	_, err = s.call(scriptScroll, p[:])
	return err
}

func (s *SeleniumDriver) Eval(ctx context.Context, script string, arg any) (any, error) {
	return s.call(script, arg)
}

func (s *SeleniumDriver) Cookies(ctx context.Context) ([]entities.Cookie, error) {
	cookies, err := s.wd.GetCookies()
	if err != nil {
		return nil, err
	}
	out := make([]entities.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, entities.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  c.Domain,
			Path:    c.Path,
			Expires: float64(c.Expiry),
			Secure:  c.Secure,
		})
	}
	return out, nil
}

func (s *SeleniumDriver) SetCookie(ctx context.Context, c entities.Cookie) error {
	path := c.Path
	if path == "" {
		path = "/"
	}
	return s.wd.AddCookie(&selenium.Cookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: c.Domain,
		Path:   path,
		Secure: c.Secure,
		Expiry: uint(c.Expires),
	})
}

func (s *SeleniumDriver) ClearCookies(ctx context.Context) error {
	return s.wd.DeleteAllCookies()
}

func (s *SeleniumDriver) StorageItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.call(scriptGetItem, key)
	if err != nil || v == nil {
		return "", false, err
	}
	str, ok := v.(string)
	return str, ok, nil
}

func (s *SeleniumDriver) SetStorageItem(ctx context.Context, key, value string) error {
	_, err := s.call(scriptSetItem, []string{key, value})
	return err
}

func (s *SeleniumDriver) StorageItems(ctx context.Context) (map[string]string, error) {
	v, err := s.call(scriptListItems)
	if err != nil {
		return nil, err
	}
	return stringMap(v), nil
}

func (s *SeleniumDriver) ClearStorage(ctx context.Context) error {
	_, err := s.call(scriptClear)
	return err
}

func (s *SeleniumDriver) SetViewport(ctx context.Context, width, height int) error {
	return s.wd.ResizeWindow("", width, height)
}

func (s *SeleniumDriver) Screenshot(ctx context.Context, path string) error {
	png, err := s.wd.Screenshot()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

func (s *SeleniumDriver) OnPageError(handler func(entities.PageException)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

// drainLogs forwards uncaught errors from the browser console log to the
// registered handlers. ChromeDriver only exposes them by polling.
func (s *SeleniumDriver) drainLogs() {
	messages, err := s.wd.Log(log.Browser)
	if err != nil {
		s.logger.WithError(err).Debug("Failed to read browser log")
		return
	}

	s.mu.Lock()
	handlers := make([]func(entities.PageException), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	url, _ := s.wd.CurrentURL()
	for _, m := range messages {
		if m.Level != log.Severe || !strings.Contains(m.Message, "Uncaught") {
			continue
		}
		exc := entities.PageException{Message: m.Message, URL: url, At: m.Timestamp}
		for _, h := range handlers {
			h(exc)
		}
	}
}

// Close ends the session, stops ChromeDriver and removes the profile
func (s *SeleniumDriver) Close() error {
	var err error
	if s.wd != nil {
		err = multierr.Append(err, s.wd.Quit())
	}
	if s.service != nil {
		err = multierr.Append(err, s.service.Stop())
	}
	if s.userDataDir != "" {
		err = multierr.Append(err, os.RemoveAll(s.userDataDir))
	}
	return err
}

// xpathLiteral quotes s for use inside an XPath expression
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	return "concat('" + strings.Join(parts, `', "'", '`) + "')"
}

var _ interfaces.Driver = (*SeleniumDriver)(nil)
