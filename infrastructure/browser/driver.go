package browser

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"shopqa/domain/interfaces"
	"shopqa/infrastructure/config"
)

// Options configures a real browser backend
type Options struct {
	Backend         string
	Headless        bool
	SlowMo          time.Duration
	Width           int
	Height          int
	CommandTimeout  time.Duration
	PageLoadTimeout time.Duration
	DriverPath      string
	BinaryPath      string
	DriverPort      int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = 10 * time.Second
	}
	if o.PageLoadTimeout <= 0 {
		o.PageLoadTimeout = 30 * time.Second
	}
	if o.DriverPort == 0 {
		o.DriverPort = 9515
	}
	return o
}

// OptionsFromConfig maps the runner configuration onto driver options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Backend:         cfg.Browser.Backend,
		Headless:        cfg.Browser.Headless,
		SlowMo:          cfg.Browser.SlowMo,
		Width:           cfg.Viewport.Width,
		Height:          cfg.Viewport.Height,
		CommandTimeout:  cfg.Timeouts.Command,
		PageLoadTimeout: cfg.Timeouts.PageLoad,
		DriverPath:      cfg.Browser.DriverPath,
		BinaryPath:      cfg.Browser.BinaryPath,
		DriverPort:      cfg.Browser.DriverPort,
	}
}

// New launches the configured backend
func New(opts Options, logger *logrus.Entry) (interfaces.Driver, error) {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}

	switch opts.Backend {
	case config.BackendPlaywright, "":
		return NewPlaywrightDriver(opts, logger)
	case config.BackendSelenium:
		return NewSeleniumDriver(opts, logger)
	default:
		return nil, fmt.Errorf("unknown browser backend %q", opts.Backend)
	}
}
