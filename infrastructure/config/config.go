package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. SHOPQA_BASE_URL
const EnvPrefix = "SHOPQA"

// Supported browser backends
const (
	BackendPlaywright = "playwright"
	BackendSelenium   = "selenium"
)

// Config holds the whole runner configuration
type Config struct {
	BaseURL     string            `mapstructure:"base_url" yaml:"base_url"`
	Interactive bool              `mapstructure:"interactive" yaml:"interactive"`
	API         APIConfig         `mapstructure:"api" yaml:"api"`
	Timeouts    TimeoutsConfig    `mapstructure:"timeouts" yaml:"timeouts"`
	Retries     RetriesConfig     `mapstructure:"retries" yaml:"retries"`
	Viewport    ViewportConfig    `mapstructure:"viewport" yaml:"viewport"`
	Browser     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	Artifacts   ArtifactsConfig   `mapstructure:"artifacts" yaml:"artifacts"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	Exceptions  ExceptionsConfig  `mapstructure:"exceptions" yaml:"exceptions"`
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
}

type APIConfig struct {
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst     int     `mapstructure:"burst" yaml:"burst"`
}

type TimeoutsConfig struct {
	Command      time.Duration `mapstructure:"command" yaml:"command"`
	PageLoad     time.Duration `mapstructure:"page_load" yaml:"page_load"`
	Request      time.Duration `mapstructure:"request" yaml:"request"`
	Response     time.Duration `mapstructure:"response" yaml:"response"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// RetriesConfig sets test-level retries; a test runs at most retries+1 times
type RetriesConfig struct {
	RunMode  int `mapstructure:"run_mode" yaml:"run_mode"`
	OpenMode int `mapstructure:"open_mode" yaml:"open_mode"`
}

type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

type BrowserConfig struct {
	Backend    string        `mapstructure:"backend" yaml:"backend"`
	Headless   bool          `mapstructure:"headless" yaml:"headless"`
	SlowMo     time.Duration `mapstructure:"slow_mo" yaml:"slow_mo"`
	DriverPath string        `mapstructure:"driver_path" yaml:"driver_path"`
	BinaryPath string        `mapstructure:"binary_path" yaml:"binary_path"`
	DriverPort int           `mapstructure:"driver_port" yaml:"driver_port"`
}

type ArtifactsConfig struct {
	ScreenshotsDir string `mapstructure:"screenshots_dir" yaml:"screenshots_dir"`
	StateFile      string `mapstructure:"state_file" yaml:"state_file"`
}

type CredentialsConfig struct {
	Email    string `mapstructure:"email" yaml:"email"`
	Password string `mapstructure:"password" yaml:"password"`
}

type ExceptionsConfig struct {
	FailOn []string `mapstructure:"fail_on" yaml:"fail_on"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers every default value on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://automationexercise.com")
	v.SetDefault("interactive", false)

	// -- API --
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("api.burst", 1)

	// -- Timeouts --
	v.SetDefault("timeouts.command", "10s")
	v.SetDefault("timeouts.page_load", "30s")
	v.SetDefault("timeouts.request", "10s")
	v.SetDefault("timeouts.response", "10s")
	v.SetDefault("timeouts.poll_interval", "100ms")

	// -- Retries --
	v.SetDefault("retries.run_mode", 2)
	v.SetDefault("retries.open_mode", 0)

	v.SetDefault("viewport.width", 1280)
	v.SetDefault("viewport.height", 720)

	// -- Browser --
	v.SetDefault("browser.backend", BackendPlaywright)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", "0s")
	v.SetDefault("browser.driver_path", "")
	v.SetDefault("browser.binary_path", "")
	v.SetDefault("browser.driver_port", 9515)

	v.SetDefault("artifacts.screenshots_dir", "screenshots")
	v.SetDefault("artifacts.state_file", "~/.shopqa/state.json")

	v.SetDefault("credentials.email", "test@example.com")
	v.SetDefault("credentials.password", "password123")

	v.SetDefault("exceptions.fail_on", []string{})

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
}

// NewDefaultConfig returns the defaults without reading files or the environment
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	if err != nil {
		panic(fmt.Sprintf("failed to build default config: %v", err))
	}
	return cfg
}

// Load reads an optional .env file, then the YAML config file (when path is
// empty, ./shopqa.yaml if present) and SHOPQA_* environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("shopqa")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals, completes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.API.BaseURL == "" && cfg.BaseURL != "" {
		cfg.API.BaseURL = cfg.BaseURL + "/api"
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.Browser.Backend = strings.ToLower(cfg.Browser.Backend)

	var err error
	if cfg.Artifacts.ScreenshotsDir, err = homedir.Expand(cfg.Artifacts.ScreenshotsDir); err != nil {
		return nil, fmt.Errorf("artifacts.screenshots_dir: %w", err)
	}
	if cfg.Artifacts.StateFile, err = homedir.Expand(cfg.Artifacts.StateFile); err != nil {
		return nil, fmt.Errorf("artifacts.state_file: %w", err)
	}
	if cfg.Logger.File, err = homedir.Expand(cfg.Logger.File); err != nil {
		return nil, fmt.Errorf("logger.file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if err := c.Timeouts.Validate(); err != nil {
		return err
	}
	if c.Retries.RunMode < 0 || c.Retries.OpenMode < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must have a positive width and height")
	}
	switch c.Browser.Backend {
	case BackendPlaywright, BackendSelenium:
	default:
		return fmt.Errorf("unknown browser.backend %q", c.Browser.Backend)
	}
	return nil
}

// Validate checks every timeout is positive
func (t TimeoutsConfig) Validate() error {
	for name, d := range map[string]time.Duration{
		"command":       t.Command,
		"page_load":     t.PageLoad,
		"request":       t.Request,
		"response":      t.Response,
		"poll_interval": t.PollInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("timeouts.%s must be a positive duration", name)
		}
	}
	return nil
}

// Attempts returns how many times one test may run
func (c *Config) Attempts() int {
	if c.Interactive {
		return c.Retries.OpenMode + 1
	}
	return c.Retries.RunMode + 1
}
