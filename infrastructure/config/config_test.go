package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "https://automationexercise.com", cfg.BaseURL)
	assert.Equal(t, "https://automationexercise.com/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Command)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.PageLoad)
	assert.Equal(t, 100*time.Millisecond, cfg.Timeouts.PollInterval)
	assert.Equal(t, 2, cfg.Retries.RunMode)
	assert.Equal(t, 0, cfg.Retries.OpenMode)
	assert.Equal(t, 1280, cfg.Viewport.Width)
	assert.Equal(t, 720, cfg.Viewport.Height)
	assert.Equal(t, BackendPlaywright, cfg.Browser.Backend)
	assert.Equal(t, "test@example.com", cfg.Credentials.Email)
	assert.Equal(t, 3, cfg.Attempts())

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".shopqa", "state.json"), cfg.Artifacts.StateFile)
}

func TestAttempts_Interactive(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Interactive = true
	assert.Equal(t, 1, cfg.Attempts())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://shop.test/
timeouts:
  command: 2s
retries:
  run_mode: 1
browser:
  backend: Selenium
exceptions:
  fail_on: [TypeError]
`), 0o644))

	t.Setenv("SHOPQA_VIEWPORT_WIDTH", "800")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.test", cfg.BaseURL)
	assert.Equal(t, "https://shop.test/api", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Command)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.PageLoad)
	assert.Equal(t, 2, cfg.Attempts())
	assert.Equal(t, BackendSelenium, cfg.Browser.Backend)
	assert.Equal(t, []string{"TypeError"}, cfg.Exceptions.FailOn)
	assert.Equal(t, 800, cfg.Viewport.Width)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, "base_url is required"},
		{"zero command timeout", func(c *Config) { c.Timeouts.Command = 0 }, "timeouts.command must be a positive duration"},
		{"negative poll interval", func(c *Config) { c.Timeouts.PollInterval = -time.Second }, "timeouts.poll_interval"},
		{"negative retries", func(c *Config) { c.Retries.RunMode = -1 }, "retries must not be negative"},
		{"zero viewport", func(c *Config) { c.Viewport.Height = 0 }, "viewport"},
		{"unknown backend", func(c *Config) { c.Browser.Backend = "chromedp" }, `unknown browser.backend "chromedp"`},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, "api.rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFromViper_ExplicitAPIBase(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("api.base_url", "https://api.shop.test/v1/")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "https://api.shop.test/v1", cfg.API.BaseURL)
}
