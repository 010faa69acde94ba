package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"fundix_e2e/domain/entities"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Engine names
const (
	EnginePlaywright = "playwright"
	EngineRod        = "rod"
	EngineSelenium   = "selenium"
	EngineStatic     = "static"
)

// Engines lists every supported engine
var Engines = []string{EnginePlaywright, EngineRod, EngineSelenium, EngineStatic}

// Config is the run configuration
type Config struct {
	BaseURL string `envconfig:"E2E_BASE_URL" default:"https://fundix.pro/"`
	// Domain defaults to the host of BaseURL
	Domain string `envconfig:"E2E_DOMAIN"`

	Engine         string `envconfig:"E2E_ENGINE" default:"playwright"`
	Headless       bool   `envconfig:"E2E_HEADLESS" default:"true"`
	ViewportWidth  int    `envconfig:"E2E_VIEWPORT_WIDTH" default:"1920"`
	ViewportHeight int    `envconfig:"E2E_VIEWPORT_HEIGHT" default:"1080"`
	DriverPath     string `envconfig:"BROWSER_DRIVER_PATH"`
	ChromePath     string `envconfig:"CHROME_BINARY_PATH"`

	Timeouts Timeouts
	Links    Links

	SoftFail  bool   `envconfig:"E2E_SOFT_FAIL" default:"false"`
	Retries   int    `envconfig:"E2E_RETRIES" default:"2"`
	ReportDir string `envconfig:"E2E_REPORT_DIR" default:"reports"`
	LogLevel  string `envconfig:"E2E_LOG_LEVEL" default:"info"`
}

// Timeouts are the wait budgets of a run
type Timeouts struct {
	Element        time.Duration `envconfig:"E2E_ELEMENT_TIMEOUT" default:"10s"`
	Navigation     time.Duration `envconfig:"E2E_NAVIGATION_TIMEOUT" default:"15s"`
	PageLoad       time.Duration `envconfig:"E2E_PAGE_LOAD_WAIT" default:"2s"`
	NavigationWait time.Duration `envconfig:"E2E_NAVIGATION_WAIT" default:"2s"`
	Animation      time.Duration `envconfig:"E2E_ANIMATION_WAIT" default:"500ms"`
	Scroll         time.Duration `envconfig:"E2E_SCROLL_WAIT" default:"1s"`
	Scenario       time.Duration `envconfig:"E2E_SCENARIO_TIMEOUT" default:"60s"`
}

// Links configures HTTP link checks
type Links struct {
	Retries     int           `envconfig:"E2E_LINK_RETRIES" default:"2"`
	Timeout     time.Duration `envconfig:"E2E_LINK_TIMEOUT" default:"10s"`
	SoftTargets bool          `envconfig:"E2E_LINK_SOFT_TARGETS" default:"false"`
}

// Load reads the optional env files (.env when none given), then the
// environment, and validates the result
func Load(logger *logrus.Logger, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// .env file is optional
		logger.Warn(".env file not found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration, ignoring the environment. It
// mirrors the default tags.
func Default() Config {
	cfg := Config{
		BaseURL:        "https://fundix.pro/",
		Engine:         EnginePlaywright,
		Headless:       true,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Timeouts: Timeouts{
			Element:        10 * time.Second,
			Navigation:     15 * time.Second,
			PageLoad:       2 * time.Second,
			NavigationWait: 2 * time.Second,
			Animation:      500 * time.Millisecond,
			Scroll:         time.Second,
			Scenario:       60 * time.Second,
		},
		Links: Links{
			Retries: 2,
			Timeout: 10 * time.Second,
		},
		Retries:   2,
		ReportDir: "reports",
		LogLevel:  "info",
	}
	cfg.Domain = "fundix.pro"
	return cfg
}

// Validate checks values and fills derived ones
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.Domain == "" {
		c.Domain = strings.TrimPrefix(u.Hostname(), "www.")
	}

	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if !validEngine(c.Engine) {
		return fmt.Errorf("unknown engine %q, expected one of %s", c.Engine, strings.Join(Engines, ", "))
	}

	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.Links.Retries < 0 {
		return fmt.Errorf("link retries must not be negative, got %d", c.Links.Retries)
	}

	timeouts := map[string]time.Duration{
		"element":    c.Timeouts.Element,
		"navigation": c.Timeouts.Navigation,
		"scenario":   c.Timeouts.Scenario,
		"link":       c.Links.Timeout,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s timeout must be positive, got %s", name, d)
		}
	}
	if c.Timeouts.PageLoad < 0 || c.Timeouts.NavigationWait < 0 || c.Timeouts.Animation < 0 || c.Timeouts.Scroll < 0 {
		return fmt.Errorf("wait durations must not be negative")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Viewport returns the configured window size
func (c Config) Viewport() entities.Viewport {
	return entities.Viewport{Name: "configured", Width: c.ViewportWidth, Height: c.ViewportHeight}
}

// Level returns the logrus level, info when unparseable
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func validEngine(name string) bool {
	for _, e := range Engines {
		if e == name {
			return true
		}
	}
	return false
}
