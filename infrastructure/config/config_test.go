package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_DefaultsMatchDefault(t *testing.T) {
	t.Setenv("BROWSER_DRIVER_PATH", "")
	t.Setenv("CHROME_BINARY_PATH", "")
	cfg, err := Load(quietLogger(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "fundix.pro", cfg.Domain)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Element)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeouts.Animation)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("E2E_BASE_URL", "https://www.staging.fundix.pro/")
	t.Setenv("E2E_ENGINE", "Static")
	t.Setenv("E2E_SOFT_FAIL", "true")
	t.Setenv("E2E_RETRIES", "0")
	t.Setenv("E2E_ELEMENT_TIMEOUT", "3s")
	t.Setenv("E2E_LINK_SOFT_TARGETS", "true")
	t.Setenv("E2E_LOG_LEVEL", "debug")
	t.Setenv("BROWSER_DRIVER_PATH", "/opt/chromedriver")

	cfg, err := Load(quietLogger(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "staging.fundix.pro", cfg.Domain)
	assert.Equal(t, EngineStatic, cfg.Engine)
	assert.True(t, cfg.SoftFail)
	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Element)
	assert.True(t, cfg.Links.SoftTargets)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, "/opt/chromedriver", cfg.DriverPath)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("E2E_VIEWPORT_WIDTH=375\nE2E_VIEWPORT_HEIGHT=667\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("E2E_VIEWPORT_WIDTH")
		os.Unsetenv("E2E_VIEWPORT_HEIGHT")
	})

	cfg, err := Load(quietLogger(), path)
	require.NoError(t, err)
	assert.Equal(t, 375, cfg.Viewport().Width)
	assert.Equal(t, 667, cfg.Viewport().Height)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"engine":      {"E2E_ENGINE", "lynx"},
		"base url":    {"E2E_BASE_URL", "fundix.pro"},
		"timeout":     {"E2E_ELEMENT_TIMEOUT", "0s"},
		"retries":     {"E2E_RETRIES", "-1"},
		"log level":   {"E2E_LOG_LEVEL", "loud"},
		"viewport":    {"E2E_VIEWPORT_WIDTH", "0"},
		"unparseable": {"E2E_SCENARIO_TIMEOUT", "soon"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load(quietLogger(), missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestConfig_ValidateExplicitDomain(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "http://localhost:8080/"
	cfg.Domain = "fundix.pro"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "fundix.pro", cfg.Domain)
}
