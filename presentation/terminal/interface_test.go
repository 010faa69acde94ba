package terminal

import (
	"bytes"
	"testing"

	"fundix_e2e/application/scenario"
	"fundix_e2e/application/suites"
	"fundix_e2e/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runWithFlags parses args with the run flags and hands the context to fn
func runWithFlags(t *testing.T, args []string, fn func(c *cli.Context) error) {
	t.Helper()
	app := &cli.App{
		Name:   appName,
		Flags:  RunFlags(),
		Action: fn,
	}
	require.NoError(t, app.Run(append([]string{appName}, args...)))
}

func TestList_PrintsSuitesAndTags(t *testing.T) {
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{appName, "list"}))
	for _, name := range suites.Names() {
		assert.Contains(t, out.String(), name+" (")
	}
	assert.Contains(t, out.String(), "["+scenario.TagLive+"]")
	assert.Contains(t, out.String(), "engines: playwright, rod, selenium, static")
}

func TestApplyFlags_OverridesOnlySetValues(t *testing.T) {
	runWithFlags(t, []string{"--engine", "static", "--base-url", "https://staging.fundix.pro/", "--retries", "0", "--verbose"}, func(c *cli.Context) error {
		cfg := config.Default()
		cfg.ReportDir = "from-env"
		require.NoError(t, applyFlags(c, &cfg))

		assert.Equal(t, config.EngineStatic, cfg.Engine)
		assert.Equal(t, "https://staging.fundix.pro/", cfg.BaseURL)
		assert.Equal(t, "staging.fundix.pro", cfg.Domain)
		assert.Equal(t, 0, cfg.Retries)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "from-env", cfg.ReportDir)
		assert.True(t, cfg.Headless)
		return nil
	})
}

func TestApplyFlags_RejectsUnknownEngine(t *testing.T) {
	runWithFlags(t, []string{"--engine", "netscape"}, func(c *cli.Context) error {
		cfg := config.Default()
		assert.Error(t, applyFlags(c, &cfg))
		return nil
	})
}

func TestFilterFrom(t *testing.T) {
	runWithFlags(t, []string{"--suite", suites.Links, "--exclude-tag", scenario.TagNetwork}, func(c *cli.Context) error {
		cfg := config.Default()
		cfg.Engine = config.EngineStatic

		filter, err := filterFrom(c, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{suites.Links}, filter.Suites)
		assert.Equal(t, []string{scenario.TagNetwork, scenario.TagLive}, filter.ExcludeTags)

		cfg.Engine = config.EnginePlaywright
		filter, err = filterFrom(c, cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{scenario.TagNetwork}, filter.ExcludeTags)
		return nil
	})
}

func TestFilterFrom_UnknownSuite(t *testing.T) {
	runWithFlags(t, []string{"--suite", "smoke"}, func(c *cli.Context) error {
		_, err := filterFrom(c, config.Default())
		assert.ErrorContains(t, err, `unknown suite "smoke"`)
		return nil
	})
}
