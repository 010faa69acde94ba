//go:build e2e

package e2e

import (
	"context"
	"io"
	"os"
	"testing"

	"fundix_e2e/application/scenario"
	"fundix_e2e/application/suites"
	"fundix_e2e/domain/entities"
	"fundix_e2e/infrastructure/browser"
	"fundix_e2e/infrastructure/config"
	"fundix_e2e/infrastructure/httpcheck"
	"fundix_e2e/infrastructure/security"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*scenario.Runner, config.Config) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if testing.Verbose() {
		logger.SetOutput(os.Stderr)
	}

	cfg, err := config.Load(logger, "../.env")
	require.NoError(t, err)
	logger.SetLevel(cfg.Level())

	b, err := browser.New(cfg, logger)
	require.NoError(t, err, "failed to start %s engine", cfg.Engine)
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("browser close error: %v", err)
		}
	})

	statuses := httpcheck.NewClient(httpcheck.Options{RetryMax: cfg.Links.Retries, Timeout: cfg.Links.Timeout}, logger)
	session := scenario.NewSession(cfg, b, security.NewLinkPolicy(cfg.Domain, logger), statuses, logger)
	runner := scenario.NewRunner(session, scenario.Options{
		Retries:  cfg.Retries,
		SoftFail: cfg.SoftFail,
		Timeout:  cfg.Timeouts.Scenario,
	}, logger)
	return runner, cfg
}

// TestLandingPage runs every scenario as a subtest. Scenarios needing a real
// layout are skipped on the static engine.
func TestLandingPage(t *testing.T) {
	runner, cfg := newRunner(t)
	ctx := context.Background()

	for _, suite := range suites.All() {
		suite := suite
		t.Run(suite.Name, func(t *testing.T) {
			for _, sc := range suite.Scenarios {
				sc := sc
				t.Run(sc.Name, func(t *testing.T) {
					if cfg.Engine == config.EngineStatic && sc.HasTag(scenario.TagLive) {
						t.Skip("needs a browser engine")
					}
					res := runner.RunScenario(ctx, suite.Name, sc)
					switch res.Outcome {
					case entities.OutcomeFailed:
						t.Errorf("failed after %d attempts: %s", res.Attempts, res.Error)
					case entities.OutcomeSoftFailed:
						t.Logf("soft failed: %s", res.Error)
					}
				})
			}
		})
	}
}
