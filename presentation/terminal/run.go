package terminal

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"fundix_e2e/application/scenario"
	"fundix_e2e/application/suites"
	"fundix_e2e/domain/entities"
	"fundix_e2e/infrastructure/browser"
	"fundix_e2e/infrastructure/config"
	"fundix_e2e/infrastructure/httpcheck"
	"fundix_e2e/infrastructure/security"
	"fundix_e2e/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// RunFlags are the flags of the run command. Each one overrides its
// environment variable when set.
func RunFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "engine",
			Usage: "browser engine: playwright, rod, selenium or static",
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "root URL of the site under test",
		},
		&cli.StringSliceFlag{
			Name:  "suite",
			Usage: "run only the named suite, may be repeated",
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "run only scenarios with the tag, may be repeated",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-tag",
			Usage: "skip scenarios with the tag, may be repeated",
		},
		&cli.BoolFlag{
			Name:  "soft-fail",
			Usage: "report failures without failing the run",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "extra attempts per failed scenario",
		},
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "run the browser without a window",
		},
		&cli.StringFlag{
			Name:  "report-dir",
			Usage: "directory the YAML and JSON reports are written to",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "debug logging",
		},
	}
}

// applyFlags copies the flags that were set onto cfg and validates the result
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("engine") {
		cfg.Engine = c.String("engine")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
		cfg.Domain = ""
	}
	if c.IsSet("soft-fail") {
		cfg.SoftFail = c.Bool("soft-fail")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("headless") {
		cfg.Headless = c.Bool("headless")
	}
	if c.IsSet("report-dir") {
		cfg.ReportDir = c.String("report-dir")
	}
	if c.Bool("verbose") {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	return cfg.Validate()
}

// filterFrom builds the scenario filter. The static engine has no layout or
// script support, so live scenarios are excluded unless tags were asked for.
func filterFrom(c *cli.Context, cfg config.Config) (scenario.Filter, error) {
	filter := scenario.Filter{
		Suites:      c.StringSlice("suite"),
		Tags:        c.StringSlice("tag"),
		ExcludeTags: append([]string(nil), c.StringSlice("exclude-tag")...),
	}
	for _, name := range filter.Suites {
		if _, ok := suites.ByName(name); !ok {
			return filter, fmt.Errorf("unknown suite %q, expected one of %v", name, suites.Names())
		}
	}
	if cfg.Engine == config.EngineStatic && len(filter.Tags) == 0 {
		filter.ExcludeTags = append(filter.ExcludeTags, scenario.TagLive)
	}
	return filter, nil
}

// Run executes the selected suites and writes the report. It fails with exit
// code 1 when a scenario hard-failed.
func Run(c *cli.Context) error {
	logger := newLogger(c.App.ErrWriter, logrus.InfoLevel)

	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}
	if err := applyFlags(c, &cfg); err != nil {
		return err
	}
	logger.SetLevel(cfg.Level())

	filter, err := filterFrom(c, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := execute(ctx, cfg, filter, logger)
	if report != nil {
		printSummary(c, report)
		paths, serr := storage.NewReportStore(cfg.ReportDir).Save(report)
		if serr != nil {
			logger.Errorf("failed to save report: %v", serr)
		} else {
			logger.WithField("files", paths).Info("report saved")
		}
	}
	if err != nil {
		return err
	}
	if report.Failed() {
		return cli.Exit(fmt.Sprintf("%d scenarios failed", report.Count(entities.OutcomeFailed)), 1)
	}
	return nil
}

func execute(ctx context.Context, cfg config.Config, filter scenario.Filter, logger *logrus.Logger) (*entities.RunReport, error) {
	b, err := browser.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warnf("failed to close browser: %v", err)
		}
	}()

	statuses := httpcheck.NewClient(httpcheck.Options{
		RetryMax: cfg.Links.Retries,
		Timeout:  cfg.Links.Timeout,
	}, logger)
	session := scenario.NewSession(cfg, b, security.NewLinkPolicy(cfg.Domain, logger), statuses, logger)

	runner := scenario.NewRunner(session, scenario.Options{
		Retries:  cfg.Retries,
		SoftFail: cfg.SoftFail,
		Timeout:  cfg.Timeouts.Scenario,
	}, logger)

	logger.WithFields(logrus.Fields{
		"engine":   cfg.Engine,
		"base_url": cfg.BaseURL,
	}).Info("starting run")
	return runner.Run(ctx, suites.All(), filter)
}

func printSummary(c *cli.Context, report *entities.RunReport) {
	out := c.App.Writer
	for _, res := range report.Results {
		switch res.Outcome {
		case entities.OutcomeFailed, entities.OutcomeSoftFailed:
			fmt.Fprintf(out, "%-11s %s: %s\n", res.Outcome, res.FullName(), res.Error)
		}
	}
	fmt.Fprintf(out, "\n%d passed, %d failed, %d soft failed, %d skipped in %s\n",
		report.Count(entities.OutcomePassed),
		report.Count(entities.OutcomeFailed),
		report.Count(entities.OutcomeSoftFailed),
		report.Count(entities.OutcomeSkipped),
		report.Finished.Sub(report.Started).Round(time.Millisecond))
}
