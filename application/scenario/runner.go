package scenario

import (
	"context"
	"fmt"
	"time"

	"fundix_e2e/domain/entities"

	"github.com/sirupsen/logrus"
)

// Options control retries, soft failures and budgets of a run
type Options struct {
	// Retries is the number of extra attempts after a failure
	Retries int
	// SoftFail is the default for scenarios without an override
	SoftFail bool
	// Timeout bounds one attempt, visit included
	Timeout time.Duration
	// OnResult is called after each scenario
	OnResult func(entities.ScenarioResult)
}

// Runner executes suites against one session
type Runner struct {
	session *Session
	opts    Options
	logger  *logrus.Logger
}

// NewRunner - creates new scenario runner
func NewRunner(session *Session, opts Options, logger *logrus.Logger) *Runner {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Runner{session: session, opts: opts, logger: logger}
}

// Run executes every scenario the filter selects, in order. The returned
// report is complete unless ctx ended, in which case the context error is
// returned with the partial report.
func (r *Runner) Run(ctx context.Context, suites []Suite, filter Filter) (*entities.RunReport, error) {
	report := &entities.RunReport{
		BaseURL:  r.session.Config.BaseURL,
		Engine:   r.session.Config.Engine,
		SoftFail: r.opts.SoftFail,
		Started:  time.Now(),
	}
	defer func() { report.Finished = time.Now() }()

	for _, suite := range suites {
		if !filter.IncludesSuite(suite.Name) {
			continue
		}
		for _, sc := range suite.Scenarios {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			var res entities.ScenarioResult
			if filter.Includes(sc) {
				res = r.RunScenario(ctx, suite.Name, sc)
			} else {
				res = entities.ScenarioResult{Suite: suite.Name, Name: sc.Name, Outcome: entities.OutcomeSkipped, Tags: sc.Tags}
			}
			report.Add(res)
			if r.opts.OnResult != nil {
				r.opts.OnResult(res)
			}
		}
	}

	r.logger.Infof("run finished: %d passed, %d failed, %d soft failed, %d skipped",
		report.Count(entities.OutcomePassed), report.Count(entities.OutcomeFailed),
		report.Count(entities.OutcomeSoftFailed), report.Count(entities.OutcomeSkipped))
	return report, nil
}

// RunScenario runs one scenario with retries and classifies the outcome
func (r *Runner) RunScenario(ctx context.Context, suite string, sc Scenario) entities.ScenarioResult {
	log := r.logger.WithFields(logrus.Fields{"suite": suite, "scenario": sc.Name})
	res := entities.ScenarioResult{Suite: suite, Name: sc.Name, Tags: sc.Tags}
	start := time.Now()

	var err error
	for attempt := 0; attempt <= r.opts.Retries; attempt++ {
		res.Attempts = attempt + 1
		if err = r.attempt(ctx, sc); err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		log.Debugf("attempt %d failed: %v", res.Attempts, err)
	}
	res.Duration = time.Since(start)

	switch {
	case err == nil:
		res.Outcome = entities.OutcomePassed
		log.Info("passed")
	case r.softFor(sc):
		res.Outcome = entities.OutcomeSoftFailed
		res.Error = err.Error()
		log.Warnf("soft failed: %v", err)
	default:
		res.Outcome = entities.OutcomeFailed
		res.Error = err.Error()
		log.Errorf("failed: %v", err)
	}
	return res
}

func (r *Runner) softFor(sc Scenario) bool {
	if sc.SoftFail != nil {
		return *sc.SoftFail
	}
	if sc.SoftIf != nil && sc.SoftIf(r.session.Config) {
		return true
	}
	return r.opts.SoftFail
}

// attempt resets the session, visits the page and runs the scenario once
func (r *Runner) attempt(ctx context.Context, sc Scenario) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scenario panicked: %v", p)
		}
	}()
	if sc.Run == nil {
		return fmt.Errorf("scenario %q has no body", sc.Name)
	}
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	s := r.session
	if err := s.Browser.ClearCookies(ctx); err != nil {
		s.Logger.Warnf("failed to clear cookies: %v", err)
	}
	if err := s.Browser.SetViewport(ctx, s.Config.Viewport()); err != nil {
		return fmt.Errorf("failed to reset viewport: %w", err)
	}
	if !sc.SkipVisit {
		if err := s.Page.Visit(ctx); err != nil {
			return err
		}
	}
	return sc.Run(ctx, s)
}
