package helpers

import (
	"context"
	"time"

	"fundix_e2e/application/locator"
	"fundix_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Timings are the fixed delays used where no condition can be polled
type Timings struct {
	PageLoad   time.Duration
	Navigation time.Duration
	Animation  time.Duration
	Scroll     time.Duration
}

// DefaultTimings mirror the settle times of the live site
func DefaultTimings() Timings {
	return Timings{
		PageLoad:   2 * time.Second,
		Navigation: 2 * time.Second,
		Animation:  500 * time.Millisecond,
		Scroll:     time.Second,
	}
}

// Waiter provides fixed delays and condition polling
type Waiter struct {
	browser  interfaces.Browser
	resolver *locator.Resolver
	logger   *logrus.Logger
	timings  Timings
}

// NewWaiter - creates new waiter. Conditions are polled with the backoff of resolver.
func NewWaiter(resolver *locator.Resolver, logger *logrus.Logger, timings Timings) *Waiter {
	return &Waiter{browser: resolver.Browser(), resolver: resolver, logger: logger, timings: timings}
}

// Timings returns the configured delays
func (w *Waiter) Timings() Timings {
	return w.timings
}

// Fixed blocks for d. It returns early with the context error if ctx ends first.
func (w *Waiter) Fixed(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Until polls cond until it holds or timeout elapses. It reports whether the
// condition was met; only cancellation of ctx is an error. A zero timeout
// checks cond once.
func (w *Waiter) Until(ctx context.Context, timeout time.Duration, cond func(ctx context.Context) (bool, error)) (bool, error) {
	if timeout <= 0 {
		ok, err := cond(ctx)
		if err != nil && ctx.Err() == nil {
			w.logger.Debugf("wait condition error: %v", err)
			return false, nil
		}
		return ok, err
	}
	return w.resolver.Poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		ok, err := cond(ctx)
		if err != nil {
			w.logger.Debugf("wait condition error: %v", err)
		}
		return ok, err
	})
}

// PageLoad waits the page-load settle time plus additional, then polls
// document.readyState for completion. A page that never reports "complete" is not an error.
func (w *Waiter) PageLoad(ctx context.Context, additional time.Duration) error {
	if err := w.Fixed(ctx, w.timings.PageLoad+additional); err != nil {
		return err
	}

	ready, err := w.Until(ctx, w.timings.PageLoad, func(ctx context.Context) (bool, error) {
		state, err := w.browser.ReadyState(ctx)
		return state == "complete", err
	})
	if err != nil {
		return err
	}
	if !ready {
		w.logger.Warn("page did not reach readyState=complete, continuing")
	}
	return nil
}

// Navigation waits for a triggered navigation to settle
func (w *Waiter) Navigation(ctx context.Context) error {
	return w.Fixed(ctx, w.timings.Navigation)
}

// Animation waits for a CSS transition to finish
func (w *Waiter) Animation(ctx context.Context) error {
	return w.Fixed(ctx, w.timings.Animation)
}
