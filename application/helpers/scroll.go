package helpers

import (
	"context"
	"fmt"
	"time"

	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Scroller samples and changes the vertical scroll position
type Scroller struct {
	browser interfaces.Browser
	waiter  *Waiter
	logger  *logrus.Logger
}

// NewScroller - creates new scroller
func NewScroller(browser interfaces.Browser, waiter *Waiter, logger *logrus.Logger) *Scroller {
	return &Scroller{browser: browser, waiter: waiter, logger: logger}
}

// Current returns the vertical scroll offset in pixels
func (s *Scroller) Current(ctx context.Context) (float64, error) {
	y, err := s.browser.ScrollOffset(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read scroll position: %w", err)
	}
	return y, nil
}

// HasChanged reports whether the offset differs from before
func (s *Scroller) HasChanged(ctx context.Context, before float64) (bool, error) {
	now, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	return now != before, nil
}

// ScrollTo scrolls once and then blocks for settle
func (s *Scroller) ScrollTo(ctx context.Context, target entities.ScrollTarget, settle time.Duration) error {
	s.logger.WithField("target", target.Kind).Debugf("scrolling to y=%.0f", target.Y)
	if err := s.browser.ScrollTo(ctx, target); err != nil {
		return fmt.Errorf("failed to scroll to %s: %w", target.Kind, err)
	}
	return s.waiter.Fixed(ctx, settle)
}

// ScrollIntoView scrolls to the vertical offset of the first match of ref.
// A missing element is reported as ErrElementNotFound.
func (s *Scroller) ScrollIntoView(ctx context.Context, ref *locator.Ref, settle time.Duration) error {
	n, err := ref.First(ctx)
	if err != nil {
		return err
	}
	if err := n.ScrollIntoView(ctx); err != nil {
		return fmt.Errorf("failed to scroll %s into view: %w", ref.String(), err)
	}
	return s.waiter.Fixed(ctx, settle)
}

// VerifyScrollAfter runs action and fails unless the scroll offset changed after settle
func (s *Scroller) VerifyScrollAfter(ctx context.Context, action func(ctx context.Context) error, settle time.Duration) error {
	before, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := action(ctx); err != nil {
		return err
	}
	if err := s.waiter.Fixed(ctx, settle); err != nil {
		return err
	}

	after, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if after == before {
		return entities.Assertf("scroll-changed", "window", fmt.Sprintf("offset != %.0f", before), "%.0f", after)
	}
	return nil
}

// VerifyScrollUnchanged runs action and fails if the scroll offset moved
func (s *Scroller) VerifyScrollUnchanged(ctx context.Context, action func(ctx context.Context) error, settle time.Duration) error {
	before, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if err := action(ctx); err != nil {
		return err
	}
	if err := s.waiter.Fixed(ctx, settle); err != nil {
		return err
	}
	changed, err := s.HasChanged(ctx, before)
	if err != nil {
		return err
	}
	if changed {
		after, _ := s.Current(ctx)
		return entities.Assertf("scroll-unchanged", "window", fmt.Sprintf("%.0f", before), "%.0f", after)
	}
	return nil
}
