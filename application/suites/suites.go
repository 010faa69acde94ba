// Package suites holds the landing page scenarios, one file per area.
package suites

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fundix_e2e/application/locator"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// Suite names
const (
	Navigation  = "navigation"
	Content     = "content"
	Interactive = "interactive"
	Visual      = "visual"
	Links       = "links"
	EdgeCases   = "edge-cases"
)

// All returns every suite in run order
func All() []scenario.Suite {
	return []scenario.Suite{
		NavigationSuite(),
		ContentSuite(),
		InteractiveSuite(),
		VisualSuite(),
		LinksSuite(),
		EdgeCasesSuite(),
	}
}

// ByName returns the suite called name
func ByName(name string) (scenario.Suite, bool) {
	for _, s := range All() {
		if s.Name == name {
			return s, true
		}
	}
	return scenario.Suite{}, false
}

// Names returns the suite names in run order
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	return names
}

// step is the body of a scenario
type step func(ctx context.Context, s *scenario.Session) error

func verifyVisible(ctx context.Context, s *scenario.Session, refs ...*locator.Ref) error {
	for _, ref := range refs {
		if err := s.Elements.VerifyVisible(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func verifyTextsVisible(ctx context.Context, s *scenario.Session, patterns ...*regexp.Regexp) error {
	for _, re := range patterns {
		if err := s.Elements.VerifyTextVisible(ctx, re); err != nil {
			return err
		}
	}
	return nil
}

// verifyCSS fails unless property has a computed value, one of allowed when given
func verifyCSS(ctx context.Context, ref *locator.Ref, property string, allowed ...string) (string, error) {
	value, err := ref.CSS(ctx, property)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", entities.Assertf("has-css", ref.String(), property, "no computed value")
	}
	if len(allowed) == 0 {
		return value, nil
	}
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", entities.Assertf("css-value", ref.String(), fmt.Sprintf("%s in %v", property, allowed), "%s", value)
}

// pixels parses a CSS length such as "16px"
func pixels(value string) (float64, error) {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "px"))
	return strconv.ParseFloat(v, 64)
}

// scrollToBottom scrolls to the end of the page and waits the scroll settle time
func scrollToBottom(ctx context.Context, s *scenario.Session) error {
	return s.Scroller.ScrollTo(ctx, entities.ScrollToBottom(), s.Waiter.Timings().Scroll)
}

func scrollToTop(ctx context.Context, s *scenario.Session) error {
	return s.Scroller.ScrollTo(ctx, entities.ScrollToTop(), s.Waiter.Timings().Scroll)
}

func scrollToY(ctx context.Context, s *scenario.Session, y float64) error {
	return s.Scroller.ScrollTo(ctx, entities.ScrollToY(y), s.Waiter.Timings().Scroll)
}

// clickAndSettle clicks ref and waits for the page to settle after navigation
func clickAndSettle(ctx context.Context, s *scenario.Session, ref *locator.Ref) error {
	if err := ref.Click(ctx); err != nil {
		return err
	}
	return s.Waiter.Navigation(ctx)
}

// visitFresh loads the root page without dismissing the cookie banner
func visitFresh(ctx context.Context, s *scenario.Session) error {
	if err := s.Browser.Navigate(ctx, s.Page.BaseURL()); err != nil {
		return fmt.Errorf("failed to open %s: %w", s.Page.BaseURL(), err)
	}
	return s.Waiter.PageLoad(ctx, 0)
}

// forEachNode runs fn on every node matching selector right now. name
// identifies the node in assertion errors.
func forEachNode(ctx context.Context, s *scenario.Session, selector string, fn func(name string, n interfaces.Node) error) error {
	nodes, err := s.Browser.Query(ctx, selector)
	if err != nil {
		return fmt.Errorf("failed to query %q: %w", selector, err)
	}
	for i, n := range nodes {
		if err := fn(fmt.Sprintf("%s #%d", selector, i), n); err != nil {
			return err
		}
	}
	return nil
}

// setViewport resizes the window and waits for the layout to settle
func setViewport(ctx context.Context, s *scenario.Session, vp entities.Viewport) error {
	if err := s.Browser.SetViewport(ctx, vp); err != nil {
		return fmt.Errorf("failed to set %s viewport: %w", vp.Name, err)
	}
	return s.Waiter.Animation(ctx)
}

// verifyScrolledFrom fails unless the offset moved away from before
func verifyScrolledFrom(ctx context.Context, s *scenario.Session, before float64) error {
	changed, err := s.Scroller.HasChanged(ctx, before)
	if err != nil {
		return err
	}
	if !changed {
		after, _ := s.Scroller.Current(ctx)
		return entities.Assertf("scroll-changed", "window", fmt.Sprintf("offset != %.0f", before), "%.0f", after)
	}
	return nil
}
