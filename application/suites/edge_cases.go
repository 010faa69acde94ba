package suites

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fundix_e2e/application/consent"
	"fundix_e2e/application/pages"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// maxLoadTime bounds a full visit of the landing page
const maxLoadTime = 30 * time.Second

const missingPagePath = "nonexistent-page"

// notFoundStatuses are the acceptable answers for a page that does not exist
var notFoundStatuses = []int{http.StatusOK, http.StatusMovedPermanently, http.StatusFound, http.StatusNotFound}

// compatibilityViewports are cycled through within a single page load
var compatibilityViewports = []entities.Viewport{
	pages.ViewportDesktop,
	pages.ViewportLaptop,
	pages.ViewportTablet,
	pages.ViewportMobile,
}

// EdgeCasesSuite covers reloads, history, rapid input and error handling
func EdgeCasesSuite() scenario.Suite {
	return scenario.Suite{Name: EdgeCases, Scenarios: []scenario.Scenario{
		{Name: "reload keeps header", Run: reloadKeepsHeader},
		{Name: "back button stays on domain", Run: historyStaysOnDomain(false)},
		{Name: "forward button stays on domain", Run: historyStaysOnDomain(true)},
		{Name: "cookie banner on repeat visit", SoftFail: scenario.Soft(), Run: bannerOnRepeatVisit},
		{Name: "rapid cookie banner dismissal", SkipVisit: true, Run: withBanner(rapidDismissal)},
		{Name: "rapid navigation clicks", Run: rapidNavigation},
		{Name: "navigation while loading", Run: navigationWhileLoading},
		{Name: "rapid scrolling keeps footer", Run: rapidScrolling},
		{Name: "scroll to top restores logo", Run: scrollTopRestoresLogo},
		{Name: "navigation after scrolling", Run: navigationAfterScrolling},
		{Name: "rapid get funded clicks", Run: rapidGetFundedClicks},
		{Name: "disabled buttons", Run: disabledButtons},
		{Name: "images have sources", Run: imagesHaveSources},
		{Name: "dynamic content loaded", Run: dynamicContent},
		{Name: "viewport sizes", Run: viewportSizes},
		{Name: "missing page status", Tags: []string{scenario.TagNetwork}, Run: missingPageStatus},
		{Name: "load time", SkipVisit: true, Run: loadTime},
		{Name: "large content", Run: largeContent},
		{Name: "keyboard navigation", Run: keyboardNavigation},
		{Name: "screen reader content", Run: elementPresent(`[aria-label], [aria-labelledby], [role]`)},
	}}
}

func reloadKeepsHeader(ctx context.Context, s *scenario.Session) error {
	if err := s.Page.VerifyHeaderElements(ctx); err != nil {
		return err
	}
	if err := s.Browser.Reload(ctx); err != nil {
		return err
	}
	if err := s.Waiter.PageLoad(ctx, 0); err != nil {
		return err
	}
	return s.Page.VerifyHeaderElements(ctx)
}

func historyStaysOnDomain(forward bool) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := clickAndSettle(ctx, s, s.Page.NavLink(pages.NavFAQ)); err != nil {
			return err
		}
		if err := s.Browser.Back(ctx); err != nil {
			return err
		}
		if err := s.Waiter.Navigation(ctx); err != nil {
			return err
		}
		if forward {
			if err := s.Browser.Forward(ctx); err != nil {
				return err
			}
			if err := s.Waiter.Navigation(ctx); err != nil {
				return err
			}
		}
		return s.URLs.VerifyURLIncludes(ctx, s.Config.Domain)
	}
}

// bannerOnRepeatVisit expects a given consent to survive a second visit
func bannerOnRepeatVisit(ctx context.Context, s *scenario.Session) error {
	if err := s.Page.Visit(ctx); err != nil {
		return err
	}
	if err := s.Page.DismissCookieBannerIfPresent(ctx); err != nil {
		return err
	}
	if err := visitFresh(ctx, s); err != nil {
		return err
	}
	return s.Consent.VerifyDismissed(ctx)
}

// rapidDismissal clicks every visible accept control in a row
func rapidDismissal(ctx context.Context, s *scenario.Session) error {
	present, err := s.Elements.TextExists(ctx, "We use cookies")
	if err != nil || !present {
		return err
	}
	err = forEachNode(ctx, s, "button", func(name string, n interfaces.Node) error {
		text, err := n.Text(ctx)
		if err != nil || !consent.MatchesAcceptPhrase(text) {
			return err
		}
		visible, err := n.Visible(ctx)
		if err != nil || !visible {
			return err
		}
		return n.Click(ctx)
	})
	if err != nil {
		return err
	}
	return s.Waiter.Animation(ctx)
}

func rapidNavigation(ctx context.Context, s *scenario.Session) error {
	for _, label := range []string{pages.NavHowItWorks, pages.NavWhyUs, pages.NavFAQ} {
		if err := s.Page.ClickNavigationLink(ctx, label); err != nil {
			return err
		}
		if err := s.Waiter.Animation(ctx); err != nil {
			return err
		}
	}
	if err := s.Waiter.Navigation(ctx); err != nil {
		return err
	}
	return s.URLs.VerifyURLIncludes(ctx, s.Config.Domain)
}

// navigationWhileLoading clicks a link right after a navigation started
func navigationWhileLoading(ctx context.Context, s *scenario.Session) error {
	if err := s.Browser.Navigate(ctx, s.Page.BaseURL()); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, s.Page.NavLink(pages.NavBlog)); err != nil {
		return err
	}
	return s.URLs.VerifyURLIncludes(ctx, s.Config.Domain)
}

func rapidScrolling(ctx context.Context, s *scenario.Session) error {
	const pause = 100 * time.Millisecond
	for _, y := range []float64{500, 1000, 1500} {
		if err := s.Scroller.ScrollTo(ctx, entities.ScrollToY(y), pause); err != nil {
			return err
		}
	}
	if err := s.Scroller.ScrollTo(ctx, entities.ScrollToBottom(), s.Waiter.Timings().Animation); err != nil {
		return err
	}
	return verifyVisible(ctx, s, s.Page.Footer())
}

func scrollTopRestoresLogo(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	if err := scrollToTop(ctx, s); err != nil {
		return err
	}
	y, err := s.Scroller.Current(ctx)
	if err != nil {
		return err
	}
	if y != 0 {
		return entities.Assertf("scroll-top", "window", "offset 0", "%.0f", y)
	}
	return verifyVisible(ctx, s, s.Page.Logo())
}

func navigationAfterScrolling(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	link := s.Page.NavLink(pages.NavFAQ)
	if err := verifyVisible(ctx, s, link); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, link); err != nil {
		return err
	}
	return s.URLs.VerifyURLIncludes(ctx, s.Config.Domain)
}

func rapidGetFundedClicks(ctx context.Context, s *scenario.Session) error {
	for i := 0; i < 3; i++ {
		if err := s.Page.ClickGetFundedButton(ctx); err != nil {
			return fmt.Errorf("click %d: %w", i+1, err)
		}
	}
	if err := s.Waiter.Navigation(ctx); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}

// disabledButtons expects disabled buttons to report themselves as such.
// They are never clicked since engines wait for them to become enabled.
func disabledButtons(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, "button[disabled]", func(name string, n interfaces.Node) error {
		_, disabled, err := n.Attribute(ctx, "disabled")
		if err != nil {
			return err
		}
		if !disabled {
			return entities.Assertf("disabled", name, "disabled attribute", "missing")
		}
		return nil
	})
}

func imagesHaveSources(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, "img", func(name string, n interfaces.Node) error {
		src, ok, err := n.Attribute(ctx, "src")
		if err != nil {
			return err
		}
		if !ok || strings.TrimSpace(src) == "" {
			return entities.Assertf("has-attribute", name, "src", "missing or empty")
		}
		return nil
	})
}

// dynamicContent waits for lazy content before checking the hero
func dynamicContent(ctx context.Context, s *scenario.Session) error {
	if err := s.Waiter.PageLoad(ctx, s.Waiter.Timings().Scroll); err != nil {
		return err
	}
	return verifyVisible(ctx, s, s.Page.HeroHeadline())
}

func viewportSizes(ctx context.Context, s *scenario.Session) error {
	for _, vp := range compatibilityViewports {
		if err := setViewport(ctx, s, vp); err != nil {
			return err
		}
		if err := verifyVisible(ctx, s, s.Page.Logo()); err != nil {
			return fmt.Errorf("%s viewport: %w", vp.Name, err)
		}
	}
	return nil
}

func missingPageStatus(ctx context.Context, s *scenario.Session) error {
	if s.Statuses == nil {
		return fmt.Errorf("no status checker configured")
	}
	target := strings.TrimSuffix(s.Page.BaseURL(), "/") + "/" + missingPagePath
	code, err := s.Statuses.Status(ctx, target)
	if err != nil {
		return err
	}
	for _, ok := range notFoundStatuses {
		if code == ok {
			return nil
		}
	}
	return entities.Assertf("status", target, fmt.Sprintf("status in %v", notFoundStatuses), "%d", code)
}

func loadTime(ctx context.Context, s *scenario.Session) error {
	start := time.Now()
	if err := s.Page.Visit(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start)
	s.Logger.WithField("elapsed", elapsed).Info("landing page loaded")
	if elapsed >= maxLoadTime {
		return entities.Assertf("load-time", s.Page.BaseURL(), fmt.Sprintf("< %s", maxLoadTime), "%s", elapsed)
	}
	return nil
}

func largeContent(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	if err := s.Waiter.Fixed(ctx, s.Waiter.Timings().PageLoad); err != nil {
		return err
	}
	return verifyVisible(ctx, s, bodyRef(s))
}

// keyboardNavigation presses Tab and expects an interactive element to take focus
func keyboardNavigation(ctx context.Context, s *scenario.Session) error {
	if err := s.Browser.PressKey(ctx, "Tab"); err != nil {
		return err
	}
	var focused bool
	err := forEachNode(ctx, s, `a, button, input, select, textarea, [tabindex]`, func(name string, n interfaces.Node) error {
		if focused {
			return nil
		}
		ok, err := n.Focused(ctx)
		if err != nil {
			return err
		}
		focused = ok
		return nil
	})
	if err != nil {
		return err
	}
	if !focused {
		return entities.Assertf("focused", "document", "an interactive element focused after Tab", "none")
	}
	return nil
}
