package suites

import (
	"context"
	"regexp"
	"strings"

	"fundix_e2e/application/consent"
	"fundix_e2e/application/locator"
	"fundix_e2e/application/pages"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

var (
	patternAcceptLabel = regexp.MustCompile(`Okay|Accept`)
	patternTimeFilter  = regexp.MustCompile(`(?i)Week|Month|Quarter|Year`)
	patternStoreHref   = regexp.MustCompile(`play\.google\.com|google`)
)

const footerScope = `footer a, [class*="footer"] a`

// timeFilters are the leaderboard period buttons of the pro traders section
var timeFilters = []string{"Week", "Month", "Quarter", "Year"}

// InteractiveSuite checks the cookie banner, the call-to-action buttons and
// other controls the visitor interacts with
func InteractiveSuite() scenario.Suite {
	scenarios := []scenario.Scenario{
		{Name: "cookie banner visible", SkipVisit: true, Run: withBanner(textsVisible(consent.Signature))},
		{Name: "cookie banner message", SkipVisit: true, Run: withBanner(textsVisible(pages.PatternCookieMessage))},
		{Name: "cookie accept button text", SkipVisit: true, Run: withBanner(acceptButtonText)},
		{Name: "cookie banner dismissed on accept", SkipVisit: true, Run: withBanner(acceptHidesBanner)},
		{Name: "cookie banner absent after reload", SkipVisit: true, Run: withBanner(bannerAbsentAfterReload)},
		{Name: "cookie banner dismissal idempotent", SkipVisit: true, Run: withBanner(dismissTwice)},
		{Name: "multiple get funded buttons", Run: getFundedCount},
		{Name: "header get funded click", Run: headerGetFundedStaysOnDomain},
		{Name: "main content get funded click", Run: mainGetFundedStaysOnDomain},
		{Name: "get funded cursor", Run: getFundedCursor},
		{Name: "hero google play button", Run: heroGooglePlayVisible},
		{Name: "footer google play button", Run: footerGooglePlayVisible},
		{Name: "google play external link", Run: googlePlayHref},
		{Name: "google play styling", Run: googlePlayDisplay},
		{Name: "time filters shown", SoftFail: scenario.Soft(), Run: timeFiltersShown},
	}
	for _, label := range timeFilters {
		scenarios = append(scenarios, scenario.Scenario{
			Name:     strings.ToLower(label) + " filter click",
			SoftFail: scenario.Soft(),
			Run:      clickFilter(label),
		})
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "feature card hover", Run: featureCardHover},
		scenario.Scenario{Name: "step cards visible", Run: stepCardsVisible},
		scenario.Scenario{Name: "step cards hover", Run: stepCardsHover},
		scenario.Scenario{Name: "scroll through page", Run: scrollThroughPage},
		scenario.Scenario{Name: "header visible while scrolling", Run: headerVisibleWhileScrolling},
		scenario.Scenario{Name: "buttons not disabled", Run: buttonsNotDisabled},
		scenario.Scenario{Name: "get funded hover cursor", Run: getFundedHoverCursor},
		scenario.Scenario{Name: "input fields visible", Run: fieldsVisible},
	)
	return scenario.Suite{Name: Interactive, Scenarios: scenarios}
}

// withBanner opens the page with the cookie banner still showing
func withBanner(next step) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := visitFresh(ctx, s); err != nil {
			return err
		}
		return next(ctx, s)
	}
}

func acceptButtonText(ctx context.Context, s *scenario.Session) error {
	button := s.Page.CookieAcceptButton()
	if err := s.Elements.VerifyTextMatches(ctx, button, patternAcceptLabel); err != nil {
		return err
	}
	return verifyVisible(ctx, s, button)
}

func acceptHidesBanner(ctx context.Context, s *scenario.Session) error {
	if err := s.Page.CookieAcceptButton().Click(ctx); err != nil {
		return err
	}
	if err := s.Waiter.Fixed(ctx, s.Waiter.Timings().Scroll); err != nil {
		return err
	}
	return s.Consent.VerifyDismissed(ctx)
}

func bannerAbsentAfterReload(ctx context.Context, s *scenario.Session) error {
	if err := s.Page.CookieAcceptButton().Click(ctx); err != nil {
		return err
	}
	if err := s.Waiter.Fixed(ctx, s.Waiter.Timings().Scroll); err != nil {
		return err
	}
	if err := s.Browser.Reload(ctx); err != nil {
		return err
	}
	if err := s.Waiter.PageLoad(ctx, 0); err != nil {
		return err
	}

	state, err := s.Consent.State(ctx)
	if err != nil {
		return err
	}
	if state != entities.ConsentAbsent {
		return entities.Assertf("consent-persisted", "cookie banner", string(entities.ConsentAbsent), "%s", state)
	}
	return nil
}

func dismissTwice(ctx context.Context, s *scenario.Session) error {
	first, err := s.Consent.Dismiss(ctx)
	if err != nil {
		return err
	}
	second, err := s.Consent.Dismiss(ctx)
	if err != nil {
		return err
	}
	if first != second {
		return entities.Assertf("consent-idempotent", "cookie banner", string(first), "%s", second)
	}
	return s.Consent.VerifyDismissed(ctx)
}

func getFundedCount(ctx context.Context, s *scenario.Session) error {
	n, err := s.Resolver.Ref(locator.Contains("button, a", pages.NavGetFunded)).Count(ctx)
	if err != nil {
		return err
	}
	if n < 1 {
		return entities.Assertf("count", "get funded buttons", ">= 1", "%d", n)
	}
	return nil
}

func mainGetFundedStaysOnDomain(ctx context.Context, s *scenario.Session) error {
	if err := scrollToY(ctx, s, 500); err != nil {
		return err
	}
	button := s.Page.GetFundedButton()
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, button); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}

func getFundedCursor(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GetFundedButton()
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	_, err := verifyCSS(ctx, button, "cursor", "pointer", "default")
	return err
}

func heroGooglePlayVisible(ctx context.Context, s *scenario.Session) error {
	return verifyVisible(ctx, s, s.Page.GooglePlayButton())
}

func footerGooglePlay(s *scenario.Session) *locator.Ref {
	return s.Resolver.Ref(locator.Matches(footerScope, pages.PatternGooglePlay).WithName("footer google play button"))
}

func footerGooglePlayVisible(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	return verifyVisible(ctx, s, footerGooglePlay(s))
}

func googlePlayHref(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GooglePlayButton()
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	href, err := s.Elements.VerifyAttribute(ctx, button, "href")
	if err != nil {
		return err
	}
	if !patternStoreHref.MatchString(href) {
		return entities.Assertf("store-link", button.String(), "href to play.google.com", "%s", href)
	}
	return nil
}

func googlePlayDisplay(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GooglePlayButton()
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	_, err := verifyCSS(ctx, button, "display")
	return err
}

// timeFiltersShown only expects the filters when the page mentions a period
func timeFiltersShown(ctx context.Context, s *scenario.Session) error {
	if err := scrollToY(ctx, s, 500); err != nil {
		return err
	}
	body, err := s.Browser.BodyText(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(body, "Week") && !strings.Contains(body, "Month") {
		s.Logger.Info("no time filters on the page")
		return nil
	}
	return s.Elements.VerifyTextVisible(ctx, patternTimeFilter)
}

func clickFilter(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		button := s.Resolver.Ref(locator.Contains("button", label))
		if err := verifyVisible(ctx, s, button); err != nil {
			return err
		}
		if err := button.Click(ctx); err != nil {
			return err
		}
		return s.Waiter.Fixed(ctx, s.Waiter.Timings().Scroll)
	}
}

func featureCardHover(ctx context.Context, s *scenario.Session) error {
	if err := scrollToY(ctx, s, 500); err != nil {
		return err
	}
	if err := s.Page.FeatureCards().FreeInternship.Hover(ctx); err != nil {
		return err
	}
	return s.Waiter.Animation(ctx)
}

func stepCards(s *scenario.Session) []*locator.Ref {
	steps := s.Page.Steps()
	return []*locator.Ref{steps.Step1, steps.Step2, steps.Step3}
}

func stepCardsVisible(ctx context.Context, s *scenario.Session) error {
	if err := scrollToY(ctx, s, 1000); err != nil {
		return err
	}
	return verifyVisible(ctx, s, stepCards(s)...)
}

func stepCardsHover(ctx context.Context, s *scenario.Session) error {
	if err := scrollToY(ctx, s, 1000); err != nil {
		return err
	}
	for _, card := range stepCards(s) {
		if err := card.Hover(ctx); err != nil {
			return err
		}
		if err := s.Waiter.Animation(ctx); err != nil {
			return err
		}
	}
	return nil
}

func scrollThroughPage(ctx context.Context, s *scenario.Session) error {
	start, err := s.Scroller.Current(ctx)
	if err != nil {
		return err
	}
	for _, y := range []float64{500, 1000, 1500} {
		if err := scrollToY(ctx, s, y); err != nil {
			return err
		}
	}
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	return verifyScrolledFrom(ctx, s, start)
}

func headerVisibleWhileScrolling(ctx context.Context, s *scenario.Session) error {
	for _, y := range []float64{500, 1000} {
		if err := scrollToY(ctx, s, y); err != nil {
			return err
		}
		if err := verifyVisible(ctx, s, s.Page.Logo()); err != nil {
			return err
		}
	}
	return nil
}

func buttonsNotDisabled(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, `button:not([disabled]), a[role="button"]`, func(name string, n interfaces.Node) error {
		visible, err := n.Visible(ctx)
		if err != nil || !visible {
			return err
		}
		if _, disabled, err := n.Attribute(ctx, "disabled"); err != nil {
			return err
		} else if disabled {
			return entities.Assertf("enabled", name, "enabled", "disabled")
		}
		return nil
	})
}

func getFundedHoverCursor(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GetFundedButton()
	if err := button.Hover(ctx); err != nil {
		return err
	}
	_, err := verifyCSS(ctx, button, "cursor")
	return err
}

// fieldsVisible expects any text input on the page to be visible
func fieldsVisible(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, `input[type="text"], input[type="email"], input[type="tel"], textarea`, func(name string, n interfaces.Node) error {
		visible, err := n.Visible(ctx)
		if err != nil {
			return err
		}
		if !visible {
			return entities.Assertf("visible", name, "visible", "hidden")
		}
		return nil
	})
}
