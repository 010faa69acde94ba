package suites

import (
	"context"
	"regexp"

	"fundix_e2e/application/pages"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
)

var patternAllRightsReserved = regexp.MustCompile(`All Rights Reserved`)

// NavigationSuite checks the header and footer navigation
func NavigationSuite() scenario.Suite {
	scenarios := []scenario.Scenario{
		{Name: "header logo visible", Run: headerLogoVisible},
		{Name: "logo click keeps position", Run: logoClickKeepsPosition},
		{Name: "header navigation links visible", Run: headerLinksVisible},
	}
	for _, label := range pages.HeaderNavLabels {
		scenarios = append(scenarios, scenario.Scenario{
			Name: label + " link scrolls page",
			Run:  headerLinkScrolls(label),
		})
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "get funded button in header", Run: headerGetFundedVisible},
		scenario.Scenario{Name: "get funded click stays on domain", Run: headerGetFundedStaysOnDomain},
		scenario.Scenario{Name: "footer visible after scrolling", Run: footerVisible},
		scenario.Scenario{Name: "footer logo visible", Run: footerLogoVisible},
		scenario.Scenario{Name: "footer navigation links visible", Run: footerLinksVisible},
	)
	for _, label := range pages.HeaderNavLabels {
		scenarios = append(scenarios, scenario.Scenario{
			Name: "footer " + label + " link scrolls page",
			Run:  footerLinkScrolls(label),
		})
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "footer legal documents link stays on domain", Run: footerLegalStaysOnDomain},
		scenario.Scenario{Name: "copyright in footer", Run: footerCopyright},
		scenario.Scenario{Name: "company information in footer", Run: footerCompanyInfo},
	)
	for _, label := range pages.HeaderNavLabels {
		scenarios = append(scenarios, scenario.Scenario{
			Name: label + " link has href",
			Run:  navLinkHasHref(label),
		})
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "navigation on desktop", Run: navigationOnDesktop},
		scenario.Scenario{Name: "navigation on tablet", Run: logoOnViewport(pages.ViewportTablet)},
		scenario.Scenario{Name: "navigation on mobile", Run: logoOnViewport(pages.ViewportMobile)},
	)
	return scenario.Suite{Name: Navigation, Scenarios: scenarios}
}

func headerLogoVisible(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.Logo()); err != nil {
		return err
	}
	_, err := s.Elements.VerifyAttribute(ctx, s.Page.Logo(), "href")
	return err
}

// logoClickKeepsPosition clicks the logo from the top of the page. The page
// stays at the root URL and the offset does not move.
func logoClickKeepsPosition(ctx context.Context, s *scenario.Session) error {
	if err := scrollToTop(ctx, s); err != nil {
		return err
	}
	click := func(ctx context.Context) error { return s.Page.Logo().Click(ctx) }
	if err := s.Scroller.VerifyScrollUnchanged(ctx, click, s.Waiter.Timings().Navigation); err != nil {
		return err
	}
	return s.URLs.VerifyURLEquals(ctx, s.Page.BaseURL())
}

func headerLinksVisible(ctx context.Context, s *scenario.Session) error {
	return verifyVisible(ctx, s, s.Page.NavigationLinks()...)
}

func headerLinkScrolls(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := scrollToTop(ctx, s); err != nil {
			return err
		}
		link := s.Page.HeaderLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		if err := s.Scroller.VerifyScrollAfter(ctx, link.Click, s.Waiter.Timings().Navigation); err != nil {
			return err
		}
		return s.URLs.VerifyURLEquals(ctx, s.Page.BaseURL())
	}
}

func headerGetFundedVisible(ctx context.Context, s *scenario.Session) error {
	return verifyVisible(ctx, s, s.Page.HeaderGetFundedButton())
}

func headerGetFundedStaysOnDomain(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.HeaderGetFundedButton()); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, s.Page.HeaderGetFundedButton()); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}

func footerVisible(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	return verifyVisible(ctx, s, s.Page.Footer())
}

func footerLogoVisible(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	return verifyVisible(ctx, s, s.Page.FooterLogo())
}

func footerLinksVisible(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	for _, label := range pages.FooterNavLabels {
		if err := verifyVisible(ctx, s, s.Page.FooterLink(label)); err != nil {
			return err
		}
	}
	return nil
}

// footerLinkScrolls samples the offset at the top, clicks the footer link from
// the bottom and expects to land somewhere else than the top
func footerLinkScrolls(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := scrollToTop(ctx, s); err != nil {
			return err
		}
		before, err := s.Scroller.Current(ctx)
		if err != nil {
			return err
		}
		if err := scrollToBottom(ctx, s); err != nil {
			return err
		}

		link := s.Page.FooterLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		if err := clickAndSettle(ctx, s, link); err != nil {
			return err
		}
		if err := verifyScrolledFrom(ctx, s, before); err != nil {
			return err
		}
		return s.URLs.VerifyURLEquals(ctx, s.Page.BaseURL())
	}
}

func footerLegalStaysOnDomain(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	link := s.Page.FooterLink(pages.NavLegalDocuments)
	if err := verifyVisible(ctx, s, link); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, link); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}

func footerCopyright(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	if err := verifyVisible(ctx, s, s.Page.CopyrightText()); err != nil {
		return err
	}
	return s.Elements.VerifyTextMatches(ctx, s.Page.CopyrightText(), patternAllRightsReserved)
}

func footerCompanyInfo(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	return s.Elements.VerifyBodyContains(ctx, pages.CompanyName, pages.CompanyLocation)
}

func navLinkHasHref(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		link := s.Page.NavLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		_, err := s.Elements.VerifyAttribute(ctx, link, "href")
		return err
	}
}

func navigationOnDesktop(ctx context.Context, s *scenario.Session) error {
	if err := setViewport(ctx, s, pages.ViewportDesktop); err != nil {
		return err
	}
	if err := verifyVisible(ctx, s, s.Page.Logo()); err != nil {
		return err
	}
	for _, label := range pages.HeaderNavLabels {
		if err := verifyVisible(ctx, s, s.Page.NavLink(label)); err != nil {
			return err
		}
	}
	return verifyVisible(ctx, s, s.Page.GetFundedButton())
}

// logoOnViewport only expects the logo. Below desktop widths the header
// links may collapse into a menu.
func logoOnViewport(vp entities.Viewport) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := setViewport(ctx, s, vp); err != nil {
			return err
		}
		return verifyVisible(ctx, s, s.Page.Logo())
	}
}
