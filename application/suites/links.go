package suites

import (
	"context"
	"fmt"
	"strings"

	"fundix_e2e/application/helpers"
	"fundix_e2e/application/locator"
	"fundix_e2e/application/pages"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/config"
)

// LinksSuite checks every link of the page: targets, hrefs, accessibility and
// the status of the internal ones
func LinksSuite() scenario.Suite {
	var scenarios []scenario.Scenario
	for _, label := range pages.HeaderNavLabels {
		scenarios = append(scenarios,
			scenario.Scenario{Name: "header " + label + " link has href", Run: headerLinkHref(label)},
			scenario.Scenario{Name: "header " + label + " link stays on domain", Run: headerLinkNavigates(label)},
			scenario.Scenario{Name: "header " + label + " link color", Run: headerLinkColor(label)},
		)
	}
	for _, label := range pages.FooterNavLabels {
		scenarios = append(scenarios,
			scenario.Scenario{Name: "footer " + label + " link exists", Run: footerLinkExists(label)},
			scenario.Scenario{Name: "footer " + label + " link stays on domain", Run: footerLinkNavigates(label)},
		)
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "header logo link", Run: headerLogoLink},
		scenario.Scenario{Name: "footer logo link", Run: footerLogoLink},
		scenario.Scenario{Name: "all get funded buttons visible", Run: allGetFundedVisible},
		scenario.Scenario{Name: "hero google play link", Run: googlePlayHref},
		scenario.Scenario{Name: "footer google play link", Run: footerGooglePlayHref},
		scenario.Scenario{Name: "external links open in new tab", SoftIf: softTargets, Run: externalTargets},
		scenario.Scenario{Name: "anchor links update url", Tags: []string{scenario.TagLive}, Run: anchorLinks},
		scenario.Scenario{Name: "links with text have href", Run: linksHaveHref},
		scenario.Scenario{Name: "accessible link text", Run: accessibleLinkText},
		scenario.Scenario{Name: "first link focusable", Run: firstLinkFocus},
		scenario.Scenario{Name: "internal link status codes", Tags: []string{scenario.TagNetwork}, Run: internalStatuses},
		scenario.Scenario{Name: "header link hover", Run: headerLinkHover},
		scenario.Scenario{Name: "footer link hover", Run: footerLinkHover},
		scenario.Scenario{Name: "link click with tracking", Run: trackedClick},
	)
	return scenario.Suite{Name: Links, Scenarios: scenarios}
}

func headerLinkHref(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		link := s.Page.HeaderLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		_, err := s.Elements.VerifyAttribute(ctx, link, "href")
		return err
	}
}

// headerLinkNavigates clicks a header link. A fragment link may keep the URL
// as is, any other has to land on its last path segment.
func headerLinkNavigates(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		link := s.Page.HeaderLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		href, _, err := link.Attribute(ctx, "href")
		if err != nil {
			return err
		}
		if err := clickAndSettle(ctx, s, link); err != nil {
			return err
		}

		segments := strings.Split(strings.TrimSuffix(href, "/"), "/")
		last := segments[len(segments)-1]
		desc := fmt.Sprintf("url on %s matching %q", s.Config.Domain, href)
		return s.URLs.VerifyURLSatisfies(ctx, desc, func(current string) bool {
			if !helpers.OnDomain(current, s.Config.Domain) {
				return false
			}
			return strings.Contains(href, "#") || strings.Contains(current, last)
		})
	}
}

func headerLinkColor(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		link := s.Page.HeaderLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		_, err := verifyCSS(ctx, link, "color")
		return err
	}
}

func footerLinkExists(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := scrollToBottom(ctx, s); err != nil {
			return err
		}
		link := s.Page.FooterLink(label)
		if err := verifyVisible(ctx, s, link); err != nil {
			return err
		}
		_, err := s.Elements.VerifyAttribute(ctx, link, "href")
		return err
	}
}

func footerLinkNavigates(label string) step {
	return func(ctx context.Context, s *scenario.Session) error {
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
		return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
	}
}

func headerLogoLink(ctx context.Context, s *scenario.Session) error {
	logo := s.Page.Logo()
	if err := verifyVisible(ctx, s, logo); err != nil {
		return err
	}
	if _, err := s.Elements.VerifyAttribute(ctx, logo, "href"); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, logo); err != nil {
		return err
	}
	return s.URLs.VerifyURLEquals(ctx, s.Page.BaseURL())
}

func footerLogoLink(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	logo := s.Page.FooterLogo()
	if err := verifyVisible(ctx, s, logo); err != nil {
		return err
	}
	if err := clickAndSettle(ctx, s, logo); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}

func allGetFundedVisible(ctx context.Context, s *scenario.Session) error {
	ref := s.Resolver.Ref(locator.Contains("button, a", pages.NavGetFunded).WithName("get funded buttons"))
	nodes, err := ref.Nodes(ctx)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return entities.Assertf("count", ref.String(), ">= 1", "0")
	}
	for i, n := range nodes {
		visible, err := n.Visible(ctx)
		if err != nil {
			return err
		}
		if !visible {
			return entities.Assertf("visible", fmt.Sprintf("%s #%d", ref.String(), i), "visible", "hidden")
		}
	}
	return nil
}

func footerGooglePlayHref(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	button := footerGooglePlay(s)
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	_, err := s.Elements.VerifyAttribute(ctx, button, "href")
	return err
}

func externalTargets(ctx context.Context, s *scenario.Session) error {
	links, err := s.Links.Collect(ctx, "a")
	if err != nil {
		return err
	}
	return s.Links.VerifyExternalTargets(links)
}

// softTargets reports a same-tab external link as a soft failure when the run
// is configured to tolerate them
func softTargets(cfg config.Config) bool {
	return cfg.Links.SoftTargets
}

// anchorLinks clicks every visible fragment link and expects the fragment in the URL
func anchorLinks(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, `a[href^="#"]`, func(name string, n interfaces.Node) error {
		href, _, err := n.Attribute(ctx, "href")
		if err != nil || href == "#" {
			return err
		}
		visible, err := n.Visible(ctx)
		if err != nil || !visible {
			return err
		}
		if err := n.Click(ctx); err != nil {
			return fmt.Errorf("failed to click %s: %w", name, err)
		}
		if err := s.Waiter.Fixed(ctx, s.Waiter.Timings().Scroll); err != nil {
			return err
		}
		return s.URLs.VerifyURLIncludes(ctx, href)
	})
}

func linksHaveHref(ctx context.Context, s *scenario.Session) error {
	links, err := s.Links.Collect(ctx, "a")
	if err != nil {
		return err
	}
	var missing []string
	for i, l := range links {
		if l.Text != "" && !l.HasHref {
			missing = append(missing, fmt.Sprintf("#%d %q", i, l.Text))
		}
	}
	if len(missing) > 0 {
		return entities.Assertf("link-href", "links with text", "href attribute", "%s", strings.Join(missing, ", "))
	}
	return nil
}

func accessibleLinkText(ctx context.Context, s *scenario.Session) error {
	return s.Links.VerifyAccessibleText(ctx)
}

func firstLinkFocus(ctx context.Context, s *scenario.Session) error {
	return verifyFocusable(ctx, s, s.Resolver.Ref(locator.CSS("a").WithName("first link")))
}

func internalStatuses(ctx context.Context, s *scenario.Session) error {
	links, err := s.Links.Collect(ctx, "a")
	if err != nil {
		return err
	}
	return s.Links.CheckStatuses(ctx, links)
}

func headerLinkHover(ctx context.Context, s *scenario.Session) error {
	link := s.Page.HeaderLink(pages.NavHowItWorks)
	if err := link.Hover(ctx); err != nil {
		return err
	}
	if _, err := verifyCSS(ctx, link, "color"); err != nil {
		return err
	}
	return verifyVisible(ctx, s, link)
}

func footerLinkHover(ctx context.Context, s *scenario.Session) error {
	if err := scrollToBottom(ctx, s); err != nil {
		return err
	}
	link := s.Page.FooterLink(pages.NavFAQ)
	if err := link.Hover(ctx); err != nil {
		return err
	}
	_, err := verifyCSS(ctx, link, "color")
	return err
}

// trackedClick clicks a header link on a page that may carry analytics hooks
func trackedClick(ctx context.Context, s *scenario.Session) error {
	if err := clickAndSettle(ctx, s, s.Page.HeaderLink(pages.NavFAQ)); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}
