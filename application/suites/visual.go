package suites

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fundix_e2e/application/locator"
	"fundix_e2e/application/pages"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// minBodyFontSize is the smallest readable body font size in pixels
const minBodyFontSize = 12

// VisualSuite checks styling, icons, images and the responsive layout
func VisualSuite() scenario.Suite {
	return scenario.Suite{Name: Visual, Scenarios: []scenario.Scenario{
		{Name: "logo display", Run: logoDisplay},
		{Name: "logo color", Run: cssPresent(logoRef, "color")},
		{Name: "comparison table icons", Run: afterWhyUs(comparisonIcons)},
		{Name: "rating stars", Run: afterWhyUs(ratingStars)},
		{Name: "decorative graphics", Run: elementPresent(`[class*="shape"], [class*="graphic"], [class*="visual"], svg`)},
		{Name: "body background color", Run: cssPresent(bodyRef, "background-color")},
		{Name: "get funded background color", Run: getFundedBackground},
		{Name: "body text color", Run: cssPresent(bodyRef, "color")},
		{Name: "heading font sizes", Run: headingFontSizes},
		{Name: "readable body font size", Run: bodyFontSize},
		{Name: "header layout", Run: headerLayout},
		{Name: "header spacing", Run: headerSpacing},
		{Name: "hero section visible", Run: heroVisible},
		{Name: "desktop layout", Run: desktopLayout},
		{Name: "laptop layout", Run: viewportLayout(pages.ViewportLaptop, true)},
		{Name: "tablet layout", Run: viewportLayout(pages.ViewportTablet, true)},
		{Name: "mobile layout", Run: viewportLayout(pages.ViewportMobile, false)},
		{Name: "large mobile layout", Run: viewportLayout(pages.ViewportLargeMobile, false)},
		{Name: "images visible with source", Run: imagesVisible},
		{Name: "images load", Tags: []string{scenario.TagNetwork}, Run: imagesLoad},
		{Name: "image dimensions", Tags: []string{scenario.TagLive}, Run: imageDimensions},
		{Name: "scroll offsets", Run: scrollOffsets},
		{Name: "get funded hover", Run: getFundedHover},
		{Name: "get funded focus indicator", Run: getFundedFocus},
		{Name: "link styling", Run: linkStyling},
	}}
}

func logoRef(s *scenario.Session) *locator.Ref { return s.Page.Logo() }

func bodyRef(s *scenario.Session) *locator.Ref {
	return s.Resolver.Ref(locator.CSS("body").WithName("body"))
}

func cssPresent(ref func(s *scenario.Session) *locator.Ref, property string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		_, err := verifyCSS(ctx, ref(s), property)
		return err
	}
}

func elementPresent(selector string) step {
	return func(ctx context.Context, s *scenario.Session) error {
		exists, err := s.Elements.ElementExists(ctx, selector)
		if err != nil {
			return err
		}
		if !exists {
			return entities.Assertf("exists", selector, "present", "missing")
		}
		return nil
	}
}

func logoDisplay(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.Logo()); err != nil {
		return err
	}
	_, err := verifyCSS(ctx, s.Page.Logo(), "display", "block", "inline-block", "flex", "inline-flex")
	return err
}

// comparisonIcons expects icons once the comparison table is rendered
func comparisonIcons(ctx context.Context, s *scenario.Session) error {
	body, err := s.Browser.BodyText(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(body, "Fundix") || !strings.Contains(body, "Others") {
		return nil
	}
	return elementPresent(`svg, [class*="check"], [class*="icon"]`)(ctx, s)
}

func ratingStars(ctx context.Context, s *scenario.Session) error {
	exists, err := s.Page.TrustCards().Rating.Exists(ctx)
	if err != nil || !exists {
		return err
	}
	return elementPresent(`svg, [class*="star"], [class*="rating"]`)(ctx, s)
}

func getFundedBackground(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GetFundedButton()
	if _, err := verifyCSS(ctx, button, "background-color"); err != nil {
		return err
	}
	return verifyVisible(ctx, s, button)
}

func headingFontSizes(ctx context.Context, s *scenario.Session) error {
	for _, tag := range []string{"h1", "h2"} {
		if _, err := verifyCSS(ctx, s.Resolver.Ref(locator.CSS(tag).WithName(tag)), "font-size"); err != nil {
			return err
		}
	}
	return nil
}

func bodyFontSize(ctx context.Context, s *scenario.Session) error {
	value, err := verifyCSS(ctx, bodyRef(s), "font-size")
	if err != nil {
		return err
	}
	size, err := pixels(value)
	if err != nil {
		return entities.Assertf("font-size", "body", "a pixel length", "%s", value)
	}
	if size < minBodyFontSize {
		return entities.Assertf("font-size", "body", fmt.Sprintf(">= %dpx", minBodyFontSize), "%s", value)
	}
	return nil
}

func headerLayout(ctx context.Context, s *scenario.Session) error {
	return verifyVisible(ctx, s, s.Page.Logo(), s.Page.HeaderLink(pages.NavHowItWorks), s.Page.GetFundedButton())
}

func headerSpacing(ctx context.Context, s *scenario.Session) error {
	header := s.Resolver.Ref(locator.CSS(`header, [class*="header"]`).WithName("header"))
	if _, err := verifyCSS(ctx, header, "padding"); err != nil {
		return err
	}
	return verifyVisible(ctx, s, header)
}

func heroVisible(ctx context.Context, s *scenario.Session) error {
	return verifyVisible(ctx, s, s.Page.HeroHeadline())
}

func desktopLayout(ctx context.Context, s *scenario.Session) error {
	if err := setViewport(ctx, s, pages.ViewportDesktop); err != nil {
		return err
	}
	if err := s.Page.VerifyHeaderElements(ctx); err != nil {
		return err
	}
	return verifyVisible(ctx, s, s.Page.HeroHeadline())
}

// viewportLayout expects the logo, and the hero headline when withHero is set
func viewportLayout(vp entities.Viewport, withHero bool) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := setViewport(ctx, s, vp); err != nil {
			return err
		}
		if err := verifyVisible(ctx, s, s.Page.Logo()); err != nil {
			return err
		}
		if !withHero {
			return nil
		}
		return verifyVisible(ctx, s, s.Page.HeroHeadline())
	}
}

func imagesVisible(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, "img", func(name string, n interfaces.Node) error {
		visible, err := n.Visible(ctx)
		if err != nil {
			return err
		}
		if !visible {
			return entities.Assertf("visible", name, "visible", "hidden")
		}
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

// imagesLoad requests every image source and expects it to be served
func imagesLoad(ctx context.Context, s *scenario.Session) error {
	if s.Statuses == nil {
		return fmt.Errorf("no status checker configured")
	}
	base, err := s.URLs.CurrentURL(ctx)
	if err != nil {
		return err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid page url %q: %w", base, err)
	}

	var broken []string
	err = forEachNode(ctx, s, "img[src]", func(name string, n interfaces.Node) error {
		src, _, err := n.Attribute(ctx, "src")
		if err != nil {
			return err
		}
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil || strings.HasPrefix(src, "data:") {
			return nil
		}
		abs := baseURL.ResolveReference(ref).String()
		code, err := s.Statuses.Status(ctx, abs)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			broken = append(broken, fmt.Sprintf("%s (%v)", abs, err))
			return nil
		}
		if code != http.StatusOK && code != http.StatusNotModified {
			broken = append(broken, fmt.Sprintf("%s (%d)", abs, code))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(broken) > 0 {
		return entities.Assertf("image-load", "images", "status 200", "%s", strings.Join(broken, ", "))
	}
	return nil
}

func imageDimensions(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, "img", func(name string, n interfaces.Node) error {
		for _, property := range []string{"width", "height"} {
			value, err := n.CSS(ctx, property)
			if err != nil {
				return err
			}
			if strings.TrimSpace(value) == "" {
				return entities.Assertf("has-css", name, property, "no computed value")
			}
		}
		return nil
	})
}

func scrollOffsets(ctx context.Context, s *scenario.Session) error {
	if err := scrollToY(ctx, s, 500); err != nil {
		return err
	}
	before, err := s.Scroller.Current(ctx)
	if err != nil {
		return err
	}
	if err := scrollToY(ctx, s, 1000); err != nil {
		return err
	}
	return verifyScrolledFrom(ctx, s, before)
}

func getFundedHover(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GetFundedButton()
	if err := button.Hover(ctx); err != nil {
		return err
	}
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	_, err := verifyCSS(ctx, button, "cursor")
	return err
}

func getFundedFocus(ctx context.Context, s *scenario.Session) error {
	return verifyFocusable(ctx, s, s.Page.GetFundedButton())
}

// verifyFocusable focuses ref and expects it to become the active element
func verifyFocusable(ctx context.Context, s *scenario.Session, ref *locator.Ref) error {
	if err := ref.Focus(ctx); err != nil {
		return err
	}
	focused, err := ref.Focused(ctx)
	if err != nil {
		return err
	}
	if !focused {
		return entities.Assertf("focused", ref.String(), "document.activeElement", "not focused")
	}
	return verifyVisible(ctx, s, ref)
}

func linkStyling(ctx context.Context, s *scenario.Session) error {
	first := s.Resolver.Ref(locator.CSS("a").WithName("first link"))
	for _, property := range []string{"color", "text-decoration"} {
		if _, err := verifyCSS(ctx, first, property); err != nil {
			return err
		}
	}
	return nil
}
