package pages

import (
	"context"
	"fmt"

	"fundix_e2e/application/consent"
	"fundix_e2e/application/helpers"
	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"

	"github.com/sirupsen/logrus"
)

const (
	headerLinkScope = "header a"
	footerLinkScope = `footer a, [class*="footer"] a`
	ctaScope        = "button, a"
)

// FeatureCards are the four cards below the hero
type FeatureCards struct {
	FreeInternship *locator.Ref
	FundedCapital  *locator.Ref
	Transparency   *locator.Ref
	BuildWealth    *locator.Ref
}

// KeyFeatures are the headline numbers of the offer
type KeyFeatures struct {
	UpTo10M            *locator.Ref
	InstantWithdrawals *locator.Ref
	ZeroCosts          *locator.Ref
	UnlimitedAttempts  *locator.Ref
}

// Steps are the three "how it works" cards
type Steps struct {
	Step1 *locator.Ref
	Step2 *locator.Ref
	Step3 *locator.Ref
}

// ComparisonTable is the Fundix vs others table
type ComparisonTable struct {
	Heading      *locator.Ref
	FundixColumn *locator.Ref
	OthersColumn *locator.Ref
	Checkmarks   *locator.Ref
	Crosses      *locator.Ref
}

// TrustCards are the social proof cards
type TrustCards struct {
	TrustedByTraders      *locator.Ref
	BestTradingConditions *locator.Ref
	Rating                *locator.Ref
}

// LandingPage is the page object of the landing page. Accessors return lazy
// references, so they are safe to keep across reloads.
type LandingPage struct {
	baseURL  string
	resolver *locator.Resolver
	elements *helpers.Elements
	waiter   *helpers.Waiter
	consent  *consent.Controller
	logger   *logrus.Logger
}

// NewLandingPage - creates new landing page object
func NewLandingPage(baseURL string, resolver *locator.Resolver, waiter *helpers.Waiter, cookies *consent.Controller, logger *logrus.Logger) *LandingPage {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &LandingPage{
		baseURL:  baseURL,
		resolver: resolver,
		elements: helpers.NewElements(resolver),
		waiter:   waiter,
		consent:  cookies,
		logger:   logger,
	}
}

// BaseURL returns the root URL the page is visited at
func (p *LandingPage) BaseURL() string {
	return p.baseURL
}

func (p *LandingPage) ref(loc entities.Locator) *locator.Ref {
	return p.resolver.Ref(loc)
}

// Logo is the header logo
func (p *LandingPage) Logo() *locator.Ref {
	return p.ref(locator.Contains(`header a, header [class*="logo"]`, "Fundix").WithName("logo"))
}

// FooterLogo is the logo link repeated in the footer
func (p *LandingPage) FooterLogo() *locator.Ref {
	return p.ref(locator.Contains(footerLinkScope, "Fundix").WithName("footer logo"))
}

// NavLink finds the first anchor labelled label, header links first
func (p *LandingPage) NavLink(label string) *locator.Ref {
	return p.ref(locator.Contains("a", label))
}

// HeaderLink finds an anchor labelled label inside the header
func (p *LandingPage) HeaderLink(label string) *locator.Ref {
	return p.ref(locator.Contains(headerLinkScope, label).WithName("header " + label))
}

// NavigationLinks returns the header navigation links in display order
func (p *LandingPage) NavigationLinks() []*locator.Ref {
	refs := make([]*locator.Ref, 0, len(HeaderNavLabels))
	for _, label := range HeaderNavLabels {
		refs = append(refs, p.HeaderLink(label))
	}
	return refs
}

// GetFundedButton is the first Get funded control anywhere on the page
func (p *LandingPage) GetFundedButton() *locator.Ref {
	return p.ref(locator.Contains(ctaScope, NavGetFunded).WithName("get funded button"))
}

// HeaderGetFundedButton is the Get funded control of the header
func (p *LandingPage) HeaderGetFundedButton() *locator.Ref {
	return p.ref(locator.Contains("header button, header a", NavGetFunded).WithName("header get funded button"))
}

func (p *LandingPage) HeroHeadline() *locator.Ref {
	return p.ref(locator.DocumentText(PatternHeroHeadline).WithName("hero headline"))
}

func (p *LandingPage) HeroSubheadline() *locator.Ref {
	return p.ref(locator.DocumentText(PatternHeroSubheadline).WithName("hero subheadline"))
}

func (p *LandingPage) GooglePlayButton() *locator.Ref {
	return p.ref(locator.Matches(ctaScope, PatternGooglePlay).WithName("google play button"))
}

func (p *LandingPage) FeatureCards() FeatureCards {
	return FeatureCards{
		FreeInternship: p.ref(locator.DocumentText(PatternFreeInternship)),
		FundedCapital:  p.ref(locator.DocumentText(PatternFundedCapital)),
		Transparency:   p.ref(locator.DocumentText(PatternTransparency)),
		BuildWealth:    p.ref(locator.DocumentText(PatternBuildWealth)),
	}
}

func (p *LandingPage) KeyFeatures() KeyFeatures {
	return KeyFeatures{
		UpTo10M:            p.ref(locator.DocumentText(PatternUpTo10M)),
		InstantWithdrawals: p.ref(locator.DocumentText(PatternInstantWithdrawals)),
		ZeroCosts:          p.ref(locator.DocumentText(PatternZeroCosts)),
		UnlimitedAttempts:  p.ref(locator.DocumentText(PatternUnlimitedAttempts)),
	}
}

func (p *LandingPage) Steps() Steps {
	return Steps{
		Step1: p.ref(locator.DocumentText(PatternStep1)),
		Step2: p.ref(locator.DocumentText(PatternStep2)),
		Step3: p.ref(locator.DocumentText(PatternStep3)),
	}
}

func (p *LandingPage) ComparisonTable() ComparisonTable {
	return ComparisonTable{
		Heading:      p.ref(locator.DocumentText(PatternWhyChoose)),
		FundixColumn: p.ref(locator.Contains("th, td", "Fundix")),
		OthersColumn: p.ref(locator.Contains("th, td", "Others")),
		Checkmarks:   p.ref(locator.CSS(`[class*="check"], svg[class*="check"], [aria-label*="check"]`).WithName("checkmarks")),
		Crosses:      p.ref(locator.CSS(`[class*="cross"], svg[class*="cross"], [aria-label*="cross"]`).WithName("crosses")),
	}
}

func (p *LandingPage) TrustCards() TrustCards {
	return TrustCards{
		TrustedByTraders:      p.ref(locator.DocumentText(PatternTrustedByTraders)),
		BestTradingConditions: p.ref(locator.DocumentText(PatternBestConditions)),
		Rating:                p.ref(locator.DocumentText(PatternRating)),
	}
}

// CookieBanner is the element carrying the consent text
func (p *LandingPage) CookieBanner() *locator.Ref {
	return p.consent.Banner()
}

func (p *LandingPage) CookieAcceptButton() *locator.Ref {
	return p.ref(locator.Matches("button", PatternCookieAccept).WithName("cookie accept button").AsOptional())
}

func (p *LandingPage) Footer() *locator.Ref {
	return p.ref(locator.CSS(`footer, [class*="footer"]`).WithName("footer"))
}

// FooterLink finds an anchor labelled label inside the footer
func (p *LandingPage) FooterLink(label string) *locator.Ref {
	return p.ref(locator.Contains(footerLinkScope, label).WithName("footer " + label))
}

func (p *LandingPage) CopyrightText() *locator.Ref {
	return p.ref(locator.DocumentText(PatternCopyright).WithName("copyright"))
}

// Visit opens the root URL, waits for the page to settle and dismisses the
// cookie banner. A failed dismissal is logged, never returned.
func (p *LandingPage) Visit(ctx context.Context) error {
	p.logger.WithField("url", p.baseURL).Debug("visiting landing page")
	if err := p.resolver.Browser().Navigate(ctx, p.baseURL); err != nil {
		return fmt.Errorf("failed to visit %s: %w", p.baseURL, err)
	}
	if err := p.waiter.PageLoad(ctx, 0); err != nil {
		return err
	}
	return p.DismissCookieBannerIfPresent(ctx)
}

// DismissCookieBannerIfPresent dismisses the banner without blocking the caller.
// Only cancellation of ctx is reported.
func (p *LandingPage) DismissCookieBannerIfPresent(ctx context.Context) error {
	if _, err := p.consent.Dismiss(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warnf("cookie banner dismissal failed, continuing: %v", err)
	}
	return nil
}

// VerifyHeaderElements checks that the logo, every header navigation link and
// the Get funded button are visible
func (p *LandingPage) VerifyHeaderElements(ctx context.Context) error {
	refs := append([]*locator.Ref{p.Logo()}, p.NavigationLinks()...)
	refs = append(refs, p.HeaderGetFundedButton())
	for _, ref := range refs {
		if err := p.elements.VerifyVisible(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

// VerifyHeroSection checks that the headline and subheadline are visible
func (p *LandingPage) VerifyHeroSection(ctx context.Context) error {
	if err := p.elements.VerifyVisible(ctx, p.HeroHeadline()); err != nil {
		return err
	}
	return p.elements.VerifyVisible(ctx, p.HeroSubheadline())
}

// ClickNavigationLink clicks the first anchor labelled label
func (p *LandingPage) ClickNavigationLink(ctx context.Context, label string) error {
	return p.NavLink(label).Click(ctx)
}

// ClickGetFundedButton clicks the first Get funded control
func (p *LandingPage) ClickGetFundedButton(ctx context.Context) error {
	return p.GetFundedButton().Click(ctx)
}
