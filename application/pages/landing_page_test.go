package pages

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"fundix_e2e/application/consent"
	"fundix_e2e/application/helpers"
	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"
	"fundix_e2e/infrastructure/browser"
	"fundix_e2e/infrastructure/browser/testsite"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPage(t *testing.T, html string) (*LandingPage, *browser.StaticController) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := testsite.Client()
	if html != "" {
		client = testsite.ClientFor(testsite.Page(html))
	}
	b := browser.NewStaticController(client, logger)
	resolver := locator.NewResolver(b, logger,
		locator.WithDefaultTimeout(100*time.Millisecond),
		locator.WithPollInterval(5*time.Millisecond, 20*time.Millisecond))
	waiter := helpers.NewWaiter(resolver, logger, helpers.Timings{PageLoad: time.Millisecond, Animation: time.Millisecond})
	cookies := consent.NewController(resolver, waiter, logger)

	page := NewLandingPage(BaseURL, resolver, waiter, cookies, logger)
	require.NoError(t, page.Visit(context.Background()))
	return page, b
}

func TestLandingPage_VisitDismissesBanner(t *testing.T) {
	page, b := newPage(t, "")
	ctx := context.Background()

	visible, err := page.CookieBanner().Visible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	current, _ := b.CurrentURL(ctx)
	assert.Equal(t, BaseURL, current)
}

func TestLandingPage_VerifyHeaderElements(t *testing.T) {
	page, _ := newPage(t, "")
	require.NoError(t, page.VerifyHeaderElements(context.Background()))
}

func TestLandingPage_VerifyHeaderElementsFailsWhenAnyIsMissing(t *testing.T) {
	landing := testsite.LandingHTML()
	removals := map[string]string{
		"logo":         `<a class="logo" href="/" style="display: flex; color: rgb(255, 255, 255)">Fundix</a>`,
		"get funded":   `<button class="btn btn-primary" data-scroll-to="#how-it-works" style="background-color: rgb(0, 200, 170)">Get funded</button>`,
		"how it works": `<a href="#how-it-works" data-scroll-to="#how-it-works">How it works</a>`,
		"why us":       `<a href="#why-us" data-scroll-to="#why-us">Why us</a>`,
		"pro traders":  `<a href="#pro-traders" data-scroll-to="#pro-traders">Pro traders</a>`,
		"faq":          `<a href="#faq" data-scroll-to="#faq">FAQ</a>`,
		"blog":         `<a href="#blog" data-scroll-to="#blog">Blog</a>`,
	}

	for name, fragment := range removals {
		t.Run(name, func(t *testing.T) {
			require.Contains(t, landing, fragment)
			// the first occurrence is the header one
			mutated := strings.Replace(landing, fragment, "", 1)

			page, _ := newPage(t, mutated)
			err := page.VerifyHeaderElements(context.Background())
			require.Error(t, err)
			assert.True(t, entities.IsAssertion(err), "got %v", err)
		})
	}
}

func TestLandingPage_VerifyHeaderElementsFailsOnHiddenLink(t *testing.T) {
	mutated := strings.Replace(testsite.LandingHTML(),
		`<a href="#faq" data-scroll-to="#faq">FAQ</a>`,
		`<a href="#faq" data-scroll-to="#faq" style="display: none">FAQ</a>`, 1)

	page, _ := newPage(t, mutated)
	assert.Error(t, page.VerifyHeaderElements(context.Background()))
}

func TestLandingPage_VerifyHeroSection(t *testing.T) {
	page, _ := newPage(t, "")
	ctx := context.Background()
	require.NoError(t, page.VerifyHeroSection(ctx))

	text, err := page.HeroHeadline().Text(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "skills")
}

func TestLandingPage_NavigationLinkScrolls(t *testing.T) {
	page, b := newPage(t, "")
	ctx := context.Background()

	require.NoError(t, page.ClickNavigationLink(ctx, NavFAQ))
	y, _ := b.ScrollOffset(ctx)
	assert.Greater(t, y, 0.0)

	current, _ := b.CurrentURL(ctx)
	assert.Equal(t, BaseURL, current)
}

func TestLandingPage_Accessors(t *testing.T) {
	page, _ := newPage(t, "")
	ctx := context.Background()

	checks := map[string]*locator.Ref{
		"google play":       page.GooglePlayButton(),
		"free internship":   page.FeatureCards().FreeInternship,
		"build wealth":      page.FeatureCards().BuildWealth,
		"zero costs":        page.KeyFeatures().ZeroCosts,
		"step 3":            page.Steps().Step3,
		"fundix column":     page.ComparisonTable().FundixColumn,
		"checkmarks":        page.ComparisonTable().Checkmarks,
		"rating":            page.TrustCards().Rating,
		"accept button":     page.CookieAcceptButton(),
		"footer":            page.Footer(),
		"footer legal link": page.FooterLink(NavLegalDocuments),
		"copyright":         page.CopyrightText(),
		"footer logo":       page.FooterLogo(),
	}
	for name, ref := range checks {
		exists, err := ref.Exists(ctx)
		require.NoError(t, err, name)
		assert.True(t, exists, name)
	}

	href, ok, err := page.GooglePlayButton().Attribute(ctx, "href")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, href, "play.google.com")
}

func TestLandingPage_ClickGetFundedStaysOnDomain(t *testing.T) {
	page, b := newPage(t, "")
	ctx := context.Background()

	require.NoError(t, page.ClickGetFundedButton(ctx))
	current, _ := b.CurrentURL(ctx)
	assert.True(t, helpers.OnDomain(current, Domain))
}
