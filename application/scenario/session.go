package scenario

import (
	"fundix_e2e/application/consent"
	"fundix_e2e/application/helpers"
	"fundix_e2e/application/linkcheck"
	"fundix_e2e/application/locator"
	"fundix_e2e/application/pages"
	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// Session bundles everything a scenario drives. One session is shared by the
// scenarios of a run; the runner resets it between them.
type Session struct {
	Config   config.Config
	Browser  interfaces.Browser
	Resolver *locator.Resolver
	Page     *pages.LandingPage
	Waiter   *helpers.Waiter
	Scroller *helpers.Scroller
	URLs     *helpers.URLs
	Elements *helpers.Elements
	Consent  *consent.Controller
	Links    *linkcheck.Checker
	Statuses interfaces.StatusChecker
	Logger   *logrus.Logger
}

// NewSession - wires the page object and helpers over browser. statuses may be
// nil when no link status checks run.
func NewSession(cfg config.Config, browser interfaces.Browser, policy interfaces.LinkPolicy, statuses interfaces.StatusChecker, logger *logrus.Logger) *Session {
	resolver := locator.NewResolver(browser, logger, locator.WithDefaultTimeout(cfg.Timeouts.Element))
	waiter := helpers.NewWaiter(resolver, logger, Timings(cfg))
	cookies := consent.NewController(resolver, waiter, logger)

	return &Session{
		Config:   cfg,
		Browser:  browser,
		Resolver: resolver,
		Page:     pages.NewLandingPage(cfg.BaseURL, resolver, waiter, cookies, logger),
		Waiter:   waiter,
		Scroller: helpers.NewScroller(browser, waiter, logger),
		URLs:     helpers.NewURLs(browser),
		Elements: helpers.NewElements(resolver),
		Consent:  cookies,
		Links:    linkcheck.NewChecker(browser, policy, statuses, logger),
		Statuses: statuses,
		Logger:   logger,
	}
}

// Timings converts the configured waits
func Timings(cfg config.Config) helpers.Timings {
	return helpers.Timings{
		PageLoad:   cfg.Timeouts.PageLoad,
		Navigation: cfg.Timeouts.NavigationWait,
		Animation:  cfg.Timeouts.Animation,
		Scroll:     cfg.Timeouts.Scroll,
	}
}
