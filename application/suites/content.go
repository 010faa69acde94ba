package suites

import (
	"context"
	"regexp"
	"strings"

	"fundix_e2e/application/locator"
	"fundix_e2e/application/pages"
	"fundix_e2e/application/scenario"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

var (
	patternHeroWords       = regexp.MustCompile(`internship|skills`)
	patternSubheadWords    = regexp.MustCompile(`\$10M|capital`)
	patternGooglePlayText  = regexp.MustCompile(`Google Play`)
	patternNoCommissions   = regexp.MustCompile(`(?i)No hidden commissions`)
	patternStep1Detail     = regexp.MustCompile(`(?i)Show your skills, prove your potential`)
	patternStep2Detail     = regexp.MustCompile(`(?i)Receive your funded account`)
	patternStep3Detail     = regexp.MustCompile(`(?i)Trade successfully and keep the profits`)
	patternRegistration    = regexp.MustCompile(`(?i)Reg\. No\.`)
	patternProprietary     = regexp.MustCompile(`(?i)Proprietary Trading Company`)
	patternContractors     = regexp.MustCompile(`(?i)independent contractors`)
	patternRestrictedUsers = regexp.MustCompile(`(?i)American|North Korean|Russian|Mauritian|Iranian`)
	patternCompanyName     = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pages.CompanyName))
	patternCompanyLocation = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pages.CompanyLocation))
)

// comparisonRows are the rows of the comparison table, by their label
var comparisonRows = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"free internships", regexp.MustCompile(`(?i)Free internships`)},
	{"number of internships", regexp.MustCompile(`(?i)Number of internships|Unlimited|Restricted`)},
	{"cool-off period", regexp.MustCompile(`(?i)Cool-off period|Up to 1 week|Up to 3 months`)},
	{"capital", regexp.MustCompile(`(?i)Capital|From \$100k to \$10M|From \$15k to \$100k`)},
	{"capital increased", regexp.MustCompile(`(?i)Capital increased|\$100k`)},
	{"payouts", regexp.MustCompile(`(?i)Payouts|24/7 withdrawals|By request`)},
	{"payout cycle", regexp.MustCompile(`(?i)Payout cycle|Week|Month`)},
}

// tradingConditions are listed on the best trading conditions card
var tradingConditions = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Zero commissions`),
	regexp.MustCompile(`(?i)No requotes`),
	regexp.MustCompile(`(?i)Institutional spreads`),
	regexp.MustCompile(`(?i)Best execution`),
	regexp.MustCompile(`(?i)Personalized support`),
}

// sectionCards are the cards above the comparison table with the texts they carry
var sectionCards = []struct {
	name  string
	ref   func(p *pages.LandingPage) *locator.Ref
	texts []*regexp.Regexp
}{
	{"free internship card", func(p *pages.LandingPage) *locator.Ref { return p.FeatureCards().FreeInternship }, []*regexp.Regexp{pages.PatternFreeInternship}},
	{"funded capital card", func(p *pages.LandingPage) *locator.Ref { return p.FeatureCards().FundedCapital }, []*regexp.Regexp{pages.PatternFundedCapital}},
	{"transparency card", func(p *pages.LandingPage) *locator.Ref { return p.FeatureCards().Transparency }, []*regexp.Regexp{pages.PatternTransparency, patternNoCommissions}},
	{"build wealth card", func(p *pages.LandingPage) *locator.Ref { return p.FeatureCards().BuildWealth }, []*regexp.Regexp{pages.PatternBuildWealth}},
	{"up to 10M feature", func(p *pages.LandingPage) *locator.Ref { return p.KeyFeatures().UpTo10M }, nil},
	{"instant withdrawals feature", func(p *pages.LandingPage) *locator.Ref { return p.KeyFeatures().InstantWithdrawals }, nil},
	{"zero participation costs feature", func(p *pages.LandingPage) *locator.Ref { return p.KeyFeatures().ZeroCosts }, nil},
	{"unlimited internship attempts feature", func(p *pages.LandingPage) *locator.Ref { return p.KeyFeatures().UnlimitedAttempts }, nil},
	{"step 1 pass free internship", func(p *pages.LandingPage) *locator.Ref { return p.Steps().Step1 }, []*regexp.Regexp{patternStep1Detail}},
	{"step 2 get funded", func(p *pages.LandingPage) *locator.Ref { return p.Steps().Step2 }, []*regexp.Regexp{patternStep2Detail}},
	{"step 3 earn as you trade", func(p *pages.LandingPage) *locator.Ref { return p.Steps().Step3 }, []*regexp.Regexp{patternStep3Detail}},
}

func trustedByTraders(p *pages.LandingPage) *locator.Ref { return p.TrustCards().TrustedByTraders }
func rating(p *pages.LandingPage) *locator.Ref           { return p.TrustCards().Rating }
func bestConditions(p *pages.LandingPage) *locator.Ref   { return p.TrustCards().BestTradingConditions }

// ContentSuite checks the texts of every landing page section
func ContentSuite() scenario.Suite {
	scenarios := []scenario.Scenario{
		{Name: "hero headline", Run: heroHeadline},
		{Name: "hero subheadline with funding amount", Run: heroSubheadline},
		{Name: "google play button", Run: googlePlayButton},
		{Name: "google play button clickable", Run: googlePlayClickable},
		{Name: "prove trade earn slogan", Run: textsVisible(pages.PatternSlogan)},
	}
	for _, c := range sectionCards {
		scenarios = append(scenarios, scenario.Scenario{
			Name: c.name,
			Run:  cardVisible(c.ref, c.texts...),
		})
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "why choose fundix heading", Run: afterWhyUs(textsVisible(pages.PatternWhyChoose))},
		scenario.Scenario{Name: "comparison table columns", Run: afterWhyUs(comparisonColumns)},
	)
	for _, row := range comparisonRows {
		scenarios = append(scenarios, scenario.Scenario{
			Name: "comparison " + row.name,
			Run:  afterWhyUs(textsVisible(row.pattern)),
		})
	}
	scenarios = append(scenarios,
		scenario.Scenario{Name: "trusted by traders card", Run: afterWhyUs(cardVisible(trustedByTraders))},
		scenario.Scenario{Name: "rating", Run: afterWhyUs(cardVisible(rating))},
		scenario.Scenario{Name: "best trading conditions card", Run: afterWhyUs(cardVisible(bestConditions))},
		scenario.Scenario{Name: "trading conditions list", Run: afterWhyUs(textsVisible(tradingConditions...))},
		scenario.Scenario{Name: "company legal information", Run: atBottom(textsVisible(patternCompanyName, patternCompanyLocation, patternRegistration))},
		scenario.Scenario{Name: "proprietary trading disclaimer", Run: atBottom(textsVisible(patternProprietary, patternContractors))},
		scenario.Scenario{Name: "geographic restrictions", Run: atBottom(textsVisible(patternRestrictedUsers))},
		scenario.Scenario{Name: "copyright year", Run: atBottom(copyrightYear)},
		scenario.Scenario{Name: "h1 heading", Run: headingPresent},
		scenario.Scenario{Name: "image alt text", Run: imageAltText},
		scenario.Scenario{Name: "body text color", Run: bodyColor},
	)
	return scenario.Suite{Name: Content, Scenarios: scenarios}
}

// afterWhyUs runs next once the Why us section has been scrolled to
func afterWhyUs(next step) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := clickAndSettle(ctx, s, s.Page.NavLink(pages.NavWhyUs)); err != nil {
			return err
		}
		return next(ctx, s)
	}
}

// atBottom runs next once the page is scrolled to the footer
func atBottom(next step) step {
	return func(ctx context.Context, s *scenario.Session) error {
		if err := scrollToBottom(ctx, s); err != nil {
			return err
		}
		return next(ctx, s)
	}
}

func textsVisible(patterns ...*regexp.Regexp) step {
	return func(ctx context.Context, s *scenario.Session) error {
		return verifyTextsVisible(ctx, s, patterns...)
	}
}

// cardVisible scrolls the card into view, then expects it and every pattern visible
func cardVisible(card func(p *pages.LandingPage) *locator.Ref, patterns ...*regexp.Regexp) step {
	return func(ctx context.Context, s *scenario.Session) error {
		ref := card(s.Page)
		if err := s.Scroller.ScrollIntoView(ctx, ref, s.Waiter.Timings().Animation); err != nil {
			return err
		}
		if err := verifyVisible(ctx, s, ref); err != nil {
			return err
		}
		return verifyTextsVisible(ctx, s, patterns...)
	}
}

func heroHeadline(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.HeroHeadline()); err != nil {
		return err
	}
	return s.Elements.VerifyTextMatches(ctx, s.Page.HeroHeadline(), patternHeroWords)
}

func heroSubheadline(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.HeroSubheadline()); err != nil {
		return err
	}
	return s.Elements.VerifyTextMatches(ctx, s.Page.HeroSubheadline(), patternSubheadWords)
}

func googlePlayButton(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.GooglePlayButton()); err != nil {
		return err
	}
	return s.Elements.VerifyTextMatches(ctx, s.Page.GooglePlayButton(), patternGooglePlayText)
}

// googlePlayClickable clicks the store link. It opens in a new tab, so the
// current page stays on the site.
func googlePlayClickable(ctx context.Context, s *scenario.Session) error {
	button := s.Page.GooglePlayButton()
	if err := verifyVisible(ctx, s, button); err != nil {
		return err
	}
	if err := verifyEnabled(ctx, button); err != nil {
		return err
	}
	if err := button.Click(ctx); err != nil {
		return err
	}
	if err := s.Waiter.Fixed(ctx, s.Waiter.Timings().Scroll); err != nil {
		return err
	}
	return s.URLs.VerifyURLOnDomain(ctx, s.Config.Domain)
}

func comparisonColumns(ctx context.Context, s *scenario.Session) error {
	table := s.Page.ComparisonTable()
	return verifyVisible(ctx, s, table.FundixColumn, table.OthersColumn)
}

func copyrightYear(ctx context.Context, s *scenario.Session) error {
	if err := verifyVisible(ctx, s, s.Page.CopyrightText()); err != nil {
		return err
	}
	return s.Elements.VerifyTextMatches(ctx, s.Page.CopyrightText(), pages.PatternYear)
}

func headingPresent(ctx context.Context, s *scenario.Session) error {
	h1 := s.Resolver.Ref(locator.CSS("h1").WithName("h1"))
	exists, err := h1.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return entities.Assertf("exists", "h1", "present", "missing")
	}
	return verifyVisible(ctx, s, h1)
}

// imageAltText expects an alt attribute on every image. Images that are not
// marked presentational also need a non-empty one.
func imageAltText(ctx context.Context, s *scenario.Session) error {
	return forEachNode(ctx, s, "img", func(name string, n interfaces.Node) error {
		alt, ok, err := n.Attribute(ctx, "alt")
		if err != nil {
			return err
		}
		if !ok {
			return entities.Assertf("img-alt", name, "alt attribute", "missing")
		}
		role, _, err := n.Attribute(ctx, "role")
		if err != nil {
			return err
		}
		if role != "presentation" && role != "none" && strings.TrimSpace(alt) == "" {
			return entities.Assertf("img-alt", name, "descriptive alt text", "empty")
		}
		return nil
	})
}

func bodyColor(ctx context.Context, s *scenario.Session) error {
	_, err := verifyCSS(ctx, bodyRef(s), "color")
	return err
}

// verifyEnabled fails if the first match of ref carries the disabled attribute
func verifyEnabled(ctx context.Context, ref *locator.Ref) error {
	_, disabled, err := ref.Attribute(ctx, "disabled")
	if err != nil {
		return err
	}
	if disabled {
		return entities.Assertf("enabled", ref.String(), "enabled", "disabled")
	}
	return nil
}
