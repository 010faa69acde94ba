package pages

import (
	"regexp"

	"fundix_e2e/domain/entities"
)

const (
	BaseURL = "https://fundix.pro/"
	Domain  = "fundix.pro"
)

// Navigation labels as rendered in the header and footer
const (
	NavHowItWorks     = "How it works"
	NavWhyUs          = "Why us"
	NavProTraders     = "Pro traders"
	NavFAQ            = "FAQ"
	NavBlog           = "Blog"
	NavLegalDocuments = "Legal documents"
	NavGetFunded      = "Get funded"
)

// HeaderNavLabels are the section links every header must show
var HeaderNavLabels = []string{NavHowItWorks, NavWhyUs, NavProTraders, NavFAQ, NavBlog}

// FooterNavLabels are the footer links
var FooterNavLabels = []string{NavHowItWorks, NavWhyUs, NavProTraders, NavFAQ, NavBlog, NavLegalDocuments}

// Text patterns of the landing page content
var (
	PatternHeroHeadline       = regexp.MustCompile(`(?i)Join our free internship|Your skills, our capital`)
	PatternHeroSubheadline    = regexp.MustCompile(`(?i)Unlock up to \$10M|Let's grow together`)
	PatternGooglePlay         = regexp.MustCompile(`(?i)GET IT ON Google Play|Google Play`)
	PatternFreeInternship     = regexp.MustCompile(`(?i)Free internship|You bring the skill`)
	PatternFundedCapital      = regexp.MustCompile(`(?i)Funded capital|\$10,000,000`)
	PatternTransparency       = regexp.MustCompile(`(?i)Transparency is #1 priority`)
	PatternBuildWealth        = regexp.MustCompile(`(?i)Build your personal wealth`)
	PatternUpTo10M            = regexp.MustCompile(`(?i)up to \$10M|Funded account`)
	PatternInstantWithdrawals = regexp.MustCompile(`(?i)24/7|Instant withdrawals`)
	PatternZeroCosts          = regexp.MustCompile(`(?i)Zero|Participation costs`)
	PatternUnlimitedAttempts  = regexp.MustCompile(`(?i)∞|Internship attempts`)
	PatternSlogan             = regexp.MustCompile(`(?i)Prove\. Trade\. Earn\.`)
	PatternStep1              = regexp.MustCompile(`(?i)Step 1|Pass free internship`)
	PatternStep2              = regexp.MustCompile(`(?i)Step 2|Get funded`)
	PatternStep3              = regexp.MustCompile(`(?i)Step 3|Earn as you trade`)
	PatternWhyChoose          = regexp.MustCompile(`(?i)Why choose Fundix`)
	PatternTrustedByTraders   = regexp.MustCompile(`(?i)Trusted by traders`)
	PatternBestConditions     = regexp.MustCompile(`(?i)Best trading conditions`)
	PatternRating             = regexp.MustCompile(`(?i)4\.7|rating`)
	PatternCookieMessage      = regexp.MustCompile(`(?i)We use cookies to personalize content`)
	PatternCookieAccept       = regexp.MustCompile(`(?i)Okay|Accept|Got it`)
	PatternCopyright          = regexp.MustCompile(`(?i)©.*All Rights Reserved|Copyright`)
	PatternYear               = regexp.MustCompile(`\d{4}`)
)

// Company details printed in the footer
const (
	CompanyName     = "Amega Capital Ltd"
	CompanyLocation = "Saint Lucia"
)

// Viewports exercised by the responsive scenarios
var (
	ViewportDesktop     = entities.Viewport{Name: "desktop", Width: 1920, Height: 1080}
	ViewportLaptop      = entities.Viewport{Name: "laptop", Width: 1366, Height: 768}
	ViewportTablet      = entities.Viewport{Name: "tablet", Width: 768, Height: 1024}
	ViewportMobile      = entities.Viewport{Name: "mobile", Width: 375, Height: 667}
	ViewportLargeMobile = entities.Viewport{Name: "large mobile", Width: 414, Height: 896}
)
