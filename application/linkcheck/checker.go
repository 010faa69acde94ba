package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultAccepted are the status codes treated as a healthy link
var DefaultAccepted = []int{http.StatusOK, http.StatusMovedPermanently, http.StatusFound}

// Checker collects anchors from the current page and checks their integrity
type Checker struct {
	browser  interfaces.Browser
	policy   interfaces.LinkPolicy
	statuses interfaces.StatusChecker
	accepted map[int]bool
	logger   *logrus.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithAccepted replaces the accepted status codes
func WithAccepted(codes ...int) Option {
	return func(c *Checker) {
		c.accepted = acceptSet(codes)
	}
}

// NewChecker - creates new link checker. statuses may be nil when no HTTP
// checks are run.
func NewChecker(browser interfaces.Browser, policy interfaces.LinkPolicy, statuses interfaces.StatusChecker, logger *logrus.Logger, opts ...Option) *Checker {
	c := &Checker{
		browser:  browser,
		policy:   policy,
		statuses: statuses,
		accepted: acceptSet(DefaultAccepted),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect reads every element matching selector as a link, in document order
func (c *Checker) Collect(ctx context.Context, selector string) ([]entities.Link, error) {
	if selector == "" {
		selector = "a"
	}
	base, err := c.browser.CurrentURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read base URL: %w", err)
	}
	nodes, err := c.browser.Query(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query links %q: %w", selector, err)
	}

	links := make([]entities.Link, 0, len(nodes))
	for _, n := range nodes {
		link, err := c.readLink(ctx, base, n)
		if err != nil {
			c.logger.Debugf("skipping link: %v", err)
			continue
		}
		if link.Risk == "high" {
			c.logger.WithFields(logrus.Fields{
				"href": link.Href,
				"kind": link.Kind,
				"risk": link.Risk,
			}).Warn("link runs script when followed")
		}
		links = append(links, link)
	}
	c.logger.WithField("selector", selector).Debugf("collected %d links", len(links))
	return links, nil
}

func (c *Checker) readLink(ctx context.Context, base string, n interfaces.Node) (entities.Link, error) {
	var link entities.Link

	href, ok, err := n.Attribute(ctx, "href")
	if err != nil {
		return link, err
	}
	text, err := n.Text(ctx)
	if err != nil {
		return link, err
	}
	link.Href = href
	link.HasHref = ok
	link.Text = locator.NormalizeText(text)
	link.Target, _, _ = n.Attribute(ctx, "target")
	link.AriaLabel, _, _ = n.Attribute(ctx, "aria-label")
	link.Title, _, _ = n.Attribute(ctx, "title")
	link.Kind, link.URL = c.policy.Classify(base, href)
	link.Risk = c.policy.RiskLevel(link)
	return link, nil
}

// CheckStatuses requests every link the policy allows, once per URL, and fails
// with all offending URLs if any status is not accepted
func (c *Checker) CheckStatuses(ctx context.Context, links []entities.Link) error {
	if c.statuses == nil {
		return fmt.Errorf("no status checker configured")
	}

	seen := make(map[string]bool)
	var bad []string
	for _, link := range links {
		if !c.policy.ShouldCheckStatus(link) || seen[link.URL] {
			continue
		}
		seen[link.URL] = true

		code, err := c.statuses.Status(ctx, link.URL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			bad = append(bad, fmt.Sprintf("%s (%v)", link.URL, err))
			continue
		}
		if !c.accepted[code] {
			bad = append(bad, fmt.Sprintf("%s (%d)", link.URL, code))
		}
	}
	c.logger.Infof("checked %d links, %d failed", len(seen), len(bad))

	if len(bad) > 0 {
		return entities.Assertf("link-status", "internal links", "status in "+c.acceptedList(), "%s", strings.Join(bad, ", "))
	}
	return nil
}

// VerifyExternalTargets requires target="_blank" on every external link
func (c *Checker) VerifyExternalTargets(links []entities.Link) error {
	var bad []string
	for _, link := range links {
		if link.Kind == entities.LinkExternal && link.Target != "_blank" {
			bad = append(bad, link.Href)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return entities.Assertf("external-target", "external links", `target="_blank"`, "%s", strings.Join(bad, ", "))
}

// VerifyAccessibleText requires every anchor to carry text, aria-label or title
func (c *Checker) VerifyAccessibleText(ctx context.Context) error {
	links, err := c.Collect(ctx, "a")
	if err != nil {
		return err
	}
	var bad []string
	for i, link := range links {
		if !link.HasAccessibleName() {
			bad = append(bad, fmt.Sprintf("#%d href=%q", i, link.Href))
		}
	}
	if len(bad) > 0 {
		return entities.Assertf("link-accessible-name", "links", "text, aria-label or title", "%s", strings.Join(bad, ", "))
	}
	return nil
}

func (c *Checker) acceptedList() string {
	codes := make([]int, 0, len(c.accepted))
	for code := range c.accepted {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprint(code)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func acceptSet(codes []int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
