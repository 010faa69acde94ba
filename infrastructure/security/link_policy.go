package security

import (
	"net/url"
	"strings"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// LinkPolicy classifies anchors relative to the site under test and decides
// which of them may be requested
type LinkPolicy struct {
	domain string
	logger *logrus.Logger
}

// NewLinkPolicy - creates new link policy for domain, e.g. "fundix.pro"
func NewLinkPolicy(domain string, logger *logrus.Logger) *LinkPolicy {
	return &LinkPolicy{
		domain: strings.ToLower(strings.TrimPrefix(domain, "www.")),
		logger: logger,
	}
}

// Classify returns the kind of href and, for navigable links, its absolute URL
// resolved against base
func (p *LinkPolicy) Classify(base, href string) (entities.LinkKind, string) {
	trimmed := strings.TrimSpace(href)
	lower := strings.ToLower(trimmed)

	switch {
	case trimmed == "":
		return entities.LinkEmpty, ""
	case strings.HasPrefix(lower, "javascript:"):
		return entities.LinkJavaScript, ""
	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
		return entities.LinkMailto, ""
	case strings.HasPrefix(trimmed, "#"):
		return entities.LinkAnchor, resolve(base, trimmed)
	}

	abs := resolve(base, trimmed)
	u, err := url.Parse(abs)
	if err != nil || u.Hostname() == "" {
		p.logger.Debugf("unparseable href %q", href)
		return entities.LinkExternal, abs
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return entities.LinkExternal, abs
	}
	if p.isOwnHost(u.Hostname()) {
		return entities.LinkInternal, abs
	}
	return entities.LinkExternal, abs
}

// ShouldCheckStatus allows only internal http(s) links. Mail, script and
// in-page anchors are never requested.
func (p *LinkPolicy) ShouldCheckStatus(link entities.Link) bool {
	if link.Kind != entities.LinkInternal || link.URL == "" {
		return false
	}
	lowerURL := strings.ToLower(link.URL)

	// endpoints with side effects
	riskyKeywords := []string{
		"logout", "signout", "sign-out", "unsubscribe", "delete",
	}
	for _, keyword := range riskyKeywords {
		if strings.Contains(lowerURL, keyword) {
			p.logger.Debugf("skipping status check of %s: contains %q", link.URL, keyword)
			return false
		}
	}
	return true
}

// RiskLevel grades how much care following a link needs
func (p *LinkPolicy) RiskLevel(link entities.Link) string {
	switch link.Kind {
	case entities.LinkJavaScript:
		return "high"
	case entities.LinkExternal:
		if link.Target != "_blank" {
			return "medium"
		}
		return "low"
	default:
		return "low"
	}
}

func (p *LinkPolicy) isOwnHost(host string) bool {
	host = strings.ToLower(host)
	return host == p.domain || strings.HasSuffix(host, "."+p.domain)
}

func resolve(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref.String()
	}
	return b.ResolveReference(ref).String()
}

// Ensure LinkPolicy implements LinkPolicy interface
var _ interfaces.LinkPolicy = (*LinkPolicy)(nil)
