package helpers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// URLs verifies the current page URL
type URLs struct {
	browser interfaces.Browser
}

// NewURLs - creates new URL verifier
func NewURLs(browser interfaces.Browser) *URLs {
	return &URLs{browser: browser}
}

// CurrentURL returns the URL of the current page
func (u *URLs) CurrentURL(ctx context.Context) (string, error) {
	current, err := u.browser.CurrentURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current url: %w", err)
	}
	return current, nil
}

// VerifyURLIncludes fails unless the current URL contains expected
func (u *URLs) VerifyURLIncludes(ctx context.Context, expected string) error {
	return u.VerifyURLSatisfies(ctx, fmt.Sprintf("url containing %q", expected), func(s string) bool {
		return strings.Contains(s, expected)
	})
}

// VerifyURLEquals fails unless the current URL is exactly expected
func (u *URLs) VerifyURLEquals(ctx context.Context, expected string) error {
	current, err := u.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if current != expected {
		return entities.Assertf("url-equals", "location", expected, "%s", current)
	}
	return nil
}

// VerifyURLOnDomain fails unless the current URL host is domain or one of its subdomains
func (u *URLs) VerifyURLOnDomain(ctx context.Context, domain string) error {
	return u.VerifyURLSatisfies(ctx, "url on "+domain, func(s string) bool {
		return OnDomain(s, domain)
	})
}

// VerifyURLSatisfies fails unless pred holds for the current URL. desc names the
// expectation in the error.
func (u *URLs) VerifyURLSatisfies(ctx context.Context, desc string, pred func(string) bool) error {
	current, err := u.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if !pred(current) {
		return entities.Assertf("url-satisfies", "location", desc, "%s", current)
	}
	return nil
}

// OnDomain reports whether rawURL is served from domain or a subdomain of it
func OnDomain(rawURL, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
