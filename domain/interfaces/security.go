package interfaces

import (
	"context"

	"fundix_e2e/domain/entities"
)

// LinkPolicy decides how discovered links are treated
type LinkPolicy interface {
	// Classify resolves href against base and returns its kind and absolute URL
	Classify(base string, href string) (entities.LinkKind, string)

	// ShouldCheckStatus reports whether it is safe to issue an HTTP request for the link
	ShouldCheckStatus(link entities.Link) bool

	// RiskLevel grades a classified link as low, medium or high
	RiskLevel(link entities.Link) string
}

// StatusChecker issues HTTP requests for link integrity checks
type StatusChecker interface {
	// Status returns the HTTP status code of url without following redirects
	Status(ctx context.Context, url string) (int, error)
}
