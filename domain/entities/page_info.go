package entities

import "strings"

// ConsentState is the cookie banner state as observed in the DOM
type ConsentState string

const (
	ConsentUnknown ConsentState = "unknown"
	ConsentPresent ConsentState = "present"
	ConsentAbsent  ConsentState = "absent"
)

// LinkKind classifies an anchor href relative to the site under test
type LinkKind string

const (
	LinkEmpty      LinkKind = "empty"
	LinkAnchor     LinkKind = "anchor"
	LinkInternal   LinkKind = "internal"
	LinkExternal   LinkKind = "external"
	LinkMailto     LinkKind = "mailto"
	LinkJavaScript LinkKind = "javascript"
)

// Link is an anchor collected from the page
type Link struct {
	Href      string   `json:"href" yaml:"href"`
	Text      string   `json:"text" yaml:"text"`
	Target    string   `json:"target,omitempty" yaml:"target,omitempty"`
	AriaLabel string   `json:"aria_label,omitempty" yaml:"aria_label,omitempty"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	HasHref   bool     `json:"has_href" yaml:"has_href"`
	Kind      LinkKind `json:"kind" yaml:"kind"`
	// URL is the absolute form of Href
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Risk grades how much care following the link needs: low, medium or high
	Risk string `json:"risk,omitempty" yaml:"risk,omitempty"`
}

// HasAccessibleName reports whether the link has text, aria-label or title
func (l Link) HasAccessibleName() bool {
	return strings.TrimSpace(l.Text) != "" || l.AriaLabel != "" || l.Title != ""
}

// PageInfo is a summary of the current page
type PageInfo struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
}
