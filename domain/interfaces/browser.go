package interfaces

import (
	"context"

	"fundix_e2e/domain/entities"
)

// Browser defines the browser automation primitives the suite is built on
type Browser interface {
	// Navigate loads a URL in the current page
	Navigate(ctx context.Context, url string) error

	// Reload reloads the current page
	Reload(ctx context.Context) error

	// Back goes one entry back in history
	Back(ctx context.Context) error

	// Forward goes one entry forward in history
	Forward(ctx context.Context) error

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// Title returns the current page title
	Title(ctx context.Context) (string, error)

	// Query returns all elements matching a CSS selector, in document order
	Query(ctx context.Context, selector string) ([]Node, error)

	// BodyText returns the text content of the document body
	BodyText(ctx context.Context) (string, error)

	// ScrollOffset returns the vertical scroll offset of the viewport
	ScrollOffset(ctx context.Context) (float64, error)

	// ScrollTo moves the viewport without animation
	ScrollTo(ctx context.Context, target entities.ScrollTarget) error

	// SetViewport resizes the viewport
	SetViewport(ctx context.Context, vp entities.Viewport) error

	// ReadyState returns document.readyState
	ReadyState(ctx context.Context) (string, error)

	// ClearCookies removes all cookies of the session
	ClearCookies(ctx context.Context) error

	// PressKey sends a key press to the focused element, e.g. "Tab"
	PressKey(ctx context.Context, key string) error

	// Close closes the browser
	Close() error
}

// TextQuerier is implemented by engines that read the text of every element
// matching a selector in a single page round trip
type TextQuerier interface {
	// QueryText returns the elements matching selector and their text
	// content, index aligned and in document order
	QueryText(ctx context.Context, selector string) ([]Node, []string, error)
}

// Node is a handle to a located DOM element.
// Handles may go stale after the page changes; callers re-query instead of keeping them.
type Node interface {
	// Tag returns the lower-case tag name
	Tag(ctx context.Context) (string, error)

	// Text returns the text content of the element
	Text(ctx context.Context) (string, error)

	// Attribute returns an attribute value and whether it is present
	Attribute(ctx context.Context, name string) (string, bool, error)

	// Visible checks if the element is rendered and not hidden
	Visible(ctx context.Context) (bool, error)

	// Click activates the element
	Click(ctx context.Context) error

	// Hover moves the pointer over the element
	Hover(ctx context.Context) error

	// Focus focuses the element
	Focus(ctx context.Context) error

	// ScrollIntoView scrolls the viewport to the element
	ScrollIntoView(ctx context.Context) error

	// Focused checks if the element is document.activeElement
	Focused(ctx context.Context) (bool, error)

	// CSS returns a computed style property
	CSS(ctx context.Context, property string) (string, error)

	// Contains checks if other is a descendant of this element
	Contains(ctx context.Context, other Node) (bool, error)
}
