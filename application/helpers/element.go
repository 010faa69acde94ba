package helpers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fundix_e2e/application/locator"
	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// Elements answers presence and visibility questions about the current page
type Elements struct {
	browser  interfaces.Browser
	resolver *locator.Resolver
}

// NewElements - creates new element helper
func NewElements(resolver *locator.Resolver) *Elements {
	return &Elements{browser: resolver.Browser(), resolver: resolver}
}

// ElementExists reports whether selector matches anything right now
func (e *Elements) ElementExists(ctx context.Context, selector string) (bool, error) {
	n, err := e.Count(ctx, selector)
	return n > 0, err
}

// TextExists reports whether the body text contains text
func (e *Elements) TextExists(ctx context.Context, text string) (bool, error) {
	body, err := e.browser.BodyText(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read body text: %w", err)
	}
	return strings.Contains(body, text), nil
}

// Count returns the number of elements matching selector right now
func (e *Elements) Count(ctx context.Context, selector string) (int, error) {
	nodes, err := e.browser.Query(ctx, selector)
	if err != nil {
		return 0, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	return len(nodes), nil
}

// VerifyVisible waits for the first match of ref to become visible. An
// optional locator that matches nothing passes; a hidden match never does.
func (e *Elements) VerifyVisible(ctx context.Context, ref *locator.Ref) error {
	visible, err := ref.WaitVisible(ctx)
	if err != nil {
		return err
	}
	if visible {
		return nil
	}
	snap, err := ref.Snapshot(ctx)
	if err != nil {
		if !entities.IsNotFound(err) {
			return err
		}
		if ref.Locator().Optional {
			return nil
		}
		return entities.Assertf("visible", ref.String(), "visible", "not found")
	}
	return entities.Assertf("visible", ref.String(), "visible", "hidden %s", snap)
}

// VerifyNotVisible waits until nothing matched by ref is visible
func (e *Elements) VerifyNotVisible(ctx context.Context, ref *locator.Ref) error {
	hidden, err := ref.WaitHidden(ctx)
	if err != nil {
		return err
	}
	if !hidden {
		return entities.Assertf("not-visible", ref.String(), "hidden or absent", "visible")
	}
	return nil
}

// VerifyTextVisible waits for the deepest element matching re to be visible
func (e *Elements) VerifyTextVisible(ctx context.Context, re *regexp.Regexp) error {
	return e.VerifyVisible(ctx, e.resolver.Ref(locator.DocumentText(re)))
}

// VerifyBodyContains fails unless the body text contains every one of texts
func (e *Elements) VerifyBodyContains(ctx context.Context, texts ...string) error {
	body, err := e.browser.BodyText(ctx)
	if err != nil {
		return fmt.Errorf("failed to read body text: %w", err)
	}
	for _, text := range texts {
		if !strings.Contains(body, text) {
			return entities.Assertf("body-contains", "body", fmt.Sprintf("%q", text), "missing")
		}
	}
	return nil
}

// VerifyTextMatches fails unless the text of the first match of ref matches re
func (e *Elements) VerifyTextMatches(ctx context.Context, ref *locator.Ref, re *regexp.Regexp) error {
	text, err := ref.Text(ctx)
	if err != nil {
		return err
	}
	text = locator.NormalizeText(text)
	if !re.MatchString(text) {
		return entities.Assertf("text-matches", ref.String(), re.String(), "%q", text)
	}
	return nil
}

// VerifyAttribute fails unless the first match of ref has a non-empty attribute name
func (e *Elements) VerifyAttribute(ctx context.Context, ref *locator.Ref, name string) (string, error) {
	value, ok, err := ref.Attribute(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(value) == "" {
		return "", entities.Assertf("has-attribute", ref.String(), name, "missing or empty")
	}
	return value, nil
}
