package locator

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

// Ref is a lazy element reference. Every call re-resolves its locator, so a Ref
// stays valid across page mutations and reloads. Single-element operations act on
// the first match.
type Ref struct {
	resolver *Resolver
	loc      entities.Locator
}

// Locator returns the descriptor behind the reference
func (e *Ref) Locator() entities.Locator {
	return e.loc
}

func (e *Ref) String() string {
	return e.loc.String()
}

// WithTimeout returns a reference with a different wait budget
func (e *Ref) WithTimeout(d time.Duration) *Ref {
	return &Ref{resolver: e.resolver, loc: e.loc.WithTimeout(d)}
}

// Nodes resolves all matches, waiting up to the locator timeout
func (e *Ref) Nodes(ctx context.Context) ([]interfaces.Node, error) {
	return e.resolver.Resolve(ctx, e.loc)
}

// Count returns the number of matches
func (e *Ref) Count(ctx context.Context) (int, error) {
	nodes, err := e.Nodes(ctx)
	return len(nodes), err
}

// Exists reports whether the locator matches anything within its timeout
func (e *Ref) Exists(ctx context.Context) (bool, error) {
	n, err := e.Count(ctx)
	return n > 0, err
}

// First returns the first match or a wrapped ErrElementNotFound
func (e *Ref) First(ctx context.Context) (interfaces.Node, error) {
	nodes, err := e.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", e.loc.String(), entities.ErrElementNotFound)
	}
	return nodes[0], nil
}

// Visible reports whether the first match is visible. A missing element is not visible.
func (e *Ref) Visible(ctx context.Context) (bool, error) {
	n, err := e.First(ctx)
	if err != nil {
		if entities.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return n.Visible(ctx)
}

// WaitVisible polls until the first match is visible or the locator timeout expires
func (e *Ref) WaitVisible(ctx context.Context) (bool, error) {
	return e.resolver.Poll(ctx, e.resolver.timeoutFor(e.loc), func(ctx context.Context) (bool, error) {
		nodes, err := e.resolver.ResolveNow(ctx, e.loc)
		if err != nil || len(nodes) == 0 {
			return false, err
		}
		return nodes[0].Visible(ctx)
	})
}

// WaitHidden polls until the locator matches nothing visible or the timeout expires
func (e *Ref) WaitHidden(ctx context.Context) (bool, error) {
	return e.resolver.Poll(ctx, e.resolver.timeoutFor(e.loc), func(ctx context.Context) (bool, error) {
		nodes, err := e.resolver.ResolveNow(ctx, e.loc)
		if err != nil {
			return false, err
		}
		for _, n := range nodes {
			visible, err := n.Visible(ctx)
			if err != nil {
				return false, err
			}
			if visible {
				return false, nil
			}
		}
		return true, nil
	})
}

// Text returns the text of the first match
func (e *Ref) Text(ctx context.Context) (string, error) {
	n, err := e.First(ctx)
	if err != nil {
		return "", err
	}
	return n.Text(ctx)
}

// Attribute returns an attribute of the first match
func (e *Ref) Attribute(ctx context.Context, name string) (string, bool, error) {
	n, err := e.First(ctx)
	if err != nil {
		return "", false, err
	}
	return n.Attribute(ctx, name)
}

// CSS returns a computed style property of the first match
func (e *Ref) CSS(ctx context.Context, property string) (string, error) {
	n, err := e.First(ctx)
	if err != nil {
		return "", err
	}
	return n.CSS(ctx, property)
}

// Click clicks the first match. An optional element that is absent is not
// clicked and no error is returned.
func (e *Ref) Click(ctx context.Context) error {
	n, err := e.First(ctx)
	if err != nil {
		return e.absent(err, "click")
	}
	if err := n.Click(ctx); err != nil {
		return fmt.Errorf("failed to click %s: %w", e.loc.String(), err)
	}
	return nil
}

// Hover hovers the first match, skipping absent optional elements like Click
func (e *Ref) Hover(ctx context.Context) error {
	n, err := e.First(ctx)
	if err != nil {
		return e.absent(err, "hover")
	}
	return n.Hover(ctx)
}

// Focus focuses the first match
func (e *Ref) Focus(ctx context.Context) error {
	n, err := e.First(ctx)
	if err != nil {
		return err
	}
	return n.Focus(ctx)
}

// Focused reports whether the first match has focus
func (e *Ref) Focused(ctx context.Context) (bool, error) {
	n, err := e.First(ctx)
	if err != nil {
		return false, err
	}
	return n.Focused(ctx)
}

// Snapshot captures the first match for diagnostics
func (e *Ref) Snapshot(ctx context.Context) (entities.PageElement, error) {
	n, err := e.First(ctx)
	if err != nil {
		return entities.PageElement{}, err
	}
	tag, _ := n.Tag(ctx)
	text, _ := n.Text(ctx)
	visible, _ := n.Visible(ctx)

	attrs := make(map[string]string)
	for _, name := range []string{"id", "class", "href", "target", "aria-label"} {
		if v, ok, err := n.Attribute(ctx, name); err == nil && ok {
			attrs[name] = v
		}
	}

	return entities.PageElement{
		Type:       tag,
		Selector:   e.loc.String(),
		Text:       truncateString(NormalizeText(text), 200),
		Attributes: attrs,
		IsVisible:  visible,
	}, nil
}

// absent swallows a not-found error of an optional locator
func (e *Ref) absent(err error, action string) error {
	if !e.loc.Optional || !entities.IsNotFound(err) {
		return err
	}
	e.resolver.logger.WithField("locator", e.loc.String()).Debugf("optional element absent, %s skipped", action)
	return nil
}

// truncateString - truncates string to maximum length in runes
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
