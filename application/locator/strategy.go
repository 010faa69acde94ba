package locator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fundix_e2e/domain/entities"
	"fundix_e2e/domain/interfaces"
)

const (
	// documentScope is the search space of unscoped text rules
	documentScope = "body *"
	// textualScope is documentScope without elements whose text is never rendered
	textualScope = "body *:not(script):not(style):not(noscript):not(template)"
)

// Strategy finds elements for a single rule
type Strategy interface {
	Find(ctx context.Context, b interfaces.Browser, rule entities.Rule) ([]interfaces.Node, error)
}

// StrategyFor returns the implementation of a strategy kind
func StrategyFor(s entities.Strategy) (Strategy, error) {
	switch s {
	case entities.StrategyTextContains, entities.StrategyTextExact, entities.StrategyTextRegex:
		return TextStrategy{Mode: s}, nil
	case entities.StrategyCSSFragment:
		return FragmentStrategy{}, nil
	case entities.StrategyCSS:
		return CSSStrategy{}, nil
	case entities.StrategyDocumentText:
		return DocumentTextStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown locator strategy %q", s)
	}
}

// TextStrategy matches element text within a scope selector and keeps the deepest matches
type TextStrategy struct {
	Mode entities.Strategy
}

func (t TextStrategy) Find(ctx context.Context, b interfaces.Browser, rule entities.Rule) ([]interfaces.Node, error) {
	match, err := TextMatcher(t.Mode, rule.Pattern)
	if err != nil {
		return nil, err
	}

	scope := rule.Scope
	if scope == "" {
		scope = documentScope
	}

	candidates, texts, err := queryText(ctx, b, scope)
	if err != nil {
		return nil, err
	}
	return deepest(ctx, filterText(candidates, texts, match))
}

// FragmentStrategy matches elements whose class or data-testid contains the pattern
type FragmentStrategy struct{}

func (FragmentStrategy) Find(ctx context.Context, b interfaces.Browser, rule entities.Rule) ([]interfaces.Node, error) {
	if rule.Pattern == "" {
		return nil, fmt.Errorf("css-fragment rule requires a pattern")
	}
	return b.Query(ctx, FragmentSelector(rule.Pattern))
}

// FragmentSelector builds the selector group used by FragmentStrategy
func FragmentSelector(fragment string) string {
	q := strings.ReplaceAll(fragment, `"`, `\"`)
	return fmt.Sprintf(`[class*="%s"], [data-testid*="%s"]`, q, q)
}

// CSSStrategy matches a raw CSS selector
type CSSStrategy struct{}

func (CSSStrategy) Find(ctx context.Context, b interfaces.Browser, rule entities.Rule) ([]interfaces.Node, error) {
	if rule.Pattern == "" {
		return nil, fmt.Errorf("css rule requires a selector")
	}
	return b.Query(ctx, rule.Pattern)
}

// DocumentTextStrategy scans the full document for text matching a regexp
type DocumentTextStrategy struct{}

func (DocumentTextStrategy) Find(ctx context.Context, b interfaces.Browser, rule entities.Rule) ([]interfaces.Node, error) {
	match, err := TextMatcher(entities.StrategyTextRegex, rule.Pattern)
	if err != nil {
		return nil, err
	}

	body, err := b.BodyText(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read body text: %w", err)
	}
	if !match(body) {
		return nil, nil
	}

	candidates, texts, err := queryText(ctx, b, textualScope)
	if err != nil {
		return nil, err
	}
	return deepest(ctx, filterText(candidates, texts, match))
}

// TextMatcher compiles a pattern into a predicate over element text.
// Text is whitespace-normalized before matching.
func TextMatcher(mode entities.Strategy, pattern string) (func(string) bool, error) {
	switch mode {
	case entities.StrategyTextContains:
		want := NormalizeText(pattern)
		return func(s string) bool { return strings.Contains(NormalizeText(s), want) }, nil
	case entities.StrategyTextExact:
		want := NormalizeText(pattern)
		return func(s string) bool { return NormalizeText(s) == want }, nil
	case entities.StrategyTextRegex, entities.StrategyDocumentText:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid text pattern %q: %w", pattern, err)
		}
		return func(s string) bool { return re.MatchString(NormalizeText(s)) }, nil
	default:
		return nil, fmt.Errorf("strategy %q does not match text", mode)
	}
}

// NormalizeText collapses runs of whitespace and trims the result
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// queryText returns the nodes matching selector with their texts, index
// aligned. A TextQuerier reads them in one round trip. Otherwise, or when that
// read fails, every node is read on its own and detached nodes are dropped.
func queryText(ctx context.Context, b interfaces.Browser, selector string) ([]interfaces.Node, []string, error) {
	if tq, ok := b.(interfaces.TextQuerier); ok {
		nodes, texts, err := tq.QueryText(ctx, selector)
		if err == nil {
			return nodes, texts, nil
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
	}

	nodes, err := b.Query(ctx, selector)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query %q: %w", selector, err)
	}
	kept := make([]interfaces.Node, 0, len(nodes))
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		text, err := n.Text(ctx)
		if err != nil {
			continue
		}
		kept = append(kept, n)
		texts = append(texts, text)
	}
	return kept, texts, nil
}

func filterText(nodes []interfaces.Node, texts []string, match func(string) bool) []interfaces.Node {
	var out []interfaces.Node
	for i, n := range nodes {
		if match(texts[i]) {
			out = append(out, n)
		}
	}
	return out
}

// deepest drops every node that contains another node of the set
func deepest(ctx context.Context, nodes []interfaces.Node) ([]interfaces.Node, error) {
	if len(nodes) < 2 {
		return nodes, nil
	}

	out := make([]interfaces.Node, 0, len(nodes))
	for i, outer := range nodes {
		isAncestor := false
		for j, inner := range nodes {
			if i == j {
				continue
			}
			contains, err := outer.Contains(ctx, inner)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			if contains {
				isAncestor = true
				break
			}
		}
		if !isAncestor {
			out = append(out, outer)
		}
	}
	return out, nil
}
