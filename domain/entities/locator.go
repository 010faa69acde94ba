package entities

import (
	"fmt"
	"strings"
	"time"
)

// Strategy identifies how a Rule finds elements
type Strategy string

const (
	// StrategyTextContains matches elements in Scope whose text contains Pattern
	StrategyTextContains Strategy = "text-contains"
	// StrategyTextExact matches elements in Scope whose trimmed text equals Pattern
	StrategyTextExact Strategy = "text-exact"
	// StrategyTextRegex matches elements in Scope whose text matches the Pattern regexp
	StrategyTextRegex Strategy = "text-regex"
	// StrategyCSSFragment matches elements whose class or data-testid contains Pattern
	StrategyCSSFragment Strategy = "css-fragment"
	// StrategyCSS matches a raw CSS selector
	StrategyCSS Strategy = "css"
	// StrategyDocumentText scans the whole document for the Pattern regexp
	StrategyDocumentText Strategy = "document-text"
)

// Precedence returns the evaluation order of the strategy, lower first.
func (s Strategy) Precedence() int {
	switch s {
	case StrategyTextContains, StrategyTextExact, StrategyTextRegex:
		return 1
	case StrategyCSSFragment, StrategyCSS:
		return 2
	case StrategyDocumentText:
		return 3
	default:
		return 4
	}
}

// Valid reports whether s is a known strategy
func (s Strategy) Valid() bool {
	return s.Precedence() < 4
}

// Rule is a single (strategy, pattern) pair of a Locator
type Rule struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Pattern  string   `json:"pattern" yaml:"pattern"`
	// Scope is the CSS selector group text strategies search within, e.g. "a, button"
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

func (r Rule) String() string {
	if r.Scope != "" {
		return fmt.Sprintf("%s(%q in %q)", r.Strategy, r.Pattern, r.Scope)
	}
	return fmt.Sprintf("%s(%q)", r.Strategy, r.Pattern)
}

// Locator is a declarative description of how to find a UI element.
// It is a value type; the With* methods return modified copies.
type Locator struct {
	Name    string        `json:"name" yaml:"name"`
	Rules   []Rule        `json:"rules" yaml:"rules"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Optional marks elements whose absence is a valid page state
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// WithTimeout returns a copy of l with a different wait budget
func (l Locator) WithTimeout(d time.Duration) Locator {
	l.Rules = append([]Rule(nil), l.Rules...)
	l.Timeout = d
	return l
}

// WithName returns a copy of l with a different name
func (l Locator) WithName(name string) Locator {
	l.Rules = append([]Rule(nil), l.Rules...)
	l.Name = name
	return l
}

// AsOptional returns a copy of l marked optional
func (l Locator) AsOptional() Locator {
	l.Rules = append([]Rule(nil), l.Rules...)
	l.Optional = true
	return l
}

// String returns the locator name, or its rules if unnamed
func (l Locator) String() string {
	if l.Name != "" {
		return l.Name
	}
	parts := make([]string, 0, len(l.Rules))
	for _, r := range l.Rules {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " | ")
}
