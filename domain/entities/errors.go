package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrElementNotFound is returned when a locator resolved to nothing within its wait budget
var ErrElementNotFound = errors.New("element not found")

// AssertionError is returned when a located element failed an expected-state check
type AssertionError struct {
	Check    string // visible, url-includes, scroll-changed, ...
	Target   string // locator name, URL, ...
	Expected string
	Actual   string
	Cause    error
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "assertion %q failed", e.Check)
	if e.Target != "" {
		fmt.Fprintf(&b, " for %s", e.Target)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error {
	return e.Cause
}

// Assertf builds an AssertionError with a formatted actual value
func Assertf(check, target, expected, actualFormat string, args ...interface{}) *AssertionError {
	return &AssertionError{
		Check:    check,
		Target:   target,
		Expected: expected,
		Actual:   fmt.Sprintf(actualFormat, args...),
	}
}

// IsAssertion reports whether err is or wraps an AssertionError
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err is or wraps ErrElementNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrElementNotFound)
}
