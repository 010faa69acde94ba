package scenario

import (
	"context"
	"sort"

	"fundix_e2e/infrastructure/config"
)

// Scenario tags
const (
	// TagLive marks scenarios that need a real layout or JavaScript engine
	TagLive = "live"
	// TagNetwork marks scenarios that issue HTTP requests against the target
	TagNetwork = "network"
)

// Scenario is a single declarative check run against a freshly loaded page
type Scenario struct {
	Name string
	Tags []string
	// SoftFail overrides the run-level soft-fail default when set
	SoftFail *bool
	// SoftIf makes the scenario soft-failing when it reports true for the
	// run configuration. SoftFail takes precedence.
	SoftIf func(cfg config.Config) bool
	// SkipVisit starts the scenario on a blank session, with the cookie
	// banner untouched
	SkipVisit bool
	Run       func(ctx context.Context, s *Session) error
}

// HasTag reports whether the scenario carries tag
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Suite groups scenarios of one area
type Suite struct {
	Name      string
	Scenarios []Scenario
}

// Soft marks a scenario as soft-failing whatever the run default
func Soft() *bool {
	v := true
	return &v
}

// Strict marks a scenario as hard-failing whatever the run default
func Strict() *bool {
	v := false
	return &v
}

// Filter selects what a run executes. Empty fields select everything.
type Filter struct {
	Suites      []string
	Tags        []string
	ExcludeTags []string
}

// IncludesSuite reports whether the suite takes part in the run
func (f Filter) IncludesSuite(name string) bool {
	if len(f.Suites) == 0 {
		return true
	}
	return contains(f.Suites, name)
}

// Includes reports whether the scenario runs. Scenarios of an included suite
// that fail this check are reported as skipped.
func (f Filter) Includes(sc Scenario) bool {
	for _, tag := range f.ExcludeTags {
		if sc.HasTag(tag) {
			return false
		}
	}
	if len(f.Tags) == 0 {
		return true
	}
	for _, tag := range f.Tags {
		if sc.HasTag(tag) {
			return true
		}
	}
	return false
}

// Tags returns every tag used in suites, sorted
func Tags(suites []Suite) []string {
	seen := make(map[string]bool)
	for _, suite := range suites {
		for _, sc := range suite.Scenarios {
			for _, tag := range sc.Tags {
				seen[tag] = true
			}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
