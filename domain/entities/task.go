package entities

import "time"

// Outcome is the final status of a scenario
type Outcome string

const (
	OutcomePassed     Outcome = "passed"
	OutcomeFailed     Outcome = "failed"
	OutcomeSoftFailed Outcome = "soft_failed"
	OutcomeSkipped    Outcome = "skipped"
)

// ScenarioResult records a single scenario execution
type ScenarioResult struct {
	Suite    string        `json:"suite" yaml:"suite"`
	Name     string        `json:"name" yaml:"name"`
	Outcome  Outcome       `json:"outcome" yaml:"outcome"`
	Attempts int           `json:"attempts" yaml:"attempts"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Tags     []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// FullName returns "suite/name"
func (r ScenarioResult) FullName() string {
	return r.Suite + "/" + r.Name
}

// RunReport aggregates the results of one run
type RunReport struct {
	BaseURL  string           `json:"base_url" yaml:"base_url"`
	Engine   string           `json:"engine" yaml:"engine"`
	SoftFail bool             `json:"soft_fail" yaml:"soft_fail"`
	Started  time.Time        `json:"started" yaml:"started"`
	Finished time.Time        `json:"finished" yaml:"finished"`
	Results  []ScenarioResult `json:"results" yaml:"results"`
}

// Add appends a result
func (r *RunReport) Add(res ScenarioResult) {
	r.Results = append(r.Results, res)
}

// Count returns the number of results with the given outcome
func (r *RunReport) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any scenario hard-failed. Soft failures do not count.
func (r *RunReport) Failed() bool {
	return r.Count(OutcomeFailed) > 0
}
