package domain

import "time"

// Outcome is the result class of a grouping run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeNotFound Outcome = "not_found"
)

// GroupReport describes one group container after a run.
type GroupReport struct {
	Key   string `json:"key"`
	Items []int  `json:"items"`

	// Attached is true when the container held items and was mounted.
	Attached bool `json:"attached"`

	// SynthesizedMount is true when the page had no mount point for the group
	// and a fallback one was appended to the document.
	SynthesizedMount bool `json:"synthesized_mount,omitempty"`
}

// Report summarizes a grouping run.
type Report struct {
	RunID     string        `json:"run_id"`
	Outcome   Outcome       `json:"outcome"`
	Layout    string        `json:"layout,omitempty"`
	Groups    []GroupReport `json:"groups,omitempty"`
	Relocated int           `json:"relocated"`

	// Skipped lists category ids that had no rendered item.
	Skipped []int `json:"skipped,omitempty"`

	// Unlisted lists rendered ids absent from the category list. They leave
	// the page together with the original wrapper.
	Unlisted []int `json:"unlisted,omitempty"`

	Duration time.Duration `json:"duration"`
}

// Found reports whether the run recognized a layout and regrouped it.
func (r *Report) Found() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}

// Err returns ErrLayoutNotFound for a not_found outcome and nil otherwise.
func (r *Report) Err() error {
	if r == nil || r.Outcome == OutcomeNotFound {
		return ErrLayoutNotFound
	}
	return nil
}

// Group returns the report for key.
func (r *Report) Group(key string) (GroupReport, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return GroupReport{}, false
}
