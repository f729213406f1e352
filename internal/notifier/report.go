// Package notifier reports finished batch runs.
package notifier

import (
	"context"
	"time"

	"github.com/amishk599/nepcollege/internal/model"
)

// Notifier delivers a batch report somewhere a person will see it.
type Notifier interface {
	Notify(ctx context.Context, report Report) error
}

// Outcome is the result of one combination in a batch.
type Outcome struct {
	Criteria model.SearchCriteria
	Colleges int
	Path     string // local CSV, empty on failure
	Err      error
}

// Report summarizes one batch run.
type Report struct {
	Started  time.Time
	Duration time.Duration
	Outcomes []Outcome
}

// Succeeded counts combinations that were harvested and exported.
func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts combinations that ended in an error.
func (r Report) Failed() int { return len(r.Outcomes) - r.Succeeded() }

// Colleges totals the colleges found across successful combinations.
func (r Report) Colleges() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Colleges
	}
	return n
}
