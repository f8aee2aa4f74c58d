package harness

import (
	"time"

	"github.com/roach88/tablecheck/internal/rowset"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies this execution in logs. Never part of snapshots.
	RunID string `json:"run_id"`

	Scenario string `json:"scenario"`

	// Query is the SQL that was executed.
	Query string `json:"query"`

	RowCount int `json:"row_count"`

	// Pass is true when the row count and every cell conform.
	Pass bool `json:"pass"`

	// Cardinality is set when the row count was unexpected.
	Cardinality *CardinalityError `json:"cardinality,omitempty"`

	// Verdict is nil when the query or setup failed.
	Verdict *rowset.Verdict `json:"verdict,omitempty"`

	// Errors contains human-readable failure messages.
	Errors []string `json:"errors,omitempty"`

	Duration time.Duration `json:"-"`
}

// NewResult creates a new passing result.
func NewResult(runID, scenario string) *Result {
	return &Result{
		RunID:    runID,
		Scenario: scenario,
		Pass:     true,
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failures returns the verdict failures, or nil if there is no verdict.
func (r *Result) Failures() []rowset.Failure {
	if r.Verdict == nil {
		return nil
	}
	return r.Verdict.Failures
}
