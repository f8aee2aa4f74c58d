package rowset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/tablecheck/internal/shape"
)

// FailureKind classifies a failed cell.
type FailureKind string

const (
	FailureMissingColumn FailureKind = "missing_column"
	FailureShapeMismatch FailureKind = "shape_mismatch"
)

// Failure describes one nonconforming (row, column) pair.
type Failure struct {
	Kind     FailureKind    `json:"kind"`
	Row      int            `json:"row"`
	Column   string         `json:"column"`
	Value    string         `json:"value,omitempty"` // empty for missing_column
	Expected shape.Category `json:"expected"`
}

// String renders the failure on a single line.
func (f Failure) String() string {
	if f.Kind == FailureMissingColumn {
		return fmt.Sprintf("row %d: column %q: required column missing (expected %s)", f.Row, f.Column, f.Expected)
	}
	return fmt.Sprintf("row %d: column %q: value %q does not match %s", f.Row, f.Column, f.Value, f.Expected)
}

// Verdict is the outcome of one Validate call.
type Verdict struct {
	Pass     bool      `json:"pass"`
	Rows     int       `json:"rows"`
	Failures []Failure `json:"failures,omitempty"`
}

// FailuresByKind returns the failures of the given kind in order.
func (v *Verdict) FailuresByKind(kind FailureKind) []Failure {
	var out []Failure
	for _, f := range v.Failures {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// FailingRows returns the number of distinct rows with at least one failure.
func (v *Verdict) FailingRows() int {
	seen := make(map[int]struct{})
	for _, f := range v.Failures {
		seen[f.Row] = struct{}{}
	}
	return len(seen)
}

// Report lists every failing cell, one per line. Empty when passing.
func (v *Verdict) Report() string {
	if v.Pass {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d nonconforming cell(s) in %d of %d row(s):", len(v.Failures), v.FailingRows(), v.Rows)
	for _, f := range v.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
	return b.String()
}

// ErrVerdictFailed is wrapped by Verdict.Err.
var ErrVerdictFailed = errors.New("result set does not conform to schema")

// Err returns nil for a passing verdict, otherwise an error wrapping
// ErrVerdictFailed whose message lists every failure.
func (v *Verdict) Err() error {
	if v.Pass {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrVerdictFailed, v.Report())
}
