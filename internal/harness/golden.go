package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tablecheck/internal/canonical"
	"github.com/roach88/tablecheck/internal/rowset"
)

// GoldenDir is where AssertGolden keeps snapshots, relative to the
// package under test.
const GoldenDir = "testdata/golden"

// Snapshot converts a result to a deterministic map for canonical JSON.
// Run IDs, durations and the query text are left out so that reruns and
// query rewrites that return the same data produce identical snapshots.
func Snapshot(result *Result) map[string]any {
	failures := make([]any, 0, len(result.Failures()))
	for _, f := range result.Failures() {
		entry := map[string]any{
			"kind":     string(f.Kind),
			"row":      f.Row,
			"column":   f.Column,
			"expected": f.Expected.String(),
		}
		if f.Kind == rowset.FailureShapeMismatch {
			entry["value"] = f.Value
		}
		failures = append(failures, entry)
	}

	snap := map[string]any{
		"scenario":  result.Scenario,
		"pass":      result.Pass,
		"row_count": result.RowCount,
		"failures":  failures,
	}
	if result.Cardinality != nil {
		snap["cardinality"] = map[string]any{
			"expected": result.Cardinality.Expected,
			"actual":   result.Cardinality.Actual,
		}
	}
	return snap
}

// MarshalSnapshot returns the canonical JSON snapshot of result followed
// by a newline. This is the exact content of a golden file.
func MarshalSnapshot(result *Result) ([]byte, error) {
	data, err := canonical.Marshal(Snapshot(result))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot for %q: %w", result.Scenario, err)
	}
	return append(data, '\n'), nil
}

// AssertGolden compares the result snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
