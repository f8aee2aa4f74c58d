package harness

import (
	"testing"

	"github.com/roach88/tablecheck/internal/rowset"
)

// ValidateRows validates rows against schema and records a single test
// error listing every nonconforming cell. It never stops the test, so
// later assertions still run. Returns whether the rows conform.
func ValidateRows(t testing.TB, rows rowset.ResultSet, schema *rowset.Schema) bool {
	t.Helper()

	verdict := rowset.Validate(rows, schema)
	if !verdict.Pass {
		t.Errorf("%s", verdict.Report())
	}
	return verdict.Pass
}

// RequireRowCount stops the test unless rows has exactly want rows.
func RequireRowCount(t testing.TB, rows rowset.ResultSet, want int) {
	t.Helper()
	RequireRows(t, rows, Exactly(want))
}

// RequireRows stops the test unless len(rows) satisfies c.
func RequireRows(t testing.TB, rows rowset.ResultSet, c *Cardinality) {
	t.Helper()

	if err := c.Check(len(rows)); err != nil {
		t.Fatalf("%v", err)
	}
}
