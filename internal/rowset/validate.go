package rowset

import "github.com/roach88/tablecheck/internal/shape"

// Validate checks every declared column of every row against schema.
//
// For each row, columns are visited in declaration order:
//   - absent and required: missing_column failure
//   - absent and optional: skipped
//   - present: shape_mismatch failure unless shape.Matches
//
// Undeclared columns are ignored. rows is never modified.
func Validate(rows ResultSet, schema *Schema) *Verdict {
	verdict := &Verdict{Rows: len(rows)}

	var columns []Column
	if schema != nil {
		columns = schema.columns
	}

	for i, row := range rows {
		for _, col := range columns {
			value, present := row[col.Name]
			if !present {
				if col.Required {
					verdict.Failures = append(verdict.Failures, Failure{
						Kind:     FailureMissingColumn,
						Row:      i,
						Column:   col.Name,
						Expected: cloneCategory(col.Category),
					})
				}
				continue
			}

			if !shape.Matches(value, col.Category) {
				verdict.Failures = append(verdict.Failures, Failure{
					Kind:     FailureShapeMismatch,
					Row:      i,
					Column:   col.Name,
					Value:    value,
					Expected: cloneCategory(col.Category),
				})
			}
		}
	}

	verdict.Pass = len(verdict.Failures) == 0
	return verdict
}
