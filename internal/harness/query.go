package harness

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Identifiers are interpolated into SQL, so nothing else is accepted.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQL returns the statement and bind arguments the scenario executes.
func (s *Scenario) SQL() (string, []any, error) {
	if s.Query != "" {
		return s.Query, nil, nil
	}

	if !validIdentifier.MatchString(s.Table) {
		return "", nil, fmt.Errorf("invalid table name %q: must match pattern %s", s.Table, validIdentifier.String())
	}

	whereClause, args, err := buildWhereClause(s.Where)
	if err != nil {
		return "", nil, err
	}

	query := "SELECT * FROM " + s.Table
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	return query, args, nil
}

// buildWhereClause builds a parameterized WHERE clause from equality
// filters. Keys are sorted so the generated SQL is deterministic.
func buildWhereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))

	for _, key := range keys {
		if !validIdentifier.MatchString(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", key, validIdentifier.String())
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", key))
		args = append(args, toSQLValue(where[key]))
	}

	return strings.Join(clauses, " AND "), args, nil
}

// toSQLValue converts a decoded filter value to a driver argument.
func toSQLValue(v any) any {
	switch val := v.(type) {
	case string, int, int64, bool, float64:
		return val
	case nil:
		return nil
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatWhereClause renders filters for log and error messages.
func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}
