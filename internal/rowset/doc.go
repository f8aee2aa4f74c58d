// Package rowset validates query result sets against a per-column shape
// schema.
//
// A ResultSet is what a query engine hands back: an ordered list of rows,
// each a map from column name to stringified value. A Schema declares, in
// order, the columns a scenario cares about, the shape each must have, and
// whether the column must be present.
//
// Validate applies shape.Matches to every declared column of every row and
// returns a Verdict. It never stops at the first failure, so one call
// surfaces every nonconforming cell. Two failure kinds are distinguished:
//
//   - missing_column: a required column is absent from a row
//   - shape_mismatch: a present value does not match its category
//
// Optional columns excuse absence only; a present optional value that does
// not match still fails. Row columns the schema does not declare are
// ignored, so a schema may describe any subset of a table.
//
// Row counts are not checked here. Cardinality is a caller-level concern
// layered on top (see internal/harness).
//
// Schema construction is the only place the package refuses to work:
// NewSchema returns a *SchemaError for duplicate columns, empty names and
// invalid categories.
package rowset
