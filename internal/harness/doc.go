// Package harness runs table scenarios: it executes a query through the
// store, checks the row count, and validates the rows against the
// scenario's column schema with rowset.Validate.
//
// A scenario is configuration, not code. Per-table test cases are data
// consumed by one shared validator.
//
// # Scenario Format
//
// Scenarios are YAML (.yaml, .yml) or CUE (.cue) files:
//
//	name: bluetooth_info
//	description: "Sanity check for bluetooth_info"
//	setup:
//	  - CREATE TABLE bluetooth_info (state INTEGER, address TEXT)
//	  - INSERT INTO bluetooth_info VALUES (1, 'AA:BB:CC:DD:EE:FF')
//	query: select * from bluetooth_info
//	rows:
//	  exactly: 1
//	columns:
//	  - name: state
//	    type: int
//	  - name: address
//	    type: mac_address
//	  - name: firmware_version
//	    type: non_empty
//	    optional: true
//
// Instead of query, a scenario may name a table and equality filters:
//
//	table: windows_search
//	where: { query: "*", max_results: 1 }
//
// Table and column names are checked against an identifier whitelist and
// filter values are bound as parameters.
//
// Columns are validated in declaration order; undeclared result columns
// are ignored. Column types are shape kinds (see internal/shape) and may
// carry values, separator, min, max and allow_empty.
//
// # Cardinality
//
// rows.exactly, rows.min and rows.max are checked before validation and
// reported separately from cell failures. Omit rows to accept any count.
//
// # Usage in Go tests
//
//	rows, err := st.Query(ctx, "select * from bluetooth_info")
//	require.NoError(t, err)
//	harness.RequireRowCount(t, rows, 1)
//	harness.ValidateRows(t, rows, rowset.MustSchema(
//	    rowset.Required("state", shape.Int()),
//	    rowset.Required("address", shape.NonEmpty()),
//	))
//
// ValidateRows reports a single test failure listing every nonconforming
// cell rather than stopping at the first.
package harness
