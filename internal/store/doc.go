// Package store is the query collaborator: it executes SQL against a
// SQLite database and hands results back as rowset.ResultSet.
//
// Every cell is serialised to a string before it leaves the package, the
// way a virtual-table engine serialises column values:
//
//   - NULL      → ""
//   - INTEGER   → base-10 ("42", "-1")
//   - REAL      → shortest round-trip form ("0.5", "1e+21")
//   - BLOB/TEXT → raw bytes
//   - bool      → "1" / "0"
//   - time      → RFC 3339
//
// Query failures are returned as *QueryError before any ResultSet is
// built; a caller never sees a partial result.
//
// # Database Configuration
//
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity in fixtures
//   - WAL mode for writable file databases
//   - a single connection, so fixtures written to ":memory:" stay visible
//     to the query that follows
//
// Each Query runs under the store's query timeout (WithQueryTimeout). A
// query that exceeds it fails fast with context.DeadlineExceeded.
package store
