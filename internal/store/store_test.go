package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/tablecheck/internal/rowset"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Pragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	checks := map[string]string{
		"journal_mode": "wal",
		"foreign_keys": "1",
		"busy_timeout": "5000",
	}
	for name, want := range checks {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_MemorySkipsWAL(t *testing.T) {
	s := openMemory(t)
	if err := s.verifyPragma("journal_mode", "memory"); err != nil {
		t.Error(err)
	}
}

func TestOpen_ReadOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")
	ctx := context.Background()

	rw, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := rw.Exec(ctx, "CREATE TABLE t (x INTEGER)"); err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}
	rw.Close()

	ro, err := Open(path, WithReadOnly())
	if err != nil {
		t.Fatalf("Open(read-only) failed: %v", err)
	}
	defer ro.Close()

	if err := ro.Exec(ctx, "INSERT INTO t VALUES (1)"); err == nil {
		t.Error("expected write to read-only database to fail")
	}
	if _, err := ro.Query(ctx, "SELECT * FROM t"); err != nil {
		t.Errorf("Query() on read-only database failed: %v", err)
	}
}

func TestQuery_StringifiesValues(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	err := s.Exec(ctx,
		`CREATE TABLE bluetooth_info (
			state INTEGER, discoverable INTEGER, address TEXT,
			firmware_version TEXT, ratio REAL, raw BLOB
		)`,
		`INSERT INTO bluetooth_info VALUES (1, 0, 'AA:BB:CC:DD:EE:FF', NULL, 0.5, x'6869')`,
	)
	if err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}

	rows, err := s.Query(ctx, "SELECT * FROM bluetooth_info")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	want := rowset.ResultSet{{
		"state":            "1",
		"discoverable":     "0",
		"address":          "AA:BB:CC:DD:EE:FF",
		"firmware_version": "",
		"ratio":            "0.5",
		"raw":              "hi",
	}}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	for col, v := range want[0] {
		if rows[0][col] != v {
			t.Errorf("column %s = %q, want %q", col, rows[0][col], v)
		}
	}
}

func TestQuery_EmptyResultIsNotNil(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	if err := s.Exec(ctx, "CREATE TABLE t (x INTEGER)"); err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}

	rows, err := s.Query(ctx, "SELECT * FROM t")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("got %#v, want empty non-nil result set", rows)
	}
}

func TestQuery_WithArgs(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	err := s.Exec(ctx,
		"CREATE TABLE t (id INTEGER, name TEXT)",
		"INSERT INTO t VALUES (1, 'a'), (2, 'b')",
	)
	if err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}

	rows, err := s.Query(ctx, "SELECT name FROM t WHERE id = ?", 2)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "b" {
		t.Errorf("got %v, want [{name:b}]", rows)
	}
}

func TestQuery_ErrorIsQueryError(t *testing.T) {
	s := openMemory(t)

	_, err := s.Query(context.Background(), "SELECT * FROM no_such_table")
	if err == nil {
		t.Fatal("expected error")
	}

	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("error %T is not *QueryError", err)
	}
	if qerr.SQL != "SELECT * FROM no_such_table" {
		t.Errorf("SQL = %q", qerr.SQL)
	}
}

func TestQuery_CancelledContext(t *testing.T) {
	s := openMemory(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, "SELECT 1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestQuery_Timeout(t *testing.T) {
	s, err := Open(MemoryPath, WithQueryTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Unbounded recursive CTE never finishes on its own.
	_, err = s.Query(context.Background(), `
		WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x + 1 FROM c)
		SELECT max(x) FROM c`)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestExec_RollsBackOnFailure(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	if err := s.Exec(ctx, "CREATE TABLE t (x INTEGER NOT NULL)"); err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}

	err := s.Exec(ctx, "INSERT INTO t VALUES (1)", "INSERT INTO t VALUES (NULL)")
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("got %v, want *QueryError", err)
	}

	rows, err := s.Query(ctx, "SELECT * FROM t")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows after rollback, want 0", len(rows))
	}
}

func TestQueryWithSetup_RollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if err := s.Exec(ctx, "CREATE TABLE existing (x INTEGER)"); err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}

	setup := []string{
		"CREATE TABLE bluetooth_info (state INTEGER)",
		"INSERT INTO bluetooth_info VALUES (1)",
		"INSERT INTO existing VALUES (7)",
	}
	for run := 1; run <= 2; run++ {
		rows, err := s.QueryWithSetup(ctx, setup, "SELECT state FROM bluetooth_info")
		if err != nil {
			t.Fatalf("run %d: QueryWithSetup() failed: %v", run, err)
		}
		if len(rows) != 1 || rows[0]["state"] != "1" {
			t.Errorf("run %d: rows = %v, want one row with state 1", run, rows)
		}
	}

	tables, err := s.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables() failed: %v", err)
	}
	if len(tables) != 1 || tables[0] != "existing" {
		t.Errorf("Tables() = %v, want [existing]", tables)
	}

	rows, err := s.Query(ctx, "SELECT * FROM existing")
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("existing has %d rows after rollback, want 0", len(rows))
	}
}

func TestQueryWithSetup_SetupError(t *testing.T) {
	s := openMemory(t)

	_, err := s.QueryWithSetup(context.Background(), []string{"CREATE TABLE"}, "SELECT 1")
	var setupErr *SetupError
	if !errors.As(err, &setupErr) {
		t.Fatalf("expected *SetupError, got %T: %v", err, err)
	}
	if setupErr.SQL != "CREATE TABLE" {
		t.Errorf("SQL = %q, want %q", setupErr.SQL, "CREATE TABLE")
	}

	_, err = s.QueryWithSetup(context.Background(), []string{"CREATE TABLE t (x INTEGER)"}, "SELECT nope FROM t")
	var queryErr *QueryError
	if !errors.As(err, &queryErr) || errors.As(err, &setupErr) {
		t.Errorf("expected plain *QueryError for a failing query, got %T: %v", err, err)
	}
}

func TestQueryWithSetup_NoSetup(t *testing.T) {
	s := openMemory(t)

	rows, err := s.QueryWithSetup(context.Background(), nil, "SELECT 1 AS one")
	if err != nil {
		t.Fatalf("QueryWithSetup() failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["one"] != "1" {
		t.Errorf("rows = %v, want one row with one=1", rows)
	}
}

func TestTables(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	err := s.Exec(ctx,
		"CREATE TABLE windows_search (path TEXT)",
		"CREATE TABLE bluetooth_info (state INTEGER)",
		"CREATE VIEW bt AS SELECT * FROM bluetooth_info",
	)
	if err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}

	tables, err := s.Tables(ctx)
	if err != nil {
		t.Fatalf("Tables() failed: %v", err)
	}

	want := []string{"bluetooth_info", "bt", "windows_search"}
	if len(tables) != len(want) {
		t.Fatalf("got %v, want %v", tables, want)
	}
	for i := range want {
		if tables[i] != want[i] {
			t.Errorf("tables[%d] = %q, want %q", i, tables[i], want[i])
		}
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{[]byte("y"), "y"},
		{int64(-1), "-1"},
		{7, "7"},
		{1.25, "1.25"},
		{1e21, "1e+21"},
		{true, "1"},
		{false, "0"},
		{ts, "2024-01-02T03:04:05Z"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
