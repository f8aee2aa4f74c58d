package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tablecheck/internal/rowset"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DefaultQueryTimeout bounds a single Query unless overridden.
const DefaultQueryTimeout = 5 * time.Second

// QueryError wraps a failed statement with its SQL text.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.SQL, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// SetupError is a QueryError raised by a setup statement.
type SetupError struct {
	QueryError
}

func (e *SetupError) Error() string {
	return "setup " + e.QueryError.Error()
}

// Option configures Open.
type Option func(*options)

type options struct {
	queryTimeout time.Duration
	readOnly     bool
}

// WithQueryTimeout bounds each Query. Zero or negative disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) { o.queryTimeout = d }
}

// WithReadOnly opens a file database in read-only mode.
func WithReadOnly() Option {
	return func(o *options) { o.readOnly = true }
}

// Store executes queries against a SQLite database.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens the SQLite database at path (MemoryPath for in-memory) and
// applies the required pragmas.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{queryTimeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := path
	if o.readOnly && path != MemoryPath {
		dsn = "file:" + path + "?mode=ro"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: an in-memory database is per connection, and SQLite
	// has a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, path != MemoryPath && !o.readOnly); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &Store{db: db, queryTimeout: o.queryTimeout}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Exec runs fixture statements in order inside one transaction.
func (s *Store) Exec(ctx context.Context, stmts ...string) error {
	if len(stmts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return &QueryError{SQL: stmt, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Query executes query and returns every row with stringified values.
func (s *Store) Query(ctx context.Context, query string, args ...any) (rowset.ResultSet, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return collect(rows, query)
}

// QueryWithSetup runs setup and then query inside one transaction that is
// always rolled back, so the database is left exactly as it was found.
func (s *Store) QueryWithSetup(ctx context.Context, setup []string, query string, args ...any) (rowset.ResultSet, error) {
	if len(setup) == 0 {
		return s.Query(ctx, query, args...)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range setup {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, &SetupError{QueryError{SQL: stmt, Err: err}}
		}
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return collect(rows, query)
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

// collect drains rows and closes them.
func collect(rows *sql.Rows, query string) (rowset.ResultSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{SQL: query, Err: fmt.Errorf("get columns: %w", err)}
	}

	result := rowset.ResultSet{}
	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &QueryError{SQL: query, Err: fmt.Errorf("scan row: %w", err)}
		}
		row := make(rowset.Row, len(columns))
		for i, col := range columns {
			row[col] = FormatValue(values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, &QueryError{SQL: query, Err: err}
	}
	return result, nil
}

// Tables lists user tables and views in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.Query(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row["name"])
	}
	return names, nil
}

// FormatValue serialises a driver value the way the harness expects.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, wal bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if wal {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if !strings.EqualFold(value, expected) {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
