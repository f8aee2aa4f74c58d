package rowset

import (
	"errors"
	"fmt"

	"github.com/roach88/tablecheck/internal/shape"
)

// Sentinel errors wrapped by SchemaError.
var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrEmptyColumnName = errors.New("empty column name")
	ErrInvalidCategory = errors.New("invalid category")
)

// SchemaError reports a schema that cannot be constructed.
// It is a test-authoring bug, never a data problem.
type SchemaError struct {
	Column string // Offending column, empty if not applicable
	Index  int    // Position of the column in the declaration
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema column[%d]: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("schema column[%d] %q: %v", e.Index, e.Column, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Column declares the expected shape of one result column.
type Column struct {
	Name     string
	Category shape.Category
	Required bool
}

// Required declares a column that must be present in every row.
func Required(name string, c shape.Category) Column {
	return Column{Name: name, Category: c, Required: true}
}

// Optional declares a column that may be absent; if present it must match.
func Optional(name string, c shape.Category) Column {
	return Column{Name: name, Category: c}
}

// Schema is an immutable, ordered set of column declarations.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema validates the declarations and builds a Schema.
// Declaration order is kept and determines diagnostic order.
func NewSchema(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if col.Name == "" {
			return nil, &SchemaError{Index: i, Err: ErrEmptyColumnName}
		}
		if prev, dup := s.index[col.Name]; dup {
			return nil, &SchemaError{
				Column: col.Name,
				Index:  i,
				Err:    fmt.Errorf("%w (first declared at column[%d])", ErrDuplicateColumn, prev),
			}
		}
		if err := col.Category.Validate(); err != nil {
			return nil, &SchemaError{
				Column: col.Name,
				Index:  i,
				Err:    fmt.Errorf("%w: %w", ErrInvalidCategory, err),
			}
		}

		col.Category = cloneCategory(col.Category)
		s.index[col.Name] = i
		s.columns = append(s.columns, col)
	}

	return s, nil
}

// MustSchema is NewSchema that panics on error, for schemas written as
// literals in tests.
func MustSchema(columns ...Column) *Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns a copy of the declarations in order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	for i, col := range s.columns {
		col.Category = cloneCategory(col.Category)
		out[i] = col
	}
	return out
}

// Len returns the number of declared columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Lookup returns the declaration for name.
func (s *Schema) Lookup(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	col := s.columns[i]
	col.Category = cloneCategory(col.Category)
	return col, true
}

// cloneCategory detaches slices and pointers so callers cannot mutate a
// schema after construction.
func cloneCategory(c shape.Category) shape.Category {
	if c.Values != nil {
		c.Values = append([]string(nil), c.Values...)
	}
	if c.Min != nil {
		v := *c.Min
		c.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		c.Max = &v
	}
	return c
}
