package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tablecheck/internal/rowset"
	"github.com/roach88/tablecheck/internal/shape"
)

// Scenario defines one table check.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed by it.
	Name string `yaml:"name" json:"name" jsonschema:"required"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Setup statements run before the query, in order, in one transaction.
	// They stand in for environment setup (fixtures, mocked state).
	Setup []string `yaml:"setup,omitempty" json:"setup,omitempty"`

	// Query is the SQL to execute. Mutually exclusive with Table.
	Query string `yaml:"query,omitempty" json:"query,omitempty"`

	// Table and Where build "SELECT * FROM table WHERE k = ? AND ...".
	Table string         `yaml:"table,omitempty" json:"table,omitempty"`
	Where map[string]any `yaml:"where,omitempty" json:"where,omitempty"`

	// Rows is the optional cardinality expectation.
	Rows *Cardinality `yaml:"rows,omitempty" json:"rows,omitempty"`

	// Columns declares the expected columns in validation order.
	Columns []ColumnSpec `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// ColumnSpec is the file representation of a rowset.Column.
type ColumnSpec struct {
	Name       string   `yaml:"name" json:"name" jsonschema:"required"`
	Type       string   `yaml:"type" json:"type" jsonschema:"required"`
	Optional   bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
	AllowEmpty bool     `yaml:"allow_empty,omitempty" json:"allow_empty,omitempty"`
	Values     []string `yaml:"values,omitempty" json:"values,omitempty"`
	Separator  string   `yaml:"separator,omitempty" json:"separator,omitempty"`
	Min        *int64   `yaml:"min,omitempty" json:"min,omitempty"`
	Max        *int64   `yaml:"max,omitempty" json:"max,omitempty"`
}

// Column converts the declaration to a rowset.Column. Unknown type tags are kept
// verbatim so that schema construction reports them.
func (c ColumnSpec) Column() rowset.Column {
	kind, ok := shape.ParseKind(c.Type)
	if !ok {
		kind = shape.Kind(c.Type)
	}
	return rowset.Column{
		Name: c.Name,
		Category: shape.Category{
			Kind:       kind,
			Values:     c.Values,
			Separator:  c.Separator,
			Min:        c.Min,
			Max:        c.Max,
			AllowEmpty: c.AllowEmpty,
		},
		Required: !c.Optional,
	}
}

// Schema builds the rowset schema declared by Columns.
func (s *Scenario) Schema() (*rowset.Schema, error) {
	cols := make([]rowset.Column, len(s.Columns))
	for i, spec := range s.Columns {
		cols[i] = spec.Column()
	}
	return rowset.NewSchema(cols...)
}

// LoadError reports a scenario file that cannot be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrUnsupportedFormat is returned for files that are neither YAML nor CUE.
var ErrUnsupportedFormat = errors.New("unsupported scenario file extension")

// IsScenarioFile reports whether path has a scenario file extension.
func IsScenarioFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".cue":
		return true
	}
	return false
}

// LoadScenario reads, parses and validates a scenario file. The schema is
// built eagerly so configuration errors surface here, not at run time.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read scenario file: %w", err)}
	}

	var scenario *Scenario
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		scenario, err = ParseYAML(data)
	case ".cue":
		scenario, err = ParseCUE(data, path)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return scenario, nil
}

// ParseYAML decodes and validates a YAML scenario.
// Unknown fields are rejected (catches typos like "colums:").
func ParseYAML(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// scenarioFields are the top-level fields a CUE scenario may define.
var scenarioFields = map[string]bool{
	"name": true, "description": true, "setup": true, "query": true,
	"table": true, "where": true, "rows": true, "columns": true,
}

// ParseCUE compiles a CUE scenario, requires it to be concrete, and
// decodes it. filename is used in error positions.
func ParseCUE(data []byte, filename string) (*Scenario, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var unknown []string
	for iter.Next() {
		if !scenarioFields[iter.Selector().String()] {
			unknown = append(unknown, iter.Selector().String())
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown field(s) %v", unknown)
	}

	var scenario Scenario
	if err := v.Decode(&scenario); err != nil {
		return nil, formatCUEError(err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// formatCUEError flattens a CUE error list into one error with positions.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	msg := first.Error()
	if pos := first.Position(); pos.IsValid() {
		msg = fmt.Sprintf("%s:%d:%d: %s", filepath.Base(pos.Filename()), pos.Line(), pos.Column(), msg)
	}
	if len(errs) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
	}
	return errors.New(msg)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch {
	case s.Query == "" && s.Table == "":
		return fmt.Errorf("one of query or table is required")
	case s.Query != "" && s.Table != "":
		return fmt.Errorf("query and table are mutually exclusive")
	case s.Query != "" && len(s.Where) > 0:
		return fmt.Errorf("where requires table, not query")
	}

	if s.Table != "" {
		if _, _, err := s.SQL(); err != nil {
			return err
		}
	}

	if s.Rows == nil && len(s.Columns) == 0 {
		return fmt.Errorf("scenario checks nothing: declare rows, columns or both")
	}

	if s.Rows != nil {
		if err := s.Rows.validate(); err != nil {
			return fmt.Errorf("rows: %w", err)
		}
	}

	for i, col := range s.Columns {
		if col.Type == "" {
			return fmt.Errorf("columns[%d] %q: type is required", i, col.Name)
		}
	}

	if _, err := s.Schema(); err != nil {
		return err
	}
	return nil
}
