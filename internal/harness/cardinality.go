package harness

import (
	"errors"
	"fmt"
)

// Cardinality is a row-count expectation. Exactly excludes Min and Max.
//
// Row counts are checked here, before shape validation, because a
// vacuous result set passes every schema.
type Cardinality struct {
	Exactly *int `yaml:"exactly,omitempty" json:"exactly,omitempty"`
	Min     *int `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *int `yaml:"max,omitempty" json:"max,omitempty"`
}

// Exactly returns a Cardinality requiring n rows.
func Exactly(n int) *Cardinality {
	return &Cardinality{Exactly: &n}
}

// AtLeast returns a Cardinality requiring n or more rows.
func AtLeast(n int) *Cardinality {
	return &Cardinality{Min: &n}
}

// CardinalityError reports an unexpected row count.
type CardinalityError struct {
	Expected string `json:"expected"`
	Actual   int    `json:"actual"`
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected %s row(s), got %d", e.Expected, e.Actual)
}

// Check returns a *CardinalityError when n violates the expectation.
// A nil Cardinality accepts any count.
func (c *Cardinality) Check(n int) error {
	if c == nil {
		return nil
	}
	switch {
	case c.Exactly != nil && n != *c.Exactly:
		return &CardinalityError{Expected: c.String(), Actual: n}
	case c.Min != nil && n < *c.Min:
		return &CardinalityError{Expected: c.String(), Actual: n}
	case c.Max != nil && n > *c.Max:
		return &CardinalityError{Expected: c.String(), Actual: n}
	}
	return nil
}

// String renders the expectation, e.g. "exactly 1" or "between 1 and 5".
func (c *Cardinality) String() string {
	switch {
	case c == nil:
		return "any number of"
	case c.Exactly != nil:
		return fmt.Sprintf("exactly %d", *c.Exactly)
	case c.Min != nil && c.Max != nil:
		return fmt.Sprintf("between %d and %d", *c.Min, *c.Max)
	case c.Min != nil:
		return fmt.Sprintf("at least %d", *c.Min)
	case c.Max != nil:
		return fmt.Sprintf("at most %d", *c.Max)
	default:
		return "any number of"
	}
}

var errNegativeCount = errors.New("row counts must be non-negative")

func (c *Cardinality) validate() error {
	if c.Exactly != nil && (c.Min != nil || c.Max != nil) {
		return fmt.Errorf("exactly cannot be combined with min or max")
	}
	for _, p := range []*int{c.Exactly, c.Min, c.Max} {
		if p != nil && *p < 0 {
			return errNegativeCount
		}
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("min %d exceeds max %d", *c.Min, *c.Max)
	}
	return nil
}
