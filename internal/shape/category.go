package shape

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by Category.Validate.
var (
	ErrUnknownKind    = errors.New("unknown shape kind")
	ErrMissingValues  = errors.New("category requires a non-empty value list")
	ErrInvalidRange   = errors.New("invalid integer range")
	ErrUnexpectedArgs = errors.New("category does not take parameters")
)

// DefaultSeparator joins the elements of a join_of value.
const DefaultSeparator = ","

// Category is a shape kind plus its parameters.
// The zero value is not valid; use the constructors or Of.
type Category struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Values lists the accepted literals for one_of and join_of.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`

	// Separator splits join_of values. Defaults to DefaultSeparator.
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	// Min and Max bound int_range. Either may be nil, not both.
	Min *int64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int64 `json:"max,omitempty" yaml:"max,omitempty"`

	// AllowEmpty accepts "" regardless of kind.
	AllowEmpty bool `json:"allow_empty,omitempty" yaml:"allow_empty,omitempty"`
}

// Of returns a parameterless category of kind k.
func Of(k Kind) Category { return Category{Kind: k} }

// Any accepts every value, including "".
func Any() Category { return Of(KindAny) }

// NonEmpty accepts any value except "".
func NonEmpty() Category { return Of(KindNonEmpty) }

// Int accepts a base-10 signed 64-bit integer.
func Int() Category { return Of(KindInt) }

// Bool accepts "0" or "1".
func Bool() Category { return Of(KindBool) }

// Numeric accepts a signed decimal number with an optional exponent.
func Numeric() Category { return Of(KindNumeric) }

// IntRange accepts integers in [lo, hi].
func IntRange(lo, hi int64) Category {
	return Category{Kind: KindIntRange, Min: &lo, Max: &hi}
}

// OneOf accepts exactly one of values.
func OneOf(values ...string) Category {
	return Category{Kind: KindOneOf, Values: append([]string(nil), values...)}
}

// JoinOf accepts a sep-joined list whose trimmed elements are all in values.
func JoinOf(sep string, values ...string) Category {
	return Category{Kind: KindJoinOf, Separator: sep, Values: append([]string(nil), values...)}
}

// OrEmpty returns a copy of c that also accepts the empty string.
func (c Category) OrEmpty() Category {
	c.AllowEmpty = true
	return c
}

// Validate reports configuration mistakes: unknown kinds, missing or
// stray parameters, inverted ranges.
func (c Category) Validate() error {
	if !c.Kind.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(c.Kind))
	}

	switch c.Kind {
	case KindOneOf, KindJoinOf:
		if len(c.Values) == 0 {
			return fmt.Errorf("%s: %w", c.Kind, ErrMissingValues)
		}
		if c.Min != nil || c.Max != nil {
			return fmt.Errorf("%s: min/max: %w", c.Kind, ErrUnexpectedArgs)
		}
		if c.Kind == KindOneOf && c.Separator != "" {
			return fmt.Errorf("%s: separator: %w", c.Kind, ErrUnexpectedArgs)
		}
	case KindIntRange:
		if c.Min == nil && c.Max == nil {
			return fmt.Errorf("%s: %w: min or max is required", c.Kind, ErrInvalidRange)
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return fmt.Errorf("%s: %w: min %d > max %d", c.Kind, ErrInvalidRange, *c.Min, *c.Max)
		}
		if len(c.Values) > 0 || c.Separator != "" {
			return fmt.Errorf("%s: values/separator: %w", c.Kind, ErrUnexpectedArgs)
		}
	default:
		if len(c.Values) > 0 || c.Separator != "" || c.Min != nil || c.Max != nil {
			return fmt.Errorf("%s: %w", c.Kind, ErrUnexpectedArgs)
		}
	}
	return nil
}

// String renders the category compactly for diagnostics, e.g.
// "int_range[0..10]", "one_of{on|off}", "non_empty?" (empty allowed).
func (c Category) String() string {
	var b strings.Builder
	b.WriteString(string(c.Kind))

	switch c.Kind {
	case KindIntRange:
		b.WriteByte('[')
		if c.Min != nil {
			fmt.Fprintf(&b, "%d", *c.Min)
		}
		b.WriteString("..")
		if c.Max != nil {
			fmt.Fprintf(&b, "%d", *c.Max)
		}
		b.WriteByte(']')
	case KindOneOf, KindJoinOf:
		b.WriteByte('{')
		b.WriteString(strings.Join(c.Values, "|"))
		b.WriteByte('}')
		if c.Kind == KindJoinOf && c.separator() != DefaultSeparator {
			fmt.Fprintf(&b, " sep %q", c.separator())
		}
	}

	if c.AllowEmpty {
		b.WriteByte('?')
	}
	return b.String()
}

func (c Category) separator() string {
	if c.Separator == "" {
		return DefaultSeparator
	}
	return c.Separator
}
