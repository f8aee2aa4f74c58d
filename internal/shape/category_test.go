package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_Validate(t *testing.T) {
	t.Run("every kind without parameters", func(t *testing.T) {
		for _, k := range Kinds() {
			switch k {
			case KindOneOf, KindJoinOf, KindIntRange:
				continue
			}
			assert.NoError(t, Of(k).Validate(), "kind %s", k)
		}
	})

	t.Run("parameterised constructors", func(t *testing.T) {
		require.NoError(t, IntRange(1, 1).Validate())
		require.NoError(t, OneOf("a").Validate())
		require.NoError(t, JoinOf(";", "a").Validate())
		require.NoError(t, Int().OrEmpty().Validate())
	})

	tests := []struct {
		name string
		cat  Category
		want error
	}{
		{"unknown kind", Of("integerish"), ErrUnknownKind},
		{"empty kind", Category{}, ErrUnknownKind},
		{"one_of without values", OneOf(), ErrMissingValues},
		{"join_of without values", Category{Kind: KindJoinOf}, ErrMissingValues},
		{"one_of with separator", Category{Kind: KindOneOf, Values: []string{"a"}, Separator: ","}, ErrUnexpectedArgs},
		{"one_of with bound", Category{Kind: KindOneOf, Values: []string{"a"}, Min: ptr(1)}, ErrUnexpectedArgs},
		{"range without bounds", Category{Kind: KindIntRange}, ErrInvalidRange},
		{"range inverted", IntRange(5, 1), ErrInvalidRange},
		{"range with values", Category{Kind: KindIntRange, Min: ptr(1), Values: []string{"x"}}, ErrUnexpectedArgs},
		{"int with values", Category{Kind: KindInt, Values: []string{"1"}}, ErrUnexpectedArgs},
		{"non_empty with max", Category{Kind: KindNonEmpty, Max: ptr(3)}, ErrUnexpectedArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "int", Int().String())
	assert.Equal(t, "non_empty?", NonEmpty().OrEmpty().String())
	assert.Equal(t, "int_range[0..10]", IntRange(0, 10).String())
	assert.Equal(t, "int_range[..10]", Category{Kind: KindIntRange, Max: ptr(10)}.String())
	assert.Equal(t, "one_of{on|off}", OneOf("on", "off").String())
	assert.Equal(t, "join_of{a|b}", JoinOf(",", "a", "b").String())
	assert.Equal(t, `join_of{a|b} sep ";"`, JoinOf(";", "a", "b").String())
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"int":         KindInt,
		"INT":         KindInt,
		" integer ":   KindInt,
		"normal":      KindAny,
		"text":        KindAny,
		"nonempty":    KindNonEmpty,
		"mac":         KindMACAddress,
		"mac_address": KindMACAddress,
		"enum":        KindOneOf,
	}
	for tag, want := range tests {
		got, ok := ParseKind(tag)
		assert.True(t, ok, "tag %q", tag)
		assert.Equal(t, want, got, "tag %q", tag)
	}

	_, ok := ParseKind("integerish")
	assert.False(t, ok)
}

func TestKinds_AllDescribed(t *testing.T) {
	kinds := Kinds()
	require.NotEmpty(t, kinds)
	for i, k := range kinds {
		assert.NotEmpty(t, k.Description(), "kind %s", k)
		if i > 0 {
			assert.Less(t, string(kinds[i-1]), string(k))
		}
	}
}

func TestParameterlessConstructors(t *testing.T) {
	tests := []struct {
		name   string
		c      Category
		kind   Kind
		accept string
		reject string
	}{
		{"any", Any(), KindAny, "", ""},
		{"non_empty", NonEmpty(), KindNonEmpty, "x", ""},
		{"int", Int(), KindInt, "-42", "4.2"},
		{"bool", Bool(), KindBool, "1", "true"},
		{"numeric", Numeric(), KindNumeric, "-0.5", "1e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.c.Kind)
			assert.NoError(t, tt.c.Validate())
			assert.True(t, Matches(tt.accept, tt.c))
			if tt.kind != KindAny {
				assert.False(t, Matches(tt.reject, tt.c))
			}
		})
	}
}
