package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeys(t *testing.T) {
	data, err := Marshal(map[string]any{
		"row":    1,
		"column": "state",
		"kind":   "shape_mismatch",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"column":"state","kind":"shape_mismatch","row":1}`, string(data))
}

func TestMarshal_NestedValues(t *testing.T) {
	data, err := Marshal(map[string]any{
		"pass":     false,
		"rows":     int64(2),
		"errors":   []string{"b", "a"},
		"failures": []any{map[string]string{"value": "x"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"errors":["b","a"],"failures":[{"value":"x"}],"pass":false,"rows":2}`, string(data))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	data, err := Marshal("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(data))
}

func TestMarshal_LineSeparatorsLiteral(t *testing.T) {
	data, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(data))
}

func TestMarshal_EscapedBackslashPreserved(t *testing.T) {
	// A literal backslash followed by "u2028" text is not a separator.
	data, err := Marshal(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(data))
}

func TestMarshal_ControlCharactersEscaped(t *testing.T) {
	data, err := Marshal("a\nb\"c")
	require.NoError(t, err)
	assert.Equal(t, `"a\nb\"c"`, string(data))
}

func TestMarshal_NFCNormalisation(t *testing.T) {
	decomposed := "e\u0301" // e + combining acute
	data, err := Marshal(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshal_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D..., which sort before U+FFFD
	// in UTF-16 but after it in UTF-8.
	data, err := Marshal(map[string]any{
		"\uFFFD":     1,
		"\U0001F600": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFFFD\":1}", string(data))
}

func TestMarshal_Rejects(t *testing.T) {
	_, err := Marshal(nil)
	assert.ErrorContains(t, err, "null is forbidden")

	_, err = Marshal(1.5)
	assert.ErrorContains(t, err, "floats are forbidden")

	_, err = Marshal(map[string]any{"x": []any{struct{}{}}})
	assert.ErrorContains(t, err, `value for key "x": array[0]: unsupported type`)
}
