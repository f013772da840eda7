package canonicaljson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"integral float", float64(42), "42"},
		{"negative", float64(-100), "-100"},
		{"zero", float64(0), "0"},
		{"fractional", 1.5, "1.5"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []any{float64(1), "a", nil}, `[1,"a",null]`},
		{"object", map[string]any{"a": float64(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": float64(1),
		"alpha": float64(2),
		"beta":  float64(3),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalNestedSortedKeys(t *testing.T) {
	obj := map[string]any{
		"z": map[string]any{"b": float64(1), "a": float64(2)},
		"a": float64(3),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalUTF16KeyOrdering(t *testing.T) {
	// U+10000 (surrogate pair 0xD800 0xDC00) sorts before U+E000 in UTF-16
	// code units even though UTF-8 byte order says otherwise.
	obj := map[string]any{
		"\uE000":     float64(1),
		"\U00010000": float64(2),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalNoHTMLEscaping(t *testing.T) {
	result, err := Marshal("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(result))
}

func TestMarshalLineSeparatorsRaw(t *testing.T) {
	// RFC 8785 wants minimal escaping: U+2028 and U+2029 stay raw even
	// though encoding/json escapes them.
	result, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))
}

func TestMarshalDeterministic(t *testing.T) {
	obj := map[string]any{
		"nested": map[string]any{"y": []any{float64(1), float64(2)}, "x": "v"},
		"list":   []any{map[string]any{"b": float64(1), "a": float64(2)}},
	}

	first, err := Marshal(obj)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(obj)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := Marshal(map[string]any{"bad": nan()})
	assert.Error(t, err)
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
