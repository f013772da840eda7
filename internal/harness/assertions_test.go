package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPointer(t *testing.T) {
	doc := map[string]any{
		"renderedCard": map[string]any{
			"body": []any{
				map[string]any{"text": "hello"},
			},
		},
		"empty": map[string]any{},
	}

	tests := []struct {
		name     string
		pointer  string
		expected any
		found    bool
	}{
		{"root", "", doc, true},
		{"slash root", "/", doc, true},
		{"object key", "/renderedCard", doc["renderedCard"], true},
		{"array index", "/renderedCard/body/0/text", "hello", true},
		{"missing key", "/renderedCard/footer", nil, false},
		{"index out of range", "/renderedCard/body/5", nil, false},
		{"non-numeric index", "/renderedCard/body/x", nil, false},
		{"descend into scalar", "/renderedCard/body/0/text/deeper", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := lookupPointer(doc, tt.pointer)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.expected, value)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		got   any
		want  any
		equal bool
	}{
		{"strings", "a", "a", true},
		{"string mismatch", "a", "b", false},
		{"json float vs yaml int", float64(3), int(3), true},
		{"yaml int vs json float", int(3), float64(3), true},
		{"number vs string", float64(3), "3", false},
		{"bools", true, true, true},
		{"nils", nil, nil, true},
		{"maps recursive", map[string]any{"n": float64(1)}, map[string]any{"n": int(1)}, true},
		{"map extra key", map[string]any{"a": 1, "b": 2}, map[string]any{"a": 1}, false},
		{"slices recursive", []any{float64(1), "x"}, []any{int(1), "x"}, true},
		{"slice length mismatch", []any{1}, []any{1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, valueEqual(tt.got, tt.want))
		})
	}
}

func TestStepOutputDefaultsToLast(t *testing.T) {
	result := NewResult()
	result.Steps = []StepOutput{
		{Operation: "card"},
		{Operation: "validate"},
	}

	output, err := stepOutput(result, &Assertion{Type: AssertErrorCode, Code: "x"})
	assert.NoError(t, err)
	assert.Equal(t, "validate", output.Operation)

	first := 0
	output, err = stepOutput(result, &Assertion{Type: AssertErrorCode, Code: "x", Step: &first})
	assert.NoError(t, err)
	assert.Equal(t, "card", output.Operation)
}

func TestStepOutputNoSteps(t *testing.T) {
	_, err := stepOutput(NewResult(), &Assertion{Type: AssertErrorCode, Code: "x"})
	assert.Error(t, err)
}

func TestAssertionErrorMessage(t *testing.T) {
	err := &AssertionError{Type: "result_path", Expected: "/a = 1", Actual: "2"}
	assert.Contains(t, err.Error(), "result_path")
	assert.Contains(t, err.Error(), "/a = 1")
}
