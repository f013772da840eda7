package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoldenValidateScenario(t *testing.T) {
	// Validate mode keeps the output free of generated instance ids, so the
	// snapshot is byte-stable.
	scenario := &Scenario{
		Name:        "validate-missing-input-id",
		Description: "a validate run's snapshot stays stable",
		Steps: []Step{
			{
				Operation: "validate",
				Invocation: map[string]any{
					"card_source": "inline",
					"card_spec": map[string]any{
						"inline_json": map[string]any{
							"type":    "AdaptiveCard",
							"version": "1.6",
							"body":    []any{map[string]any{"type": "Input.Text"}},
						},
					},
				},
			},
		},
	}

	require.NoError(t, RunWithGolden(t, scenario))
}
