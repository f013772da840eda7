package features

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greentic-ai/cardengine/internal/model"
)

func analyzeJSON(t *testing.T, raw string) model.CardFeatureSummary {
	t.Helper()
	var card any
	require.NoError(t, json.Unmarshal([]byte(raw), &card))
	return Analyze(card)
}

func TestAnalyzeEmptyCard(t *testing.T) {
	summary := analyzeJSON(t, `{"type": "AdaptiveCard", "version": "1.6"}`)
	assert.Equal(t, model.CardFeatureSummary{}, summary)
}

func TestAnalyzeNonObject(t *testing.T) {
	assert.Equal(t, model.CardFeatureSummary{}, Analyze("nope"))
	assert.Equal(t, model.CardFeatureSummary{}, Analyze(nil))
}

func TestAnalyzeElements(t *testing.T) {
	summary := analyzeJSON(t, `{
		"type": "AdaptiveCard",
		"version": "1.6",
		"body": [
			{"type": "TextBlock", "text": "a"},
			{"type": "RichTextBlock", "inlines": [{"type": "TextRun", "text": "b"}]},
			{"type": "Image", "url": "https://example.com/x.png"},
			{"type": "Media", "sources": [{"url": "https://example.com/v.mp4"}]},
			{"type": "Container", "items": [
				{"type": "Input.Text", "id": "t"},
				{"type": "Input.Number", "id": "n"}
			]},
			{"type": "ColumnSet", "columns": [
				{"type": "Column", "items": [{"type": "Input.Toggle", "id": "tg"}]}
			]},
			{"type": "Whatever"}
		]
	}`)

	assert.Equal(t, 3, summary.TextElements)
	assert.Equal(t, 3, summary.Containers)
	assert.Equal(t, 1, summary.Images)
	assert.Equal(t, 1, summary.Media)
	assert.Equal(t, 1, summary.InputText)
	assert.Equal(t, 1, summary.InputNumber)
	assert.Equal(t, 1, summary.InputToggle)
	assert.Equal(t, 1, summary.Unknown)
	assert.Equal(t, 3, summary.Inputs())
}

func TestAnalyzeActions(t *testing.T) {
	summary := analyzeJSON(t, `{
		"type": "AdaptiveCard",
		"version": "1.6",
		"selectAction": {"type": "Action.OpenUrl", "url": "https://example.com"},
		"actions": [
			{"type": "Action.Submit"},
			{"type": "Action.Execute", "verb": "go"},
			{"type": "Action.ToggleVisibility"},
			{"type": "Action.Custom"}
		]
	}`)

	assert.Equal(t, 1, summary.ActionSubmit)
	assert.Equal(t, 1, summary.ActionExecute)
	assert.Equal(t, 1, summary.ActionOpenURL)
	assert.Equal(t, 1, summary.ActionToggleVisibility)
	assert.Equal(t, 1, summary.Unknown)
	assert.Equal(t, 4, summary.Actions())
}

func TestAnalyzeShowCardRecurses(t *testing.T) {
	summary := analyzeJSON(t, `{
		"type": "AdaptiveCard",
		"version": "1.6",
		"actions": [
			{"type": "Action.ShowCard", "card": {
				"type": "AdaptiveCard",
				"version": "1.6",
				"body": [{"type": "Input.Date", "id": "when"}],
				"actions": [{"type": "Action.Submit"}]
			}}
		]
	}`)

	assert.Equal(t, 1, summary.ActionShowCard)
	assert.Equal(t, 1, summary.ActionSubmit)
	assert.Equal(t, 1, summary.InputDate)
}

func TestAnalyzeAuthentication(t *testing.T) {
	summary := analyzeJSON(t, `{
		"type": "AdaptiveCard",
		"version": "1.6",
		"authentication": {"connectionName": "sso"}
	}`)

	assert.Equal(t, 1, summary.Authentication)
}

func TestAnalyzeElementSelectAction(t *testing.T) {
	summary := analyzeJSON(t, `{
		"type": "AdaptiveCard",
		"version": "1.6",
		"body": [
			{"type": "Container", "selectAction": {"type": "Action.Submit"}}
		]
	}`)

	assert.Equal(t, 1, summary.Containers)
	assert.Equal(t, 1, summary.ActionSubmit)
}
