package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greentic-ai/cardengine/internal/expr"
	"github.com/greentic-ai/cardengine/internal/model"
)

func testContext() *Context {
	return NewContext(&model.Invocation{
		CardSpec: model.CardSpec{
			TemplateParams: map[string]any{"title": "Welcome"},
		},
		Payload: map[string]any{
			"user":   map[string]any{"name": "Ada"},
			"answer": float64(42),
		},
		Session: map[string]any{"route": "home"},
		State:   map[string]any{"tier": "pro"},
	})
}

func TestRenderWholeStringPlaceholder(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{
		"text":  "${user.name}",
		"value": "@{answer}",
	}
	out, summary := w.Render(doc, testContext())

	rendered := out.(map[string]any)
	assert.Equal(t, "Ada", rendered["text"])
	assert.Equal(t, float64(42), rendered["value"])
	assert.Equal(t, 2, summary.Substitutions)
	assert.Equal(t, 0, summary.Misses)
}

func TestRenderEmbeddedPlaceholder(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{"text": "Hello ${user.name}, answer is @{answer}."}
	out, _ := w.Render(doc, testContext())

	assert.Equal(t, "Hello Ada, answer is 42.", out.(map[string]any)["text"])
}

func TestRenderHandlebarsRunFirst(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{
		"greeting": "Hello {{user.name}}",
		"mixed":    "{{params.title}} ${user.name}",
	}
	out, _ := w.Render(doc, testContext())

	rendered := out.(map[string]any)
	assert.Equal(t, "Hello Ada", rendered["greeting"])
	assert.Equal(t, "Welcome Ada", rendered["mixed"])
}

func TestRenderMisses(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{
		"whole":    "${ghost.path}",
		"embedded": "x ${ghost.path} y",
	}
	out, summary := w.Render(doc, testContext())

	rendered := out.(map[string]any)
	assert.Nil(t, rendered["whole"])
	assert.Equal(t, "x  y", rendered["embedded"])
	assert.Equal(t, 2, summary.Misses)
}

func TestRenderTypedDefault(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{"text": `${missing.title||"Welcome"}`}
	out, _ := w.Render(doc, testContext())

	assert.Equal(t, "Welcome", out.(map[string]any)["text"])
}

func TestRenderTernary(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{"text": `${state.tier == "pro" ? "Tier Pro" : "Tier Free"}`}
	out, _ := w.Render(doc, testContext())

	assert.Equal(t, "Tier Pro", out.(map[string]any)["text"])
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{
		"body": []any{map[string]any{"text": "${user.name}"}},
	}
	_, _ = w.Render(doc, testContext())

	inner := doc["body"].([]any)[0].(map[string]any)
	assert.Equal(t, "${user.name}", inner["text"])
}

func TestRenderIdempotent(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{
		"type": "AdaptiveCard",
		"body": []any{
			map[string]any{"type": "TextBlock", "text": "Hello ${user.name}"},
		},
	}

	once, _ := w.Render(doc, testContext())
	twice, summary := w.Render(once, testContext())

	assert.Equal(t, once, twice)
	assert.Equal(t, 0, summary.Substitutions)
	assert.Equal(t, 0, summary.Misses)
}

func TestRenderKeysAreNeverTemplated(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{"${user.name}": "literal"}
	out, summary := w.Render(doc, testContext())

	rendered := out.(map[string]any)
	require.Contains(t, rendered, "${user.name}")
	assert.Equal(t, "literal", rendered["${user.name}"])
	assert.Equal(t, 0, summary.Substitutions)
}

func TestRenderNonStringScalarsPassThrough(t *testing.T) {
	w := NewWalker(expr.SimpleEngine{})

	doc := map[string]any{
		"count":   float64(3),
		"enabled": true,
		"nothing": nil,
	}
	out, summary := w.Render(doc, testContext())

	assert.Equal(t, doc, out)
	assert.Equal(t, 0, summary.Substitutions)
}
