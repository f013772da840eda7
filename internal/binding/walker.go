package binding

import (
	"regexp"
	"strings"

	"github.com/greentic-ai/cardengine/internal/expr"
)

var (
	// handlebarsRe matches {{ ... }} without nested braces.
	handlebarsRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

	// placeholderRe matches one @{...} or ${...}. Nested placeholders are
	// unsupported; the inner braces stay literal.
	placeholderRe = regexp.MustCompile(`[@$]\{([^{}]*)\}`)

	// wholeRe matches a string that is a single placeholder after trimming.
	wholeRe = regexp.MustCompile(`^\s*[@$]\{([^{}]*)\}\s*$`)
)

// Summary counts what a walk did, for trace reporting.
type Summary struct {
	Substitutions int `json:"substitutions"`
	Misses        int `json:"misses"`
}

// Walker substitutes placeholders throughout a card document.
type Walker struct {
	engine expr.Engine
}

// NewWalker builds a walker around the given expression engine. Pass
// expr.SimpleEngine{} for the default grammar.
func NewWalker(engine expr.Engine) *Walker {
	return &Walker{engine: engine}
}

// Render returns a document of identical shape with placeholders replaced.
// The input document is never mutated.
func (w *Walker) Render(doc any, ctx *Context) (any, Summary) {
	summary := Summary{}
	// The {{…}} pre-pass runs across the whole document before any
	// @{…}/${…} substitution. Tests depend on this ordering: templated
	// text may itself become input to the path pass.
	pre := w.walk(doc, ctx, &summary, w.rewriteHandlebars)
	out := w.walk(pre, ctx, &summary, w.rewritePlaceholders)
	return out, summary
}

// walk applies rewrite to every string node. Objects recurse on values
// (keys are never templated), arrays recurse on elements, and non-string
// scalars pass through unchanged.
func (w *Walker) walk(doc any, ctx *Context, summary *Summary, rewrite func(string, *Context, *Summary) any) any {
	switch node := doc.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, v := range node {
			out[k] = w.walk(v, ctx, summary, rewrite)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, v := range node {
			out[i] = w.walk(v, ctx, summary, rewrite)
		}
		return out
	case string:
		return rewrite(node, ctx, summary)
	default:
		return doc
	}
}

// rewriteHandlebars replaces every {{ expr }} with its stringified value.
// This form is purely textual and never produces typed replacement.
func (w *Walker) rewriteHandlebars(s string, ctx *Context, summary *Summary) any {
	if !strings.Contains(s, "{{") {
		return s
	}
	return handlebarsRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[2 : len(match)-2]
		val, ok := w.engine.Eval(inner, ctx)
		if !ok {
			summary.Misses++
			return ""
		}
		summary.Substitutions++
		return expr.Stringify(val)
	})
}

// rewritePlaceholders handles @{…} and ${…}. A whole-string placeholder is
// replaced by the typed value; embedded placeholders are stringified and
// concatenated with the surrounding literal text.
func (w *Walker) rewritePlaceholders(s string, ctx *Context, summary *Summary) any {
	if !strings.Contains(s, "@{") && !strings.Contains(s, "${") {
		return s
	}

	if m := wholeRe.FindStringSubmatch(s); m != nil {
		val, ok := w.engine.Eval(m[1], ctx)
		if !ok {
			summary.Misses++
			return nil
		}
		summary.Substitutions++
		return val
	}

	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[2 : len(match)-1]
		val, ok := w.engine.Eval(inner, ctx)
		if !ok || val == nil {
			summary.Misses++
			return ""
		}
		summary.Substitutions++
		return expr.Stringify(val)
	})
}
