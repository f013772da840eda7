package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/greentic-ai/cardengine/internal/model"
)

// CodeInvocationSchema is the issue code for every schema finding.
const CodeInvocationSchema = "INVOCATION_SCHEMA"

//go:embed invocation.cue
var invocationSchema string

var (
	compileOnce sync.Once
	compiled    cue.Value
	compileErr  error
)

func schemaValue() (cue.Value, error) {
	compileOnce.Do(func() {
		ctx := cuecontext.New()
		compiled = ctx.CompileString(invocationSchema, cue.Filename("invocation.cue"))
		compileErr = compiled.Err()
	})
	return compiled, compileErr
}

// Check validates a decoded invocation envelope against the embedded schema.
// The envelope is the raw JSON value, not the typed struct, so findings
// point at what the host actually sent. mode off returns nothing; warn
// returns warning issues; error returns error issues, which the engine
// treats as a refusal.
func Check(envelope any, mode model.ValidationMode) []model.ValidationIssue {
	if mode == model.ValidationOff || envelope == nil {
		return nil
	}

	severity := model.SeverityWarning
	if mode == model.ValidationError {
		severity = model.SeverityError
	}

	schema, err := schemaValue()
	if err != nil {
		return []model.ValidationIssue{{
			Code:     CodeInvocationSchema,
			Message:  fmt.Sprintf("invocation schema failed to compile: %v", err),
			Severity: severity,
		}}
	}

	ctx := schema.Context()
	doc := ctx.Encode(envelope)
	if doc.Err() != nil {
		return []model.ValidationIssue{{
			Code:     CodeInvocationSchema,
			Message:  fmt.Sprintf("invocation is not encodable: %v", doc.Err()),
			Severity: severity,
		}}
	}

	unified := schema.Unify(doc)
	err = unified.Validate(cue.Concrete(false))
	if err == nil {
		return nil
	}

	issues := []model.ValidationIssue{}
	for _, e := range cueerrors.Errors(err) {
		issues = append(issues, model.ValidationIssue{
			Path:     pointerFromCUEPath(e.Path()),
			Code:     CodeInvocationSchema,
			Message:  e.Error(),
			Severity: severity,
		})
	}
	return issues
}

// pointerFromCUEPath renders a CUE error path as a JSON-pointer-like string.
func pointerFromCUEPath(path []string) string {
	out := ""
	for _, seg := range path {
		out += "/" + seg
	}
	return out
}
