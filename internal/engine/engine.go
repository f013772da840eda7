package engine

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greentic-ai/cardengine/internal/assets"
	"github.com/greentic-ai/cardengine/internal/binding"
	"github.com/greentic-ai/cardengine/internal/expr"
	"github.com/greentic-ai/cardengine/internal/features"
	"github.com/greentic-ai/cardengine/internal/interaction"
	"github.com/greentic-ai/cardengine/internal/model"
	"github.com/greentic-ai/cardengine/internal/schema"
	"github.com/greentic-ai/cardengine/internal/trace"
	"github.com/greentic-ai/cardengine/internal/validate"
)

// Engine wires the pipeline stages together. Safe for concurrent use; each
// invocation gets its own binding context and trace recorder.
type Engine struct {
	resolver *assets.Resolver
	walker   *binding.Walker
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger installs a logger. The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithResolver replaces the environment-configured asset resolver.
func WithResolver(r *assets.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// New builds an engine with the default expression grammar.
func New(opts ...Option) *Engine {
	e := &Engine{
		resolver: assets.NewFromEnv(),
		walker:   binding.NewWalker(expr.SimpleEngine{}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage is the host entry point: raw JSON in, raw JSON out. The
// operation name can steer the mode ("validate" forces validate mode); any
// other name renders. The output is either a result or an error envelope.
func (e *Engine) HandleMessage(operation string, input []byte) []byte {
	var value any
	if err := json.Unmarshal(input, &value); err != nil {
		return marshalEnvelope(schemaInvalid("invalid JSON", err.Error()))
	}

	root, ok := value.(map[string]any)
	if !ok {
		return marshalEnvelope(schemaInvalid("invocation must be a JSON object", nil))
	}

	candidate := locateCandidate(root)
	validationMode := readValidationMode(root, candidate)
	schemaIssues := schema.Check(candidate, validationMode)
	if validationMode == model.ValidationError && len(schemaIssues) > 0 {
		return marshalEnvelope(schemaFailure(schemaIssues, ""))
	}

	inv, err := ParseInvocation(value)
	if err != nil {
		if len(schemaIssues) > 0 {
			return marshalEnvelope(schemaFailure(schemaIssues, err.Error()))
		}
		return marshalEnvelope(err)
	}

	if strings.EqualFold(operation, "validate") {
		inv.Mode = model.ModeValidate
	}

	result, err := e.HandleInvocation(inv)
	if err != nil {
		if len(schemaIssues) > 0 {
			return marshalEnvelope(schemaFailure(schemaIssues, err.Error()))
		}
		return marshalEnvelope(err)
	}

	if validationMode != model.ValidationOff {
		result.ValidationIssues = append(result.ValidationIssues, schemaIssues...)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return marshalEnvelope(&EngineError{Code: ErrCodeInternal, Message: "serialization error", Details: err.Error()})
	}
	return raw
}

// HandleInvocation runs the pipeline for a typed invocation.
func (e *Engine) HandleInvocation(inv *model.Invocation) (*model.AdaptiveCardResult, error) {
	inv.ApplyDefaults()
	rec := trace.NewRecorder()

	// An explicitly disabled interaction renders as if none was sent.
	if inv.Interaction != nil && inv.Interaction.Enabled != nil && !*inv.Interaction.Enabled {
		inv.Interaction = nil
	}
	if inv.Interaction != nil && inv.Interaction.CardInstanceID == "" {
		inv.Interaction.CardInstanceID = uuid.NewString()
	}

	rendered, err := e.render(inv, rec)
	if err != nil {
		return nil, err
	}

	if inv.ValidationMode == model.ValidationError && len(rendered.issues) > 0 {
		return nil, validationFailure(rendered.issues)
	}

	result := model.NewResult()
	result.CardFeatures = rendered.featureSummary
	result.ValidationIssues = rendered.issues
	if inv.Mode != model.ModeValidate {
		result.RenderedCard = rendered.card
	}

	if inv.Interaction != nil {
		event, stateOps, sessionOps := interaction.Normalize(inv.Interaction, rendered.card)
		result.Event = event
		result.StateUpdates = stateOps
		result.SessionUpdates = sessionOps
		rec.Record("interaction", map[string]any{
			"actionType":   event.ActionType,
			"actionId":     event.ActionID,
			"stateOps":     len(stateOps),
			"sessionOps":   len(sessionOps),
			"stateHashPre": trace.HashState(inv.State),
		})
	}

	// The result hash covers the assembled result without the telemetry
	// itself, so two runs with identical outcomes hash identically.
	if rec.Enabled() {
		rec.Record("assemble", map[string]any{"resultHash": trace.HashResult(result)})
	}
	result.TelemetryEvents = rec.Events()
	return result, nil
}

// rendered bundles the pipeline intermediates.
type rendered struct {
	card           any
	issues         []model.ValidationIssue
	featureSummary model.CardFeatureSummary
}

// render resolves, substitutes, validates, and analyzes one card according
// to the invocation mode.
func (e *Engine) render(inv *model.Invocation, rec *trace.Recorder) (*rendered, error) {
	doc, err := e.resolver.Resolve(inv)
	if err != nil {
		return nil, resolveToEngineError(err)
	}
	rec.Record("resolve", map[string]any{"source": string(inv.CardSource)})

	out := &rendered{card: doc, issues: []model.ValidationIssue{}}

	if inv.Mode == model.ModeRender || inv.Mode == model.ModeRenderAndValidate {
		ctx := binding.NewContext(inv)
		card, summary := e.walker.Render(doc, ctx)
		out.card = card
		rec.Record("render", map[string]any{
			"substitutions": summary.Substitutions,
			"misses":        summary.Misses,
		})
		e.logger.Debug("card rendered",
			zap.Int("substitutions", summary.Substitutions),
			zap.Int("misses", summary.Misses))
	}

	if inv.Mode == model.ModeValidate || inv.Mode == model.ModeRenderAndValidate {
		out.issues = validate.Validate(out.card)
		rec.Record("validate", map[string]any{"issues": len(out.issues)})
	}

	if inv.Mode != model.ModeValidate {
		out.featureSummary = features.Analyze(out.card)
	}

	return out, nil
}

// resolveToEngineError maps resolver failures onto envelope codes.
func resolveToEngineError(err error) *EngineError {
	switch {
	case assets.IsNotFound(err):
		return &EngineError{Code: ErrCodeAssetNotFound, Message: err.Error()}
	case assets.IsInvalidJSON(err):
		return &EngineError{Code: ErrCodeAssetInvalidJSON, Message: err.Error()}
	default:
		return &EngineError{Code: ErrCodeAssetIO, Message: err.Error()}
	}
}

func marshalEnvelope(err error) []byte {
	raw, marshalErr := json.Marshal(Envelope(err))
	if marshalErr != nil {
		return []byte(`{"error":{"code":"AC_INTERNAL_ERROR","message":"error envelope serialization failed"}}`)
	}
	return raw
}
