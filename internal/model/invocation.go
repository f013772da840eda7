package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CardSource identifies where the raw card JSON comes from.
type CardSource string

const (
	// CardSourceInline takes the card from card_spec.inline_json.
	CardSourceInline CardSource = "inline"

	// CardSourceAsset loads the card from a filesystem-like path.
	CardSourceAsset CardSource = "asset"

	// CardSourceCatalog loads the card by logical catalog name.
	CardSourceCatalog CardSource = "catalog"
)

// InvocationMode selects which outputs an invocation produces.
type InvocationMode string

const (
	// ModeRender produces a rendered card without structural validation.
	ModeRender InvocationMode = "render"

	// ModeValidate produces validation issues only; renderedCard is omitted.
	ModeValidate InvocationMode = "validate"

	// ModeRenderAndValidate produces both. This is the default.
	ModeRenderAndValidate InvocationMode = "render_and_validate"
)

// ValidationMode controls invocation schema validation.
type ValidationMode string

const (
	// ValidationOff skips invocation schema validation entirely.
	ValidationOff ValidationMode = "off"

	// ValidationWarn appends schema issues to validationIssues (default).
	ValidationWarn ValidationMode = "warn"

	// ValidationError aborts the invocation when schema issues are present.
	ValidationError ValidationMode = "error"
)

// CardSpec describes the card source details and the template inputs.
type CardSpec struct {
	// InlineJSON is the card document itself when card_source is inline.
	InlineJSON any `json:"inline_json,omitempty"`

	// AssetPath is a filesystem-like path for the asset source.
	AssetPath string `json:"asset_path,omitempty"`

	// CatalogName is a logical identifier for the catalog source.
	CatalogName string `json:"catalog_name,omitempty"`

	// TemplateParams is exposed to bindings under the params/template scopes.
	TemplateParams any `json:"template_params,omitempty"`

	// AssetRegistry maps logical names to paths, overriding environment
	// registries during resolution.
	AssetRegistry map[string]string `json:"asset_registry,omitempty"`
}

// Invocation is a single request to the engine. All fields are optional;
// zero values fall back to the documented defaults.
type Invocation struct {
	CardSource     CardSource       `json:"card_source,omitempty"`
	CardSpec       CardSpec         `json:"card_spec,omitempty"`
	NodeID         string           `json:"node_id,omitempty"`
	Payload        any              `json:"payload,omitempty"`
	Session        any              `json:"session,omitempty"`
	State          any              `json:"state,omitempty"`
	Interaction    *CardInteraction `json:"interaction,omitempty"`
	Mode           InvocationMode   `json:"mode,omitempty"`
	ValidationMode ValidationMode   `json:"validation_mode,omitempty"`

	// Envelope is opaque host metadata passed through unchanged.
	Envelope any `json:"envelope,omitempty"`
}

// ApplyDefaults fills zero-valued fields with their documented defaults.
func (inv *Invocation) ApplyDefaults() {
	if inv.CardSource == "" {
		inv.CardSource = CardSourceInline
	}
	if inv.Mode == "" {
		inv.Mode = ModeRenderAndValidate
	}
	if inv.ValidationMode == "" {
		inv.ValidationMode = ValidationWarn
	}
	if inv.Payload == nil {
		inv.Payload = map[string]any{}
	}
	if inv.Session == nil {
		inv.Session = map[string]any{}
	}
	if inv.State == nil {
		inv.State = map[string]any{}
	}
}

// UnmarshalJSON accepts the historical spellings of card sources:
// "Inline", "inline", "ASSET", etc.
func (s *CardSource) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnumString(data)
	if err != nil {
		return err
	}
	switch normalizeEnum(raw) {
	case "", "inline":
		*s = CardSourceInline
	case "asset":
		*s = CardSourceAsset
	case "catalog":
		*s = CardSourceCatalog
	default:
		return fmt.Errorf("unknown card_source %q", raw)
	}
	return nil
}

// UnmarshalJSON accepts "Render", "render", "RenderAndValidate",
// "render_and_validate" and friends.
func (m *InvocationMode) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnumString(data)
	if err != nil {
		return err
	}
	switch normalizeEnum(raw) {
	case "", "renderandvalidate":
		*m = ModeRenderAndValidate
	case "render":
		*m = ModeRender
	case "validate":
		*m = ModeValidate
	default:
		return fmt.Errorf("unknown mode %q", raw)
	}
	return nil
}

// UnmarshalJSON accepts "off", "warn", "error" case-insensitively.
func (m *ValidationMode) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnumString(data)
	if err != nil {
		return err
	}
	switch normalizeEnum(raw) {
	case "":
		*m = ValidationWarn
	case "off":
		*m = ValidationOff
	case "warn":
		*m = ValidationWarn
	case "error":
		*m = ValidationError
	default:
		return fmt.Errorf("unknown validation_mode %q", raw)
	}
	return nil
}

func decodeEnumString(data []byte) (string, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", err
	}
	return raw, nil
}

// normalizeEnum lowercases and strips underscores so snake_case, camelCase
// and PascalCase spellings all land on the same token.
func normalizeEnum(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "")
}
