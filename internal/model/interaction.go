package model

import (
	"encoding/json"
	"fmt"
)

// CardInteractionType classifies the raw interaction a channel reported.
type CardInteractionType string

const (
	InteractionSubmit           CardInteractionType = "submit"
	InteractionExecute          CardInteractionType = "execute"
	InteractionOpenURL          CardInteractionType = "open_url"
	InteractionShowCard         CardInteractionType = "show_card"
	InteractionToggleVisibility CardInteractionType = "toggle_visibility"
)

// CardInteraction is the raw interaction as delivered by the host.
type CardInteraction struct {
	InteractionType CardInteractionType `json:"interaction_type"`
	ActionID        string              `json:"action_id"`

	// CardInstanceID is stable per rendered card instance.
	CardInstanceID string `json:"card_instance_id"`

	// RawInputs maps input ids to values. Hosts occasionally deliver this
	// as a JSON-encoded string or a bare scalar; normalization handles
	// those shapes.
	RawInputs any `json:"raw_inputs,omitempty"`

	// Verb carries the Action.Execute verb when the channel reports one.
	Verb string `json:"verb,omitempty"`

	// Metadata holds recognized keys (route, verb, cardId, subcardId,
	// visible, pushCard, popCard) plus free-form passthrough.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Enabled, when explicitly false, drops the interaction before
	// normalization.
	Enabled *bool `json:"enabled,omitempty"`
}

// UnmarshalJSON accepts both "interaction_type" and the shorter "type" key,
// and the historical PascalCase type spellings ("Submit", "OpenUrl").
func (i *CardInteraction) UnmarshalJSON(data []byte) error {
	type alias CardInteraction
	aux := struct {
		*alias
		Type CardInteractionType `json:"type"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if i.InteractionType == "" {
		i.InteractionType = aux.Type
	}
	return nil
}

// UnmarshalJSON maps spellings like "Submit", "openUrl", "toggle_visibility"
// onto the canonical constants.
func (t *CardInteractionType) UnmarshalJSON(data []byte) error {
	raw, err := decodeEnumString(data)
	if err != nil {
		return err
	}
	switch normalizeEnum(raw) {
	case "":
		*t = ""
	case "submit":
		*t = InteractionSubmit
	case "execute":
		*t = InteractionExecute
	case "openurl":
		*t = InteractionOpenURL
	case "showcard":
		*t = InteractionShowCard
	case "togglevisibility":
		*t = InteractionToggleVisibility
	default:
		return fmt.Errorf("unknown interaction_type %q", raw)
	}
	return nil
}

// AdaptiveActionEvent is the normalized interaction the engine emits.
type AdaptiveActionEvent struct {
	ActionType     string         `json:"actionType"`
	ActionID       string         `json:"actionId"`
	CardID         string         `json:"cardId"`
	CardInstanceID string         `json:"cardInstanceId"`
	SubcardID      string         `json:"subcardId,omitempty"`
	Inputs         any            `json:"inputs"`
	Route          string         `json:"route,omitempty"`
	Verb           string         `json:"verb,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ActionTypeName maps an interaction type onto the event actionType string.
func ActionTypeName(t CardInteractionType) string {
	switch t {
	case InteractionSubmit:
		return "Submit"
	case InteractionExecute:
		return "Execute"
	case InteractionOpenURL:
		return "OpenUrl"
	case InteractionShowCard:
		return "ShowCard"
	case InteractionToggleVisibility:
		return "ToggleVisibility"
	default:
		return string(t)
	}
}
