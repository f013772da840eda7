package engine

import (
	"encoding/json"

	"github.com/greentic-ai/cardengine/internal/model"
)

// isInvocationShaped reports whether a JSON object is addressable as an
// invocation on its own. The card fields are the discriminator; contextual
// fields like payload appear on plain envelopes too.
func isInvocationShaped(obj map[string]any) bool {
	if _, ok := obj["card_spec"]; ok {
		return true
	}
	_, ok := obj["card_source"]
	return ok
}

// locateCandidate finds the object the invocation schema should be checked
// against: the value itself, config, config.card, or payload.
func locateCandidate(root map[string]any) map[string]any {
	if isInvocationShaped(root) {
		return root
	}
	if cfg, ok := root["config"].(map[string]any); ok {
		if isInvocationShaped(cfg) {
			return cfg
		}
		if card, ok := cfg["card"].(map[string]any); ok && isInvocationShaped(card) {
			return card
		}
	}
	if payload, ok := root["payload"].(map[string]any); ok && isInvocationShaped(payload) {
		return payload
	}
	return root
}

// readValidationMode peeks at the validation mode before full parsing so
// schema checking can run even when the invocation itself will not decode.
func readValidationMode(root, candidate map[string]any) model.ValidationMode {
	for _, obj := range []map[string]any{candidate, root} {
		for _, key := range []string{"validation_mode", "validationMode"} {
			raw, ok := obj[key].(string)
			if !ok {
				continue
			}
			switch raw {
			case "off", "Off", "OFF":
				return model.ValidationOff
			case "warn", "Warn", "WARN":
				return model.ValidationWarn
			case "error", "Error", "ERROR":
				return model.ValidationError
			}
		}
	}
	return model.ValidationWarn
}

// ParseInvocation unwraps the host envelope into a typed invocation.
//
// Accepted shapes, in order:
//  1. the invocation itself
//  2. {config: <invocation>, payload, session, state, ...}
//  3. {config: {card: <invocation>}, ...}
//  4. {payload: <invocation>}
//  5. a plain envelope whose own fields are the invocation's fields
//
// For shapes 2 and 3 the outer envelope's contextual fields override the
// nested invocation's.
func ParseInvocation(value any) (*model.Invocation, error) {
	root, ok := value.(map[string]any)
	if !ok {
		return nil, schemaInvalid("invocation must be a JSON object", nil)
	}

	if isInvocationShaped(root) {
		return decodeInvocation(root)
	}

	if cfg, ok := root["config"].(map[string]any); ok {
		if isInvocationShaped(cfg) {
			inv, err := decodeInvocation(cfg)
			if err != nil {
				return nil, err
			}
			mergeEnvelope(inv, root)
			return inv, nil
		}
		if card, ok := cfg["card"].(map[string]any); ok && isInvocationShaped(card) {
			inv, err := decodeInvocation(card)
			if err != nil {
				return nil, err
			}
			mergeEnvelope(inv, root)
			return inv, nil
		}
	}

	if payload, ok := root["payload"].(map[string]any); ok && isInvocationShaped(payload) {
		return decodeInvocation(payload)
	}

	return decodeInvocation(root)
}

// decodeInvocation round-trips the object through the typed decoder so the
// enum spellings normalize, then applies defaults.
func decodeInvocation(obj map[string]any) (*model.Invocation, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, schemaInvalid("invocation is not encodable", err.Error())
	}
	inv := &model.Invocation{}
	if err := json.Unmarshal(raw, inv); err != nil {
		return nil, schemaInvalid("invalid invocation", err.Error())
	}
	if _, ok := obj["validation_mode"]; !ok {
		if rawMode, ok := obj["validationMode"]; ok {
			modeRaw, _ := json.Marshal(rawMode)
			var mode model.ValidationMode
			if json.Unmarshal(modeRaw, &mode) == nil {
				inv.ValidationMode = mode
			}
		}
	}
	inv.ApplyDefaults()
	return inv, nil
}

// mergeEnvelope copies the outer envelope's contextual fields onto a nested
// invocation. Outer values win for data scopes; the nested interaction wins
// when both are present.
func mergeEnvelope(inv *model.Invocation, root map[string]any) {
	if nodeID, ok := root["node_id"].(string); ok && nodeID != "" {
		inv.NodeID = nodeID
	}
	if payload, ok := root["payload"]; ok && payload != nil {
		inv.Payload = payload
	}
	if session, ok := root["session"]; ok && session != nil {
		inv.Session = session
	}
	if state, ok := root["state"]; ok && state != nil {
		inv.State = state
	}

	if inv.Interaction == nil {
		if rawInter, ok := root["interaction"]; ok && rawInter != nil {
			raw, err := json.Marshal(rawInter)
			if err == nil {
				inter := &model.CardInteraction{}
				if json.Unmarshal(raw, inter) == nil {
					inv.Interaction = inter
				}
			}
		}
	}

	if rawMode, ok := root["mode"]; ok {
		raw, _ := json.Marshal(rawMode)
		var mode model.InvocationMode
		if json.Unmarshal(raw, &mode) == nil {
			inv.Mode = mode
		}
	}
	for _, key := range []string{"validation_mode", "validationMode"} {
		if rawMode, ok := root[key]; ok {
			raw, _ := json.Marshal(rawMode)
			var mode model.ValidationMode
			if json.Unmarshal(raw, &mode) == nil {
				inv.ValidationMode = mode
				break
			}
		}
	}

	if envelope, ok := root["envelope"]; ok {
		inv.Envelope = envelope
	}
}
