package interaction

import (
	"encoding/json"
	"strings"

	"github.com/greentic-ai/cardengine/internal/model"
)

// Normalize produces the action event and update operations for one
// interaction against its rendered card. State updates always precede
// session updates in the assembled result; within each list, insertion
// order is what the host must apply.
func Normalize(inter *model.CardInteraction, card any) (*model.AdaptiveActionEvent, []model.StateUpdateOp, []model.SessionUpdateOp) {
	inputs := NormalizeInputs(inter.RawInputs)
	action := findAction(card, inter.ActionID)

	stateOps := []model.StateUpdateOp{}
	sessionOps := []model.SessionUpdateOp{}

	switch inter.InteractionType {
	case model.InteractionSubmit, model.InteractionExecute:
		stateOps = append(stateOps, model.MergeState("form_data", inputs))

	case model.InteractionShowCard:
		subcard := metaString(inter.Metadata, "subcardId")
		if subcard == "" {
			subcard = inter.ActionID
		}
		stateOps = append(stateOps, model.SetState("ui.active_show_card."+inter.CardInstanceID, subcard))

	case model.InteractionToggleVisibility:
		visible := true
		if v, ok := inter.Metadata["visible"].(bool); ok {
			visible = v
		}
		stateOps = append(stateOps, toggleOps(action, inter.ActionID, visible)...)
	}

	if route := metaString(inter.Metadata, "route"); route != "" {
		sessionOps = append(sessionOps, model.SetRoute(route))
	}
	if cardID := metaString(inter.Metadata, "cardId"); cardID != "" {
		sessionOps = append(sessionOps, model.SetAttribute("card_id", cardID))
	}
	if push := metaString(inter.Metadata, "pushCard"); push != "" {
		sessionOps = append(sessionOps, model.PushCard(push))
	}
	if pop, ok := inter.Metadata["popCard"].(bool); ok && pop {
		sessionOps = append(sessionOps, model.PopCard())
	}

	event := buildEvent(inter, action, inputs)
	return event, stateOps, sessionOps
}

// toggleOps emits one visibility write per target element named by the
// matched action; without targets the action id itself is the key.
func toggleOps(action map[string]any, actionID string, visible bool) []model.StateUpdateOp {
	targets, _ := action["targetElements"].([]any)
	if len(targets) == 0 {
		return []model.StateUpdateOp{model.SetState("ui.visibility."+actionID, visible)}
	}

	ops := make([]model.StateUpdateOp, 0, len(targets))
	for _, t := range targets {
		switch target := t.(type) {
		case string:
			ops = append(ops, model.SetState("ui.visibility."+target, visible))
		case map[string]any:
			id, _ := target["elementId"].(string)
			if id == "" {
				continue
			}
			value := visible
			if explicit, ok := target["isVisible"].(bool); ok {
				value = explicit
			}
			ops = append(ops, model.SetState("ui.visibility."+id, value))
		}
	}
	if len(ops) == 0 {
		return []model.StateUpdateOp{model.SetState("ui.visibility."+actionID, visible)}
	}
	return ops
}

// buildEvent fills the event from the interaction. A verb the channel
// reported (the interaction's verb, then metadata.verb) wins; the matched
// card action's verb fills in when the channel sent none.
func buildEvent(inter *model.CardInteraction, action map[string]any, inputs any) *model.AdaptiveActionEvent {
	event := &model.AdaptiveActionEvent{
		ActionType:     model.ActionTypeName(inter.InteractionType),
		ActionID:       inter.ActionID,
		CardInstanceID: inter.CardInstanceID,
		Inputs:         inputs,
		Verb:           inter.Verb,
		Route:          metaString(inter.Metadata, "route"),
		SubcardID:      metaString(inter.Metadata, "subcardId"),
		Metadata:       inter.Metadata,
	}

	event.CardID = metaString(inter.Metadata, "cardId")
	if event.CardID == "" {
		event.CardID = inter.CardInstanceID
	}

	if event.Verb == "" {
		event.Verb = metaString(inter.Metadata, "verb")
	}
	if event.Verb == "" {
		if verb, ok := action["verb"].(string); ok {
			event.Verb = verb
		}
	}
	return event
}

// NormalizeInputs coerces raw channel input payloads into an object. JSON
// text parses in place; bare scalars wrap under "value".
func NormalizeInputs(raw any) any {
	switch value := raw.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return value
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(value), &parsed); err == nil && parsed != nil {
			return parsed
		}
		return map[string]any{"value": value}
	default:
		return map[string]any{"value": value}
	}
}

// metaString reads a string-valued metadata key.
func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

// findAction walks the card for the action whose id matches actionID. The
// search covers actions arrays, selectAction fields, and ShowCard
// sub-cards. An empty map means no match.
func findAction(card any, actionID string) map[string]any {
	if actionID == "" {
		return map[string]any{}
	}
	if found := searchActions(card, actionID); found != nil {
		return found
	}
	return map[string]any{}
}

func searchActions(node any, actionID string) map[string]any {
	switch n := node.(type) {
	case map[string]any:
		if id, _ := n["id"].(string); id == actionID {
			if typ, _ := n["type"].(string); strings.HasPrefix(typ, "Action.") {
				return n
			}
		}
		for _, v := range n {
			if found := searchActions(v, actionID); found != nil {
				return found
			}
		}
	case []any:
		for _, v := range n {
			if found := searchActions(v, actionID); found != nil {
				return found
			}
		}
	}
	return nil
}
