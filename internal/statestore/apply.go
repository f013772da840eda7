package statestore

import (
	"strings"

	"github.com/greentic-ai/cardengine/internal/model"
)

// ApplyStateUpdates returns the state after applying ops in order. The
// input document is never mutated; missing intermediate objects are created
// on demand. Ops with invalid paths are skipped.
func ApplyStateUpdates(state any, ops []model.StateUpdateOp) any {
	doc := cloneObject(state)
	for _, op := range ops {
		if op.ValidatePath() != nil {
			continue
		}
		segments := strings.Split(op.Path, ".")
		switch op.Op {
		case model.StateOpSet:
			setPath(doc, segments, op.Value)
		case model.StateOpMerge:
			mergePath(doc, segments, op.Value)
		case model.StateOpDelete:
			deletePath(doc, segments)
		}
	}
	return doc
}

// ApplySessionUpdates returns the session after applying ops in order.
// Routes land on "route", attributes under "attributes", and the card
// navigation stack under "card_stack".
func ApplySessionUpdates(session any, ops []model.SessionUpdateOp) any {
	doc := cloneObject(session)
	for _, op := range ops {
		switch op.Op {
		case model.SessionOpSetRoute:
			doc["route"] = op.Route
		case model.SessionOpSetAttribute:
			attrs, ok := doc["attributes"].(map[string]any)
			if !ok {
				attrs = map[string]any{}
			}
			attrs[op.Key] = op.Value
			doc["attributes"] = attrs
		case model.SessionOpPushCard:
			stack, _ := doc["card_stack"].([]any)
			doc["card_stack"] = append(append([]any{}, stack...), op.ID)
		case model.SessionOpPopCard:
			stack, _ := doc["card_stack"].([]any)
			if len(stack) > 0 {
				doc["card_stack"] = append([]any{}, stack[:len(stack)-1]...)
			}
		}
	}
	return doc
}

// cloneObject deep-copies a JSON document, coercing non-objects to an empty
// object so updates always have somewhere to land.
func cloneObject(doc any) map[string]any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	out, _ := deepCopy(obj).(map[string]any)
	return out
}

func deepCopy(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, val := range node {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, val := range node {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// setPath writes value at the dotted path, creating intermediate objects.
// A non-object intermediate is replaced.
func setPath(doc map[string]any, segments []string, value any) {
	parent := descendCreate(doc, segments[:len(segments)-1])
	parent[segments[len(segments)-1]] = deepCopy(value)
}

// mergePath shallow-merges an object value into the object at the path.
// A non-object value or target degrades to set semantics.
func mergePath(doc map[string]any, segments []string, value any) {
	incoming, ok := value.(map[string]any)
	if !ok {
		setPath(doc, segments, value)
		return
	}
	parent := descendCreate(doc, segments[:len(segments)-1])
	key := segments[len(segments)-1]
	target, ok := parent[key].(map[string]any)
	if !ok {
		target = map[string]any{}
	}
	for k, v := range incoming {
		target[k] = deepCopy(v)
	}
	parent[key] = target
}

// deletePath removes the leaf key. Missing intermediates make it a no-op.
func deletePath(doc map[string]any, segments []string) {
	current := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			return
		}
		current = next
	}
	delete(current, segments[len(segments)-1])
}

func descendCreate(doc map[string]any, segments []string) map[string]any {
	current := doc
	for _, seg := range segments {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[seg] = next
		}
		current = next
	}
	return current
}
