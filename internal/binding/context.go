package binding

import (
	"strconv"
	"strings"

	"github.com/greentic-ai/cardengine/internal/model"
)

// Scope names addressable as the first segment of a path.
const (
	ScopeParams      = "params"
	ScopeTemplate    = "template"
	ScopeState       = "state"
	ScopeSession     = "session"
	ScopePayload     = "payload"
	ScopeNode        = "node"
	ScopeNodePayload = "node_payload"
)

// bareLookupOrder is the scope precedence for paths whose first segment is
// not a scope name. Payload wins; the node shortcuts are only addressable
// by name.
var bareLookupOrder = []string{ScopePayload, ScopeSession, ScopeState, ScopeParams}

// Context is the scope stack consulted during path lookup. It satisfies
// expr.Resolver.
type Context struct {
	scopes map[string]any
}

// NewContext builds the scope stack for an invocation. params and template
// alias the invocation's template_params; node and node_payload are present
// only when node_id is set, as shortcuts for state.nodes.<node_id> and its
// payload.
func NewContext(inv *model.Invocation) *Context {
	scopes := map[string]any{
		ScopeParams:   inv.CardSpec.TemplateParams,
		ScopeTemplate: inv.CardSpec.TemplateParams,
		ScopeState:    inv.State,
		ScopeSession:  inv.Session,
		ScopePayload:  inv.Payload,
	}
	if inv.NodeID != "" {
		node, _ := descend(inv.State, []string{"nodes", inv.NodeID})
		scopes[ScopeNode] = node
		payload, _ := descend(node, []string{"payload"})
		scopes[ScopeNodePayload] = payload
	}
	return &Context{scopes: scopes}
}

// Lookup resolves a dotted path. The first segment is matched against the
// scope names; bare identifiers walk payload, session, state, then params.
func (c *Context) Lookup(path string) (any, bool) {
	segments := strings.Split(strings.TrimSpace(path), ".")
	if len(segments) == 0 || segments[0] == "" {
		return nil, false
	}

	if root, ok := c.scopes[segments[0]]; ok {
		return descend(root, segments[1:])
	}

	for _, name := range bareLookupOrder {
		root, ok := c.scopes[name]
		if !ok {
			continue
		}
		if v, found := descend(root, segments); found {
			return v, true
		}
	}
	return nil, false
}

// descend walks object keys and integer array indexes.
func descend(root any, segments []string) (any, bool) {
	current := root
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	if current == nil && root == nil {
		return nil, false
	}
	return current, true
}
