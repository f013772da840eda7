// Package interaction turns a raw card interaction into a normalized action
// event plus declarative state and session update operations. The engine
// never applies these operations itself; the host does.
//
// Normalization is total: any interaction shape produces an event. Metadata
// keys (route, cardId, subcardId, visible, pushCard, popCard) steer the
// emitted operations; everything else passes through on the event.
package interaction
