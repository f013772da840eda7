// Package model defines the wire-level data types exchanged with the host:
// the invocation that asks for a card to be rendered or validated, the raw
// interaction a channel client reported, and the result record the engine
// hands back (rendered card, normalized event, declarative update ops,
// feature summary, validation issues).
//
// Input fields are snake_case; result fields are camelCase. Optional result
// fields are omitted when absent, never emitted as JSON null.
package model
