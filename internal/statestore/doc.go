// Package statestore applies the engine's declarative update operations and
// optionally persists state documents in SQLite. The engine itself never
// touches the store; it only emits operations. The CLI and tests use the
// store to play the host's role.
package statestore
