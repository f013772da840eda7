// Package binding substitutes placeholders in a card document against the
// invocation's context scopes.
//
// Three placeholder forms appear on string values only:
//
//	{{ expr }}   handlebars-style text templating, applied first
//	@{ path }    path lookup, with an optional `||` default
//	${ expr }    full expression (paths, ==, ternary)
//
// A string consisting entirely of a single @{…} or ${…} placeholder is
// replaced by the typed JSON value; otherwise placeholders are stringified
// in place. The walk never fails: missing values become null in typed
// position and the empty string in embedded position.
//
// Substitution is idempotent: re-running the walker over its own output is
// a no-op.
package binding
