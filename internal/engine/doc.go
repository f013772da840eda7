// Package engine orchestrates one invocation end to end: unwrap the host
// envelope, check the invocation schema, resolve the card, render it
// against the context scopes, validate, analyze features, and normalize the
// interaction if one is present.
//
// The engine always produces exactly one of two things: a full result, or
// an error envelope {error: {code, message, details}}. Card validation
// issues are data, not errors, unless validation_mode is error.
package engine
