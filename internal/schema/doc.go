// Package schema validates the shape of an incoming invocation against an
// embedded CUE schema before the engine touches it. The validation_mode
// field decides how findings surface: off skips the check, warn downgrades
// findings to warnings on the result, error turns them into a refusal.
package schema
