// Package validate checks a card document against the structural rules of
// Adaptive Card v1.6. Validation never mutates the card and never fails:
// every problem becomes a ValidationIssue with a JSON-pointer-style path and
// a stable code, so hosts can branch on codes without parsing messages.
package validate
