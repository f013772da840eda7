package assets

import (
	"errors"
	"fmt"
)

// ResolveErrorCode categorizes resolution failures.
type ResolveErrorCode string

const (
	// ErrCodeNotFound indicates no layer could produce the named card.
	ErrCodeNotFound ResolveErrorCode = "NOT_FOUND"

	// ErrCodeInvalidJSON indicates a layer produced bytes that do not parse.
	ErrCodeInvalidJSON ResolveErrorCode = "INVALID_JSON"

	// ErrCodeIO indicates a filesystem layer failed to read.
	ErrCodeIO ResolveErrorCode = "IO_ERROR"
)

// ResolveError reports why a card reference could not be resolved.
type ResolveError struct {
	// Code identifies the failure category.
	Code ResolveErrorCode

	// Name is the asset path or catalog name being resolved.
	Name string

	// Message is a human-readable description.
	Message string

	cause error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ResolveError) Unwrap() error { return e.cause }

// IsNotFound reports whether err is a NOT_FOUND resolution error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Code == ErrCodeNotFound
}

// IsInvalidJSON reports whether err is an INVALID_JSON resolution error.
func IsInvalidJSON(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Code == ErrCodeInvalidJSON
}

func notFound(name, msg string) *ResolveError {
	return &ResolveError{Code: ErrCodeNotFound, Name: name, Message: msg}
}

func invalidJSON(name string, cause error) *ResolveError {
	return &ResolveError{Code: ErrCodeInvalidJSON, Name: name, Message: "card document is not valid JSON", cause: cause}
}

func ioError(name string, cause error) *ResolveError {
	return &ResolveError{Code: ErrCodeIO, Name: name, Message: "reading card document failed", cause: cause}
}
