package engine

import (
	"errors"
	"fmt"

	"github.com/greentic-ai/cardengine/internal/model"
)

// Error codes surfaced on the error envelope. Asset failures map the
// resolver's NOT_FOUND / INVALID_JSON / IO_ERROR codes onto the NotFound /
// InvalidJson / IoError spellings so hosts can match on "NotFound" directly.
const (
	ErrCodeAssetNotFound    = "NotFound"
	ErrCodeAssetInvalidJSON = "InvalidJson"
	ErrCodeAssetIO          = "IoError"

	ErrCodeSchemaInvalid      = "AC_SCHEMA_INVALID"
	ErrCodeCardValidation     = "AC_CARD_VALIDATION_FAILED"
	ErrCodeBindingEval        = "AC_BINDING_EVAL_ERROR"
	ErrCodeInteractionInvalid = "AC_INTERACTION_INVALID"
	ErrCodeInternal           = "AC_INTERNAL_ERROR"
)

// EngineError is the single error type the orchestrator returns. It carries
// everything the error envelope needs.
type EngineError struct {
	Code    string
	Message string
	Details any
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSchemaError reports whether err is an invocation shape error.
// Uses errors.As to handle wrapped errors.
func IsSchemaError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeSchemaInvalid
}

func schemaInvalid(message string, details any) *EngineError {
	return &EngineError{Code: ErrCodeSchemaInvalid, Message: message, Details: details}
}

// ErrorEnvelope is the wire form of a refused invocation.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the stable code and optional structured details.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope converts any error into its wire form. Non-engine errors become
// internal errors rather than leaking Go error text as a code.
func Envelope(err error) ErrorEnvelope {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ErrorEnvelope{Error: ErrorBody{Code: ee.Code, Message: ee.Message, Details: ee.Details}}
	}
	return ErrorEnvelope{Error: ErrorBody{Code: ErrCodeInternal, Message: err.Error()}}
}

// validationFailure wraps card validation issues into the error form used
// when validation_mode is error.
func validationFailure(issues []model.ValidationIssue) *EngineError {
	return &EngineError{
		Code:    ErrCodeCardValidation,
		Message: "card validation failed",
		Details: map[string]any{"validation_issues": issues},
	}
}

// schemaFailure wraps invocation schema issues.
func schemaFailure(issues []model.ValidationIssue, detail string) *EngineError {
	message := "invocation schema validation failed"
	if detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	return &EngineError{
		Code:    ErrCodeSchemaInvalid,
		Message: message,
		Details: map[string]any{"validation_issues": issues},
	}
}
