package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeModelNotReady indicates the classifier has no loaded model.
	// This is the only error that fails a triage request outright.
	ErrorTypeModelNotReady ErrorType = "MODEL_NOT_READY"

	// ErrorTypeRuleSource indicates the red flag rule table could not be read
	ErrorTypeRuleSource ErrorType = "RULE_SOURCE_UNAVAILABLE"

	// ErrorTypeNarrative indicates narrative generation exhausted its retries
	ErrorTypeNarrative ErrorType = "NARRATIVE_GENERATION"

	// ErrorTypeCache indicates the narrative cache store failed
	ErrorTypeCache ErrorType = "CACHE_UNAVAILABLE"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeProcessing indicates an unexpected internal failure
	ErrorTypeProcessing ErrorType = "PROCESSING"
)

// ErrModelNotReady is the sentinel callers match on before classifying.
var ErrModelNotReady = &AppError{
	Type:    ErrorTypeModelNotReady,
	Message: "classifier model is not loaded",
}

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches errors of the same type so sentinel comparisons work
// through wrapping.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Type == appErr.Type
	}
	return false
}

// NewModelNotReadyError creates a new model-not-ready error
func NewModelNotReadyError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeModelNotReady,
		Message: message,
	}
}

// NewRuleSourceError creates a new rule source error
func NewRuleSourceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRuleSource,
		Message: message,
		Err:     err,
	}
}

// NewNarrativeError creates a new narrative generation error
func NewNarrativeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNarrative,
		Message: message,
		Err:     err,
	}
}

// NewCacheError creates a new cache error
func NewCacheError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCache,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeProcessing,
		Message: message,
		Err:     err,
	}
}
