package apperrors

import (
	"errors"
	"net/http"
)

// ValidationError carries field-level messages for client-correctable
// input failures. Store-level uniqueness violations are mapped into the
// same shape so a lost insert race reads as "already exists" rather than
// a generic failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidation returns an empty ValidationError ready to collect fields.
func NewValidation() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Any reports whether any field failed.
func (e *ValidationError) Any() bool {
	return len(e.Fields) > 0
}

// Validation builds a single-field ValidationError.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError signals a stale reference, e.g. a record deleted by
// another actor between listing and submit.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ConflictError signals a business-rule gate, e.g. deleting a role that
// still has assigned users.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict builds a ConflictError with the given message.
func Conflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	var ve *ValidationError
	var nfe *NotFoundError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &nfe):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
