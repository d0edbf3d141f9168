package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPersistence     = errors.New("persistence error")
)

// NotFoundReason tells apart the ways a conversion lookup can come back empty.
type NotFoundReason string

const (
	// NotFoundNoEdge means no conversion record matched the query.
	NotFoundNoEdge NotFoundReason = "no-edge"
	// NotFoundDanglingReference means a record matched but the entity it points to is gone.
	NotFoundDanglingReference NotFoundReason = "dangling-reference"
	// NotFoundEntity means the entity a chain walk starts from does not exist.
	NotFoundEntity NotFoundReason = "entity"
)

// NotFoundError is returned by conversion lookups. It unwraps to ErrNotFound,
// so callers that only care about "not found" can use errors.Is.
type NotFoundError struct {
	Reason NotFoundReason
	Ref    EntityRef
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrNotFound, e.Ref, e.Reason)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFoundReasonOf extracts the reason from err, or "" if err is not a *NotFoundError.
func NotFoundReasonOf(err error) NotFoundReason {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Reason
	}
	return ""
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// UnknownTypeError reports a type tag that has no registered repository.
type UnknownTypeError struct {
	Type EntityType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s: unknown entity type %q", ErrInvalidArgument, string(e.Type))
}

func (e *UnknownTypeError) Unwrap() error { return ErrInvalidArgument }
