package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur while reading and scoring records.
var (
	// ErrInvalidJSON indicates that a record line is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON record")

	// ErrMissingID indicates that a record has no usable "id" field.
	ErrMissingID = errors.New("missing or empty id")

	// ErrMalformedAnnotation indicates that a raw annotation does not have
	// the nested intent/domain/items shape.
	ErrMalformedAnnotation = errors.New("malformed annotation")

	// ErrMissingSlotValue indicates a non-intent slot item without a value.
	ErrMissingSlotValue = errors.New("slot item missing value")

	// ErrNoAlignedSamples indicates that no prediction matched a
	// ground-truth id.
	ErrNoAlignedSamples = errors.New("no matching sample ids found between files")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// RecordError is a failure confined to one input line.
type RecordError struct {
	// Source names the input the line came from.
	Source string

	// Line is the 1-based line number.
	Line int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for RecordError.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record error: source=%s, line=%d, err=%v", e.Source, e.Line, e.Err)
}

// Unwrap returns the underlying error, supporting Go 1.13+ error unwrapping.
func (e *RecordError) Unwrap() error { return e.Err }

// NewRecordError creates a new RecordError with the given details.
func NewRecordError(source string, line int, err error) *RecordError {
	return &RecordError{Source: source, Line: line, Err: err}
}

// Skip converts the error into a skip diagnostic.
func (e *RecordError) Skip() Skip {
	return Skip{Source: e.Source, Line: e.Line, Reason: ReasonFor(e.Err), Err: e.Err}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap returns ErrInvalidConfiguration so callers can test with errors.Is.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}

func isErr(err, target error) bool { return errors.Is(err, target) }
