// Package errors defines the sentinel and typed errors shared across the
// discovery service.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrMaterialNotFound is returned when a material id does not exist in the index
	ErrMaterialNotFound = errors.New("material not found")

	// ErrMissingQueryText is returned when a search arrives without query text
	// (or, in recommendation mode, without both text and reference URL)
	ErrMissingQueryText = errors.New("missing query text")

	// ErrLicensePattern is returned when a license URL does not match the
	// expected /licenses/<short-name>/ path shape
	ErrLicensePattern = errors.New("license URL does not match expected pattern")

	// ErrUpstreamEngine is returned when the index engine or the secondary
	// image provider fails; the cause is wrapped for logs but never shown
	// to API callers
	ErrUpstreamEngine = errors.New("upstream engine failure")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// MaterialNotFoundError represents a material not found error with context
type MaterialNotFoundError struct {
	MaterialID int64
}

func (e *MaterialNotFoundError) Error() string {
	return fmt.Sprintf("material with id %d not found", e.MaterialID)
}

func (e *MaterialNotFoundError) Is(target error) bool {
	return target == ErrMaterialNotFound
}

// NewMaterialNotFoundError creates a new MaterialNotFoundError
func NewMaterialNotFoundError(materialID int64) *MaterialNotFoundError {
	return &MaterialNotFoundError{MaterialID: materialID}
}

// UpstreamError wraps a failure from the index engine or the image provider.
// Operation names the call site for logging.
type UpstreamError struct {
	Operation string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamEngine
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(operation string, err error) *UpstreamError {
	return &UpstreamError{Operation: operation, Err: err}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
