/**
 * @description
 * This file defines the error taxonomy for the payee workflow. The workflow
 * is the only layer allowed to translate low-level failures (driver errors,
 * lookup failures) into these types; the HTTP layer maps them to status
 * codes with errors.As and never inspects anything deeper.
 */
package app

import "fmt"

// ValidationError reports malformed or missing input, including an IFSC
// code the registry rejects. User-correctable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a duplicate (owner, account number, IFSC code)
// triple.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports that no payee matches the requested id for the
// requesting owner.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// StorageError reports a persistence failure that is not a duplicate. The
// underlying cause is kept for logging but callers present a generic
// message.
type StorageError struct {
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }
