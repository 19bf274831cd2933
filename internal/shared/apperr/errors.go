package apperr

import (
	"errors"
	"fmt"
)

// The error taxonomy every domain surfaces to the HTTP layer. Repositories and
// services never swallow errors; they map database failures onto these kinds
// and bubble them up.

// ValidationError reports a missing or out-of-range field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a uniqueness violation or an exhausted retry on a
// generated document number.
type ConflictError struct {
	Resource string
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Detail)
}

// Conflict builds a ConflictError.
func Conflict(resource, detail string) error {
	return &ConflictError{Resource: resource, Detail: detail}
}

// InsufficientStockError reports a stock-out movement that would drive the
// (product, warehouse) position negative.
type InsufficientStockError struct {
	Have int64
	Want int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: have %d, want %d", e.Have, e.Want)
}

// InsufficientStock builds an InsufficientStockError.
func InsufficientStock(have, want int64) error {
	return &InsufficientStockError{Have: have, Want: want}
}

var (
	// ErrUnauthorized is returned when no valid principal is attached.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the principal's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrTransient is returned for retryable I/O failures and exceeded deadlines.
	ErrTransient = errors.New("transient failure")
)

// Transient wraps err as a retryable failure.
func Transient(err error) error {
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

// FatalError wraps an unexpected failure. The HTTP layer is the only place it
// is caught, logged with full context, and converted to a generic 500.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err as an unexpected internal failure.
func Fatal(err error) error {
	return &FatalError{Err: err}
}

// IsValidation checks if err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict checks if err is a conflict error.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsInsufficientStock checks if err is an insufficient-stock error.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsTransient checks if err is retryable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
