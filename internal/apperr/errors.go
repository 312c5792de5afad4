// Package apperr defines the error taxonomy shared by the stores, the
// checkout flow, and the HTTP layer: validation failures, missing records,
// remote I/O failures, and the checkout partial-failure case.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports an unknown product, order, or admin id.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func RequiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func IsValidation(err error) bool { return errors.Is(err, ErrInvalidInput) }

// RemoteError wraps a network or database failure on a catalog or order
// call. Local cached state must stay untouched when one is returned.
type RemoteError struct {
	Op  string
	Err error
}

func NewRemoteError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

func (e *RemoteError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *RemoteError) Unwrap() error { return e.Err }

// PartialFailure means the order was persisted but notification dispatch
// failed. The checkout succeeded from the customer's point of view.
type PartialFailure struct {
	OrderID string
	Err     error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("order %s placed, notification failed: %v", e.OrderID, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

func IsPartialFailure(err error) bool {
	var pf *PartialFailure
	return errors.As(err, &pf)
}
