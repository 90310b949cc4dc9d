package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady signals that the dataset snapshot has not finished loading.
	ErrNotReady = errors.New("dataset not ready")
	// ErrInvalidRequest signals a query request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// InvalidRequestError wraps ErrInvalidRequest with a human-readable reason
// that is safe to return to the caller.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest.Error(), e.Reason)
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// NewInvalidRequest creates a validation error with the given reason.
func NewInvalidRequest(format string, args ...any) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}
