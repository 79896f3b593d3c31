package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a missing or malformed id or form field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a well-formed id with no matching event.
	ErrNotFound = errors.New("event not found")
	// ErrNoForm tells the caller not to render the edit form at all.
	ErrNoForm = errors.New("no form")
)

// StorageError wraps a failed or timed out database call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ValidationError carries the offending field along with ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
