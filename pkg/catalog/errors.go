package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("record not found")
	ErrStorageCorrupt = errors.New("persisted catalog is corrupt")
)

// ValidationError rejects user input before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError is returned by Update for an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageCorruptError describes persisted state that could not be used.
// Load recovers from it and never returns it.
type StorageCorruptError struct {
	Key string
	Err error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("corrupt catalog under %q: %v", e.Key, e.Err)
}

func (e *StorageCorruptError) Is(target error) bool { return target == ErrStorageCorrupt }

func (e *StorageCorruptError) Unwrap() error { return e.Err }
