package services

import "errors"

var (
	// ErrConflict is returned when a product code is already registered.
	ErrConflict = errors.New("product code already exists")
	// ErrNotFound is returned by lookups that require a match.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a request that skipped binding is incomplete.
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError wraps a database failure. Whatever the operation wrote has
// been rolled back by the time the caller sees it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
