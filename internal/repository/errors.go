package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a single-verse lookup matched no rows
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable indicates a connection or query failure
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// NotFoundError reports the verse reference that matched nothing
type NotFoundError struct {
	Book    string
	Chapter int
	Verse   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("verse not found: %s %d:%d", e.Book, e.Chapter, e.Verse)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// StorageError wraps a driver failure with the operation that hit it.
// errors.Is(err, ErrStorageUnavailable) holds and the driver error stays reachable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStorageUnavailable, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// Unavailable wraps err as a StorageError for op. A nil err yields nil.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a not-found failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable reports whether err is a storage failure
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
