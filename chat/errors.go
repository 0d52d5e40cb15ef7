package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest rejects malformed or self-referential input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound covers missing entities and responses to requests
	// that already reached a terminal state.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists surfaces the ordered-pair uniqueness conflict
	// on friend requests.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden rejects operations between users who are not friends.
	ErrForbidden = errors.New("forbidden")
)

// StorageError wraps a durable-store I/O failure. Write-path callers
// see it; best-effort publish failures never produce one.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
