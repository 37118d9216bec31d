package domain

import (
	"errors"
	"fmt"
)

// ErrPermissionDenied is returned when a session's capability token lacks the
// required role. Callers skip the operation quietly; it is never surfaced as
// a user-facing failure.
var ErrPermissionDenied = errors.New("permission denied")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// FetchError wraps any storage or network failure on a load or mutate.
// Only the operation name survives into user-facing messages.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err with the failing operation name.
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
