package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmptyEmbedding is returned when an insert carries no vector data.
	ErrEmptyEmbedding = errors.New("embedding must not be empty")
)

// ErrDimensionMismatch indicates an embedding/query dimensionality mismatch
// with the store's established dimensionality. The store is unchanged.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrCorruptStore indicates the backing file exists but cannot be parsed
// into the expected record structure. Construction fails and no partial
// state is exposed; deciding whether to start fresh is up to the caller.
//
// The underlying parse error can be accessed via errors.Unwrap.
type ErrCorruptStore struct {
	Path  string
	cause error
}

func (e *ErrCorruptStore) Error() string {
	return fmt.Sprintf("corrupt store %s: %v", e.Path, e.cause)
}

func (e *ErrCorruptStore) Unwrap() error { return e.cause }
