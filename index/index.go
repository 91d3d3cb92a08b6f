package index

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNotFound is returned when an item does not exist in the index.
	ErrNotFound = errors.New("not found")
)

// ErrDimensionMismatch is a named error type for dimension mismatch
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrVersionConflict is returned when a write carries a version older than the stored one.
type ErrVersionConflict struct {
	Stored   int64
	Supplied int64
}

func (e *ErrVersionConflict) Error() string {
	return fmt.Sprintf("version conflict: stored %d, supplied %d", e.Stored, e.Supplied)
}

// Item is a value stored in an index.
//
// Version is used for optimistic concurrency on removal: a remove request
// only succeeds if its version is not older than the stored one.
type Item[K comparable] interface {
	ID() K
	Version() int64
}

// SearchResult pairs an item with its distance to the query.
type SearchResult[T any] struct {
	// Item is the matched item.
	Item T

	// Distance is the distance between the query vector and the item.
	Distance float32
}

// Index is the capability set shared by every nearest neighbor index.
//
// K is the item identifier, V the query vector representation and T the item type.
type Index[K comparable, V any, T Item[K]] interface {
	// Add inserts or replaces an item.
	Add(ctx context.Context, item T) error

	// Remove deletes the item with the given id if version is not older
	// than the stored version. It reports whether an item was removed.
	Remove(ctx context.Context, id K, version int64) (bool, error)

	// Size returns the number of items.
	Size() int

	// Get looks up an item by id.
	Get(ctx context.Context, id K) (T, bool, error)

	// Items lists all items.
	Items() []T

	// FindNearest returns up to k results, best first.
	FindNearest(ctx context.Context, vector V, k int) ([]SearchResult[T], error)

	// Save serializes the index to w.
	Save(ctx context.Context, w io.Writer) error
}

// ValidateK checks that k is a usable neighbor count.
func ValidateK(k int) error {
	if k <= 0 {
		return ErrInvalidK
	}
	return nil
}

// ValidateDimension checks that a configured dimension is positive.
func ValidateDimension(dim int) error {
	if dim <= 0 {
		return &ErrInvalidDimension{Dimension: dim}
	}
	return nil
}
