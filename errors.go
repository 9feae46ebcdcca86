package knn

import (
	"errors"
	"fmt"

	"github.com/hupe1980/knn/model"
)

var (
	// ErrInvalidInput is returned for an empty reference or query set.
	ErrInvalidInput = model.ErrInvalidInput

	// ErrInvalidConfiguration is returned for k <= 0, p < 1 or bin width <= 0.
	ErrInvalidConfiguration = model.ErrInvalidConfiguration

	// ErrDimensionMismatch is returned when compared vectors differ in length.
	ErrDimensionMismatch = model.ErrDimensionMismatch
)

// ErrInvalidK indicates a non-positive neighbour count.
//
// It matches ErrInvalidConfiguration with errors.Is.
type ErrInvalidK struct {
	K int
}

func (e *ErrInvalidK) Error() string {
	return fmt.Sprintf("invalid configuration: k must be positive, got %d", e.K)
}

func (e *ErrInvalidK) Is(target error) bool { return target == ErrInvalidConfiguration }

// QueryError records the failure of one query within a batch.
//
// The original underlying error can be accessed via errors.Unwrap.
type QueryError struct {
	Index int
	cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %d: %v", e.Index, e.cause)
}

func (e *QueryError) Unwrap() error { return e.cause }

// IsDimensionMismatch reports whether err was caused by vectors of unequal
// length and returns the expected and actual dimensions when known.
func IsDimensionMismatch(err error) (expected, actual int, ok bool) {
	var de *model.DimensionError
	if errors.As(err, &de) {
		return de.Expected, de.Actual, true
	}
	return 0, 0, errors.Is(err, ErrDimensionMismatch)
}
