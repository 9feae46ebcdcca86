package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for an empty reference or query set.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration is returned for k <= 0, p < 1 or bin width <= 0.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch is returned when compared vectors differ in length
	// or are empty.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// DimensionError describes a dimension mismatch between two vectors.
// It matches ErrDimensionMismatch with errors.Is.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimensionMismatch }
