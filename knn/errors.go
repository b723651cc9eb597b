package knn

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for an empty training set, a neighbor
	// count outside [1, len(training set)], or non-finite feature values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch is returned when a feature vector's length
	// disagrees with the dimensionality fixed at fit time.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// DimensionMismatchError reports the offending vector. Index is the position
// of the vector in the training set (at fit) or the query batch (at predict).
//
// It matches ErrDimensionMismatch via errors.Is. A mismatch detected at fit
// time also matches ErrInvalidInput.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Index    int
	atFit    bool
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("knn: dimension mismatch at %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// Is supports errors.Is against the package sentinels.
func (e *DimensionMismatchError) Is(target error) bool {
	if target == ErrDimensionMismatch {
		return true
	}
	return e.atFit && target == ErrInvalidInput
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("knn: %s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
