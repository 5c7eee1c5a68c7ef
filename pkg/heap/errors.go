package heap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by capacity-dependent operations called
	// before [Heap.Init].
	ErrNotInitialized = errors.New("heap: not initialized")

	// ErrBadPointer is returned when a non-nil pointer does not correspond
	// to a currently-live block.
	ErrBadPointer = errors.New("heap: wrong pointer")

	// ErrPercentRange is returned by [Research] for a percentage outside
	// [1, 100].
	ErrPercentRange = errors.New("heap: percent outside [1, 100]")

	// ErrOutOfBounds is returned by [Heap.Write] when the values do not fit
	// in the target block.
	ErrOutOfBounds = errors.New("heap: write out of bounds")
)

// SizeError reports an [Heap.Init] capacity below the minimum.
type SizeError struct {
	Size, Min int
}

// Error implements the error interface.
func (e *SizeError) Error() string {
	return fmt.Sprintf("heap: size %d is less than the %d byte minimum", e.Size, e.Min)
}
