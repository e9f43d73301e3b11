package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBounds indicates a viewport with a non-positive or non-finite side.
	ErrInvalidBounds = errors.New("sim: viewport bounds must be finite and positive")

	// ErrInvalidElapsed indicates a negative or non-finite frame time.
	ErrInvalidElapsed = errors.New("sim: elapsed time must be finite and non-negative")

	// ErrInvalidCount indicates a negative particle count at spawn.
	ErrInvalidCount = errors.New("sim: particle count must not be negative")
)

// StepError is the panic value of a Step called with invalid inputs.
type StepError struct {
	Frame   int
	Elapsed float64
	Bounds  Bounds
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (elapsed=%g, bounds=%gx%g): %v",
		e.Frame, e.Elapsed, e.Bounds.Width, e.Bounds.Height, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
