package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for ring configuration and simulation.
var (
	// ErrInvalidAnchor indicates a normalized anchor outside [0,1]x[0,1] or not finite.
	ErrInvalidAnchor = errors.New("dynamo: anchor must be finite and within [0,1]")

	// ErrInvalidRadius indicates a non-positive or non-finite base radius.
	ErrInvalidRadius = errors.New("dynamo: radius must be positive")

	// ErrInvalidPointCount indicates a point count of two or fewer.
	ErrInvalidPointCount = errors.New("dynamo: point count must be greater than 2")

	// ErrInvalidSurface indicates a nil or unusable drawing surface.
	ErrInvalidSurface = errors.New("dynamo: invalid drawing surface")

	// ErrInvalidColor indicates a colour that is not a #rrggbb hex value.
	ErrInvalidColor = errors.New("dynamo: invalid colour")

	// ErrInvalidParam indicates an unknown or out-of-range tunable parameter.
	ErrInvalidParam = errors.New("dynamo: invalid parameter")

	// ErrAlreadyInitialized indicates a one-shot operation was repeated.
	ErrAlreadyInitialized = errors.New("dynamo: ring already initialized")

	// ErrNotInitialized indicates the ring has no points yet.
	ErrNotInitialized = errors.New("dynamo: ring not initialized")

	// ErrUnstable indicates the ring state diverged (NaN or Inf).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrUnstableParams indicates coupling and damping outside the region
	// where the update policy decays.
	ErrUnstableParams = errors.New("dynamo: parameters unstable under update policy")
)

// ParamError records a rejected assignment. The previous value is retained.
type ParamError struct {
	Name    string
	Value   any
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%v rejected: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// Reject builds a ParamError for name/value wrapping err.
func Reject(name string, value any, err error) error {
	return &ParamError{Name: name, Value: value, Wrapped: err}
}
