package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
