package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidBody indicates a body constructed with a non-positive radius or mass,
	// or with non-finite kinematic values.
	ErrInvalidBody = errors.New("dynamo: invalid body")

	// ErrInvalidState indicates a body state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownBody indicates a body id that is not part of the world.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	BodyID  int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
