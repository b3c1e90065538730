package track

import "errors"

// Domain errors for propagation operations.
var (
	// ErrInvalidOptions indicates propagation options that violate their
	// invariants (non-positive step size, negative path budget).
	ErrInvalidOptions = errors.New("track: invalid propagation options")

	// ErrDuplicateAction indicates two actions claiming the same result slot.
	ErrDuplicateAction = errors.New("track: duplicate action result slot")

	// ErrInvalidParameters indicates start parameters with invalid values.
	ErrInvalidParameters = errors.New("track: invalid start parameters (NaN or Inf)")

	// ErrUnstable indicates a step that produced NaN or Inf in the cache.
	ErrUnstable = errors.New("track: propagation unstable (state diverged)")

	// ErrStepUnderflow indicates a step size clamped down to zero, which
	// would stall the loop without advancing.
	ErrStepUnderflow = errors.New("track: step size underflow")

	// ErrUnknownStepper indicates a stepper name not present in the registry.
	ErrUnknownStepper = errors.New("track: unknown stepper")

	// ErrUnknownField indicates a field kind not present in the registry.
	ErrUnknownField = errors.New("track: unknown field provider")
)
