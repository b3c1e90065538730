package propagator

import (
	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
)

// Direction of propagation relative to the momentum.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Status of a propagation call.
type Status int

const (
	StatusUnset Status = iota
	StatusInProgress
	StatusSuccess
	StatusFailure
	StatusWrongDirection
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusWrongDirection:
		return "wrong_direction"
	default:
		return "unset"
	}
}

// Cache is the mutable scratch state of one propagation call. It is built
// fresh by the stepper for every call and never shared.
type Cache struct {
	// Pos is the current global position.
	Pos track.Vector3

	// Dir is the current unit momentum direction. It always points along
	// the momentum; backward propagation is expressed through a negative
	// step size.
	Dir track.Vector3

	// Momentum is the absolute momentum, Charge the signed charge.
	Momentum float64
	Charge   float64

	// Cov is carried through unchanged from the start parameters.
	Cov *track.Covariance

	// StepSize is the signed size of the next step. Aborters may shrink
	// it toward their boundary; its sign encodes the propagation direction.
	StepSize float64

	// Err is set by the stepper on numerical failure and terminates the
	// propagation with StatusFailure.
	Err error
}

// QOverP returns the signed inverse momentum, 0 for neutral particles.
func (c *Cache) QOverP() float64 {
	if c.Momentum == 0 {
		return 0
	}
	return c.Charge / c.Momentum
}

// Stepper is the numerical integration capability the engine is generic
// over. Implementations advance the cache by one finite step and convert
// the final cache back into public parameters.
type Stepper interface {
	// MakeCache builds the per-call scratch state from the start
	// parameters and the signed initial step size.
	MakeCache(start track.Parameters, stepSize float64) *Cache

	// Step advances the cache by one step and returns the signed distance
	// actually advanced.
	Step(c *Cache) float64

	// Convert produces the public end parameters from the cache.
	Convert(c *Cache) track.Parameters

	// ConvertAt produces the end parameters evaluated at the target
	// surface.
	ConvertAt(c *Cache, target surface.Surface) track.Parameters
}

// Action is a per-step observer. Do may read and mutate the cache (only
// advancing or correcting the current state, never rewinding it) and may
// write into its named slot of the result.
type Action interface {
	// ID names the result slot this action writes. IDs must be unique
	// within one ActionList.
	ID() string

	Do(c *Cache, r *Result)
}

// Aborter is a per-step stop condition. Check may clamp the cache step
// size toward its boundary and may record that it fired, but must not
// otherwise alter the path state.
type Aborter interface {
	Check(r *Result, c *Cache) bool
}

// ActionList runs every member in declaration order, unconditionally.
// The empty list is a no-op.
type ActionList []Action

func (l ActionList) run(c *Cache, r *Result) {
	for _, a := range l {
		a.Do(c, r)
	}
}

// AbortList evaluates members left to right and short-circuits on the
// first that fires. The empty list never fires.
type AbortList []Aborter

func (l AbortList) check(r *Result, c *Cache) bool {
	for _, a := range l {
		if a.Check(r, c) {
			return true
		}
	}
	return false
}
