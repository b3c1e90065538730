package propagator

import (
	"fmt"
	"math"

	"github.com/dlai211/acts/internal/track"
)

// Options configures one propagation call. The engine treats it as
// read-only; stateful actions and aborters inside the lists are the
// caller's to reuse or not.
type Options struct {
	// Direction of propagation relative to the momentum.
	Direction Direction

	// MaxSteps caps the number of loop iterations.
	MaxSteps uint

	// TargetTolerance is the distance within which a surface or the path
	// limit counts as reached.
	TargetTolerance float64

	// MaxStepSize bounds the magnitude of a single step.
	MaxStepSize float64

	// MaxPathLength is the absolute distance budget; its sign is applied
	// from Direction.
	MaxPathLength float64

	// Actions run every step in order.
	Actions ActionList

	// Aborters are the user stop conditions, checked every step before
	// the mandatory internal ones.
	Aborters AbortList
}

// DefaultOptions returns forward propagation with a micrometer target
// tolerance, meter-bounded steps and an unbounded path budget.
func DefaultOptions() Options {
	return Options{
		Direction:       Forward,
		MaxSteps:        1000,
		TargetTolerance: 1 * track.Micrometer,
		MaxStepSize:     1 * track.Meter,
		MaxPathLength:   math.MaxFloat64,
	}
}

func (o *Options) validate() error {
	if o.MaxStepSize <= 0 {
		return fmt.Errorf("%w: max step size must be positive, got %g", track.ErrInvalidOptions, o.MaxStepSize)
	}
	if o.MaxPathLength < 0 {
		return fmt.Errorf("%w: max path length must be non-negative, got %g", track.ErrInvalidOptions, o.MaxPathLength)
	}
	if o.Direction != Forward && o.Direction != Backward {
		return fmt.Errorf("%w: direction must be forward or backward", track.ErrInvalidOptions)
	}
	return nil
}
