package propagator

import (
	"math"

	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
)

// Propagator steers the propagation of track parameters through a stepper.
type Propagator struct {
	stepper Stepper
}

func New(s Stepper) *Propagator {
	return &Propagator{stepper: s}
}

// propagate runs the step loop until a stop condition fires or the step
// budget is exhausted. The internal abort list carries the mandatory
// conditions (path limit, target reached) and is always evaluated after
// the user list.
//
// Returns StatusFailure when the internal conditions are already satisfied
// before the first step or the stepper signals a numerical failure, and
// StatusInProgress otherwise. The boolean reports whether a stop condition
// fired; exhausting MaxSteps without one leaves it false and the caller
// must not promote the result to StatusSuccess.
func (p *Propagator) propagate(r *Result, c *Cache, o *Options, internal AbortList) (Status, bool) {
	if internal.check(r, c) {
		return StatusFailure, false
	}

	for ; r.Steps < o.MaxSteps; r.Steps++ {
		r.PathLength += p.stepper.Step(c)
		if c.Err != nil {
			return StatusFailure, false
		}

		o.Actions.run(c, r)

		// the internal conditions are evaluated regardless of the user
		// list's outcome, so a budget guarantee can never be disabled
		stopped := o.Aborters.check(r, c)
		if internal.check(r, c) {
			stopped = true
		}
		if stopped {
			// count the terminating step
			r.Steps++
			return StatusInProgress, true
		}
	}
	return StatusInProgress, false
}

// Propagate advances the start parameters for the path budget given in the
// options, without a target surface.
//
// Not reaching the budget within MaxSteps is a normal outcome: the result
// carries a non-success status and no end parameters. An error is returned
// only for configuration violations.
func (p *Propagator) Propagate(start track.Parameters, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !start.IsValid() {
		return nil, track.ErrInvalidParameters
	}

	r, err := newResult(StatusInProgress, opts.Actions)
	if err != nil {
		return nil, err
	}

	c := p.stepper.MakeCache(start, float64(opts.Direction)*opts.MaxStepSize)

	internal := AbortList{
		&pathLimitReached{
			signedLimit: math.Abs(opts.MaxPathLength) * float64(opts.Direction),
			tolerance:   opts.TargetTolerance,
		},
	}

	st, stopped := p.propagate(r, c, &opts, internal)
	if st != StatusInProgress {
		r.Status = st
		return r, nil
	}
	if !stopped {
		// ran out of steps; no end parameters
		return r, nil
	}

	end := p.stepper.Convert(c)
	r.EndParameters = &end
	r.Status = StatusSuccess
	return r, nil
}

// PropagateTo advances the start parameters until the target surface is
// reached within the target tolerance, bounded by the same path and step
// budgets as Propagate.
//
// The target is borrowed for the duration of the call. A target that does
// not lie along the propagation direction yields StatusWrongDirection.
func (p *Propagator) PropagateTo(start track.Parameters, target surface.Surface, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !start.IsValid() {
		return nil, track.ErrInvalidParameters
	}

	r, err := newResult(StatusInProgress, opts.Actions)
	if err != nil {
		return nil, err
	}

	c := p.stepper.MakeCache(start, float64(opts.Direction)*opts.MaxStepSize)

	ix := target.Intersect(c.Pos, c.Dir)
	if !ix.Valid || ix.PathLength*float64(opts.Direction) < -opts.TargetTolerance {
		r.Status = StatusWrongDirection
		return r, nil
	}

	internal := AbortList{
		&surfaceReached{
			target:    target,
			direction: opts.Direction,
			tolerance: opts.TargetTolerance,
		},
		&pathLimitReached{
			signedLimit: math.Abs(opts.MaxPathLength) * float64(opts.Direction),
			tolerance:   opts.TargetTolerance,
		},
	}

	st, stopped := p.propagate(r, c, &opts, internal)
	if st != StatusInProgress {
		r.Status = st
		return r, nil
	}
	if !stopped {
		return r, nil
	}

	end := p.stepper.ConvertAt(c, target)
	r.EndParameters = &end
	r.Status = StatusSuccess
	return r, nil
}
