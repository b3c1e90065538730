// Package actions provides the step observers shipped with the engine.
//
// Every action writes into its own named slot of the propagation result;
// slot IDs must be unique within one action list. Actions are stateful and
// must not be shared between concurrent propagation calls.
package actions

import (
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/track"
)

// TrajectoryID is the result slot written by TrajectoryRecorder.
const TrajectoryID = "trajectory"

// TrajectoryStep is one recorded point along the propagated path.
type TrajectoryStep struct {
	PathLength float64
	Position   track.Vector3
	Direction  track.Vector3
	Momentum   float64
}

// TrajectoryRecorder appends one TrajectoryStep per propagation step into
// its result slot. The slot value is a []TrajectoryStep.
type TrajectoryRecorder struct{}

func (TrajectoryRecorder) ID() string { return TrajectoryID }

func (TrajectoryRecorder) Do(c *propagator.Cache, r *propagator.Result) {
	v, _ := r.Get(TrajectoryID)
	steps, _ := v.([]TrajectoryStep)
	steps = append(steps, TrajectoryStep{
		PathLength: r.PathLength,
		Position:   c.Pos,
		Direction:  c.Dir,
		Momentum:   c.Momentum,
	})
	r.Set(TrajectoryID, steps)
}

// Trajectory extracts the recorded steps from a result. Returns nil when
// no recorder was attached.
func Trajectory(r *propagator.Result) []TrajectoryStep {
	v, ok := r.Get(TrajectoryID)
	if !ok {
		return nil
	}
	steps, _ := v.([]TrajectoryStep)
	return steps
}
