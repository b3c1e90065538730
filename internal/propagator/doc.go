// Package propagator implements the generic track propagation engine.
//
// The engine advances a particle state through a magnetic field and/or
// material by repeated calls to a [Stepper], either for a bounded path
// length or until a target surface is reached. Every step, an ordered
// [ActionList] observes and may modify the evolving [Cache] and the
// accumulating [Result]; an ordered [AbortList] of user conditions and a
// hidden list of mandatory conditions (path limit, target reached) decide
// when to stop.
//
//   - [Options]: per-call configuration (direction, budgets, lists)
//   - [Cache]: mutable per-call scratch state, owned by one call
//   - [Result]: status, step count, path length, end parameters, and one
//     named payload slot per attached action
//
// # Example
//
//	prop := propagator.New(stepper.NewRK4(bfield))
//	opts := propagator.DefaultOptions()
//	opts.MaxPathLength = 1 * track.Meter
//	res, err := prop.Propagate(start, opts)
//
// # Thread Safety
//
// A Propagator holds no mutable state and may be shared; each call builds
// its own Cache and Result. Concurrent calls are safe as long as every
// caller passes its own Options (actions and aborters may be stateful) and
// target surfaces are not mutated during the call.
package propagator
