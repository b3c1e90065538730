// Package track provides the basic data types for track propagation.
//
// The package defines the geometric and kinematic primitives shared by the
// propagation engine and its collaborators:
//
//   - [Vector3]: three-component vector in global coordinates
//   - [Parameters]: particle state (position, direction, momentum, charge)
//   - unit constants (lengths in millimeters, momenta in GeV/c)
//   - sentinel errors for propagation failures
//
// # Example
//
//	start := track.Parameters{
//		Position:  track.Vector3{},
//		Direction: track.Vector3{X: 1},
//		Momentum:  1 * track.GeV,
//		Charge:    -1,
//	}
//
// # Thread Safety
//
// All types in this package are plain values. Copies are independent; the
// optional covariance is carried by pointer and must not be mutated while a
// propagation referencing it is in flight.
package track
