// Package field provides magnetic field lookups for the steppers.
package field

import "github.com/dlai211/acts/internal/track"

// Provider returns the magnetic field vector at a global position.
// Implementations must be safe for concurrent reads.
type Provider interface {
	Get(pos track.Vector3) track.Vector3
}

// Zero is the field-free vacuum.
type Zero struct{}

func (Zero) Get(track.Vector3) track.Vector3 { return track.Vector3{} }

// Constant is a homogeneous field, the usual solenoid approximation.
type Constant struct {
	B track.Vector3
}

func NewConstant(b track.Vector3) Constant { return Constant{B: b} }

func (c Constant) Get(track.Vector3) track.Vector3 { return c.B }

// Gradient scales a base field linearly along z. Used to exercise
// position-dependent lookups without a full field map.
type Gradient struct {
	B0    track.Vector3
	Slope float64 // relative change per millimeter of z
}

func (g Gradient) Get(pos track.Vector3) track.Vector3 {
	return g.B0.Scale(1 + g.Slope*pos.Z)
}
