package track

// Covariance holds the diagonal of the 5x5 bound-parameter covariance
// (loc0, loc1, phi, theta, q/p).
type Covariance [5]float64

// Parameters describes a charged (or neutral) particle at one point along
// its path.
type Parameters struct {
	// Position in global coordinates, millimeters.
	Position Vector3

	// Direction is the unit momentum direction.
	Direction Vector3

	// Momentum is the absolute momentum in GeV/c.
	Momentum float64

	// Charge in units of e. Zero for neutral particles.
	Charge float64

	// Covariance is optional; nil means no uncertainty attached.
	Covariance *Covariance
}

// QOverP returns the signed inverse momentum, the natural bending parameter.
// Returns 0 for neutral particles or vanishing momentum.
func (p Parameters) QOverP() float64 {
	if p.Momentum == 0 {
		return 0
	}
	return p.Charge / p.Momentum
}

func (p Parameters) IsValid() bool {
	return p.Position.IsValid() && p.Direction.IsValid() && p.Momentum >= 0
}

// Clone returns a deep copy, including the covariance.
func (p Parameters) Clone() Parameters {
	c := p
	if p.Covariance != nil {
		cov := *p.Covariance
		c.Covariance = &cov
	}
	return c
}
