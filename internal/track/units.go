package track

// Natural units used throughout the module: lengths in millimeters, momenta
// in GeV/c, charge in units of the elementary charge.
const (
	Micrometer = 1e-3
	Millimeter = 1.0
	Centimeter = 10.0
	Meter      = 1000.0

	MeV = 1e-3
	GeV = 1.0

	// Tesla is scaled such that the bending relation dd/ds = (q/p) d x B
	// holds directly in the units above. A 1 GeV/c track in a 1 T field
	// then curls with a radius of ~3.336 m.
	Tesla = 0.000299792458
)
