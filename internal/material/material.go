// Package material provides material properties and the binned
// weighted-average accumulation record used by material mapping.
package material

// Properties describes a slab of material crossed by a track: its
// thickness and the averaged atomic quantities.
type Properties struct {
	Thickness float64 // path length in the material, mm
	X0        float64 // radiation length, mm
	L0        float64 // nuclear interaction length, mm
	A         float64 // atomic mass
	Z         float64 // atomic number
	Rho       float64 // density
}

// Valid reports whether the slab carries any material.
func (p Properties) Valid() bool { return p.Thickness > 0 }

// ThicknessInX0 returns the thickness in units of the radiation length.
func (p Properties) ThicknessInX0() float64 {
	if p.X0 == 0 {
		return 0
	}
	return p.Thickness / p.X0
}

// Combine merges a list of slabs crossed at one point into a single slab:
// thickness sums, X0/L0/rho are thickness-weighted, A/Z are weighted by
// density times thickness.
func Combine(slabs []Properties) Properties {
	var t, rho, x0, l0, a, z float64
	for _, s := range slabs {
		t += s.Thickness
		rho += s.Rho * s.Thickness
		x0 += s.X0 * s.Thickness
		l0 += s.L0 * s.Thickness
		a += s.A * s.Rho * s.Thickness
		z += s.Z * s.Rho * s.Thickness
	}
	if rho != 0 {
		a /= rho
		z /= rho
	}
	if t != 0 {
		x0 /= t
		l0 /= t
		rho /= t
	}
	return Properties{Thickness: t, X0: x0, L0: l0, A: a, Z: z, Rho: rho}
}
