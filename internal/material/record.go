package material

import "github.com/dlai211/acts/internal/track"

// binAcc accumulates weighted sums for one bin across many recorded steps.
type binAcc struct {
	t     float64 // summed thickness
	rhoT  float64 // summed rho * t
	x0T   float64 // summed x0 * t
	l0T   float64 // summed l0 * t
	aRhoT float64 // summed A * rho * t
	zRhoT float64 // summed Z * rho * t
	n     int     // number of entries
}

// Record accumulates material crossed by many tracks into a 2D binned
// grid and produces per-bin weighted averages. It is purely arithmetic
// and not safe for concurrent writes.
type Record struct {
	util BinUtility
	bins [][]binAcc
}

func NewRecord(util BinUtility) *Record {
	bins := make([][]binAcc, util.Bins1)
	for i := range bins {
		bins[i] = make([]binAcc, util.Bins0)
	}
	return &Record{util: util, bins: bins}
}

// AddStep merges the slabs crossed at one assigned position into the
// corresponding bin.
func (r *Record) AddStep(pos track.Vector3, slabs []Properties) {
	p := Combine(slabs)
	if !p.Valid() {
		return
	}
	b0, b1 := r.util.Bin(pos)
	acc := &r.bins[b1][b0]
	acc.t += p.Thickness
	acc.rhoT += p.Rho * p.Thickness
	acc.x0T += p.X0 * p.Thickness
	acc.l0T += p.L0 * p.Thickness
	acc.aRhoT += p.A * p.Rho * p.Thickness
	acc.zRhoT += p.Z * p.Rho * p.Thickness
	acc.n++
}

// Entries returns the number of recorded entries for a bin.
func (r *Record) Entries(b0, b1 int) int {
	return r.bins[b1][b0].n
}

// Average finalizes the record into per-bin averaged properties. Empty
// bins yield zero-value properties.
func (r *Record) Average() [][]Properties {
	out := make([][]Properties, len(r.bins))
	for i1, row := range r.bins {
		out[i1] = make([]Properties, len(row))
		for i0, acc := range row {
			if acc.n == 0 || acc.t == 0 {
				continue
			}
			p := Properties{
				Thickness: acc.t / float64(acc.n),
				X0:        acc.x0T / acc.t,
				L0:        acc.l0T / acc.t,
				Rho:       acc.rhoT / acc.t,
			}
			if acc.rhoT != 0 {
				p.A = acc.aRhoT / acc.rhoT
				p.Z = acc.zRhoT / acc.rhoT
			}
			out[i1][i0] = p
		}
	}
	return out
}
