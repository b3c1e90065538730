package stepper

import (
	"github.com/dlai211/acts/internal/field"
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
)

// RK4 integrates position and direction with the classic fourth-order
// Runge-Kutta scheme.
type RK4 struct {
	field field.Provider
}

func NewRK4(f field.Provider) *RK4 { return &RK4{field: f} }

func (r *RK4) MakeCache(start track.Parameters, stepSize float64) *propagator.Cache {
	return makeCache(start, stepSize)
}

func (r *RK4) Step(c *propagator.Cache) float64 {
	h := stepSize(c)
	h2 := h * 0.5

	// k_i are direction derivatives; position derivatives are the
	// intermediate directions themselves
	k1 := bend(r.field, c, c.Pos, c.Dir)

	d2 := c.Dir.Add(k1.Scale(h2)).Unit()
	p2 := c.Pos.Add(c.Dir.Scale(h2))
	k2 := bend(r.field, c, p2, d2)

	d3 := c.Dir.Add(k2.Scale(h2)).Unit()
	k3 := bend(r.field, c, p2, d3)

	d4 := c.Dir.Add(k3.Scale(h)).Unit()
	p4 := c.Pos.Add(c.Dir.Scale(h))
	k4 := bend(r.field, c, p4, d4)

	h6 := h / 6.0
	dirStep := c.Dir.Add(d2).Add(d2).Add(d3).Add(d3).Add(d4).Scale(1.0 / 6.0)
	c.Pos = c.Pos.Add(dirStep.Scale(h))
	c.Dir = c.Dir.Add(k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4).Scale(h6)).Unit()

	checkStability(c)
	return h
}

func (r *RK4) Convert(c *propagator.Cache) track.Parameters { return convert(c) }

func (r *RK4) ConvertAt(c *propagator.Cache, _ surface.Surface) track.Parameters {
	return convert(c)
}

var _ propagator.Stepper = (*Line)(nil)
var _ propagator.Stepper = (*Euler)(nil)
var _ propagator.Stepper = (*RK4)(nil)
