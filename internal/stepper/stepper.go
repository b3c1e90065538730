// Package stepper provides numerical steppers for the propagation engine.
//
// All steppers integrate the equations of motion of a charged particle in
// a magnetic field, parameterized by path length s:
//
//	dr/ds = d
//	dd/ds = (q/p) d x B(r)
//
// [Line] ignores the field and is exact in vacuum, [Euler] is first order,
// [RK4] is the classic fourth-order scheme.
package stepper

import (
	"github.com/dlai211/acts/internal/field"
	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
)

// makeCache builds the per-call scratch state shared by all steppers.
func makeCache(start track.Parameters, stepSize float64) *propagator.Cache {
	c := &propagator.Cache{
		Pos:      start.Position,
		Dir:      start.Direction.Unit(),
		Momentum: start.Momentum,
		Charge:   start.Charge,
		StepSize: stepSize,
	}
	if start.Covariance != nil {
		cov := *start.Covariance
		c.Cov = &cov
	}
	return c
}

func convert(c *propagator.Cache) track.Parameters {
	p := track.Parameters{
		Position:  c.Pos,
		Direction: c.Dir,
		Momentum:  c.Momentum,
		Charge:    c.Charge,
	}
	if c.Cov != nil {
		cov := *c.Cov
		p.Covariance = &cov
	}
	return p
}

// bend returns the direction derivative (q/p) d x B at the given position.
func bend(f field.Provider, c *propagator.Cache, pos, dir track.Vector3) track.Vector3 {
	return dir.Cross(f.Get(pos)).Scale(c.QOverP())
}

// checkStability flags NaN/Inf states on the cache.
func checkStability(c *propagator.Cache) {
	if !c.Pos.IsValid() || !c.Dir.IsValid() {
		c.Err = track.ErrUnstable
	}
}

// stepSize returns the signed step size, flagging an underflow to zero.
func stepSize(c *propagator.Cache) float64 {
	if c.StepSize == 0 {
		c.Err = track.ErrStepUnderflow
	}
	return c.StepSize
}

// Line advances on a straight line, ignoring any magnetic field. Exact for
// neutral particles and in vacuum.
type Line struct{}

func NewLine() *Line { return &Line{} }

func (*Line) MakeCache(start track.Parameters, stepSize float64) *propagator.Cache {
	return makeCache(start, stepSize)
}

func (*Line) Step(c *propagator.Cache) float64 {
	h := stepSize(c)
	c.Pos = c.Pos.Add(c.Dir.Scale(h))
	checkStability(c)
	return h
}

func (*Line) Convert(c *propagator.Cache) track.Parameters { return convert(c) }

func (*Line) ConvertAt(c *propagator.Cache, _ surface.Surface) track.Parameters {
	return convert(c)
}

// Euler is the first-order Lorentz stepper. Cheap, and accurate enough for
// weak fields or short paths.
type Euler struct {
	field field.Provider
}

func NewEuler(f field.Provider) *Euler { return &Euler{field: f} }

func (e *Euler) MakeCache(start track.Parameters, stepSize float64) *propagator.Cache {
	return makeCache(start, stepSize)
}

func (e *Euler) Step(c *propagator.Cache) float64 {
	h := stepSize(c)
	k := bend(e.field, c, c.Pos, c.Dir)
	c.Pos = c.Pos.Add(c.Dir.Scale(h))
	c.Dir = c.Dir.Add(k.Scale(h)).Unit()
	checkStability(c)
	return h
}

func (e *Euler) Convert(c *propagator.Cache) track.Parameters { return convert(c) }

func (e *Euler) ConvertAt(c *propagator.Cache, _ surface.Surface) track.Parameters {
	return convert(c)
}
