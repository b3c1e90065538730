package propagator

import (
	"math"

	"github.com/dlai211/acts/internal/surface"
)

// pathLimitReached stops the propagation once the accumulated path length
// is within tolerance of the signed limit. It is part of the hidden
// internal abort list and built fresh for every call.
type pathLimitReached struct {
	signedLimit float64
	tolerance   float64
	fired       bool
}

func (a *pathLimitReached) Check(r *Result, c *Cache) bool {
	remaining := a.signedLimit - r.PathLength
	if math.Abs(remaining) <= a.tolerance {
		a.fired = true
		return true
	}
	// overshot: the remaining distance flipped sign against the limit
	if a.signedLimit*remaining < 0 {
		a.fired = true
		return true
	}
	if math.Abs(remaining) < math.Abs(c.StepSize) {
		c.StepSize = remaining
	}
	return false
}

// surfaceReached stops the propagation once the straight-line distance to
// the target surface is within tolerance. The surface is borrowed from the
// caller and must outlive the call.
type surfaceReached struct {
	target    surface.Surface
	direction Direction
	tolerance float64
	fired     bool
}

func (a *surfaceReached) Check(r *Result, c *Cache) bool {
	ix := a.target.Intersect(c.Pos, c.Dir)
	if !ix.Valid {
		// lost the surface; the path limit still bounds the loop
		return false
	}
	if math.Abs(ix.PathLength) <= a.tolerance {
		a.fired = true
		return true
	}
	// only steer toward crossings that lie along the propagation direction
	if ix.PathLength*float64(a.direction) > 0 && math.Abs(ix.PathLength) < math.Abs(c.StepSize) {
		c.StepSize = ix.PathLength
	}
	return false
}
