// Package surface provides target geometries for surface-bound propagation.
//
// Surfaces are passed by reference into a propagation call and are never
// owned or mutated by it; the caller must keep them alive for the duration
// of the call.
package surface

import (
	"math"

	"github.com/dlai211/acts/internal/track"
)

// Intersection is the result of a straight-line surface intersection test.
type Intersection struct {
	// PathLength is the signed distance along the test direction.
	PathLength float64

	// Position is the intersection point in global coordinates.
	Position track.Vector3

	// Valid is false when no intersection exists.
	Valid bool
}

// Surface is the geometry capability required by the target-reached
// condition: a straight-line intersection estimate from a point along a
// direction.
type Surface interface {
	Name() string
	Intersect(pos, dir track.Vector3) Intersection
}

// Plane is an unbounded plane defined by a point and a normal.
type Plane struct {
	Center track.Vector3
	Normal track.Vector3
}

func NewPlane(center, normal track.Vector3) *Plane {
	return &Plane{Center: center, Normal: normal.Unit()}
}

func (p *Plane) Name() string { return "plane" }

func (p *Plane) Intersect(pos, dir track.Vector3) Intersection {
	denom := dir.Dot(p.Normal)
	if math.Abs(denom) < 1e-12 {
		return Intersection{}
	}
	s := p.Center.Sub(pos).Dot(p.Normal) / denom
	return Intersection{
		PathLength: s,
		Position:   pos.Add(dir.Scale(s)),
		Valid:      true,
	}
}

// Cylinder is an infinite cylinder of given radius around the z axis.
type Cylinder struct {
	Radius float64
}

func NewCylinder(radius float64) *Cylinder { return &Cylinder{Radius: radius} }

func (c *Cylinder) Name() string { return "cylinder" }

// Intersect solves the quadratic for the transverse components and returns
// the nearest crossing ahead of the start point. When both crossings lie
// behind, the one closest to the start is returned.
func (c *Cylinder) Intersect(pos, dir track.Vector3) Intersection {
	a := dir.X*dir.X + dir.Y*dir.Y
	if a < 1e-24 {
		// moving parallel to the axis
		return Intersection{}
	}
	b := 2 * (pos.X*dir.X + pos.Y*dir.Y)
	q := pos.X*pos.X + pos.Y*pos.Y - c.Radius*c.Radius
	disc := b*b - 4*a*q
	if disc < 0 {
		return Intersection{}
	}
	sq := math.Sqrt(disc)
	s1 := (-b - sq) / (2 * a)
	s2 := (-b + sq) / (2 * a)
	// s1 <= s2: take the smaller root unless it lies behind; s2 then is
	// either the forward crossing or the nearest of two behind
	s := s1
	if s1 < 0 {
		s = s2
	}
	return Intersection{
		PathLength: s,
		Position:   pos.Add(dir.Scale(s)),
		Valid:      true,
	}
}

// Disc is a bounded plane with radial limits around its center.
type Disc struct {
	plane      Plane
	RMin, RMax float64
}

func NewDisc(center, normal track.Vector3, rmin, rmax float64) *Disc {
	return &Disc{plane: Plane{Center: center, Normal: normal.Unit()}, RMin: rmin, RMax: rmax}
}

func (d *Disc) Name() string { return "disc" }

func (d *Disc) Intersect(pos, dir track.Vector3) Intersection {
	ix := d.plane.Intersect(pos, dir)
	if !ix.Valid {
		return ix
	}
	r := ix.Position.Sub(d.plane.Center).Norm()
	if r < d.RMin || r > d.RMax {
		return Intersection{}
	}
	return ix
}
