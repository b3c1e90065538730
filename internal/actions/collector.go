package actions

import (
	"math"

	"github.com/dlai211/acts/internal/material"
	"github.com/dlai211/acts/internal/propagator"
)

// MaterialID is the result slot written by MaterialCollector.
const MaterialID = "material"

// MaterialSummary is the payload accumulated by MaterialCollector.
type MaterialSummary struct {
	// Crossed lists one slab per step.
	Crossed []material.Properties

	// TotalThickness is the summed path in material, TotalX0 the same in
	// radiation lengths.
	TotalThickness float64
	TotalX0        float64
}

// MaterialCollector accumulates the material crossed each step, assuming a
// homogeneous medium. When a Record is attached, every slab is also binned
// into it at the step position.
//
// List a MaterialCollector before any action that reads its slot within
// the same step.
type MaterialCollector struct {
	// Medium describes the homogeneous material; its Thickness field is
	// ignored and replaced by the step length.
	Medium material.Properties

	// Record is optional.
	Record *material.Record

	lastPath float64
}

func (*MaterialCollector) ID() string { return MaterialID }

func (m *MaterialCollector) Do(c *propagator.Cache, r *propagator.Result) {
	step := math.Abs(r.PathLength - m.lastPath)
	m.lastPath = r.PathLength
	if step == 0 {
		return
	}

	slab := m.Medium
	slab.Thickness = step

	v, _ := r.Get(MaterialID)
	sum, _ := v.(MaterialSummary)
	sum.Crossed = append(sum.Crossed, slab)
	sum.TotalThickness += slab.Thickness
	sum.TotalX0 += slab.ThicknessInX0()
	r.Set(MaterialID, sum)

	if m.Record != nil {
		m.Record.AddStep(c.Pos, []material.Properties{slab})
	}
}

// CollectedMaterial extracts the material summary from a result.
func CollectedMaterial(r *propagator.Result) (MaterialSummary, bool) {
	v, ok := r.Get(MaterialID)
	if !ok {
		return MaterialSummary{}, false
	}
	sum, ok := v.(MaterialSummary)
	return sum, ok
}
