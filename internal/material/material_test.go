package material_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dlai211/acts/internal/material"
	"github.com/dlai211/acts/internal/track"
)

// silicon-like slab, thickness in mm
func silicon(t float64) material.Properties {
	return material.Properties{Thickness: t, X0: 93.7, L0: 465.2, A: 28.03, Z: 14, Rho: 2.32e-3}
}

func beryllium(t float64) material.Properties {
	return material.Properties{Thickness: t, X0: 352.8, L0: 407.0, A: 9.012, Z: 4, Rho: 1.848e-3}
}

var _ = Describe("Properties", func() {
	It("reports thickness in radiation lengths", func() {
		s := silicon(0.5)
		Expect(s.ThicknessInX0()).To(BeNumerically("~", 0.5/93.7, 1e-12))
	})

	It("is invalid with zero thickness", func() {
		Expect(material.Properties{X0: 93.7}.Valid()).To(BeFalse())
		Expect(silicon(0.1).Valid()).To(BeTrue())
	})

	It("guards the X0 division", func() {
		p := material.Properties{Thickness: 1}
		Expect(p.ThicknessInX0()).To(BeZero())
	})
})

var _ = Describe("Combine", func() {
	It("returns a single slab unchanged", func() {
		s := silicon(0.3)
		c := material.Combine([]material.Properties{s})
		Expect(c.Thickness).To(BeNumerically("~", s.Thickness, 1e-12))
		Expect(c.X0).To(BeNumerically("~", s.X0, 1e-9))
		Expect(c.Z).To(BeNumerically("~", s.Z, 1e-9))
	})

	It("sums thickness over slabs", func() {
		c := material.Combine([]material.Properties{silicon(0.3), beryllium(0.7)})
		Expect(c.Thickness).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("weights X0 by thickness", func() {
		c := material.Combine([]material.Properties{silicon(0.5), beryllium(0.5)})
		Expect(c.X0).To(BeNumerically("~", (93.7+352.8)/2, 1e-9))
	})

	It("weights Z by density times thickness", func() {
		si, be := silicon(0.5), beryllium(0.5)
		c := material.Combine([]material.Properties{si, be})
		rhoT := si.Rho*si.Thickness + be.Rho*be.Thickness
		wantZ := (si.Z*si.Rho*si.Thickness + be.Z*be.Rho*be.Thickness) / rhoT
		Expect(c.Z).To(BeNumerically("~", wantZ, 1e-9))
	})

	It("yields an empty slab from no input", func() {
		c := material.Combine(nil)
		Expect(c.Valid()).To(BeFalse())
	})
})

var _ = Describe("BinUtility", func() {
	util := material.NewBinUtility(
		material.AxisZ, 10, -100, 100,
		material.AxisX, 4, 0, 40,
	)

	It("maps positions onto the grid", func() {
		b0, b1 := util.Bin(track.Vector3{X: 15, Z: -95})
		Expect(b0).To(Equal(0))
		Expect(b1).To(Equal(1))
	})

	It("clamps positions outside the range", func() {
		b0, b1 := util.Bin(track.Vector3{X: 999, Z: -999})
		Expect(b0).To(Equal(0))
		Expect(b1).To(Equal(3))
	})

	It("puts the upper edge in the last bin", func() {
		b0, _ := util.Bin(track.Vector3{Z: 100})
		Expect(b0).To(Equal(9))
	})
})

var _ = Describe("Record", func() {
	var rec *material.Record

	BeforeEach(func() {
		util := material.NewBinUtility(
			material.AxisZ, 2, -10, 10,
			material.AxisX, 1, 0, 1,
		)
		rec = material.NewRecord(util)
	})

	It("counts entries per bin", func() {
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.1)})
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.1)})
		rec.AddStep(track.Vector3{Z: 5}, []material.Properties{silicon(0.1)})

		Expect(rec.Entries(0, 0)).To(Equal(2))
		Expect(rec.Entries(1, 0)).To(Equal(1))
	})

	It("ignores empty slabs", func() {
		rec.AddStep(track.Vector3{Z: -5}, nil)
		Expect(rec.Entries(0, 0)).To(BeZero())
	})

	It("averages thickness over entries", func() {
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.2)})
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.4)})

		avg := rec.Average()
		Expect(avg[0][0].Thickness).To(BeNumerically("~", 0.3, 1e-12))
	})

	It("averages X0 weighted by thickness", func() {
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.2)})
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{beryllium(0.2)})

		avg := rec.Average()
		Expect(avg[0][0].X0).To(BeNumerically("~", (93.7+352.8)/2, 1e-9))
	})

	It("leaves untouched bins at zero value", func() {
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.1)})

		avg := rec.Average()
		Expect(avg[0][1]).To(Equal(material.Properties{}))
	})

	It("merges coincident slabs before binning", func() {
		rec.AddStep(track.Vector3{Z: -5}, []material.Properties{silicon(0.1), beryllium(0.1)})

		Expect(rec.Entries(0, 0)).To(Equal(1))
		avg := rec.Average()
		Expect(avg[0][0].Thickness).To(BeNumerically("~", 0.2, 1e-12))
	})
})
