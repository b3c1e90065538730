package material

import "github.com/dlai211/acts/internal/track"

// Axis selects which component of a position feeds a binning axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func component(pos track.Vector3, a Axis) float64 {
	switch a {
	case AxisY:
		return pos.Y
	case AxisZ:
		return pos.Z
	default:
		return pos.X
	}
}

// BinUtility maps a global position onto a 2D equidistant grid. Positions
// outside the range clamp to the edge bins.
type BinUtility struct {
	Axis0, Axis1 Axis
	Bins0, Bins1 int
	Min0, Max0   float64
	Min1, Max1   float64
}

func NewBinUtility(a0 Axis, bins0 int, min0, max0 float64, a1 Axis, bins1 int, min1, max1 float64) BinUtility {
	return BinUtility{
		Axis0: a0, Bins0: bins0, Min0: min0, Max0: max0,
		Axis1: a1, Bins1: bins1, Min1: min1, Max1: max1,
	}
}

func clampBin(v, min, max float64, bins int) int {
	if bins <= 1 || max <= min {
		return 0
	}
	b := int(float64(bins) * (v - min) / (max - min))
	if b < 0 {
		return 0
	}
	if b >= bins {
		return bins - 1
	}
	return b
}

// Bin returns the bin pair for a position.
func (u BinUtility) Bin(pos track.Vector3) (int, int) {
	b0 := clampBin(component(pos, u.Axis0), u.Min0, u.Max0, u.Bins0)
	b1 := clampBin(component(pos, u.Axis1), u.Min1, u.Max1, u.Bins1)
	return b0, b1
}
