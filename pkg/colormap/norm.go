package colormap

import (
	"image/color"
	"math"
)

// Norm linearly maps data values in [VMin, VMax] onto [0, 1].
type Norm struct {
	VMin, VMax float64
}

// NewNorm returns a norm spanning the finite values of data. NaN cells are
// ignored; an all-NaN slice yields the unit norm.
func NewNorm(data []float64) Norm {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return Norm{VMin: 0, VMax: 1}
	}
	return Norm{VMin: lo, VMax: hi}
}

// Apply normalizes v. A zero-width norm maps every finite value to 0.
// NaN passes through.
func (n Norm) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	span := n.VMax - n.VMin
	if span == 0 {
		return 0
	}
	return (v - n.VMin) / span
}

// Color looks v up in m after normalizing.
func (n Norm) Color(m Map, v float64) color.NRGBA {
	return m.At(n.Apply(v))
}
