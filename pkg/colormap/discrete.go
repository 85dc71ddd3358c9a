package colormap

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Discrete is a colormap of N flat bins sampled from a continuous base map.
//
// Bin k covers [k/N, (k+1)/N); the top edge t=1 belongs to bin N-1. The
// channel tables carry an extra transparent terminal colour on the left of
// the first breakpoint, so the only way to reach it is from below the
// domain, which [Segmented.At] clamps away.
type Discrete struct {
	*Segmented

	// Colors holds the N bin colours, lowest first.
	Colors []color.NRGBA
}

// Discretize samples base at N evenly spaced points (0, 1/(N-1), ..., 1) and
// returns an N-bin discrete colormap named "<base>_<N>".
func Discretize(base Map, n int) (*Discrete, error) {
	if base == nil {
		return nil, errors.Configuration("discretize: nil base colormap")
	}
	if n < 1 {
		return nil, errors.Configuration("discretize: bin count must be >= 1, got %d", n)
	}

	positions := make([]float64, n)
	if n == 1 {
		positions[0] = 0
	} else {
		floats.Span(positions, 0, 1)
	}

	// sampled colours followed by the transparent terminal colour, so that
	// index -1 wraps to it when building the left side of breakpoint 0
	rgba := make([]color.NRGBA, n+1)
	for i, x := range positions {
		rgba[i] = base.At(x)
	}
	rgba[n] = Transparent
	left := func(i int) color.NRGBA {
		if i == 0 {
			return rgba[n]
		}
		return rgba[i-1]
	}

	seg := &Segmented{name: base.Name() + "_" + strconv.Itoa(n)}
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n)
		l, r := left(i), rgba[min(i, n)]
		if i == n {
			r = rgba[n-1]
		}
		seg.Red = append(seg.Red, Breakpoint{x, unit(l.R), unit(r.R)})
		seg.Green = append(seg.Green, Breakpoint{x, unit(l.G), unit(r.G)})
		seg.Blue = append(seg.Blue, Breakpoint{x, unit(l.B), unit(r.B)})
		seg.Alpha = append(seg.Alpha, Breakpoint{x, unit(l.A), unit(r.A)})
	}

	return &Discrete{Segmented: seg, Colors: rgba[:n:n]}, nil
}

// Bins returns the number of colour bins.
func (d *Discrete) Bins() int { return len(d.Colors) }

// Bin returns the bin index for a normalized value, clamped to [0, N-1].
func (d *Discrete) Bin(t float64) int {
	n := len(d.Colors)
	k := int(math.Floor(clamp01(t) * float64(n)))
	return min(k, n-1)
}

// At returns the colour of the bin containing t.
func (d *Discrete) At(t float64) color.NRGBA {
	if math.IsNaN(t) {
		return d.Bad
	}
	return d.Colors[d.Bin(t)]
}

func unit(v uint8) float64 { return float64(v) / 255 }

// TickPlacement places colourbar ticks at bin centres.
type TickPlacement struct {
	// Centers are the N tick locations, evenly spaced from the data minimum
	// to the data maximum.
	Centers []float64
	// Boundaries are the N+1 bin edges, half a bin width outside the
	// centres at either end.
	Boundaries []float64
}

// ComputeTickPlacement spreads n labels evenly over [dataMin, dataMax] and
// derives bin boundaries so each label sits in the middle of its colour
// bin. When dataMin == dataMax the bins are one unit wide with dataMin on
// the centre of bin (n-1)/2, so the data value still labels its own bin.
func ComputeTickPlacement(dataMin, dataMax float64, n int) (TickPlacement, error) {
	if n < 1 {
		return TickPlacement{}, errors.Configuration("tick placement: bin count must be >= 1, got %d", n)
	}
	if math.IsNaN(dataMin) || math.IsNaN(dataMax) || math.IsInf(dataMin, 0) || math.IsInf(dataMax, 0) {
		return TickPlacement{}, errors.Configuration("tick placement: data range must be finite")
	}
	if dataMin > dataMax {
		dataMin, dataMax = dataMax, dataMin
	}

	centers := make([]float64, n)
	width, start := 1.0, dataMin
	if n > 1 && dataMax > dataMin {
		floats.Span(centers, dataMin, dataMax)
		width = (dataMax - dataMin) / float64(n-1)
	} else {
		start = dataMin - float64((n-1)/2)
		for i := range centers {
			centers[i] = start + float64(i)
		}
	}

	bounds := make([]float64, n+1)
	for i := range bounds {
		bounds[i] = start - width/2 + float64(i)*width
	}
	return TickPlacement{Centers: centers, Boundaries: bounds}, nil
}

// FormatTickLabels renders tick values as colourbar labels. Integral labels
// round to the nearest integer; otherwise values use the shortest
// representation that round-trips.
func FormatTickLabels(values []float64, integral bool) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if integral {
			out[i] = strconv.FormatInt(int64(math.Round(v)), 10)
		} else {
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return out
}
