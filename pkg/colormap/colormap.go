// Package colormap maps normalized scalar values to colours.
//
// Colormaps are described the way matplotlib's LinearSegmentedColormap
// describes them: each channel is a list of breakpoints (x, below, above)
// over the domain [0, 1]. Within a segment [x_i, x_i+1] a channel ramps
// linearly from the "above" value of breakpoint i to the "below" value of
// breakpoint i+1, so equal values produce flat bins and differing values at
// the same x produce hard steps. This single representation covers smooth
// palettes (gray, jet, cubehelix), listed palettes (Set1) and the discrete
// palettes built by [Discretize].
//
// Values are normalized into [0, 1] with a [Norm] before lookup; NaN is the
// no-data sentinel and always maps to the colormap's Bad colour
// (transparent by default).
package colormap

import (
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Map is a colour lookup over the normalized domain [0, 1].
type Map interface {
	// At returns the colour at t. Values outside [0, 1] are clamped;
	// NaN yields the Bad colour.
	At(t float64) color.NRGBA
	// Name identifies the map in logs and colourbar titles.
	Name() string
}

// Breakpoint is one entry of a channel's segment table.
type Breakpoint struct {
	X     float64 // position in [0, 1]
	Below float64 // channel value approaching X from the left
	Above float64 // channel value leaving X to the right
}

// Segmented is a colormap defined by per-channel breakpoint tables.
type Segmented struct {
	name string

	Red, Green, Blue []Breakpoint
	// Alpha is optional; a nil table means fully opaque.
	Alpha []Breakpoint

	// Bad is returned for NaN lookups.
	Bad color.NRGBA
}

// NewSegmented builds a colormap from channel tables. Tables must start at
// x=0, end at x=1 and be non-decreasing in x.
func NewSegmented(name string, red, green, blue []Breakpoint) *Segmented {
	return &Segmented{name: name, Red: red, Green: green, Blue: blue}
}

// FromColors builds a smooth colormap interpolating between evenly spaced
// colour stops.
func FromColors(name string, stops ...colorful.Color) *Segmented {
	n := len(stops)
	s := &Segmented{name: name}
	for i, c := range stops {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		c = c.Clamped()
		s.Red = append(s.Red, Breakpoint{x, c.R, c.R})
		s.Green = append(s.Green, Breakpoint{x, c.G, c.G})
		s.Blue = append(s.Blue, Breakpoint{x, c.B, c.B})
	}
	return s
}

// Listed builds a colormap of flat, equal-width bins, one per colour.
func Listed(name string, colors ...colorful.Color) *Segmented {
	n := len(colors)
	s := &Segmented{name: name}
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n)
		left, right := colors[max(i-1, 0)], colors[min(i, n-1)]
		s.Red = append(s.Red, Breakpoint{x, left.R, right.R})
		s.Green = append(s.Green, Breakpoint{x, left.G, right.G})
		s.Blue = append(s.Blue, Breakpoint{x, left.B, right.B})
	}
	return s
}

// Name returns the colormap name.
func (s *Segmented) Name() string { return s.name }

// At evaluates every channel table at t.
func (s *Segmented) At(t float64) color.NRGBA {
	if math.IsNaN(t) {
		return s.Bad
	}
	t = clamp01(t)
	a := 1.0
	if s.Alpha != nil {
		a = evalChannel(s.Alpha, t)
	}
	return color.NRGBA{
		R: to8(evalChannel(s.Red, t)),
		G: to8(evalChannel(s.Green, t)),
		B: to8(evalChannel(s.Blue, t)),
		A: to8(a),
	}
}

// Reversed returns a copy with the domain mirrored, named <name>_r.
func (s *Segmented) Reversed() *Segmented {
	return &Segmented{
		name:  s.name + "_r",
		Red:   reverseChannel(s.Red),
		Green: reverseChannel(s.Green),
		Blue:  reverseChannel(s.Blue),
		Alpha: reverseChannel(s.Alpha),
		Bad:   s.Bad,
	}
}

func evalChannel(bp []Breakpoint, t float64) float64 {
	n := len(bp)
	if n == 0 {
		return 0
	}
	if n == 1 || t <= bp[0].X {
		return bp[0].Above
	}
	if t >= bp[n-1].X {
		return bp[n-1].Below
	}
	// first breakpoint strictly right of t
	i := sort.Search(n, func(i int) bool { return bp[i].X > t })
	lo, hi := bp[i-1], bp[i]
	span := hi.X - lo.X
	if span <= 0 {
		return hi.Above
	}
	frac := (t - lo.X) / span
	return lo.Above + frac*(hi.Below-lo.Above)
}

func reverseChannel(bp []Breakpoint) []Breakpoint {
	if bp == nil {
		return nil
	}
	out := make([]Breakpoint, len(bp))
	for i, b := range bp {
		out[len(bp)-1-i] = Breakpoint{X: 1 - b.X, Below: b.Above, Above: b.Below}
	}
	return out
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// Transparent is the fully transparent colour used for masked cells.
var Transparent = color.NRGBA{}
