package colormap

import (
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// DefaultName is the colormap used when none is given.
const DefaultName = "gray"

var registry = map[string]func() *Segmented{
	"gray":      gray,
	"grey":      gray,
	"jet":       jet,
	"cubehelix": func() *Segmented { return Cubehelix(0.5, -1.5, 1.0, 1.0) },
	"viridis":   viridis,
	"plasma":    plasma,
	"terrain":   terrain,
	"darkearth": darkearth,
	"Set1":      set1,
	"RdYlGn":    rdYlGn,
	"RdBu":      rdBu,
}

// Named returns a registered colormap. A "_r" suffix returns the reversed
// map. Unknown names produce a configuration error.
func Named(name string) (*Segmented, error) {
	if name == "" {
		name = DefaultName
	}
	base, reversed := strings.CutSuffix(name, "_r")
	mk, ok := registry[base]
	if !ok {
		return nil, errors.Configuration("unknown colormap %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	m := mk()
	if reversed {
		return m.Reversed(), nil
	}
	return m, nil
}

// Names lists the registered colormap names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func gray() *Segmented {
	ramp := []Breakpoint{{0, 0, 0}, {1, 1, 1}}
	return NewSegmented("gray", ramp, ramp, ramp)
}

func jet() *Segmented {
	return NewSegmented("jet",
		[]Breakpoint{{0, 0, 0}, {0.35, 0, 0}, {0.66, 1, 1}, {0.89, 1, 1}, {1, 0.5, 0.5}},
		[]Breakpoint{{0, 0, 0}, {0.125, 0, 0}, {0.375, 1, 1}, {0.64, 1, 1}, {0.91, 0, 0}, {1, 0, 0}},
		[]Breakpoint{{0, 0.5, 0.5}, {0.11, 1, 1}, {0.34, 1, 1}, {0.65, 0, 0}, {1, 0, 0}},
	)
}

// Cubehelix builds Green's (2011) cubehelix scheme. start is the starting
// hue angle in thirds of a turn, rot the number of rotations over the
// domain, hue the saturation and gamma the intensity exponent.
func Cubehelix(start, rot, hue, gamma float64) *Segmented {
	const samples = 64
	s := &Segmented{name: "cubehelix"}
	for i := 0; i < samples; i++ {
		x := float64(i) / float64(samples-1)
		xg := math.Pow(x, gamma)
		amp := hue * xg * (1 - xg) / 2
		phi := 2 * math.Pi * (start/3 + rot*x)
		cos, sin := math.Cos(phi), math.Sin(phi)
		r := xg + amp*(-0.14861*cos+1.78277*sin)
		g := xg + amp*(-0.29227*cos-0.90649*sin)
		b := xg + amp*(1.97294*cos)
		s.Red = append(s.Red, Breakpoint{x, r, r})
		s.Green = append(s.Green, Breakpoint{x, g, g})
		s.Blue = append(s.Blue, Breakpoint{x, b, b})
	}
	return s
}

func viridis() *Segmented {
	return FromColors("viridis", hexes(
		"#440154", "#482475", "#414487", "#355f8d", "#2a788e", "#21918c",
		"#22a884", "#44bf70", "#7ad151", "#bddf26", "#fde725",
	)...)
}

func plasma() *Segmented {
	return FromColors("plasma", hexes(
		"#0d0887", "#41049d", "#6a00a8", "#8f0da4", "#b12a90", "#cc4778",
		"#e16462", "#f2844b", "#fca636", "#fcce25", "#f0f921",
	)...)
}

func terrain() *Segmented {
	return NewSegmented("terrain",
		[]Breakpoint{{0, 0.2, 0.2}, {0.15, 0, 0}, {0.25, 0, 0}, {0.5, 1, 1}, {0.75, 0.5, 0.5}, {1, 1, 1}},
		[]Breakpoint{{0, 0.2, 0.2}, {0.15, 0.6, 0.6}, {0.25, 0.8, 0.8}, {0.5, 1, 1}, {0.75, 0.36, 0.36}, {1, 1, 1}},
		[]Breakpoint{{0, 0.6, 0.6}, {0.15, 1, 1}, {0.25, 0.4, 0.4}, {0.5, 0.6, 0.6}, {0.75, 0.33, 0.33}, {1, 1, 1}},
	)
}

// darkearth runs from deep green lowlands through ochre to pale summits,
// tuned to sit under a semi-transparent hillshade.
func darkearth() *Segmented {
	return FromColors("darkearth", hexes(
		"#202f1b", "#3f4d25", "#6b6b34", "#8f7d45", "#a98d5b", "#c2a57f", "#ddd0bc", "#f5f1ea",
	)...)
}

func set1() *Segmented {
	return Listed("Set1", hexes(
		"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00",
		"#ffff33", "#a65628", "#f781bf", "#999999",
	)...)
}

func rdYlGn() *Segmented {
	return FromColors("RdYlGn", hexes(
		"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
		"#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837",
	)...)
}

func rdBu() *Segmented {
	return FromColors("RdBu", hexes(
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7",
		"#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
	)...)
}

func hexes(codes ...string) []colorful.Color {
	out := make([]colorful.Color, len(codes))
	for i, h := range codes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic("colormap: bad palette literal " + h)
		}
		out[i] = c
	}
	return out
}
