// Package layout negotiates the physical size of a map figure.
//
// Given a figure width, the map aspect ratio and a colourbar placement, the
// negotiator stacks the map pane, the colourbar pane and the text margins
// around them in inches, then expresses each pane as a rectangle normalized
// to the figure. The map rectangle always keeps the map's aspect ratio in
// physical units, whatever the placement:
//
//	(Map.W * Width) / (Map.H * Height) == aspect
//
// Rectangles use a bottom-left origin. [Rect.Pixels] converts to image
// coordinates.
package layout

import (
	"image"
	"math"
	"strings"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Placement is where the colourbar sits relative to the map.
type Placement int

const (
	None Placement = iota
	Top
	Bottom
	Left
	Right
)

// ParsePlacement accepts top, bottom, left, right and none in any case. An
// empty string is none.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return None, errors.Configuration("unsupported colourbar location %q: use top, bottom, left, right or none", s)
}

func (p Placement) String() string {
	switch p {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// Horizontal reports whether the colourbar runs left to right.
func (p Placement) Horizontal() bool { return p == Top || p == Bottom }

// Geometry holds the fixed margins, in inches.
type Geometry struct {
	// Whitespace is the blank border around the whole figure.
	Whitespace float64
	// MapTextWidth reserves room left of the map for y tick labels and title.
	MapTextWidth float64
	// MapTextHeight reserves room below the map for x tick labels and title.
	MapTextHeight float64
	// ColorbarPadding separates the map from the colourbar.
	ColorbarPadding float64
	// ColorbarThickness is the short side of the colourbar.
	ColorbarThickness float64

	// TextBase is the colourbar text allowance for labels up to
	// TextBaseChars characters; each extra character on a vertical
	// colourbar adds TextPerChar.
	TextBase      float64
	TextBaseChars int
	TextPerChar   float64
}

// DefaultGeometry returns the standard margins.
func DefaultGeometry() Geometry {
	return Geometry{
		Whitespace:        0.1,
		MapTextWidth:      0.65,
		MapTextHeight:     0.45,
		ColorbarPadding:   0.1,
		ColorbarThickness: 0.2,
		TextBase:          0.4,
		TextBaseChars:     3,
		TextPerChar:       0.15,
	}
}

// TextAllowance is the room for colourbar tick labels and title. Vertical
// colourbars grow with the longest tick label; horizontal ones do not, as
// their labels stack along the bar.
func (g Geometry) TextAllowance(p Placement, longestLabel int) float64 {
	if p == None {
		return 0
	}
	a := g.TextBase
	if !p.Horizontal() && longestLabel > g.TextBaseChars {
		a += g.TextPerChar * float64(longestLabel-g.TextBaseChars)
	}
	return a
}

// Rect is a rectangle normalized to the figure, origin bottom-left.
type Rect struct {
	X, Y, W, H float64
}

// Pixels converts r to image coordinates (origin top-left) for a canvas of
// the given size.
func (r Rect) Pixels(w, h int) image.Rectangle {
	x0 := int(math.Round(r.X * float64(w)))
	x1 := int(math.Round((r.X + r.W) * float64(w)))
	y0 := int(math.Round((1 - r.Y - r.H) * float64(h)))
	y1 := int(math.Round((1 - r.Y) * float64(h)))
	return image.Rect(x0, y0, x1, y1)
}

// Tile splits r into n equal parts along its long axis, separated by gap
// (a fraction of the long side).
func (r Rect) Tile(n int, gap float64) []Rect {
	if n <= 1 {
		return []Rect{r}
	}
	out := make([]Rect, n)
	if r.W >= r.H {
		g := gap * r.W
		w := (r.W - g*float64(n-1)) / float64(n)
		for i := range out {
			out[i] = Rect{X: r.X + float64(i)*(w+g), Y: r.Y, W: w, H: r.H}
		}
		return out
	}
	g := gap * r.H
	h := (r.H - g*float64(n-1)) / float64(n)
	for i := range out {
		// first tile on top
		out[i] = Rect{X: r.X, Y: r.Y + r.H - float64(i+1)*h - float64(i)*g, W: r.W, H: h}
	}
	return out
}

// FigureLayout is the negotiated figure.
type FigureLayout struct {
	// Width and Height are in inches.
	Width, Height float64
	Placement     Placement
	Map           Rect
	// Colorbar is nil when Placement is None.
	Colorbar *Rect
}

// Pixels returns the canvas size at dpi.
func (l FigureLayout) Pixels(dpi float64) (w, h int) {
	return int(math.Round(l.Width * dpi)), int(math.Round(l.Height * dpi))
}

// MapFraction returns the share of the figure height taken by the map.
func (l FigureLayout) MapFraction() float64 { return l.Map.H }

// Negotiate lays out a figure of the given width with DefaultGeometry.
func Negotiate(width, aspect float64, p Placement, thickness, textAllowance float64) (FigureLayout, error) {
	g := DefaultGeometry()
	g.ColorbarThickness = thickness
	return g.Negotiate(width, aspect, p, textAllowance)
}

// Negotiate computes the figure height and pane rectangles for a figure
// width in inches and a map aspect ratio (width over height).
func (g Geometry) Negotiate(width, aspect float64, p Placement, textAllowance float64) (FigureLayout, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return FigureLayout{}, errors.Configuration("figure width must be positive, got %v", width)
	}
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		return FigureLayout{}, errors.Configuration("map aspect ratio must be positive, got %v", aspect)
	}
	if textAllowance < 0 || g.ColorbarThickness < 0 {
		return FigureLayout{}, errors.Configuration("colourbar thickness and text allowance must be non-negative")
	}

	ws, cw, pad := g.Whitespace, g.ColorbarThickness, g.ColorbarPadding
	var (
		mapLeft, mapBottom, mapW float64
		cbar                     *[4]float64 // x, y, w, h in inches
		height                   float64
	)

	switch p {
	case None:
		mapLeft = ws + g.MapTextWidth
		mapW = width - mapLeft - ws
		mapBottom = ws + g.MapTextHeight
	case Bottom:
		mapLeft = ws + g.MapTextWidth
		mapW = width - mapLeft - ws
		cbarBottom := ws + textAllowance
		mapBottom = cbarBottom + cw + pad + g.MapTextHeight
		cbar = &[4]float64{mapLeft, cbarBottom, mapW, cw}
	case Top:
		mapLeft = ws + g.MapTextWidth
		mapW = width - mapLeft - ws
		mapBottom = ws + g.MapTextHeight
	case Left:
		cbarLeft := ws + textAllowance
		mapLeft = cbarLeft + cw + pad + g.MapTextWidth
		mapW = width - mapLeft - ws
		mapBottom = ws + g.MapTextHeight
		cbar = &[4]float64{cbarLeft, mapBottom, cw, 0}
	case Right:
		mapLeft = ws + g.MapTextWidth
		cbarLeft := width - ws - textAllowance - cw
		mapW = cbarLeft - pad - mapLeft
		mapBottom = ws + g.MapTextHeight
		cbar = &[4]float64{cbarLeft, mapBottom, cw, 0}
	default:
		return FigureLayout{}, errors.Configuration("unknown colourbar placement %d", int(p))
	}

	if mapW <= 0 {
		return FigureLayout{}, errors.Configuration("figure width %vin leaves no room for the map", width)
	}
	mapH := mapW / aspect

	switch p {
	case Top:
		cbarBottom := mapBottom + mapH + pad
		cbar = &[4]float64{mapLeft, cbarBottom, mapW, cw}
		height = cbarBottom + cw + textAllowance + ws
	default:
		height = mapBottom + mapH + ws
	}
	if p == Left || p == Right {
		cbar[3] = mapH
	}

	l := FigureLayout{
		Width:     width,
		Height:    height,
		Placement: p,
		Map:       Rect{X: mapLeft / width, Y: mapBottom / height, W: mapW / width, H: mapH / height},
	}
	if cbar != nil {
		l.Colorbar = &Rect{X: cbar[0] / width, Y: cbar[1] / height, W: cbar[2] / width, H: cbar[3] / height}
	}
	return l, nil
}
