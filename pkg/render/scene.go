package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/drapemap/pkg/layout"
	"github.com/matzehuels/drapemap/pkg/raster"
	"github.com/matzehuels/drapemap/pkg/ticks"
)

// Scene is one figure ready to draw.
type Scene struct {
	// Width and Height are the canvas size in pixels.
	Width, Height int
	DPI           float64
	// Background fills the canvas; nil leaves it transparent.
	Background color.Color
	Style      AxisStyle
	Map        MapPanel
	Colorbars  []ColorbarPanel
}

// AxisStyle sets line widths and text sizes, in points.
type AxisStyle struct {
	LineWidth  float64
	FontSize   float64
	TickPad    float64
	LabelSize  float64
	TickLength float64
}

// MapPanel is the main map pane.
type MapPanel struct {
	Rect image.Rectangle
	// Limits are the world coordinates shown by Rect.
	Limits    raster.Extent
	Drawables []Drawable

	XTicks, YTicks ticks.TickSet
	XLabel, YLabel string
	TextColor      color.Color
}

// Drawable is implemented by the map panel layers.
type Drawable interface {
	drawable()
}

// Image is a colourized raster stretched over the whole panel. Pixel (0, 0)
// is the north-west cell.
type Image struct {
	Img   *image.NRGBA
	Alpha float64
}

// Scatter draws one filled circle per point. Radii are in points.
type Scatter struct {
	X, Y   []float64
	Radius []float64
	Colors []color.NRGBA
	Alpha  float64
}

// Path draws closed rings in world coordinates. A nil Fill draws outlines
// only; a nil Stroke draws fills only. Rings use the even-odd rule, so
// holes render as holes.
type Path struct {
	Rings     [][][2]float64
	Stroke    color.Color
	Fill      color.Color
	LineWidth float64
	Alpha     float64
}

// Labels draws text centred on world points inside circular boxes.
type Labels struct {
	X, Y        []float64
	Text        []string
	TextColor   color.Color
	BorderColor color.Color
	FontSize    float64
	Alpha       float64
}

func (Image) drawable()   {}
func (Scatter) drawable() {}
func (Path) drawable()    {}
func (Labels) drawable()  {}

// ColorbarPanel is one colourbar.
type ColorbarPanel struct {
	Rect      image.Rectangle
	Placement layout.Placement
	// Colors are sampled evenly from the low end to the high end.
	Colors []color.NRGBA
	// Ticks are positions along the bar in [0, 1], low end first.
	Ticks     []float64
	Labels    []string
	Title     string
	TextColor color.Color
}
