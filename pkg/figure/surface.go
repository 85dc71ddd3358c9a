package figure

import (
	"image/color"

	"github.com/paulmach/orb"

	"github.com/matzehuels/drapemap/pkg/colormap"
	"github.com/matzehuels/drapemap/pkg/raster"
)

// Surface is one entry of a figure's ordered surface list: the main map or
// a colourbar.
type Surface interface {
	surface()
}

// MainMap is the map pane. Artists draw back to front.
type MainMap struct {
	// Limits are the axis limits in the base layer's projected units.
	Limits  raster.Extent
	Artists []Artist
}

// Colorbar is a colourbar for one drape layer or point set.
type Colorbar struct {
	Label    string
	Colormap colormap.Map
	Norm     colormap.Norm

	// Ticks are fixed tick values in data units (bin centres for discrete
	// maps). Nil means ticks are planned over the norm range.
	Ticks    []float64
	Integral bool

	// Exactly one of Layer and Points is set.
	Layer  *raster.Layer
	Points *ScatterArtist
}

func (*MainMap) surface()  {}
func (*Colorbar) surface() {}

// Artist is something drawn on the main map.
type Artist interface {
	artist()
}

// RasterArtist draws a raster layer over the whole map.
type RasterArtist struct {
	Layer *raster.Layer
}

// ScatterArtist draws coloured points. Radii are in points.
type ScatterArtist struct {
	X, Y   []float64
	Values []float64 // colour values after any log transform; nil if unicolour
	Colors []color.NRGBA
	Radius []float64
	Alpha  float64
}

// PolygonArtist draws polygon outlines or fills.
type PolygonArtist struct {
	Polygons  []orb.Polygon
	Edge      color.Color
	Face      color.Color
	LineWidth float64
	Alpha     float64
}

// TextArtist draws labels centred on points.
type TextArtist struct {
	X, Y     []float64
	Text     []string
	Color    color.Color
	Border   color.Color
	FontSize float64
	Alpha    float64
}

func (*RasterArtist) artist()  {}
func (*ScatterArtist) artist() {}
func (*PolygonArtist) artist() {}
func (*TextArtist) artist()    {}
