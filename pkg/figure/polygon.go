package figure

import (
	"image/color"

	"github.com/paulmach/orb"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// PolygonOptions styles polygons.
type PolygonOptions struct {
	Edge      color.Color
	Face      color.Color
	LineWidth float64
	Alpha     float64
}

// SetDefaults fills zero-valued fields.
func (o *PolygonOptions) SetDefaults() {
	if o.LineWidth == 0 {
		o.LineWidth = 1
	}
	if o.Alpha == 0 {
		o.Alpha = 1
	}
}

// AddPolygonOutlines draws polygon boundaries. Polygons must already be in
// the base raster's frame. A nil Edge draws black.
func (f *MapFigure) AddPolygonOutlines(polys []orb.Polygon, opts PolygonOptions) error {
	if opts.Edge == nil {
		opts.Edge = color.Black
	}
	opts.Face = nil
	return f.addPolygons("add polygon outlines", polys, opts)
}

// AddFilledPolygons fills polygons, outlining them when Edge is set. A nil
// Face fills with Unicolour.
func (f *MapFigure) AddFilledPolygons(polys []orb.Polygon, opts PolygonOptions) error {
	if opts.Face == nil {
		opts.Face = Unicolour
	}
	return f.addPolygons("add filled polygons", polys, opts)
}

func (f *MapFigure) addPolygons(op string, polys []orb.Polygon, opts PolygonOptions) error {
	if err := f.checkMutable(op); err != nil {
		return err
	}
	opts.SetDefaults()
	if !(opts.Alpha > 0 && opts.Alpha <= 1) {
		return errors.Configuration("alpha must be within (0, 1], got %v", opts.Alpha)
	}
	for i, p := range polys {
		if len(p) == 0 || len(p[0]) < 3 {
			return errors.Data("polygon %d has no exterior ring", i)
		}
	}

	m := f.Map()
	m.Artists = append(m.Artists, &PolygonArtist{
		Polygons:  polys,
		Edge:      opts.Edge,
		Face:      opts.Face,
		LineWidth: opts.LineWidth,
		Alpha:     opts.Alpha,
	})
	f.logger.Debug("polygons added", "n", len(polys), "filled", opts.Face != nil)
	return f.compose()
}
