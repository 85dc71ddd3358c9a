package figure

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/drapemap/pkg/colormap"
	"github.com/matzehuels/drapemap/pkg/errors"
)

// PointSource provides tabular point data.
type PointSource interface {
	// QueryColumn returns the named column, or an empty slice when the
	// column does not exist.
	QueryColumn(name string) []float64
	// ProjectToFrame returns point coordinates in the frame identified by
	// projectionID.
	ProjectToFrame(projectionID string) (x, y []float64, err error)
}

const (
	DefaultPointColormap         = "cubehelix"
	DefaultMinPointSize          = 0.5
	DefaultMaxPointSize          = 5
	DefaultManualPointSize       = 0.5
	DefaultMinimumLogScaleCutoff = -10
)

// Unicolour is used for points when no colour column is available.
var Unicolour = color.NRGBA{B: 255, A: 255}

// PointOptions styles a point set.
type PointOptions struct {
	// ColorColumn and ScaleColumn name source columns. Missing columns
	// fall back to Unicolour and ManualSize.
	ColorColumn string
	ScaleColumn string

	// ColorLog plots log10 of the colour column. Values <= 0 become NaN:
	// they are still drawn, in the backend's bad colour, but take no part
	// in colour scaling.
	ColorLog bool
	// ScalePoints sizes points linearly between MinSize and MaxSize by
	// ScaleColumn.
	ScalePoints bool
	// ScaleLog rescales log10 of the scale column, floored at
	// MinimumLogScaleCutoff.
	ScaleLog              bool
	MinimumLogScaleCutoff float64

	MinSize, MaxSize float64
	ManualSize       float64

	// ColorRange fixes the colour limits as [min, max].
	ColorRange []float64
	Colormap   string
	Alpha      float64

	ShowColorbar  bool
	ColorbarLabel string
}

// SetDefaults fills zero-valued fields.
func (o *PointOptions) SetDefaults() {
	if o.Colormap == "" {
		o.Colormap = DefaultPointColormap
	}
	if o.MinSize == 0 {
		o.MinSize = DefaultMinPointSize
	}
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxPointSize
	}
	if o.ManualSize == 0 {
		o.ManualSize = DefaultManualPointSize
	}
	if o.MinimumLogScaleCutoff == 0 {
		o.MinimumLogScaleCutoff = DefaultMinimumLogScaleCutoff
	}
	if o.Alpha == 0 {
		o.Alpha = 1
	}
	if o.ColorbarLabel == "" {
		o.ColorbarLabel = o.ColorColumn
	}
}

// Validate checks option values.
func (o *PointOptions) Validate() error {
	if err := errors.ValidateColourRange(o.ColorRange); err != nil {
		return err
	}
	if o.MinSize < 0 || o.MaxSize < o.MinSize {
		return errors.Configuration("point size range [%v, %v] is invalid", o.MinSize, o.MaxSize)
	}
	if !(o.Alpha > 0 && o.Alpha <= 1) {
		return errors.Configuration("alpha must be within (0, 1], got %v", o.Alpha)
	}
	return nil
}

// AddPoints projects src into the base raster's frame and scatters it over
// the map. The map keeps the base raster's limits even when points fall
// outside them.
func (f *MapFigure) AddPoints(src PointSource, opts PointOptions) (*ScatterArtist, error) {
	if err := f.checkMutable("add points"); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cmap, err := colormap.Named(opts.Colormap)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.Data("point source is nil")
	}

	x, y, err := src.ProjectToFrame(f.Base().ProjectionID)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeData, err, "project points to %s", f.Base().ProjectionID)
		}
		return nil, err
	}
	if len(x) != len(y) {
		return nil, errors.Data("projected %d eastings but %d northings", len(x), len(y))
	}
	n := len(x)

	s := &ScatterArtist{X: x, Y: y, Alpha: opts.Alpha}

	values := columnOf(src, opts.ColorColumn, n)
	var norm colormap.Norm
	if values == nil {
		if opts.ShowColorbar {
			f.logger.Warn("no colour column, skipping colourbar", "column", opts.ColorColumn)
			opts.ShowColorbar = false
		}
		s.Colors = make([]color.NRGBA, n)
		for i := range s.Colors {
			s.Colors[i] = Unicolour
		}
	} else {
		if opts.ColorLog {
			values = log10Positive(values)
		}
		norm = colormap.NewNorm(values)
		if opts.ColorRange != nil {
			norm = colormap.Norm{VMin: opts.ColorRange[0], VMax: opts.ColorRange[1]}
		}
		s.Values = values
		s.Colors = make([]color.NRGBA, n)
		for i, v := range values {
			if math.IsNaN(v) {
				s.Colors[i] = f.backend.BadColor
				continue
			}
			s.Colors[i] = norm.Color(cmap, v)
		}
	}

	s.Radius = make([]float64, n)
	scale := columnOf(src, opts.ScaleColumn, n)
	if opts.ScalePoints && scale != nil {
		if opts.ScaleLog {
			scale = log10Floor(scale, opts.MinimumLogScaleCutoff)
		}
		rescale(s.Radius, scale, opts.MinSize, opts.MaxSize)
	} else {
		for i := range s.Radius {
			s.Radius[i] = opts.ManualSize
		}
	}

	m := f.Map()
	m.Artists = append(m.Artists, s)
	if opts.ShowColorbar {
		f.surfaces = append(f.surfaces, &Colorbar{
			Label:    opts.ColorbarLabel,
			Colormap: cmap,
			Norm:     norm,
			Points:   s,
		})
	}
	f.logger.Debug("points added", "n", n, "colour", opts.ColorColumn, "scale", opts.ScaleColumn)
	return s, f.compose()
}

// columnOf returns the named column when it exists and matches n points.
func columnOf(src PointSource, name string, n int) []float64 {
	if name == "" {
		return nil
	}
	col := src.QueryColumn(name)
	if len(col) == 0 || len(col) != n {
		return nil
	}
	return col
}

func log10Positive(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x > 0 {
			out[i] = math.Log10(x)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func log10Floor(v []float64, cutoff float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		l := cutoff
		if x > 0 {
			l = math.Max(math.Log10(x), cutoff)
		}
		out[i] = l
	}
	return out
}

// rescale maps src linearly onto [lo, hi] in dst. A constant column maps to
// the midpoint; NaN maps to lo.
func rescale(dst, src []float64, lo, hi float64) {
	finite := make([]float64, 0, len(src))
	for _, v := range src {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		for i := range dst {
			dst[i] = lo
		}
		return
	}
	smin, smax := floats.Min(finite), floats.Max(finite)
	for i, v := range src {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			dst[i] = lo
		case smax == smin:
			dst[i] = (lo + hi) / 2
		default:
			dst[i] = lo + (v-smin)/(smax-smin)*(hi-lo)
		}
	}
}
