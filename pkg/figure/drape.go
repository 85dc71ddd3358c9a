package figure

import (
	"slices"

	"github.com/matzehuels/drapemap/pkg/colormap"
	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/raster"
)

const (
	DefaultDrapeAlpha    = 0.5
	DefaultNColours      = 10
	DefaultColorbarLabel = "Colourbar"
)

// DrapeOptions styles a drape layer.
type DrapeOptions struct {
	// Colormap names the palette; empty selects gray.
	Colormap string
	// Alpha is the opacity in (0, 1]. Zero selects DefaultDrapeAlpha.
	Alpha float64

	// Discrete splits the colormap into NColours flat bins with ticks at
	// bin centres.
	Discrete bool
	NColours int

	ShowColorbar  bool
	ColorbarLabel string
	// Integral labels colourbar ticks as integers (basin keys).
	Integral bool

	// Keep lists the raw cell values to show; other cells are masked
	// before Remap. Empty keeps every cell.
	Keep []float64
	// Remap is applied to the drape grid before it is styled.
	Remap raster.Remap
	// Masks are applied after Remap and before the colour range, bins and
	// colourbar are derived.
	Masks []raster.Mask
	// Clim fixes the colour limits of a continuous drape.
	Clim []float64
}

// SetDefaults fills zero-valued fields.
func (o *DrapeOptions) SetDefaults() {
	if o.Alpha == 0 {
		o.Alpha = DefaultDrapeAlpha
	}
	if o.Discrete && o.NColours == 0 {
		o.NColours = DefaultNColours
	}
	if o.ColorbarLabel == "" {
		o.ColorbarLabel = DefaultColorbarLabel
	}
}

// AddDrape paints r over everything already on the map. r must share the
// base raster's extent and grid exactly; otherwise a SHAPE_MISMATCH error
// is returned and the figure is left unchanged.
func (f *MapFigure) AddDrape(r *raster.Raster, opts DrapeOptions) (*raster.Layer, error) {
	if err := f.checkMutable("add drape"); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	if r == nil {
		return nil, errors.Data("drape raster is nil")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if !f.Base().SameFrame(r) {
		b := f.Base()
		return nil, errors.ShapeMismatch(
			"drape %q (%dx%d, %+v) does not match base %q (%dx%d, %+v)",
			r.Name, r.Grid.Rows, r.Grid.Cols, r.Extent,
			b.Name, b.Grid.Rows, b.Grid.Cols, b.Extent,
		)
	}
	if err := errors.ValidateColourRange(opts.Clim); err != nil {
		return nil, err
	}

	l, err := raster.NewLayer(r, opts.Colormap)
	if err != nil {
		return nil, err
	}
	if err := l.SetAlpha(opts.Alpha); err != nil {
		return nil, err
	}
	kept := l.KeepValues(opts.Keep)
	if opts.Remap.Len() > 0 {
		l.ReplaceValues(opts.Remap)
	}
	masked := 0
	for _, m := range opts.Masks {
		n, err := m.Apply(l)
		if err != nil {
			return nil, err
		}
		masked += n
	}

	var cbTicks []float64
	switch {
	case opts.Discrete:
		lo, hi, ok := l.Grid.Range()
		if !ok {
			return nil, errors.Data("drape %q has no valid cells to discretize", r.Name)
		}
		if opts.Clim != nil {
			lo, hi = opts.Clim[0], opts.Clim[1]
		}
		tp, err := colormap.ComputeTickPlacement(lo, hi, opts.NColours)
		if err != nil {
			return nil, err
		}
		d, err := colormap.Discretize(l.Colormap, opts.NColours)
		if err != nil {
			return nil, err
		}
		l.SetColormap(d)
		if err := l.SetClim(tp.Boundaries[0], tp.Boundaries[len(tp.Boundaries)-1]); err != nil {
			return nil, err
		}
		cbTicks = tp.Centers
	case opts.Clim != nil:
		if err := l.SetClim(opts.Clim[0], opts.Clim[1]); err != nil {
			return nil, err
		}
	}

	// everything validated; mutate
	m := f.Map()
	m.Artists = append(m.Artists, &RasterArtist{Layer: l})
	f.layers = append(f.layers, l)
	if opts.ShowColorbar {
		f.surfaces = append(f.surfaces, &Colorbar{
			Label:    opts.ColorbarLabel,
			Colormap: l.Colormap,
			Norm:     l.Norm(),
			Ticks:    cbTicks,
			Integral: opts.Integral,
			Layer:    l,
		})
	}
	f.logger.Debug("drape added", "name", r.Name, "cmap", l.Colormap.Name(), "alpha", l.Alpha,
		"remapped", opts.Remap.Len(), "kept_out", kept, "masked", masked, "colourbar", opts.ShowColorbar)
	return l, f.compose()
}

// SetBaseType switches the base layer to a Hillshade or Terrain preset.
func (f *MapFigure) SetBaseType(t string) error {
	if err := f.checkMutable("set base type"); err != nil {
		return err
	}
	return f.Base().SetRasterType(t)
}

// MaskDrape masks cells of a layer already on the figure and returns the
// number of cells masked. Colourbars of the layer follow its new colour
// range; the bins of a discrete layer stay as they were when it was added.
func (f *MapFigure) MaskDrape(l *raster.Layer, low, high float64, mode raster.MaskMode) (int, error) {
	if err := f.checkMutable("mask drape"); err != nil {
		return 0, err
	}
	if !slices.Contains(f.layers, l) {
		return 0, errors.Configuration("layer %q is not part of this figure", l.Name)
	}
	n, err := l.MaskRange(low, high, mode)
	if err != nil {
		return 0, err
	}
	for _, cb := range f.Colorbars() {
		if cb.Layer == l {
			cb.Norm = l.Norm()
		}
	}
	return n, nil
}
