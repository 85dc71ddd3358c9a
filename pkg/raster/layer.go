package raster

import (
	"strings"

	"github.com/matzehuels/drapemap/pkg/colormap"
	"github.com/matzehuels/drapemap/pkg/errors"
)

// Type selects a preset colormap for base rasters.
type Type string

const (
	TypeHillshade Type = "Hillshade"
	TypeTerrain   Type = "Terrain"
)

// Layer is a raster styled for drawing.
type Layer struct {
	*Raster

	Type     Type
	Colormap colormap.Map
	// Alpha is the layer opacity in [0, 1].
	Alpha float64

	// Clim overrides the colour limits. When nil the data range is used.
	Clim *[2]float64

	// Remap is the substitution applied by ReplaceValues, kept so that
	// annotations can be relabelled consistently.
	Remap Remap
}

// NewLayer validates r and wraps a private copy of its grid. An empty
// cmapName selects gray.
func NewLayer(r *Raster, cmapName string) (*Layer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	cmap, err := colormap.Named(cmapName)
	if err != nil {
		return nil, err
	}
	own := *r
	own.Grid = r.Grid.Clone()
	return &Layer{Raster: &own, Colormap: cmap, Alpha: 1}, nil
}

// LoadLayer reads path with rd and wraps the result in a layer.
func LoadLayer(rd Reader, path, cmapName string) (*Layer, error) {
	r, err := rd.ReadRaster(path)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeData, err, "read raster %s", path)
		}
		return nil, err
	}
	return NewLayer(r, cmapName)
}

// SetRasterType switches the colormap to the preset for t. Hillshade uses
// gray and Terrain uses darkearth; matching is case-insensitive.
func (l *Layer) SetRasterType(t string) error {
	var name string
	switch {
	case strings.EqualFold(t, string(TypeHillshade)):
		l.Type, name = TypeHillshade, "gray"
	case strings.EqualFold(t, string(TypeTerrain)):
		l.Type, name = TypeTerrain, "darkearth"
	default:
		return errors.Configuration("unsupported raster type %q: use %s or %s", t, TypeHillshade, TypeTerrain)
	}
	cmap, err := colormap.Named(name)
	if err != nil {
		return err
	}
	l.Colormap = cmap
	return nil
}

// SetColormap replaces the colormap.
func (l *Layer) SetColormap(m colormap.Map) { l.Colormap = m }

// SetAlpha sets the opacity. Values outside [0, 1] are a configuration error.
func (l *Layer) SetAlpha(a float64) error {
	if !(a >= 0 && a <= 1) {
		return errors.Configuration("alpha must be within [0, 1], got %v", a)
	}
	l.Alpha = a
	return nil
}

// SetClim fixes the colour limits used to normalize the layer.
func (l *Layer) SetClim(lo, hi float64) error {
	if err := errors.ValidateColourRange([]float64{lo, hi}); err != nil {
		return err
	}
	l.Clim = &[2]float64{lo, hi}
	return nil
}

// Norm returns the normalization for colour lookup: Clim when set,
// otherwise the finite data range.
func (l *Layer) Norm() colormap.Norm {
	if l.Clim != nil {
		return colormap.Norm{VMin: l.Clim[0], VMax: l.Clim[1]}
	}
	return colormap.NewNorm(l.Grid.Data)
}
