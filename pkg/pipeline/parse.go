package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/figure"
	"github.com/matzehuels/drapemap/pkg/raster"
)

// Recipe describes one figure.
type Recipe struct {
	// Dir resolves relative paths; LoadRecipe sets it to the recipe's
	// directory.
	Dir string `toml:"-"`

	Figure   FigureSpec    `toml:"figure"`
	Base     BaseSpec      `toml:"base"`
	Drapes   []DrapeSpec   `toml:"drape"`
	Points   []PointSpec   `toml:"points"`
	Polygons []PolygonSpec `toml:"polygons"`
	Labels   []LabelSpec   `toml:"labels"`
	Output   OutputSpec    `toml:"output"`
}

// FigureSpec configures the compositor.
type FigureSpec struct {
	CoordType         string `toml:"coord_type"`
	ColorbarLocation  string `toml:"colourbar_location"`
	TargetTicks       int    `toml:"target_ticks"`
	SignificantDigits int    `toml:"significant_digits"`
}

// BaseSpec names the base raster.
type BaseSpec struct {
	Path string `toml:"path"`
	// Type is Hillshade or Terrain; it overrides Colormap.
	Type     string `toml:"type"`
	Colormap string `toml:"colormap"`
	// Black paints the base raster black, for maps on a dark background.
	Black bool `toml:"black"`
}

// TableRemap reads a remap table from two columns of a csv file.
type TableRemap struct {
	Path      string `toml:"path"`
	OldColumn string `toml:"old_column"`
	NewColumn string `toml:"new_column"`
}

// MaskSpec masks drape cells.
type MaskSpec struct {
	Mode string  `toml:"mode"`
	Low  float64 `toml:"low"`
	High float64 `toml:"high"`
}

// DrapeSpec adds one drape layer.
type DrapeSpec struct {
	Path          string    `toml:"path"`
	Colormap      string    `toml:"colormap"`
	Alpha         float64   `toml:"alpha"`
	Discrete      bool      `toml:"discrete"`
	NColours      int       `toml:"n_colours"`
	ShowColorbar  bool      `toml:"show_colourbar"`
	ColorbarLabel string    `toml:"colourbar_label"`
	Integral      bool      `toml:"integral"`
	Clim          []float64 `toml:"clim"`

	OldValues  []float64   `toml:"old_values"`
	NewValues  []float64   `toml:"new_values"`
	RemapTable *TableRemap `toml:"remap_table"`

	Mask []MaskSpec `toml:"mask"`
	// KeepBasins shows only the listed basins of a basin raster.
	KeepBasins *BasinSelection `toml:"keep_basins"`
}

// BasinSelection names basins by key, the row index of a basin info
// table.
type BasinSelection struct {
	Path string `toml:"path"`
	Keys []int  `toml:"keys"`
}

// Selection keeps only rows whose column value is listed.
type Selection struct {
	Column string    `toml:"column"`
	Values []float64 `toml:"values"`
}

// PointSpec adds one point set.
type PointSpec struct {
	Path string `toml:"path"`

	ColorColumn   string    `toml:"colour_column"`
	ScaleColumn   string    `toml:"scale_column"`
	ColorLog      bool      `toml:"colour_log"`
	ScalePoints   bool      `toml:"scale_points"`
	ScaleLog      bool      `toml:"scale_log"`
	ColorRange    []float64 `toml:"colour_range"`
	Colormap      string    `toml:"colormap"`
	Alpha         float64   `toml:"alpha"`
	MinSize       float64   `toml:"min_size"`
	MaxSize       float64   `toml:"max_size"`
	ManualSize    float64   `toml:"manual_size"`
	ShowColorbar  bool      `toml:"show_colourbar"`
	ColorbarLabel string    `toml:"colourbar_label"`

	// Threshold drops rows whose ThresholdColumn is below Threshold.
	ThresholdColumn string      `toml:"threshold_column"`
	Threshold       float64     `toml:"threshold"`
	Select          []Selection `toml:"select"`
}

// PolygonSpec adds polygons from a GeoJSON file in WGS84.
type PolygonSpec struct {
	Path      string  `toml:"path"`
	Fill      bool    `toml:"fill"`
	Edge      string  `toml:"edge"`
	Face      string  `toml:"face"`
	LineWidth float64 `toml:"line_width"`
	Alpha     float64 `toml:"alpha"`
}

// LabelSpec adds text labels from a csv (latitude/longitude columns) or
// GeoJSON file.
type LabelSpec struct {
	Path       string      `toml:"path"`
	Column     string      `toml:"column"`
	FontSize   float64     `toml:"font_size"`
	OldValues  []float64   `toml:"old_values"`
	NewValues  []float64   `toml:"new_values"`
	RemapTable *TableRemap `toml:"remap_table"`
	Select     []Selection `toml:"select"`
}

// OutputSpec controls the written file.
type OutputSpec struct {
	Path        string  `toml:"path"`
	Size        string  `toml:"size"`
	Width       float64 `toml:"width"`
	Format      string  `toml:"format"`
	DPI         float64 `toml:"dpi"`
	AxisStyle   string  `toml:"axis_style"`
	Transparent bool    `toml:"transparent"`
}

// LoadRecipe reads a TOML recipe. Unknown keys are a configuration error.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "read recipe")
	}
	rec, err := ParseRecipe(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "recipe %s", path)
	}
	rec.Dir = filepath.Dir(path)
	return rec, nil
}

// ParseRecipe decodes a TOML recipe.
func ParseRecipe(data string) (*Recipe, error) {
	var rec Recipe
	md, err := toml.Decode(data, &rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse recipe")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Configuration("unknown recipe keys: %s", strings.Join(keys, ", "))
	}
	return &rec, nil
}

// Validate checks the recipe before anything is loaded.
func (r *Recipe) Validate() error {
	if r.Base.Path == "" {
		return errors.Configuration("recipe has no base raster")
	}
	if r.Output.Path == "" {
		return errors.Configuration("recipe has no output path")
	}
	if r.Output.Size != "" {
		if err := ValidateSize(r.Output.Size); err != nil {
			return err
		}
	}
	if r.Output.Width < 0 {
		return errors.Configuration("output width must be positive, got %v", r.Output.Width)
	}
	for i, d := range r.Drapes {
		if d.Path == "" {
			return errors.Configuration("drape %d has no path", i)
		}
		if _, err := raster.NewRemap(d.OldValues, d.NewValues); err != nil {
			return err
		}
		for _, m := range d.Mask {
			if _, err := raster.ParseMaskMode(m.Mode); err != nil {
				return err
			}
		}
		if k := d.KeepBasins; k != nil && len(k.Keys) > 0 && k.Path == "" {
			return errors.Configuration("drape %d keeps basins but names no basin table", i)
		}
	}
	for i, p := range r.Points {
		if p.Path == "" {
			return errors.Configuration("point set %d has no path", i)
		}
		if err := errors.ValidateColourRange(p.ColorRange); err != nil {
			return err
		}
	}
	for i, p := range r.Polygons {
		if p.Path == "" {
			return errors.Configuration("polygon layer %d has no path", i)
		}
	}
	for i, l := range r.Labels {
		if l.Path == "" || l.Column == "" {
			return errors.Configuration("label layer %d needs a path and a column", i)
		}
		if _, err := raster.NewRemap(l.OldValues, l.NewValues); err != nil {
			return err
		}
	}
	return nil
}

// FigureWidth returns the output width in inches: Width when set, else
// the size class, else the default size class.
func (o OutputSpec) FigureWidth() (float64, error) {
	if o.Width > 0 {
		return o.Width, nil
	}
	if o.Size == "" {
		return SizeWidths[DefaultSize], nil
	}
	return FigureWidth(o.Size)
}

// resolve joins a relative path onto the recipe directory.
func (r *Recipe) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || r.Dir == "" {
		return path
	}
	return filepath.Join(r.Dir, path)
}

func (f FigureSpec) options() figure.Options {
	return figure.Options{
		CoordType:         f.CoordType,
		ColorbarLocation:  f.ColorbarLocation,
		TargetTicks:       f.TargetTicks,
		SignificantDigits: f.SignificantDigits,
	}
}
