// Package pipeline turns figure recipes into output files.
//
// This package implements the load → compose → save sequence shared by every
// drapemap command. A [Recipe] describes one figure declaratively (base
// raster, drapes, point sets, polygons, labels and output settings) and can
// be read from TOML; the preset commands (basin keys, m_chi maps) build
// recipes from LSDTopoTools file naming conventions.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read rasters, point tables and vector layers named by the recipe
//  2. Compose: Build a figure.MapFigure and add every layer back to front
//  3. Save: Negotiate the layout and write the figure atomically
//
// # Usage
//
// Run a recipe file:
//
//	rec, err := pipeline.LoadRecipe("basins.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(rec)
//
// Run a preset:
//
//	opts := pipeline.Options{Dir: "data", Prefix: "mandakini", BasinKeys: true}
//	results, err := runner.Run(opts)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and recipes
// =============================================================================

const (
	// DefaultSize is the default figure size class.
	DefaultSize = SizeESURF

	// DefaultFormat is the default output format.
	DefaultFormat = "png"

	// DefaultDPI is the default output resolution for preset figures.
	DefaultDPI = 300.0

	// DefaultCoordType labels axes in kilometres.
	DefaultCoordType = "UTM_km"
)

// Size classes.
const (
	SizeBig           = "big"
	SizeGeomorphology = "geomorphology"
	SizeESURF         = "ESURF"
)

// SizeWidths maps size classes to figure widths in inches.
var SizeWidths = map[string]float64{
	SizeBig:           16,
	SizeGeomorphology: 6.25,
	SizeESURF:         4.92126,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"tif":  true,
	"tiff": true,
	"bmp":  true,
	"pdf":  true,
}

// =============================================================================
// Options - Preset Configuration
// =============================================================================

// Options configures the preset figures made from an LSDTopoTools output
// directory.
type Options struct {
	// Dir is the directory holding the analysis outputs.
	Dir string `toml:"dir"`
	// Prefix is the DEM name without extension; all inputs and outputs are
	// named after it.
	Prefix string `toml:"prefix"`

	// BasinKeys and SourceKeys restrict point data to these keys. Empty
	// means no filter.
	BasinKeys  []int `toml:"basin_keys"`
	SourceKeys []int `toml:"source_keys"`

	Format string  `toml:"format"`
	Size   string  `toml:"size"`
	DPI    float64 `toml:"dpi"`

	// Preset toggles.
	BasinMap  bool `toml:"basin_map"`
	MChiMap   bool `toml:"mchi_map"`
	MChiBlack bool `toml:"mchi_black"`

	// MinMChi and MaxMChi fix the m_chi colour range when MaxMChi > MinMChi.
	MinMChi float64 `toml:"min_mchi"`
	MaxMChi float64 `toml:"max_mchi"`
}

// Result describes one written figure.
type Result struct {
	// Output is the path written.
	Output string
	// Width and Height are the figure size in inches.
	Width, Height float64
	// MapFraction is the share of the figure height taken by the map.
	MapFraction float64

	Stats Stats
}

// Stats contains execution statistics for one figure.
type Stats struct {
	Drapes     int
	PointSets  int
	Points     int
	Polygons   int
	Labels     int
	Colorbars  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[strings.ToLower(format)] {
		return errors.Configuration("invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateSize checks that a size class is known.
func ValidateSize(size string) error {
	if _, ok := SizeWidths[size]; !ok {
		return errors.Configuration("invalid size: %q (must be one of: big, geomorphology, ESURF)", size)
	}
	return nil
}

func formatNames() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// FigureWidth returns the width in inches of a size class.
func FigureWidth(size string) (float64, error) {
	if err := ValidateSize(size); err != nil {
		return 0, err
	}
	return SizeWidths[size], nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Size == "" {
		o.Size = DefaultSize
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
}

// Validate checks required fields and option values. The filename prefix
// is mandatory.
func (o *Options) Validate() error {
	if err := errors.ValidateFilePrefix(o.Prefix); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if _, err := sink.ParseFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateSize(o.Size); err != nil {
		return err
	}
	if !(o.DPI > 0) {
		return errors.Configuration("dpi must be positive, got %v", o.DPI)
	}
	return nil
}

// MChiRange returns the manual m_chi colour range, or nil when the
// maximum does not exceed the minimum.
func (o *Options) MChiRange() []float64 {
	if o.MaxMChi <= o.MinMChi {
		return nil
	}
	return []float64{o.MinMChi, o.MaxMChi}
}

// Any reports whether any preset is enabled.
func (o *Options) Any() bool {
	return o.BasinMap || o.MChiMap || o.MChiBlack
}
