package pipeline

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/drapemap/pkg/layout"
	"github.com/matzehuels/drapemap/pkg/points"
)

// =============================================================================
// LSDTopoTools file naming
// =============================================================================

// Input and output name suffixes, appended to the DEM prefix.
const (
	SuffixHillshade  = "_hs.bil"
	SuffixBasins     = "_AllBasins.bil"
	SuffixBasinInfo  = "_AllBasinsInfo.csv"
	SuffixBasinShape = "_AllBasins.geojson"
	SuffixMChi       = "_MChiSegmented.csv"

	SuffixBasinKeysFigure = "_basin_keys"
	SuffixMChiFigure      = "_MChi_map"
	SuffixMChiBlackFigure = "_MChi_map_black"
)

// Preset styling.
const (
	BasinColormap   = "jet"
	BasinAlpha      = 0.8
	MChiColormap    = "RdYlGn_r"
	MChiAlpha       = 1.0
	MChiColumnLabel = "m_chi"
	BasinFontSize   = 8.0
	BasinLabel      = "Basin ID"
	BasinLineWidth  = 0.8
)

// =============================================================================
// Preset Recipes
// =============================================================================

// Presets returns the recipes enabled in opts, in the order basin keys,
// m_chi, m_chi on black.
func Presets(opts Options) ([]*Recipe, error) {
	var out []*Recipe
	if opts.BasinMap {
		out = append(out, BasinsRecipe(opts))
	}
	if opts.MChiMap {
		out = append(out, MChiRecipe(opts, false))
	}
	if opts.MChiBlack {
		out = append(out, MChiRecipe(opts, true))
	}
	return out, nil
}

// BasinsRecipe drapes the basin raster over the hillshade and labels each
// basin with its key at the outlet. Basin rasters hold outlet junction
// numbers; the drape is remapped to basin keys through the basin info
// table so colours, colourbar and labels agree. Selected basin keys hide
// every other basin. Outlines are drawn when a basin GeoJSON sidecar
// exists.
func BasinsRecipe(opts Options) *Recipe {
	info := opts.Prefix + SuffixBasinInfo
	rec := baseRecipe(opts, SuffixBasinKeysFigure)
	rec.Figure.ColorbarLocation = layout.Bottom.String()
	rec.Drapes = []DrapeSpec{{
		Path:          opts.Prefix + SuffixBasins,
		Colormap:      BasinColormap,
		Alpha:         BasinAlpha,
		Discrete:      true,
		ShowColorbar:  true,
		ColorbarLabel: BasinLabel,
		Integral:      true,
		RemapTable: &TableRemap{
			Path:      info,
			OldColumn: points.ColumnOutletJunction,
			NewColumn: points.ColumnBasinKey,
		},
		KeepBasins: basinSelection(info, opts.BasinKeys),
	}}
	if shape := opts.Prefix + SuffixBasinShape; exists(filepath.Join(opts.Dir, shape)) {
		rec.Polygons = []PolygonSpec{{Path: shape, Edge: "black", LineWidth: BasinLineWidth}}
	}
	rec.Labels = []LabelSpec{{
		Path:     info,
		Column:   points.ColumnBasinKey,
		FontSize: BasinFontSize,
		Select:   keySelection(points.ColumnBasinKey, opts.BasinKeys),
	}}
	return rec
}

// MChiRecipe plots channel steepness points coloured by m_chi over the
// hillshade, with basin outlines when a basin GeoJSON sidecar exists. When
// black is set the base raster is drawn black.
func MChiRecipe(opts Options, black bool) *Recipe {
	suffix := SuffixMChiFigure
	if black {
		suffix = SuffixMChiBlackFigure
	}
	rec := baseRecipe(opts, suffix)
	rec.Base.Black = black
	rec.Figure.ColorbarLocation = layout.Right.String()

	if shape := opts.Prefix + SuffixBasinShape; exists(filepath.Join(opts.Dir, shape)) {
		edge := "black"
		if black {
			edge = "white"
		}
		rec.Polygons = []PolygonSpec{{Path: shape, Edge: edge, LineWidth: BasinLineWidth}}
	}

	sel := keySelection(points.ColumnBasinKey, opts.BasinKeys)
	sel = append(sel, keySelection(points.ColumnSourceKey, opts.SourceKeys)...)
	rec.Points = []PointSpec{{
		Path:          opts.Prefix + SuffixMChi,
		ColorColumn:   points.ColumnMChi,
		ColorRange:    opts.MChiRange(),
		Colormap:      MChiColormap,
		Alpha:         MChiAlpha,
		ShowColorbar:  true,
		ColorbarLabel: MChiColumnLabel,
		Select:        sel,
	}}
	return rec
}

func baseRecipe(opts Options, suffix string) *Recipe {
	return &Recipe{
		Dir: opts.Dir,
		Figure: FigureSpec{
			CoordType:        DefaultCoordType,
			ColorbarLocation: layout.None.String(),
		},
		Base: BaseSpec{Path: opts.Prefix + SuffixHillshade, Type: "Hillshade"},
		Output: OutputSpec{
			Path:   opts.Prefix + suffix + "." + opts.Format,
			Size:   opts.Size,
			Format: opts.Format,
			DPI:    opts.DPI,
		},
	}
}

func keySelection(column string, keys []int) []Selection {
	if len(keys) == 0 {
		return nil
	}
	vals := make([]float64, len(keys))
	for i, k := range keys {
		vals[i] = float64(k)
	}
	return []Selection{{Column: column, Values: vals}}
}

func basinSelection(info string, keys []int) *BasinSelection {
	if len(keys) == 0 {
		return nil
	}
	return &BasinSelection{Path: info, Keys: keys}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
