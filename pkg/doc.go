// Package pkg provides the core libraries for drapemap figure composition.
//
// # Overview
//
// drapemap draws topographic analysis outputs as publication figures: a
// shaded relief base raster, semi-transparent drapes with their own
// colormaps, channel point data coloured and sized by column values,
// basin outlines and labels, coordinate ticks and colourbars. The pkg
// directory is organized into four main areas:
//
//  1. Leaf libraries: [raster], [colormap], [ticks], [layout], [fonts]
//  2. Drawing: [render] (scene rasterization) and [sink] (encoding and
//     atomic file output)
//  3. Composition: [figure] (the MapFigure compositor) fed by the
//     [points] and [vector] data sources
//  4. Orchestration: [pipeline] (TOML recipes and LSDTopoTools presets)
//
// # Architecture
//
// The typical data flow through drapemap:
//
//	Raster files (ENVI .bil, ESRI .asc, GDAL)
//	         ↓
//	    [raster/source] package (decode grid, extent, projection)
//	         ↓
//	    [figure] package (base layer, drapes, points, polygons, labels)
//	         ↓
//	    [layout] + [ticks] packages (figure size, tick labels)
//	         ↓
//	    [render] + [sink] packages (rasterize, write PNG/JPEG/TIFF/PDF)
//
// # Quick Start
//
// Drape a basin raster over a hillshade and save it:
//
//	import (
//	    "github.com/matzehuels/drapemap/pkg/figure"
//	    "github.com/matzehuels/drapemap/pkg/raster"
//	    "github.com/matzehuels/drapemap/pkg/raster/source"
//	)
//
//	base, _ := raster.LoadLayer(source.Default, "dem_hs.bil", "gray")
//	fig, _ := figure.New(base, figure.Options{ColorbarLocation: "bottom"})
//	basins, _ := source.Open("dem_AllBasins.bil")
//	fig.AddDrape(basins, figure.DrapeOptions{Colormap: "jet", Discrete: true, ShowColorbar: true})
//	fig.Save("basins.png", figure.SaveOptions{Width: 6})
//
// # Error Handling
//
// Every package returns [errors.Error] values carrying one of the codes
// DATA_ERROR, CONFIGURATION_ERROR, SHAPE_MISMATCH or INVALID_STATE.
package pkg
