// Package figure composites co-registered rasters, point data, polygons and
// labels into a single map figure.
//
// A [MapFigure] owns the base raster layer, every drape layer added on top
// of it, and an ordered list of drawing surfaces. Surface 0 is always the
// [MainMap]; every drape or point set that asks for a colourbar appends one
// [Colorbar] surface that refers back to it explicitly.
//
// # Lifecycle
//
// A figure moves through three states:
//
//	Initialized  base layer set, ticks planned
//	Composing    AddDrape, AddPoints, AddPolygonOutlines, AddFilledPolygons,
//	             AddTextAnnotation append to the map (back to front)
//	Saved        Save negotiated the layout and wrote the output file
//
// Nothing is ever removed from a figure, except colourbar surfaces dropped
// at save time when the colourbar placement is none. Mutating calls on a
// saved figure return an INVALID_STATE error; read-only accessors keep
// working.
//
// # Example
//
//	fig, err := figure.New(hillshade, figure.Options{
//	    CoordType:        "UTM_km",
//	    ColorbarLocation: "right",
//	})
//	if err != nil {
//	    return err
//	}
//	if _, err := fig.AddDrape(basins, figure.DrapeOptions{
//	    Colormap:     "jet",
//	    Alpha:        0.4,
//	    Discrete:     true,
//	    NColours:     3,
//	    ShowColorbar: true,
//	    Remap:        remap,
//	    Integral:     true,
//	}); err != nil {
//	    return err
//	}
//	err = fig.Save("basins.png", figure.SaveOptions{Width: 6})
//
// A MapFigure is single-owner state and must not be shared between
// goroutines.
package figure
