// Package render rasterizes map figures.
//
// # Overview
//
// A [Scene] is a fully resolved description of one figure in pixel space:
// the canvas size, the map panel with its drawables, the axis ticks and
// any colourbar panels. [Rasterize] draws it onto an RGBA canvas with
// github.com/fogleman/gg; raster drapes are resampled and faded with
// github.com/disintegration/imaging before being composited.
//
//	scene := render.Scene{Width: 1800, Height: 1980, DPI: 300, ...}
//	img, err := render.Rasterize(scene)
//
// # Drawables
//
// The map panel holds an ordered list of [Drawable] values painted back to
// front:
//
//   - [Image]: a colourized raster covering the panel extent
//   - [Scatter]: circular point markers
//   - [Path]: polygon outlines and fills
//   - [Labels]: text in circular boxes
//
// Everything except images is clipped to the map panel. World coordinates
// map onto the panel with north up: the row of pixels at the top of the
// panel is the extent's YMax.
//
// # Fonts
//
// Text uses the Go fonts from [fonts.Face], sized in points and scaled by
// the scene DPI, so a figure saved at twice the DPI has the same physical
// text size.
//
// [fonts.Face]: github.com/matzehuels/drapemap/pkg/fonts.Face
package render
