// Package sink encodes rendered figures and writes them to disk.
//
// # Formats
//
//   - png, jpg/jpeg, gif, tif/tiff, bmp: raster encoders from
//     github.com/disintegration/imaging (TIFF via golang.org/x/image)
//   - pdf: a single page sized to the figure in inches, with the raster
//     embedded at full resolution via github.com/jung-kurt/gofpdf
//
// # Atomic writes
//
// [Write] encodes into a uniquely named temporary file in the destination
// directory and renames it into place only after the encoder and the file
// close both succeed. On any failure the temporary file is removed, so a
// failed figure never leaves a partial output behind:
//
//	err := sink.Write("basins.png", img,
//	    sink.WithFormat("png"),
//	    sink.WithPhysicalSize(6, 6.6),
//	)
package sink
