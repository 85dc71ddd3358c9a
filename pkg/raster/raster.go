// Package raster holds decoded raster grids and the layers drawn from them.
//
// A [Raster] is what a raster source returns: a row-major grid of float64
// cells, its projected bounding [Extent] and a projection identifier. Row 0
// is the northernmost row. NaN is the no-data sentinel throughout; masking
// writes NaN and colour lookup renders NaN transparent.
//
// A [Layer] wraps a Raster with the styling needed to drape it on a map:
// colormap, alpha, colour limits and an optional value [Remap]. Layers are
// built with [NewLayer] and mutated only through [Layer.ReplaceValues] and
// [Layer.MaskRange] before they are handed to a figure.
package raster

import (
	"math"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Grid is a row-major 2D array of cell values.
type Grid struct {
	Rows, Cols int
	Data       []float64
}

// NewGrid allocates a zero-filled grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 { return g.Data[row*g.Cols+col] }

// Set writes the value at (row, col).
func (g *Grid) Set(row, col int, v float64) { g.Data[row*g.Cols+col] = v }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{Rows: g.Rows, Cols: g.Cols, Data: make([]float64, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// Validate reports a data error when the grid is empty or its backing slice
// does not match its dimensions.
func (g *Grid) Validate() error {
	if g == nil {
		return errors.Data("grid is nil")
	}
	if g.Rows <= 0 || g.Cols <= 0 {
		return errors.Data("grid has non-positive dimensions %dx%d", g.Rows, g.Cols)
	}
	if len(g.Data) != g.Rows*g.Cols {
		return errors.Data("grid data has %d cells, want %dx%d=%d", len(g.Data), g.Rows, g.Cols, g.Rows*g.Cols)
	}
	return nil
}

// Range returns the smallest and largest finite values. ok is false when
// every cell is NaN.
func (g *Grid) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// CountValid returns the number of cells that are not NaN.
func (g *Grid) CountValid() int {
	n := 0
	for _, v := range g.Data {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Extent is a projected bounding box.
type Extent struct {
	XMin, XMax, YMin, YMax float64
}

// Width returns XMax - XMin.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns YMax - YMin.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// AspectRatio is width over height.
func (e Extent) AspectRatio() float64 { return e.Width() / e.Height() }

// Validate reports a data error for non-finite or empty extents.
func (e Extent) Validate() error {
	for _, v := range []float64{e.XMin, e.XMax, e.YMin, e.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Data("extent %v is not finite", e)
		}
	}
	if e.XMax <= e.XMin || e.YMax <= e.YMin {
		return errors.Data("extent %v is empty", e)
	}
	return nil
}

// Contains reports whether (x, y) lies inside the closed box.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax
}

// Raster is a decoded grid with its georeferencing.
type Raster struct {
	// Name is the source path or a caller-chosen label.
	Name string
	Grid *Grid
	// Extent covers the outer cell edges.
	Extent Extent
	// ProjectionID is an EPSG identifier such as "EPSG:32611", or "" when
	// the source carries none.
	ProjectionID string
}

// Validate checks the grid and extent.
func (r *Raster) Validate() error {
	if r == nil {
		return errors.Data("raster is nil")
	}
	if err := r.Grid.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "raster %s", r.Name)
	}
	if err := r.Extent.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "raster %s", r.Name)
	}
	return nil
}

// CellSize returns the x and y cell dimensions in projected units.
func (r *Raster) CellSize() (dx, dy float64) {
	return r.Extent.Width() / float64(r.Grid.Cols), r.Extent.Height() / float64(r.Grid.Rows)
}

// SameFrame reports whether o shares r's extent and grid dimensions exactly.
func (r *Raster) SameFrame(o *Raster) bool {
	return r.Extent == o.Extent && r.Grid.Rows == o.Grid.Rows && r.Grid.Cols == o.Grid.Cols
}

// Reader decodes raster files. Implementations return data errors for
// unreadable or malformed input.
type Reader interface {
	ReadRaster(path string) (*Raster, error)
}

// ReaderFunc adapts a function to [Reader].
type ReaderFunc func(path string) (*Raster, error)

// ReadRaster calls f.
func (f ReaderFunc) ReadRaster(path string) (*Raster, error) { return f(path) }
