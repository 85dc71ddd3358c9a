package source

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/raster"
)

// asciiHeader is the ESRI ASCII grid header.
type asciiHeader struct {
	ncols, nrows int
	xll, yll     float64
	centered     bool
	cellSize     float64
	noData       float64
	hasNoData    bool
}

// ReadASCII decodes an ESRI ASCII grid. The projection comes from a sibling
// .prj file when one exists.
func ReadASCII(path string) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "open %s", path)
	}
	defer f.Close()

	r, err := DecodeASCII(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "decode %s", path)
	}
	r.Name = path
	if r.ProjectionID, err = readPRJ(path); err != nil {
		return nil, err
	}
	return r, nil
}

// DecodeASCII parses an ESRI ASCII grid from rd.
func DecodeASCII(rd io.Reader) (*raster.Raster, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	h := asciiHeader{}
	var first string
	seen := map[string]bool{}
	for sc.Scan() {
		key := strings.ToLower(sc.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			// header ended; this is the first cell value
			first = sc.Text()
			break
		}
		if !sc.Scan() {
			return nil, errors.Data("header key %q has no value", key)
		}
		val := sc.Text()
		if err := h.set(key, val); err != nil {
			return nil, err
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if h.ncols <= 0 || h.nrows <= 0 || h.cellSize <= 0 {
		return nil, errors.Data("header requires positive ncols, nrows and cellsize")
	}
	if !(seen["xllcorner"] || seen["xllcenter"]) || !(seen["yllcorner"] || seen["yllcenter"]) {
		return nil, errors.Data("header is missing the lower-left corner")
	}

	g := raster.NewGrid(h.nrows, h.ncols)
	n := 0
	put := func(tok string) error {
		if n >= len(g.Data) {
			return errors.Data("more than %d cell values", len(g.Data))
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return errors.Data("cell %d: %v", n, err)
		}
		if h.hasNoData && v == h.noData {
			v = math.NaN()
		}
		g.Data[n] = v
		n++
		return nil
	}
	if first != "" {
		if err := put(first); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		if err := put(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if n != len(g.Data) {
		return nil, errors.Data("got %d cell values, want %d", n, len(g.Data))
	}

	xmin, ymin := h.xll, h.yll
	if h.centered {
		xmin -= h.cellSize / 2
		ymin -= h.cellSize / 2
	}
	return &raster.Raster{
		Grid: g,
		Extent: raster.Extent{
			XMin: xmin,
			XMax: xmin + float64(h.ncols)*h.cellSize,
			YMin: ymin,
			YMax: ymin + float64(h.nrows)*h.cellSize,
		},
	}, nil
}

func (h *asciiHeader) set(key, val string) error {
	var err error
	switch key {
	case "ncols":
		h.ncols, err = strconv.Atoi(val)
	case "nrows":
		h.nrows, err = strconv.Atoi(val)
	case "xllcorner", "xllcenter":
		h.xll, err = strconv.ParseFloat(val, 64)
		h.centered = key == "xllcenter"
	case "yllcorner", "yllcenter":
		h.yll, err = strconv.ParseFloat(val, 64)
	case "cellsize":
		h.cellSize, err = strconv.ParseFloat(val, 64)
	case "nodata_value":
		h.noData, err = strconv.ParseFloat(val, 64)
		h.hasNoData = true
	default:
		return errors.Data("unknown header key %q", key)
	}
	if err != nil {
		return errors.Data("header %s: %v", key, err)
	}
	return nil
}

// EncodeASCII writes r as an ESRI ASCII grid with NaN as -9999.
func EncodeASCII(w io.Writer, r *raster.Raster) error {
	dx, dy := r.CellSize()
	if math.Abs(dx-dy) > 1e-9*math.Max(dx, dy) {
		return errors.Data("ESRI ASCII grids need square cells, got %vx%v", dx, dy)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\nnrows %d\nxllcorner %s\nyllcorner %s\ncellsize %s\nNODATA_value -9999\n",
		r.Grid.Cols, r.Grid.Rows, fmtF(r.Extent.XMin), fmtF(r.Extent.YMin), fmtF(dx))
	for row := 0; row < r.Grid.Rows; row++ {
		for col := 0; col < r.Grid.Cols; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			v := r.Grid.At(row, col)
			if math.IsNaN(v) {
				bw.WriteString("-9999")
			} else {
				bw.WriteString(fmtF(v))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
