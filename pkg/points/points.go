// Package points reads tabular point data (channel nodes, basin outlets,
// knickpoints) and projects it into a raster's coordinate frame.
//
// Tables come from comma separated files with a header row. Every column
// is parsed as float64; cells that are empty or not numeric read as NaN.
// Coordinates live in "latitude" and "longitude" columns (WGS84 degrees,
// matched case-insensitively).
package points

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Column names with special meaning.
const (
	ColumnLatitude       = "latitude"
	ColumnLongitude      = "longitude"
	ColumnOutletJunction = "outlet_junction"
	ColumnBasinKey       = "basin_key"
	ColumnSourceKey      = "source_key"
	ColumnBasinJunction  = "basin_junction"
	ColumnElevation      = "elevation"
	ColumnMChi           = "m_chi"
)

// Table is an in-memory point table.
type Table struct {
	Name    string
	columns []string
	data    map[string][]float64
	n       int
}

// ReadCSV loads a table from path.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "open point data")
	}
	defer f.Close()
	return DecodeCSV(f, path)
}

// DecodeCSV reads a table from r.
func DecodeCSV(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "read header of %s", name)
	}
	t := &Table{Name: name, data: make(map[string][]float64, len(header))}
	for _, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := t.data[h]; dup {
			return nil, errors.Data("%s: duplicate column %q", name, h)
		}
		t.columns = append(t.columns, h)
		t.data[h] = nil
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeData, err, "read %s", name)
		}
		for i, col := range t.columns {
			v, perr := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if perr != nil {
				v = math.NaN()
			}
			t.data[col] = append(t.data[col], v)
		}
		t.n++
	}
	return t, nil
}

// NewTable builds a table from equal-length columns.
func NewTable(name string, columns map[string][]float64) (*Table, error) {
	t := &Table{Name: name, data: make(map[string][]float64, len(columns)), n: -1}
	for k, v := range columns {
		if t.n >= 0 && len(v) != t.n {
			return nil, errors.Data("%s: column %q has %d rows, want %d", name, k, len(v), t.n)
		}
		t.n = len(v)
		t.columns = append(t.columns, k)
		t.data[k] = slices.Clone(v)
	}
	slices.Sort(t.columns)
	t.n = max(t.n, 0)
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// Columns returns the column names in file order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// QueryColumn returns a copy of the named column, or nil when the column
// does not exist.
func (t *Table) QueryColumn(name string) []float64 {
	col, ok := t.lookup(name)
	if !ok {
		return nil
	}
	return slices.Clone(col)
}

func (t *Table) lookup(name string) ([]float64, bool) {
	if col, ok := t.data[name]; ok {
		return col, true
	}
	for _, c := range t.columns {
		if strings.EqualFold(c, name) {
			return t.data[c], true
		}
	}
	return nil, false
}

// Latitude returns the latitude column.
func (t *Table) Latitude() []float64 { return t.QueryColumn(ColumnLatitude) }

// Longitude returns the longitude column.
func (t *Table) Longitude() []float64 { return t.QueryColumn(ColumnLongitude) }

// Thin keeps rows whose column value is at least threshold and returns the
// number of rows removed.
func (t *Table) Thin(column string, threshold float64) (int, error) {
	col, ok := t.lookup(column)
	if !ok {
		return 0, errors.Configuration("thin: no column %q in %s", column, t.Name)
	}
	return t.keep(func(i int) bool { return col[i] >= threshold }), nil
}

// ThinSelection keeps rows whose column value is one of keys and returns
// the number of rows removed.
func (t *Table) ThinSelection(column string, keys []float64) (int, error) {
	col, ok := t.lookup(column)
	if !ok {
		return 0, errors.Configuration("thin: no column %q in %s", column, t.Name)
	}
	return t.keep(func(i int) bool { return slices.Contains(keys, col[i]) }), nil
}

func (t *Table) keep(pred func(i int) bool) int {
	rows := make([]int, 0, t.n)
	for i := 0; i < t.n; i++ {
		if pred(i) {
			rows = append(rows, i)
		}
	}
	for name, col := range t.data {
		out := make([]float64, len(rows))
		for j, i := range rows {
			out[j] = col[i]
		}
		t.data[name] = out
	}
	removed := t.n - len(rows)
	t.n = len(rows)
	return removed
}

// BasinIndexToJunction converts basin indices (row order of a basin table)
// into the outlet junction numbers used by basin rasters.
func BasinIndexToJunction(basins *Table, indices []int) ([]float64, error) {
	junctions, ok := basins.lookup(ColumnOutletJunction)
	if !ok {
		return nil, errors.Data("%s has no %s column", basins.Name, ColumnOutletJunction)
	}
	out := make([]float64, len(indices))
	for i, k := range indices {
		if k < 0 || k >= len(junctions) {
			return nil, errors.Configuration("basin index %d out of range [0, %d)", k, len(junctions))
		}
		out[i] = junctions[k]
	}
	return out, nil
}

// Summary describes the finite values of a column.
type Summary struct {
	N            int
	Min, Max     float64
	Mean, StdDev float64
	Median       float64
}

// Describe summarizes a column. ok is false when the column is missing or
// has no finite values.
func (t *Table) Describe(column string) (s Summary, ok bool) {
	col, found := t.lookup(column)
	if !found {
		return Summary{}, false
	}
	finite := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return Summary{}, false
	}
	slices.Sort(finite)
	s.N = len(finite)
	s.Min, s.Max = finite[0], finite[len(finite)-1]
	s.Mean, s.StdDev = stat.MeanStdDev(finite, nil)
	if s.N == 1 {
		s.StdDev = 0
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, finite, nil)
	return s, true
}
