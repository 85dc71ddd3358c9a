package source

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/raster"
)

// enviHeader holds the header fields drapemap reads.
type enviHeader struct {
	samples, lines, bands int
	offset                int64
	dataType              int
	order                 binary.ByteOrder
	interleave            string
	noData                *float64

	// map info
	refX, refY     float64 // reference pixel, 1-based
	ulx, uly       float64
	dx, dy         float64
	zone           int
	north          bool
	hasMapInfo     bool
	coordSysString string
}

// ENVI data type codes.
var enviSizes = map[int]int{
	1:  1, // uint8
	2:  2, // int16
	3:  4, // int32
	4:  4, // float32
	5:  8, // float64
	12: 2, // uint16
	13: 4, // uint32
}

// ReadENVI decodes an ENVI raster. path may name either the .bil data file
// or its .hdr header; the other is found by swapping the extension. Only
// the first band is read.
func ReadENVI(path string) (*raster.Raster, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	hdrPath, dataPath := base+".hdr", base+".bil"
	if !strings.EqualFold(filepath.Ext(path), ".hdr") {
		dataPath = path
	}

	hf, err := os.Open(hdrPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "open ENVI header %s", hdrPath)
	}
	defer hf.Close()
	h, err := parseENVIHeader(hf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "parse ENVI header %s", hdrPath)
	}

	df, err := os.Open(dataPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "open ENVI data %s", dataPath)
	}
	defer df.Close()
	grid, err := decodeENVI(df, h)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "decode ENVI data %s", dataPath)
	}

	r := &raster.Raster{Name: dataPath, Grid: grid}
	if !h.hasMapInfo {
		return nil, errors.Data("ENVI header %s has no map info", hdrPath)
	}
	r.Extent.XMin = h.ulx - (h.refX-1)*h.dx
	r.Extent.YMax = h.uly + (h.refY-1)*h.dy
	r.Extent.XMax = r.Extent.XMin + float64(h.samples)*h.dx
	r.Extent.YMin = r.Extent.YMax - float64(h.lines)*h.dy

	switch {
	case h.coordSysString != "":
		r.ProjectionID = projectionFromWKT(h.coordSysString)
	case h.zone > 0:
		if r.ProjectionID, err = UTMProjectionID(h.zone, h.north); err != nil {
			return nil, errors.Wrap(errors.ErrCodeData, err, "ENVI header %s", hdrPath)
		}
	}
	return r, nil
}

func parseENVIHeader(rd io.Reader) (*enviHeader, error) {
	h := &enviHeader{bands: 1, order: binary.LittleEndian, interleave: "bil", refX: 1, refY: 1}

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	first := true
	var pending strings.Builder
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if line != "ENVI" {
				return nil, errors.Data("missing ENVI magic, got %q", line)
			}
			continue
		}
		// braced values may span lines
		if pending.Len() > 0 || (strings.Contains(line, "{") && !strings.Contains(line, "}")) {
			pending.WriteString(line)
			pending.WriteByte(' ')
			if !strings.Contains(line, "}") {
				continue
			}
			line = pending.String()
			pending.Reset()
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if err := h.set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val)); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if h.samples <= 0 || h.lines <= 0 {
		return nil, errors.Data("header is missing samples/lines")
	}
	if _, ok := enviSizes[h.dataType]; !ok {
		return nil, errors.Data("unsupported ENVI data type %d", h.dataType)
	}
	if h.interleave != "bil" && h.interleave != "bsq" && h.bands > 1 {
		return nil, errors.Data("unsupported interleave %q", h.interleave)
	}
	return h, nil
}

func (h *enviHeader) set(key, val string) error {
	var err error
	switch key {
	case "samples":
		h.samples, err = strconv.Atoi(val)
	case "lines":
		h.lines, err = strconv.Atoi(val)
	case "bands":
		h.bands, err = strconv.Atoi(val)
	case "header offset":
		h.offset, err = strconv.ParseInt(val, 10, 64)
	case "data type":
		h.dataType, err = strconv.Atoi(val)
	case "byte order":
		if val == "1" {
			h.order = binary.BigEndian
		}
	case "interleave":
		h.interleave = strings.ToLower(val)
	case "data ignore value":
		var v float64
		if v, err = strconv.ParseFloat(val, 64); err == nil {
			h.noData = &v
		}
	case "coordinate system string":
		h.coordSysString = strings.Trim(val, "{} ")
	case "map info":
		err = h.setMapInfo(val)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "header field %q", key)
	}
	return nil
}

// setMapInfo parses "{UTM, 1, 1, ulx, uly, dx, dy, zone, North, WGS-84, units=Meters}".
func (h *enviHeader) setMapInfo(val string) error {
	parts := strings.Split(strings.Trim(val, "{} "), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 7 {
		return errors.Data("map info has %d fields, want at least 7", len(parts))
	}
	nums := make([]float64, 6)
	for i := range nums {
		v, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return err
		}
		nums[i] = v
	}
	h.refX, h.refY, h.ulx, h.uly, h.dx, h.dy = nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]
	if h.dx <= 0 || h.dy <= 0 {
		return errors.Data("map info pixel size must be positive")
	}
	if strings.EqualFold(parts[0], "UTM") && len(parts) >= 9 {
		zone, err := strconv.Atoi(parts[7])
		if err != nil {
			return err
		}
		h.zone = zone
		h.north = strings.EqualFold(parts[8], "North")
	}
	h.hasMapInfo = true
	return nil
}

// decodeENVI reads the first band into a grid, converting the no-data value
// to NaN.
func decodeENVI(rd io.ReadSeeker, h *enviHeader) (*raster.Grid, error) {
	if _, err := rd.Seek(h.offset, io.SeekStart); err != nil {
		return nil, err
	}
	size := enviSizes[h.dataType]
	g := raster.NewGrid(h.lines, h.samples)
	row := make([]byte, h.samples*size)
	br := bufio.NewReader(rd)

	for r := 0; r < h.lines; r++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, errors.Wrap(errors.ErrCodeData, err, "row %d", r)
		}
		for c := 0; c < h.samples; c++ {
			v := decodeSample(row[c*size:(c+1)*size], h.dataType, h.order)
			if h.noData != nil && v == *h.noData {
				v = math.NaN()
			}
			g.Set(r, c, v)
		}
		// skip the other bands of this line in BIL layout
		if h.interleave == "bil" && h.bands > 1 {
			if _, err := br.Discard((h.bands - 1) * len(row)); err != nil {
				return nil, errors.Wrap(errors.ErrCodeData, err, "row %d", r)
			}
		}
	}
	return g, nil
}

func decodeSample(b []byte, dataType int, order binary.ByteOrder) float64 {
	switch dataType {
	case 1:
		return float64(b[0])
	case 2:
		return float64(int16(order.Uint16(b)))
	case 3:
		return float64(int32(order.Uint32(b)))
	case 4:
		return float64(math.Float32frombits(order.Uint32(b)))
	case 5:
		return math.Float64frombits(order.Uint64(b))
	case 12:
		return float64(order.Uint16(b))
	case 13:
		return float64(order.Uint32(b))
	}
	return math.NaN()
}

// WriteENVI writes r as a single-band float32 BIL file plus header. It is
// the format LSDTopoTools emits, used to stage fixtures and derived rasters.
func WriteENVI(path string, r *raster.Raster) error {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	dx, dy := r.CellSize()

	var hdr strings.Builder
	hdr.WriteString("ENVI\n")
	hdr.WriteString("description = {" + filepath.Base(base) + "}\n")
	hdr.WriteString("samples = " + strconv.Itoa(r.Grid.Cols) + "\n")
	hdr.WriteString("lines = " + strconv.Itoa(r.Grid.Rows) + "\n")
	hdr.WriteString("bands = 1\nheader offset = 0\nfile type = ENVI Standard\n")
	hdr.WriteString("data type = 4\ninterleave = bil\nbyte order = 0\n")
	mapInfo := []string{"UTM", "1", "1", fmtF(r.Extent.XMin), fmtF(r.Extent.YMax), fmtF(dx), fmtF(dy)}
	if code, err := ParseProjectionID(r.ProjectionID); err == nil && code/100 >= 326 && code/100 <= 327 {
		hemi := "North"
		if code/100 == 327 {
			hemi = "South"
		}
		mapInfo = append(mapInfo, strconv.Itoa(code%100), hemi)
	} else {
		mapInfo[0] = "Arbitrary"
	}
	mapInfo = append(mapInfo, "WGS-84", "units=Meters")
	hdr.WriteString("map info = {" + strings.Join(mapInfo, ", ") + "}\n")
	hdr.WriteString("data ignore value = -9999\n")
	if err := os.WriteFile(base+".hdr", []byte(hdr.String()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "write %s.hdr", base)
	}

	buf := make([]byte, 4*len(r.Grid.Data))
	for i, v := range r.Grid.Data {
		if math.IsNaN(v) {
			v = -9999
		}
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	if err := os.WriteFile(base+".bil", buf, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeData, err, "write %s.bil", base)
	}
	return nil
}

func fmtF(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
