// Package source decodes raster files into [raster.Raster] values.
//
// Readers are selected by file extension:
//
//	.bil, .hdr   ENVI band-interleaved binary with a text header (LSDTopoTools output)
//	.asc         ESRI ASCII grid, projection from a sibling .prj
//	.tif, ...    any GDAL-readable raster, when built with -tags gdal
//
// Every failure is returned as a DATA_ERROR naming the file.
package source

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/raster"
)

var readers = map[string]raster.Reader{
	".bil": raster.ReaderFunc(ReadENVI),
	".hdr": raster.ReaderFunc(ReadENVI),
	".asc": raster.ReaderFunc(ReadASCII),
}

// register adds a reader for the given extensions. Called from init by
// optional backends.
func register(rd raster.Reader, exts ...string) {
	for _, e := range exts {
		readers[strings.ToLower(e)] = rd
	}
}

// Extensions lists the file extensions Open understands.
func Extensions() []string {
	out := make([]string, 0, len(readers))
	for e := range readers {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Open decodes path with the reader registered for its extension.
func Open(path string) (*raster.Raster, error) {
	ext := strings.ToLower(filepath.Ext(path))
	rd, ok := readers[ext]
	if !ok {
		return nil, errors.Data("unsupported raster format %q for %s (supported: %s)",
			ext, path, strings.Join(Extensions(), ", "))
	}
	r, err := rd.ReadRaster(path)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Default is the extension-dispatching reader.
var Default raster.Reader = raster.ReaderFunc(Open)

// UTMProjectionID returns the WGS84 UTM EPSG identifier for a zone:
// EPSG:326zz in the northern hemisphere, EPSG:327zz in the southern.
func UTMProjectionID(zone int, north bool) (string, error) {
	if zone < 1 || zone > 60 {
		return "", errors.Data("UTM zone %d out of range 1-60", zone)
	}
	base := 32700
	if north {
		base = 32600
	}
	return "EPSG:" + strconv.Itoa(base+zone), nil
}

// ParseProjectionID normalizes "EPSG:32611", "epsg:32611" or "32611".
// Anything else is a configuration error.
func ParseProjectionID(id string) (code int, err error) {
	s := strings.TrimSpace(id)
	if len(s) > 5 && strings.EqualFold(s[:5], "epsg:") {
		s = s[5:]
	}
	code, err = strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, errors.Configuration("invalid projection identifier %q", id)
	}
	return code, nil
}

var (
	wktAuthority = regexp.MustCompile(`AUTHORITY\["EPSG",\s*"?(\d+)"?\]\]*\s*$`)
	wktUTMZone   = regexp.MustCompile(`(?i)UTM[ _]zone[ _](\d{1,2})\s*([NS])`)
)

// projectionFromWKT extracts an EPSG identifier from a WKT string, first
// from the trailing (outermost) AUTHORITY clause, then from a "UTM zone NN[N|S]"
// name. It returns "" when neither is present.
func projectionFromWKT(wkt string) string {
	wkt = strings.TrimSpace(wkt)
	if m := wktAuthority.FindStringSubmatch(wkt); m != nil {
		return "EPSG:" + m[1]
	}
	if m := wktUTMZone.FindStringSubmatch(wkt); m != nil {
		zone, _ := strconv.Atoi(m[1])
		if id, err := UTMProjectionID(zone, strings.EqualFold(m[2], "N")); err == nil {
			return id
		}
	}
	return ""
}

// readPRJ returns the projection of a sidecar .prj file, or "" when the
// file is absent.
func readPRJ(path string) (string, error) {
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	b, err := os.ReadFile(prj)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeData, err, "read %s", prj)
	}
	return projectionFromWKT(string(b)), nil
}
