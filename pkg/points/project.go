package points

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"

	"github.com/matzehuels/drapemap/pkg/errors"
)

// Proj4 returns the PROJ.4 definition for an EPSG identifier. WGS84
// geographic (4326) and the WGS84 UTM zones (326zz north, 327zz south) are
// supported.
func Proj4(projectionID string) (string, error) {
	code := strings.TrimSpace(projectionID)
	if i := strings.LastIndex(code, ":"); i >= 0 {
		if !strings.EqualFold(code[:i], "EPSG") {
			return "", errors.Configuration("unsupported projection authority in %q", projectionID)
		}
		code = code[i+1:]
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return "", errors.Configuration("invalid projection identifier %q", projectionID)
	}
	switch {
	case n == 4326:
		return "+proj=longlat +datum=WGS84 +no_defs", nil
	case n > 32600 && n <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", n-32600), nil
	case n > 32700 && n <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", n-32700), nil
	}
	return "", errors.Configuration("unsupported projection %q: only WGS84 and WGS84 UTM zones", projectionID)
}

// ProjectToFrame converts the latitude/longitude columns into the frame
// identified by projectionID.
func (t *Table) ProjectToFrame(projectionID string) (x, y []float64, err error) {
	lat, ok := t.lookup(ColumnLatitude)
	if !ok {
		return nil, nil, errors.Data("%s has no %s column", t.Name, ColumnLatitude)
	}
	lon, ok := t.lookup(ColumnLongitude)
	if !ok {
		return nil, nil, errors.Data("%s has no %s column", t.Name, ColumnLongitude)
	}
	def, err := Proj4(projectionID)
	if err != nil {
		return nil, nil, err
	}

	src, err := proj.Parse("+proj=longlat +datum=WGS84 +no_defs")
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "parse geographic projection")
	}
	dst, err := proj.Parse(def)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse projection %s", def)
	}
	ct, err := src.NewTransform(dst)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeConfiguration, err, "transform to %s", projectionID)
	}

	x = make([]float64, t.n)
	y = make([]float64, t.n)
	for i := 0; i < t.n; i++ {
		x[i], y[i], err = ct(lon[i], lat[i])
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeData, err, "project point %d (%v, %v)", i, lat[i], lon[i])
		}
	}
	return x, y, nil
}
