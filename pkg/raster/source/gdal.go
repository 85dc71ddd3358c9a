//go:build gdal

package source

import (
	"math"
	"sync"

	gdal "github.com/airbusgeo/godal"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/raster"
)

var registerDrivers sync.Once

func init() {
	register(raster.ReaderFunc(ReadGDAL), ".tif", ".tiff", ".img", ".vrt", ".flt", ".nc")
}

// ReadGDAL decodes the first band of any GDAL-readable raster.
func ReadGDAL(path string) (*raster.Raster, error) {
	registerDrivers.Do(gdal.RegisterAll)

	ds, err := gdal.Open(path, gdal.RasterOnly())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "open %s", path)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, errors.Data("%s has no raster bands", path)
	}
	band := bands[0]
	st := band.Structure()
	x, y := st.SizeX, st.SizeY

	buf := make([]float64, x*y)
	if err := band.IO(gdal.IORead, 0, 0, buf, x, y); err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "read band 1 of %s", path)
	}
	if nd, ok := band.NoData(); ok {
		for i, v := range buf {
			if v == nd {
				buf[i] = math.NaN()
			}
		}
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "geotransform of %s", path)
	}
	if gt[2] != 0 || gt[4] != 0 {
		return nil, errors.Data("%s is rotated; only north-up rasters are supported", path)
	}

	r := &raster.Raster{
		Name: path,
		Grid: &raster.Grid{Rows: y, Cols: x, Data: buf},
		Extent: raster.Extent{
			XMin: gt[0],
			XMax: gt[0] + float64(x)*gt[1],
			YMax: gt[3],
			YMin: gt[3] + float64(y)*gt[5],
		},
	}
	if sr := ds.SpatialRef(); sr != nil {
		defer sr.Close()
		if code := sr.AuthorityCode(""); code != "" {
			r.ProjectionID = "EPSG:" + code
		} else if wkt, err := sr.WKT(); err == nil {
			r.ProjectionID = projectionFromWKT(wkt)
		}
	}
	return r, nil
}
