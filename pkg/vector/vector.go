// Package vector reads polygon and label layers from GeoJSON.
//
// Features are returned in the file's own coordinates. GeoJSON is WGS84
// longitude/latitude, so callers project them into a raster's frame with
// [ProjectPolygons] and [ProjectLabels] before drawing.
package vector

import (
	"os"
	"strconv"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/points"
)

// Label is a labelled point.
type Label struct {
	Point orb.Point
	Value float64
}

// ReadFeatures loads a FeatureCollection, or a single Feature, from path.
func ReadFeatures(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeData, err, "read geojson")
	}
	return DecodeFeatures(data, path)
}

// DecodeFeatures parses GeoJSON data.
func DecodeFeatures(data []byte, name string) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && (fc.Type == "FeatureCollection" || len(fc.Features) > 0) {
		return fc, nil
	}
	f, ferr := geojson.UnmarshalFeature(data)
	if ferr != nil {
		if err == nil {
			err = ferr
		}
		return nil, errors.Wrap(errors.ErrCodeData, err, "parse geojson %s", name)
	}
	out := geojson.NewFeatureCollection()
	out.Append(f)
	return out, nil
}

// Polygons flattens the Polygon and MultiPolygon features of fc. Other
// geometry types are skipped.
func Polygons(fc *geojson.FeatureCollection) []orb.Polygon {
	var out []orb.Polygon
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			out = append(out, g)
		case orb.MultiPolygon:
			out = append(out, g...)
		}
	}
	return out
}

// ReadPolygons loads every polygon in a GeoJSON file.
func ReadPolygons(path string) ([]orb.Polygon, error) {
	fc, err := ReadFeatures(path)
	if err != nil {
		return nil, err
	}
	polys := Polygons(fc)
	if len(polys) == 0 {
		return nil, errors.Data("%s contains no polygons", path)
	}
	return polys, nil
}

// Labels returns the Point features of fc that carry a numeric property.
// Polygon features are labelled at their centroid.
func Labels(fc *geojson.FeatureCollection, property string) ([]Label, error) {
	var out []Label
	for i, f := range fc.Features {
		v, ok := number(f.Properties[property])
		if !ok {
			return nil, errors.Data("feature %d: property %q is missing or not numeric", i, property)
		}
		var pt orb.Point
		switch g := f.Geometry.(type) {
		case orb.Point:
			pt = g
		case orb.Polygon, orb.MultiPolygon:
			pt = g.Bound().Center()
		default:
			continue
		}
		out = append(out, Label{Point: pt, Value: v})
	}
	return out, nil
}

// ReadLabels loads labels from the named numeric property.
func ReadLabels(path, property string) ([]Label, error) {
	fc, err := ReadFeatures(path)
	if err != nil {
		return nil, err
	}
	return Labels(fc, property)
}

func number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func transformer(projectionID string) (proj.Transformer, error) {
	def, err := points.Proj4(projectionID)
	if err != nil {
		return nil, err
	}
	src, err := proj.Parse("+proj=longlat +datum=WGS84 +no_defs")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse geographic projection")
	}
	dst, err := proj.Parse(def)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse projection %s", def)
	}
	ct, err := src.NewTransform(dst)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "transform to %s", projectionID)
	}
	return ct, nil
}

// ProjectPolygons returns copies of polys projected from WGS84 into the
// frame identified by projectionID.
func ProjectPolygons(polys []orb.Polygon, projectionID string) ([]orb.Polygon, error) {
	ct, err := transformer(projectionID)
	if err != nil {
		return nil, err
	}
	out := make([]orb.Polygon, len(polys))
	for i, p := range polys {
		np := make(orb.Polygon, len(p))
		for j, r := range p {
			nr := make(orb.Ring, len(r))
			for k, pt := range r {
				x, y, err := ct(pt.X(), pt.Y())
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeData, err, "project polygon %d", i)
				}
				nr[k] = orb.Point{x, y}
			}
			np[j] = nr
		}
		out[i] = np
	}
	return out, nil
}

// ProjectLabels returns copies of labels projected from WGS84 into the
// frame identified by projectionID.
func ProjectLabels(labels []Label, projectionID string) ([]Label, error) {
	ct, err := transformer(projectionID)
	if err != nil {
		return nil, err
	}
	out := make([]Label, len(labels))
	for i, l := range labels {
		x, y, err := ct(l.Point.X(), l.Point.Y())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeData, err, "project label %d", i)
		}
		out[i] = Label{Point: orb.Point{x, y}, Value: l.Value}
	}
	return out, nil
}
