package figure

import (
	"image/color"
	"math"
	"strconv"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/raster"
)

// Annotation is a labelled point in the base raster's frame.
type Annotation struct {
	X, Y  float64
	Value float64
}

// LabelOptions styles text annotations.
type LabelOptions struct {
	Color    color.Color
	Border   color.Color
	FontSize float64
	Alpha    float64
}

// SetDefaults fills zero-valued fields.
func (o *LabelOptions) SetDefaults() {
	if o.Color == nil {
		o.Color = color.Black
	}
	if o.Border == nil {
		o.Border = color.Black
	}
	if o.FontSize == 0 {
		o.FontSize = 8
	}
	if o.Alpha == 0 {
		o.Alpha = 1
	}
}

// Annotations pairs projected point coordinates with a value column.
func Annotations(src PointSource, projectionID, column string) ([]Annotation, error) {
	x, y, err := src.ProjectToFrame(projectionID)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeData, err, "project labels to %s", projectionID)
		}
		return nil, err
	}
	values := src.QueryColumn(column)
	if len(values) == 0 {
		return nil, errors.Data("label column %q not found", column)
	}
	if len(values) != len(x) || len(y) != len(x) {
		return nil, errors.Data("label column %q has %d values for %d points", column, len(values), len(x))
	}
	out := make([]Annotation, len(x))
	for i := range out {
		out[i] = Annotation{X: x[i], Y: y[i], Value: values[i]}
	}
	return out, nil
}

// AddTextAnnotation labels each annotation with its value. When remap is
// non-empty each value runs through the same ordered substitution used by
// ReplaceValues and annotations no substitution matches are dropped, so
// labels agree with a drape remapped by the same table. It returns the
// label texts drawn.
func (f *MapFigure) AddTextAnnotation(labels []Annotation, remap raster.Remap, opts LabelOptions) ([]string, error) {
	if err := f.checkMutable("add text annotation"); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	t := &TextArtist{
		Color:    opts.Color,
		Border:   opts.Border,
		FontSize: opts.FontSize,
		Alpha:    opts.Alpha,
	}
	for _, a := range labels {
		v := a.Value
		if remap.Len() > 0 {
			var ok bool
			if v, ok = remap.Apply(v); !ok {
				continue
			}
		}
		t.X = append(t.X, a.X)
		t.Y = append(t.Y, a.Y)
		t.Text = append(t.Text, labelText(v))
	}

	m := f.Map()
	m.Artists = append(m.Artists, t)
	f.logger.Debug("annotations added", "given", len(labels), "drawn", len(t.Text))
	return t.Text, f.compose()
}

func labelText(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
