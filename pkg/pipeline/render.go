package pipeline

import (
	"image/color"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/drapemap/pkg/colormap"
	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/figure"
	"github.com/matzehuels/drapemap/pkg/points"
	"github.com/matzehuels/drapemap/pkg/raster"
	"github.com/matzehuels/drapemap/pkg/vector"
)

// =============================================================================
// Compose
// =============================================================================

// Compose loads every input named by rec and adds it to a new figure, back
// to front: base, drapes, polygons, points, labels.
func (r *Runner) Compose(rec *Recipe) (*figure.MapFigure, Stats, error) {
	var stats Stats
	if err := rec.Validate(); err != nil {
		return nil, stats, err
	}

	base, err := r.loadBase(rec)
	if err != nil {
		return nil, stats, err
	}
	fopts := rec.Figure.options()
	fopts.Backend = &r.Backend
	fopts.Logger = r.Logger
	fig, err := figure.New(base, fopts)
	if err != nil {
		return nil, stats, err
	}

	for _, d := range rec.Drapes {
		if err := r.addDrape(fig, rec, d); err != nil {
			return nil, stats, err
		}
		stats.Drapes++
	}
	for _, p := range rec.Polygons {
		n, err := r.addPolygons(fig, rec, p)
		if err != nil {
			return nil, stats, err
		}
		stats.Polygons += n
	}
	for _, p := range rec.Points {
		n, err := r.addPoints(fig, rec, p)
		if err != nil {
			return nil, stats, err
		}
		stats.PointSets++
		stats.Points += n
	}
	for _, l := range rec.Labels {
		n, err := r.addLabels(fig, rec, l)
		if err != nil {
			return nil, stats, err
		}
		stats.Labels += n
	}
	stats.Colorbars = len(fig.Colorbars())
	return fig, stats, nil
}

func (r *Runner) loadBase(rec *Recipe) (*raster.Layer, error) {
	base, err := raster.LoadLayer(r.Reader, rec.resolve(rec.Base.Path), rec.Base.Colormap)
	if err != nil {
		return nil, err
	}
	if rec.Base.Type != "" {
		if err := base.SetRasterType(rec.Base.Type); err != nil {
			return nil, err
		}
	}
	if rec.Base.Black {
		zero := []colormap.Breakpoint{{X: 0}, {X: 1}}
		base.SetColormap(colormap.NewSegmented("black", zero, zero, zero))
	}
	r.Logger.Debug("loaded base raster", "path", rec.Base.Path, "rows", base.Grid.Rows, "cols", base.Grid.Cols,
		"projection", base.ProjectionID)
	return base, nil
}

func (r *Runner) addDrape(fig *figure.MapFigure, rec *Recipe, d DrapeSpec) error {
	ras, err := r.Reader.ReadRaster(rec.resolve(d.Path))
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeData, err, "read raster %s", d.Path)
		}
		return err
	}
	remap, err := r.remap(rec, d.OldValues, d.NewValues, d.RemapTable)
	if err != nil {
		return err
	}
	nColours := d.NColours
	if d.Discrete && nColours == 0 && remap.Len() > 0 {
		// one bin per remapped class
		nColours = remap.Len()
	}
	masks := make([]raster.Mask, len(d.Mask))
	for i, m := range d.Mask {
		mode, err := raster.ParseMaskMode(m.Mode)
		if err != nil {
			return err
		}
		masks[i] = raster.Mask{Mode: mode, Low: m.Low, High: m.High}
	}
	keep, err := r.keepBasins(rec, d.KeepBasins)
	if err != nil {
		return err
	}
	_, err = fig.AddDrape(ras, figure.DrapeOptions{
		Colormap:      d.Colormap,
		Alpha:         d.Alpha,
		Discrete:      d.Discrete,
		NColours:      nColours,
		ShowColorbar:  d.ShowColorbar,
		ColorbarLabel: d.ColorbarLabel,
		Integral:      d.Integral,
		Keep:          keep,
		Remap:         remap,
		Masks:         masks,
		Clim:          d.Clim,
	})
	return err
}

// keepBasins converts basin keys to the outlet junctions stored in basin
// rasters.
func (r *Runner) keepBasins(rec *Recipe, sel *BasinSelection) ([]float64, error) {
	if sel == nil || len(sel.Keys) == 0 {
		return nil, nil
	}
	t, err := points.ReadCSV(rec.resolve(sel.Path))
	if err != nil {
		return nil, err
	}
	junctions, err := points.BasinIndexToJunction(t, sel.Keys)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("keeping basins", "keys", sel.Keys, "junctions", junctions)
	return junctions, nil
}

func (r *Runner) remap(rec *Recipe, oldValues, newValues []float64, table *TableRemap) (raster.Remap, error) {
	if table == nil {
		return raster.NewRemap(oldValues, newValues)
	}
	t, err := points.ReadCSV(rec.resolve(table.Path))
	if err != nil {
		return nil, err
	}
	oldCol, newCol := t.QueryColumn(table.OldColumn), t.QueryColumn(table.NewColumn)
	if len(oldCol) == 0 || len(newCol) == 0 {
		return nil, errors.Data("%s: remap columns %q and %q are required", table.Path, table.OldColumn, table.NewColumn)
	}
	return raster.NewRemap(oldCol, newCol)
}

func (r *Runner) loadTable(rec *Recipe, path string, sel []Selection) (*points.Table, error) {
	t, err := points.ReadCSV(rec.resolve(path))
	if err != nil {
		return nil, err
	}
	for _, s := range sel {
		if len(s.Values) == 0 {
			continue
		}
		removed, err := t.ThinSelection(s.Column, s.Values)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("selected rows", "path", path, "column", s.Column, "removed", removed, "kept", t.Len())
	}
	return t, nil
}

func (r *Runner) addPoints(fig *figure.MapFigure, rec *Recipe, p PointSpec) (int, error) {
	t, err := r.loadTable(rec, p.Path, p.Select)
	if err != nil {
		return 0, err
	}
	if p.ThresholdColumn != "" {
		if _, err := t.Thin(p.ThresholdColumn, p.Threshold); err != nil {
			return 0, err
		}
	}
	if s, ok := t.Describe(p.ColorColumn); ok {
		r.Logger.Debug("point colour column", "column", p.ColorColumn, "n", s.N,
			"min", s.Min, "median", s.Median, "max", s.Max, "std", s.StdDev)
	}
	_, err = fig.AddPoints(t, figure.PointOptions{
		ColorColumn:   p.ColorColumn,
		ScaleColumn:   p.ScaleColumn,
		ColorLog:      p.ColorLog,
		ScalePoints:   p.ScalePoints,
		ScaleLog:      p.ScaleLog,
		MinSize:       p.MinSize,
		MaxSize:       p.MaxSize,
		ManualSize:    p.ManualSize,
		ColorRange:    p.ColorRange,
		Colormap:      p.Colormap,
		Alpha:         p.Alpha,
		ShowColorbar:  p.ShowColorbar,
		ColorbarLabel: p.ColorbarLabel,
	})
	if err != nil {
		return 0, err
	}
	return t.Len(), nil
}

func (r *Runner) addPolygons(fig *figure.MapFigure, rec *Recipe, p PolygonSpec) (int, error) {
	polys, err := vector.ReadPolygons(rec.resolve(p.Path))
	if err != nil {
		return 0, err
	}
	polys, err = vector.ProjectPolygons(polys, fig.Base().ProjectionID)
	if err != nil {
		return 0, err
	}
	edge, err := parseColour(p.Edge)
	if err != nil {
		return 0, err
	}
	face, err := parseColour(p.Face)
	if err != nil {
		return 0, err
	}
	opts := figure.PolygonOptions{Edge: edge, Face: face, LineWidth: p.LineWidth, Alpha: p.Alpha}
	if p.Fill {
		err = fig.AddFilledPolygons(polys, opts)
	} else {
		err = fig.AddPolygonOutlines(polys, opts)
	}
	return len(polys), err
}

func (r *Runner) addLabels(fig *figure.MapFigure, rec *Recipe, l LabelSpec) (int, error) {
	remap, err := r.remap(rec, l.OldValues, l.NewValues, l.RemapTable)
	if err != nil {
		return 0, err
	}

	var anns []figure.Annotation
	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".geojson", ".json":
		labels, err := vector.ReadLabels(rec.resolve(l.Path), l.Column)
		if err != nil {
			return 0, err
		}
		if labels, err = vector.ProjectLabels(labels, fig.Base().ProjectionID); err != nil {
			return 0, err
		}
		for _, lb := range labels {
			anns = append(anns, figure.Annotation{X: lb.Point.X(), Y: lb.Point.Y(), Value: lb.Value})
		}
	default:
		t, err := r.loadTable(rec, l.Path, l.Select)
		if err != nil {
			return 0, err
		}
		if anns, err = figure.Annotations(t, fig.Base().ProjectionID, l.Column); err != nil {
			return 0, err
		}
	}

	drawn, err := fig.AddTextAnnotation(anns, remap, figure.LabelOptions{FontSize: l.FontSize})
	return len(drawn), err
}

// parseColour accepts "", "none", a few names and hex codes.
func parseColour(s string) (color.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return nil, nil
	case "black", "k":
		return color.Black, nil
	case "white", "w":
		return color.White, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "invalid colour %q", s)
	}
	return c.Clamped(), nil
}
