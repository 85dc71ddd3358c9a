package figure

import (
	"image"
	"image/color"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/drapemap/pkg/colormap"
	"github.com/matzehuels/drapemap/pkg/layout"
	"github.com/matzehuels/drapemap/pkg/raster"
	"github.com/matzehuels/drapemap/pkg/render"
	"github.com/matzehuels/drapemap/pkg/ticks"
)

// colourbarSamples is the number of colours drawn along a continuous
// colourbar.
const colourbarSamples = 256

// Colorize renders a layer through its colormap and norm. Row 0 of the
// grid becomes the top row of the image; NaN cells are transparent.
func Colorize(l *raster.Layer) *image.NRGBA {
	g := l.Grid
	img := image.NewNRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	norm := l.Norm()
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := g.At(r, c)
			if math.IsNaN(v) {
				continue
			}
			img.SetNRGBA(c, r, norm.Color(l.Colormap, v))
		}
	}
	return img
}

// colourbarTicks returns tick positions along the bar in [0, 1] and their
// labels.
func colourbarTicks(cb *Colorbar, target int) ([]float64, []string) {
	span := cb.Norm.VMax - cb.Norm.VMin
	if cb.Ticks != nil {
		pos := make([]float64, len(cb.Ticks))
		for i, v := range cb.Ticks {
			pos[i] = cb.Norm.Apply(v)
		}
		return pos, colormap.FormatTickLabels(cb.Ticks, cb.Integral)
	}
	if !(span > 0) {
		return []float64{0}, colormap.FormatTickLabels([]float64{cb.Norm.VMin}, cb.Integral)
	}
	ts, err := ticks.Planner{Unit: ticks.Meters}.Plan(cb.Norm.VMin, cb.Norm.VMax, target)
	if err != nil {
		return nil, nil
	}
	pos := make([]float64, ts.Len())
	for i, v := range ts.Locations {
		pos[i] = cb.Norm.Apply(v)
	}
	labels := ts.Labels
	if cb.Integral {
		labels = colormap.FormatTickLabels(ts.Locations, true)
	}
	return pos, labels
}

func colourbarColors(m colormap.Map) []color.NRGBA {
	if d, ok := m.(*colormap.Discrete); ok {
		return d.Colors
	}
	out := make([]color.NRGBA, colourbarSamples)
	for i := range out {
		out[i] = m.At(float64(i) / float64(colourbarSamples-1))
	}
	return out
}

func (f *MapFigure) drawables() []render.Drawable {
	var out []render.Drawable
	for _, a := range f.Map().Artists {
		switch a := a.(type) {
		case *RasterArtist:
			out = append(out, render.Image{Img: Colorize(a.Layer), Alpha: a.Layer.Alpha})
		case *ScatterArtist:
			out = append(out, render.Scatter{X: a.X, Y: a.Y, Radius: a.Radius, Colors: a.Colors, Alpha: a.Alpha})
		case *PolygonArtist:
			out = append(out, render.Path{
				Rings:     rings(a.Polygons),
				Stroke:    a.Edge,
				Fill:      a.Face,
				LineWidth: a.LineWidth,
				Alpha:     a.Alpha,
			})
		case *TextArtist:
			out = append(out, render.Labels{
				X:           a.X,
				Y:           a.Y,
				Text:        a.Text,
				TextColor:   a.Color,
				BorderColor: a.Border,
				FontSize:    a.FontSize,
				Alpha:       a.Alpha,
			})
		}
	}
	return out
}

func rings(polys []orb.Polygon) [][][2]float64 {
	var out [][][2]float64
	for _, p := range polys {
		for _, r := range p {
			ring := make([][2]float64, len(r))
			for i, pt := range r {
				ring[i] = [2]float64{pt.X(), pt.Y()}
			}
			out = append(out, ring)
		}
	}
	return out
}

// scene assembles the render scene for a negotiated layout.
func (f *MapFigure) scene(l layout.FigureLayout, style render.AxisStyle, dpi float64, bg color.Color) render.Scene {
	w, h := l.Pixels(dpi)
	xl, yl := f.AxisLabels()
	s := render.Scene{
		Width:      w,
		Height:     h,
		DPI:        dpi,
		Background: bg,
		Style:      style,
		Map: render.MapPanel{
			Rect:      l.Map.Pixels(w, h),
			Limits:    f.Map().Limits,
			Drawables: f.drawables(),
			XTicks:    f.xTicks,
			YTicks:    f.yTicks,
			XLabel:    xl,
			YLabel:    yl,
			TextColor: f.backend.TextColor,
		},
	}

	cbs := f.Colorbars()
	if l.Colorbar == nil || len(cbs) == 0 {
		return s
	}
	for i, r := range l.Colorbar.Tile(len(cbs), 0.05) {
		cb := cbs[i]
		pos, labels := colourbarTicks(cb, f.target)
		s.Colorbars = append(s.Colorbars, render.ColorbarPanel{
			Rect:      r.Pixels(w, h),
			Placement: l.Placement,
			Colors:    colourbarColors(cb.Colormap),
			Ticks:     pos,
			Labels:    labels,
			Title:     cb.Label,
			TextColor: f.backend.TextColor,
		})
	}
	return s
}
