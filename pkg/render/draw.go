package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/fonts"
)

// Rasterize draws the scene.
func Rasterize(s Scene) (*image.RGBA, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, errors.Configuration("canvas %dx%d is empty", s.Width, s.Height)
	}
	if s.DPI <= 0 {
		return nil, errors.Configuration("dpi must be positive, got %v", s.DPI)
	}
	if s.Map.Rect.Empty() {
		return nil, errors.Configuration("map panel is empty")
	}

	c := &canvas{
		dc:    gg.NewContext(s.Width, s.Height),
		dpi:   s.DPI,
		style: s.Style,
	}
	if s.Background != nil {
		c.dc.SetColor(s.Background)
		c.dc.Clear()
	}
	if err := c.loadFaces(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
	}

	c.drawMap(s.Map)
	for _, cb := range s.Colorbars {
		c.drawColorbar(cb)
	}

	img, ok := c.dc.Image().(*image.RGBA)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "unexpected canvas type %T", c.dc.Image())
	}
	return img, nil
}

type canvas struct {
	dc    *gg.Context
	dpi   float64
	style AxisStyle

	tickFace  font.Face
	labelFace font.Face
}

// px converts points to pixels.
func (c *canvas) px(pt float64) float64 { return pt * c.dpi / 72 }

func (c *canvas) loadFaces() error {
	var err error
	if c.tickFace, err = fonts.Face(fonts.Regular, c.style.FontSize, c.dpi); err != nil {
		return err
	}
	c.labelFace, err = fonts.Face(fonts.Regular, c.style.LabelSize, c.dpi)
	return err
}

// transform maps world coordinates into a panel rectangle, north up.
type transform struct {
	rect                   image.Rectangle
	xmin, xmax, ymin, ymax float64
}

func (t transform) apply(x, y float64) (float64, float64) {
	fx := (x - t.xmin) / (t.xmax - t.xmin)
	fy := (t.ymax - y) / (t.ymax - t.ymin)
	return float64(t.rect.Min.X) + fx*float64(t.rect.Dx()), float64(t.rect.Min.Y) + fy*float64(t.rect.Dy())
}

func (c *canvas) drawMap(m MapPanel) {
	dc := c.dc
	tr := transform{m.Rect, m.Limits.XMin, m.Limits.XMax, m.Limits.YMin, m.Limits.YMax}

	dc.Push()
	dc.DrawRectangle(float64(m.Rect.Min.X), float64(m.Rect.Min.Y), float64(m.Rect.Dx()), float64(m.Rect.Dy()))
	dc.Clip()
	for _, d := range m.Drawables {
		switch d := d.(type) {
		case Image:
			c.drawImage(m.Rect, d)
		case Scatter:
			c.drawScatter(tr, d)
		case Path:
			c.drawPath(tr, d)
		case Labels:
			c.drawLabels(tr, d)
		}
	}
	dc.ResetClip()
	dc.Pop()

	c.drawAxes(m, tr)
}

func (c *canvas) drawImage(r image.Rectangle, im Image) {
	if im.Img == nil || im.Alpha <= 0 {
		return
	}
	src := imaging.Resize(im.Img, r.Dx(), r.Dy(), imaging.NearestNeighbor)
	if im.Alpha < 1 {
		src = imaging.Overlay(imaging.New(r.Dx(), r.Dy(), color.NRGBA{}), src, image.Pt(0, 0), im.Alpha)
	}
	c.dc.DrawImage(src, r.Min.X, r.Min.Y)
}

func (c *canvas) drawScatter(tr transform, s Scatter) {
	for i := range s.X {
		x, y := tr.apply(s.X[i], s.Y[i])
		r := c.px(s.Radius[i])
		if r <= 0 || math.IsNaN(r) {
			continue
		}
		c.dc.DrawCircle(x, y, r)
		c.dc.SetColor(fade(s.Colors[i], s.Alpha))
		c.dc.Fill()
	}
}

func (c *canvas) drawPath(tr transform, p Path) {
	dc := c.dc
	trace := func() {
		for _, ring := range p.Rings {
			if len(ring) < 2 {
				continue
			}
			dc.NewSubPath()
			for i, pt := range ring {
				x, y := tr.apply(pt[0], pt[1])
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
	}
	if p.Fill != nil {
		trace()
		dc.SetFillRuleEvenOdd()
		dc.SetColor(fade(toNRGBA(p.Fill), p.Alpha))
		dc.Fill()
		dc.SetFillRuleWinding()
	}
	if p.Stroke != nil {
		trace()
		dc.SetLineWidth(c.px(p.LineWidth))
		dc.SetColor(fade(toNRGBA(p.Stroke), p.Alpha))
		dc.Stroke()
	}
}

func (c *canvas) drawLabels(tr transform, l Labels) {
	dc := c.dc
	face, err := fonts.Face(fonts.Regular, l.FontSize, c.dpi)
	if err != nil {
		face = c.tickFace
	}
	dc.SetFontFace(face)
	pad := c.px(1)
	for i := range l.X {
		x, y := tr.apply(l.X[i], l.Y[i])
		w, h := dc.MeasureString(l.Text[i])
		r := math.Max(w, h)/2 + pad
		dc.DrawCircle(x, y, r)
		dc.SetColor(fade(color.NRGBA{255, 255, 255, 255}, l.Alpha))
		dc.FillPreserve()
		dc.SetLineWidth(c.px(0.5))
		dc.SetColor(fade(toNRGBA(l.BorderColor), l.Alpha))
		dc.Stroke()
		dc.SetColor(fade(toNRGBA(l.TextColor), l.Alpha))
		dc.DrawStringAnchored(l.Text[i], x, y, 0.5, 0.35)
	}
}

func (c *canvas) drawAxes(m MapPanel, tr transform) {
	dc := c.dc
	r := m.Rect
	left, top := float64(r.Min.X), float64(r.Min.Y)
	right, bottom := float64(r.Max.X), float64(r.Max.Y)
	tick := c.px(c.style.TickLength)
	pad := c.px(c.style.TickPad)

	dc.SetColor(orBlack(m.TextColor))
	dc.SetLineWidth(c.px(c.style.LineWidth))
	dc.DrawRectangle(left, top, right-left, bottom-top)
	dc.Stroke()

	dc.SetFontFace(c.tickFace)
	_, th := dc.MeasureString("0")
	for i, v := range m.XTicks.Locations {
		x, _ := tr.apply(v, m.Limits.YMin)
		dc.DrawLine(x, bottom, x, bottom+tick)
		dc.Stroke()
		dc.DrawStringAnchored(m.XTicks.Labels[i], x, bottom+tick+pad, 0.5, 1)
	}
	widest := 0.0
	for i, v := range m.YTicks.Locations {
		_, y := tr.apply(m.Limits.XMin, v)
		dc.DrawLine(left-tick, y, left, y)
		dc.Stroke()
		dc.DrawStringAnchored(m.YTicks.Labels[i], left-tick-pad, y, 1, 0.5)
		w, _ := dc.MeasureString(m.YTicks.Labels[i])
		widest = math.Max(widest, w)
	}

	dc.SetFontFace(c.labelFace)
	if m.XLabel != "" {
		dc.DrawStringAnchored(m.XLabel, (left+right)/2, bottom+tick+2*pad+th, 0.5, 1)
	}
	if m.YLabel != "" {
		x := left - tick - 2*pad - widest
		y := (top + bottom) / 2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y)
		dc.DrawStringAnchored(m.YLabel, x, y, 0.5, 0)
		dc.Pop()
	}
}

func (c *canvas) drawColorbar(cb ColorbarPanel) {
	dc := c.dc
	r := cb.Rect
	if r.Empty() || len(cb.Colors) == 0 {
		return
	}
	horizontal := cb.Placement.Horizontal()
	n := float64(len(cb.Colors))
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	w, h := float64(r.Dx()), float64(r.Dy())

	for i, col := range cb.Colors {
		dc.SetColor(col)
		if horizontal {
			seg := w / n
			dc.DrawRectangle(x0+float64(i)*seg, y0, math.Ceil(seg), h)
		} else {
			seg := h / n
			// low end at the bottom
			dc.DrawRectangle(x0, y0+h-float64(i+1)*seg, w, math.Ceil(seg))
		}
		dc.Fill()
	}

	text := orBlack(cb.TextColor)
	dc.SetColor(text)
	dc.SetLineWidth(c.px(c.style.LineWidth))
	dc.DrawRectangle(x0, y0, w, h)
	dc.Stroke()

	tick := c.px(c.style.TickLength)
	pad := c.px(c.style.TickPad)
	dc.SetFontFace(c.tickFace)
	_, th := dc.MeasureString("0")
	widest := 0.0
	for i, t := range cb.Ticks {
		label := ""
		if i < len(cb.Labels) {
			label = cb.Labels[i]
		}
		lw, _ := dc.MeasureString(label)
		widest = math.Max(widest, lw)
		switch cb.Placement.String() {
		case "bottom":
			x := x0 + t*w
			dc.DrawLine(x, y0+h, x, y0+h+tick)
			dc.Stroke()
			dc.DrawStringAnchored(label, x, y0+h+tick+pad, 0.5, 1)
		case "top":
			x := x0 + t*w
			dc.DrawLine(x, y0, x, y0-tick)
			dc.Stroke()
			dc.DrawStringAnchored(label, x, y0-tick-pad, 0.5, 0)
		case "left":
			y := y0 + h - t*h
			dc.DrawLine(x0, y, x0-tick, y)
			dc.Stroke()
			dc.DrawStringAnchored(label, x0-tick-pad, y, 1, 0.5)
		case "right":
			y := y0 + h - t*h
			dc.DrawLine(x0+w, y, x0+w+tick, y)
			dc.Stroke()
			dc.DrawStringAnchored(label, x0+w+tick+pad, y, 0, 0.5)
		}
	}

	if cb.Title == "" {
		return
	}
	dc.SetFontFace(c.labelFace)
	switch cb.Placement.String() {
	case "bottom":
		dc.DrawStringAnchored(cb.Title, x0+w/2, y0+h+tick+2*pad+th, 0.5, 1)
	case "top":
		dc.DrawStringAnchored(cb.Title, x0+w/2, y0-tick-2*pad-th, 0.5, 0)
	case "left":
		x, y := x0-tick-2*pad-widest, y0+h/2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y)
		dc.DrawStringAnchored(cb.Title, x, y, 0.5, 0)
		dc.Pop()
	case "right":
		x, y := x0+w+tick+2*pad+widest, y0+h/2
		dc.Push()
		dc.RotateAbout(gg.Radians(90), x, y)
		dc.DrawStringAnchored(cb.Title, x, y, 0.5, 0)
		dc.Pop()
	}
}

func fade(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha < 1 {
		c.A = uint8(math.Round(float64(c.A) * alpha))
	}
	return c
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func orBlack(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	return c
}
