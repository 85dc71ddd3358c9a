package figure

import (
	"image/color"
	"path/filepath"
	"time"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/layout"
	"github.com/matzehuels/drapemap/pkg/render"
	"github.com/matzehuels/drapemap/pkg/sink"
)

const (
	// DefaultFigureWidth is the figure width in inches.
	DefaultFigureWidth = 4.0
)

// SaveOptions controls the output file.
type SaveOptions struct {
	// Width is the figure width in inches; the height follows from the map
	// aspect ratio and the colourbar.
	Width float64
	// Format overrides the format implied by the file extension.
	Format string
	// DPI overrides the backend resolution.
	DPI float64
	// AxisStyle names a preset; unknown names use DefaultAxisStyle.
	AxisStyle string
	// Transparent leaves the figure background transparent.
	Transparent bool
}

// SetDefaults fills zero-valued fields from the backend.
func (o *SaveOptions) SetDefaults(b Backend) {
	if o.Width == 0 {
		o.Width = DefaultFigureWidth
	}
	if o.DPI == 0 {
		o.DPI = b.DPI
	}
	if o.AxisStyle == "" {
		o.AxisStyle = DefaultAxisStyle
	}
}

// Layout negotiates the figure geometry for a given width without saving.
func (f *MapFigure) Layout(width float64) (layout.FigureLayout, error) {
	longest := 0
	for _, cb := range f.Colorbars() {
		_, labels := colourbarTicks(cb, f.target)
		for _, s := range labels {
			longest = max(longest, len(s))
		}
	}
	g := layout.DefaultGeometry()
	return g.Negotiate(width, f.Base().Extent.AspectRatio(), f.placement, g.TextAllowance(f.placement, longest))
}

// Save lays the figure out at the requested width, draws it and writes it
// to path. The file is written atomically: on any error no output is left
// behind and the figure stays open for another attempt. After a successful
// save the figure is Saved and rejects further changes.
func (f *MapFigure) Save(path string, opts SaveOptions) error {
	if err := f.checkMutable("save"); err != nil {
		return err
	}
	opts.SetDefaults(f.backend)
	if !(opts.DPI > 0) {
		return errors.Configuration("dpi must be positive, got %v", opts.DPI)
	}
	format, err := f.format(path, opts.Format)
	if err != nil {
		return err
	}
	style, ok := AxisStyleNamed(opts.AxisStyle)
	if !ok {
		f.logger.Warn("unknown axis style, using default", "style", opts.AxisStyle, "default", DefaultAxisStyle)
	}

	if f.placement == layout.None {
		f.dropColorbars()
	}
	// reassert limits from the base extent; the renderer draws north up
	f.Map().Limits = f.Base().Extent
	if err := f.applyTicks(); err != nil {
		return err
	}

	l, err := f.Layout(opts.Width)
	if err != nil {
		return err
	}

	var bg color.Color = f.backend.Background
	if opts.Transparent {
		bg = nil
	}
	start := time.Now()
	img, err := render.Rasterize(f.scene(l, style, opts.DPI, bg))
	if err != nil {
		return err
	}
	if err := sink.Write(path, img, sink.WithFormat(format), sink.WithPhysicalSize(l.Width, l.Height)); err != nil {
		return err
	}

	f.state = Saved
	f.logger.Info("figure saved", "path", path, "size", [2]float64{l.Width, l.Height},
		"map_fraction", l.MapFraction(), "duration", time.Since(start))
	return nil
}

func (f *MapFigure) format(path, override string) (sink.Format, error) {
	if override != "" {
		return sink.ParseFormat(override)
	}
	if filepath.Ext(path) == "" {
		return sink.FormatPNG, nil
	}
	return sink.FormatFromPath(path)
}

// dropColorbars removes every colourbar surface.
func (f *MapFigure) dropColorbars() {
	kept := f.surfaces[:1]
	for _, s := range f.surfaces[1:] {
		if _, ok := s.(*Colorbar); !ok {
			kept = append(kept, s)
		}
	}
	if dropped := len(f.surfaces) - len(kept); dropped > 0 {
		f.logger.Debug("colourbar placement is none, dropping colourbars", "n", dropped)
	}
	f.surfaces = kept
}
