package figure

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/layout"
	"github.com/matzehuels/drapemap/pkg/raster"
	"github.com/matzehuels/drapemap/pkg/ticks"
)

// State is the lifecycle stage of a figure.
type State int

const (
	Initialized State = iota
	Composing
	Saved
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Composing:
		return "composing"
	case Saved:
		return "saved"
	}
	return "unknown"
}

// =============================================================================
// Options
// =============================================================================

const (
	DefaultCoordType        = "UTM_km"
	DefaultColorbarLocation = "none"
	DefaultTargetTicks      = ticks.DefaultTarget
)

// Options configures a new figure.
type Options struct {
	// CoordType is the tick label convention: UTM/m (metres) or UTM_km/km.
	CoordType string
	// ColorbarLocation is top, bottom, left, right or none.
	ColorbarLocation string
	// TargetTicks is the tick count aimed for on each axis.
	TargetTicks int
	// SignificantDigits truncates kilometre labels; 0 picks enough digits
	// to resolve the tick step.
	SignificantDigits int

	Backend *Backend
	Logger  *log.Logger
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.CoordType == "" {
		o.CoordType = DefaultCoordType
	}
	if o.ColorbarLocation == "" {
		o.ColorbarLocation = DefaultColorbarLocation
	}
	if o.TargetTicks <= 0 {
		o.TargetTicks = DefaultTargetTicks
	}
	if o.Backend == nil {
		b := DefaultBackend()
		o.Backend = &b
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// =============================================================================
// MapFigure
// =============================================================================

// MapFigure composites layers over a base raster. Create it with New.
type MapFigure struct {
	backend Backend
	logger  *log.Logger

	// layers[0] is the base layer.
	layers []*raster.Layer
	// surfaces[0] is always the *MainMap.
	surfaces []Surface

	planner   ticks.Planner
	target    int
	placement layout.Placement

	xTicks, yTicks ticks.TickSet
	state          State
}

// New creates a figure over base. An unsupported coordinate convention or
// colourbar location is a configuration error reported before anything
// is drawn.
func New(base *raster.Layer, opts Options) (*MapFigure, error) {
	opts.SetDefaults()
	if base == nil || base.Raster == nil {
		return nil, errors.Data("base layer is required")
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	unit, err := ticks.ParseUnit(opts.CoordType)
	if err != nil {
		return nil, err
	}
	placement, err := layout.ParsePlacement(opts.ColorbarLocation)
	if err != nil {
		return nil, err
	}
	if opts.SignificantDigits < 0 {
		return nil, errors.Configuration("significant digits must be >= 0, got %d", opts.SignificantDigits)
	}
	if err := opts.Backend.Validate(); err != nil {
		return nil, err
	}

	f := &MapFigure{
		backend:   *opts.Backend,
		logger:    opts.Logger,
		layers:    []*raster.Layer{base},
		surfaces:  []Surface{&MainMap{Limits: base.Extent, Artists: []Artist{&RasterArtist{Layer: base}}}},
		planner:   ticks.Planner{Unit: unit, SignificantDigits: opts.SignificantDigits},
		target:    opts.TargetTicks,
		placement: placement,
		state:     Initialized,
	}
	if err := f.applyTicks(); err != nil {
		return nil, err
	}
	f.logger.Debug("figure created", "base", base.Name, "unit", unit, "colourbar", placement)
	return f, nil
}

// State returns the lifecycle stage.
func (f *MapFigure) State() State { return f.state }

// Base returns the base layer.
func (f *MapFigure) Base() *raster.Layer { return f.layers[0] }

// Layers returns the base layer followed by every drape, in insertion order.
func (f *MapFigure) Layers() []*raster.Layer { return slices.Clone(f.layers) }

// Surfaces returns the surface list. The slice is a copy.
func (f *MapFigure) Surfaces() []Surface { return slices.Clone(f.surfaces) }

// Map returns the main map surface.
func (f *MapFigure) Map() *MainMap { return f.surfaces[0].(*MainMap) }

// Colorbars returns the colourbar surfaces in insertion order.
func (f *MapFigure) Colorbars() []*Colorbar {
	var out []*Colorbar
	for _, s := range f.surfaces {
		if cb, ok := s.(*Colorbar); ok {
			out = append(out, cb)
		}
	}
	return out
}

// Placement returns the colourbar placement.
func (f *MapFigure) Placement() layout.Placement { return f.placement }

// Ticks returns the current x and y tick sets.
func (f *MapFigure) Ticks() (x, y ticks.TickSet) { return f.xTicks, f.yTicks }

// AxisLabels returns the x and y axis titles for the coordinate convention.
func (f *MapFigure) AxisLabels() (x, y string) { return f.planner.Unit.AxisLabels() }

func (f *MapFigure) checkMutable(op string) error {
	if f.state == Saved {
		return errors.New(errors.ErrCodeInvalidState, "%s: figure has already been saved", op)
	}
	return nil
}

// compose records a successful mutation and reasserts the axis limits and
// ticks on the map.
func (f *MapFigure) compose() error {
	f.state = Composing
	f.Map().Limits = f.Base().Extent
	return f.applyTicks()
}

func (f *MapFigure) applyTicks() error {
	lim := f.Map().Limits
	x, err := f.planner.Plan(lim.XMin, lim.XMax, f.target)
	if err != nil {
		return err
	}
	y, err := f.planner.Plan(lim.YMin, lim.YMax, f.target)
	if err != nil {
		return err
	}
	f.xTicks, f.yTicks = x, y
	return nil
}
