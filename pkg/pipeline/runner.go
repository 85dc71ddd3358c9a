package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/figure"
	"github.com/matzehuels/drapemap/pkg/observability"
	"github.com/matzehuels/drapemap/pkg/raster"
	"github.com/matzehuels/drapemap/pkg/raster/source"
)

// Runner executes recipes. It holds no per-figure state, so one Runner can
// execute any number of recipes in sequence.
type Runner struct {
	Reader  raster.Reader
	Backend figure.Backend
	Logger  *log.Logger
}

// NewRunner creates a runner.
// If rd is nil, source.Default is used.
// If backend is nil, figure.DefaultBackend is used.
// If logger is nil, output is discarded.
func NewRunner(rd raster.Reader, backend *figure.Backend, logger *log.Logger) *Runner {
	if rd == nil {
		rd = source.Default
	}
	b := figure.DefaultBackend()
	if backend != nil {
		b = *backend
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Reader: rd, Backend: b, Logger: logger}
}

// Execute runs the complete load → compose → save sequence for one recipe.
func (r *Runner) Execute(rec *Recipe) (*Result, error) {
	width, err := rec.Output.FigureWidth()
	if err != nil {
		return nil, err
	}

	// Stage 1+2: Load and compose
	hooks := observability.Pipeline()
	hooks.OnComposeStart(rec.Base.Path)
	loadStart := time.Now()
	fig, stats, err := r.Compose(rec)
	stats.LoadTime = time.Since(loadStart)
	hooks.OnComposeComplete(rec.Base.Path, stats.Drapes+stats.PointSets+len(rec.Polygons)+len(rec.Labels), stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("composed figure",
		"base", rec.Base.Path,
		"drapes", stats.Drapes,
		"points", stats.Points,
		"polygons", stats.Polygons,
		"labels", stats.Labels,
		"duration", stats.LoadTime)

	l, err := fig.Layout(width)
	if err != nil {
		return nil, err
	}

	// Stage 3: Save
	out := rec.resolve(rec.Output.Path)
	hooks.OnSaveStart(out)
	renderStart := time.Now()
	err = fig.Save(out, figure.SaveOptions{
		Width:       width,
		Format:      rec.Output.Format,
		DPI:         rec.Output.DPI,
		AxisStyle:   rec.Output.AxisStyle,
		Transparent: rec.Output.Transparent,
	})
	stats.RenderTime = time.Since(renderStart)
	hooks.OnSaveComplete(out, stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	stats.Colorbars = len(fig.Colorbars())

	r.Logger.Info("wrote figure",
		"path", out,
		"width", l.Width,
		"height", l.Height,
		"duration", stats.RenderTime)

	return &Result{
		Output:      out,
		Width:       l.Width,
		Height:      l.Height,
		MapFraction: l.MapFraction(),
		Stats:       stats,
	}, nil
}

// Run builds the preset recipes enabled in opts and executes them in
// order. It stops at the first failure and returns the figures written
// so far.
func (r *Runner) Run(opts Options) ([]*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !opts.Any() {
		return nil, errors.Configuration("no figure selected (enable basin_map, mchi_map or mchi_black)")
	}

	recipes, err := Presets(opts)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, 0, len(recipes))
	for _, rec := range recipes {
		res, err := r.Execute(rec)
		if err != nil {
			return results, errors.Wrap(errors.GetCode(err), err, "%s", rec.Output.Path)
		}
		results = append(results, res)
	}
	return results, nil
}
