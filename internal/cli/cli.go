// Package cli implements the drapemap command-line interface.
//
// The CLI renders map figures either from a TOML recipe or from one of the
// LSDTopoTools presets, which find their inputs by DEM prefix. It is built
// on cobra, logs through charmbracelet/log and prints status lines styled
// with lipgloss.
//
// # Commands
//
//   - render: Compose and save the figure described by a recipe file
//   - basins: Basin raster over the hillshade, labelled with basin keys
//   - mchi: Channel steepness (m_chi) points over the hillshade
//   - completion: Shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drapemap/pkg/buildinfo"
	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/figure"
	"github.com/matzehuels/drapemap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "drapemap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Backend is shared by every figure the CLI makes.
	Backend figure.Backend
	// Out receives status lines.
	Out io.Writer
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:  newLogger(w, level),
		Backend: figure.DefaultBackend(),
		Out:     w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "drapemap draws raster drapes and point data over hillshades",
		Long:          `drapemap composes map figures from a base raster, semi-transparent drapes, point data, polygons and labels, with coordinate ticks and colourbars sized for publication.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.basinsCommand())
	root.AddCommand(c.mchiCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, &c.Backend, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseKeys parses a comma-separated list of integer keys. An empty string
// means no filter.
func parseKeys(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	keys := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Configuration("invalid key %q in %q", p, s)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
