package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/drapemap/pkg/errors"
	"github.com/matzehuels/drapemap/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCode        = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// PrintError reports a failed command on the CLI's output.
func (c *CLI) PrintError(err error) {
	printError(c.Out, err)
}

// printError prints err with its code dimmed, e.g. "✗ SHAPE_MISMATCH drape ...".
func printError(w io.Writer, err error) {
	line := styleIconError.Render(iconError) + " "
	if code := errors.GetCode(err); code != "" {
		line += styleCode.Render(string(code)) + " "
	}
	fmt.Fprintln(w, line+errors.UserMessage(err))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Stats Display
// =============================================================================

// printResult prints the output path and figure statistics on two lines.
func printResult(w io.Writer, res *pipeline.Result) {
	printFile(w, res.Output)

	parts := []string{fmt.Sprintf("%.2fx%.2fin", res.Width, res.Height)}
	add := func(n int, unit string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, unit))
		}
	}
	add(res.Stats.Drapes, "drapes")
	add(res.Stats.Points, "points")
	add(res.Stats.Polygons, "polygons")
	add(res.Stats.Labels, "labels")
	add(res.Stats.Colorbars, "colourbars")
	fmt.Fprintln(w, "    "+StyleDim.Render(strings.Join(parts, " · ")))
}
