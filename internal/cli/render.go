package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drapemap/pkg/figure"
	"github.com/matzehuels/drapemap/pkg/pipeline"
)

// renderOpts holds command-line overrides for the recipe's [output] table.
type renderOpts struct {
	output      string  // output file path
	format      string  // output format, overrides the extension
	size        string  // size class: big, geomorphology, ESURF
	width       float64 // figure width in inches, overrides size
	dpi         float64 // resolution
	axisStyle   string  // axis style preset
	transparent bool    // transparent background
}

// apply copies every set override onto rec.
func (o *renderOpts) apply(rec *pipeline.Recipe) {
	if o.output != "" {
		rec.Output.Path = o.output
	}
	if o.format != "" {
		rec.Output.Format = o.format
	}
	if o.size != "" {
		rec.Output.Size = o.size
		rec.Output.Width = 0
	}
	if o.width > 0 {
		rec.Output.Width = o.width
	}
	if o.dpi > 0 {
		rec.Output.DPI = o.dpi
	}
	if o.axisStyle != "" {
		rec.Output.AxisStyle = o.axisStyle
	}
	if o.transparent {
		rec.Output.Transparent = true
	}
}

// validate checks overrides before any input is read.
func (o *renderOpts) validate() error {
	if o.format != "" {
		if err := pipeline.ValidateFormat(o.format); err != nil {
			return err
		}
	}
	if o.size != "" {
		if err := pipeline.ValidateSize(o.size); err != nil {
			return err
		}
	}
	return nil
}

// renderCommand creates the render command, which draws the figure
// described by a TOML recipe.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <recipe.toml>",
		Short: "Render the figure described by a recipe",
		Long: `Render the figure described by a TOML recipe.

Paths in the recipe are relative to the recipe file. Flags override the
recipe's [output] table.`,
		Example: `  drapemap render basins.toml
  drapemap render basins.toml -o basins.pdf --size geomorphology`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: png, jpg, gif, tif, bmp, pdf")
	cmd.Flags().StringVar(&opts.size, "size", "", "size class: big, geomorphology, ESURF")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "figure width in inches (overrides --size)")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "output resolution")
	cmd.Flags().StringVar(&opts.axisStyle, "axis-style", "", "axis style: "+strings.Join(figure.AxisStyles(), ", "))
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "transparent background")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	prog := newProgress(c.Logger)

	rec, err := pipeline.LoadRecipe(path)
	if err != nil {
		return err
	}
	opts.apply(rec)
	if err := ctx.Err(); err != nil {
		return err
	}

	spin := newSpinner(ctx, c.Out, "Rendering "+path)
	spin.Start()
	res, err := c.newRunner().Execute(rec)
	spin.Stop()
	if err != nil {
		return err
	}

	printSuccess(c.Out, "Rendered %s", path)
	printResult(c.Out, res)
	prog.done("Wrote 1 figure")
	return nil
}
