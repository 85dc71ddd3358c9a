package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drapemap/pkg/pipeline"
)

// presetOpts holds the flags shared by the LSDTopoTools preset commands.
// Flag names follow the knickpoint plotting driver.
type presetOpts struct {
	opts       pipeline.Options
	basinKeys  string
	sourceKeys string
}

// addPresetFlags registers the flags every preset command takes.
func addPresetFlags(cmd *cobra.Command, p *presetOpts) {
	cmd.Flags().StringVarP(&p.opts.Dir, "dir", "d", ".", "directory holding the analysis outputs")
	cmd.Flags().StringVarP(&p.opts.Prefix, "fname", "f", "", "DEM name without extension (required)")
	cmd.Flags().StringVar(&p.basinKeys, "basin_keys", "", "comma-separated basin keys to plot (default all)")
	cmd.Flags().StringVar(&p.opts.Format, "fmt", pipeline.DefaultFormat, "output format: png, jpg, gif, tif, bmp, pdf")
	cmd.Flags().StringVar(&p.opts.Size, "size", pipeline.DefaultSize, "size class: big, geomorphology, ESURF")
	cmd.Flags().Float64Var(&p.opts.DPI, "dpi", pipeline.DefaultDPI, "output resolution")
	_ = cmd.MarkFlagRequired("fname")
}

// resolve parses the key lists into the pipeline options.
func (p *presetOpts) resolve() (pipeline.Options, error) {
	opts := p.opts
	var err error
	if opts.BasinKeys, err = parseKeys(p.basinKeys); err != nil {
		return opts, err
	}
	if opts.SourceKeys, err = parseKeys(p.sourceKeys); err != nil {
		return opts, err
	}
	opts.SetDefaults()
	return opts, opts.Validate()
}

// basinsCommand creates the basins command.
func (c *CLI) basinsCommand() *cobra.Command {
	var p presetOpts

	cmd := &cobra.Command{
		Use:   "basins",
		Short: "Plot basins over the hillshade, labelled with basin keys",
		Long: fmt.Sprintf(`Plot the basin raster over the hillshade and label every basin with its key.

Reads <fname>%s, <fname>%s and <fname>%s from --dir and writes <fname>%s.<fmt>.`,
			pipeline.SuffixHillshade, pipeline.SuffixBasins, pipeline.SuffixBasinInfo, pipeline.SuffixBasinKeysFigure),
		Example: `  drapemap basins -d data -f mandakini --basin_keys 0,1,4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := p.resolve()
			if err != nil {
				return err
			}
			opts.BasinMap = true
			return c.runPresets(cmd.Context(), opts)
		},
	}
	addPresetFlags(cmd, &p)
	return cmd
}

// mchiCommand creates the mchi command.
func (c *CLI) mchiCommand() *cobra.Command {
	var p presetOpts
	standard, black := true, false

	cmd := &cobra.Command{
		Use:   "mchi",
		Short: "Plot channel steepness (m_chi) over the hillshade",
		Long: fmt.Sprintf(`Plot m_chi points coloured by steepness over the hillshade, with basin
outlines when <fname>%s exists.

Reads <fname>%s and <fname>%s from --dir and writes <fname>%s.<fmt> and,
with --mcbk, <fname>%s.<fmt>.`,
			pipeline.SuffixBasinShape, pipeline.SuffixHillshade, pipeline.SuffixMChi,
			pipeline.SuffixMChiFigure, pipeline.SuffixMChiBlackFigure),
		Example: `  drapemap mchi -d data -f mandakini --source_keys 3,7 --minmc 0 --maxmc 120
  drapemap mchi -d data -f mandakini --mcstd=false --mcbk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := p.resolve()
			if err != nil {
				return err
			}
			opts.MChiMap, opts.MChiBlack = standard, black
			return c.runPresets(cmd.Context(), opts)
		},
	}
	addPresetFlags(cmd, &p)
	cmd.Flags().StringVar(&p.sourceKeys, "source_keys", "", "comma-separated source keys to plot (default all)")
	cmd.Flags().BoolVar(&standard, "mcstd", standard, "plot m_chi over the hillshade")
	cmd.Flags().BoolVar(&black, "mcbk", black, "plot m_chi over a black background")
	cmd.Flags().Float64Var(&p.opts.MinMChi, "minmc", 0, "lower m_chi colour limit")
	cmd.Flags().Float64Var(&p.opts.MaxMChi, "maxmc", 0, "upper m_chi colour limit (ignored unless above --minmc)")
	return cmd
}

func (c *CLI) runPresets(ctx context.Context, opts pipeline.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.MaxMChi != 0 && opts.MChiRange() == nil {
		printWarning(c.Out, "--maxmc %v does not exceed --minmc %v, using the data range", opts.MaxMChi, opts.MinMChi)
	}
	prog := newProgress(c.Logger)

	spin := newSpinner(ctx, c.Out, "Drawing "+opts.Prefix)
	spin.Start()
	results, err := c.newRunner().Run(opts)
	spin.Stop()

	for _, res := range results {
		printResult(c.Out, res)
	}
	if err != nil {
		return err
	}
	printSuccess(c.Out, "Drew %d figure(s) for %s", len(results), opts.Prefix)
	prog.done(fmt.Sprintf("Wrote %d figures", len(results)))
	return nil
}
