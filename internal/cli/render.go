package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/pipeline"
	"github.com/matzehuels/gdcross/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file; its extension selects the format
	format      string  // explicit format, overrides the extension
	scale       float64 // inches per drawing unit
	labels      bool    // print node IDs next to nodes
	detailed    bool    // print node metadata next to nodes
	noHighlight bool    // draw without marking crossings
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		f    detectFlags
		opts renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [drawing]",
		Short: "Draw a drawing with its crossings highlighted",
		Long: `Draw a drawing with its crossings highlighted.

Nodes keep their coordinates. Crossed edges are drawn in red and every
crossing gets a marker. The format follows the extension of -o (.svg, .dot,
.pdf, .png) unless --format is given. PDF and PNG need rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = render.FormatOf(opts.output)
			}
			return c.runRender(cmd.Context(), cmd, args[0], &f, opts)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, dot, pdf, png")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "inches per drawing unit")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes with their IDs")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their metadata")
	cmd.Flags().BoolVar(&opts.noHighlight, "no-highlight", false, "do not mark crossings")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, f *detectFlags, ro renderOpts) error {
	opts, err := c.options(cmd, f)
	if err != nil {
		return err
	}
	opts.Format = ro.format
	if cmd.Flags().Changed("scale") {
		opts.Scale = ro.scale
	}
	opts.Labels = opts.Labels || ro.labels
	opts.Detailed = ro.detailed
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	d, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	var list []crossings.Crossing
	if !ro.noHighlight {
		list, _, err = runner.Detect(ctx, d, opts)
		if err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Format))
	spinner.Start()
	data, err := runner.Render(ctx, d, list, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	path := ro.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.Format
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	printSuccess("Rendered %s (%d crossings highlighted)", input, len(list))
	printFile(path)
	return nil
}
