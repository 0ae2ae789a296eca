package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/graph"
	"github.com/matzehuels/gdcross/pkg/pipeline"
)

// Output formats of the analysis commands.
const (
	outTable   = "table"
	outJSON    = "json"
	outGeoJSON = "geojson"
)

// =============================================================================
// Shared Detection Flags
// =============================================================================

// detectFlags holds the flags shared by every analysis command.
type detectFlags struct {
	tolerance     float64
	nodeCrossings bool
	singletons    bool
	algorithm     string
	tighter       bool
	noCache       bool
	refresh       bool
}

func (f *detectFlags) register(cmd *cobra.Command) {
	cmd.ValidArgsFunction = drawingFiles
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", pipeline.DefaultTolerance, "absolute precision of coordinate comparisons")
	cmd.Flags().BoolVar(&f.nodeCrossings, "node-crossings", false, "report nodes lying on edges")
	cmd.Flags().BoolVar(&f.singletons, "singletons", false, "report isolated nodes touching edges (needs --node-crossings)")
	cmd.Flags().StringVar(&f.algorithm, "algorithm", pipeline.DefaultAlgorithm, "detection algorithm: sweep, quadratic")
	cmd.Flags().BoolVar(&f.tighter, "tighter-bound", false, "subtract crossings ruled out by triangles and 4-cycles from the maximum")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")
}

// options starts from the configuration file and applies the flags the
// user set explicitly.
func (c *CLI) options(cmd *cobra.Command, f *detectFlags) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if flags.Changed("node-crossings") {
		opts.IncludeNodeCrossings = f.nodeCrossings
	}
	if flags.Changed("singletons") {
		opts.IncludeSingletons = f.singletons
	}
	if flags.Changed("algorithm") {
		opts.Algorithm = f.algorithm
	}
	if flags.Changed("tighter-bound") {
		opts.TighterBound = f.tighter
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts, nil
}

// analysis is a loaded and analysed drawing.
type analysis struct {
	drawing *drawing.Drawing
	result  *pipeline.Result
	opts    pipeline.Options
}

// analyze loads input and detects its crossings.
func (c *CLI) analyze(ctx context.Context, cmd *cobra.Command, input string, f *detectFlags) (*analysis, error) {
	opts, err := c.options(cmd, f)
	if err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger, "analysed")
	d, err := runner.Load(ctx, input)
	if err != nil {
		return nil, err
	}
	res, err := runner.Analyze(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	prog.done("file", input, "crossings", len(res.Crossings), "cached", res.CacheHit)
	return &analysis{drawing: d, result: res, opts: opts}, nil
}

// =============================================================================
// crossings
// =============================================================================

func (c *CLI) crossingsCommand() *cobra.Command {
	var (
		f      detectFlags
		format string
		output string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "crossings [drawing]",
		Short: "List the crossings of a drawing",
		Long: `List the crossings of a drawing.

The drawing is read from a .json or .geojson file. Every crossing is reported
once with its position (a point, or a line for overlapping edges) and the
edges involved. With --node-crossings, nodes lying on edges count as well.

The table format is meant for reading; json writes a full report and geojson
writes the drawing with its crossings as features.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(format, outTable, outJSON, outGeoJSON); err != nil {
				return err
			}
			a, err := c.analyze(cmd.Context(), cmd, args[0], &f)
			if err != nil {
				return err
			}

			report := a.result.Report(args[0], a.opts)
			if save {
				id, err := c.saveReport(cmd.Context(), &report)
				if err != nil {
					return err
				}
				c.Logger.Info("Saved report", "id", id)
			}
			return writeCrossings(cmd.OutOrStdout(), a, report, format, output)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", outTable, "output format: table, json, geojson")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&save, "save", false, "store the result in the report store")

	return cmd
}

func writeCrossings(stdout io.Writer, a *analysis, report graph.Report, format, output string) error {
	out, err := openOutput(stdout, output)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case outJSON:
		err = graph.WriteReport(report, out)
	case outGeoJSON:
		var data []byte
		data, err = graph.MarshalGeoJSON(a.drawing, a.result.Crossings)
		if err == nil {
			_, err = out.Write(append(data, '\n'))
		}
	default:
		_, err = fmt.Fprintln(out, crossingsTable(a.result.Crossings))
		if err == nil && output == "" {
			printStats(a.result.Stats.NodeCount, a.result.Stats.EdgeCount, a.result.Metrics.Count, a.result.CacheHit)
		}
	}
	if err != nil {
		return err
	}
	if output != "" {
		printFile(output)
	}
	return nil
}

func (c *CLI) saveReport(ctx context.Context, r *graph.Report) (string, error) {
	st, err := c.newStore(ctx)
	if err != nil {
		return "", fmt.Errorf("open report store: %w", err)
	}
	defer st.Close()
	return st.Save(ctx, r)
}

// =============================================================================
// Scalar Metrics
// =============================================================================

// metricCommand builds a command that prints one number derived from the
// analysis.
func (c *CLI) metricCommand(use, short, long string, value func(*analysis) string) *cobra.Command {
	var f detectFlags
	cmd := &cobra.Command{
		Use:   use + " [drawing]",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.analyze(cmd.Context(), cmd, args[0], &f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value(a))
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) countCommand() *cobra.Command {
	return c.metricCommand("count",
		"Print the number of crossings",
		`Print the number of crossings. A crossing of k edges counts once for every
pair of them.`,
		func(a *analysis) string { return strconv.Itoa(a.result.Metrics.Count) })
}

func (c *CLI) densityCommand() *cobra.Command {
	return c.metricCommand("density",
		"Print the crossing density",
		`Print the crossing density: one minus the number of crossings divided by the
largest number of crossings any drawing of the graph can have. 1 means no
crossings. With --tighter-bound the maximum accounts for triangles and 4-cycles.`,
		func(a *analysis) string { return formatFloat(a.result.Metrics.Density) })
}

func (c *CLI) resolutionCommand() *cobra.Command {
	return c.metricCommand("resolution",
		"Print the crossing angular resolution",
		`Print the crossing angular resolution: one minus the average deviation of
the smallest angle at each crossing from its optimum. 1 means every crossing
is as wide as it can be.`,
		func(a *analysis) string { return formatFloat(a.result.Metrics.AngularResolution) })
}

// =============================================================================
// angles
// =============================================================================

func (c *CLI) anglesCommand() *cobra.Command {
	var (
		f       detectFlags
		degrees bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "angles [drawing]",
		Short: "Print the angles at every crossing",
		Long: `Print the angles at every crossing.

Angles are listed clockwise, starting from the edge direction closest to
straight up, in radians unless --degrees is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(format, outTable, outJSON); err != nil {
				return err
			}
			a, err := c.analyze(cmd.Context(), cmd, args[0], &f)
			if err != nil {
				return err
			}
			a.opts.Degrees = degrees
			angles := pipeline.Angles(a.drawing, a.result.Crossings, a.opts)

			w := cmd.OutOrStdout()
			if format == outJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(angles)
			}
			for i, cr := range a.result.Crossings {
				vals := make([]string, len(angles[i]))
				for j, v := range angles[i] {
					vals[j] = formatFloat(v)
				}
				fmt.Fprintf(w, "%s\t%s\n", formatPosition(cr.Position), strings.Join(vals, " "))
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&degrees, "degrees", false, "report degrees instead of radians")
	cmd.Flags().StringVarP(&format, "format", "f", outTable, "output format: table, json")

	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func validateOutput(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return gderrors.New(gderrors.ErrCodeInvalidFormat, "unsupported output format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// formatPosition renders a crossing position as "(x, y)" or "(x1, y1)-(x2, y2)".
func formatPosition(p crossings.Position) string {
	pt := func(x, y float64) string { return "(" + formatFloat(x) + ", " + formatFloat(y) + ")" }
	if p.Kind == crossings.PositionLine {
		return pt(p.Line.Start.X, p.Line.Start.Y) + "-" + pt(p.Line.End.X, p.Line.End.Y)
	}
	return pt(p.Point.X, p.Point.Y)
}
