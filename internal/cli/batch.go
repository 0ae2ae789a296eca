package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/graph"
	"github.com/matzehuels/gdcross/pkg/pipeline"
)

// batchCommand creates the batch command for analysing many drawings.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		f      detectFlags
		jobs   int
		format string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "batch [drawing...]",
		Short: "Analyse many drawings concurrently",
		Long: `Analyse many drawings concurrently.

Every file is loaded and analysed on its own; a file that fails does not
stop the others. The summary lists count, density and angular resolution
per file. With --format json the full reports are written instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(format, outTable, outJSON); err != nil {
				return err
			}
			ctx := cmd.Context()
			opts, err := c.options(cmd, &f)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, f.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Analysing %d drawings...", len(args)))
			spinner.Start()
			results, err := runner.Batch(ctx, args, opts, jobs)
			spinner.Stop()
			if err != nil {
				return err
			}

			reports := make([]graph.Report, 0, len(results))
			for _, r := range results {
				if r.Err == nil {
					reports = append(reports, r.Result.Report(r.Path, opts))
				}
			}
			if save {
				for i := range reports {
					if _, err := c.saveReport(ctx, &reports[i]); err != nil {
						return err
					}
				}
				c.Logger.Info("Saved reports", "count", len(reports))
			}

			if format == outJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), batchTable(results))
			}

			if failed := len(results) - len(reports); failed > 0 {
				return gderrors.New(gderrors.ErrCodeInvalidInput, "%d of %d drawings failed", failed, len(results))
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", pipeline.DefaultJobs, "number of drawings analysed at once")
	cmd.Flags().StringVarP(&format, "format", "f", outTable, "output format: table, json")
	cmd.Flags().BoolVar(&save, "save", false, "store every result in the report store")

	return cmd
}

// batchTable renders one row per file.
func batchTable(results []pipeline.BatchResult) string {
	rows := make([][]string, len(results))
	for i, r := range results {
		if r.Err != nil {
			rows[i] = []string{r.Path, "", "", "", "", "", StyleCrossing.Render(gderrors.UserMessage(r.Err))}
			continue
		}
		m := r.Result.Metrics
		status := iconFresh
		if r.Result.CacheHit {
			status = iconCached
		}
		rows[i] = []string{
			r.Path,
			strconv.Itoa(r.Result.Stats.NodeCount),
			strconv.Itoa(r.Result.Stats.EdgeCount),
			strconv.Itoa(m.Count),
			strconv.FormatFloat(m.Density, 'f', 4, 64),
			strconv.FormatFloat(m.AngularResolution, 'f', 4, 64),
			status,
		}
	}
	return newTable("File", "Nodes", "Edges", "Crossings", "Density", "Resolution", "Status").Rows(rows...).Render()
}
