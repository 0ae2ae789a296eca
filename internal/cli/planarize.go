package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/graph"
)

// planarizeCommand creates the planarize command.
func (c *CLI) planarizeCommand() *cobra.Command {
	var (
		f      detectFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "planarize [drawing]",
		Short: "Replace every crossing with a crossing node",
		Long: `Replace every crossing with a crossing node.

Each crossing point becomes a new node named crossing<i> and the edges
through it are split at that node. Nodes already lying on a crossing
are merged into it. The output format follows the extension of -o
(.json or .geojson); without -o the drawing is written to stdout as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			d, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger, "planarized")
			out, res, err := runner.Planarize(ctx, d, opts)
			if err != nil {
				return err
			}
			prog.done("crossings", len(res.Crossings), "added", len(res.AddedNodes))

			if output == "" {
				return graph.WriteDrawing(out, cmd.OutOrStdout())
			}
			if err := graph.WriteDrawingFile(out, output); err != nil {
				return err
			}
			printSuccess("Planarized %s", args[0])
			printKeyValue("crossings", StyleNumber.Render(fmt.Sprint(len(res.Crossings))))
			printKeyValue("added", strings.Join(res.AddedNodes, ", "))
			if len(res.RemovedNodes) > 0 {
				printKeyValue("merged", strings.Join(res.RemovedNodes, ", "))
			}
			printKeyValue("split edges", fmt.Sprint(res.ReplacedEdges))
			printFile(output)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .geojson, default stdout)")

	return cmd
}
