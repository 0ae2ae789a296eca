package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdcross/pkg/graph"
)

// reportsCommand creates the command for managing saved reports.
func (c *CLI) reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage saved crossing reports",
	}

	cmd.AddCommand(c.reportsListCommand())
	cmd.AddCommand(c.reportsShowCommand())
	cmd.AddCommand(c.reportsDeleteCommand())

	return cmd
}

func (c *CLI) reportsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			reports, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printInfo("No saved reports")
				return nil
			}
			rows := make([][]string, len(reports))
			for i, r := range reports {
				rows[i] = []string{
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Source,
					strconv.Itoa(r.Metrics.Count),
					r.Options.Algorithm,
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), newTable("ID", "Created", "Source", "Crossings", "Algorithm").Rows(rows...).Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports (0 for all)")
	return cmd
}

func (c *CLI) reportsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			r, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("report %s: %w", args[0], err)
			}
			return graph.WriteReport(*r, os.Stdout)
		},
	}
}

func (c *CLI) reportsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete saved reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("report %s: %w", id, err)
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}
