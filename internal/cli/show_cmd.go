package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plangraph/internal/cli/formatter"
)

func newShowCmd(app *App) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the issue hierarchy with its dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			nodes, err := app.Planning.Issues(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if table {
				fmt.Fprint(out, formatter.FormatIssueTable(nodes, app.today()))
			} else {
				fmt.Fprint(out, formatter.FormatIssueTree(nodes))
			}

			dangling, err := app.Planning.Dangling(ctx)
			if err != nil {
				return err
			}
			if len(dangling) > 0 {
				fmt.Fprintf(out, "\n%s\n", formatter.StyleYellow.Render(
					fmt.Sprintf("%d dangling relation(s); see `plangraph relation list`", len(dangling))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "Render a flat table instead of a tree")
	return cmd
}
