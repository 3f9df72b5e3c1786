package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/cli/formatter"
	"github.com/alexanderramin/plangraph/internal/graph"
)

func newMoveCmd(app *App) *cobra.Command {
	var days int
	var start, due time.Time

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Shift an issue by whole days, or reschedule it to explicit dates",
		Long: `Shift an issue by --days (its descendants follow), or set both dates
with --start and --due. Relations and ancestors are updated in the same pass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var change graph.Change
			switch {
			case cmd.Flags().Changed("days"):
				change = graph.Shift(calendar.Days(days))
			case cmd.Flags().Changed("start") && cmd.Flags().Changed("due"):
				change = graph.Reschedule(start, due)
			default:
				return fmt.Errorf("either --days or both --start and --due are required")
			}

			res, err := app.Planning.Move(context.Background(), args[0], change)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChanges(res.Changes, res.Reconciled))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Shift by this many days (negative moves earlier)")
	cmd.Flags().Var(newDateValue(&start), "start", "New start date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&due), "due", "New due date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("days", "start")
	cmd.MarkFlagsMutuallyExclusive("days", "due")

	return cmd
}

func newDragCmd(app *App) *cobra.Command {
	var mode string
	var days int

	cmd := &cobra.Command{
		Use:   "drag ID",
		Short: "Drag an issue or one of its edges, clamped to its feasible window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := graph.ParseDragMode(mode)
			if err != nil {
				return err
			}
			res, err := app.Planning.Drag(context.Background(), args[0], m, days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChanges(res.Changes, res.Reconciled))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "move", "Drag mode (move|start|end)")
	cmd.Flags().IntVar(&days, "days", 0, "Offset in days from the current position")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func newLimitsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "limits ID",
		Short: "Show the dates an issue can move to without breaking a constraint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.Planning.Limits(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLimits(args[0], l))
			return nil
		},
	}
}
