package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plangraph/internal/cli/formatter"
	"github.com/alexanderramin/plangraph/internal/domain"
)

func newIssueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage issues",
	}

	cmd.AddCommand(
		newIssueAddCmd(app),
		newIssueRemoveCmd(app),
	)

	return cmd
}

func newIssueAddCmd(app *App) *cobra.Command {
	var id, subject, parentID string
	var start, due time.Time
	var milestone, container bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an issue; a dated child stretches its ancestors",
		RunE: func(cmd *cobra.Command, args []string) error {
			issue := &domain.Issue{
				ID:        id,
				Subject:   subject,
				StartDate: dateFlag(cmd.Flags(), "start", start),
				DueDate:   dateFlag(cmd.Flags(), "due", due),
				Leaf:      !container,
				Milestone: milestone,
			}
			if cmd.Flags().Changed("parent") {
				issue.ParentID = &parentID
			}

			res, err := app.Planning.AddIssue(context.Background(), issue)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created issue %s (%s)\n", formatter.Bold(issue.Subject), issue.ID)
			if len(res.Changes) > 0 {
				fmt.Fprint(out, "\n"+formatter.FormatChanges(res.Changes, res.Reconciled))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Issue ID (generated when empty)")
	cmd.Flags().StringVar(&subject, "subject", "", "Issue subject")
	cmd.Flags().Var(newDateValue(&start), "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&due), "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent issue ID")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Create a zero-width milestone")
	cmd.Flags().BoolVar(&container, "container", false, "Create a container that cannot be resized")
	cmd.MarkFlagsMutuallyExclusive("milestone", "container")

	return cmd
}

func newIssueRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an issue; its relations are kept and become dangling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planning.RemoveIssue(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed issue %s\n", args[0])
			return nil
		},
	}
}
