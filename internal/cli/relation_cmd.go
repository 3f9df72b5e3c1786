package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plangraph/internal/cli/formatter"
	"github.com/alexanderramin/plangraph/internal/domain"
)

func newRelationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "relation",
		Aliases: []string{"rel"},
		Short:   "Manage relations between issues",
	}

	cmd.AddCommand(
		newRelationAddCmd(app),
		newRelationRemoveCmd(app),
		newRelationListCmd(app),
	)

	return cmd
}

func newRelationAddCmd(app *App) *cobra.Command {
	var relType string

	cmd := &cobra.Command{
		Use:   "add FROM TO",
		Short: "Create a relation; precedes takes its delay from the current gap",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseRelationType(relType)
			if err != nil {
				return err
			}
			rel, err := app.Planning.CreateRelation(context.Background(), args[0], args[1], t)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("%s %s %s", rel.FromID, formatter.RelationStyle(rel.Type).Render(string(rel.Type)), rel.ToID)
			if rel.Type == domain.RelationPrecedes {
				msg += formatter.Dim(fmt.Sprintf(" (delay %d)", rel.Delay))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created relation %s: %s\n", rel.ID, msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&relType, "type", string(domain.RelationPrecedes),
		"Relation type (precedes|blocks|relates|copied_to|duplicates)")

	return cmd
}

func newRelationRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a relation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planning.DeleteRelation(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed relation %s\n", args[0])
			return nil
		},
	}
}

func newRelationListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List relations; dangling ones are flagged",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rels, err := app.Planning.Relations(ctx)
			if err != nil {
				return err
			}
			dangling, err := app.Planning.Dangling(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRelations(rels, dangling))
			return nil
		},
	}
}
