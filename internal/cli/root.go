package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/config"
	"github.com/alexanderramin/plangraph/internal/service"
)

// App holds the services used by CLI commands.
type App struct {
	Planning service.PlanningService
	// Clock anchors relative dates in listings; nil means the wall clock.
	Clock calendar.Clock
}

func (a *App) today() time.Time {
	return calendar.Today(a.Clock)
}

// NewRootCmd creates the top-level "plangraph" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "plangraph",
		Short: "Reschedule issues through their dependency and containment graph",
	}

	// Read by main before the App is built; declared here so cobra accepts it.
	root.PersistentFlags().String("config", config.DefaultPath(), "Path to the YAML config file")

	root.AddCommand(
		newImportCmd(app),
		newShowCmd(app),
		newIssueCmd(app),
		newMoveCmd(app),
		newDragCmd(app),
		newLimitsCmd(app),
		newRelationCmd(app),
	)

	return root
}
