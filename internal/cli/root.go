package cli

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/testdeck/internal/apiclient"
	"github.com/alexanderramin/testdeck/internal/config"
	"github.com/alexanderramin/testdeck/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
// In remote mode Sections talks to a testdeck server and the local-only
// services stay nil.
type App struct {
	Teams    service.TeamService
	Sets     service.TestCaseSetService
	Sections service.SectionService
	Cases    service.TestCaseService
	Import   service.ImportService

	// Remote is set when --api-url points at a testdeck server.
	Remote *apiclient.Client

	Config *config.Config
	Logger *slog.Logger

	// Setup wires the services once flags are parsed. Tests leave it nil
	// and wire the App up front.
	Setup func(ctx context.Context) error

	IsInteractive func() bool
	// Confirm asks a yes/no question; nil uses a huh form.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "testdeck" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "testdeck",
		Short:         "Test case manager with a hierarchical section tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(cmd.Context())
		},
	}
	if app.Config != nil {
		app.Config.BindFlags(root.PersistentFlags())
	}

	root.AddCommand(
		newServeCmd(app),
		newTeamCmd(app),
		newSetCmd(app),
		newCaseCmd(app),
		newSectionCmd(app),
	)

	return root
}
