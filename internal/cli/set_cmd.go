package cli

import (
	"fmt"

	"github.com/alexanderramin/testdeck/internal/cli/formatter"
	"github.com/alexanderramin/testdeck/internal/config"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage test case sets",
	}

	cmd.AddCommand(
		newSetAddCmd(app),
		newSetListCmd(app),
		newSetUseCmd(app),
	)

	return cmd
}

func newSetAddCmd(app *App) *cobra.Command {
	var description string
	var isDefault bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a test case set in the selected team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			teamID, err := app.currentTeam(ctx)
			if err != nil {
				return err
			}

			var set *domain.TestCaseSet
			if app.Remote != nil {
				created, err := app.Remote.CreateSet(ctx, teamID, args[0], description)
				if err != nil {
					return err
				}
				set = created
			} else {
				set = &domain.TestCaseSet{TeamID: teamID, Name: args[0], Description: description, IsDefault: isDefault}
				if err := app.Sets.Create(ctx, set); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created test case set %s (%s)\n", set.Name, set.ID)
			fmt.Fprintln(out, formatter.Dim("Select it with `testdeck set use "+set.ID+"`."))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Set description")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Mark as the team's default set")
	return cmd
}

func newSetListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the selected team's test case sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			teamID, err := app.currentTeam(ctx)
			if err != nil {
				return err
			}

			var sets []*domain.TestCaseSet
			if app.Remote != nil {
				sets, err = app.Remote.ListSets(ctx, teamID)
			} else {
				sets, err = app.Sets.ListByTeam(ctx, teamID)
			}
			if err != nil {
				return err
			}
			if len(sets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No test case sets in this team."))
				return nil
			}

			rows := make([][]string, 0, len(sets))
			for _, s := range sets {
				marker := " "
				if s.ID == app.Config.CurrentSet {
					marker = formatter.StyleGreen.Render("*")
				}
				def := ""
				if s.IsDefault {
					def = "default"
				}
				rows = append(rows, []string{marker, s.ID, s.Name, def})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"", "ID", "NAME", ""}, rows))
			return nil
		},
	}
}

// newSetUseCmd persists the team and set selection to the config file.
func newSetUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use SET_ID",
		Short: "Select the test case set later commands work on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			teamID, setID, name := app.Config.CurrentTeam, args[0], args[0]
			if app.Remote == nil {
				set, err := app.Sets.GetByID(ctx, args[0])
				if err != nil {
					return err
				}
				teamID, setID, name = set.TeamID, set.ID, set.Name
			}

			if err := config.SaveSelection(app.Config.Path(), teamID, setID); err != nil {
				return err
			}
			app.Config.CurrentTeam = teamID
			app.Config.CurrentSet = setID
			fmt.Fprintf(cmd.OutOrStdout(), "Now using test case set %s\n", name)
			return nil
		},
	}
}
