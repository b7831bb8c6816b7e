package cli

import (
	"fmt"

	"github.com/alexanderramin/testdeck/internal/cli/formatter"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}

	cmd.AddCommand(
		newTeamAddCmd(app),
		newTeamListCmd(app),
		newTeamRemoveCmd(app),
	)

	return cmd
}

func newTeamAddCmd(app *App) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var team *domain.Team
			if app.Remote != nil {
				created, err := app.Remote.CreateTeam(ctx, args[0], description)
				if err != nil {
					return err
				}
				team = created
			} else {
				team = &domain.Team{Name: args[0], Description: description}
				if err := app.Teams.Create(ctx, team); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %s (%s)\n", team.Name, team.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Team description")
	return cmd
}

func newTeamListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				teams []*domain.Team
				err   error
			)
			if app.Remote != nil {
				teams, err = app.Remote.ListTeams(ctx)
			} else {
				teams, err = app.Teams.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No teams yet. Create one with `testdeck team add NAME`."))
				return nil
			}

			current := ""
			if app.Config != nil {
				current = app.Config.CurrentTeam
			}
			rows := make([][]string, 0, len(teams))
			for _, t := range teams {
				marker := " "
				if current != "" && (t.ID == current || t.Name == current) {
					marker = formatter.StyleGreen.Render("*")
				}
				rows = append(rows, []string{marker, t.ID, t.Name, t.Description})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"", "ID", "NAME", "DESCRIPTION"}, rows))
			return nil
		},
	}
}

func newTeamRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID|NAME",
		Short: "Delete a team with all of its test case sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLocal("team remove"); err != nil {
				return err
			}
			ctx := cmd.Context()
			team, err := app.Teams.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := app.confirm(fmt.Sprintf("Delete team %q with all of its sets and test cases?", team.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Teams.Delete(ctx, team.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted team %s\n", team.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
