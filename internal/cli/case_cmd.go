package cli

import (
	"fmt"

	"github.com/alexanderramin/testdeck/internal/cli/formatter"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/spf13/cobra"
)

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage test cases in the selected set",
	}

	cmd.AddCommand(
		newCaseAddCmd(app),
		newCaseListCmd(app),
		newCaseMoveCmd(app),
	)

	return cmd
}

func newCaseAddCmd(app *App) *cobra.Command {
	var section, priority, ticket, number string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a test case (in Unassigned unless --section is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLocal("case add"); err != nil {
				return err
			}
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}

			tc := &domain.TestCase{
				SetID:     setID,
				Number:    number,
				Title:     args[0],
				Priority:  domain.Priority(priority),
				TCGTicket: ticket,
			}
			if section != "" {
				sec, _, err := app.lookupSection(ctx, setID, section)
				if err != nil {
					return err
				}
				tc.SectionID = sec.ID
			}
			if err := app.Cases.Create(ctx, tc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created test case %s (%s)\n", tc.Title, tc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Section id, id prefix or name")
	cmd.Flags().StringVar(&priority, "priority", "", "high|medium|low (default medium)")
	cmd.Flags().StringVar(&ticket, "tcg", "", "Linked TCG ticket")
	cmd.Flags().StringVar(&number, "number", "", "Human facing case number")
	return cmd
}

func newCaseListCmd(app *App) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List test cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLocal("case list"); err != nil {
				return err
			}
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			sections, err := app.Sections.List(ctx, setID)
			if err != nil {
				return err
			}

			var cases []*domain.TestCase
			if section != "" {
				sec, err := resolveSection(sections, section)
				if err != nil {
					return err
				}
				cases, err = app.Cases.ListBySection(ctx, sec.ID)
				if err != nil {
					return err
				}
			} else {
				cases, err = app.Cases.ListBySet(ctx, setID)
				if err != nil {
					return err
				}
			}
			if len(cases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No test cases."))
				return nil
			}

			names := make(map[string]string, len(sections))
			for _, s := range sections {
				names[s.ID] = s.Name
			}
			rows := make([][]string, 0, len(cases))
			for _, c := range cases {
				rows = append(rows, []string{
					formatter.TruncID(c.ID),
					c.Number,
					formatter.PadRight(c.Title, 48),
					formatter.PriorityPill(c.Priority),
					names[c.SectionID],
					c.TCGTicket,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "NUMBER", "TITLE", "PRIORITY", "SECTION", "TCG"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Only cases in this section")
	return cmd
}

func newCaseMoveCmd(app *App) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "move CASE_ID",
		Short: "Move a test case to another section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLocal("case move"); err != nil {
				return err
			}
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			sec, _, err := app.lookupSection(ctx, setID, section)
			if err != nil {
				return err
			}
			tc, err := app.Cases.MoveToSection(ctx, args[0], sec.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", tc.Title, sec.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Target section id, id prefix or name")
	_ = cmd.MarkFlagRequired("section")
	return cmd
}
