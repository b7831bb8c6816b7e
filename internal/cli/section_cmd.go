package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/testdeck/internal/cli/formatter"
	"github.com/alexanderramin/testdeck/internal/config"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/spf13/cobra"
)

func newSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "section",
		Aliases: []string{"sec"},
		Short:   "Organise the selected set's section tree",
	}

	cmd.AddCommand(
		newSectionTreeCmd(app),
		newSectionFlattenCmd(app),
		newSectionAddCmd(app),
		newSectionRenameCmd(app),
		newSectionRemoveCmd(app),
		newSectionDragCmd(app),
		newSectionEditCmd(app),
		newSectionImportCmd(app),
	)

	return cmd
}

// setTitle is the set's name locally and its id in remote mode.
func (a *App) setTitle(ctx context.Context, setID string) string {
	if a.Sets != nil {
		if set, err := a.Sets.GetByID(ctx, setID); err == nil {
			return set.Name
		}
	}
	return setID
}

func newSectionTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the section tree with test case counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			roots, err := app.Sections.Tree(ctx, setID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderSectionTree(app.setTitle(ctx, setID), roots))
			return nil
		},
	}
}

func loadTree(ctx context.Context, app *App, setID string) (*sectiontree.Tree, error) {
	sections, err := app.sectionStore().ListSections(ctx, setID)
	if err != nil {
		return nil, err
	}
	return sectiontree.NewTree(sections)
}

func newSectionFlattenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "flatten",
		Short: "Print the depth-first, level-annotated section list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			tree, err := loadTree(cmd.Context(), app, setID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderRows(tree.Flatten()))
			return nil
		},
	}
}

func newSectionAddCmd(app *App) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a section as the last child of --parent (or at the top level)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			sec := &domain.Section{SetID: setID, Name: args[0]}
			if parent != "" {
				p, _, err := app.lookupSection(ctx, setID, parent)
				if err != nil {
					return err
				}
				sec.ParentID = &p.ID
			}
			if err := app.Sections.Create(ctx, sec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created section %s (%s)\n", sec.Name, sec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent section id, id prefix or name")
	return cmd
}

func newSectionRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename SECTION NAME",
		Short: "Rename a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			sec, _, err := app.lookupSection(ctx, setID, args[0])
			if err != nil {
				return err
			}
			renamed, err := app.Sections.Rename(ctx, setID, sec.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", sec.Name, renamed.Name)
			return nil
		},
	}
}

func newSectionRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove SECTION",
		Short: "Delete a section and its subsections; their test cases move to Unassigned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			sec, _, err := app.lookupSection(ctx, setID, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := app.confirm(fmt.Sprintf("Delete section %q and everything nested under it?", sec.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			moved, err := app.Sections.Delete(ctx, setID, sec.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %s; %s moved to %s\n",
				sec.Name, formatter.Plural(moved, "test case"), domain.UnassignedSectionName)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newSectionDragCmd(app *App) *cobra.Command {
	var target, drop string

	cmd := &cobra.Command{
		Use:   "drag SECTION --target SECTION --drop before|after|inside",
		Short: "Move a section relative to another and save the affected sibling groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			dropType, err := sectiontree.ParseDropType(drop)
			if err != nil {
				return err
			}
			sections, err := app.Sections.List(ctx, setID)
			if err != nil {
				return err
			}
			dragged, err := resolveSection(sections, args[0])
			if err != nil {
				return err
			}
			onto, err := resolveSection(sections, target)
			if err != nil {
				return err
			}

			values := make([]domain.Section, len(sections))
			for i, s := range sections {
				values[i] = *s
			}
			tree, err := sectiontree.NewTree(values)
			if err != nil {
				return err
			}
			payload, err := tree.ApplyDrag(dragged.ID, onto.ID, dropType)
			if err != nil {
				return err
			}

			if err := app.Sections.Reorder(ctx, setID, payload); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Moved %s %s %s (%s updated)\n", dragged.Name, dropType, onto.Name, formatter.Plural(len(payload), "section"))
			fmt.Fprint(out, formatter.RenderSectionTree(app.setTitle(ctx, setID), tree.Nested()))
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Drop target section")
	cmd.Flags().StringVar(&drop, "drop", "", "before|after|inside")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("drop")
	return cmd
}

func newSectionImportCmd(app *App) *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a test case set with its section tree from YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLocal("section import"); err != nil {
				return err
			}
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Importing "+args[0])
			}
			res, err := app.Import.ImportSet(cmd.Context(), args[0])
			stop()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s into team %s: %s, %s\n",
				res.Set.Name, res.Team.Name,
				formatter.Plural(res.SectionCount, "section"),
				formatter.Plural(res.TestCaseCount, "test case"))
			if use {
				if err := config.SaveSelection(app.Config.Path(), res.Team.ID, res.Set.ID); err != nil {
					return err
				}
				app.Config.CurrentTeam = res.Team.ID
				app.Config.CurrentSet = res.Set.ID
				fmt.Fprintf(out, "Now using test case set %s\n", res.Set.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "Select the imported set")
	return cmd
}
