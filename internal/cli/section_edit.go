package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/testdeck/internal/cli/formatter"
	"github.com/alexanderramin/testdeck/internal/savequeue"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// editOp is one scripted step of `section edit --ops`.
type editOp struct {
	verb string
	ref  string
}

var editVerbs = map[string]bool{"up": true, "down": true, "in": true, "out": true}

func parseEditOps(raw []string) ([]editOp, error) {
	ops := make([]editOp, 0, len(raw))
	for _, s := range raw {
		verb, ref, ok := strings.Cut(strings.TrimSpace(s), ":")
		verb = strings.ToLower(strings.TrimSpace(verb))
		if !ok || !editVerbs[verb] || strings.TrimSpace(ref) == "" {
			return nil, fmt.Errorf("invalid op %q (use up:ID, down:ID, in:ID or out:ID)", s)
		}
		ops = append(ops, editOp{verb: verb, ref: strings.TrimSpace(ref)})
	}
	return ops, nil
}

func (op editOp) apply(ed *sectiontree.Editor, id string) error {
	var fn func(int) (int, error)
	switch op.verb {
	case "up":
		fn = ed.MoveUp
	case "down":
		fn = ed.MoveDown
	case "in":
		fn = ed.Indent
	case "out":
		fn = ed.Outdent
	}
	_, err := ed.MoveByID(id, fn)
	return err
}

// resolveRow matches ref against the editor rows the same way
// resolveSection matches stored sections.
func resolveRow(rows sectiontree.Rows, ref string) (string, error) {
	if i := rows.Index(ref); i >= 0 {
		return ref, nil
	}
	var matches []string
	for _, r := range rows {
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r.ID)
		}
	}
	if len(matches) == 0 {
		for _, r := range rows {
			if strings.EqualFold(r.Name, ref) {
				matches = append(matches, r.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no section matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d sections; use a longer id", ref, len(matches))
	}
}

// runEditOps applies every op to the staged rows, then saves them as one
// batch. Nothing is saved when an op fails.
func runEditOps(ctx context.Context, ed *sectiontree.Editor, ops []editOp) error {
	for i, op := range ops {
		id, err := resolveRow(ed.Rows(), op.ref)
		if err != nil {
			return fmt.Errorf("op %d (%s:%s): %w", i+1, op.verb, op.ref, err)
		}
		if err := op.apply(ed, id); err != nil {
			return fmt.Errorf("op %d (%s:%s): %w", i+1, op.verb, op.ref, err)
		}
	}
	return ed.Save(ctx)
}

func newSectionEditCmd(app *App) *cobra.Command {
	var opSpecs []string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Reorder sections interactively, or apply scripted --ops",
		Long: `Opens the reorder screen on a terminal. Moves are staged locally until
you press s, which saves the whole set's order as one batch.

Without a terminal, or with --ops, the listed steps are applied in order
and saved together at the end:

  testdeck section edit --ops up:ID,in:ID,out:ID,down:ID`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setID, err := app.currentSet()
			if err != nil {
				return err
			}
			ops, err := parseEditOps(opSpecs)
			if err != nil {
				return err
			}

			ed := sectiontree.NewEditor(setID, app.sectionStore(), app.logger())
			if err := ed.Load(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ops) > 0 || !app.interactive() {
				if len(ops) == 0 {
					return fmt.Errorf("not a terminal; pass --ops to reorder non-interactively")
				}
				if err := runEditOps(ctx, ed, ops); err != nil {
					return err
				}
				fmt.Fprint(out, formatter.RenderRows(ed.Rows()))
				return nil
			}

			q := savequeue.New(ctx, app.logger())
			m := newSectionEditorModel(app.setTitle(ctx, setID), ed, q)
			_, runErr := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			q.Close()
			if runErr != nil {
				return runErr
			}
			if ed.State() != sectiontree.StateClean {
				return fmt.Errorf("unsaved changes were discarded; section order was not saved")
			}
			fmt.Fprint(out, formatter.RenderRows(ed.Rows()))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opSpecs, "ops", nil, "Comma separated steps: up:ID, down:ID, in:ID, out:ID")
	return cmd
}
