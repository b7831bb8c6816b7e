package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/testdeck/internal/apiclient"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/sectiontree"
	"github.com/alexanderramin/testdeck/internal/service"
)

var (
	errNoSet  = errors.New("no test case set selected (use --set or `testdeck set use ID`)")
	errNoTeam = errors.New("no team selected (use --team or `testdeck set use ID`)")

	errNeedsYes = errors.New("not a terminal; pass --yes to confirm")
)

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// requireLocal fails for commands that need the local database while the
// CLI runs against a remote server.
func (a *App) requireLocal(what string) error {
	if a.Remote != nil || a.Teams == nil {
		return fmt.Errorf("%s needs the local database and is not available with --api-url", what)
	}
	return nil
}

func (a *App) currentSet() (string, error) {
	if a.Config == nil || strings.TrimSpace(a.Config.CurrentSet) == "" {
		return "", errNoSet
	}
	return strings.TrimSpace(a.Config.CurrentSet), nil
}

// currentTeam returns the selected team's id. Locally the selection may
// also be a team name.
func (a *App) currentTeam(ctx context.Context) (string, error) {
	if a.Config == nil || strings.TrimSpace(a.Config.CurrentTeam) == "" {
		return "", errNoTeam
	}
	ref := strings.TrimSpace(a.Config.CurrentTeam)
	if a.Remote != nil {
		return ref, nil
	}
	team, err := a.Teams.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolving team %q: %w", ref, err)
	}
	return team.ID, nil
}

// sectionStore is what the reorder editor loads from and saves to.
func (a *App) sectionStore() sectiontree.Store {
	if a.Remote != nil {
		return apiclient.SectionStore{Client: a.Remote}
	}
	return serviceStore{sections: a.Sections}
}

type serviceStore struct {
	sections service.SectionService
}

func (s serviceStore) ListSections(ctx context.Context, setID string) ([]domain.Section, error) {
	sections, err := s.sections.List(ctx, setID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Section, len(sections))
	for i, sec := range sections {
		out[i] = *sec
	}
	return out, nil
}

func (s serviceStore) ReorderSections(ctx context.Context, setID string, orders []domain.SectionOrder) error {
	return s.sections.Reorder(ctx, setID, orders)
}

// resolveSection matches ref against section ids, unique id prefixes and
// names (case-insensitive), in that order.
func resolveSection(sections []*domain.Section, ref string) (*domain.Section, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("section reference is empty")
	}
	for _, s := range sections {
		if s.ID == ref {
			return s, nil
		}
	}

	var matches []*domain.Section
	for _, s := range sections {
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		for _, s := range sections {
			if strings.EqualFold(s.Name, ref) {
				matches = append(matches, s)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no section matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d sections; use a longer id", ref, len(matches))
	}
}

// lookupSection lists the current set and resolves ref in it.
func (a *App) lookupSection(ctx context.Context, setID, ref string) (*domain.Section, []*domain.Section, error) {
	sections, err := a.Sections.List(ctx, setID)
	if err != nil {
		return nil, nil, err
	}
	sec, err := resolveSection(sections, ref)
	if err != nil {
		return nil, nil, err
	}
	return sec, sections, nil
}
