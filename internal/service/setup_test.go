package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *sql.DB
	teamRepo    *repository.SQLiteTeamRepo
	setRepo     *repository.SQLiteTestCaseSetRepo
	sectionRepo *repository.SQLiteSectionRepo
	caseRepo    *repository.SQLiteTestCaseRepo
	uow         db.UnitOfWork
	observer    *recordingObserver

	teams    TeamService
	sets     TestCaseSetService
	sections SectionService
	cases    TestCaseService
	imports  ImportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:          database,
		teamRepo:    repository.NewSQLiteTeamRepo(database),
		setRepo:     repository.NewSQLiteTestCaseSetRepo(database),
		sectionRepo: repository.NewSQLiteSectionRepo(database),
		caseRepo:    repository.NewSQLiteTestCaseRepo(database),
		uow:         testutil.NewTestUoW(database),
		observer:    &recordingObserver{},
	}
	env.teams = NewTeamService(env.teamRepo, env.observer)
	env.sets = NewTestCaseSetService(env.teamRepo, env.setRepo, env.uow, env.observer)
	env.sections = NewSectionService(env.setRepo, env.sectionRepo, env.uow, env.observer)
	env.cases = NewTestCaseService(env.caseRepo, env.sectionRepo, env.observer)
	env.imports = NewImportService(env.uow, env.observer)
	return env
}

// newSet creates a team and a set through the services, so the set owns
// its Unassigned section.
func (e *testEnv) newSet(t *testing.T) *domain.TestCaseSet {
	t.Helper()
	ctx := context.Background()
	team := &domain.Team{Name: "QA"}
	require.NoError(t, e.teams.Create(ctx, team))
	set := &domain.TestCaseSet{TeamID: team.ID, Name: "Regression"}
	require.NoError(t, e.sets.Create(ctx, set))
	return set
}

func (e *testEnv) addSection(t *testing.T, setID, name string, parent *domain.Section) *domain.Section {
	t.Helper()
	sec := &domain.Section{SetID: setID, Name: name}
	if parent != nil {
		sec.ParentID = &parent.ID
	}
	require.NoError(t, e.sections.Create(context.Background(), sec))
	return sec
}

func (e *testEnv) addCase(t *testing.T, setID, sectionID, title string) *domain.TestCase {
	t.Helper()
	tc := &domain.TestCase{SetID: setID, SectionID: sectionID, Title: title}
	require.NoError(t, e.cases.Create(context.Background(), tc))
	return tc
}

// shape renders a set's tree as "name(sort_order)" lines indented by level.
func (e *testEnv) shape(t *testing.T, setID string) []string {
	t.Helper()
	roots, err := e.sections.Tree(context.Background(), setID)
	require.NoError(t, err)

	var out []string
	var walk func(nodes []*domain.Section, indent string)
	walk = func(nodes []*domain.Section, indent string) {
		for _, n := range nodes {
			out = append(out, indent+n.Name)
			walk(n.Children, indent+"  ")
		}
	}
	walk(roots, "")
	return out
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}
