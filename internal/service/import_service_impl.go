package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/domain"
	"github.com/alexanderramin/testdeck/internal/importer"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/google/uuid"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService builds the importer. All writes of one document share a
// transaction; a failure leaves nothing behind.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportSet(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadSetSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportSetFromSchema(ctx context.Context, schema *importer.SetSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.SetSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"team": schema.Set.Team, "set": schema.Set.Name}
	defer func() { observe(ctx, s.observer, "import-set", startedAt, fields, err) }()

	if errs := importer.ValidateSetSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		teams := repository.NewSQLiteTeamRepo(tx)
		team, err := teams.GetByName(ctx, schema.Set.Team)
		if errors.Is(err, repository.ErrNotFound) {
			now := time.Now().UTC()
			team = &domain.Team{
				ID:        uuid.New().String(),
				Name:      schema.Set.Team,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := team.Validate(); err != nil {
				return validationErrorf("%v", err)
			}
			err = teams.Create(ctx, team)
		}
		if err != nil {
			return fmt.Errorf("resolving team %q: %w", schema.Set.Team, err)
		}

		generated, err := importer.Convert(schema, team.ID)
		if err != nil {
			return fmt.Errorf("converting import schema: %w", err)
		}

		if err := repository.NewSQLiteTestCaseSetRepo(tx).Create(ctx, generated.Set); err != nil {
			return fmt.Errorf("creating test case set: %w", err)
		}
		sections := repository.NewSQLiteSectionRepo(tx)
		for _, sec := range generated.Sections {
			if err := sections.Create(ctx, sec); err != nil {
				return fmt.Errorf("creating section %q: %w", sec.Name, err)
			}
		}
		cases := repository.NewSQLiteTestCaseRepo(tx)
		for _, tc := range generated.TestCases {
			if err := cases.Create(ctx, tc); err != nil {
				return fmt.Errorf("creating test case %q: %w", tc.Title, err)
			}
		}

		result = &ImportResult{
			Team:          team,
			Set:           generated.Set,
			SectionCount:  len(generated.Sections),
			TestCaseCount: len(generated.TestCases),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["sections"] = result.SectionCount
	fields["test_cases"] = result.TestCaseCount
	return result, nil
}
