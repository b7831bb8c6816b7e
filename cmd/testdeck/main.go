package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/testdeck/internal/apiclient"
	"github.com/alexanderramin/testdeck/internal/cli"
	"github.com/alexanderramin/testdeck/internal/config"
	"github.com/alexanderramin/testdeck/internal/db"
	"github.com/alexanderramin/testdeck/internal/logging"
	"github.com/alexanderramin/testdeck/internal/repository"
	"github.com/alexanderramin/testdeck/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	app := &cli.App{Config: cfg}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Flags are parsed by the time Setup runs, so cfg holds the final values.
	app.Setup = func(ctx context.Context) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, logCloser, err := logging.Init(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		closers = append(closers, logCloser)
		app.Logger = logger

		if cfg.Remote() {
			client := apiclient.New(cfg.APIURL, cfg.APIToken, apiclient.WithLogger(logger))
			app.Remote = client
			app.Sections = apiclient.RemoteSections{Client: client}
			logger.Debug("using remote testdeck server", "url", cfg.APIURL)
			return nil
		}

		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		closers = append(closers, database)

		// Wire repositories
		teamRepo := repository.NewSQLiteTeamRepo(database)
		setRepo := repository.NewSQLiteTestCaseSetRepo(database)
		sectionRepo := repository.NewSQLiteSectionRepo(database)
		caseRepo := repository.NewSQLiteTestCaseRepo(database)

		uow := db.NewSQLiteUnitOfWork(database)
		observer := service.NewLogUseCaseObserver(logger)

		app.Teams = service.NewTeamService(teamRepo, observer)
		app.Sets = service.NewTestCaseSetService(teamRepo, setRepo, uow, observer)
		app.Sections = service.NewSectionService(setRepo, sectionRepo, uow, observer)
		app.Cases = service.NewTestCaseService(caseRepo, sectionRepo, observer)
		app.Import = service.NewImportService(uow, observer)
		return nil
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
