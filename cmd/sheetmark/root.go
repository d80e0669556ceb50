package main

import (
	"sheetmark/adapters/excel"
	"sheetmark/adapters/notify"
	"sheetmark/adapters/postgres"
	"sheetmark/adapters/schemefile"
	"sheetmark/app"
	"sheetmark/internal/config"
	"sheetmark/ports"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// appContext bundles the dependencies every subcommand assembles its
// service from.
type appContext struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd(cfg *config.Config, log zerolog.Logger) *cobra.Command {
	appCtx := &appContext{cfg: cfg, log: log}

	cmd := &cobra.Command{
		Use:           "sheetmark",
		Short:         "Grade spreadsheet assignments against an answer key",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newGradeCmd(appCtx),
		newBatchCmd(appCtx),
		newServeCmd(appCtx),
		newSchemeCmd(appCtx),
	)
	return cmd
}

// service builds the grading service. The result store is attached only
// when a database is configured; withNotify controls whether graded
// submissions are announced.
func (a *appContext) service(withNotify bool) (*app.GradingService, error) {
	var results ports.ResultStore
	if a.cfg.Database.Enabled {
		db, err := postgres.Connect(a.cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		results = postgres.NewResultStore(db)
	}

	var notifier ports.SubmissionNotifier
	if withNotify {
		notifier = notify.NewConsole(a.log)
	}

	return app.NewGradingService(
		excel.NewLoader(),
		a.schemes(),
		results,
		notifier,
		excel.NewAnnotator(a.log),
		a.log,
	), nil
}

func (a *appContext) schemes() ports.SchemeStore {
	return schemefile.NewStore(a.cfg.Grading.SchemesDir)
}
