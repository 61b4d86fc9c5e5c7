package commands

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bhecquet/seleniumRobot-sub010/internal/actions"
	"github.com/bhecquet/seleniumRobot-sub010/internal/analysis"
	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/retry"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

func (e printedError) Unwrap() error { return e.err }

func openDB() (*DB, func(), error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.InitDBWithPath(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

func withDB(fn func(db *DB) error) error {
	db, closeDB, err := openDB()
	if err != nil {
		return cmdErr(err)
	}
	defer closeDB()

	if err := fn(db); err != nil {
		return cmdErr(err)
	}
	return nil
}

// withFinder opens the database and connects to the detection service.
func withFinder(ctx context.Context, fn func(db *DB, finder *analysis.Finder) error) error {
	return withDB(func(db *DB) error {
		settings := app.EffectiveAnalysisSettings()
		detector, err := actions.NewDetector(ctx, settings)
		if err != nil {
			return err
		}
		return fn(db, actions.NewFinder(db, detector, settings))
	})
}

func withDetector(ctx context.Context, fn func(detector fielddetector.Detector, settings app.AnalysisSettings) error) error {
	settings := app.EffectiveAnalysisSettings()
	detector, err := actions.NewDetector(ctx, settings)
	if err != nil {
		return cmdErr(err)
	}
	if err := fn(detector, settings); err != nil {
		return cmdErr(err)
	}
	return nil
}

func newAnalyzer() *retry.Analyzer {
	return retry.NewAnalyzer(app.EffectiveAnalysisSettings().MaxRetry)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	attrs := []any{"error", err.Error()}
	type slogAttrError interface {
		SlogAttrs() []any
	}
	var detailed slogAttrError
	if errors.As(err, &detailed) {
		attrs = append(attrs, detailed.SlogAttrs()...)
	}
	type codedError interface {
		ErrorCode() string
		SuggestedAction() string
	}
	var coded codedError
	if errors.As(err, &coded) {
		attrs = append(attrs, "error_code", coded.ErrorCode(), "suggested_action", coded.SuggestedAction())
	}
	slog.Error("command error", attrs...)
	return printedError{err: err}
}
