package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// ReferenceAdd records path as the reference picture of a step result. The
// picture must be readable by the image decoders.
func ReferenceAdd(ctx context.Context, db *sql.DB, stepResultID int, path string) (*store.Reference, error) {
	if stepResultID < 0 {
		return nil, errors.New("step result id must not be negative")
	}
	if path == "" {
		return nil, errors.New("reference path is required")
	}
	if _, err := fielddetector.LoadImage(path); err != nil {
		return nil, fmt.Errorf("reference is not a readable picture: %w", err)
	}
	return store.PutReference(ctx, db, stepResultID, path)
}

// ReferenceGet returns the reference recorded for a step result.
func ReferenceGet(ctx context.Context, db *sql.DB, stepResultID int) (*store.Reference, error) {
	return store.GetReference(ctx, db, stepResultID)
}
