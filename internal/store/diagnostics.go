package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RunDiagnostics performs consistency checks and returns findings.
func RunDiagnostics(ctx context.Context, db *sql.DB) ([]Diagnostic, error) {
	diags := []Diagnostic{}

	refs, err := checkReferences(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("reference snapshot check: %w", err)
	}
	diags = append(diags, refs...)

	unanalyzed, err := findUnanalyzedFailures(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("unanalyzed failure check: %w", err)
	}
	diags = append(diags, unanalyzed...)

	return diags, nil
}

// checkReferences finds reference pictures that are gone or modified.
func checkReferences(ctx context.Context, db *sql.DB) ([]Diagnostic, error) {
	rows, err := db.QueryContext(ctx, `SELECT step_result_id, path, checksum FROM reference_snapshots ORDER BY step_result_id`)
	if err != nil {
		return nil, err
	}

	type ref struct {
		id             int
		path, checksum string
	}
	var refs []ref
	func() {
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var r ref
			if scanErr := rows.Scan(&r.id, &r.path, &r.checksum); scanErr != nil {
				err = scanErr
				return
			}
			refs = append(refs, r)
		}
		err = rows.Err()
	}()
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	for _, r := range refs {
		sum, sumErr := fileChecksum(r.path)
		switch {
		case errors.Is(sumErr, os.ErrNotExist):
			diags = append(diags, Diagnostic{
				Level:           "error",
				Code:            models.CodeReferenceMissing,
				Message:         fmt.Sprintf("reference snapshot of step result %d is missing: %s", r.id, r.path),
				SuggestedAction: "seleniumrobot reference add --step-result-id " + strconv.Itoa(r.id) + " --path <picture>",
			})
		case sumErr != nil:
			return nil, sumErr
		case sum != r.checksum:
			mismatch := &ChecksumMismatchError{StepResultID: r.id, Path: r.path}
			diags = append(diags, Diagnostic{
				Level:           "warning",
				Code:            mismatch.ErrorCode(),
				Message:         mismatch.Error(),
				SuggestedAction: mismatch.SuggestedAction(),
			})
		}
	}
	return diags, nil
}

// findUnanalyzedFailures finds failed results that will not be retried and
// whose error causes were never searched.
func findUnanalyzedFailures(ctx context.Context, db *sql.DB) ([]Diagnostic, error) {
	ids, err := queryStringColumn(ctx, db, `
		SELECT id FROM test_results
		WHERE status = 'failed' AND no_more_retry = 1
		  AND searched_last_step = 0 AND searched_reference = 0
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	for _, id := range ids {
		diags = append(diags, Diagnostic{
			Level:           "warning",
			Code:            models.CodeUnanalyzedFailure,
			Message:         "failed test result " + id + " has no error cause search",
			SuggestedAction: "seleniumrobot analyze --result " + id,
		})
	}
	return diags, nil
}
