package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
	"github.com/zeebo/blake3"
)

// Reference is the reference picture recorded for a stored step result.
type Reference struct {
	StepResultID int       `json:"step_result_id"`
	Path         string    `json:"path"`
	Checksum     string    `json:"checksum"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChecksumMismatchError reports a reference picture modified since it was recorded.
type ChecksumMismatchError struct {
	StepResultID int
	Path         string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("reference snapshot %s changed since it was recorded", e.Path)
}
func (e *ChecksumMismatchError) ErrorCode() string { return models.CodeReferenceChanged }
func (e *ChecksumMismatchError) Context() map[string]string {
	return map[string]string{"step_result_id": strconv.Itoa(e.StepResultID), "path": e.Path}
}
func (e *ChecksumMismatchError) SuggestedAction() string {
	return fmt.Sprintf("seleniumrobot reference add --step-result-id %d --path %s", e.StepResultID, e.Path)
}

func fileChecksum(path string) (string, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: reference paths are provided by the operator
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(b)
	return fmt.Sprintf("%x", sum[:]), nil
}

// PutReference records (or replaces) the reference picture of a step result.
func PutReference(ctx context.Context, db *sql.DB, stepResultID int, path string) (*Reference, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	sum, err := fileChecksum(abs)
	if err != nil {
		return nil, fmt.Errorf("read reference snapshot: %w", err)
	}

	err = Transact(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reference_snapshots (step_result_id, path, checksum, created_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(step_result_id) DO UPDATE SET
				path = excluded.path, checksum = excluded.checksum, created_at = CURRENT_TIMESTAMP
		`, stepResultID, abs, sum)
		if err != nil {
			return fmt.Errorf("failed to store reference snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetReference(ctx, db, stepResultID)
}

// GetReference loads the reference recorded for a step result.
func GetReference(ctx context.Context, db *sql.DB, stepResultID int) (*Reference, error) {
	var r Reference
	err := db.QueryRowContext(ctx, `
		SELECT step_result_id, path, checksum, created_at
		FROM reference_snapshots WHERE step_result_id = ?
	`, stepResultID).Scan(&r.StepResultID, &r.Path, &r.Checksum, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "reference snapshot", ID: strconv.Itoa(stepResultID)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reference snapshot: %w", err)
	}
	return &r, nil
}

// References serves reference pictures from the database to the error cause finder.
type References struct {
	DB *sql.DB
}

// ReferenceSnapshot returns the path of the reference of a step result, or ""
// when none is recorded. A picture that is gone or modified since it was
// recorded is an error.
func (r References) ReferenceSnapshot(ctx context.Context, stepResultID int) (string, error) {
	ref, err := GetReference(ctx, r.DB, stepResultID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	sum, err := fileChecksum(ref.Path)
	if err != nil {
		return "", fmt.Errorf("read reference snapshot: %w", err)
	}
	if sum != ref.Checksum {
		return "", &ChecksumMismatchError{StepResultID: stepResultID, Path: ref.Path}
	}
	return ref.Path, nil
}
