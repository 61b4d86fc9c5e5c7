package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// StoredCause is an error cause as recorded for a test result.
type StoredCause struct {
	ID       int64  `json:"id"`
	ResultID string `json:"result_id"`
	models.ErrorCause
}

func insertCauses(ctx context.Context, tx *sql.Tx, resultID string, causes []models.ErrorCause) error {
	for _, c := range causes {
		stepName := c.StepName
		if c.Step != nil {
			stepName = c.Step.Name
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO error_causes (result_id, type, description, step_name, created_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		`, resultID, c.Type, c.Description, stepName); err != nil {
			return fmt.Errorf("failed to insert error cause: %w", err)
		}
	}
	return nil
}

// ListCauses returns the causes recorded for a result in insertion order.
func ListCauses(ctx context.Context, db *sql.DB, resultID string) ([]StoredCause, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, result_id, type, description, step_name
		FROM error_causes WHERE result_id = ? ORDER BY id
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to list error causes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []StoredCause{}
	for rows.Next() {
		var c StoredCause
		if err := rows.Scan(&c.ID, &c.ResultID, &c.Type, &c.Description, &c.StepName); err != nil {
			return nil, fmt.Errorf("failed to scan error cause: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
