package store

import (
	"context"
	"database/sql"
	"fmt"
)

// StatusCounts holds summary counts of what the database tracks.
type StatusCounts struct {
	Results    ResultStatusCounts `json:"results"`
	Causes     map[string]int     `json:"causes"`
	References int                `json:"references"`
}

// ResultStatusCounts breaks down test results by status.
type ResultStatusCounts struct {
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	NoMoreRetry int `json:"no_more_retry"`
}

// GetStatusCounts returns summary counts.
func GetStatusCounts(ctx context.Context, db *sql.DB) (*StatusCounts, error) {
	counts := &StatusCounts{Causes: map[string]int{}}

	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'passed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(no_more_retry), 0)
		FROM test_results
	`).Scan(&counts.Results.Passed, &counts.Results.Failed, &counts.Results.Skipped, &counts.Results.NoMoreRetry)
	if err != nil {
		return nil, fmt.Errorf("failed to count test results: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT type, COUNT(*) FROM error_causes GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count error causes: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("failed to scan cause count: %w", err)
		}
		counts.Causes[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reference_snapshots`).Scan(&counts.References); err != nil {
		return nil, fmt.Errorf("failed to count reference snapshots: %w", err)
	}
	return counts, nil
}
