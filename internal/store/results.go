package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// CreateResult inserts a test result and returns it as stored. An empty ID
// gets a fresh ULID.
func CreateResult(ctx context.Context, db *sql.DB, r *models.TestResult) (*models.TestResult, error) {
	if strings.TrimSpace(r.Method) == "" {
		return nil, errors.New("test method is required")
	}
	if !r.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", r.Status)
	}
	steps, err := encodeSteps(r.Steps)
	if err != nil {
		return nil, err
	}

	id := r.ID
	if id == "" {
		id = newResultID()
	}

	return TransactValue(ctx, db, func(tx *sql.Tx) (*models.TestResult, error) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO test_results (id, suite, class_name, method, status, failure_category, retries,
				no_more_retry, searched_last_step, searched_reference, steps, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`, id, r.Suite, r.ClassName, r.Method, r.Status, r.FailureCategory, r.Retries,
			r.NoMoreRetry, r.SearchedLastStep, r.SearchedReference, steps)
		if err != nil {
			return nil, fmt.Errorf("failed to insert test result: %w", err)
		}
		return getResult(ctx, tx, id)
	})
}

// GetResult loads a test result by id.
func GetResult(ctx context.Context, db *sql.DB, id string) (*models.TestResult, error) {
	return getResult(ctx, db, id)
}

func getResult(ctx context.Context, q Querier, id string) (*models.TestResult, error) {
	row := q.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM test_results WHERE id = ?`, id)
	r, err := scanResultRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "test result", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}
	return r, nil
}

// ResultFilter narrows ListResults. Zero values match everything.
type ResultFilter struct {
	Suite     string
	ClassName string
	Method    string
	Status    models.ResultStatus
	Limit     int
}

// ListResults returns matching results, newest first.
func ListResults(ctx context.Context, db *sql.DB, f ResultFilter) ([]*models.TestResult, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE 1=1`
	var args []any
	if f.Suite != "" {
		query += ` AND suite = ?`
		args = append(args, f.Suite)
	}
	if f.ClassName != "" {
		query += ` AND class_name = ?`
		args = append(args, f.ClassName)
	}
	if f.Method != "" {
		query += ` AND method = ?`
		args = append(args, f.Method)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []*models.TestResult{}
	for rows.Next() {
		r, err := scanResultRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListSuites returns the distinct suite names recorded.
func ListSuites(ctx context.Context, db *sql.DB) ([]string, error) {
	return queryStringColumn(ctx, db, `SELECT DISTINCT suite FROM test_results ORDER BY suite`)
}

// RetryState is the stored retry counter of a result.
type RetryState struct {
	Retries     int
	NoMoreRetry bool
	Category    string
}

// UpdateRetryState stores the retry counter of a result.
func UpdateRetryState(ctx context.Context, db *sql.DB, id string, retries int, noMoreRetry bool, category string) error {
	return Transact(ctx, db, func(tx *sql.Tx) error {
		return updateRetryState(ctx, tx, id, RetryState{Retries: retries, NoMoreRetry: noMoreRetry, Category: category})
	})
}

// DecideRetryState reads result id, lets decide compute the next retry state
// from it and stores that state, all in one transaction. Concurrent deciders
// on the same result see each other's writes. decide runs again when the
// transaction is retried on a busy database, so it must not keep state
// across calls.
func DecideRetryState(ctx context.Context, db *sql.DB, id string, decide func(r *models.TestResult) (RetryState, error)) error {
	return Transact(ctx, db, func(tx *sql.Tx) error {
		r, err := getResult(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := decide(r)
		if err != nil {
			return err
		}
		return updateRetryState(ctx, tx, id, next)
	})
}

func updateRetryState(ctx context.Context, q Querier, id string, s RetryState) error {
	res, err := q.ExecContext(ctx, `
		UPDATE test_results
		SET retries = ?, no_more_retry = ?, failure_category = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, s.Retries, s.NoMoreRetry, s.Category, id)
	if err != nil {
		return fmt.Errorf("failed to update retry state: %w", err)
	}
	return requireRow(res, "test result", id)
}

// SaveAnalysis stores the search flags of r and appends causes in one transaction.
func SaveAnalysis(ctx context.Context, db *sql.DB, r *models.TestResult, causes []models.ErrorCause) error {
	return Transact(ctx, db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE test_results
			SET searched_last_step = ?, searched_reference = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, r.SearchedLastStep, r.SearchedReference, r.ID)
		if err != nil {
			return fmt.Errorf("failed to update search flags: %w", err)
		}
		if err := requireRow(res, "test result", r.ID); err != nil {
			return err
		}
		return insertCauses(ctx, tx, r.ID, causes)
	})
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func encodeSteps(steps []models.Step) (string, error) {
	if steps == nil {
		steps = []models.Step{}
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("encode steps: %w", err)
	}
	return string(b), nil
}
