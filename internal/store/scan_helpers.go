package store

import (
	"encoding/json"
	"fmt"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// resultColumns is the column list scanned by resultRowScanner.
const resultColumns = `id, suite, class_name, method, status, failure_category, retries, no_more_retry,
	searched_last_step, searched_reference, steps, created_at, updated_at`

// resultRowScanner encapsulates the common test result row scanning logic.
type resultRowScanner struct {
	result models.TestResult
	steps  string
}

func (s *resultRowScanner) scan(row interface {
	Scan(dest ...any) error
}) error {
	return row.Scan(
		&s.result.ID,
		&s.result.Suite,
		&s.result.ClassName,
		&s.result.Method,
		&s.result.Status,
		&s.result.FailureCategory,
		&s.result.Retries,
		&s.result.NoMoreRetry,
		&s.result.SearchedLastStep,
		&s.result.SearchedReference,
		&s.steps,
		&s.result.CreatedAt,
		&s.result.UpdatedAt,
	)
}

func (s *resultRowScanner) hydrate() error {
	if s.steps == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s.steps), &s.result.Steps); err != nil {
		return fmt.Errorf("decode steps of %s: %w", s.result.ID, err)
	}
	return nil
}

// scanResultRow scans and hydrates a test result from a single row.
func scanResultRow(row interface {
	Scan(dest ...any) error
}) (*models.TestResult, error) {
	scanner := &resultRowScanner{}
	if err := scanner.scan(row); err != nil {
		return nil, err
	}
	if err := scanner.hydrate(); err != nil {
		return nil, err
	}
	return &scanner.result, nil
}
