package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
	"github.com/bhecquet/seleniumRobot-sub010/internal/retry"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// RetryDecision is the answer given to the test runner for one attempt.
type RetryDecision struct {
	ResultID      string `json:"result_id"`
	Test          string `json:"test"`
	Retry         bool   `json:"retry"`
	Attempt       int    `json:"attempt"`
	MaxRetries    int    `json:"max_retries"`
	Category      string `json:"category"`
	Retries       int    `json:"retries"`
	NoMoreRetry   bool   `json:"no_more_retry"`
	WillBeRetried bool   `json:"will_be_retried"`
}

// retryInput loads the result and what the analyzer needs to decide on it.
// A non-empty category overrides the one recorded with the result.
func retryInput(ctx context.Context, db *sql.DB, id, category string) (*models.TestResult, retry.Outcome, retry.State, error) {
	if id == "" {
		return nil, retry.Outcome{}, retry.State{}, errors.New("result id is required")
	}
	r, err := store.GetResult(ctx, db, id)
	if err != nil {
		return nil, retry.Outcome{}, retry.State{}, err
	}
	outcome, state, err := retryOutcome(r, category)
	if err != nil {
		return nil, retry.Outcome{}, retry.State{}, err
	}
	return r, outcome, state, nil
}

func retryOutcome(r *models.TestResult, category string) (retry.Outcome, retry.State, error) {
	if category == "" {
		category = r.FailureCategory
	}
	c, err := parseCategory(category)
	if err != nil {
		return retry.Outcome{}, retry.State{}, err
	}
	outcome := retry.Outcome{
		Passed:   r.Status != models.ResultStatusFailed,
		Category: c,
		Test:     r.Label(),
	}
	return outcome, retry.State{Retries: r.Retries, NoMoreRetry: r.NoMoreRetry}, nil
}

func newDecision(r *models.TestResult, a *retry.Analyzer, o retry.Outcome, attempt int, s retry.State, retried bool) *RetryDecision {
	return &RetryDecision{
		ResultID:      r.ID,
		Test:          r.Label(),
		Retry:         retried,
		Attempt:       attempt,
		MaxRetries:    a.MaxRetries(),
		Category:      o.Category.String(),
		Retries:       s.Retries,
		NoMoreRetry:   s.NoMoreRetry,
		WillBeRetried: a.WillBeRetried(s),
	}
}

// RetryDecide decides whether the attempt recorded as result id is run again
// and stores the updated retry state. The read, the decision and the write
// are one transaction, so parallel runners never grant more retries than
// the maximum. Only failed results consume a retry.
func RetryDecide(ctx context.Context, db *sql.DB, a *retry.Analyzer, id, category string) (*RetryDecision, error) {
	if id == "" {
		return nil, errors.New("result id is required")
	}
	var decision *RetryDecision
	err := store.DecideRetryState(ctx, db, id, func(r *models.TestResult) (store.RetryState, error) {
		outcome, state, err := retryOutcome(r, category)
		if err != nil {
			return store.RetryState{}, err
		}
		attempt := state.Attempt()
		retried := a.Retry(outcome, &state)
		decision = newDecision(r, a, outcome, attempt, state, retried)
		return store.RetryState{
			Retries:     state.Retries,
			NoMoreRetry: state.NoMoreRetry,
			Category:    outcome.Category.String(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// RetryPeek tells what RetryDecide would answer without storing anything.
func RetryPeek(ctx context.Context, db *sql.DB, a *retry.Analyzer, id, category string) (*RetryDecision, error) {
	r, outcome, state, err := retryInput(ctx, db, id, category)
	if err != nil {
		return nil, err
	}
	return newDecision(r, a, outcome, state.Attempt(), state, a.Peek(outcome, state)), nil
}

// RetryStatus reports the stored retry state of a result.
func RetryStatus(ctx context.Context, db *sql.DB, a *retry.Analyzer, id string) (*RetryDecision, error) {
	r, outcome, state, err := retryInput(ctx, db, id, "")
	if err != nil {
		return nil, err
	}
	return newDecision(r, a, outcome, state.Attempt(), state, false), nil
}
