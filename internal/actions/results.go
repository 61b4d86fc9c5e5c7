package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
	"github.com/bhecquet/seleniumRobot-sub010/internal/retry"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

type invalidCategoryError struct {
	Category string
}

func (e invalidCategoryError) Error() string {
	return fmt.Sprintf("invalid failure category '%s'", e.Category)
}

func (e invalidCategoryError) ErrorCode() string { return models.CodeInvalidInput }

func (e invalidCategoryError) Context() map[string]string {
	return map[string]string{"field": "failure_category", "value": e.Category}
}

func (e invalidCategoryError) SuggestedAction() string {
	return "use one of: " + strings.Join(retry.Categories(), ", ")
}

func (e invalidCategoryError) SlogAttrs() []any {
	return []any{
		"field", "failure_category",
		"invalid_value", e.Category,
		"valid_options", retry.Categories(),
	}
}

// parseCategory accepts an empty category as unknown.
func parseCategory(s string) (retry.FailureCategory, error) {
	c, err := retry.ParseCategory(s)
	if err != nil {
		return 0, invalidCategoryError{Category: s}
	}
	return c, nil
}

// ResultView is a test result with the causes found so far.
type ResultView struct {
	Result *models.TestResult  `json:"result"`
	Causes []store.StoredCause `json:"causes"`
}

// ResultRecord stores a finished test execution. Steps are renumbered in
// order when the caller left positions unset.
func ResultRecord(ctx context.Context, db *sql.DB, r *models.TestResult) (*models.TestResult, error) {
	if r == nil {
		return nil, errors.New("test result is required")
	}
	if r.Status == "" {
		r.Status = models.ResultStatusFailed
	}
	if _, err := parseCategory(r.FailureCategory); err != nil {
		return nil, err
	}
	for i := range r.Steps {
		if r.Steps[i].Name == "" {
			return nil, fmt.Errorf("step %d has no name", i)
		}
		if r.Steps[i].Position == 0 {
			r.Steps[i].Position = i
		}
	}
	return store.CreateResult(ctx, db, r)
}

// ResultGet loads a result and its stored causes.
func ResultGet(ctx context.Context, db *sql.DB, id string) (*ResultView, error) {
	if id == "" {
		return nil, errors.New("result id is required")
	}
	r, err := store.GetResult(ctx, db, id)
	if err != nil {
		return nil, err
	}
	causes, err := store.ListCauses(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &ResultView{Result: r, Causes: causes}, nil
}

// ResultList lists results matching f, newest first.
func ResultList(ctx context.Context, db *sql.DB, f store.ResultFilter) ([]*models.TestResult, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("invalid status filter '%s'", f.Status)
	}
	return store.ListResults(ctx, db, f)
}
