package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

func intPtr(i int) *int { return &i }

func sampleResult() *models.TestResult {
	return &models.TestResult{
		Suite:     "regression",
		ClassName: "LoginTest",
		Method:    "testLogin",
		Status:    models.ResultStatusFailed,
		Steps: []models.Step{
			{Name: "open page", Position: 0, StepResultID: intPtr(3), Snapshots: []models.Snapshot{{Path: "/tmp/a.png", ForReference: true}}},
			{Name: "login", Position: 1, Failed: true, StepResultID: intPtr(4)},
			{Name: models.LastStepName, Position: 2, StepResultID: intPtr(5), Snapshots: []models.Snapshot{{Path: "/tmp/end.png"}}},
		},
	}
}

func TestCreateAndGetResult(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := CreateResult(ctx, db, sampleResult())
	require.NoError(t, err)
	assert.Len(t, created.ID, 26, "ULID")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := GetResult(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "testLogin", got.Method)
	assert.Equal(t, models.ResultStatusFailed, got.Status)
	require.Len(t, got.Steps, 3)
	assert.Equal(t, 4, *got.Steps[1].StepResultID)
	assert.True(t, got.Steps[0].Snapshots[0].ForReference)
	assert.Equal(t, models.LastStepName, got.LastStep().Name)
}

func TestCreateResult_KeepsGivenID(t *testing.T) {
	db := setupTestDB(t)
	r := sampleResult()
	r.ID = "run-42"

	created, err := CreateResult(context.Background(), db, r)
	require.NoError(t, err)
	assert.Equal(t, "run-42", created.ID)

	_, err = CreateResult(context.Background(), db, r)
	require.Error(t, err, "duplicate id")
}

func TestCreateResult_Validation(t *testing.T) {
	db := setupTestDB(t)

	r := sampleResult()
	r.Method = " "
	_, err := CreateResult(context.Background(), db, r)
	require.Error(t, err)

	r = sampleResult()
	r.Status = "broken"
	_, err = CreateResult(context.Background(), db, r)
	require.Error(t, err)
}

func TestGetResult_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetResult(context.Background(), db, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "NOT_FOUND", nf.ErrorCode())
	assert.Equal(t, "seleniumrobot result list", nf.SuggestedAction())
}

func TestListResults(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, m := range []string{"a", "b", "c"} {
		r := sampleResult()
		r.Method = m
		if m == "b" {
			r.Status = models.ResultStatusPassed
			r.Suite = "smoke"
		}
		_, err := CreateResult(ctx, db, r)
		require.NoError(t, err)
	}

	all, err := ListResults(ctx, db, ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	failed, err := ListResults(ctx, db, ResultFilter{Status: models.ResultStatusFailed})
	require.NoError(t, err)
	assert.Len(t, failed, 2)

	smoke, err := ListResults(ctx, db, ResultFilter{Suite: "smoke"})
	require.NoError(t, err)
	require.Len(t, smoke, 1)
	assert.Equal(t, "b", smoke[0].Method)

	limited, err := ListResults(ctx, db, ResultFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	suites, err := ListSuites(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"regression", "smoke"}, suites)
}

func TestUpdateRetryState(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	created, err := CreateResult(ctx, db, sampleResult())
	require.NoError(t, err)

	require.NoError(t, UpdateRetryState(ctx, db, created.ID, 2, true, "assertion"))

	got, err := GetResult(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Retries)
	assert.True(t, got.NoMoreRetry)
	assert.Equal(t, "assertion", got.FailureCategory)

	err = UpdateRetryState(ctx, db, "missing", 1, false, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideRetryState(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	created, err := CreateResult(ctx, db, sampleResult())
	require.NoError(t, err)
	require.NoError(t, UpdateRetryState(ctx, db, created.ID, 1, false, "infrastructure"))

	err = DecideRetryState(ctx, db, created.ID, func(r *models.TestResult) (RetryState, error) {
		assert.Equal(t, 1, r.Retries, "decide sees the stored counter")
		return RetryState{Retries: r.Retries + 1, Category: r.FailureCategory}, nil
	})
	require.NoError(t, err)

	got, err := GetResult(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Retries)
	assert.Equal(t, "infrastructure", got.FailureCategory)

	err = DecideRetryState(ctx, db, created.ID, func(*models.TestResult) (RetryState, error) {
		return RetryState{}, errors.New("bad category")
	})
	require.EqualError(t, err, "bad category")
	got, err = GetResult(ctx, db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Retries, "nothing stored when decide fails")

	err = DecideRetryState(ctx, db, "missing", func(*models.TestResult) (RetryState, error) {
		t.Fatal("decide called for a missing result")
		return RetryState{}, nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAnalysis(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	created, err := CreateResult(ctx, db, sampleResult())
	require.NoError(t, err)

	created.SearchedLastStep = true
	created.SearchedReference = true
	msg, err := models.NewErrorCause(models.ErrorTypeErrorMessage, "some error", &created.Steps[1])
	require.NoError(t, err)
	page, err := models.NewErrorCause(models.ErrorTypeUnknownPage, "", &created.Steps[1])
	require.NoError(t, err)

	require.NoError(t, SaveAnalysis(ctx, db, created, []models.ErrorCause{msg, page}))

	got, err := GetResult(ctx, db, created.ID)
	require.NoError(t, err)
	assert.True(t, got.SearchedLastStep)
	assert.True(t, got.SearchedReference)

	causes, err := ListCauses(ctx, db, created.ID)
	require.NoError(t, err)
	require.Len(t, causes, 2)
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[0].Type)
	assert.Equal(t, "some error", causes[0].Description)
	assert.Equal(t, "login", causes[0].StepName)
	assert.Equal(t, models.ErrorTypeUnknownPage, causes[1].Type)
	assert.Equal(t, created.ID, causes[1].ResultID)

	counts, err := GetStatusCounts(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Results.Failed)
	assert.Equal(t, map[string]int{"ERROR_MESSAGE": 1, "UNKNOWN_PAGE": 1}, counts.Causes)
}

func TestSaveAnalysis_UnknownResult(t *testing.T) {
	db := setupTestDB(t)
	err := SaveAnalysis(context.Background(), db, &models.TestResult{ID: "nope"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
