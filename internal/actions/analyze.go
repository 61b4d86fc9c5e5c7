package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bhecquet/seleniumRobot-sub010/internal/analysis"
	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// NewDetector connects to the detection service described by s and puts the
// detection cache in front of it.
func NewDetector(ctx context.Context, s app.AnalysisSettings) (fielddetector.Detector, error) {
	conn, err := fielddetector.NewConnector(ctx, s.DetectorURL, fielddetector.WithTimeout(s.DetectorTimeout))
	if err != nil {
		return nil, err
	}
	slog.Default().Debug("field detector connected", "url", conn.URL())
	return fielddetector.NewCachingDetector(conn, s.DetectionCacheSize, s.DetectionCacheTTL), nil
}

// NewFinder builds an error cause finder reading reference pictures from db.
func NewFinder(db *sql.DB, detector fielddetector.Detector, s app.AnalysisSettings) *analysis.Finder {
	opts := []analysis.Option{
		analysis.WithKeywords(s.ErrorWords),
		analysis.WithComparator(analysis.NewStepReferenceComparator(detector, s.ResizeFactor)),
	}
	if db != nil {
		opts = append(opts, analysis.WithReferences(store.References{DB: db}))
	}
	return analysis.NewFinder(detector, opts...)
}

// AnalysisReport lists the causes found for a result.
type AnalysisReport struct {
	ResultID string          `json:"result_id,omitempty"`
	Causes   []CauseView     `json:"causes"`
	Searched map[string]bool `json:"searched,omitempty"`
}

// CauseView is an error cause with its human readable form.
type CauseView struct {
	models.ErrorCause
	Message string `json:"message"`
}

func causeViews(causes []models.ErrorCause) []CauseView {
	out := make([]CauseView, 0, len(causes))
	for _, c := range causes {
		out = append(out, CauseView{ErrorCause: c, Message: c.String()})
	}
	return out
}

// AnalyzeResult searches the causes of a stored failed result and records
// them. Searches already done for the result are not repeated.
func AnalyzeResult(ctx context.Context, db *sql.DB, finder *analysis.Finder, id string) (*AnalysisReport, error) {
	if id == "" {
		return nil, errors.New("result id is required")
	}
	r, err := store.GetResult(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if r.Status != models.ResultStatusFailed {
		return nil, fmt.Errorf("result %s has status %s, only failed results are analyzed", id, r.Status)
	}

	causes := finder.FindErrorCause(ctx, r)
	if err := store.SaveAnalysis(ctx, db, r, causes); err != nil {
		return nil, err
	}
	return &AnalysisReport{
		ResultID: r.ID,
		Causes:   causeViews(causes),
		Searched: map[string]bool{
			"last_step": r.SearchedLastStep,
			"reference": r.SearchedReference,
		},
	}, nil
}

// ExpandSnapshots resolves a glob pattern (** allowed) into the sorted list
// of matching files.
func ExpandSnapshots(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, errors.New("snapshot pattern is required")
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no snapshot matches %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// AnalyzeSnapshots searches error messages and fields in error on loose
// screenshots, as if they were taken at the end of a test.
func AnalyzeSnapshots(ctx context.Context, finder *analysis.Finder, paths []string) (*AnalysisReport, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one snapshot is required")
	}
	last := models.Step{Name: models.LastStepName}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		last.Snapshots = append(last.Snapshots, models.Snapshot{Path: abs})
	}
	r := &models.TestResult{
		Method: "snapshots",
		Status: models.ResultStatusFailed,
		Steps:  []models.Step{last},
	}
	return &AnalysisReport{Causes: causeViews(finder.FindErrorInLastStepSnapshots(ctx, r))}, nil
}

// DetectImage runs one detection on a picture. With errorsOnly the service
// looks for error messages and fields in error instead of every form field.
func DetectImage(ctx context.Context, detector fielddetector.Detector, path string, errorsOnly bool, resize float64) (*fielddetector.Detection, error) {
	kind := fielddetector.AllFormFields
	if errorsOnly {
		kind = fielddetector.ErrorMessagesAndFields
	}
	d := fielddetector.NewImageFieldDetector(detector, path, resize, kind)
	fields, err := d.DetectFields(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := d.DetectLabels(ctx)
	if err != nil {
		return nil, err
	}
	return &fielddetector.Detection{Fields: fields, Labels: labels}, nil
}
