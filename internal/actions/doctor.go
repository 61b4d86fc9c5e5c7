package actions

import (
	"context"
	"database/sql"

	"github.com/bhecquet/seleniumRobot-sub010/internal/app"
	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// DetectorCheck is the reachability of the detection service.
type DetectorCheck struct {
	URL   string `json:"url"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DoctorReport sums up the health of the database and of the detection service.
type DoctorReport struct {
	SchemaVersion int64               `json:"schema_version"`
	LatestSchema  int64               `json:"latest_schema"`
	Counts        *store.StatusCounts `json:"counts"`
	Diagnostics   []store.Diagnostic  `json:"diagnostics"`
	Detector      DetectorCheck       `json:"detector"`
}

// Doctor checks the database content and probes the detection service once,
// without waiting for it to come up.
func Doctor(ctx context.Context, db *sql.DB, s app.AnalysisSettings) (*DoctorReport, error) {
	current, latest, err := store.SchemaVersion(db)
	if err != nil {
		return nil, err
	}
	counts, err := store.GetStatusCounts(ctx, db)
	if err != nil {
		return nil, err
	}
	diags, err := store.RunDiagnostics(ctx, db)
	if err != nil {
		return nil, err
	}

	return &DoctorReport{
		SchemaVersion: current,
		LatestSchema:  latest,
		Counts:        counts,
		Diagnostics:   diags,
		Detector:      ProbeDetector(ctx, s),
	}, nil
}

// ProbeDetector calls the status endpoint of the configured detection service.
func ProbeDetector(ctx context.Context, s app.AnalysisSettings) DetectorCheck {
	check := DetectorCheck{URL: s.DetectorURL}
	_, err := fielddetector.NewConnector(ctx, s.DetectorURL,
		fielddetector.WithTimeout(s.DetectorTimeout),
		fielddetector.WithProbeTimeout(0),
	)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.OK = true
	return check
}
