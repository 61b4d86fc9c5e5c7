package models

import "time"

// ID Strategy:
// - Test results use ULID strings (generated by the runner side, sortable by creation time)
// - Error causes use int64 (append-only rows attached to a result)

// LastStepName is the name of the step recorded when a test finishes.
// Snapshots taken at the end of the test are attached to it.
const LastStepName = "Test end"

// ResultStatus is the outcome of one test execution.
type ResultStatus string

// Result status constants.
const (
	ResultStatusPassed  ResultStatus = "passed"
	ResultStatusFailed  ResultStatus = "failed"
	ResultStatusSkipped ResultStatus = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s ResultStatus) Valid() bool {
	switch s {
	case ResultStatusPassed, ResultStatusFailed, ResultStatusSkipped:
		return true
	}
	return false
}

// RootCause is the root cause a test author declares on a step.
type RootCause string

// Declared root causes.
const (
	RootCauseNone         RootCause = "NONE"
	RootCauseRegression   RootCause = "REGRESSION"
	RootCauseDependencies RootCause = "DEPENDENCIES"
	RootCauseUnknownError RootCause = "UNKNOWN_ERROR"
)

// Snapshot is a screenshot captured during a step.
type Snapshot struct {
	Path string `json:"path"`
	// ForReference marks the snapshot recorded on the server as the step reference.
	ForReference bool `json:"for_reference,omitempty"`
}

// Step is one logged step of a test.
type Step struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Failed   bool   `json:"failed,omitempty"`
	// AssertionFailure is set when the step failed on a test assertion
	// rather than on an action error.
	AssertionFailure bool       `json:"assertion_failure,omitempty"`
	StepResultID     *int       `json:"step_result_id,omitempty"`
	Snapshots        []Snapshot `json:"snapshots,omitempty"`
	RootCause        RootCause  `json:"root_cause,omitempty"`
	RootCauseDetails string     `json:"root_cause_details,omitempty"`
}

// TestResult is the record of one test method execution, including the
// retry state the analyzer reads and updates.
type TestResult struct {
	ID              string       `json:"id"`
	Suite           string       `json:"suite"`
	ClassName       string       `json:"class_name"`
	Method          string       `json:"method"`
	Status          ResultStatus `json:"status"`
	FailureCategory string       `json:"failure_category,omitempty"`
	Retries         int          `json:"retries"`
	NoMoreRetry     bool         `json:"no_more_retry"`
	// SearchedLastStep and SearchedReference make error cause searches run once per result.
	SearchedLastStep  bool      `json:"searched_last_step"`
	SearchedReference bool      `json:"searched_reference"`
	Steps             []Step    `json:"steps,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LastStep returns the "Test end" step, or nil when the test did not record one.
func (r *TestResult) LastStep() *Step {
	for i := range r.Steps {
		if r.Steps[i].Name == LastStepName {
			return &r.Steps[i]
		}
	}
	return nil
}

// LastFailedStep returns the last failed step other than the "Test end" step,
// falling back to the "Test end" step itself.
func (r *TestResult) LastFailedStep() *Step {
	last := r.LastStep()
	failed := last
	for i := range r.Steps {
		if r.Steps[i].Failed && &r.Steps[i] != last {
			failed = &r.Steps[i]
		}
	}
	return failed
}

// Label is the display name used in log lines.
func (r *TestResult) Label() string {
	return r.Suite + "/" + r.ClassName + "." + r.Method
}
