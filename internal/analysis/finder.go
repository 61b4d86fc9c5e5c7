// Package analysis guesses why a UI test failed from the screenshots taken
// during the test: error messages displayed at the end of the test, fields
// flagged in error, and differences with the reference picture of the step
// that failed.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// Matching thresholds, in percent, of a step picture against a reference.
const (
	// Below this the failed step is not on its own page.
	badMatchThreshold = 50
	// At or above this the page is considered unchanged.
	goodMatchThreshold = 90
	// Above this a previous step reference is the page we are on.
	previousStepThreshold = 80
)

const errorInFieldDescription = "At least one field in error"

// Finder searches the causes of a test failure.
type Finder struct {
	detector   fielddetector.Detector
	keywords   *Keywords
	comparator Comparator
	references ReferenceProvider
	logger     *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithKeywords replaces the default error words.
func WithKeywords(words []string) Option {
	return func(f *Finder) { f.keywords = NewKeywords(words) }
}

// WithComparator sets the step/reference comparator. Without one, a
// StepReferenceComparator on the finder's detector is used.
func WithComparator(c Comparator) Option {
	return func(f *Finder) { f.comparator = c }
}

// WithReferences sets where reference pictures come from. Without it the
// reference comparison finds nothing.
func WithReferences(p ReferenceProvider) Option {
	return func(f *Finder) { f.references = p }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Finder) { f.logger = l }
}

// NewFinder builds a finder calling detector for field and label detection.
func NewFinder(detector fielddetector.Detector, opts ...Option) *Finder {
	f := &Finder{detector: detector}
	for _, opt := range opts {
		opt(f)
	}
	if f.keywords == nil {
		f.keywords = NewKeywords(nil)
	}
	if f.comparator == nil {
		f.comparator = NewStepReferenceComparator(detector, 1)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// FindErrorCause runs every search on result and returns all the causes found.
func (f *Finder) FindErrorCause(ctx context.Context, result *models.TestResult) []models.ErrorCause {
	causes := f.FindErrorInLastStepSnapshots(ctx, result)
	causes = append(causes, f.CompareStepInErrorWithReference(ctx, result)...)

	f.logger.Info("error causes found", "test", result.Label(), "count", len(causes))
	return causes
}

// FindErrorInLastStepSnapshots looks for error messages and fields in error
// on the screenshots of the "Test end" step. Causes are attached to the last
// failed step. The search runs once per result; detection failures stop the
// scan and keep what earlier snapshots produced.
func (f *Finder) FindErrorInLastStepSnapshots(ctx context.Context, result *models.TestResult) []models.ErrorCause {
	causes := []models.ErrorCause{}
	if result.SearchedLastStep {
		return causes
	}

	lastStep := result.LastStep()
	if lastStep == nil {
		return causes
	}
	f.logger.Info("searching causes: find errors in last snapshot", "test", result.Label())
	target := result.LastFailedStep()

	for _, snapshot := range lastStep.Snapshots {
		detector := fielddetector.NewImageFieldDetector(f.detector, snapshot.Path, 1, fielddetector.ErrorMessagesAndFields)
		fields, err := detector.DetectFields(ctx)
		if err != nil {
			f.logger.Error("error searching for errors in last snapshots", "snapshot", snapshot.Path, "error", err)
			break
		}
		labels, err := detector.DetectLabels(ctx)
		if err != nil {
			f.logger.Error("error searching for errors in last snapshots", "snapshot", snapshot.Path, "error", err)
			break
		}

		causes = f.parseFields(causes, fields, labels, target)
		causes = f.parseLabels(causes, labels, target)
	}

	result.SearchedLastStep = true
	return causes
}

func (f *Finder) parseFields(causes []models.ErrorCause, fields []fielddetector.Field, labels []fielddetector.Label, step *models.Step) []models.ErrorCause {
	for _, field := range fields {
		switch field.ClassName {
		case fielddetector.ClassErrorMessage:
			// first label inside the message box, whatever its text
			for _, label := range labels {
				if field.Label.Contains(label) {
					causes = append(causes, mustCause(models.ErrorTypeErrorMessage, label.Text, step))
					break
				}
			}
		case fielddetector.ClassErrorField:
			causes = append(causes, mustCause(models.ErrorTypeErrorInField, errorInFieldDescription, step))
		}
	}
	return causes
}

func (f *Finder) parseLabels(causes []models.ErrorCause, labels []fielddetector.Label, step *models.Step) []models.ErrorCause {
	for _, label := range labels {
		if _, ok := f.keywords.Match(label.Text); ok {
			causes = addUnique(causes, mustCause(models.ErrorTypeErrorMessage, label.Text, step))
		}
	}
	return causes
}

// CompareStepInErrorWithReference compares the picture of the first failed
// step with the reference picture stored for it. A bad match means the test
// is on the page of another step, or on an unknown page; a medium match means
// the application changed. Assertion failures are not compared since the
// page is the expected one. The search only runs when the result steps have
// been stored (the "Test end" step has a step result id), and once per result.
func (f *Finder) CompareStepInErrorWithReference(ctx context.Context, result *models.TestResult) []models.ErrorCause {
	causes := []models.ErrorCause{}
	if result.SearchedReference {
		return causes
	}

	lastStep := result.LastStep()
	if lastStep == nil || lastStep.StepResultID == nil {
		return causes
	}
	f.logger.Info("searching causes: comparing with references", "test", result.Label())

	for i := range result.Steps {
		step := &result.Steps[i]
		if !step.Failed || step.AssertionFailure || step.StepResultID == nil || f.references == nil {
			continue
		}

		stepSnapshot, ok := referenceSnapshotOf(step)
		if !ok {
			continue
		}
		reference, err := f.references.ReferenceSnapshot(ctx, *step.StepResultID)
		if err != nil {
			f.logger.Error("cannot get reference snapshot", "step", step.Name, "error", err)
			continue
		}
		if reference == "" {
			continue
		}

		cmp, err := f.comparator.Compare(ctx, stepSnapshot, reference)
		if err != nil {
			f.logger.Error("cannot compare step with reference", "step", step.Name, "error", err)
			continue
		}
		f.logger.Debug("step compared with reference", "step", step.Name, "matching", cmp.Matching)

		switch {
		case cmp.Matching < badMatchThreshold:
			causes = append(causes, f.searchMatchingInPreviousStep(ctx, result.Steps[:i], step, stepSnapshot))
		case cmp.Matching < goodMatchThreshold:
			if len(cmp.MissingLabels)+len(cmp.MissingFields) > 0 {
				if _, err := AnnotateMissing(reference, cmp.MissingLabels, cmp.MissingFields); err != nil {
					f.logger.Warn("cannot annotate reference snapshot", "reference", reference, "error", err)
				}
			}
			causes = append(causes, mustCause(models.ErrorTypeApplicationChanged,
				applicationChangedDescription(cmp.MissingLabels, cmp.MissingFields), step))
		}
		break
	}

	result.SearchedReference = true
	return causes
}

// searchMatchingInPreviousStep walks the steps before the failed one, latest
// first, looking for a reference that looks like the failed step picture.
func (f *Finder) searchMatchingInPreviousStep(ctx context.Context, previous []models.Step, failed *models.Step, stepSnapshot string) models.ErrorCause {
	for i := len(previous) - 1; i >= 0; i-- {
		candidate := previous[i]
		if candidate.StepResultID == nil {
			continue
		}
		reference, err := f.references.ReferenceSnapshot(ctx, *candidate.StepResultID)
		if err != nil {
			f.logger.Error("cannot get reference snapshot", "step", candidate.Name, "error", err)
			continue
		}
		if reference == "" {
			continue
		}
		cmp, err := f.comparator.Compare(ctx, stepSnapshot, reference)
		if err != nil {
			f.logger.Error("cannot compare step with reference", "step", candidate.Name, "error", err)
			continue
		}
		if cmp.Matching > previousStepThreshold {
			return mustCause(models.ErrorTypeSeleniumError,
				fmt.Sprintf("Wrong page found, we are on the page of step '%s'", candidate.Name), failed)
		}
	}
	return mustCause(models.ErrorTypeUnknownPage, "", failed)
}

func referenceSnapshotOf(step *models.Step) (string, bool) {
	for _, s := range step.Snapshots {
		if s.ForReference {
			return s.Path, true
		}
	}
	return "", false
}

func applicationChangedDescription(labels []fielddetector.Label, fields []fielddetector.Field) string {
	var b strings.Builder
	if len(labels) > 0 {
		fmt.Fprintf(&b, "%d Label(s) missing: \n", len(labels))
		for _, l := range labels {
			b.WriteString(l.Text + "\n")
		}
	}
	if len(fields) > 0 {
		fmt.Fprintf(&b, "%d field(s) missing: \n", len(fields))
		for _, field := range fields {
			b.WriteString(field.String() + "\n")
		}
	}
	return b.String()
}

func addUnique(causes []models.ErrorCause, c models.ErrorCause) []models.ErrorCause {
	if models.ContainsCause(causes, c) {
		return causes
	}
	return append(causes, c)
}

// mustCause builds a cause from a constant type, which cannot fail.
func mustCause(t models.ErrorType, description string, step *models.Step) models.ErrorCause {
	c, err := models.NewErrorCause(t, description, step)
	if err != nil {
		panic(err)
	}
	return c
}
