package analysis

import (
	"context"
	"fmt"

	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
)

// Comparison is the outcome of comparing a step picture with its reference.
type Comparison struct {
	// Matching is the percentage (0-100) of reference elements found again
	// on the step picture.
	Matching      int                   `json:"matching"`
	MissingLabels []fielddetector.Label `json:"missing_labels"`
	MissingFields []fielddetector.Field `json:"missing_fields"`
}

// Comparator compares a step screenshot with a reference screenshot.
type Comparator interface {
	Compare(ctx context.Context, stepImage, referenceImage string) (Comparison, error)
}

// ReferenceProvider returns the reference picture of a stored step result.
// An empty path with a nil error means no reference exists yet.
type ReferenceProvider interface {
	ReferenceSnapshot(ctx context.Context, stepResultID int) (string, error)
}

// StepReferenceComparator detects form fields and labels on both pictures
// and counts the reference elements that still appear on the step picture.
type StepReferenceComparator struct {
	detector fielddetector.Detector
	resize   float64
}

// NewStepReferenceComparator builds a comparator. resize is passed to the
// detection service (0 means 1).
func NewStepReferenceComparator(detector fielddetector.Detector, resize float64) *StepReferenceComparator {
	return &StepReferenceComparator{detector: detector, resize: resize}
}

// Compare implements Comparator.
func (c *StepReferenceComparator) Compare(ctx context.Context, stepImage, referenceImage string) (Comparison, error) {
	step, err := c.detect(ctx, stepImage)
	if err != nil {
		return Comparison{}, fmt.Errorf("detect step picture: %w", err)
	}
	ref, err := c.detect(ctx, referenceImage)
	if err != nil {
		return Comparison{}, fmt.Errorf("detect reference picture: %w", err)
	}
	return compareDetections(step, ref), nil
}

func (c *StepReferenceComparator) detect(ctx context.Context, path string) (fielddetector.Detection, error) {
	d := fielddetector.NewImageFieldDetector(c.detector, path, c.resize, fielddetector.AllFormFields)
	fields, err := d.DetectFields(ctx)
	if err != nil {
		return fielddetector.Detection{}, err
	}
	labels, err := d.DetectLabels(ctx)
	if err != nil {
		return fielddetector.Detection{}, err
	}
	return fielddetector.Detection{Fields: fields, Labels: labels}, nil
}

func compareDetections(step, ref fielddetector.Detection) Comparison {
	cmp := Comparison{
		MissingLabels: []fielddetector.Label{},
		MissingFields: []fielddetector.Field{},
	}

	total := len(ref.Labels) + len(ref.Fields)
	if total == 0 {
		cmp.Matching = 100
		return cmp
	}

	matched := 0
	for _, rl := range ref.Labels {
		if anyLabel(step.Labels, rl) {
			matched++
		} else {
			cmp.MissingLabels = append(cmp.MissingLabels, rl)
		}
	}
	for _, rf := range ref.Fields {
		if anyField(step.Fields, rf) {
			matched++
		} else {
			cmp.MissingFields = append(cmp.MissingFields, rf)
		}
	}
	cmp.Matching = matched * 100 / total
	return cmp
}

func anyLabel(labels []fielddetector.Label, ref fielddetector.Label) bool {
	for _, l := range labels {
		if l.Match(ref) {
			return true
		}
	}
	return false
}

func anyField(fields []fielddetector.Field, ref fielddetector.Field) bool {
	for _, f := range fields {
		if f.Match(ref) {
			return true
		}
	}
	return false
}
