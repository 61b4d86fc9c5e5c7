package analysis

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

// fakeDetector answers detections per image path.
type fakeDetector struct {
	replies map[string]fielddetector.Detection
	errs    map[string]error
	calls   []string
}

func (d *fakeDetector) Detect(_ context.Context, path string, _ fielddetector.DetectionKind, _ float64) (fielddetector.Detection, error) {
	d.calls = append(d.calls, path)
	if err := d.errs[path]; err != nil {
		return fielddetector.Detection{}, err
	}
	return d.replies[path], nil
}

type comparePair struct{ step, ref string }

type fakeComparator struct {
	results map[comparePair]Comparison
	errs    map[comparePair]error
	calls   []comparePair
}

func (c *fakeComparator) Compare(_ context.Context, step, ref string) (Comparison, error) {
	p := comparePair{step, ref}
	c.calls = append(c.calls, p)
	if err := c.errs[p]; err != nil {
		return Comparison{}, err
	}
	return c.results[p], nil
}

type fakeReferences struct {
	paths map[int]string
	errs  map[int]error
}

func (r *fakeReferences) ReferenceSnapshot(_ context.Context, id int) (string, error) {
	if err := r.errs[id]; err != nil {
		return "", err
	}
	return r.paths[id], nil
}

func intPtr(i int) *int { return &i }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// fixture holds a result with "step 1", a failed "step 2" and "Test end".
type fixture struct {
	result     *models.TestResult
	detector   *fakeDetector
	comparator *fakeComparator
	references *fakeReferences
	dir        string
	refStep1   string
	refStep2   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	fx := &fixture{
		dir:      dir,
		refStep1: writeWhitePNG(t, dir, "ref_step1.png", 120, 240),
		refStep2: writeWhitePNG(t, dir, "ref_step2.png", 120, 240),
		detector: &fakeDetector{
			replies: map[string]fielddetector.Detection{},
			errs:    map[string]error{},
		},
		comparator: &fakeComparator{
			results: map[comparePair]Comparison{},
			errs:    map[comparePair]error{},
		},
	}
	fx.references = &fakeReferences{
		paths: map[int]string{0: fx.refStep1, 1: fx.refStep2},
		errs:  map[int]error{},
	}
	fx.result = &models.TestResult{
		Suite:     "suite",
		ClassName: "Class",
		Method:    "method",
		Status:    models.ResultStatusFailed,
		Steps: []models.Step{
			{
				Name: "step 1", Position: 0, StepResultID: intPtr(0),
				Snapshots: []models.Snapshot{
					{Path: filepath.Join(dir, "step1_ref.png"), ForReference: true},
					{Path: filepath.Join(dir, "step1.png")},
				},
			},
			{
				Name: "step 2", Position: 1, Failed: true, StepResultID: intPtr(1),
				Snapshots: []models.Snapshot{{Path: filepath.Join(dir, "step2_ref.png"), ForReference: true}},
			},
			{
				Name: models.LastStepName, Position: 2, StepResultID: intPtr(10),
				Snapshots: []models.Snapshot{{Path: filepath.Join(dir, "last.png")}},
			},
		},
	}
	return fx
}

func (fx *fixture) finder() *Finder {
	return NewFinder(fx.detector,
		WithComparator(fx.comparator),
		WithReferences(fx.references),
		WithLogger(quietLogger()),
	)
}

func (fx *fixture) lastSnapshot() string  { return fx.result.Steps[2].Snapshots[0].Path }
func (fx *fixture) step2Snapshot() string { return fx.result.Steps[1].Snapshots[0].Path }

func writeWhitePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, png.Encode(f, img))
	return path
}

var red = color.RGBA{R: 255, A: 255}

func defaultLastStepDetection() fielddetector.Detection {
	return fielddetector.Detection{
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(0, 100, 20, 50, "il y a eu un gros problème"),
			fielddetector.NewLabel(0, 100, 100, 120, "some error"),
		},
		Fields: []fielddetector.Field{
			fielddetector.NewField(0, 100, 0, 20, "", "field"),
			fielddetector.NewField(0, 100, 200, 220, "", "field"),
		},
	}
}

func TestFindErrorInLastStepSnapshots_ErrorMessages(t *testing.T) {
	fx := newFixture(t)
	fx.result.Steps[1].Failed = false
	fx.detector.replies[fx.lastSnapshot()] = defaultLastStepDetection()

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 2)
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[0].Type)
	assert.Equal(t, "il y a eu un gros problème", causes[0].Description)
	assert.Same(t, &fx.result.Steps[2], causes[0].Step, "no failed step except the last one")
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[1].Type)
	assert.Equal(t, "some error", causes[1].Description)
	assert.True(t, fx.result.SearchedLastStep)
}

func TestFindErrorInLastStepSnapshots_AttachedToFailedStep(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = defaultLastStepDetection()

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 2)
	for _, c := range causes {
		assert.Same(t, &fx.result.Steps[1], c.Step)
		assert.Equal(t, "step 2", c.StepName)
	}
}

func TestFindErrorInLastStepSnapshots_DetectionFailure(t *testing.T) {
	fx := newFixture(t)
	fx.detector.errs[fx.lastSnapshot()] = &fielddetector.DetectorError{Image: "last.png", Message: "Field detector returned error"}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.NotNil(t, causes)
	assert.True(t, fx.result.SearchedLastStep)
}

func TestFindErrorInLastStepSnapshots_KeepsEarlierSnapshots(t *testing.T) {
	fx := newFixture(t)
	second := filepath.Join(fx.dir, "last2.png")
	third := filepath.Join(fx.dir, "last3.png")
	fx.result.Steps[2].Snapshots = append(fx.result.Steps[2].Snapshots, models.Snapshot{Path: second}, models.Snapshot{Path: third})
	fx.detector.replies[fx.lastSnapshot()] = defaultLastStepDetection()
	fx.detector.errs[second] = errors.New("connection refused")
	fx.detector.replies[third] = fielddetector.Detection{
		Labels: []fielddetector.Label{fielddetector.NewLabel(0, 10, 0, 10, "another error")},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Len(t, causes, 2)
	assert.NotContains(t, fx.detector.calls, third, "scan stops at the failing snapshot")
}

func TestFindErrorInLastStepSnapshots_ErrorField(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(0, 100, 20, 50, "ok"),
			fielddetector.NewLabel(0, 100, 100, 120, "nothing"),
		},
		Fields: []fielddetector.Field{
			fielddetector.NewField(0, 100, 0, 20, "", fielddetector.ClassErrorField),
			fielddetector.NewField(0, 100, 200, 220, "", "field"),
		},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, models.ErrorTypeErrorInField, causes[0].Type)
	assert.Equal(t, "At least one field in error", causes[0].Description)
}

func TestFindErrorInLastStepSnapshots_ErrorFieldsNotDeduplicated(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Labels: []fielddetector.Label{},
		Fields: []fielddetector.Field{
			fielddetector.NewField(0, 100, 0, 20, "", fielddetector.ClassErrorField),
			fielddetector.NewField(0, 100, 200, 220, "", fielddetector.ClassErrorField),
		},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Len(t, causes, 2)
}

func TestFindErrorInLastStepSnapshots_ErrorMessageField(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(0, 100, 0, 20, "ko"),
			fielddetector.NewLabel(0, 100, 100, 120, "nothing"),
		},
		Fields: []fielddetector.Field{
			fielddetector.NewField(0, 100, 0, 20, "", fielddetector.ClassErrorMessage),
			fielddetector.NewField(0, 100, 200, 220, "", "field"),
		},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[0].Type)
	assert.Equal(t, "ko", causes[0].Description)
}

func TestFindErrorInLastStepSnapshots_LabelInsideErrorMessage(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Fields: []fielddetector.Field{fielddetector.NewField(10, 50, 10, 30, "", fielddetector.ClassErrorMessage)},
		Labels: []fielddetector.Label{fielddetector.NewLabel(15, 40, 15, 25, "Erreur")},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[0].Type)
	assert.Equal(t, "Erreur", causes[0].Description)
}

func TestFindErrorInLastStepSnapshots_ErrorMessageFieldsNotDeduplicated(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Fields: []fielddetector.Field{
			fielddetector.NewField(10, 200, 10, 30, "", fielddetector.ClassErrorMessage),
			fielddetector.NewField(10, 200, 60, 80, "", fielddetector.ClassErrorMessage),
		},
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(15, 150, 15, 25, "Champ obligatoire"),
			fielddetector.NewLabel(15, 150, 65, 75, "Champ obligatoire"),
		},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 2)
	for _, c := range causes {
		assert.Equal(t, models.ErrorTypeErrorMessage, c.Type)
		assert.Equal(t, "Champ obligatoire", c.Description)
	}
}

func TestFindErrorInLastStepSnapshots_ErrorMessageWithoutText(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Fields: []fielddetector.Field{fielddetector.NewField(10, 50, 10, 30, "", fielddetector.ClassErrorMessage)},
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(15, 40, 15, 25, ""),
			fielddetector.NewLabel(15, 40, 15, 25, "Saisie invalide"),
		},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 1, "only the first contained label is used")
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[0].Type)
	assert.Empty(t, causes[0].Description)
}

func TestFindErrorInLastStepSnapshots_PartialOverlapIgnored(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Fields: []fielddetector.Field{fielddetector.NewField(10, 50, 10, 30, "", fielddetector.ClassErrorMessage)},
		Labels: []fielddetector.Label{fielddetector.NewLabel(15, 60, 15, 25, "Saisie invalide")},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Empty(t, causes)
}

func TestFindErrorInLastStepSnapshots_DuplicateLabels(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(0, 100, 0, 20, "an error occurred"),
			fielddetector.NewLabel(0, 100, 50, 70, "an error occurred"),
		},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, "an error occurred", causes[0].Description)
}

func TestFindErrorInLastStepSnapshots_NoErrors(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(0, 100, 20, 50, "tout roule"),
			fielddetector.NewLabel(0, 100, 100, 120, "everything is fine"),
			fielddetector.NewLabel(0, 100, 130, 150, "ERROR"),
		},
		Fields: []fielddetector.Field{fielddetector.NewField(0, 100, 0, 20, "", "field")},
	}

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Empty(t, causes, "keyword match is case sensitive")
	assert.True(t, fx.result.SearchedLastStep)
}

func TestFindErrorInLastStepSnapshots_CustomKeywords(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = fielddetector.Detection{
		Labels: []fielddetector.Label{
			fielddetector.NewLabel(0, 100, 20, 50, "Fehler beim Speichern"),
			fielddetector.NewLabel(0, 100, 100, 120, "some error"),
		},
	}

	f := NewFinder(fx.detector, WithKeywords([]string{"Fehler"}), WithLogger(quietLogger()))
	causes := f.FindErrorInLastStepSnapshots(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, "Fehler beim Speichern", causes[0].Description)
}

func TestFindErrorInLastStepSnapshots_NoLastStep(t *testing.T) {
	fx := newFixture(t)
	fx.result.Steps = fx.result.Steps[:2]

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.False(t, fx.result.SearchedLastStep)
	assert.Empty(t, fx.detector.calls)
}

func TestFindErrorInLastStepSnapshots_AlreadyDone(t *testing.T) {
	fx := newFixture(t)
	fx.result.SearchedLastStep = true
	fx.detector.replies[fx.lastSnapshot()] = defaultLastStepDetection()

	causes := fx.finder().FindErrorInLastStepSnapshots(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.Empty(t, fx.detector.calls)
}

func TestCompareStepInErrorWithReference_GoodMatch(t *testing.T) {
	fx := newFixture(t)
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{Matching: 90}

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.True(t, fx.result.SearchedReference)
	assert.Len(t, fx.comparator.calls, 1)
}

func TestCompareStepInErrorWithReference_AlreadyDone(t *testing.T) {
	fx := newFixture(t)
	fx.result.SearchedReference = true

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.Empty(t, fx.comparator.calls)
	assert.True(t, fx.result.SearchedReference)
}

func TestCompareStepInErrorWithReference_MissingField(t *testing.T) {
	fx := newFixture(t)
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{
		Matching:      50,
		MissingFields: []fielddetector.Field{fielddetector.NewField(0, 100, 0, 20, "", "field")},
	}

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, models.ErrorTypeApplicationChanged, causes[0].Type)
	assert.Equal(t, "1 field(s) missing: \nfield[text=]: [x=0,y=0,width=100,height=20]\n", causes[0].Description)
	assert.Same(t, &fx.result.Steps[1], causes[0].Step)
	assert.True(t, fx.result.SearchedReference)

	img, err := fielddetector.LoadImage(AnnotatedPath(fx.refStep2))
	require.NoError(t, err)
	for _, p := range []image.Point{{0, 20}, {0, 0}, {100, 20}, {100, 0}} {
		assert.Equal(t, red, img.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestCompareStepInErrorWithReference_MissingLabel(t *testing.T) {
	fx := newFixture(t)
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{
		Matching:      50,
		MissingLabels: []fielddetector.Label{fielddetector.NewLabel(0, 100, 20, 50, "some label")},
	}

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, models.ErrorTypeApplicationChanged, causes[0].Type)
	assert.Equal(t, "1 Label(s) missing: \nsome label\n", causes[0].Description)

	img, err := fielddetector.LoadImage(AnnotatedPath(fx.refStep2))
	require.NoError(t, err)
	assert.Equal(t, red, img.RGBAAt(0, 50))
	assert.Equal(t, red, img.RGBAAt(100, 50))
	assert.NotEqual(t, red, img.RGBAAt(0, 20))
	assert.NotEqual(t, red, img.RGBAAt(100, 20))
}

func TestCompareStepInErrorWithReference_WrongPage(t *testing.T) {
	fx := newFixture(t)
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{Matching: 49}
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep1}] = Comparison{Matching: 81}

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	require.Len(t, causes, 1)
	assert.Equal(t, models.ErrorTypeSeleniumError, causes[0].Type)
	assert.Equal(t, "Wrong page found, we are on the page of step 'step 1'", causes[0].Description)
	assert.True(t, fx.result.SearchedReference)
}

func TestCompareStepInErrorWithReference_UnknownPage(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fx *fixture)
	}{
		{"previous step does not match", func(fx *fixture) {
			fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep1}] = Comparison{Matching: 80}
		}},
		{"no previous step", func(fx *fixture) {
			fx.result.Steps = fx.result.Steps[1:]
		}},
		{"no reference for previous step", func(fx *fixture) {
			delete(fx.references.paths, 0)
		}},
		{"error getting previous reference", func(fx *fixture) {
			fx.references.errs[0] = errors.New("server unavailable")
		}},
		{"previous step not stored", func(fx *fixture) {
			fx.result.Steps[0].StepResultID = nil
			fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep1}] = Comparison{Matching: 81}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{Matching: 49}
			tt.setup(fx)

			causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

			require.Len(t, causes, 1)
			assert.Equal(t, models.ErrorTypeUnknownPage, causes[0].Type)
			assert.Empty(t, causes[0].Description)
			assert.True(t, fx.result.SearchedReference)
		})
	}
}

func TestCompareStepInErrorWithReference_NoStep(t *testing.T) {
	fx := newFixture(t)
	fx.result.Steps = nil

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.False(t, fx.result.SearchedReference)
}

func TestCompareStepInErrorWithReference_NoComparison(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(fx *fixture)
		searched bool
	}{
		{"no reference snapshot on failed step", func(fx *fixture) {
			fx.result.Steps[1].Snapshots = nil
		}, true},
		{"no failed step", func(fx *fixture) {
			fx.result.Steps[1].Failed = false
		}, true},
		{"assertion failure", func(fx *fixture) {
			fx.result.Steps[1].AssertionFailure = true
		}, true},
		{"no step stored", func(fx *fixture) {
			for i := range fx.result.Steps {
				fx.result.Steps[i].StepResultID = nil
			}
		}, false},
		{"failed step not stored", func(fx *fixture) {
			fx.result.Steps[1].StepResultID = nil
		}, true},
		{"no reference on server", func(fx *fixture) {
			delete(fx.references.paths, 1)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			tt.setup(fx)

			causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

			assert.Empty(t, causes)
			assert.Empty(t, fx.comparator.calls)
			assert.Equal(t, tt.searched, fx.result.SearchedReference)
		})
	}
}

func TestCompareStepInErrorWithReference_ComparisonErrorTriesNextStep(t *testing.T) {
	fx := newFixture(t)
	// make "step 1" fail too, its comparison errors out
	fx.result.Steps[0].Failed = true
	fx.comparator.errs[comparePair{fx.result.Steps[0].Snapshots[0].Path, fx.refStep1}] = errors.New("detector down")
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{Matching: 95}

	causes := fx.finder().CompareStepInErrorWithReference(context.Background(), fx.result)

	assert.Empty(t, causes)
	assert.Len(t, fx.comparator.calls, 2)
	assert.True(t, fx.result.SearchedReference)
}

func TestFindErrorCause(t *testing.T) {
	fx := newFixture(t)
	fx.detector.replies[fx.lastSnapshot()] = defaultLastStepDetection()
	fx.comparator.results[comparePair{fx.step2Snapshot(), fx.refStep2}] = Comparison{Matching: 10}

	causes := fx.finder().FindErrorCause(context.Background(), fx.result)

	require.Len(t, causes, 3)
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[0].Type)
	assert.Equal(t, models.ErrorTypeErrorMessage, causes[1].Type)
	assert.Equal(t, models.ErrorTypeUnknownPage, causes[2].Type)
	assert.True(t, fx.result.SearchedLastStep)
	assert.True(t, fx.result.SearchedReference)

	again := fx.finder().FindErrorCause(context.Background(), fx.result)
	assert.Empty(t, again)
}
