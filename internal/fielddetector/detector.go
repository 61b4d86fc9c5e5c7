package fielddetector

import (
	"context"
	"sync"
)

// Detector is anything able to run a detection on a picture.
// *Connector and *CachingDetector implement it.
type Detector interface {
	Detect(ctx context.Context, imagePath string, kind DetectionKind, resize float64) (Detection, error)
}

// ImageFieldDetector runs one detection on one picture and serves its fields
// and labels. The service is called at most once; a failure is remembered and
// returned by every later call.
type ImageFieldDetector struct {
	detector  Detector
	imagePath string
	resize    float64
	kind      DetectionKind

	once      sync.Once
	detection Detection
	err       error
}

// NewImageFieldDetector prepares a detection of imagePath. A resize of 0 means 1.
func NewImageFieldDetector(detector Detector, imagePath string, resize float64, kind DetectionKind) *ImageFieldDetector {
	if resize == 0 {
		resize = 1
	}
	return &ImageFieldDetector{
		detector:  detector,
		imagePath: imagePath,
		resize:    resize,
		kind:      kind,
	}
}

// ImagePath returns the analysed picture.
func (d *ImageFieldDetector) ImagePath() string { return d.imagePath }

func (d *ImageFieldDetector) run(ctx context.Context) (Detection, error) {
	d.once.Do(func() {
		d.detection, d.err = d.detector.Detect(ctx, d.imagePath, d.kind, d.resize)
	})
	return d.detection, d.err
}

// DetectFields returns the detected fields.
func (d *ImageFieldDetector) DetectFields(ctx context.Context) ([]Field, error) {
	det, err := d.run(ctx)
	if err != nil {
		return nil, err
	}
	return det.Fields, nil
}

// DetectLabels returns the detected labels.
func (d *ImageFieldDetector) DetectLabels(ctx context.Context) ([]Label, error) {
	det, err := d.run(ctx)
	if err != nil {
		return nil, err
	}
	return det.Labels, nil
}
