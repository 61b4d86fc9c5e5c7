package actions

import (
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
	"github.com/bhecquet/seleniumRobot-sub010/internal/store"
)

// setupTestDBWithCleanup creates a test DB with automatic cleanup.
// The returned cleanup function is a no-op; cleanup is registered via
// t.Cleanup internally.
func setupTestDBWithCleanup(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tempDir := t.TempDir()
	testDBPath := tempDir + "/test.db"

	db, err := store.InitDBWithPath(testDBPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db, func() {}
}

// stubDetector answers detections by picture file name.
type stubDetector struct {
	mu         sync.Mutex
	detections map[string]fielddetector.Detection
	calls      int
}

func (s *stubDetector) Detect(_ context.Context, imagePath string, _ fielddetector.DetectionKind, _ float64) (fielddetector.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	d, ok := s.detections[filepath.Base(imagePath)]
	if !ok {
		return fielddetector.Detection{}, &fielddetector.DetectorError{Message: "Field detector returned error: unknown picture " + imagePath}
	}
	return d, nil
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, png.Encode(f, img))
}
