package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	workdir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return workdir
}

func writeUserConfig(t *testing.T, home, content string) {
	t.Helper()
	p := filepath.Join(home, ".config", "seleniumrobot", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestLoadSettings_PrefersUserConfigOverLocal(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	workdir := chdirTemp(t)

	writeUserConfig(t, home, "db_path: /tmp/from-user.db\n")
	require.NoError(t, os.WriteFile(filepath.Join(workdir, "config.yaml"), []byte("db_path: /tmp/from-local.db\n"), 0o600))

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-user.db", s.DBPath)
}

func TestLoadSettings_FallsBackToLocalConfig(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	workdir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(workdir, "config.yaml"), []byte("db_path: /tmp/from-local.db\n"), 0o600))

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-local.db", s.DBPath)
}

func TestLoadSettings_InvalidYAMLReturnsError(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	writeUserConfig(t, home, "db_path: [")

	_, err := LoadSettings()
	require.Error(t, err)
}

func TestLoadSettingsFile_ReadsAnalysisFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"detector_url: http://detector:5000",
		"detector_timeout: 30s",
		"max_retry: 0",
		"error_words: [Fehler, fout]",
		"detection_cache_size: 8",
		"detection_cache_ttl: 1m",
		"resize_factor: 0.5",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := loadSettingsFile(path)
	require.NoError(t, err)
	require.Equal(t, "http://detector:5000", s.DetectorURL)
	require.Equal(t, 30*time.Second, s.DetectorTimeout)
	require.NotNil(t, s.MaxRetry)
	require.Equal(t, 0, *s.MaxRetry)
	require.Equal(t, []string{"Fehler", "fout"}, s.ErrorWords)
	require.Equal(t, 8, s.DetectionCacheSize)
	require.Equal(t, time.Minute, s.DetectionCacheTTL)
	require.InDelta(t, 0.5, s.ResizeFactor, 1e-9)
}

func TestEffectiveAnalysisSettings_Defaults(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SELENIUMROBOT_DETECTOR_URL", "")
	t.Setenv("SELENIUMROBOT_MAX_RETRY", "")
	chdirTemp(t)

	cfg := EffectiveAnalysisSettings()
	require.Equal(t, AnalysisSettings{
		DetectorTimeout:    60 * time.Second,
		MaxRetry:           2,
		DetectionCacheSize: 64,
		DetectionCacheTTL:  10 * time.Minute,
		ResizeFactor:       1,
	}, cfg)
}

func TestEffectiveAnalysisSettings_Precedence(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	chdirTemp(t)
	writeUserConfig(t, home, "detector_url: http://from-config\nmax_retry: 5\nresize_factor: 9\n")

	t.Setenv("SELENIUMROBOT_DETECTOR_URL", "")
	t.Setenv("SELENIUMROBOT_MAX_RETRY", "")
	cfg := EffectiveAnalysisSettings()
	require.Equal(t, "http://from-config", cfg.DetectorURL)
	require.Equal(t, 5, cfg.MaxRetry)
	require.InDelta(t, 1.0, cfg.ResizeFactor, 1e-9, "out of range factor falls back")

	t.Setenv("SELENIUMROBOT_DETECTOR_URL", "http://from-env")
	t.Setenv("SELENIUMROBOT_MAX_RETRY", "0")
	cfg = EffectiveAnalysisSettings()
	require.Equal(t, "http://from-env", cfg.DetectorURL)
	require.Equal(t, 0, cfg.MaxRetry)

	SetDetectorURLOverride("http://from-cli")
	t.Setenv("SELENIUMROBOT_MAX_RETRY", "1000")
	cfg = EffectiveAnalysisSettings()
	require.Equal(t, "http://from-cli", cfg.DetectorURL)
	require.Equal(t, 20, cfg.MaxRetry)
}
