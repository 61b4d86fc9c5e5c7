package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath          string        `yaml:"db_path"`
	DetectorURL     string        `yaml:"detector_url"`
	DetectorTimeout time.Duration `yaml:"detector_timeout"`
	// MaxRetry is a pointer so that an explicit 0 disables retries.
	MaxRetry           *int          `yaml:"max_retry"`
	ErrorWords         []string      `yaml:"error_words"`
	DetectionCacheSize int           `yaml:"detection_cache_size"`
	DetectionCacheTTL  time.Duration `yaml:"detection_cache_ttl"`
	ResizeFactor       float64       `yaml:"resize_factor"`
	DBBusyTimeout      time.Duration `yaml:"db_busy_timeout"`
}

// AnalysisSettings are the effective runtime values used by the retry
// analyzer and the error cause finder.
type AnalysisSettings struct {
	DetectorURL        string        `json:"detector_url"`
	DetectorTimeout    time.Duration `json:"detector_timeout"`
	MaxRetry           int           `json:"max_retry"`
	ErrorWords         []string      `json:"error_words,omitempty"`
	DetectionCacheSize int           `json:"detection_cache_size"`
	DetectionCacheTTL  time.Duration `json:"detection_cache_ttl"`
	ResizeFactor       float64       `json:"resize_factor"`
}

const (
	defaultDetectorTimeout    = 60 * time.Second
	defaultMaxRetry           = 2
	defaultDetectionCacheSize = 64
	defaultDetectionCacheTTL  = 10 * time.Minute
	defaultResizeFactor       = 1.0
	maxRetryCap               = 20
)

// EffectiveAnalysisSettings returns validated settings with defaults.
// Order of precedence for the detector URL and the retry count:
// CLI override, then environment, then config.yaml, then defaults.
// Invalid or missing config values fall back to defaults.
func EffectiveAnalysisSettings() AnalysisSettings {
	cfg := AnalysisSettings{
		DetectorTimeout:    defaultDetectorTimeout,
		MaxRetry:           defaultMaxRetry,
		DetectionCacheSize: defaultDetectionCacheSize,
		DetectionCacheTTL:  defaultDetectionCacheTTL,
		ResizeFactor:       defaultResizeFactor,
	}

	if s, err := LoadSettings(); err == nil {
		cfg.DetectorURL = s.DetectorURL
		if s.DetectorTimeout > 0 {
			cfg.DetectorTimeout = s.DetectorTimeout
		}
		if s.MaxRetry != nil && *s.MaxRetry >= 0 {
			cfg.MaxRetry = *s.MaxRetry
		}
		cfg.ErrorWords = s.ErrorWords
		if s.DetectionCacheSize > 0 {
			cfg.DetectionCacheSize = s.DetectionCacheSize
		}
		if s.DetectionCacheTTL > 0 {
			cfg.DetectionCacheTTL = s.DetectionCacheTTL
		}
		if s.ResizeFactor > 0 && s.ResizeFactor <= 4 {
			cfg.ResizeFactor = s.ResizeFactor
		}
	}

	if v := strings.TrimSpace(os.Getenv("SELENIUMROBOT_DETECTOR_URL")); v != "" {
		cfg.DetectorURL = v
	}
	if v := os.Getenv("SELENIUMROBOT_MAX_RETRY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			cfg.MaxRetry = parsed
		}
	}
	if v := getDetectorURLOverride(); v != "" {
		cfg.DetectorURL = v
	}

	if cfg.MaxRetry > maxRetryCap {
		cfg.MaxRetry = maxRetryCap
	}
	return cfg
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// The override mutex protects the process-wide values of the CLI flags.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	overrideMu          sync.RWMutex
	dbPathOverride      string
	detectorURLOverride string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	overrideMu.Lock()
	dbPathOverride = path
	overrideMu.Unlock()
}

func getDBPathOverride() string {
	overrideMu.RLock()
	v := dbPathOverride
	overrideMu.RUnlock()
	return v
}

// SetDetectorURLOverride sets a process-wide detection service URL (--detector-url).
func SetDetectorURLOverride(url string) {
	overrideMu.Lock()
	detectorURLOverride = url
	overrideMu.Unlock()
}

func getDetectorURLOverride() string {
	overrideMu.RLock()
	v := detectorURLOverride
	overrideMu.RUnlock()
	return v
}

// configPaths lists config files in lookup order (first found wins):
// 1) ~/.config/seleniumrobot/config.yaml
// 2) /etc/seleniumrobot/config.yaml
// 3) ./config.yaml
func configPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(string(os.PathSeparator), "etc", "seleniumrobot", "config.yaml"),
		"config.yaml",
	}, nil
}

// LoadSettings loads configuration once using the documented lookup order.
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		paths, err := configPaths()
		if err != nil {
			settingsErr = err
			return
		}
		for _, p := range paths {
			s, err := loadSettingsFile(p)
			if err == nil {
				settings = s
				return
			}
			if !errors.Is(err, os.ErrNotExist) {
				settingsErr = err
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: config paths are fixed locations
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
