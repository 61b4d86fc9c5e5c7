package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/seleniumrobot/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "seleniumrobot"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# seleniumrobot configuration
# Run: seleniumrobot --help

# Optional: override the SQLite database location.
# Can also be set via SELENIUMROBOT_DB_PATH or --db-path.
# db_path: ~/.config/seleniumrobot/seleniumrobot.db

# How long a write waits while another test runner holds the database.
# Can also be set via SELENIUMROBOT_BUSY_TIMEOUT_MS.
# db_busy_timeout: 30s

# URL of the image field detection service.
# Can also be set via SELENIUMROBOT_DETECTOR_URL or --detector-url.
# detector_url: http://localhost:5000

# HTTP timeout of detection requests.
# detector_timeout: 60s

# Times a failed test is run again (SELENIUMROBOT_MAX_RETRY).
# max_retry: 2

# Words that make a label an error message (case sensitive).
# error_words: [error, erreur, problem, problème]

# Detection results kept in memory, and for how long.
# detection_cache_size: 64
# detection_cache_ttl: 10m

# Scale factor applied to screenshots before detection.
# resize_factor: 1
`
