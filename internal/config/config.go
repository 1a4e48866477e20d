package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for desk, stored in <data-dir>/config.yaml.
// Every key can be overridden by a DESK_ prefixed environment variable, with
// dots replaced by underscores (e.g. DESK_STORAGE_BACKEND=sqlite).
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Storage  StorageConfig `mapstructure:"storage"`
	Timer    TimerConfig   `mapstructure:"timer"`

	// DemoData fills a fresh install with example goals.
	DemoData bool `mapstructure:"demo_data"`
}

// StorageConfig selects the key-value backend for goals and desks.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file for the sqlite backend. Empty = <data-dir>/desk.db.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// TimerConfig holds focus timer preferences.
type TimerConfig struct {
	// DefaultMinutes preselects a duration when the timer opens. 0 = none.
	DefaultMinutes int `mapstructure:"default_minutes"`
	// Bell rings the terminal bell when a session expires.
	Bell bool `mapstructure:"bell"`
}

const (
	DefaultLogLevel = "warn"
	DefaultBackend  = "file"
	fileName        = "config.yaml"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# desk configuration
#
# All settings are optional; the defaults below work out of the box.
# Any key can be overridden from the environment, e.g. DESK_LOG_LEVEL=debug.

# Log verbosity: panic, fatal, error, warn, info, debug, trace.
log_level: warn

# Show example goals until the first goal is saved.
demo_data: true

storage:
  # "file" keeps one JSON file per key under state/.
  # "sqlite" keeps everything in a single database file.
  backend: file
  # Only used by the sqlite backend. Empty means <data-dir>/desk.db.
  sqlite_path: ""

timer:
  # Preselected focus duration in minutes: 0 (none), 15, 30, 45 or 60.
  default_minutes: 0
  # Ring the terminal bell when a focus session ends.
  bell: true
`

// Path returns the config file location inside the data directory.
func Path(base string) string {
	return filepath.Join(base, fileName)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("demo_data", true)
	v.SetDefault("storage.backend", DefaultBackend)
	v.SetDefault("storage.sqlite_path", "")
	v.SetDefault("timer.default_minutes", 0)
	v.SetDefault("timer.bell", true)
	return v
}

// Default returns the built-in configuration with environment overrides applied.
func Default() Config {
	var cfg Config
	_ = newViper().Unmarshal(&cfg)
	return cfg
}

// Load reads <base>/config.yaml, creating it with annotated defaults on first
// run. A config that fails to parse yields the defaults plus an error so the
// caller can warn and continue.
func Load(base string) (Config, error) {
	path := Path(base)
	v := newViper()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			return Default(), fmt.Errorf("decoding default config: %w", err)
		}
		return cfg, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("decoding config file %s: %w", path, err)
	}

	// An explicit empty string in the file still means "use the default".
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
