package config

import (
	"fmt"
	"os"
	"path/filepath"

	serr "traypack/internal/errors"
	"traypack/internal/tray"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Directories holds the input and output locations.
type Directories struct {
	Tray   string `yaml:"tray"`   // Tray export folder; empty means auto-locate
	Output string `yaml:"output"` // Output root for gallery item folders
}

// Settings controls how gallery items are written.
type Settings struct {
	DryRun      bool `yaml:"dry_run"`      // If true, only report what would be copied
	Verify      bool `yaml:"verify"`       // Compare xxh3 digests after every copy
	CleanOutput bool `yaml:"clean_output"` // Remove an existing output folder first
	Archive     bool `yaml:"archive"`      // Zip the output folder when done
	Debug       bool `yaml:"debug"`        // Enable debug logging
}

// Filter restricts which gallery items are packed.
type Filter struct {
	Include []string `yaml:"include"` // Glob patterns matched against item names
	Types   []string `yaml:"types"`   // Type folders to keep: households, plots, rooms
}

// WatchMode configures `traypack watch`.
type WatchMode struct {
	Debounce int `yaml:"debounce"` // Seconds of quiet before repacking
}

// Report configures the JSON run report.
type Report struct {
	Path string `yaml:"path"` // Empty disables the report
}

// Config represents the application configuration structure.
type Config struct {
	Directories Directories `yaml:"directories"`
	Settings    Settings    `yaml:"settings"`
	Filter      Filter      `yaml:"filter"`
	WatchMode   WatchMode   `yaml:"watch_mode"`
	Report      Report      `yaml:"report"`
}

// DefaultPath returns ~/.config/traypack/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "traypack", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, serr.Wrap(err, "error reading config file")
	}

	// Fields missing from the file keep their defaults.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, serr.NewConfigError("error parsing config file", path, serr.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, serr.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Directories.Tray = ""
	cfg.Directories.Output = "output"

	cfg.Settings.DryRun = false
	cfg.Settings.Verify = false
	cfg.Settings.CleanOutput = true // a fresh output folder every run
	cfg.Settings.Archive = false

	cfg.Filter.Include = []string{}
	cfg.Filter.Types = []string{}

	cfg.WatchMode.Debounce = 2

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return serr.NewConfigError("nil config", "", serr.InvalidConfig, nil)
	}

	if c.Directories.Output == "" {
		return serr.NewConfigError("output directory is required", "directories.output", serr.InvalidConfig, nil)
	}

	if c.WatchMode.Debounce < 1 {
		return serr.NewConfigError("debounce must be >= 1 second", "watch_mode.debounce", serr.InvalidConfig, nil)
	}

	known := make(map[string]bool)
	for _, folder := range tray.Folders() {
		known[folder] = true
	}
	for i, typ := range c.Filter.Types {
		if !known[typ] {
			return serr.NewConfigError(fmt.Sprintf("unknown item type %q", typ),
				fmt.Sprintf("filter.types[%d]", i), serr.InvalidConfig, nil)
		}
	}

	for i, pattern := range c.Filter.Include {
		if pattern == "" {
			return serr.NewConfigError("empty pattern", fmt.Sprintf("filter.include[%d]", i), serr.InvalidConfig, nil)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return serr.NewConfigError("bad pattern", fmt.Sprintf("filter.include[%d]", i), serr.InvalidConfig, err)
		}
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(output string) *Config {
	cfg := defaultConfig()
	cfg.Directories.Output = output
	cfg.Settings.Verify = true
	return cfg
}
