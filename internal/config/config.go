// Package config provides persistent configuration for the adhan CLI.
//
// Configuration is stored as JSON at $XDG_CONFIG_HOME/adhan/config.json.
// ADHAN_* environment variables, optionally loaded from a .env file, override
// the file. The merge priority is: CLI flags > environment > config file >
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/adhan/internal/settings"
)

const (
	configDirName  = "adhan"
	configFileName = "config.json"
	envPrefix      = "ADHAN_"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"country", "city",
	"latitude_method", "prayer_method", "asr_method",
	"output_device",
	"documents_dir", "cache_dir",
	"time_format",
}

// Config holds all user-configurable settings. Empty strings mean "not set".
type Config struct {
	Country        string `json:"country,omitempty"`
	City           string `json:"city,omitempty"`
	LatitudeMethod string `json:"latitude_method,omitempty"`
	PrayerMethod   string `json:"prayer_method,omitempty"`
	AsrMethod      string `json:"asr_method,omitempty"`
	OutputDevice   string `json:"output_device,omitempty"`
	DocumentsDir   string `json:"documents_dir,omitempty"`
	CacheDir       string `json:"cache_dir,omitempty"`
	TimeFormat     string `json:"time_format,omitempty"` // "12h" or "24h"
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Country:        "uk",
		City:           "bath",
		LatitudeMethod: settings.OneSeventh.String(),
		PrayerMethod:   settings.MWL.String(),
		AsrMethod:      settings.Shafi.String(),
		TimeFormat:     "24h",
	}
}

// Dir returns the config directory path. $XDG_CONFIG_HOME is honoured when
// set at call time.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configDirName)
	}
	return filepath.Join(xdg.ConfigHome, configDirName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), configFileName)
}

// Load reads the config file from its default location.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from a specific file path. A missing file yields
// an empty Config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to its default location.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config to a specific file path, creating the directory
// if needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file at its default location.
func Reset() error {
	return ResetAt(Path())
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// field returns a pointer to the field stored under key.
func (c *Config) field(key string) (*string, bool) {
	switch key {
	case "country":
		return &c.Country, true
	case "city":
		return &c.City, true
	case "latitude_method":
		return &c.LatitudeMethod, true
	case "prayer_method":
		return &c.PrayerMethod, true
	case "asr_method":
		return &c.AsrMethod, true
	case "output_device":
		return &c.OutputDevice, true
	case "documents_dir":
		return &c.DocumentsDir, true
	case "cache_dir":
		return &c.CacheDir, true
	case "time_format":
		return &c.TimeFormat, true
	}
	return nil, false
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	f, ok := c.field(key)
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	if err := validateValue(key, value); err != nil {
		return err
	}
	*f = value
	return nil
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (string, error) {
	f, ok := c.field(key)
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return *f, nil
}

func validateValue(key, value string) error {
	var err error
	switch key {
	case "latitude_method":
		_, err = settings.ParseLatitudeMethod(value)
	case "prayer_method":
		_, err = settings.ParsePrayerMethod(value)
	case "asr_method":
		_, err = settings.ParseAsrMethod(value)
	case "time_format":
		if value != "12h" && value != "24h" {
			err = fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
	case "country", "city":
		if strings.TrimSpace(value) == "" {
			err = fmt.Errorf("%s must not be empty", key)
		}
	}
	return err
}

// LoadDotEnv loads environment variables from the given files, or from .env
// in the working directory when none are named. Missing files are ignored;
// variables already in the environment are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// EnvName returns the environment variable overriding key, e.g.
// ADHAN_PRAYER_METHOD.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

// ApplyEnv overrides every key whose ADHAN_* variable is set and non-empty.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range ValidKeys {
		value, ok := lookup(EnvName(key))
		if !ok || value == "" {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}
	return nil
}

// WithDefaults returns a copy with every unset key filled from Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	for _, key := range ValidKeys {
		f, _ := c.field(key)
		if *f == "" {
			def, _ := d.field(key)
			*f = *def
		}
	}
	return c
}

// Methods parses the three method names.
func (c Config) Methods() (settings.CalculationMethods, error) {
	var m settings.CalculationMethods
	var err error
	if m.Latitude, err = settings.ParseLatitudeMethod(c.LatitudeMethod); err != nil {
		return m, err
	}
	if m.Organisation, err = settings.ParsePrayerMethod(c.PrayerMethod); err != nil {
		return m, err
	}
	if m.Asr, err = settings.ParseAsrMethod(c.AsrMethod); err != nil {
		return m, err
	}
	return m, nil
}

// Location returns the configured feed location.
func (c Config) Location() settings.Location {
	return settings.Location{Country: c.Country, City: c.City}
}

// TimeLayout returns the Go time layout for TimeFormat.
func (c Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
