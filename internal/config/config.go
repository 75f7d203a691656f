// Package config handles persistent user configuration for swatch.
//
// Configuration is stored as JSON at ~/.config/swatch/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Values can be
// overridden per process with SWATCH_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/swatch/internal/service"
)

const (
	appDir   = "swatch"
	fileName = "config.json"

	EnvServiceURL = "SWATCH_SERVICE_URL"
	EnvTimeout    = "SWATCH_TIMEOUT"
	EnvRetries    = "SWATCH_RETRIES"

	DefaultRetries = 3
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
// Empty fields mean "use the default".
type Config struct {
	ServiceURL string `json:"service_url,omitempty"`
	Timeout    string `json:"timeout,omitempty"`
	Retries    string `json:"retries,omitempty"`
}

// Settings are the effective values after defaults and overrides.
type Settings struct {
	ServiceURL string
	Timeout    time.Duration
	Retries    int
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}

// Resolve merges defaults, the file values in c and the SWATCH_*
// environment, in increasing priority. Invalid values are reported
// together with the source they came from.
func (c *Config) Resolve() (Settings, error) {
	s := Settings{
		ServiceURL: service.DefaultBaseURL,
		Timeout:    service.DefaultTimeout,
		Retries:    DefaultRetries,
	}

	layers := []struct {
		source string
		get    func(string) string
	}{
		{"config file", func(key string) string { return c.fileValue(key) }},
		{"environment", func(key string) string { return os.Getenv(envFor(key)) }},
	}

	for _, layer := range layers {
		if v := strings.TrimSpace(layer.get("service-url")); v != "" {
			if err := ValidateServiceURL(v); err != nil {
				return Settings{}, fmt.Errorf("config: %s service-url: %w", layer.source, err)
			}
			s.ServiceURL = v
		}
		if v := strings.TrimSpace(layer.get("timeout")); v != "" {
			d, err := ParseTimeout(v)
			if err != nil {
				return Settings{}, fmt.Errorf("config: %s timeout: %w", layer.source, err)
			}
			s.Timeout = d
		}
		if v := strings.TrimSpace(layer.get("retries")); v != "" {
			n, err := ParseRetries(v)
			if err != nil {
				return Settings{}, fmt.Errorf("config: %s retries: %w", layer.source, err)
			}
			s.Retries = n
		}
	}

	return s, nil
}

func (c *Config) fileValue(key string) string {
	if spec := Lookup(key); spec != nil {
		return spec.Get(c)
	}
	return ""
}

func envFor(key string) string {
	switch key {
	case "service-url":
		return EnvServiceURL
	case "timeout":
		return EnvTimeout
	case "retries":
		return EnvRetries
	}
	return ""
}

// ParseTimeout parses a positive Go duration such as "10s".
func ParseTimeout(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (examples: 5s, 1m)", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

// ParseRetries parses an attempt count between 1 and 10.
func ParseRetries(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	if n < 1 || n > 10 {
		return 0, fmt.Errorf("retries must be between 1 and 10, got %d", n)
	}
	return n, nil
}
