package config

import (
	"fmt"
	"net/url"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "service-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Validate checks a value before it is stored. An empty value always
	// passes and resets the key to its default.
	Validate func(value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "service-url",
		Description: "Base URL of the palette service (default http://127.0.0.1:5000)",
		Get:         func(cfg *Config) string { return cfg.ServiceURL },
		Set:         func(cfg *Config, v string) { cfg.ServiceURL = v },
		Validate:    ValidateServiceURL,
	},
	{
		Name:        "timeout",
		Description: "Per-request timeout as a duration (default 10s)",
		Get:         func(cfg *Config) string { return cfg.Timeout },
		Set:         func(cfg *Config, v string) { cfg.Timeout = v },
		Validate:    func(v string) error { _, err := ParseTimeout(v); return err },
	},
	{
		Name:        "retries",
		Description: "Attempts per request for transient failures, 1-10 (default 3)",
		Get:         func(cfg *Config) string { return cfg.Retries },
		Set:         func(cfg *Config, v string) { cfg.Retries = v },
		Validate:    func(v string) error { _, err := ParseRetries(v); return err },
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}

// ValidateServiceURL requires an absolute http or https URL with a host.
func ValidateServiceURL(v string) error {
	u, err := url.Parse(v)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", v, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q must use http or https", v)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", v)
	}
	return nil
}
