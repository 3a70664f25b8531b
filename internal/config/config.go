package config

import (
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Config holds all sitespectre configuration.
type Config struct {
	Defaults      Defaults       `yaml:"defaults"`
	Exclude       Exclude        `yaml:"exclude"`
	Notifications []Notification `yaml:"notifications"`
}

// Defaults holds default CLI flag values.
type Defaults struct {
	Format    string `yaml:"format"`
	FailUnder int    `yaml:"fail_under"` // minimum acceptable compliance score, 0 disables the gate
}

// Exclude lists issue categories to skip entirely.
type Exclude struct {
	Categories []string `yaml:"categories"`
}

// Notification configures one delivery channel for baseline diff events.
type Notification struct {
	ID     string   `yaml:"id"`
	Type   string   `yaml:"type"`             // webhook, slack, or email
	URL    string   `yaml:"url,omitempty"`    // webhook/slack endpoint, ${ENV_VAR} expanded
	Events []string `yaml:"events,omitempty"` // subset of new_critical/new_high/resolved, empty = all

	// Email channel settings.
	SMTPHost string   `yaml:"smtp_host,omitempty"`
	SMTPPort int      `yaml:"smtp_port,omitempty"`
	From     string   `yaml:"from,omitempty"`
	To       []string `yaml:"to,omitempty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Defaults: Defaults{
			Format:    "text",
			FailUnder: 0,
		},
	}
}

// Load reads configuration from .sitespectre.yml in the given directory,
// falling back to ~/.sitespectre.yml. Returns DefaultConfig if no file found.
func Load(dir string) (Config, error) {
	cfg := DefaultConfig()

	// Try CWD first, then home directory.
	paths := []string{filepath.Join(dir, ".sitespectre.yml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".sitespectre.yml"))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue // file not found, try next
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	return cfg, nil
}

// ExcludesCategory reports whether a category name is configured to be skipped.
func (c *Config) ExcludesCategory(category string) bool {
	for _, excluded := range c.Exclude.Categories {
		if excluded == category {
			return true
		}
	}
	return false
}
