// Package config handles loading and saving tt configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tt/config.yaml
//   - State:   ~/.local/state/tt/ (saved preferences such as the theme)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "tt"

// UIConfig holds UI preference settings.
type UIConfig struct {
	ItemsPerPage int    `yaml:"items_per_page,omitempty"` // Roots per page (default 10)
	Theme        string `yaml:"theme,omitempty"`          // light or dark, used until a preference is saved
}

// MockConfig shapes the generated dataset used when no source is configured.
type MockConfig struct {
	Seed        int64         `yaml:"seed,omitempty"`
	Roots       int           `yaml:"roots,omitempty"`
	MaxChildren int           `yaml:"max_children,omitempty"`
	Latency     time.Duration `yaml:"latency,omitempty"` // Simulated fetch delay
}

// DataConfig lists where records come from.
type DataConfig struct {
	Sources []string   `yaml:"sources,omitempty"` // json, jsonl or sqlite files
	Mock    MockConfig `yaml:"mock,omitempty"`
}

// Config is the top-level configuration for tt.
type Config struct {
	UI    UIConfig   `yaml:"ui,omitempty"`
	Data  DataConfig `yaml:"data,omitempty"`
	Watch bool       `yaml:"watch,omitempty"` // Reload when a source file changes
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			ItemsPerPage: 10,
			Theme:        "light",
		},
		Data: DataConfig{
			Mock: MockConfig{
				Seed:        1,
				Roots:       25,
				MaxChildren: 3,
				Latency:     300 * time.Millisecond,
			},
		},
	}
}

// ConfigDir returns the XDG config directory for tt.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for tt.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.UI.ItemsPerPage <= 0 {
		cfg.UI.ItemsPerPage = DefaultConfig().UI.ItemsPerPage
	}

	// Expand ~ in source paths
	for i := range cfg.Data.Sources {
		cfg.Data.Sources[i] = expandHome(cfg.Data.Sources[i])
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ParseSources splits a comma separated --data value, dropping blanks.
func ParseSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, expandHome(part))
		}
	}
	return out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
