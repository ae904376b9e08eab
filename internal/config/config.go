// Package config loads the shell configuration from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ViewportConfig is the fallback desktop size used before the embedding
// shell reports a real viewport.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ChromeConfig reserves screen space for persistent shell chrome.
type ChromeConfig struct {
	MenuBarHeight int `yaml:"menu_bar_height"`
	DockHeight    int `yaml:"dock_height"`
}

// RemoteConfig points autosave at a sync endpoint. An empty endpoint
// disables the remote backend entirely.
type RemoteConfig struct {
	Endpoint       string `yaml:"endpoint,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// AutosaveConfig controls the save scheduler.
type AutosaveConfig struct {
	Enabled         *bool        `yaml:"enabled,omitempty"`
	IntervalSeconds int          `yaml:"interval_seconds,omitempty"`
	DebounceMs      int          `yaml:"debounce_ms,omitempty"`
	Remote          RemoteConfig `yaml:"remote,omitempty"`
}

// GetEnabled returns the effective value, defaulting to true.
func (a *AutosaveConfig) GetEnabled() bool {
	if a == nil || a.Enabled == nil {
		return true
	}
	return *a.Enabled
}

// Interval returns the periodic save floor as a duration.
func (a *AutosaveConfig) Interval() time.Duration {
	return time.Duration(a.IntervalSeconds) * time.Second
}

// DebounceWindow returns the debounce quiet period as a duration.
func (a *AutosaveConfig) DebounceWindow() time.Duration {
	return time.Duration(a.DebounceMs) * time.Millisecond
}

// DesktopConfig holds the default desktop appearance for fresh sessions.
type DesktopConfig struct {
	Wallpaper   string `yaml:"wallpaper,omitempty"`
	Theme       string `yaml:"theme,omitempty"`
	AccentColor string `yaml:"accent_color,omitempty"`
}

// Config is the full shell configuration.
type Config struct {
	Viewport      ViewportConfig `yaml:"viewport"`
	Chrome        ChromeConfig   `yaml:"chrome"`
	SnapThreshold int            `yaml:"snap_threshold"`
	ZOrderCeiling int            `yaml:"z_order_ceiling"`
	Autosave      AutosaveConfig `yaml:"autosave"`
	Desktop       DesktopConfig  `yaml:"desktop,omitempty"`
	SessionsDir   string         `yaml:"sessions_dir,omitempty"`
	LogLevel      string         `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Viewport:      ViewportConfig{Width: 1440, Height: 900},
		Chrome:        ChromeConfig{MenuBarHeight: 28, DockHeight: 70},
		SnapThreshold: 20,
		ZOrderCeiling: 10000,
		Autosave: AutosaveConfig{
			IntervalSeconds: 30,
			DebounceMs:      2000,
			Remote:          RemoteConfig{TimeoutSeconds: 10},
		},
		Desktop:  DesktopConfig{Theme: "light"},
		LogLevel: "info",
	}
}

// DefaultConfigPath returns the standard per-user config location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "webdesk", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates a config file. Fields the file omits keep
// their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Chrome.MenuBarHeight < 0 || c.Chrome.DockHeight < 0 {
		return fmt.Errorf("chrome heights must be non-negative")
	}
	if c.SnapThreshold < 0 {
		return fmt.Errorf("snap_threshold must be non-negative, got %d", c.SnapThreshold)
	}
	if c.ZOrderCeiling < 1 {
		return fmt.Errorf("z_order_ceiling must be at least 1, got %d", c.ZOrderCeiling)
	}
	if c.Autosave.IntervalSeconds < 1 {
		return fmt.Errorf("autosave interval_seconds must be at least 1, got %d", c.Autosave.IntervalSeconds)
	}
	if c.Autosave.DebounceMs < 0 {
		return fmt.Errorf("autosave debounce_ms must be non-negative, got %d", c.Autosave.DebounceMs)
	}
	if c.Autosave.Remote.TimeoutSeconds < 0 {
		return fmt.Errorf("autosave remote timeout_seconds must be non-negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
