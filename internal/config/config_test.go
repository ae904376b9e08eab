package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	want := Default()
	if cfg.Viewport != want.Viewport || cfg.SnapThreshold != want.SnapThreshold {
		t.Fatalf("got %+v, want defaults", cfg)
	}
	if !cfg.Autosave.GetEnabled() {
		t.Fatal("autosave should default to enabled")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
viewport:
  width: 1920
  height: 1080
snap_threshold: 32
autosave:
  enabled: false
  interval_seconds: 60
  debounce_ms: 500
  remote:
    endpoint: https://sync.example.com/v1/session
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Viewport.Width != 1920 || cfg.Viewport.Height != 1080 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.SnapThreshold != 32 {
		t.Errorf("snap_threshold = %d", cfg.SnapThreshold)
	}
	if cfg.Autosave.GetEnabled() {
		t.Error("autosave should be disabled")
	}
	if cfg.Autosave.Interval() != time.Minute {
		t.Errorf("interval = %v", cfg.Autosave.Interval())
	}
	if cfg.Autosave.DebounceWindow() != 500*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Autosave.DebounceWindow())
	}
	if cfg.Autosave.Remote.Endpoint != "https://sync.example.com/v1/session" {
		t.Errorf("endpoint = %q", cfg.Autosave.Remote.Endpoint)
	}
	// Unset fields keep their defaults.
	if cfg.Chrome.MenuBarHeight != Default().Chrome.MenuBarHeight {
		t.Errorf("chrome = %+v", cfg.Chrome)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero viewport":     "viewport:\n  width: 0\n  height: 900\n",
		"negative snap":     "snap_threshold: -1\n",
		"zero ceiling":      "z_order_ceiling: 0\n",
		"bad log level":     "log_level: loud\n",
		"negative interval": "autosave:\n  interval_seconds: -5\n",
		"not yaml":          "viewport: [badly nested\n",
	}
	for name, content := range cases {
		if _, err := LoadFromPath(writeConfig(t, content)); err == nil {
			t.Errorf("%s: config accepted", name)
		}
	}
}
