package runtimepath

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir returns the runtime directory used for webdesk state lookups.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/webdesk-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/webdesk-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// ActiveSessionPath returns the path of the marker recording which named
// session was last restored or saved.
func ActiveSessionPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "webdesk-active-session.json"), nil
}

type activeSession struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordActiveSession writes the active-session marker. Each call replaces
// the previous marker.
func RecordActiveSession(name string) error {
	path, err := ActiveSessionPath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(activeSession{Name: name, UpdatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal active session: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write active session marker: %w", err)
	}
	return nil
}

// ActiveSession returns the name recorded by the last RecordActiveSession
// call, or "" when no marker exists.
func ActiveSession() (string, error) {
	path, err := ActiveSessionPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read active session marker: %w", err)
	}
	var marker activeSession
	if err := json.Unmarshal(data, &marker); err != nil {
		return "", fmt.Errorf("failed to parse active session marker: %w", err)
	}
	return marker.Name, nil
}
