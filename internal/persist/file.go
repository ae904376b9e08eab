package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CurrentSessionName is the slot the autosave loop writes to. Named saves
// created by the user live alongside it.
const CurrentSessionName = "current"

// FileStore keeps session snapshots as JSON files in a single directory,
// one file per named session.
type FileStore struct {
	dir string
}

// DefaultSessionsDir returns the per-user session directory.
func DefaultSessionsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "webdesk", "sessions"), nil
}

// NewFileStore creates a store rooted at dir. An empty dir selects the
// default per-user location.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		var err error
		dir, err = DefaultSessionsDir()
		if err != nil {
			return nil, err
		}
	}
	return &FileStore{dir: dir}, nil
}

// Name implements Backend.
func (s *FileStore) Name() string { return "file" }

// Persist implements Backend by writing the autosave slot.
func (s *FileStore) Persist(_ context.Context, data []byte) error {
	return s.Put(CurrentSessionName, json.RawMessage(data))
}

func validateSessionName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("session name is required")
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid session name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid session name %q", name)
	}
	return nil
}

func (s *FileStore) path(name string) (string, error) {
	if err := validateSessionName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Put writes a named session snapshot, creating the directory as needed.
func (s *FileStore) Put(name string, state any) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write session %q: %w", name, err)
	}
	return nil
}

// Get reads a named session snapshot into out.
func (s *FileStore) Get(name string, out any) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read session %q: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse session %q: %w", name, err)
	}
	return nil
}

// Delete removes a named session snapshot.
func (s *FileStore) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete session %q: %w", name, err)
	}
	return nil
}

// List returns the saved session names, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
