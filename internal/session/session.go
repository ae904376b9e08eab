// Package session snapshots and restores the desktop session: a versioned
// JSON state for persistence plus a compact short-keyed encoding usable as a
// shareable deep link.
package session

import (
	"log/slog"
	"time"

	"github.com/webdesk/webdesk/internal/desk"
	"github.com/webdesk/webdesk/internal/geometry"
)

// Version is the current snapshot schema version. Incompatible changes to
// the persisted or compact schema require a major bump and a migration path,
// since existing shared links must keep decoding.
const Version = "1.0.0"

// State is a full session snapshot. Field names are the shell's JSON wire
// contract and never change without a version bump.
type State struct {
	Version        string        `json:"version"`
	Timestamp      int64         `json:"timestamp"`
	Windows        []WindowState `json:"windows"`
	Apps           []AppState    `json:"apps"`
	Desktop        DesktopState  `json:"desktop"`
	ActiveWindowID string        `json:"activeWindowId,omitempty"`
	PinnedApps     []string      `json:"pinnedApps,omitempty"`
}

// WindowState is one window's persisted geometry and state.
type WindowState struct {
	ID          string `json:"id"`
	AppID       string `json:"appId,omitempty"`
	Title       string `json:"title,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	IsMinimized bool   `json:"isMinimized"`
	IsMaximized bool   `json:"isMaximized"`
	ZIndex      int    `json:"zIndex"`
}

// AppState is one running app and its owned windows.
type AppState struct {
	ID        string   `json:"id"`
	WindowIDs []string `json:"windowIds,omitempty"`
}

// DesktopState holds the persisted desktop properties.
type DesktopState struct {
	Wallpaper     string                    `json:"wallpaper,omitempty"`
	Theme         string                    `json:"theme,omitempty"`
	AccentColor   string                    `json:"accentColor,omitempty"`
	IconPositions map[string]geometry.Point `json:"iconPositions,omitempty"`
}

// RestoreReport lists what a restore could apply directly and what needs the
// embedding shell to relaunch applications. Nothing is silently dropped.
type RestoreReport struct {
	DesktopApplied bool
	PinnedApplied  bool
	// PendingApps are app ids from the snapshot that are not running and
	// must be relaunched before their windows can be recreated.
	PendingApps []string
	// PendingWindows are the snapshot windows owned by pending apps.
	PendingWindows []WindowState
}

// Manager binds serialization to a live store.
type Manager struct {
	store  *desk.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a session manager for the store. logger may be nil.
func NewManager(store *desk.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// SerializeSystemState reads the live store and emits a snapshot. It has no
// side effects on the state it describes; transient UI state (hover,
// in-progress drags) is not part of the store and so never captured.
func (m *Manager) SerializeSystemState() State {
	st := State{
		Version:        Version,
		Timestamp:      m.now().UnixMilli(),
		ActiveWindowID: m.store.ActiveWindowID(),
	}

	for _, w := range m.store.Windows() {
		st.Windows = append(st.Windows, WindowState{
			ID:          w.ID,
			AppID:       w.AppID,
			Title:       w.Title,
			X:           w.Position.X,
			Y:           w.Position.Y,
			Width:       w.Size.Width,
			Height:      w.Size.Height,
			IsMinimized: w.State == desk.StateMinimized,
			IsMaximized: w.State == desk.StateMaximized,
			ZIndex:      w.ZIndex,
		})
	}

	for _, a := range m.store.Apps() {
		st.Apps = append(st.Apps, AppState{ID: a.ID, WindowIDs: a.WindowIDs})
	}

	d := m.store.Desktop()
	st.Desktop = DesktopState{
		Wallpaper:     d.Wallpaper,
		Theme:         d.Theme,
		AccentColor:   d.AccentColor,
		IconPositions: d.IconPositions,
	}
	st.PinnedApps = d.PinnedApps
	return st
}

// RestoreSystemState applies what can be restored directly (desktop
// properties, icon positions, pinned apps) and reports the windows and
// apps that require relaunching. Per-item problems are logged and skipped;
// restoration continues for the rest.
func (m *Manager) RestoreSystemState(st State) *RestoreReport {
	report := &RestoreReport{}

	if st.Desktop.Wallpaper != "" {
		m.store.SetWallpaper(st.Desktop.Wallpaper)
	}
	if st.Desktop.Theme != "" || st.Desktop.AccentColor != "" {
		m.store.SetTheme(st.Desktop.Theme, st.Desktop.AccentColor)
	}
	for icon, pos := range st.Desktop.IconPositions {
		m.store.SetIconPosition(icon, pos)
	}
	report.DesktopApplied = true

	for _, appID := range st.PinnedApps {
		m.store.PinApp(appID)
	}
	report.PinnedApplied = true

	running := make(map[string]struct{})
	for _, a := range m.store.Apps() {
		running[a.ID] = struct{}{}
	}

	pending := make(map[string]struct{})
	for _, w := range st.Windows {
		if w.AppID == "" {
			m.logger.Warn("skipping snapshot window without app", "window", w.ID)
			continue
		}
		if _, ok := running[w.AppID]; ok {
			continue
		}
		if _, seen := pending[w.AppID]; !seen {
			pending[w.AppID] = struct{}{}
			report.PendingApps = append(report.PendingApps, w.AppID)
		}
		report.PendingWindows = append(report.PendingWindows, w)
	}

	for _, a := range st.Apps {
		if _, ok := running[a.ID]; ok {
			continue
		}
		if _, seen := pending[a.ID]; !seen {
			pending[a.ID] = struct{}{}
			report.PendingApps = append(report.PendingApps, a.ID)
		}
	}

	if len(report.PendingApps) > 0 {
		m.logger.Info("restore requires app relaunch",
			"apps", len(report.PendingApps),
			"windows", len(report.PendingWindows))
	}
	return report
}

// CreateShareableEncoding snapshots the session and returns the compact
// URL-safe deep-link encoding.
func (m *Manager) CreateShareableEncoding() string {
	encoded, err := Compress(m.SerializeSystemState())
	if err != nil {
		m.logger.Error("failed to encode session", "error", err)
		return ""
	}
	return encoded
}

// LoadFromEncoding decodes a deep link. Malformed or version-incompatible
// input yields nil; the caller falls back to a fresh session.
func (m *Manager) LoadFromEncoding(encoded string) *State {
	st, err := Decompress(encoded)
	if err != nil {
		m.logger.Warn("ignoring malformed session link", "error", err)
		return nil
	}
	return st
}
