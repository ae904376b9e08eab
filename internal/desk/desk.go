// Package desk holds the shared window, app and desktop state. All mutation
// goes through Store methods, which compute geometry with the stateless
// geometry package, enforce the stacking and focus invariants, and publish a
// lifecycle event per mutation on the bus.
package desk

import (
	"errors"
	"time"

	"github.com/webdesk/webdesk/internal/geometry"
)

// Bus topics published by the store.
const (
	TopicWindowOpened    = "window.opened"
	TopicWindowClosed    = "window.closed"
	TopicWindowMoved     = "window.moved"
	TopicWindowResized   = "window.resized"
	TopicWindowFocused   = "window.focused"
	TopicWindowZoomed    = "window.zoomed"
	TopicWindowMinimized = "window.minimized"
	TopicWindowRestored  = "window.restored"
	TopicAppLaunched     = "app.launched"
	TopicAppQuit         = "app.quit"
	TopicDesktopChanged  = "desktop.changed"
)

// MutationTopics lists every topic that represents persistent-state change.
// The autosave orchestrator subscribes to these.
func MutationTopics() []string {
	return []string{
		TopicWindowOpened,
		TopicWindowClosed,
		TopicWindowMoved,
		TopicWindowResized,
		TopicWindowFocused,
		TopicWindowZoomed,
		TopicWindowMinimized,
		TopicWindowRestored,
		TopicAppLaunched,
		TopicAppQuit,
		TopicDesktopChanged,
	}
}

// WindowState is the window's lifecycle state.
type WindowState string

const (
	StateNormal    WindowState = "normal"
	StateMinimized WindowState = "minimized"
	StateMaximized WindowState = "maximized"
)

// Window is one open window. Field names follow the shell's JSON wire
// contract.
type Window struct {
	ID               string          `json:"id"`
	AppID            string          `json:"appId"`
	Title            string          `json:"title,omitempty"`
	Position         geometry.Point  `json:"position"`
	Size             geometry.Size   `json:"size"`
	MinSize          *geometry.Size  `json:"minSize,omitempty"`
	MaxSize          *geometry.Size  `json:"maxSize,omitempty"`
	State            WindowState     `json:"state"`
	ZIndex           int             `json:"zIndex"`
	Active           bool            `json:"isActive"`
	Resizable        bool            `json:"isResizable"`
	OriginalPosition *geometry.Point `json:"originalPosition,omitempty"`
	OriginalSize     *geometry.Size  `json:"originalSize,omitempty"`
}

// Rect returns the window's current frame.
func (w Window) Rect() geometry.Rect {
	return geometry.Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}

// App is a running application and the windows it owns.
type App struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	WindowIDs  []string  `json:"windowIds"`
	LaunchedAt time.Time `json:"launchedAt"`
}

// Desktop holds the desktop-level properties that persist across sessions.
type Desktop struct {
	Wallpaper     string                    `json:"wallpaper"`
	Theme         string                    `json:"theme"`
	AccentColor   string                    `json:"accentColor"`
	IconPositions map[string]geometry.Point `json:"iconPositions"`
	PinnedApps    []string                  `json:"pinnedApps"`
}

// WindowEvent is the payload for window.* topics.
type WindowEvent struct {
	WindowID string
	AppID    string
}

var (
	// ErrWindowNotFound is returned for operations on unknown window ids.
	ErrWindowNotFound = errors.New("window not found")
	// ErrInvalidSize is returned when a requested size is not positive.
	ErrInvalidSize = errors.New("window size must be positive")
	// ErrNotResizable is returned for resize/zoom on a fixed-size window.
	ErrNotResizable = errors.New("window is not resizable")
)
