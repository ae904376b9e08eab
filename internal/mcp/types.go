package mcp

import "time"

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	AppID  string `json:"app_id" jsonschema:"required,Application id that owns the window"`
	Title  string `json:"title,omitempty" jsonschema:"Window title"`
	Width  int    `json:"width,omitempty" jsonschema:"Window width in pixels (default: 400)"`
	Height int    `json:"height,omitempty" jsonschema:"Window height in pixels (default: 300)"`
	X      *int   `json:"x,omitempty" jsonschema:"Explicit x position. When omitted the window is cascaded."`
	Y      *int   `json:"y,omitempty" jsonschema:"Explicit y position. When omitted the window is cascaded."`
}

// WindowInfo describes one window.
type WindowInfo struct {
	ID       string `json:"id"`
	AppID    string `json:"app_id"`
	Title    string `json:"title,omitempty"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	State    string `json:"state"`
	ZIndex   int    `json:"z_index"`
	IsActive bool   `json:"is_active"`
}

// WindowTargetInput addresses a window by id.
type WindowTargetInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Id of the target window"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Id of the target window"`
	X        int    `json:"x" jsonschema:"required,Target x position"`
	Y        int    `json:"y" jsonschema:"required,Target y position"`
	Snap     bool   `json:"snap,omitempty" jsonschema:"When true, snap to the nearest edge or corner within the snap threshold, as a drag release would"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Id of the target window"`
	Width    int    `json:"width" jsonschema:"required,Target width in pixels"`
	Height   int    `json:"height" jsonschema:"required,Target height in pixels"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows        []WindowInfo `json:"windows"`
	ActiveWindowID string       `json:"active_window_id,omitempty"`
}

// SetDesktopInput is the input for the set_desktop tool.
type SetDesktopInput struct {
	Wallpaper   string `json:"wallpaper,omitempty" jsonschema:"Wallpaper asset reference"`
	Theme       string `json:"theme,omitempty" jsonschema:"Theme name (e.g. light, dark)"`
	AccentColor string `json:"accent_color,omitempty" jsonschema:"Accent color (e.g. #ff8800)"`
}

// SetDesktopOutput is the output for the set_desktop tool.
type SetDesktopOutput struct {
	Wallpaper   string `json:"wallpaper,omitempty"`
	Theme       string `json:"theme,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
}

// SnapshotSessionInput is the input for the snapshot_session tool.
type SnapshotSessionInput struct{}

// SnapshotSessionOutput is the output for the snapshot_session tool.
type SnapshotSessionOutput struct {
	Encoding string `json:"encoding"`
	Windows  int    `json:"windows"`
	Apps     int    `json:"apps"`
}

// RestoreSessionInput is the input for the restore_session tool.
type RestoreSessionInput struct {
	Encoding string `json:"encoding" jsonschema:"required,Compact session encoding produced by snapshot_session or a shared link"`
}

// RestoreSessionOutput is the output for the restore_session tool.
type RestoreSessionOutput struct {
	DesktopApplied bool     `json:"desktop_applied"`
	PendingApps    []string `json:"pending_apps,omitempty"`
	PendingWindows int      `json:"pending_windows"`
}

// SaveSessionInput is the input for the save_session tool.
type SaveSessionInput struct {
	Name string `json:"name,omitempty" jsonschema:"Session name to save under (default: current)"`
}

// SaveSessionOutput is the output for the save_session tool.
type SaveSessionOutput struct {
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

// AutosaveStatusInput is the input for the autosave_status tool.
type AutosaveStatusInput struct{}

// AutosaveStatusOutput is the output for the autosave_status tool.
type AutosaveStatusOutput struct {
	Enabled  bool       `json:"enabled"`
	Saving   bool       `json:"saving"`
	LastSave *time.Time `json:"last_save,omitempty"`
}
