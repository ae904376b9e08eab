// Package mcp exposes the desktop session over the Model Context Protocol so
// agents can inspect and drive windows, snapshots, and autosave.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/webdesk/webdesk/internal/autosave"
	"github.com/webdesk/webdesk/internal/desk"
	"github.com/webdesk/webdesk/internal/geometry"
	"github.com/webdesk/webdesk/internal/persist"
	"github.com/webdesk/webdesk/internal/session"
)

const (
	ServerName    = "webdesk"
	ServerVersion = "0.1.0"
)

// Server is the MCP server over a live desktop store.
type Server struct {
	mcpServer *mcpsdk.Server
	store     *desk.Store
	sessions  *session.Manager
	saver     *autosave.Orchestrator
	files     *persist.FileStore
	logger    *slog.Logger
}

// NewServer creates an MCP server over the store. saver and files may be nil
// when autosave or named saves are not configured; their tools then report
// errors instead of acting.
func NewServer(store *desk.Store, sessions *session.Manager, saver *autosave.Orchestrator, files *persist.FileStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:    store,
		sessions: sessions,
		saver:    saver,
		files:    files,
		logger:   logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a new window for an application. Without an explicit position the window cascades from the last one; explicit positions are clamped so the title bar stays reachable.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Closing the last window of an application quits the application.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a position. The position is clamped to keep part of the window reachable; with snap true the window snaps to a nearby edge or corner first.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window, constrained to its min/max size. Fails for fixed-size windows.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window, raising it to the top of the stack. A minimized window is restored first.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "zoom_window",
		Description: "Toggle a window between maximized (filling the usable desktop) and its exact previous geometry.",
	}, s.handleZoomWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. Focus falls to the topmost remaining window.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all windows bottom to top with geometry, state, and the active window id.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_desktop",
		Description: "Set desktop appearance: wallpaper, theme, accent color. Omitted fields are left unchanged.",
	}, s.handleSetDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snapshot_session",
		Description: "Capture the full session as a compact URL-safe encoding suitable for sharing or restore_session.",
	}, s.handleSnapshotSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_session",
		Description: "Restore a session from a compact encoding. Desktop properties apply immediately; windows of apps that are not running are reported for relaunch.",
	}, s.handleRestoreSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_session",
		Description: "Save the current session snapshot to disk under a name (default: the autosave slot).",
	}, s.handleSaveSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "autosave_status",
		Description: "Report whether autosave is enabled, whether a save is in flight, and the last successful save time.",
	}, s.handleAutosaveStatus)
}

func windowInfo(w desk.Window) WindowInfo {
	return WindowInfo{
		ID:       w.ID,
		AppID:    w.AppID,
		Title:    w.Title,
		X:        w.Position.X,
		Y:        w.Position.Y,
		Width:    w.Size.Width,
		Height:   w.Size.Height,
		State:    string(w.State),
		ZIndex:   w.ZIndex,
		IsActive: w.Active,
	}
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	if args.AppID == "" {
		return nil, WindowInfo{}, fmt.Errorf("app_id is required")
	}
	opts := desk.OpenOptions{Title: args.Title}
	if args.Width > 0 || args.Height > 0 {
		opts.Size = geometry.Size{Width: args.Width, Height: args.Height}
	}
	if args.X != nil && args.Y != nil {
		opts.Position = &geometry.Point{X: *args.X, Y: *args.Y}
	}
	w, err := s.store.OpenWindow(args.AppID, opts)
	if err != nil {
		return nil, WindowInfo{}, err
	}
	s.logger.Debug("mcp opened window", "window", w.ID, "app", args.AppID)
	return nil, windowInfo(w), nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, struct{}, error) {
	if err := s.store.CloseWindow(args.WindowID); err != nil {
		return nil, struct{}{}, err
	}
	return nil, struct{}{}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	var err error
	if args.Snap {
		err = s.store.DropWindow(args.WindowID, geometry.Point{X: args.X, Y: args.Y})
	} else {
		err = s.store.MoveWindow(args.WindowID, geometry.Point{X: args.X, Y: args.Y})
	}
	if err != nil {
		return nil, WindowInfo{}, err
	}
	w, ok := s.store.Window(args.WindowID)
	if !ok {
		return nil, WindowInfo{}, desk.ErrWindowNotFound
	}
	return nil, windowInfo(w), nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	if err := s.store.ResizeWindow(args.WindowID, geometry.Size{Width: args.Width, Height: args.Height}); err != nil {
		return nil, WindowInfo{}, err
	}
	w, ok := s.store.Window(args.WindowID)
	if !ok {
		return nil, WindowInfo{}, desk.ErrWindowNotFound
	}
	return nil, windowInfo(w), nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	if err := s.store.FocusWindow(args.WindowID); err != nil {
		return nil, WindowInfo{}, err
	}
	w, ok := s.store.Window(args.WindowID)
	if !ok {
		return nil, WindowInfo{}, desk.ErrWindowNotFound
	}
	return nil, windowInfo(w), nil
}

func (s *Server) handleZoomWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	if err := s.store.ZoomWindow(args.WindowID); err != nil {
		return nil, WindowInfo{}, err
	}
	w, ok := s.store.Window(args.WindowID)
	if !ok {
		return nil, WindowInfo{}, desk.ErrWindowNotFound
	}
	return nil, windowInfo(w), nil
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	if err := s.store.MinimizeWindow(args.WindowID); err != nil {
		return nil, WindowInfo{}, err
	}
	w, ok := s.store.Window(args.WindowID)
	if !ok {
		return nil, WindowInfo{}, desk.ErrWindowNotFound
	}
	return nil, windowInfo(w), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	out := ListWindowsOutput{ActiveWindowID: s.store.ActiveWindowID()}
	for _, w := range s.store.Windows() {
		out.Windows = append(out.Windows, windowInfo(w))
	}
	return nil, out, nil
}

func (s *Server) handleSetDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDesktopInput) (*mcpsdk.CallToolResult, SetDesktopOutput, error) {
	if args.Wallpaper != "" {
		s.store.SetWallpaper(args.Wallpaper)
	}
	if args.Theme != "" || args.AccentColor != "" {
		d := s.store.Desktop()
		theme, accent := d.Theme, d.AccentColor
		if args.Theme != "" {
			theme = args.Theme
		}
		if args.AccentColor != "" {
			accent = args.AccentColor
		}
		s.store.SetTheme(theme, accent)
	}
	d := s.store.Desktop()
	return nil, SetDesktopOutput{Wallpaper: d.Wallpaper, Theme: d.Theme, AccentColor: d.AccentColor}, nil
}

func (s *Server) handleSnapshotSession(_ context.Context, _ *mcpsdk.CallToolRequest, _ SnapshotSessionInput) (*mcpsdk.CallToolResult, SnapshotSessionOutput, error) {
	st := s.sessions.SerializeSystemState()
	encoded, err := session.Compress(st)
	if err != nil {
		return nil, SnapshotSessionOutput{}, err
	}
	return nil, SnapshotSessionOutput{
		Encoding: encoded,
		Windows:  len(st.Windows),
		Apps:     len(st.Apps),
	}, nil
}

func (s *Server) handleRestoreSession(_ context.Context, _ *mcpsdk.CallToolRequest, args RestoreSessionInput) (*mcpsdk.CallToolResult, RestoreSessionOutput, error) {
	st, err := session.Decompress(args.Encoding)
	if err != nil {
		return nil, RestoreSessionOutput{}, err
	}
	report := s.sessions.RestoreSystemState(*st)
	return nil, RestoreSessionOutput{
		DesktopApplied: report.DesktopApplied,
		PendingApps:    report.PendingApps,
		PendingWindows: len(report.PendingWindows),
	}, nil
}

func (s *Server) handleSaveSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SaveSessionInput) (*mcpsdk.CallToolResult, SaveSessionOutput, error) {
	if s.files == nil {
		return nil, SaveSessionOutput{}, fmt.Errorf("session storage is not configured")
	}
	name := args.Name
	if name == "" {
		name = persist.CurrentSessionName
	}
	st := s.sessions.SerializeSystemState()
	if err := s.files.Put(name, st); err != nil {
		return nil, SaveSessionOutput{}, err
	}
	s.logger.Info("session saved via mcp", "name", name, "windows", len(st.Windows))
	return nil, SaveSessionOutput{Name: name, Windows: len(st.Windows)}, nil
}

func (s *Server) handleAutosaveStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ AutosaveStatusInput) (*mcpsdk.CallToolResult, AutosaveStatusOutput, error) {
	if s.saver == nil {
		return nil, AutosaveStatusOutput{}, nil
	}
	out := AutosaveStatusOutput{
		Enabled: s.saver.IsEnabled(),
		Saving:  s.saver.IsSaving(),
	}
	if last := s.saver.GetLastSaveTime(); !last.IsZero() {
		out.LastSave = &last
	}
	return nil, out, nil
}
