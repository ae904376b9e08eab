package mcp

import (
	"context"
	"log/slog"
	"testing"

	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/desk"
	"github.com/webdesk/webdesk/internal/geometry"
	"github.com/webdesk/webdesk/internal/persist"
	"github.com/webdesk/webdesk/internal/session"
)

func testServer(t *testing.T) (*Server, *desk.Store) {
	t.Helper()
	store := desk.NewStore(desk.StoreConfig{
		Viewport:      geometry.Viewport{Width: 1200, Height: 800},
		Chrome:        geometry.Chrome{MenuBarHeight: 20, DockHeight: 80},
		SnapThreshold: 20,
	}, bus.New())
	files, err := persist.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	logger := slog.New(slog.DiscardHandler)
	sessions := session.NewManager(store, logger)
	return NewServer(store, sessions, nil, files, logger), store
}

func TestOpenAndListWindows(t *testing.T) {
	s, _ := testServer(t)
	ctx := context.Background()

	_, w, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{AppID: "notes", Title: "Notes"})
	if err != nil {
		t.Fatalf("open_window: %v", err)
	}
	if w.ID == "" || w.AppID != "notes" || !w.IsActive {
		t.Fatalf("window = %+v", w)
	}

	_, out, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(out.Windows) != 1 || out.ActiveWindowID != w.ID {
		t.Fatalf("list = %+v", out)
	}
}

func TestOpenWindowRequiresApp(t *testing.T) {
	s, _ := testServer(t)
	if _, _, err := s.handleOpenWindow(context.Background(), nil, OpenWindowInput{}); err == nil {
		t.Fatal("open_window accepted empty app_id")
	}
}

func TestMoveWindowSnaps(t *testing.T) {
	s, store := testServer(t)
	ctx := context.Background()

	opened, err := store.OpenWindow("notes", desk.OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, w, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{WindowID: opened.ID, X: 5, Y: 25, Snap: true})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if w.X != 0 || w.Y != 20 {
		t.Fatalf("snapped to (%d,%d), want (0,20)", w.X, w.Y)
	}
}

func TestZoomWindowToggles(t *testing.T) {
	s, store := testServer(t)
	ctx := context.Background()

	opened, err := store.OpenWindow("notes", desk.OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, w, err := s.handleZoomWindow(ctx, nil, WindowTargetInput{WindowID: opened.ID})
	if err != nil {
		t.Fatalf("zoom_window: %v", err)
	}
	if w.State != string(desk.StateMaximized) {
		t.Fatalf("state = %s after zoom", w.State)
	}
	_, w, err = s.handleZoomWindow(ctx, nil, WindowTargetInput{WindowID: opened.ID})
	if err != nil {
		t.Fatalf("zoom_window: %v", err)
	}
	if w.X != opened.Position.X || w.Width != opened.Size.Width {
		t.Fatalf("zoom did not restore geometry: %+v", w)
	}
}

func TestSnapshotAndRestoreSession(t *testing.T) {
	s, store := testServer(t)
	ctx := context.Background()

	if _, err := store.OpenWindow("notes", desk.OpenOptions{}); err != nil {
		t.Fatalf("open: %v", err)
	}
	store.SetWallpaper("dunes.jpg")

	_, snap, err := s.handleSnapshotSession(ctx, nil, SnapshotSessionInput{})
	if err != nil {
		t.Fatalf("snapshot_session: %v", err)
	}
	if snap.Encoding == "" || snap.Windows != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	_, restored, err := s.handleRestoreSession(ctx, nil, RestoreSessionInput{Encoding: snap.Encoding})
	if err != nil {
		t.Fatalf("restore_session: %v", err)
	}
	if !restored.DesktopApplied {
		t.Fatalf("restore = %+v", restored)
	}

	if _, _, err := s.handleRestoreSession(ctx, nil, RestoreSessionInput{Encoding: "garbage!"}); err == nil {
		t.Fatal("restore_session accepted garbage encoding")
	}
}

func TestSaveSessionWritesFile(t *testing.T) {
	s, store := testServer(t)
	ctx := context.Background()

	if _, err := store.OpenWindow("notes", desk.OpenOptions{}); err != nil {
		t.Fatalf("open: %v", err)
	}
	_, out, err := s.handleSaveSession(ctx, nil, SaveSessionInput{Name: "work"})
	if err != nil {
		t.Fatalf("save_session: %v", err)
	}
	if out.Name != "work" || out.Windows != 1 {
		t.Fatalf("save = %+v", out)
	}

	var st session.State
	if err := s.files.Get("work", &st); err != nil {
		t.Fatalf("read saved session: %v", err)
	}
	if len(st.Windows) != 1 {
		t.Fatalf("saved state = %+v", st)
	}
}

func TestAutosaveStatusWithoutOrchestrator(t *testing.T) {
	s, _ := testServer(t)
	_, out, err := s.handleAutosaveStatus(context.Background(), nil, AutosaveStatusInput{})
	if err != nil {
		t.Fatalf("autosave_status: %v", err)
	}
	if out.Enabled || out.Saving || out.LastSave != nil {
		t.Fatalf("status = %+v", out)
	}
}
