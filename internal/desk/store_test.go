package desk

import (
	"errors"
	"testing"

	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/geometry"
)

func testStore(b *bus.Bus) *Store {
	return NewStore(StoreConfig{
		Viewport:      geometry.Viewport{Width: 1200, Height: 800},
		Chrome:        geometry.Chrome{MenuBarHeight: 20, DockHeight: 80},
		SnapThreshold: 20,
	}, b)
}

func TestOpenWindow_CascadeAndFocus(t *testing.T) {
	s := testStore(nil)

	first, err := s.OpenWindow("finder", OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	second, err := s.OpenWindow("finder", OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if first.Position != (geometry.Point{X: 100, Y: 60}) {
		t.Fatalf("expected cascade base (100,60), got %+v", first.Position)
	}
	if second.Position != (geometry.Point{X: 130, Y: 90}) {
		t.Fatalf("expected cascade step (130,90), got %+v", second.Position)
	}
	if second.ZIndex != first.ZIndex+1 {
		t.Fatalf("expected next z-index, got %d after %d", second.ZIndex, first.ZIndex)
	}
	if s.ActiveWindowID() != second.ID {
		t.Fatalf("newest window should be active")
	}

	// Exactly one active window.
	active := 0
	for _, w := range s.Windows() {
		if w.Active {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active window, got %d", active)
	}
}

func TestOpenWindow_RejectsInvalidSize(t *testing.T) {
	s := testStore(nil)
	if _, err := s.OpenWindow("app", OpenOptions{Size: geometry.Size{Width: -1, Height: 100}}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if len(s.Windows()) != 0 {
		t.Fatalf("rejected open must not create a window")
	}
}

func TestFocusWindow_RaisesAndNormalizes(t *testing.T) {
	s := NewStore(StoreConfig{
		Viewport:      geometry.Viewport{Width: 1200, Height: 800},
		ZOrderCeiling: 4,
	}, nil)

	a, _ := s.OpenWindow("a", OpenOptions{})
	b, _ := s.OpenWindow("b", OpenOptions{})
	c, _ := s.OpenWindow("c", OpenOptions{})

	// Bounce focus until the allocator passes the ceiling.
	for i := 0; i < 5; i++ {
		if err := s.FocusWindow(a.ID); err != nil {
			t.Fatalf("focus: %v", err)
		}
		if err := s.FocusWindow(b.ID); err != nil {
			t.Fatalf("focus: %v", err)
		}
	}

	// After normalization the z values are a dense 1..N permutation.
	zs := make(map[int]string)
	maxZ := 0
	for _, w := range s.Windows() {
		if _, dup := zs[w.ZIndex]; dup {
			t.Fatalf("duplicate z-index %d", w.ZIndex)
		}
		zs[w.ZIndex] = w.ID
		if w.ZIndex > maxZ {
			maxZ = w.ZIndex
		}
	}
	if maxZ != 3 {
		t.Fatalf("expected dense 1..3 after normalization, max was %d", maxZ)
	}
	// b focused last: it must be on top, c bottom.
	if zs[3] != b.ID {
		t.Fatalf("expected %s on top, got %s", b.ID, zs[3])
	}
	if zs[1] != c.ID {
		t.Fatalf("expected %s at bottom, got %s", c.ID, zs[1])
	}
}

func TestMoveWindow_Clamps(t *testing.T) {
	s := testStore(nil)
	w, _ := s.OpenWindow("app", OpenOptions{})

	if err := s.MoveWindow(w.ID, geometry.Point{X: -5000, Y: -5000}); err != nil {
		t.Fatalf("move: %v", err)
	}
	got, _ := s.Window(w.ID)
	if got.Position.X != -(400-200) || got.Position.Y != 20 {
		t.Fatalf("expected clamped position (-200,20), got %+v", got.Position)
	}
}

func TestDropWindow_SnapsWithinThreshold(t *testing.T) {
	s := testStore(nil)
	w, _ := s.OpenWindow("app", OpenOptions{})

	if err := s.DropWindow(w.ID, geometry.Point{X: 5, Y: 25}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	got, _ := s.Window(w.ID)
	if got.Position != (geometry.Point{X: 0, Y: 20}) {
		t.Fatalf("expected top-left snap (0,20), got %+v", got.Position)
	}
}

func TestResizeWindow_Validation(t *testing.T) {
	s := testStore(nil)
	min := &geometry.Size{Width: 200, Height: 150}
	w, _ := s.OpenWindow("app", OpenOptions{MinSize: min})

	if err := s.ResizeWindow(w.ID, geometry.Size{Width: 0, Height: 100}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	got, _ := s.Window(w.ID)
	if got.Size != (geometry.Size{Width: 400, Height: 300}) {
		t.Fatalf("rejected resize must keep prior size, got %+v", got.Size)
	}

	if err := s.ResizeWindow(w.ID, geometry.Size{Width: 50, Height: 50}); err != nil {
		t.Fatalf("resize: %v", err)
	}
	got, _ = s.Window(w.ID)
	if got.Size != *min {
		t.Fatalf("expected min-size clamp %+v, got %+v", *min, got.Size)
	}

	fixed, _ := s.OpenWindow("app", OpenOptions{Fixed: true})
	if err := s.ResizeWindow(fixed.ID, geometry.Size{Width: 500, Height: 400}); !errors.Is(err, ErrNotResizable) {
		t.Fatalf("expected ErrNotResizable, got %v", err)
	}
}

func TestZoomWindow_InversePair(t *testing.T) {
	s := testStore(nil)
	w, _ := s.OpenWindow("app", OpenOptions{})
	start, _ := s.Window(w.ID)

	if err := s.ZoomWindow(w.ID); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	zoomed, _ := s.Window(w.ID)
	if zoomed.State != StateMaximized {
		t.Fatalf("expected maximized state")
	}
	if zoomed.Size != (geometry.Size{Width: 1200, Height: 700}) {
		t.Fatalf("expected canvas-sized window, got %+v", zoomed.Size)
	}

	if err := s.ZoomWindow(w.ID); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	restored, _ := s.Window(w.ID)
	if restored.State != StateNormal {
		t.Fatalf("expected normal state")
	}
	if restored.Position != start.Position || restored.Size != start.Size {
		t.Fatalf("zoom pair not inverse: %+v %+v", restored.Position, restored.Size)
	}
}

func TestMinimize_ExcludedFromHitTestAndFocusFallsThrough(t *testing.T) {
	s := testStore(nil)
	bottom, _ := s.OpenWindow("a", OpenOptions{Position: &geometry.Point{X: 100, Y: 100}})
	top, _ := s.OpenWindow("b", OpenOptions{Position: &geometry.Point{X: 100, Y: 100}})

	if err := s.MinimizeWindow(top.ID); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if s.ActiveWindowID() != bottom.ID {
		t.Fatalf("focus should fall to the next topmost window")
	}

	hit, ok := s.TopWindowAt(150, 150)
	if !ok || hit.ID != bottom.ID {
		t.Fatalf("minimized window must be excluded from hit-testing, got %+v ok=%v", hit.ID, ok)
	}

	if err := s.RestoreWindow(top.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	hit, ok = s.TopWindowAt(150, 150)
	if !ok || hit.ID != top.ID {
		t.Fatalf("restored window should be back on top")
	}
}

func TestCloseWindow_AppLifecycleAndEvents(t *testing.T) {
	b := bus.New()
	var topics []string
	for _, topic := range MutationTopics() {
		b.Subscribe(topic, func(e bus.Event) { topics = append(topics, e.Topic) })
	}

	s := testStore(b)
	w, _ := s.OpenWindow("notes", OpenOptions{})
	if len(s.Apps()) != 1 {
		t.Fatalf("expected running app")
	}

	if err := s.CloseWindow(w.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(s.Apps()) != 0 {
		t.Fatalf("closing the last window should quit the app")
	}
	if err := s.CloseWindow(w.ID); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}

	want := []string{TopicAppLaunched, TopicWindowOpened, TopicWindowClosed, TopicAppQuit}
	if len(topics) != len(want) {
		t.Fatalf("expected topics %v, got %v", want, topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("expected topics %v, got %v", want, topics)
		}
	}
}

func TestDesktopMutations(t *testing.T) {
	b := bus.New()
	changed := 0
	b.Subscribe(TopicDesktopChanged, func(bus.Event) { changed++ })

	s := testStore(b)
	s.SetWallpaper("dunes")
	s.SetTheme("dark", "#ff9500")
	s.SetIconPosition("trash", geometry.Point{X: 1100, Y: 650})
	s.PinApp("notes")
	s.PinApp("notes") // idempotent, no event

	d := s.Desktop()
	if d.Wallpaper != "dunes" || d.Theme != "dark" || d.AccentColor != "#ff9500" {
		t.Fatalf("unexpected desktop %+v", d)
	}
	if d.IconPositions["trash"] != (geometry.Point{X: 1100, Y: 650}) {
		t.Fatalf("unexpected icon position %+v", d.IconPositions["trash"])
	}
	if len(d.PinnedApps) != 1 {
		t.Fatalf("pin must be idempotent, got %v", d.PinnedApps)
	}
	if changed != 4 {
		t.Fatalf("expected 4 desktop.changed events, got %d", changed)
	}
}

func TestStoreWithoutBus(t *testing.T) {
	s := testStore(nil)

	w, err := s.OpenWindow("finder", OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.MoveWindow(w.ID, geometry.Point{X: 200, Y: 120}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := s.FocusWindow(w.ID); err != nil {
		t.Fatalf("focus: %v", err)
	}
	s.SetWallpaper("dunes")
	if err := s.CloseWindow(w.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(s.Windows()) != 0 {
		t.Fatalf("expected no windows, got %d", len(s.Windows()))
	}
}
