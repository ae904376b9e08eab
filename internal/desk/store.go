package desk

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/geometry"
	"github.com/webdesk/webdesk/internal/zorder"
)

// DefaultWindowSize is used when OpenWindow is called without a size.
var DefaultWindowSize = geometry.Size{Width: 400, Height: 300}

// StoreConfig sets the store's viewport, chrome and tuning knobs.
type StoreConfig struct {
	Viewport      geometry.Viewport
	Chrome        geometry.Chrome
	SnapThreshold int
	ZOrderCeiling int
}

// Store is the shared window/app/desktop state. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	bus     *bus.Bus
	cfg     StoreConfig
	windows map[string]*Window
	apps    map[string]*App
	desktop Desktop
}

// NewStore creates a store publishing lifecycle events on b. A nil b
// disables event publishing.
func NewStore(cfg StoreConfig, b *bus.Bus) *Store {
	if cfg.ZOrderCeiling <= 0 {
		cfg.ZOrderCeiling = zorder.DefaultCeiling
	}
	return &Store{
		bus:     b,
		cfg:     cfg,
		windows: make(map[string]*Window),
		apps:    make(map[string]*App),
		desktop: Desktop{IconPositions: make(map[string]geometry.Point)},
	}
}

func (s *Store) publish(topic string, payload any) {
	if s.bus != nil {
		s.bus.Publish(topic, payload)
	}
}

// OpenOptions customize a new window.
type OpenOptions struct {
	Title    string
	Size     geometry.Size   // zero means DefaultWindowSize
	Position *geometry.Point // nil means cascade placement
	MinSize  *geometry.Size
	MaxSize  *geometry.Size
	Fixed    bool // true disables resizing
}

// OpenWindow launches a window for the given app, assigning a cascade
// position and the next z-index, and focuses it. A first window for an
// unknown app id also registers the running app.
func (s *Store) OpenWindow(appID string, opts OpenOptions) (Window, error) {
	size := opts.Size
	if size == (geometry.Size{}) {
		size = DefaultWindowSize
	}
	if size.Width <= 0 || size.Height <= 0 {
		return Window{}, ErrInvalidSize
	}
	size = geometry.ConstrainSize(size, opts.MinSize, opts.MaxSize)

	s.mu.Lock()
	var pos geometry.Point
	if opts.Position != nil {
		pos = geometry.ClampPosition(*opts.Position, size, s.cfg.Viewport, s.cfg.Chrome)
	} else {
		pos = geometry.CascadePosition(s.openRectsLocked(), s.cfg.Viewport, s.cfg.Chrome)
	}

	w := &Window{
		ID:        uuid.NewString(),
		AppID:     appID,
		Title:     opts.Title,
		Position:  pos,
		Size:      size,
		MinSize:   opts.MinSize,
		MaxSize:   opts.MaxSize,
		State:     StateNormal,
		ZIndex:    zorder.Next(s.entriesLocked()),
		Resizable: !opts.Fixed,
	}
	s.windows[w.ID] = w
	s.activateLocked(w)
	s.normalizeIfNeededLocked()

	app, known := s.apps[appID]
	if !known {
		app = &App{ID: appID, LaunchedAt: time.Now()}
		s.apps[appID] = app
	}
	app.WindowIDs = append(app.WindowIDs, w.ID)
	snapshot := *w
	s.mu.Unlock()

	if !known {
		s.publish(TopicAppLaunched, WindowEvent{WindowID: snapshot.ID, AppID: appID})
	}
	s.publish(TopicWindowOpened, WindowEvent{WindowID: snapshot.ID, AppID: appID})
	return snapshot, nil
}

// CloseWindow destroys a window. Closing an app's last window quits the app.
func (s *Store) CloseWindow(id string) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	appID := w.AppID
	wasActive := w.Active
	delete(s.windows, id)

	appQuit := false
	if app, ok := s.apps[appID]; ok {
		app.WindowIDs = removeString(app.WindowIDs, id)
		if len(app.WindowIDs) == 0 {
			delete(s.apps, appID)
			appQuit = true
		}
	}

	if wasActive {
		if top := s.topWindowLocked(); top != nil {
			top.Active = true
		}
	}
	s.mu.Unlock()

	s.publish(TopicWindowClosed, WindowEvent{WindowID: id, AppID: appID})
	if appQuit {
		s.publish(TopicAppQuit, WindowEvent{WindowID: id, AppID: appID})
	}
	return nil
}

// MoveWindow applies a resolved drag position, clamped so the window stays
// reachable.
func (s *Store) MoveWindow(id string, pos geometry.Point) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	w.Position = geometry.ClampPosition(pos, w.Size, s.cfg.Viewport, s.cfg.Chrome)
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowMoved, ev)
	return nil
}

// DropWindow applies a drag-release position: an active snap zone wins,
// otherwise the clamped position is used.
func (s *Store) DropWindow(id string, pos geometry.Point) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	if snapped, zone := geometry.SnapTarget(pos, w.Size, s.cfg.Viewport, s.cfg.Chrome, s.cfg.SnapThreshold); zone != geometry.SnapNone {
		pos = snapped
	}
	w.Position = geometry.ClampPosition(pos, w.Size, s.cfg.Viewport, s.cfg.Chrome)
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowMoved, ev)
	return nil
}

// ResizeWindow applies a resolved resize, constrained to the window's
// declared bounds. Non-positive sizes are rejected and the prior state kept.
func (s *Store) ResizeWindow(id string, size geometry.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return ErrInvalidSize
	}

	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	if !w.Resizable {
		s.mu.Unlock()
		return ErrNotResizable
	}
	w.Size = geometry.ConstrainSize(size, w.MinSize, w.MaxSize)
	w.Position = geometry.ClampPosition(w.Position, w.Size, s.cfg.Viewport, s.cfg.Chrome)
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowResized, ev)
	return nil
}

// FocusWindow raises a window to the top of the stack and makes it the
// single active window. Focusing a minimized window restores it first.
func (s *Store) FocusWindow(id string) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	if w.State == StateMinimized {
		w.State = StateNormal
	}
	w.ZIndex = zorder.Next(s.entriesLocked())
	s.activateLocked(w)
	s.normalizeIfNeededLocked()
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowFocused, ev)
	return nil
}

// ZoomWindow toggles between the content-fitting maximized geometry and the
// captured pre-zoom geometry.
func (s *Store) ZoomWindow(id string) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	if !w.Resizable {
		s.mu.Unlock()
		return ErrNotResizable
	}

	zoomed := geometry.ZoomGeometry(geometry.ZoomState{
		Position:         w.Position,
		Size:             w.Size,
		Maximized:        w.State == StateMaximized,
		OriginalPosition: w.OriginalPosition,
		OriginalSize:     w.OriginalSize,
	}, s.cfg.Viewport, s.cfg.Chrome)

	w.Position = zoomed.Position
	w.Size = zoomed.Size
	w.OriginalPosition = zoomed.OriginalPosition
	w.OriginalSize = zoomed.OriginalSize
	if zoomed.Maximized {
		w.State = StateMaximized
	} else {
		w.State = StateNormal
	}
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowZoomed, ev)
	return nil
}

// MinimizeWindow hides a window from the canvas; focus moves to the next
// topmost window.
func (s *Store) MinimizeWindow(id string) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	w.State = StateMinimized
	wasActive := w.Active
	w.Active = false
	if wasActive {
		if top := s.topWindowLocked(); top != nil {
			top.Active = true
		}
	}
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowMinimized, ev)
	return nil
}

// RestoreWindow brings a minimized window back and focuses it.
func (s *Store) RestoreWindow(id string) error {
	s.mu.Lock()
	w, ok := s.windows[id]
	if !ok {
		s.mu.Unlock()
		return ErrWindowNotFound
	}
	if w.State == StateMinimized {
		w.State = StateNormal
	}
	w.ZIndex = zorder.Next(s.entriesLocked())
	s.activateLocked(w)
	s.normalizeIfNeededLocked()
	ev := WindowEvent{WindowID: id, AppID: w.AppID}
	s.mu.Unlock()

	s.publish(TopicWindowRestored, ev)
	return nil
}

// SetViewport updates the viewport (browser resize) and re-clamps every
// open window into the new canvas.
func (s *Store) SetViewport(v geometry.Viewport) {
	s.mu.Lock()
	s.cfg.Viewport = v
	for _, w := range s.windows {
		w.Position = geometry.ClampPosition(w.Position, w.Size, s.cfg.Viewport, s.cfg.Chrome)
	}
	s.mu.Unlock()
	s.publish(TopicDesktopChanged, nil)
}

// Desktop property mutations.

func (s *Store) SetWallpaper(wallpaper string) {
	s.mu.Lock()
	s.desktop.Wallpaper = wallpaper
	s.mu.Unlock()
	s.publish(TopicDesktopChanged, nil)
}

func (s *Store) SetTheme(theme, accentColor string) {
	s.mu.Lock()
	s.desktop.Theme = theme
	s.desktop.AccentColor = accentColor
	s.mu.Unlock()
	s.publish(TopicDesktopChanged, nil)
}

func (s *Store) SetIconPosition(iconID string, pos geometry.Point) {
	s.mu.Lock()
	s.desktop.IconPositions[iconID] = pos
	s.mu.Unlock()
	s.publish(TopicDesktopChanged, nil)
}

func (s *Store) PinApp(appID string) {
	s.mu.Lock()
	for _, id := range s.desktop.PinnedApps {
		if id == appID {
			s.mu.Unlock()
			return
		}
	}
	s.desktop.PinnedApps = append(s.desktop.PinnedApps, appID)
	s.mu.Unlock()
	s.publish(TopicDesktopChanged, nil)
}

func (s *Store) UnpinApp(appID string) {
	s.mu.Lock()
	s.desktop.PinnedApps = removeString(s.desktop.PinnedApps, appID)
	s.mu.Unlock()
	s.publish(TopicDesktopChanged, nil)
}

// Readers. All return copies; callers never hold references into the store.

// Window returns a copy of one window.
func (s *Store) Window(id string) (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Windows returns all open windows ordered bottom to top.
func (s *Store) Windows() []Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Apps returns the running apps sorted by id.
func (s *Store) Apps() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]App, 0, len(s.apps))
	for _, a := range s.apps {
		cp := *a
		cp.WindowIDs = append([]string(nil), a.WindowIDs...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Desktop returns a copy of the desktop properties.
func (s *Store) Desktop() Desktop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.desktop
	d.IconPositions = make(map[string]geometry.Point, len(s.desktop.IconPositions))
	for k, v := range s.desktop.IconPositions {
		d.IconPositions[k] = v
	}
	d.PinnedApps = append([]string(nil), s.desktop.PinnedApps...)
	return d
}

// ActiveWindowID returns the focused window's id, or "".
func (s *Store) ActiveWindowID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, w := range s.windows {
		if w.Active {
			return id
		}
	}
	return ""
}

// TopWindowAt returns the topmost non-minimized window at a point.
func (s *Store) TopWindowAt(x, y int) (Window, bool) {
	s.mu.RLock()
	boxes := make([]geometry.Box, 0, len(s.windows))
	for _, w := range s.windows {
		boxes = append(boxes, geometry.Box{
			ID:        w.ID,
			Rect:      w.Rect(),
			ZIndex:    w.ZIndex,
			Minimized: w.State == StateMinimized,
		})
	}
	s.mu.RUnlock()

	box, ok := geometry.TopWindowAt(boxes, x, y)
	if !ok {
		return Window{}, false
	}
	return s.Window(box.ID)
}

// Viewport returns the current viewport.
func (s *Store) Viewport() geometry.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Viewport
}

// Chrome returns the fixed shell chrome metrics.
func (s *Store) Chrome() geometry.Chrome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Chrome
}

// internal helpers; callers hold s.mu.

func (s *Store) entriesLocked() []zorder.Entry {
	entries := make([]zorder.Entry, 0, len(s.windows))
	for id, w := range s.windows {
		entries = append(entries, zorder.Entry{ID: id, ZIndex: w.ZIndex})
	}
	return entries
}

func (s *Store) normalizeIfNeededLocked() {
	entries := s.entriesLocked()
	if !zorder.NeedsNormalize(entries, s.cfg.ZOrderCeiling) {
		return
	}
	for id, z := range zorder.Normalize(entries) {
		s.windows[id].ZIndex = z
	}
}

func (s *Store) activateLocked(target *Window) {
	for _, w := range s.windows {
		w.Active = w == target
	}
}

func (s *Store) topWindowLocked() *Window {
	var top *Window
	for _, w := range s.windows {
		if w.State == StateMinimized {
			continue
		}
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	return top
}

func (s *Store) openRectsLocked() []geometry.Rect {
	rects := make([]geometry.Rect, 0, len(s.windows))
	for _, w := range s.windows {
		rects = append(rects, w.Rect())
	}
	return rects
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
