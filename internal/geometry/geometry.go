// Package geometry provides the pure placement math for the desktop shell:
// cascade positioning, bounds clamping, edge/corner snapping, zoom toggling
// and hit-testing. All functions are deterministic and side-effect free;
// callers apply the computed results to the window store themselves.
package geometry

// Point is a position in desktop coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window size in desktop coordinates.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a position plus size.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Origin returns the rect's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Dim returns the rect's size.
func (r Rect) Dim() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Viewport is the full browser viewport in desktop coordinates.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Chrome describes the fixed shell furniture that reduces the usable canvas:
// a menu bar across the top and a dock along the bottom.
type Chrome struct {
	MenuBarHeight int `json:"menu_bar_height"`
	DockHeight    int `json:"dock_height"`
}

const (
	// CascadeStep is the x/y offset between successive cascaded windows.
	CascadeStep = 30
	// CascadeBaseX is the x origin of the cascade.
	CascadeBaseX = 100
	// CascadeBaseYOffset is added below the menu bar for the cascade y origin.
	CascadeBaseYOffset = 40
	// MinVisibleWidth is the horizontal strip that must stay reachable when
	// clamping (capped at the window's own width for narrow windows).
	MinVisibleWidth = 200
	// TitleBarHeight is the vertical strip that must stay reachable when
	// clamping, so the window can always be grabbed and dragged back.
	TitleBarHeight = 40
)

// Canvas returns the usable desktop area: the viewport minus the chrome.
// A degenerate viewport saturates to a zero-sized canvas rather than a
// negative one.
func Canvas(v Viewport, c Chrome) Rect {
	h := v.Height - c.MenuBarHeight - c.DockHeight
	if h < 0 {
		h = 0
	}
	w := v.Width
	if w < 0 {
		w = 0
	}
	return Rect{X: 0, Y: c.MenuBarHeight, Width: w, Height: h}
}

// Overlaps reports whether two rects share any area. Rects are treated as
// half-open: touching edges do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

// HitTest reports whether the point (x, y) falls inside the rect.
func HitTest(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Box is the window-shaped input for stacking-aware hit tests.
type Box struct {
	ID        string
	Rect      Rect
	ZIndex    int
	Minimized bool
}

// TopWindowAt returns the topmost non-minimized box containing (x, y).
// Boxes may be passed in any order; z-index decides.
func TopWindowAt(boxes []Box, x, y int) (Box, bool) {
	var top Box
	found := false
	for _, b := range boxes {
		if b.Minimized || !HitTest(b.Rect, x, y) {
			continue
		}
		if !found || b.ZIndex > top.ZIndex {
			top = b
			found = true
		}
	}
	return top, found
}

// ConstrainSize clamps a size to the optional min/max bounds and floors it
// at 1x1. Bounds may be nil when the window declares none.
func ConstrainSize(s Size, min, max *Size) Size {
	if min != nil {
		if s.Width < min.Width {
			s.Width = min.Width
		}
		if s.Height < min.Height {
			s.Height = min.Height
		}
	}
	if max != nil {
		if max.Width > 0 && s.Width > max.Width {
			s.Width = max.Width
		}
		if max.Height > 0 && s.Height > max.Height {
			s.Height = max.Height
		}
	}
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}
