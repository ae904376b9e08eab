package geometry

// ZoomState is the window-shaped input for zoom toggling: current geometry,
// whether the window is currently maximized, and the captured pre-zoom
// geometry if any.
type ZoomState struct {
	Position         Point
	Size             Size
	Maximized        bool
	OriginalPosition *Point
	OriginalSize     *Size
}

// ZoomGeometry toggles a window between the content-fitting maximized
// geometry (the full canvas) and its captured pre-zoom geometry. The first
// zoom captures the current geometry before replacing it, so applying the
// function twice restores the original exactly. A maximized window with no
// captured original keeps its geometry and only drops the maximized flag.
func ZoomGeometry(w ZoomState, v Viewport, c Chrome) ZoomState {
	canvas := Canvas(v, c)

	if !w.Maximized {
		origPos := w.Position
		origSize := w.Size
		return ZoomState{
			Position:         Point{X: canvas.X, Y: canvas.Y},
			Size:             Size{Width: canvas.Width, Height: canvas.Height},
			Maximized:        true,
			OriginalPosition: &origPos,
			OriginalSize:     &origSize,
		}
	}

	restored := ZoomState{Position: w.Position, Size: w.Size}
	if w.OriginalPosition != nil {
		restored.Position = *w.OriginalPosition
	}
	if w.OriginalSize != nil {
		restored.Size = *w.OriginalSize
	}
	return restored
}
