package geometry

// CascadePosition computes the position for the next window opened on top of
// the given existing ones. Each window is offset one CascadeStep down-right
// from the previous; once the offset would carry the origin past half the
// available canvas on either axis it resets to the base origin, so long
// sessions never drift windows off-screen.
func CascadePosition(existing []Rect, v Viewport, c Chrome) Point {
	canvas := Canvas(v, c)
	baseX := canvas.X + CascadeBaseX
	baseY := canvas.Y + CascadeBaseYOffset

	halfX := canvas.X + canvas.Width/2
	halfY := canvas.Y + canvas.Height/2

	offset := 0
	for i := 0; i < len(existing); i++ {
		offset += CascadeStep
		if baseX+offset > halfX || baseY+offset > halfY {
			offset = 0
		}
	}

	return Point{X: baseX + offset, Y: baseY + offset}
}

// ClampPosition constrains a window position so a usable part of the window
// always stays reachable: min(MinVisibleWidth, width) horizontally and the
// title bar vertically. The title bar can never slide under the menu bar or
// below the dock. A window larger than the canvas is best-effort centered
// rather than rejected.
func ClampPosition(pos Point, size Size, v Viewport, c Chrome) Point {
	canvas := Canvas(v, c)

	minVisible := MinVisibleWidth
	if size.Width < minVisible {
		minVisible = size.Width
	}

	loX := canvas.X - (size.Width - minVisible)
	hiX := canvas.X + canvas.Width - minVisible
	loY := canvas.Y
	hiY := canvas.Y + canvas.Height - TitleBarHeight

	x := clampAxis(pos.X, loX, hiX, canvas.X, canvas.Width, size.Width)
	y := clampAxis(pos.Y, loY, hiY, canvas.Y, canvas.Height, size.Height)
	return Point{X: x, Y: y}
}

// clampAxis clamps value into [lo, hi]; when the range is inverted (the
// window exceeds the canvas on this axis) it centers instead, never allowing
// the origin below the canvas start minus the overflow.
func clampAxis(value, lo, hi, canvasStart, canvasExtent, windowExtent int) int {
	if lo > hi {
		return canvasStart + (canvasExtent-windowExtent)/2
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
