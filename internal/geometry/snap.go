package geometry

// SnapZone identifies which canvas edge or corner a drag position snaps to.
type SnapZone int

const (
	SnapNone SnapZone = iota
	SnapLeft
	SnapRight
	SnapTop
	SnapBottom
	SnapTopLeft
	SnapTopRight
	SnapBottomLeft
	SnapBottomRight
)

// String returns the zone name for logging and events.
func (z SnapZone) String() string {
	switch z {
	case SnapLeft:
		return "left"
	case SnapRight:
		return "right"
	case SnapTop:
		return "top"
	case SnapBottom:
		return "bottom"
	case SnapTopLeft:
		return "top-left"
	case SnapTopRight:
		return "top-right"
	case SnapBottomLeft:
		return "bottom-left"
	case SnapBottomRight:
		return "bottom-right"
	default:
		return "none"
	}
}

type snapCandidate struct {
	pos  Point
	zone SnapZone
	dist int
}

// SnapTarget tests a dragged window against the four canvas edges. A corner
// (two edges within threshold) takes priority over a single edge; among
// candidates the nearest wins. Returns SnapNone when no zone is active.
func SnapTarget(pos Point, size Size, v Viewport, c Chrome, threshold int) (Point, SnapZone) {
	if threshold <= 0 {
		return Point{}, SnapNone
	}
	canvas := Canvas(v, c)

	leftX := canvas.X
	rightX := canvas.X + canvas.Width - size.Width
	topY := canvas.Y
	bottomY := canvas.Y + canvas.Height - size.Height

	dLeft := abs(pos.X - leftX)
	dRight := abs(pos.X - rightX)
	dTop := abs(pos.Y - topY)
	dBottom := abs(pos.Y - bottomY)

	var corners []snapCandidate
	if dLeft <= threshold && dTop <= threshold {
		corners = append(corners, snapCandidate{Point{leftX, topY}, SnapTopLeft, dLeft + dTop})
	}
	if dRight <= threshold && dTop <= threshold {
		corners = append(corners, snapCandidate{Point{rightX, topY}, SnapTopRight, dRight + dTop})
	}
	if dLeft <= threshold && dBottom <= threshold {
		corners = append(corners, snapCandidate{Point{leftX, bottomY}, SnapBottomLeft, dLeft + dBottom})
	}
	if dRight <= threshold && dBottom <= threshold {
		corners = append(corners, snapCandidate{Point{rightX, bottomY}, SnapBottomRight, dRight + dBottom})
	}
	if best, ok := nearestCandidate(corners); ok {
		return best.pos, best.zone
	}

	var edges []snapCandidate
	if dLeft <= threshold {
		edges = append(edges, snapCandidate{Point{leftX, pos.Y}, SnapLeft, dLeft})
	}
	if dRight <= threshold {
		edges = append(edges, snapCandidate{Point{rightX, pos.Y}, SnapRight, dRight})
	}
	if dTop <= threshold {
		edges = append(edges, snapCandidate{Point{pos.X, topY}, SnapTop, dTop})
	}
	if dBottom <= threshold {
		edges = append(edges, snapCandidate{Point{pos.X, bottomY}, SnapBottom, dBottom})
	}
	if best, ok := nearestCandidate(edges); ok {
		return best.pos, best.zone
	}

	return Point{}, SnapNone
}

func nearestCandidate(cands []snapCandidate) (snapCandidate, bool) {
	if len(cands) == 0 {
		return snapCandidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	return best, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
