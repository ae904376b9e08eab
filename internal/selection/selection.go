// Package selection implements multi-item selection over arbitrary item sets:
// plain/modifier clicks, anchored range extension and rubber-band drags.
// Every mutation publishes the complete current selection on the bus, so
// consumers never have to reconstruct state from deltas.
package selection

import (
	"sort"
	"sync"

	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/geometry"
)

// TopicChanged is the bus topic for selection updates.
const TopicChanged = "selection.changed"

// Item is a selectable item with its on-screen bounds, used for rubber-band
// intersection tests.
type Item struct {
	ID     string
	Bounds geometry.Rect
}

// Options modify a click selection.
type Options struct {
	// Multi toggles the clicked item's membership (cmd/ctrl-click).
	Multi bool
	// Range extends from the anchor across the container's known ordering
	// (shift-click). Without an explicit ordering it degrades to adding the
	// clicked item.
	Range bool
}

// Changed is the payload published on TopicChanged.
type Changed struct {
	Container string
	IDs       []string
	Count     int
}

// Manager tracks the selection for one container (the desktop, a folder
// view). It is Idle between drags and Selecting while a rubber band is
// active.
type Manager struct {
	mu        sync.Mutex
	container string
	bus       *bus.Bus

	selected map[string]struct{}
	anchor   string

	order      []string
	orderIndex map[string]int

	bandOrigin geometry.Point
	bandActive bool
}

// New creates a selection manager for a container. The bus may be nil in
// tests that only inspect state directly.
func New(container string, b *bus.Bus) *Manager {
	return &Manager{
		container: container,
		bus:       b,
		selected:  make(map[string]struct{}),
	}
}

// SetOrder provides the container's explicit, stable item ordering. Range
// selection only performs true contiguous extension once an order is known.
func (m *Manager) SetOrder(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append([]string(nil), ids...)
	m.orderIndex = make(map[string]int, len(ids))
	for i, id := range ids {
		m.orderIndex[id] = i
	}
}

// Select applies a click selection to the given item.
func (m *Manager) Select(id string, opts Options) {
	m.mu.Lock()
	switch {
	case opts.Range:
		m.selectRangeLocked(id)
	case opts.Multi:
		if _, ok := m.selected[id]; ok {
			delete(m.selected, id)
		} else {
			m.selected[id] = struct{}{}
		}
		m.anchor = id
	default:
		m.selected = map[string]struct{}{id: {}}
		m.anchor = id
	}
	m.mu.Unlock()
	m.publish()
}

// selectRangeLocked extends from the anchor to id across the explicit
// ordering. With no ordering, or an anchor/item outside it, the item is
// simply added.
func (m *Manager) selectRangeLocked(id string) {
	ai, aok := m.orderIndex[m.anchor]
	bi, bok := m.orderIndex[id]
	if m.anchor == "" || !aok || !bok {
		m.selected[id] = struct{}{}
		if m.anchor == "" {
			m.anchor = id
		}
		return
	}
	if ai > bi {
		ai, bi = bi, ai
	}
	m.selected = make(map[string]struct{}, bi-ai+1)
	for _, oid := range m.order[ai : bi+1] {
		m.selected[oid] = struct{}{}
	}
}

// StartRubberBand enters the Selecting state at the drag origin.
func (m *Manager) StartRubberBand(origin geometry.Point) {
	m.mu.Lock()
	m.bandOrigin = origin
	m.bandActive = true
	m.mu.Unlock()
}

// UpdateRubberBand recomputes the selection as every item whose bounds
// intersect the rectangle spanned from the drag origin to the current
// pointer. Partial overlap counts; containment is not required.
func (m *Manager) UpdateRubberBand(current geometry.Point, items []Item) {
	m.mu.Lock()
	if !m.bandActive {
		m.mu.Unlock()
		return
	}
	band := spanRect(m.bandOrigin, current)
	m.selected = make(map[string]struct{})
	for _, it := range items {
		if geometry.Overlaps(band, it.Bounds) {
			m.selected[it.ID] = struct{}{}
		}
	}
	m.mu.Unlock()
	m.publish()
}

// EndRubberBand returns to the Idle state, keeping the final selection.
func (m *Manager) EndRubberBand() {
	m.mu.Lock()
	m.bandActive = false
	m.mu.Unlock()
}

// RubberBandActive reports whether a drag is in progress.
func (m *Manager) RubberBandActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bandActive
}

// ClearSelection empties the selection, e.g. on container blur.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	m.selected = make(map[string]struct{})
	m.anchor = ""
	m.mu.Unlock()
	m.publish()
}

// SelectAll replaces the selection with the given ids.
func (m *Manager) SelectAll(ids []string) {
	m.mu.Lock()
	m.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m.selected[id] = struct{}{}
	}
	m.mu.Unlock()
	m.publish()
}

// Selected returns the current selection in the container order when one is
// known, lexicographic order otherwise.
func (m *Manager) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedLocked()
}

func (m *Manager) selectedLocked() []string {
	ids := make([]string, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	if m.orderIndex != nil {
		sort.Slice(ids, func(i, j int) bool {
			oi, iok := m.orderIndex[ids[i]]
			oj, jok := m.orderIndex[ids[j]]
			if iok && jok {
				return oi < oj
			}
			if iok != jok {
				return iok
			}
			return ids[i] < ids[j]
		})
	} else {
		sort.Strings(ids)
	}
	return ids
}

// IsSelected reports membership.
func (m *Manager) IsSelected(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selected[id]
	return ok
}

// Anchor returns the current range anchor, or "" when none.
func (m *Manager) Anchor() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.anchor
}

func (m *Manager) publish() {
	if m.bus == nil {
		return
	}
	ids := m.Selected()
	m.bus.Publish(TopicChanged, Changed{Container: m.container, IDs: ids, Count: len(ids)})
}

// spanRect normalizes two corner points into a rectangle. A degenerate axis
// gets extent 1 so a stationary drag still tests the point under the cursor.
func spanRect(a, b geometry.Point) geometry.Rect {
	x, w := span(a.X, b.X)
	y, h := span(a.Y, b.Y)
	return geometry.Rect{X: x, Y: y, Width: w, Height: h}
}

func span(a, b int) (start, extent int) {
	if a > b {
		a, b = b, a
	}
	extent = b - a
	if extent == 0 {
		extent = 1
	}
	return a, extent
}
