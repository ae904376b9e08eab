package selection

import (
	"testing"

	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/geometry"
)

func TestSelect_PlainReplacesSet(t *testing.T) {
	m := New("desktop", nil)
	m.Select("a", Options{})
	m.Select("b", Options{})

	got := m.Selected()
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}
	if m.Anchor() != "b" {
		t.Fatalf("expected anchor b, got %q", m.Anchor())
	}
}

func TestSelect_MultiToggles(t *testing.T) {
	m := New("desktop", nil)
	m.Select("a", Options{})
	m.Select("b", Options{Multi: true})
	m.Select("a", Options{Multi: true}) // toggle off

	got := m.Selected()
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}
}

func TestSelect_RangeWithOrder(t *testing.T) {
	m := New("desktop", nil)
	m.SetOrder([]string{"a", "b", "c", "d", "e"})

	m.Select("b", Options{})
	m.Select("d", Options{Range: true})

	got := m.Selected()
	want := []string{"b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	// Anchor survives, so a second range re-extends from the same point.
	m.Select("a", Options{Range: true})
	got = m.Selected()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestSelect_RangeWithoutOrderDegradesToAdd(t *testing.T) {
	m := New("desktop", nil)
	m.Select("a", Options{})
	m.Select("d", Options{Range: true})

	got := m.Selected()
	if len(got) != 2 {
		t.Fatalf("expected additive select without ordering, got %v", got)
	}
}

func TestRubberBand_SelectsOnIntersection(t *testing.T) {
	items := []Item{
		{ID: "inside", Bounds: geometry.Rect{X: 20, Y: 20, Width: 30, Height: 30}},
		{ID: "partial", Bounds: geometry.Rect{X: 90, Y: 90, Width: 50, Height: 50}},
		{ID: "outside", Bounds: geometry.Rect{X: 300, Y: 300, Width: 40, Height: 40}},
	}

	m := New("desktop", nil)
	m.StartRubberBand(geometry.Point{X: 10, Y: 10})
	if !m.RubberBandActive() {
		t.Fatalf("expected Selecting state")
	}

	m.UpdateRubberBand(geometry.Point{X: 100, Y: 100}, items)
	got := m.Selected()
	if len(got) != 2 || got[0] != "inside" || got[1] != "partial" {
		t.Fatalf("expected [inside partial], got %v", got)
	}

	// Dragging upward/leftward works too.
	m.UpdateRubberBand(geometry.Point{X: 25, Y: 25}, items)
	got = m.Selected()
	if len(got) != 1 || got[0] != "inside" {
		t.Fatalf("expected [inside], got %v", got)
	}

	m.EndRubberBand()
	if m.RubberBandActive() {
		t.Fatalf("expected Idle state")
	}
	// Final selection is kept after the drag ends.
	if !m.IsSelected("inside") {
		t.Fatalf("selection should survive EndRubberBand")
	}
}

func TestPublishesFullSelection(t *testing.T) {
	b := bus.New()
	var last Changed
	events := 0
	b.Subscribe(TopicChanged, func(e bus.Event) {
		last = e.Payload.(Changed)
		events++
	})

	m := New("desktop", b)
	m.Select("a", Options{})
	m.Select("b", Options{Multi: true})

	if events != 2 {
		t.Fatalf("expected 2 events, got %d", events)
	}
	if last.Count != 2 || len(last.IDs) != 2 {
		t.Fatalf("expected full set of 2, got %+v", last)
	}
	if last.Container != "desktop" {
		t.Fatalf("expected container desktop, got %q", last.Container)
	}

	m.ClearSelection()
	if last.Count != 0 || len(last.IDs) != 0 {
		t.Fatalf("clear should publish empty set, got %+v", last)
	}
}

func TestSelectAllReplaces(t *testing.T) {
	m := New("desktop", nil)
	m.Select("a", Options{})
	m.SelectAll([]string{"x", "y", "z"})

	got := m.Selected()
	if len(got) != 3 {
		t.Fatalf("expected 3 selected, got %v", got)
	}
	if m.IsSelected("a") {
		t.Fatalf("selectAll should fully replace the set")
	}
}
