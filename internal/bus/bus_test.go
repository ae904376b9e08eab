package bus

import "testing"

func TestPublishSubscribe_OrderWithinTopic(t *testing.T) {
	b := New()
	var got []int
	b.Subscribe("tick", func(e Event) { got = append(got, e.Payload.(int)*10) })
	b.Subscribe("tick", func(e Event) { got = append(got, e.Payload.(int)*10+1) })

	b.Publish("tick", 1)
	b.Publish("tick", 2)

	want := []int{10, 11, 20, 21}
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	unsub := b.Subscribe("tick", func(Event) { count++ })

	b.Publish("tick", nil)
	unsub()
	unsub() // second call is a no-op
	b.Publish("tick", nil)

	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
	if n := b.SubscriberCount("tick"); n != 0 {
		t.Fatalf("expected 0 subscribers, got %d", n)
	}
}

func TestPublish_NoSubscribers(t *testing.T) {
	b := New()
	b.Publish("nobody-home", "payload") // must not panic
}
