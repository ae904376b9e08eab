// Package bus is the in-process event bus the shell components coordinate
// through: synchronous dispatch, delivery order guaranteed within a topic.
package bus

import "sync"

// Event is a published notification.
type Event struct {
	Topic   string
	Payload any
}

// Handler receives events for a subscribed topic.
type Handler func(Event)

type subscription struct {
	topic   string
	handler Handler
}

// Bus routes events from publishers to topic subscribers. The zero value is
// not usable; construct with New.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]*subscription)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// function. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	sub := &subscription{topic: topic, handler: h}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			handlers := b.subs[topic]
			for i, s := range handlers {
				if s == sub {
					b.subs[topic] = append(handlers[:i:i], handlers[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers the event synchronously to every handler subscribed to
// the topic, in subscription order. Handlers registered or removed during
// dispatch take effect for the next publish.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	handlers := make([]*subscription, len(b.subs[topic]))
	copy(handlers, b.subs[topic])
	b.mu.Unlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range handlers {
		s.handler(ev)
	}
}

// SubscriberCount returns the number of handlers on a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
