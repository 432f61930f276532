package memory

import (
	"context"
	"sync"

	"mintpass/internal/events"
)

// Sink records emitted events in memory. Test double for the Kafka publisher.
type Sink struct {
	mu     sync.Mutex
	events []events.Event
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

var _ events.Publisher = (*Sink)(nil)

func (s *Sink) Emit(_ context.Context, e events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (s *Sink) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Event, len(s.events))
	copy(out, s.events)
	return out
}

// ByType filters the recorded events.
func (s *Sink) ByType(t events.Type) []events.Event {
	var out []events.Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
