package events

import (
	"context"
	"log/slog"
)

// Bus decouples event producers from the publisher. Emit never blocks: when
// the buffer is full the event is dropped and logged, keeping registry
// operations independent of sink latency.
type Bus struct {
	ch     chan Event
	logger *slog.Logger
}

// NewBus creates a bus with the given buffer size.
func NewBus(size int, logger *slog.Logger) *Bus {
	if size <= 0 {
		size = 256
	}
	return &Bus{ch: make(chan Event, size), logger: logger}
}

var _ Publisher = (*Bus)(nil)

// Emit enqueues the event for background delivery.
func (b *Bus) Emit(_ context.Context, e Event) error {
	select {
	case b.ch <- e:
	default:
		b.logger.Warn("event bus full, dropping event",
			"event_id", e.ID,
			"type", string(e.Type),
		)
	}
	return nil
}

// Worker drains the bus into a publisher until the context is cancelled.
// Publish failures are logged and skipped; delivery is best effort.
type Worker struct {
	bus       *Bus
	publisher Publisher
	logger    *slog.Logger
}

// NewWorker creates a worker for the given bus and downstream publisher.
func NewWorker(bus *Bus, publisher Publisher, logger *slog.Logger) *Worker {
	return &Worker{bus: bus, publisher: publisher, logger: logger}
}

// Run consumes events until ctx is done. It returns ctx.Err() on shutdown.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-w.bus.ch:
			if err := w.publisher.Emit(ctx, e); err != nil {
				w.logger.Error("publish event",
					"event_id", e.ID,
					"type", string(e.Type),
					"error", err.Error(),
				)
			}
		}
	}
}
