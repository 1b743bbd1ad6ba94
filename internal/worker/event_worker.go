package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/event"
)

const (
	EventQueueSize    = 256
	EventBatchSize    = 50
	EventBatchTimeout = 2 * time.Second
)

// EventWorker buffers domain events in memory and publishes them in batches.
type EventWorker struct {
	publisher event.Publisher
	queue     chan event.Event
	log       zerolog.Logger
}

func NewEventWorker(publisher event.Publisher, log zerolog.Logger) *EventWorker {
	return &EventWorker{
		publisher: publisher,
		queue:     make(chan event.Event, EventQueueSize),
		log:       log.With().Str("component", "event_worker").Logger(),
	}
}

// Enqueue never blocks the caller. Events are dropped when the queue is full.
func (w *EventWorker) Enqueue(evt event.Event) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	select {
	case w.queue <- evt:
	default:
		w.log.Warn().Str("type", evt.Type).Msg("Event queue full, dropping event")
	}
}

// QueueLen returns the number of events waiting to be published.
func (w *EventWorker) QueueLen() int {
	return len(w.queue)
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *EventWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EventWorker started")

	batch := make([]event.Event, 0, EventBatchSize)
	ticker := time.NewTicker(EventBatchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			batch = w.drain(batch)
			w.flush(batch)
			return

		case evt := <-w.queue:
			batch = append(batch, evt)
			if len(batch) >= EventBatchSize {
				w.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

// drain moves whatever is still queued into batch.
func (w *EventWorker) drain(batch []event.Event) []event.Event {
	for {
		select {
		case evt := <-w.queue:
			batch = append(batch, evt)
		default:
			return batch
		}
	}
}

func (w *EventWorker) flush(batch []event.Event) {
	if len(batch) == 0 {
		return
	}

	failed := 0
	for _, evt := range batch {
		if err := w.publisher.Publish(evt); err != nil {
			failed++
			w.log.Error().Err(err).Str("type", evt.Type).Msg("Publish failed")
		}
	}

	w.log.Debug().
		Int("published", len(batch)-failed).
		Int("failed", failed).
		Msg("Event batch flushed")
}
