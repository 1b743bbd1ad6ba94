package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/folio-backend/internal/event"
)

type fakePublisher struct {
	mu    sync.Mutex
	types []string
	fail  bool
}

func (p *fakePublisher) Publish(evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.types = append(p.types, evt.Type)
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.types))
	copy(out, p.types)
	return out
}

func TestEventWorkerFlushesOnShutdown(t *testing.T) {
	pub := &fakePublisher{}
	w := NewEventWorker(pub, zerolog.Nop())

	w.Enqueue(event.Event{Type: "quiz.completed"})
	w.Enqueue(event.Event{Type: "conversation.message"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	got := pub.published()
	if len(got) != 2 {
		t.Fatalf("expected 2 published events, got %v", got)
	}
}

func TestEventWorkerDropsWhenFull(t *testing.T) {
	pub := &fakePublisher{}
	w := NewEventWorker(pub, zerolog.Nop())

	for i := 0; i < EventQueueSize+10; i++ {
		w.Enqueue(event.Event{Type: "conversation.message"})
	}

	if len(w.queue) != EventQueueSize {
		t.Errorf("expected queue capped at %d, got %d", EventQueueSize, len(w.queue))
	}
}

func TestEventWorkerSurvivesPublishErrors(t *testing.T) {
	pub := &fakePublisher{fail: true}
	w := NewEventWorker(pub, zerolog.Nop())

	w.flush([]event.Event{{Type: "quiz.completed"}})

	if len(pub.published()) != 0 {
		t.Error("failing publisher must not record events")
	}
}

type countingSweeper struct {
	cutoffs []time.Time
	expired int
}

func (s *countingSweeper) SweepIdle(cutoff time.Time) int {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.expired
}

func TestSessionSweeperUsesTTLCutoff(t *testing.T) {
	quizzes := &countingSweeper{expired: 2}
	chats := &countingSweeper{expired: 1}
	s := NewSessionSweeper(30*time.Minute, map[string]IdleSweeper{
		"quiz": quizzes,
		"chat": chats,
	}, zerolog.Nop())

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if n := s.SweepOnce(); n != 3 {
		t.Errorf("expected 3 expired, got %d", n)
	}
	want := fixed.Add(-30 * time.Minute)
	if len(quizzes.cutoffs) != 1 || !quizzes.cutoffs[0].Equal(want) {
		t.Errorf("expected cutoff %s, got %v", want, quizzes.cutoffs)
	}
}
