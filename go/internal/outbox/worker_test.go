package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeWorkerStore struct {
	unsent  []Event
	marked  []uuid.UUID
	fetches int
}

func (s *fakeWorkerStore) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	s.fetches++
	if int32(len(s.unsent)) > limit {
		return s.unsent[:limit], nil
	}
	return s.unsent, nil
}

func (s *fakeWorkerStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

type fakePublisher struct {
	failing  map[uuid.UUID]bool
	attempts map[uuid.UUID]int
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		failing:  make(map[uuid.UUID]bool),
		attempts: make(map[uuid.UUID]int),
	}
}

func (p *fakePublisher) Publish(ctx context.Context, event Event) error {
	p.attempts[event.ID]++
	if p.failing[event.ID] {
		return errors.New("broker unavailable")
	}
	return nil
}

func outboxEvent(typ string) Event {
	return Event{
		ID:        uuid.New(),
		EventID:   uuid.New(),
		EventType: typ,
		Payload:   []byte(`{}`),
		CreatedAt: time.Now(),
	}
}

// TestProcessOutboxMarksPublished runs one pass over a batch and expects
// every acked row to be stamped sent.
func TestProcessOutboxMarksPublished(t *testing.T) {
	events := []Event{outboxEvent(EventTypePickMade), outboxEvent(EventTypeDraftStarted)}
	store := &fakeWorkerStore{unsent: events}
	pub := newFakePublisher()
	w := &Worker{store: store, publisher: pub, config: DefaultConfig()}

	w.processOutbox(context.Background())

	if len(store.marked) != 2 {
		t.Fatalf("marked = %d rows, want 2", len(store.marked))
	}
	for i, e := range events {
		if store.marked[i] != e.ID {
			t.Fatalf("marked[%d] = %s, want %s", i, store.marked[i], e.ID)
		}
	}
}

// TestProcessOutboxSkipsFailedPublish keeps a row that the broker never
// acked unsent and still delivers the rest of the batch.
func TestProcessOutboxSkipsFailedPublish(t *testing.T) {
	bad := outboxEvent(EventTypePickMade)
	good := outboxEvent(EventTypeTradeAccepted)
	store := &fakeWorkerStore{unsent: []Event{bad, good}}
	pub := newFakePublisher()
	pub.failing[bad.ID] = true

	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryDelay = time.Millisecond
	w := &Worker{store: store, publisher: pub, config: cfg}

	w.processOutbox(context.Background())

	if len(store.marked) != 1 || store.marked[0] != good.ID {
		t.Fatalf("marked = %v, want only %s", store.marked, good.ID)
	}
	if got := pub.attempts[bad.ID]; got != 3 {
		t.Fatalf("attempts on failing row = %d, want 3", got)
	}
}

// TestProcessOutboxHonorsBatchSize fetches at most the configured batch.
func TestProcessOutboxHonorsBatchSize(t *testing.T) {
	var events []Event
	for i := 0; i < 5; i++ {
		events = append(events, outboxEvent(EventTypePickMade))
	}
	store := &fakeWorkerStore{unsent: events}
	pub := newFakePublisher()

	cfg := DefaultConfig()
	cfg.BatchSize = 3
	w := &Worker{store: store, publisher: pub, config: cfg}

	w.processOutbox(context.Background())

	if len(store.marked) != 3 {
		t.Fatalf("marked = %d rows, want batch of 3", len(store.marked))
	}
}
