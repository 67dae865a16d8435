package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftnight/go/internal/sqlutil"
)

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// workerStore is the slice of the outbox the worker needs: a batch read
// of unsent rows and a per-row sent stamp.
type workerStore interface {
	FetchUnsent(ctx context.Context, limit int32) ([]Event, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// dbStore fetches inside a short transaction and stamps rows directly.
// The transaction never spans a broker call.
type dbStore struct {
	db *sql.DB
}

func (s dbStore) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	var events []Event
	err := sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		var ferr error
		events, ferr = NewRepository(tx).FetchUnsent(ctx, limit)
		return ferr
	})
	return events, err
}

func (s dbStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return NewRepository(s.db).MarkSent(ctx, id, at)
}

// Worker polls the outbox table and publishes unsent rows. A row only
// counts as sent once the broker acked it, so delivery is at-least-once
// and consumers must dedupe on the event ID.
type Worker struct {
	store     workerStore
	publisher Publisher
	config    Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(db *sql.DB, publisher Publisher, cfg Config) *Worker {
	return &Worker{
		store:     dbStore{db: db},
		publisher: publisher,
		config:    cfg,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int32("batch_size", w.config.BatchSize).
		Msg("outbox worker started")
	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		}
	}
}

// processOutbox fetches a batch, then publishes with no transaction
// open: broker retries can take seconds per row and must not pin a DB
// connection. A row that was published but not yet stamped may be
// fetched again by a later pass or another worker; the publisher's
// message ID dedup makes that replay harmless.
func (w *Worker) processOutbox(ctx context.Context) {
	events, err := w.store.FetchUnsent(ctx, w.config.BatchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch outbox events")
		return
	}
	if len(events) == 0 {
		return
	}

	log.Debug().Int("count", len(events)).Msg("processing outbox events")

	for _, event := range events {
		if err := w.publishWithRetry(ctx, event); err != nil {
			// Leave the row unsent; the next poll retries it.
			log.Error().
				Err(err).
				Str("outbox_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to publish outbox event")
			continue
		}
		if err := w.store.MarkSent(ctx, event.ID, time.Now()); err != nil {
			log.Error().
				Err(err).
				Str("outbox_id", event.ID.String()).
				Msg("failed to mark outbox event sent")
		}
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}
		if lastErr = w.publisher.Publish(ctx, event); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("publish failed after %d retries: %w", w.config.MaxRetries, lastErr)
}
