package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftnight/go/internal/sqlutil"
)

type Repository struct {
	db sqlutil.DBTX
}

func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{db: tx}
}

// Insert writes one outbox row. Call it from inside the transaction that
// makes the state change the event describes.
func (r *Repository) Insert(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	const q = `
		INSERT INTO outbox_events (id, event_id, event_type, payload)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, q, uuid.New(), eventID, eventType, payload); err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// FetchUnsent returns up to limit unsent rows. The row locks only live
// as long as the fetch transaction, so overlapping polls can still hand
// the same row to two workers; broker-side message ID dedup makes the
// duplicate publish harmless.
func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	const q = `
		SELECT id, event_id, event_type, payload, created_at
		FROM outbox_events
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MarkSent stamps a published row.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	const q = `UPDATE outbox_events SET sent_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, at); err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}
