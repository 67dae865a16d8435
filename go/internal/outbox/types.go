package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types written by the allocation and trade engines.
const (
	EventTypePickMade        = "PickMade"
	EventTypeSiblingPickMade = "SiblingPickMade"
	EventTypeDraftStarted    = "DraftStarted"
	EventTypeDraftPaused     = "DraftPaused"
	EventTypeDraftResumed    = "DraftResumed"
	EventTypeDraftCompleted  = "DraftCompleted"
	EventTypeTradeAccepted   = "TradeAccepted"
)

// Event is one row of the transactional outbox. Rows are written inside
// the same transaction as the state change they describe and published
// asynchronously by the worker.
type Event struct {
	ID        uuid.UUID
	EventID   uuid.UUID // draft event the row belongs to
	EventType string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}

// Publisher delivers outbox events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
