package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a claimant in a draft event. DraftOrder is the 1-based snake
// position, unique within the event.
type Team struct {
	ID          uuid.UUID  `json:"id"`
	EventID     uuid.UUID  `json:"event_id"`
	Name        string     `json:"name"`
	DraftOrder  int        `json:"draft_order"`
	OwnerUserID *uuid.UUID `json:"owner_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
