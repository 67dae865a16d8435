package models

import (
	"time"

	"github.com/google/uuid"
)

// Sibling draft cost bounds. The cost is the number of future own-team
// slots consumed to auto-place a linked player.
const (
	MinDraftCost = 1
	MaxDraftCost = 10
)

// SiblingLink groups players that share a caregiver key. Links are
// created and edited by the admin tooling; the allocation engine only
// reads them. A player with no link has no sibling behavior; missing
// keys are never collapsed into a shared bucket.
type SiblingLink struct {
	PlayerID  uuid.UUID `json:"player_id"`
	EventID   uuid.UUID `json:"event_id"`
	GroupKey  string    `json:"group_key"`
	DraftCost int       `json:"draft_cost"`
	CreatedAt time.Time `json:"created_at"`
}
