package models

import (
	"time"

	"github.com/google/uuid"
)

// Player represents a registered player in a draft event.
// IsDrafted is monotonic within an event: the allocation engine sets it
// false→true and never reverts it. Ownership may move between teams via
// trades, but the drafted flag and DraftedAt stay put.
type Player struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	FullName      string     `json:"full_name"`
	Eligible      bool       `json:"eligible"`
	IsDrafted     bool       `json:"is_drafted"`
	DraftedTeamID *uuid.UUID `json:"drafted_team_id,omitempty"`
	DraftedAt     *time.Time `json:"drafted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
