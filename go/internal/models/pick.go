package models

import (
	"time"

	"github.com/google/uuid"
)

// Pick is a committed player→slot assignment. Round, PickInRound and
// OverallPick are derivable from each other through the order calculator
// but all three are persisted for audit.
//
// Schema invariants: at most one pick per (event, overall_pick) and at
// most one pick per (event, player). Both are uniqueness constraints in
// the database, not just application checks.
type Pick struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	TeamID      uuid.UUID `json:"team_id"`
	PlayerID    uuid.UUID `json:"player_id"`
	Round       int       `json:"round"`
	PickInRound int       `json:"pick_in_round"`
	OverallPick int       `json:"overall_pick"`
	MadeAt      time.Time `json:"made_at"`
}
