package pick

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftnight/go/internal/models"
)

// Selector identifies the slot for a pick, either by overall number or by
// (team, round). Exactly one of the two forms must be populated; the app
// resolves it into a canonical slot once, at the boundary.
type Selector struct {
	Overall int        `json:"overall_pick,omitempty"`
	TeamID  uuid.UUID  `json:"team_id,omitempty"`
	Round   int        `json:"round,omitempty"`
}

func (s Selector) byOverall() bool {
	return s.Overall > 0
}

func (s Selector) byTeamRound() bool {
	return s.TeamID != uuid.Nil && s.Round > 0
}

// Actor carries the already-derived role of the caller. Coaches may only
// commit their own on-the-clock slot; admins may fill any open slot.
type Actor struct {
	Role   models.Role `json:"role"`
	TeamID uuid.UUID   `json:"team_id,omitempty"`
}

// CommitPickRequest represents a request to commit one player into one slot.
type CommitPickRequest struct {
	EventID  uuid.UUID `json:"event_id"`
	PlayerID uuid.UUID `json:"player_id"`
	Selector Selector  `json:"selector"`
	Actor    Actor     `json:"actor"`
}

// SiblingPick reports an auto-committed cost-linked selection.
type SiblingPick struct {
	PickID      uuid.UUID `json:"pick_id"`
	PlayerID    uuid.UUID `json:"player_id"`
	OverallPick int       `json:"overall_pick"`
}

// CommitPickResponse is the result of a successful commit.
type CommitPickResponse struct {
	PickID      uuid.UUID    `json:"pick_id"`
	OverallPick int          `json:"overall_pick"`
	Sibling     *SiblingPick `json:"sibling_pick,omitempty"`
}

// slotRef is the canonical resolution of a Selector.
type slotRef struct {
	TeamID      uuid.UUID
	TeamIndex   int // 0-based position in draft order
	Round       int
	PickInRound int
	Overall     int
}
