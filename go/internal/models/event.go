package models

import (
	"time"

	"github.com/google/uuid"
)

// EventPhase defines the lifecycle phase of a draft event.
type EventPhase string

const (
	EventPhaseSetup    EventPhase = "SETUP"
	EventPhaseLive     EventPhase = "LIVE"
	EventPhaseComplete EventPhase = "COMPLETE"
)

// DraftEvent is the per-draft aggregate: phase, current pick pointer and
// the pick clock. The clock is stored purely as a wall-clock deadline plus
// the seconds banked while paused; nothing in the server advances it.
type DraftEvent struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Phase              EventPhase `json:"phase"`
	Rounds             int        `json:"rounds"`
	CurrentPick        int        `json:"current_pick"` // overall number of the next open slot
	PickClockSecs      int        `json:"pick_clock_secs"`
	IsPaused           bool       `json:"is_paused"`
	ClockEndsAt        *time.Time `json:"clock_ends_at,omitempty"` // nil while paused or not live
	PauseRemainingSecs int        `json:"pause_remaining_secs"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TotalSlots returns the number of pick slots in the draft for a given
// team count.
func (e *DraftEvent) TotalSlots(numTeams int) int {
	return e.Rounds * numTeams
}
