package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftnight/go/internal/models"
)

// CreateEventRequest represents a request to create a new draft event.
type CreateEventRequest struct {
	Name          string `json:"name"`
	Rounds        int    `json:"rounds"`
	PickClockSecs int    `json:"pick_clock_secs"`
}

// PickView is a committed pick joined with team and player names, for the
// read-state window.
type PickView struct {
	PickID      uuid.UUID `json:"pick_id"`
	TeamID      uuid.UUID `json:"team_id"`
	TeamName    string    `json:"team_name"`
	PlayerID    uuid.UUID `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Round       int       `json:"round"`
	PickInRound int       `json:"pick_in_round"`
	OverallPick int       `json:"overall_pick"`
	MadeAt      time.Time `json:"made_at"`
}

// State is the read model consumed by the presentation layer. Time
// remaining is computed at read time from the stored deadline; while
// paused it is the banked remainder.
type State struct {
	Event             models.DraftEvent `json:"event"`
	Teams             []models.Team     `json:"teams"`
	OnClockTeamID     *uuid.UUID        `json:"on_clock_team_id,omitempty"`
	CurrentRound      int               `json:"current_round"`
	TimeRemainingSecs *int              `json:"time_remaining_secs,omitempty"`
	TotalPicks        int               `json:"total_picks"`
	CompletedPicks    int               `json:"completed_picks"`
	RecentPicks       []PickView        `json:"recent_picks"`
}
