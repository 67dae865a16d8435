package outbox

import "time"

// Payload shapes for the event types above. Consumers poll the draft
// state endpoint or subscribe to the stream; nothing here pushes to end
// users directly.

// PickMadePayload is the payload for a PickMade event.
type PickMadePayload struct {
	PickID      string    `json:"pick_id"`
	TeamID      string    `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	Round       int       `json:"round"`
	PickInRound int       `json:"pick_in_round"`
	OverallPick int       `json:"overall_pick"`
	MadeAt      time.Time `json:"made_at"`
}

// SiblingPickMadePayload is the payload for a SiblingPickMade event. It
// names the trigger pick that caused the auto-placement.
type SiblingPickMadePayload struct {
	PickID        string    `json:"pick_id"`
	TeamID        string    `json:"team_id"`
	PlayerID      string    `json:"player_id"`
	TriggerPickID string    `json:"trigger_pick_id"`
	GroupKey      string    `json:"group_key"`
	DraftCost     int       `json:"draft_cost"`
	OverallPick   int       `json:"overall_pick"`
	MadeAt        time.Time `json:"made_at"`
}

// DraftStartedPayload is the payload for a DraftStarted event.
type DraftStartedPayload struct {
	EventID     string    `json:"event_id"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftPausedPayload is the payload for a DraftPaused event.
type DraftPausedPayload struct {
	EventID       string    `json:"event_id"`
	PausedAt      time.Time `json:"paused_at"`
	RemainingSecs int       `json:"remaining_secs"`
}

// DraftResumedPayload is the payload for a DraftResumed event.
type DraftResumedPayload struct {
	EventID     string    `json:"event_id"`
	ResumedAt   time.Time `json:"resumed_at"`
	ClockEndsAt time.Time `json:"clock_ends_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event.
type DraftCompletedPayload struct {
	EventID     string    `json:"event_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// TradeAcceptedPayload is the payload for a TradeAccepted event.
type TradeAcceptedPayload struct {
	TradeID    string    `json:"trade_id"`
	FromTeamID string    `json:"from_team_id"`
	ToTeamID   string    `json:"to_team_id"`
	PlayerIDs  []string  `json:"player_ids"`
	AcceptedAt time.Time `json:"accepted_at"`
}
