package trade

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftnight/go/internal/models"
)

// MaxRoundDelta is the fairness bound: the absolute difference between
// the two sides' average draft rounds may not exceed this. The rule is
// symmetric and deliberately coarse; it weighs draft position, not
// player quality.
const MaxRoundDelta = 2.0

// Actor carries the already-derived role of the caller and, for coaches,
// the team they act for.
type Actor struct {
	Role   models.Role `json:"role"`
	TeamID uuid.UUID   `json:"team_id,omitempty"`
}

// ProposeTradeRequest represents a request to propose a player exchange.
// GiveIDs are players leaving the proposer's roster, ReceiveIDs are
// players leaving the partner's roster.
type ProposeTradeRequest struct {
	EventID    uuid.UUID   `json:"event_id"`
	FromTeamID uuid.UUID   `json:"from_team_id"`
	ToTeamID   uuid.UUID   `json:"to_team_id"`
	GiveIDs    []uuid.UUID `json:"give_ids"`
	ReceiveIDs []uuid.UUID `json:"receive_ids"`
	Message    string      `json:"message,omitempty"`
}

// CounterTradeRequest represents a counter-offer. Sides are swapped
// relative to the countered trade: the responder becomes the proposer.
type CounterTradeRequest struct {
	TradeID    uuid.UUID   `json:"trade_id"`
	Actor      Actor       `json:"actor"`
	GiveIDs    []uuid.UUID `json:"give_ids"`
	ReceiveIDs []uuid.UUID `json:"receive_ids"`
	Message    string      `json:"message,omitempty"`
}

// Fairness holds the computed per-side average draft rounds and their
// absolute difference.
type Fairness struct {
	FromAvgRound float64 `json:"from_avg_round"`
	ToAvgRound   float64 `json:"to_avg_round"`
	Delta        float64 `json:"delta"`
}
