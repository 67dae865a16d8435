package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the status of a trade.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusRejected  TradeStatus = "REJECTED"
	TradeStatusCountered TradeStatus = "COUNTERED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
)

// TradeItemSide names which roster a traded player leaves.
type TradeItemSide string

const (
	TradeSideFromGives TradeItemSide = "FROM_GIVES"
	TradeSideToGives   TradeItemSide = "TO_GIVES"
)

// Trade is a proposed player exchange between two teams. Counter-offers
// form a chain through ParentTradeID. The fairness fields are computed at
// proposal time and persisted for audit.
type Trade struct {
	ID            uuid.UUID   `json:"id"`
	EventID       uuid.UUID   `json:"event_id"`
	FromTeamID    uuid.UUID   `json:"from_team_id"`
	ToTeamID      uuid.UUID   `json:"to_team_id"`
	Status        TradeStatus `json:"status"`
	ParentTradeID *uuid.UUID  `json:"parent_trade_id,omitempty"`
	FromAvgRound  float64     `json:"from_avg_round"`
	ToAvgRound    float64     `json:"to_avg_round"`
	RoundDelta    float64     `json:"round_delta"`
	Message       string      `json:"message,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	RespondedAt   *time.Time  `json:"responded_at,omitempty"`
}

// TradeItem names one player in a trade and the side giving them up.
type TradeItem struct {
	ID       uuid.UUID     `json:"id"`
	TradeID  uuid.UUID     `json:"trade_id"`
	PlayerID uuid.UUID     `json:"player_id"`
	Side     TradeItemSide `json:"side"`
}
