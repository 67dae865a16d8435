package service

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/trade"
)

type proposeTradeBody struct {
	ToTeamID   uuid.UUID   `json:"to_team_id"`
	GiveIDs    []uuid.UUID `json:"give_ids"`
	ReceiveIDs []uuid.UUID `json:"receive_ids"`
	Message    string      `json:"message,omitempty"`
}

// respondTradeBody answers a pending trade. Action is ACCEPT, REJECT or
// COUNTER; the player lists apply only to counters and are given from
// the responder's perspective.
type respondTradeBody struct {
	Action     string      `json:"action"`
	GiveIDs    []uuid.UUID `json:"give_ids,omitempty"`
	ReceiveIDs []uuid.UUID `json:"receive_ids,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type tradeResponse struct {
	Trade *models.Trade      `json:"trade"`
	Items []models.TradeItem `json:"items"`
}

func (s *Service) handleProposeTrade(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	role, teamID, err := actorFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if role != models.RoleCoach {
		http.Error(w, "only coaches propose trades", http.StatusForbidden)
		return
	}

	var body proposeTradeBody
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := s.trades.Propose(r.Context(), trade.ProposeTradeRequest{
		EventID:    eventID,
		FromTeamID: teamID,
		ToTeamID:   body.ToTeamID,
		GiveIDs:    body.GiveIDs,
		ReceiveIDs: body.ReceiveIDs,
		Message:    body.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Service) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	t, items, err := s.trades.GetTrade(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tradeResponse{Trade: t, Items: items})
}

func (s *Service) handleRespondTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	role, teamID, err := actorFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := trade.Actor{Role: role, TeamID: teamID}

	var body respondTradeBody
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch strings.ToUpper(body.Action) {
	case "ACCEPT":
		if err := s.trades.Accept(r.Context(), id, actor); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "REJECT":
		if err := s.trades.Reject(r.Context(), id, actor); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "COUNTER":
		counter, err := s.trades.Counter(r.Context(), trade.CounterTradeRequest{
			TradeID:    id,
			Actor:      actor,
			GiveIDs:    body.GiveIDs,
			ReceiveIDs: body.ReceiveIDs,
			Message:    body.Message,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, counter)
	default:
		http.Error(w, "action must be ACCEPT, REJECT or COUNTER", http.StatusBadRequest)
	}
}

func (s *Service) handleCancelTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	role, teamID, err := actorFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.trades.Cancel(r.Context(), id, trade.Actor{Role: role, TeamID: teamID}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
