package service

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/pick"
)

// commitPickBody is the wire shape of a pick commit. The slot may be
// named by overall number or by team and round.
type commitPickBody struct {
	PlayerID    uuid.UUID `json:"player_id"`
	OverallPick int       `json:"overall_pick,omitempty"`
	TeamID      uuid.UUID `json:"team_id,omitempty"`
	Round       int       `json:"round,omitempty"`
}

func (s *Service) handleCommitPick(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	role, teamID, err := actorFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body commitPickBody
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.picks.CommitPick(r.Context(), pick.CommitPickRequest{
		EventID:  eventID,
		PlayerID: body.PlayerID,
		Selector: pick.Selector{
			Overall: body.OverallPick,
			TeamID:  body.TeamID,
			Round:   body.Round,
		},
		Actor: pick.Actor{Role: role, TeamID: teamID},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
