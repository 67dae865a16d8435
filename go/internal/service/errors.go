package service

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftnight/go/internal/event"
	"github.com/mcdev12/draftnight/go/internal/pick"
	"github.com/mcdev12/draftnight/go/internal/player"
	"github.com/mcdev12/draftnight/go/internal/sibling"
	"github.com/mcdev12/draftnight/go/internal/team"
	"github.com/mcdev12/draftnight/go/internal/trade"
)

var (
	errInvalidRole       = errors.New("missing or invalid X-Role header")
	errInvalidTeamHeader = errors.New("invalid X-Team-ID header")
	errCoachNeedsTeam    = errors.New("coach requests require X-Team-ID")
)

type errorResponse struct {
	Error    string          `json:"error"`
	Fairness *trade.Fairness `json:"fairness,omitempty"`
}

// writeError maps domain sentinels onto HTTP statuses. Anything
// unmapped is a 500 and gets logged; mapped errors are the client's
// problem and are only echoed back.
func writeError(w http.ResponseWriter, err error) {
	var fe *trade.FairnessError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: fe.Error(), Fairness: &fe.Fairness})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidRole),
		errors.Is(err, errInvalidTeamHeader),
		errors.Is(err, errCoachNeedsTeam),
		errors.Is(err, event.ErrValidation),
		errors.Is(err, pick.ErrInvalidSelector),
		errors.Is(err, pick.ErrInvalidRole),
		errors.Is(err, trade.ErrValidation),
		errors.Is(err, player.ErrValidation),
		errors.Is(err, team.ErrValidation),
		errors.Is(err, sibling.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, pick.ErrNotOnClock),
		errors.Is(err, trade.ErrNotRecipient),
		errors.Is(err, trade.ErrNotProposer):
		return http.StatusForbidden

	case errors.Is(err, event.ErrNotFound),
		errors.Is(err, pick.ErrEventNotFound),
		errors.Is(err, pick.ErrPlayerNotFound),
		errors.Is(err, pick.ErrTeamNotFound),
		errors.Is(err, trade.ErrTradeNotFound),
		errors.Is(err, player.ErrNotFound),
		errors.Is(err, team.ErrNotFound),
		errors.Is(err, sibling.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, event.ErrInvalidTransition),
		errors.Is(err, event.ErrNotLive),
		errors.Is(err, event.ErrAlreadyPaused),
		errors.Is(err, event.ErrNotPaused),
		errors.Is(err, pick.ErrEventNotLive),
		errors.Is(err, pick.ErrDraftPaused),
		errors.Is(err, pick.ErrPlayerIneligible),
		errors.Is(err, pick.ErrSlotTaken),
		errors.Is(err, pick.ErrPlayerDrafted),
		errors.Is(err, pick.ErrNoOpenSlot),
		errors.Is(err, pick.ErrNoTeams),
		errors.Is(err, trade.ErrNotPending),
		errors.Is(err, trade.ErrNotOnRoster),
		errors.Is(err, trade.ErrRosterChanged),
		errors.Is(err, trade.ErrUnfair),
		errors.Is(err, player.ErrDrafted),
		errors.Is(err, team.ErrOrderTaken),
		errors.Is(err, sibling.ErrAlreadyLinked):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
