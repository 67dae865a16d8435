package service

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftnight/go/internal/event"
	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/pick"
	"github.com/mcdev12/draftnight/go/internal/player"
	"github.com/mcdev12/draftnight/go/internal/sibling"
	"github.com/mcdev12/draftnight/go/internal/team"
	"github.com/mcdev12/draftnight/go/internal/trade"
)

// Service exposes the draft engine over JSON HTTP.
type Service struct {
	events   *event.App
	picks    *pick.App
	trades   *trade.App
	players  *player.App
	teams    *team.App
	siblings *sibling.App
}

// NewService creates a new HTTP service.
func NewService(events *event.App, picks *pick.App, trades *trade.App, players *player.App, teams *team.App, siblings *sibling.App) *Service {
	return &Service{
		events:   events,
		picks:    picks,
		trades:   trades,
		players:  players,
		teams:    teams,
		siblings: siblings,
	}
}

// Register wires all routes onto the mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	mux.HandleFunc("GET /api/events/{id}/state", s.handleReadState)
	mux.HandleFunc("POST /api/events/{id}/start", s.handleStartDraft)
	mux.HandleFunc("POST /api/events/{id}/pause", s.handlePauseDraft)
	mux.HandleFunc("POST /api/events/{id}/resume", s.handleResumeDraft)
	mux.HandleFunc("POST /api/events/{id}/stop", s.handleStopDraft)
	mux.HandleFunc("POST /api/events/{id}/reset", s.handleResetEvent)

	mux.HandleFunc("POST /api/events/{id}/picks", s.handleCommitPick)

	mux.HandleFunc("POST /api/events/{id}/trades", s.handleProposeTrade)
	mux.HandleFunc("GET /api/trades/{id}", s.handleGetTrade)
	mux.HandleFunc("POST /api/trades/{id}/respond", s.handleRespondTrade)
	mux.HandleFunc("POST /api/trades/{id}/cancel", s.handleCancelTrade)

	mux.HandleFunc("POST /api/events/{id}/teams", s.handleCreateTeam)
	mux.HandleFunc("GET /api/events/{id}/teams", s.handleListTeams)
	mux.HandleFunc("GET /api/teams/{id}/roster", s.handleListRoster)

	mux.HandleFunc("POST /api/events/{id}/players", s.handleCreatePlayer)
	mux.HandleFunc("GET /api/events/{id}/players", s.handleListAvailablePlayers)
	mux.HandleFunc("PUT /api/players/{id}/eligibility", s.handleSetEligibility)

	mux.HandleFunc("POST /api/events/{id}/sibling-links", s.handleCreateSiblingLink)
	mux.HandleFunc("GET /api/events/{id}/sibling-links", s.handleListSiblingGroup)
	mux.HandleFunc("DELETE /api/players/{id}/sibling-link", s.handleDeleteSiblingLink)
}

// pathUUID parses the {id} path segment. Reports the error itself so
// handlers can just early-return.
func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id format", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom derives the caller's role and team from request headers.
// Auth proper is out of scope; the upstream proxy is trusted to set
// X-Role and X-Team-ID.
func actorFrom(r *http.Request) (models.Role, uuid.UUID, error) {
	role := models.Role(r.Header.Get("X-Role"))
	if !role.Valid() {
		return "", uuid.Nil, errInvalidRole
	}
	teamID := uuid.Nil
	if raw := r.Header.Get("X-Team-ID"); raw != "" {
		var err error
		teamID, err = uuid.Parse(raw)
		if err != nil {
			return "", uuid.Nil, errInvalidTeamHeader
		}
	}
	if role == models.RoleCoach && teamID == uuid.Nil {
		return "", uuid.Nil, errCoachNeedsTeam
	}
	return role, teamID, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
