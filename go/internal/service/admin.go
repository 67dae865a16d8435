package service

import (
	"net/http"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/player"
	"github.com/mcdev12/draftnight/go/internal/sibling"
	"github.com/mcdev12/draftnight/go/internal/team"
)

// requireAdmin authorizes the admin-only setup endpoints.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	role, _, err := actorFrom(r)
	if err != nil {
		writeError(w, err)
		return false
	}
	if role != models.RoleAdmin {
		http.Error(w, "admin role required", http.StatusForbidden)
		return false
	}
	return true
}

func (s *Service) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok || !requireAdmin(w, r) {
		return
	}

	var req team.CreateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.EventID = eventID

	created, err := s.teams.CreateTeam(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Service) handleListTeams(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	teams, err := s.teams.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Service) handleListRoster(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	roster, err := s.players.ListRoster(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *Service) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok || !requireAdmin(w, r) {
		return
	}

	var req player.CreatePlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.EventID = eventID

	created, err := s.players.CreatePlayer(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Service) handleListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	players, err := s.players.ListAvailable(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Service) handleSetEligibility(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathUUID(w, r)
	if !ok || !requireAdmin(w, r) {
		return
	}

	var body struct {
		Eligible bool `json:"eligible"`
	}
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.players.SetEligibility(r.Context(), playerID, body.Eligible); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleCreateSiblingLink(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok || !requireAdmin(w, r) {
		return
	}

	var req sibling.CreateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.EventID = eventID

	created, err := s.siblings.CreateLink(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListSiblingGroup handles GET /api/events/{id}/sibling-links?group=KEY.
func (s *Service) handleListSiblingGroup(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r)
	if !ok {
		return
	}
	groupKey := r.URL.Query().Get("group")
	if groupKey == "" {
		http.Error(w, "group query parameter is required", http.StatusBadRequest)
		return
	}
	links, err := s.siblings.ListGroup(r.Context(), eventID, groupKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *Service) handleDeleteSiblingLink(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathUUID(w, r)
	if !ok || !requireAdmin(w, r) {
		return
	}
	if err := s.siblings.DeleteLink(r.Context(), playerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
