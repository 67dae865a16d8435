package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/event"
	"github.com/mcdev12/draftnight/go/internal/models"
)

func (s *Service) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req event.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := s.events.CreateEvent(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Service) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	e, err := s.events.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleReadState handles GET /api/events/{id}/state?window=N.
func (s *Service) handleReadState(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	window := 0
	if raw := r.URL.Query().Get("window"); raw != "" {
		var err error
		window, err = strconv.Atoi(raw)
		if err != nil || window < 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
	}

	state, err := s.events.ReadState(r.Context(), id, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Service) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.events.StartDraft)
}

func (s *Service) handlePauseDraft(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.events.PauseDraft)
}

func (s *Service) handleResumeDraft(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.events.ResumeDraft)
}

func (s *Service) handleStopDraft(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.events.StopDraft)
}

func (s *Service) handleResetEvent(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.events.ResetEvent)
}

// lifecycle runs one admin-only event transition.
func (s *Service) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) error) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	role, _, err := actorFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if role != models.RoleAdmin {
		http.Error(w, "admin role required", http.StatusForbidden)
		return
	}

	if err := op(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
