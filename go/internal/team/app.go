package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
)

// Store defines what the team app layer needs from storage.
type Store interface {
	CreateTeam(ctx context.Context, t models.Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error)
}

// CreateTeamRequest contains all data needed to register a drafting team.
// DraftOrder is 1-based and must be unique within the event.
type CreateTeamRequest struct {
	EventID     uuid.UUID  `json:"event_id"`
	Name        string     `json:"name"`
	DraftOrder  int        `json:"draft_order"`
	OwnerUserID *uuid.UUID `json:"owner_user_id,omitempty"`
}

// App handles team registration.
type App struct {
	store Store
}

// NewApp creates a new team App.
func NewApp(store Store) *App {
	return &App{store: store}
}

// CreateTeam registers a team at a draft order position.
func (a *App) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	if req.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.DraftOrder < 1 {
		return nil, fmt.Errorf("%w: draft_order must be at least 1", ErrValidation)
	}

	t := models.Team{
		ID:          uuid.New(),
		EventID:     req.EventID,
		Name:        strings.TrimSpace(req.Name),
		DraftOrder:  req.DraftOrder,
		OwnerUserID: req.OwnerUserID,
	}
	if err := a.store.CreateTeam(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTeam retrieves a team by ID.
func (a *App) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return a.store.GetTeam(ctx, id)
}

// ListByEvent returns an event's teams ordered by draft position.
func (a *App) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	return a.store.ListByEvent(ctx, eventID)
}
