package sibling

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
)

// Store defines what the sibling app layer needs from storage.
type Store interface {
	CreateLink(ctx context.Context, link models.SiblingLink) error
	GetLinkByPlayer(ctx context.Context, playerID uuid.UUID) (*models.SiblingLink, error)
	DeleteLink(ctx context.Context, playerID uuid.UUID) error
	ListGroup(ctx context.Context, eventID uuid.UUID, groupKey string) ([]models.SiblingLink, error)
}

// CreateLinkRequest joins a player to a sibling group. DraftCost is the
// number of future own-team slots one auto-pick consumes.
type CreateLinkRequest struct {
	PlayerID  uuid.UUID `json:"player_id"`
	EventID   uuid.UUID `json:"event_id"`
	GroupKey  string    `json:"group_key"`
	DraftCost int       `json:"draft_cost"`
}

// App manages sibling group links.
type App struct {
	store Store
}

// NewApp creates a new sibling App.
func NewApp(store Store) *App {
	return &App{store: store}
}

// CreateLink registers a player in a sibling group.
func (a *App) CreateLink(ctx context.Context, req CreateLinkRequest) (*models.SiblingLink, error) {
	if req.PlayerID == uuid.Nil || req.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: player_id and event_id are required", ErrValidation)
	}
	if strings.TrimSpace(req.GroupKey) == "" {
		return nil, fmt.Errorf("%w: group_key is required", ErrValidation)
	}
	if req.DraftCost < models.MinDraftCost || req.DraftCost > models.MaxDraftCost {
		return nil, fmt.Errorf("%w: draft_cost must be between %d and %d",
			ErrValidation, models.MinDraftCost, models.MaxDraftCost)
	}

	link := models.SiblingLink{
		PlayerID:  req.PlayerID,
		EventID:   req.EventID,
		GroupKey:  strings.TrimSpace(req.GroupKey),
		DraftCost: req.DraftCost,
	}
	if err := a.store.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLinkByPlayer returns a player's link, or ErrNotFound.
func (a *App) GetLinkByPlayer(ctx context.Context, playerID uuid.UUID) (*models.SiblingLink, error) {
	link, err := a.store.GetLinkByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrNotFound
	}
	return link, nil
}

// DeleteLink removes a player from their sibling group.
func (a *App) DeleteLink(ctx context.Context, playerID uuid.UUID) error {
	return a.store.DeleteLink(ctx, playerID)
}

// ListGroup returns all links sharing a group key within an event.
func (a *App) ListGroup(ctx context.Context, eventID uuid.UUID, groupKey string) ([]models.SiblingLink, error) {
	return a.store.ListGroup(ctx, eventID, groupKey)
}
