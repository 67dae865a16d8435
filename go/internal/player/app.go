package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
)

// Store defines what the player app layer needs from storage.
type Store interface {
	CreatePlayer(ctx context.Context, p models.Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	SetEligibility(ctx context.Context, id uuid.UUID, eligible bool) error
	ListAvailablePlayers(ctx context.Context, eventID uuid.UUID) ([]models.Player, error)
	ListRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error)
}

// CreatePlayerRequest contains all data needed to register a draftable player.
type CreatePlayerRequest struct {
	EventID  uuid.UUID `json:"event_id"`
	FullName string    `json:"full_name"`
	Eligible *bool     `json:"eligible,omitempty"` // nil means eligible
}

// App handles the draftable player pool.
type App struct {
	store Store
}

// NewApp creates a new player App.
func NewApp(store Store) *App {
	return &App{store: store}
}

// CreatePlayer registers a player in an event's draft pool.
func (a *App) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*models.Player, error) {
	if req.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrValidation)
	}

	eligible := true
	if req.Eligible != nil {
		eligible = *req.Eligible
	}
	p := models.Player{
		ID:       uuid.New(),
		EventID:  req.EventID,
		FullName: strings.TrimSpace(req.FullName),
		Eligible: eligible,
	}
	if err := a.store.CreatePlayer(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayer retrieves a player by ID.
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return a.store.GetPlayer(ctx, id)
}

// SetEligibility flips a player's draft eligibility. Drafted players
// cannot be made ineligible; their pick already stands.
func (a *App) SetEligibility(ctx context.Context, id uuid.UUID, eligible bool) error {
	p, err := a.store.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDrafted && !eligible {
		return ErrDrafted
	}
	return a.store.SetEligibility(ctx, id, eligible)
}

// ListAvailable returns eligible, undrafted players for an event.
func (a *App) ListAvailable(ctx context.Context, eventID uuid.UUID) ([]models.Player, error) {
	return a.store.ListAvailablePlayers(ctx, eventID)
}

// ListRoster returns the players currently owned by a team, in draft order.
func (a *App) ListRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	return a.store.ListRoster(ctx, teamID)
}
