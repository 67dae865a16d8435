package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/draftnight/go/internal/draftorder"
	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/outbox"
)

// Store defines what the event app layer needs from storage.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	CreateEvent(ctx context.Context, event models.DraftEvent) error
	GetEvent(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error)
	GetEventForUpdate(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error)
	ListEvents(ctx context.Context) ([]models.DraftEvent, error)

	StartEvent(ctx context.Context, id uuid.UUID, clockEndsAt time.Time) error
	PauseEvent(ctx context.Context, id uuid.UUID, remainingSecs int) error
	ResumeEvent(ctx context.Context, id uuid.UUID, clockEndsAt time.Time) error
	CompleteEvent(ctx context.Context, id uuid.UUID) error
	ResetEventState(ctx context.Context, id uuid.UUID) error
	PurgeEventData(ctx context.Context, id uuid.UUID) error

	GetTeamsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error)
	RecentPicks(ctx context.Context, eventID uuid.UUID, limit int) ([]PickView, error)
	CountPicks(ctx context.Context, eventID uuid.UUID) (int, error)

	InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error
}

// App handles draft event lifecycle and the read-state projection.
// Exactly one event is authoritative for an operation because every
// operation names its event explicitly; there is no implicit
// "most recently touched" lookup.
type App struct {
	store Store
	clock clockwork.Clock
}

// NewApp creates a new event App.
func NewApp(store Store, clock clockwork.Clock) *App {
	return &App{
		store: store,
		clock: clock,
	}
}

// CreateEvent creates a draft event in SETUP.
func (a *App) CreateEvent(ctx context.Context, req CreateEventRequest) (*models.DraftEvent, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Rounds <= 0 {
		return nil, fmt.Errorf("%w: rounds must be greater than 0", ErrValidation)
	}
	if req.PickClockSecs <= 0 {
		return nil, fmt.Errorf("%w: pick_clock_secs must be greater than 0", ErrValidation)
	}

	now := a.clock.Now()
	event := models.DraftEvent{
		ID:            uuid.New(),
		Name:          req.Name,
		Phase:         models.EventPhaseSetup,
		Rounds:        req.Rounds,
		CurrentPick:   1,
		PickClockSecs: req.PickClockSecs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEvent retrieves a draft event by ID.
func (a *App) GetEvent(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error) {
	return a.store.GetEvent(ctx, id)
}

// ListEvents lists all draft events, most recent first.
func (a *App) ListEvents(ctx context.Context) ([]models.DraftEvent, error) {
	return a.store.ListEvents(ctx)
}

// StartDraft transitions SETUP → LIVE and arms the pick clock.
func (a *App) StartDraft(ctx context.Context, id uuid.UUID) error {
	return a.store.WithTx(ctx, func(s Store) error {
		event, err := s.GetEventForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := validatePhaseTransition(event.Phase, models.EventPhaseLive); err != nil {
			return err
		}

		teams, err := s.GetTeamsByEvent(ctx, id)
		if err != nil {
			return err
		}
		if len(teams) == 0 {
			return fmt.Errorf("%w: cannot start a draft with no teams", ErrValidation)
		}

		startedAt := a.clock.Now()
		deadline := startedAt.Add(time.Duration(event.PickClockSecs) * time.Second)
		if err := s.StartEvent(ctx, id, deadline); err != nil {
			return err
		}

		payload, err := json.Marshal(outbox.DraftStartedPayload{
			EventID:     id.String(),
			StartedAt:   startedAt,
			TotalRounds: event.Rounds,
			TotalPicks:  event.TotalSlots(len(teams)),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal DraftStarted payload: %w", err)
		}
		return s.InsertOutboxEvent(ctx, id, outbox.EventTypeDraftStarted, payload)
	})
}

// PauseDraft banks the clock remainder and stops the deadline. The
// current-pick pointer is untouched; admins may still commit picks while
// paused.
func (a *App) PauseDraft(ctx context.Context, id uuid.UUID) error {
	return a.store.WithTx(ctx, func(s Store) error {
		event, err := s.GetEventForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if event.Phase != models.EventPhaseLive {
			return ErrNotLive
		}
		if event.IsPaused {
			return ErrAlreadyPaused
		}

		pausedAt := a.clock.Now()
		remaining := event.PickClockSecs
		if event.ClockEndsAt != nil {
			remaining = int(event.ClockEndsAt.Sub(pausedAt).Seconds())
			if remaining < 0 {
				remaining = 0
			}
		}
		if err := s.PauseEvent(ctx, id, remaining); err != nil {
			return err
		}

		payload, err := json.Marshal(outbox.DraftPausedPayload{
			EventID:       id.String(),
			PausedAt:      pausedAt,
			RemainingSecs: remaining,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal DraftPaused payload: %w", err)
		}
		return s.InsertOutboxEvent(ctx, id, outbox.EventTypeDraftPaused, payload)
	})
}

// ResumeDraft restores the banked remainder as a fresh wall-clock
// deadline. A zero bank means the clock had already run out before the
// pause, so the restored deadline is the resume instant itself; resume
// never grants fresh time.
func (a *App) ResumeDraft(ctx context.Context, id uuid.UUID) error {
	return a.store.WithTx(ctx, func(s Store) error {
		event, err := s.GetEventForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if event.Phase != models.EventPhaseLive || !event.IsPaused {
			return ErrNotPaused
		}

		resumedAt := a.clock.Now()
		remaining := event.PauseRemainingSecs
		if remaining < 0 {
			remaining = 0
		}
		deadline := resumedAt.Add(time.Duration(remaining) * time.Second)
		if err := s.ResumeEvent(ctx, id, deadline); err != nil {
			return err
		}

		payload, err := json.Marshal(outbox.DraftResumedPayload{
			EventID:     id.String(),
			ResumedAt:   resumedAt,
			ClockEndsAt: deadline,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal DraftResumed payload: %w", err)
		}
		return s.InsertOutboxEvent(ctx, id, outbox.EventTypeDraftResumed, payload)
	})
}

// StopDraft transitions LIVE → COMPLETE. Committed picks and drafted
// flags are left exactly as they are; only phase, pause and clock fields
// change.
func (a *App) StopDraft(ctx context.Context, id uuid.UUID) error {
	return a.store.WithTx(ctx, func(s Store) error {
		event, err := s.GetEventForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := validatePhaseTransition(event.Phase, models.EventPhaseComplete); err != nil {
			return err
		}
		if err := s.CompleteEvent(ctx, id); err != nil {
			return err
		}

		count, err := s.CountPicks(ctx, id)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(outbox.DraftCompletedPayload{
			EventID:     id.String(),
			CompletedAt: a.clock.Now(),
			TotalPicks:  count,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal DraftCompleted payload: %w", err)
		}
		return s.InsertOutboxEvent(ctx, id, outbox.EventTypeDraftCompleted, payload)
	})
}

// ResetEvent deletes all picks, trades, players and teams for the event
// and returns it to SETUP. Re-ingestion happens upstream.
func (a *App) ResetEvent(ctx context.Context, id uuid.UUID) error {
	return a.store.WithTx(ctx, func(s Store) error {
		if _, err := s.GetEventForUpdate(ctx, id); err != nil {
			return err
		}
		if err := s.PurgeEventData(ctx, id); err != nil {
			return err
		}
		return s.ResetEventState(ctx, id)
	})
}

// ReadState assembles the read model: phase, pointer and clock fields,
// the team list, and a bounded window of recent picks.
func (a *App) ReadState(ctx context.Context, id uuid.UUID, window int) (*State, error) {
	if window <= 0 || window > 100 {
		window = 10
	}

	event, err := a.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	teams, err := a.store.GetTeamsByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	recent, err := a.store.RecentPicks(ctx, id, window)
	if err != nil {
		return nil, err
	}
	completed, err := a.store.CountPicks(ctx, id)
	if err != nil {
		return nil, err
	}

	state := &State{
		Event:          *event,
		Teams:          teams,
		TotalPicks:     event.TotalSlots(len(teams)),
		CompletedPicks: completed,
		RecentPicks:    recent,
	}

	if len(teams) > 0 && event.Phase == models.EventPhaseLive {
		round, index, _ := draftorder.SlotOf(event.CurrentPick, len(teams))
		state.CurrentRound = round
		onClock := teams[index].ID
		state.OnClockTeamID = &onClock
	}

	// Readers compute time remaining; nothing advances it server-side.
	switch {
	case event.IsPaused:
		remaining := event.PauseRemainingSecs
		state.TimeRemainingSecs = &remaining
	case event.ClockEndsAt != nil:
		remaining := int(event.ClockEndsAt.Sub(a.clock.Now()).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		state.TimeRemainingSecs = &remaining
	}

	return state, nil
}

// validatePhaseTransition enforces SETUP → LIVE → COMPLETE.
func validatePhaseTransition(current, next models.EventPhase) error {
	allowed := map[models.EventPhase][]models.EventPhase{
		models.EventPhaseSetup:    {models.EventPhaseLive},
		models.EventPhaseLive:     {models.EventPhaseComplete},
		models.EventPhaseComplete: {},
	}
	for _, p := range allowed[current] {
		if p == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
}
