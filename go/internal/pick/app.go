package pick

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

// Store defines what the pick app layer needs from storage. WithTx runs
// fn against a store bound to one transaction; every write the committer
// makes happens inside that scope, so the trigger pick, the drafted flag,
// the pointer advance, any sibling pick and the outbox rows land together
// or not at all.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	GetEventForUpdate(ctx context.Context, eventID uuid.UUID) (*models.DraftEvent, error)
	GetTeamsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error)
	GetPlayer(ctx context.Context, playerID uuid.UUID) (*models.Player, error)
	CommittedOveralls(ctx context.Context, eventID uuid.UUID) (map[int]bool, error)
	InsertPick(ctx context.Context, pick models.Pick) error
	MarkPlayerDrafted(ctx context.Context, playerID, teamID uuid.UUID, at time.Time) error
	UpdateCurrentPick(ctx context.Context, eventID uuid.UUID, currentPick int) error
	UpdateClockDeadline(ctx context.Context, eventID uuid.UUID, endsAt time.Time) error
	CompleteEvent(ctx context.Context, eventID uuid.UUID) error

	GetSiblingLink(ctx context.Context, playerID uuid.UUID) (*models.SiblingLink, error)
	NextUndraftedInGroup(ctx context.Context, eventID uuid.UUID, groupKey string, excludePlayerID uuid.UUID) (*models.Player, error)

	InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error
}

// App commits picks. It owns the slot state machine (Open → Committed,
// never back) and the event's current-pick pointer.
type App struct {
	store Store
	clock clockwork.Clock
}

// NewApp creates a new pick App.
func NewApp(store Store, clock clockwork.Clock) *App {
	return &App{
		store: store,
		clock: clock,
	}
}

// CommitPick validates and commits one player→slot assignment as a single
// atomic unit, resolves any sibling auto-pick, and advances the event's
// current-pick pointer when the committed slot was the one on the clock.
func (a *App) CommitPick(ctx context.Context, req CommitPickRequest) (*CommitPickResponse, error) {
	if req.EventID == uuid.Nil {
		return nil, fmt.Errorf("%w: event_id is required", ErrInvalidSelector)
	}
	if req.PlayerID == uuid.Nil {
		return nil, fmt.Errorf("%w: player_id is required", ErrInvalidSelector)
	}
	if !req.Actor.Role.Valid() {
		return nil, ErrInvalidRole
	}

	var resp *CommitPickResponse
	err := a.store.WithTx(ctx, func(s Store) error {
		var err error
		resp, err = a.commit(ctx, s, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *App) commit(ctx context.Context, s Store, req CommitPickRequest) (*CommitPickResponse, error) {
	// The event row is locked for the duration of the transaction, which
	// serializes pointer updates per event.
	event, err := s.GetEventForUpdate(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	teams, err := s.GetTeamsByEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}

	ref, err := resolveSelector(event, teams, req.Selector)
	if err != nil {
		return nil, err
	}

	if err := a.authorize(event, ref, req.Actor); err != nil {
		return nil, err
	}

	player, err := s.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.EventID != req.EventID {
		return nil, ErrPlayerNotFound
	}
	if !player.Eligible {
		return nil, ErrPlayerIneligible
	}
	if player.IsDrafted {
		return nil, ErrPlayerDrafted
	}

	committed, err := s.CommittedOveralls(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if committed[ref.Overall] {
		return nil, ErrSlotTaken
	}

	now := a.clock.Now()
	trigger := models.Pick{
		ID:          uuid.New(),
		EventID:     req.EventID,
		TeamID:      ref.TeamID,
		PlayerID:    req.PlayerID,
		Round:       ref.Round,
		PickInRound: ref.PickInRound,
		OverallPick: ref.Overall,
		MadeAt:      now,
	}
	if err := s.InsertPick(ctx, trigger); err != nil {
		return nil, err
	}
	if err := s.MarkPlayerDrafted(ctx, req.PlayerID, ref.TeamID, now); err != nil {
		return nil, err
	}
	committed[ref.Overall] = true

	if err := a.emitPickMade(ctx, s, trigger); err != nil {
		return nil, err
	}

	// Resolve the sibling before moving the pointer so the pointer can
	// never land on the slot the sibling just filled.
	sibling, err := a.resolveSibling(ctx, s, event, trigger, ref, len(teams), committed)
	if err != nil {
		return nil, err
	}

	// The current slot may have been filled by the trigger itself or by
	// a sibling landing on it; either way the pointer must move on.
	if committed[event.CurrentPick] {
		if err := a.advance(ctx, s, event, len(teams), committed); err != nil {
			return nil, err
		}
	}

	return &CommitPickResponse{
		PickID:      trigger.ID,
		OverallPick: ref.Overall,
		Sibling:     sibling,
	}, nil
}

// resolveSelector turns a Selector into the canonical
// (team, round, pickInRound, overall) slot.
func resolveSelector(event *models.DraftEvent, teams []models.Team, sel Selector) (slotRef, error) {
	numTeams := len(teams)
	totalSlots := event.TotalSlots(numTeams)

	switch {
	case sel.byOverall() && sel.byTeamRound():
		return slotRef{}, fmt.Errorf("%w: both forms supplied", ErrInvalidSelector)

	case sel.byOverall():
		if sel.Overall > totalSlots {
			return slotRef{}, fmt.Errorf("%w: overall %d exceeds %d slots", ErrInvalidSelector, sel.Overall, totalSlots)
		}
		round, index, pickInRound := draftorder.SlotOf(sel.Overall, numTeams)
		return slotRef{
			TeamID:      teams[index].ID,
			TeamIndex:   index,
			Round:       round,
			PickInRound: pickInRound,
			Overall:     sel.Overall,
		}, nil

	case sel.byTeamRound():
		if sel.Round > event.Rounds {
			return slotRef{}, fmt.Errorf("%w: round %d exceeds %d rounds", ErrInvalidSelector, sel.Round, event.Rounds)
		}
		index := -1
		for i, t := range teams {
			if t.ID == sel.TeamID {
				index = i
				break
			}
		}
		if index < 0 {
			return slotRef{}, ErrTeamNotFound
		}
		overall := draftorder.OverallOf(sel.Round, index, numTeams)
		return slotRef{
			TeamID:      sel.TeamID,
			TeamIndex:   index,
			Round:       sel.Round,
			PickInRound: draftorder.PickInRoundOf(overall, numTeams),
			Overall:     overall,
		}, nil

	default:
		return slotRef{}, ErrInvalidSelector
	}
}

func (a *App) authorize(event *models.DraftEvent, ref slotRef, actor Actor) error {
	if event.Phase != models.EventPhaseLive {
		return ErrEventNotLive
	}

	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleCoach:
		// Coach self-service: only the on-the-clock slot, never while paused.
		if event.IsPaused {
			return ErrDraftPaused
		}
		if actor.TeamID != ref.TeamID || ref.Overall != event.CurrentPick {
			return ErrNotOnClock
		}
		return nil
	default:
		return ErrInvalidRole
	}
}

// advance moves the current-pick pointer to the next open slot and, if
// the draft is not paused, pushes the clock deadline forward. With no
// open slot left the draft is complete.
func (a *App) advance(ctx context.Context, s Store, event *models.DraftEvent, numTeams int, committed map[int]bool) error {
	totalSlots := event.TotalSlots(numTeams)

	next := 0
	for ov := event.CurrentPick + 1; ov <= totalSlots; ov++ {
		if !committed[ov] {
			next = ov
			break
		}
	}

	if next == 0 {
		if err := s.CompleteEvent(ctx, event.ID); err != nil {
			return err
		}
		return a.emitDraftCompleted(ctx, s, event, totalSlots)
	}

	if err := s.UpdateCurrentPick(ctx, event.ID, next); err != nil {
		return err
	}
	if !event.IsPaused {
		deadline := a.clock.Now().Add(time.Duration(event.PickClockSecs) * time.Second)
		if err := s.UpdateClockDeadline(ctx, event.ID, deadline); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) emitPickMade(ctx context.Context, s Store, p models.Pick) error {
	payload, err := json.Marshal(outbox.PickMadePayload{
		PickID:      p.ID.String(),
		TeamID:      p.TeamID.String(),
		PlayerID:    p.PlayerID.String(),
		Round:       p.Round,
		PickInRound: p.PickInRound,
		OverallPick: p.OverallPick,
		MadeAt:      p.MadeAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal PickMade payload: %w", err)
	}
	return s.InsertOutboxEvent(ctx, p.EventID, outbox.EventTypePickMade, payload)
}

func (a *App) emitDraftCompleted(ctx context.Context, s Store, event *models.DraftEvent, totalPicks int) error {
	payload, err := json.Marshal(outbox.DraftCompletedPayload{
		EventID:     event.ID.String(),
		CompletedAt: a.clock.Now(),
		TotalPicks:  totalPicks,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal DraftCompleted payload: %w", err)
	}
	return s.InsertOutboxEvent(ctx, event.ID, outbox.EventTypeDraftCompleted, payload)
}
