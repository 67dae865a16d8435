package trade

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/outbox"
)

// Store defines what the trade app layer needs from storage.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Player, error)
	PickRoundsByPlayer(ctx context.Context, eventID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]int, error)

	InsertTrade(ctx context.Context, t models.Trade) error
	InsertTradeItems(ctx context.Context, items []models.TradeItem) error
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetTradeForUpdate(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetTradeItems(ctx context.Context, tradeID uuid.UUID) ([]models.TradeItem, error)
	UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus, respondedAt time.Time) error

	// ReassignPlayer moves ownership only if the player still belongs to
	// fromTeam; otherwise it returns ErrRosterChanged.
	ReassignPlayer(ctx context.Context, playerID, fromTeamID, toTeamID uuid.UUID) error

	InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error
}

// App handles trade proposal, fairness evaluation and settlement.
type App struct {
	store Store
	clock clockwork.Clock
}

// NewApp creates a new trade App.
func NewApp(store Store, clock clockwork.Clock) *App {
	return &App{
		store: store,
		clock: clock,
	}
}

// Propose validates rosters, evaluates fairness and creates a PENDING
// trade with its items.
func (a *App) Propose(ctx context.Context, req ProposeTradeRequest) (*models.Trade, error) {
	var created *models.Trade
	err := a.store.WithTx(ctx, func(s Store) error {
		var err error
		created, err = a.propose(ctx, s, req, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (a *App) propose(ctx context.Context, s Store, req ProposeTradeRequest, parentID *uuid.UUID) (*models.Trade, error) {
	if req.FromTeamID == uuid.Nil || req.ToTeamID == uuid.Nil {
		return nil, fmt.Errorf("%w: both teams are required", ErrValidation)
	}
	if req.FromTeamID == req.ToTeamID {
		return nil, fmt.Errorf("%w: cannot trade with yourself", ErrValidation)
	}
	if len(req.GiveIDs) == 0 && len(req.ReceiveIDs) == 0 {
		return nil, fmt.Errorf("%w: trade names no players", ErrValidation)
	}
	if hasDuplicates(append(append([]uuid.UUID{}, req.GiveIDs...), req.ReceiveIDs...)) {
		return nil, fmt.Errorf("%w: duplicate player in trade", ErrValidation)
	}

	from, err := s.GetTeam(ctx, req.FromTeamID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetTeam(ctx, req.ToTeamID)
	if err != nil {
		return nil, err
	}
	if from.EventID != req.EventID || to.EventID != req.EventID {
		return nil, fmt.Errorf("%w: teams belong to different events", ErrValidation)
	}

	if err := a.validateRosters(ctx, s, req); err != nil {
		return nil, err
	}

	fairness, err := a.evaluateFairness(ctx, s, req)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	t := models.Trade{
		ID:            uuid.New(),
		EventID:       req.EventID,
		FromTeamID:    req.FromTeamID,
		ToTeamID:      req.ToTeamID,
		Status:        models.TradeStatusPending,
		ParentTradeID: parentID,
		FromAvgRound:  fairness.FromAvgRound,
		ToAvgRound:    fairness.ToAvgRound,
		RoundDelta:    fairness.Delta,
		Message:       req.Message,
		CreatedAt:     now,
	}
	if err := s.InsertTrade(ctx, t); err != nil {
		return nil, err
	}

	items := make([]models.TradeItem, 0, len(req.GiveIDs)+len(req.ReceiveIDs))
	for _, id := range req.GiveIDs {
		items = append(items, models.TradeItem{
			ID: uuid.New(), TradeID: t.ID, PlayerID: id, Side: models.TradeSideFromGives,
		})
	}
	for _, id := range req.ReceiveIDs {
		items = append(items, models.TradeItem{
			ID: uuid.New(), TradeID: t.ID, PlayerID: id, Side: models.TradeSideToGives,
		})
	}
	if err := s.InsertTradeItems(ctx, items); err != nil {
		return nil, err
	}
	return &t, nil
}

// validateRosters checks every named player is drafted and currently
// owned by the side giving them up.
func (a *App) validateRosters(ctx context.Context, s Store, req ProposeTradeRequest) error {
	all := append(append([]uuid.UUID{}, req.GiveIDs...), req.ReceiveIDs...)
	players, err := s.GetPlayersByIDs(ctx, all)
	if err != nil {
		return err
	}

	check := func(ids []uuid.UUID, teamID uuid.UUID) error {
		for _, id := range ids {
			p, ok := players[id]
			if !ok {
				return fmt.Errorf("player %s: %w", id, ErrNotOnRoster)
			}
			if !p.IsDrafted || p.DraftedTeamID == nil || *p.DraftedTeamID != teamID {
				return fmt.Errorf("player %s: %w", id, ErrNotOnRoster)
			}
		}
		return nil
	}
	if err := check(req.GiveIDs, req.FromTeamID); err != nil {
		return err
	}
	return check(req.ReceiveIDs, req.ToTeamID)
}

// evaluateFairness computes the unweighted average draft round per side
// and rejects the trade when the delta exceeds MaxRoundDelta, or when a
// side has no resolvable rounds at all.
func (a *App) evaluateFairness(ctx context.Context, s Store, req ProposeTradeRequest) (Fairness, error) {
	all := append(append([]uuid.UUID{}, req.GiveIDs...), req.ReceiveIDs...)
	rounds, err := s.PickRoundsByPlayer(ctx, req.EventID, all)
	if err != nil {
		return Fairness{}, err
	}

	giveAvg, giveOK := averageRound(req.GiveIDs, rounds)
	receiveAvg, receiveOK := averageRound(req.ReceiveIDs, rounds)
	if !giveOK || !receiveOK {
		return Fairness{}, &FairnessError{Reason: "a side has no drafted players to compare"}
	}

	f := Fairness{
		FromAvgRound: giveAvg,
		ToAvgRound:   receiveAvg,
		Delta:        math.Abs(giveAvg - receiveAvg),
	}
	if f.Delta > MaxRoundDelta {
		return Fairness{}, &FairnessError{Fairness: f}
	}
	return f, nil
}

// averageRound averages the draft rounds of ids, skipping players with
// no resolvable round. ok is false when nothing was averageable.
func averageRound(ids []uuid.UUID, rounds map[uuid.UUID]int) (float64, bool) {
	sum, n := 0, 0
	for _, id := range ids {
		if round, ok := rounds[id]; ok {
			sum += round
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// Accept re-validates ownership of every item and atomically reassigns
// both rosters. Any mismatch aborts the whole acceptance.
func (a *App) Accept(ctx context.Context, tradeID uuid.UUID, actor Actor) error {
	return a.store.WithTx(ctx, func(s Store) error {
		t, err := s.GetTradeForUpdate(ctx, tradeID)
		if err != nil {
			return err
		}
		if t.Status != models.TradeStatusPending {
			return ErrNotPending
		}
		if err := authorizeResponder(t, actor); err != nil {
			return err
		}

		items, err := s.GetTradeItems(ctx, tradeID)
		if err != nil {
			return err
		}

		playerIDs := make([]string, 0, len(items))
		for _, item := range items {
			var fromTeam, toTeam uuid.UUID
			switch item.Side {
			case models.TradeSideFromGives:
				fromTeam, toTeam = t.FromTeamID, t.ToTeamID
			case models.TradeSideToGives:
				fromTeam, toTeam = t.ToTeamID, t.FromTeamID
			default:
				return fmt.Errorf("%w: unknown trade item side %q", ErrValidation, item.Side)
			}
			if err := s.ReassignPlayer(ctx, item.PlayerID, fromTeam, toTeam); err != nil {
				return err
			}
			playerIDs = append(playerIDs, item.PlayerID.String())
		}

		acceptedAt := a.clock.Now()
		if err := s.UpdateTradeStatus(ctx, tradeID, models.TradeStatusAccepted, acceptedAt); err != nil {
			return err
		}

		payload, err := json.Marshal(outbox.TradeAcceptedPayload{
			TradeID:    tradeID.String(),
			FromTeamID: t.FromTeamID.String(),
			ToTeamID:   t.ToTeamID.String(),
			PlayerIDs:  playerIDs,
			AcceptedAt: acceptedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal TradeAccepted payload: %w", err)
		}
		return s.InsertOutboxEvent(ctx, t.EventID, outbox.EventTypeTradeAccepted, payload)
	})
}

// Reject marks a PENDING trade REJECTED with no roster side effects.
func (a *App) Reject(ctx context.Context, tradeID uuid.UUID, actor Actor) error {
	return a.store.WithTx(ctx, func(s Store) error {
		t, err := s.GetTradeForUpdate(ctx, tradeID)
		if err != nil {
			return err
		}
		if t.Status != models.TradeStatusPending {
			return ErrNotPending
		}
		if err := authorizeResponder(t, actor); err != nil {
			return err
		}
		return s.UpdateTradeStatus(ctx, tradeID, models.TradeStatusRejected, a.clock.Now())
	})
}

// Cancel withdraws a PENDING trade before any response.
func (a *App) Cancel(ctx context.Context, tradeID uuid.UUID, actor Actor) error {
	return a.store.WithTx(ctx, func(s Store) error {
		t, err := s.GetTradeForUpdate(ctx, tradeID)
		if err != nil {
			return err
		}
		if t.Status != models.TradeStatusPending {
			return ErrNotPending
		}
		if actor.Role != models.RoleAdmin && actor.TeamID != t.FromTeamID {
			return ErrNotProposer
		}
		return s.UpdateTradeStatus(ctx, tradeID, models.TradeStatusCancelled, a.clock.Now())
	})
}

// Counter marks the original trade COUNTERED and creates a new PENDING
// trade with swapped sides, chained through ParentTradeID, subject to the
// same roster and fairness checks as a fresh proposal.
func (a *App) Counter(ctx context.Context, req CounterTradeRequest) (*models.Trade, error) {
	var counter *models.Trade
	err := a.store.WithTx(ctx, func(s Store) error {
		original, err := s.GetTradeForUpdate(ctx, req.TradeID)
		if err != nil {
			return err
		}
		if original.Status != models.TradeStatusPending {
			return ErrNotPending
		}
		if err := authorizeResponder(original, req.Actor); err != nil {
			return err
		}

		if err := s.UpdateTradeStatus(ctx, req.TradeID, models.TradeStatusCountered, a.clock.Now()); err != nil {
			return err
		}

		parentID := original.ID
		counter, err = a.propose(ctx, s, ProposeTradeRequest{
			EventID:    original.EventID,
			FromTeamID: original.ToTeamID,
			ToTeamID:   original.FromTeamID,
			GiveIDs:    req.GiveIDs,
			ReceiveIDs: req.ReceiveIDs,
			Message:    req.Message,
		}, &parentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return counter, nil
}

// GetTrade returns a trade with its items.
func (a *App) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, []models.TradeItem, error) {
	t, err := a.store.GetTrade(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := a.store.GetTradeItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return t, items, nil
}

func authorizeResponder(t *models.Trade, actor Actor) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role == models.RoleCoach && actor.TeamID == t.ToTeamID {
		return nil
	}
	return ErrNotRecipient
}

func hasDuplicates(ids []uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
