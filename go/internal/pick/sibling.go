package pick

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/draftorder"
	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/outbox"
)

// resolveSibling runs after a successful trigger commit, inside the same
// transaction. If the committed player is cost-linked and a linked player
// is still eligible and undrafted, that player is auto-committed into the
// N-th future open slot of the same team, where N is the link's draft
// cost. Any failure here aborts the whole commit.
func (a *App) resolveSibling(
	ctx context.Context,
	s Store,
	event *models.DraftEvent,
	trigger models.Pick,
	ref slotRef,
	numTeams int,
	committed map[int]bool,
) (*SiblingPick, error) {
	link, err := s.GetSiblingLink(ctx, trigger.PlayerID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}

	// Tie-break when several linked players remain: oldest created_at,
	// then lowest id. One deterministic rule, applied in the store query.
	sibling, err := s.NextUndraftedInGroup(ctx, event.ID, link.GroupKey, trigger.PlayerID)
	if err != nil {
		return nil, err
	}
	if sibling == nil {
		return nil, nil
	}

	target, ok := nthOpenTeamSlot(committed, ref.Overall, ref.TeamIndex, link.DraftCost, numTeams, event.TotalSlots(numTeams))
	if !ok {
		return nil, fmt.Errorf("placing sibling %s (cost %d) from overall %d: %w",
			sibling.ID, link.DraftCost, ref.Overall, ErrNoOpenSlot)
	}

	round, _, pickInRound := draftorder.SlotOf(target, numTeams)
	sibPick := models.Pick{
		ID:          uuid.New(),
		EventID:     event.ID,
		TeamID:      ref.TeamID,
		PlayerID:    sibling.ID,
		Round:       round,
		PickInRound: pickInRound,
		OverallPick: target,
		MadeAt:      trigger.MadeAt,
	}
	if err := s.InsertPick(ctx, sibPick); err != nil {
		return nil, err
	}
	if err := s.MarkPlayerDrafted(ctx, sibling.ID, ref.TeamID, trigger.MadeAt); err != nil {
		return nil, err
	}
	committed[target] = true

	payload, err := json.Marshal(outbox.SiblingPickMadePayload{
		PickID:        sibPick.ID.String(),
		TeamID:        sibPick.TeamID.String(),
		PlayerID:      sibPick.PlayerID.String(),
		TriggerPickID: trigger.ID.String(),
		GroupKey:      link.GroupKey,
		DraftCost:     link.DraftCost,
		OverallPick:   target,
		MadeAt:        sibPick.MadeAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SiblingPickMade payload: %w", err)
	}
	if err := s.InsertOutboxEvent(ctx, event.ID, outbox.EventTypeSiblingPickMade, payload); err != nil {
		return nil, err
	}

	return &SiblingPick{
		PickID:      sibPick.ID,
		PlayerID:    sibPick.PlayerID,
		OverallPick: target,
	}, nil
}

// nthOpenTeamSlot scans forward from fromOverall+1 for slots that belong
// to teamIndex in snake order, skips committed ones, and returns the
// cost-th open slot found. Intervening slots filled by other teams do not
// count, so the target is "N future openings for this team", not simply
// fromOverall+cost. The scan is bounded by the draft's total slot count.
func nthOpenTeamSlot(committed map[int]bool, fromOverall, teamIndex, cost, numTeams, totalSlots int) (int, bool) {
	found := 0
	for ov := fromOverall + 1; ov <= totalSlots; ov++ {
		_, index, _ := draftorder.SlotOf(ov, numTeams)
		if index != teamIndex {
			continue
		}
		if committed[ov] {
			continue
		}
		found++
		if found == cost {
			return ov, true
		}
	}
	return 0, false
}
