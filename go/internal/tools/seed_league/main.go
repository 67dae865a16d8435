package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/draftnight/go/internal/dbconfig"
	"github.com/mcdev12/draftnight/go/internal/models"
)

// Seed mirrors the JSON snapshot format: one draft event with its
// teams, player pool and sibling links.
type Seed struct {
	Event struct {
		Name          string `json:"name"`
		Rounds        int    `json:"rounds"`
		PickClockSecs int    `json:"pick_clock_secs"`
	} `json:"event"`
	Teams []struct {
		Name       string `json:"name"`
		DraftOrder int    `json:"draft_order"`
	} `json:"teams"`
	Players []struct {
		FullName   string `json:"full_name"`
		Eligible   *bool  `json:"eligible,omitempty"`
		SiblingKey string `json:"sibling_key,omitempty"`
		DraftCost  int    `json:"draft_cost,omitempty"`
	} `json:"players"`
}

func main() {
	path := "go/internal/assets/league.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := run(context.Background(), pool, seed); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, pool *pgxpool.Pool, seed Seed) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	eventID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO draft_events (id, name, phase, rounds, current_pick, pick_clock_secs)
		VALUES ($1, $2, 'SETUP', $3, 1, $4)`,
		eventID, seed.Event.Name, seed.Event.Rounds, seed.Event.PickClockSecs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, t := range seed.Teams {
		_, err = tx.Exec(ctx, `
			INSERT INTO teams (id, event_id, name, draft_order)
			VALUES ($1, $2, $3, $4)`,
			uuid.New(), eventID, t.Name, t.DraftOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert team %q: %w", t.Name, err)
		}
	}

	var linked int
	for _, p := range seed.Players {
		eligible := true
		if p.Eligible != nil {
			eligible = *p.Eligible
		}
		playerID := uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO players (id, event_id, full_name, eligible)
			VALUES ($1, $2, $3, $4)`,
			playerID, eventID, p.FullName, eligible,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player %q: %w", p.FullName, err)
		}

		if p.SiblingKey == "" {
			continue
		}
		cost := p.DraftCost
		if cost < models.MinDraftCost {
			cost = models.MinDraftCost
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO sibling_links (player_id, event_id, group_key, draft_cost)
			VALUES ($1, $2, $3, $4)`,
			playerID, eventID, p.SiblingKey, cost,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sibling link for %q: %w", p.FullName, err)
		}
		linked++
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	fmt.Printf("seeded event %s: %d teams, %d players (%d sibling-linked)\n",
		eventID, len(seed.Teams), len(seed.Players), linked)
	return nil
}
