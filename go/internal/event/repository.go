package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/outbox"
	"github.com/mcdev12/draftnight/go/internal/sqlutil"
)

const eventColumns = `id, name, phase, rounds, current_pick, pick_clock_secs,
	is_paused, clock_ends_at, pause_remaining_secs, created_at, updated_at`

type Repository struct {
	db     sqlutil.DBTX
	sqlDB  *sql.DB
	outbox *outbox.Repository
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:     db,
		sqlDB:  db,
		outbox: outbox.NewRepository(db),
	}
}

// WithTx runs fn against a repository bound to a single transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(Store) error) error {
	return sqlutil.Run(ctx, r.sqlDB, func(tx *sql.Tx) error {
		return fn(&Repository{
			db:     tx,
			sqlDB:  r.sqlDB,
			outbox: outbox.NewRepository(tx),
		})
	})
}

func (r *Repository) CreateEvent(ctx context.Context, e models.DraftEvent) error {
	const q = `
		INSERT INTO draft_events
			(id, name, phase, rounds, current_pick, pick_clock_secs,
			 is_paused, clock_ends_at, pause_remaining_secs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.Name, e.Phase, e.Rounds, e.CurrentPick, e.PickClockSecs,
		e.IsPaused, sqlutil.ToSqlTime(e.ClockEndsAt), e.PauseRemainingSecs, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draft event: %w", err)
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error) {
	q := fmt.Sprintf(`SELECT %s FROM draft_events WHERE id = $1`, eventColumns)
	return r.scanEvent(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repository) GetEventForUpdate(ctx context.Context, id uuid.UUID) (*models.DraftEvent, error) {
	q := fmt.Sprintf(`SELECT %s FROM draft_events WHERE id = $1 FOR UPDATE`, eventColumns)
	return r.scanEvent(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repository) ListEvents(ctx context.Context) ([]models.DraftEvent, error) {
	q := fmt.Sprintf(`SELECT %s FROM draft_events ORDER BY created_at DESC`, eventColumns)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft events: %w", err)
	}
	defer rows.Close()

	var events []models.DraftEvent
	for rows.Next() {
		var e models.DraftEvent
		var clockEndsAt sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Phase, &e.Rounds, &e.CurrentPick, &e.PickClockSecs,
			&e.IsPaused, &clockEndsAt, &e.PauseRemainingSecs, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft event: %w", err)
		}
		e.ClockEndsAt = sqlutil.FromSqlTime(clockEndsAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *Repository) StartEvent(ctx context.Context, id uuid.UUID, clockEndsAt time.Time) error {
	const q = `
		UPDATE draft_events
		SET phase = 'LIVE', current_pick = 1, is_paused = FALSE,
		    clock_ends_at = $2, pause_remaining_secs = 0, updated_at = NOW()
		WHERE id = $1`
	return r.exec(ctx, q, "start event", id, clockEndsAt)
}

func (r *Repository) PauseEvent(ctx context.Context, id uuid.UUID, remainingSecs int) error {
	const q = `
		UPDATE draft_events
		SET is_paused = TRUE, clock_ends_at = NULL, pause_remaining_secs = $2, updated_at = NOW()
		WHERE id = $1`
	return r.exec(ctx, q, "pause event", id, remainingSecs)
}

func (r *Repository) ResumeEvent(ctx context.Context, id uuid.UUID, clockEndsAt time.Time) error {
	const q = `
		UPDATE draft_events
		SET is_paused = FALSE, clock_ends_at = $2, pause_remaining_secs = 0, updated_at = NOW()
		WHERE id = $1`
	return r.exec(ctx, q, "resume event", id, clockEndsAt)
}

func (r *Repository) CompleteEvent(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE draft_events
		SET phase = 'COMPLETE', is_paused = FALSE, clock_ends_at = NULL,
		    pause_remaining_secs = 0, updated_at = NOW()
		WHERE id = $1`
	return r.exec(ctx, q, "complete event", id)
}

func (r *Repository) ResetEventState(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE draft_events
		SET phase = 'SETUP', current_pick = 1, is_paused = FALSE,
		    clock_ends_at = NULL, pause_remaining_secs = 0, updated_at = NOW()
		WHERE id = $1`
	return r.exec(ctx, q, "reset event", id)
}

// PurgeEventData deletes every pick, trade, player and team belonging to
// the event. Order matters for the foreign keys.
func (r *Repository) PurgeEventData(ctx context.Context, id uuid.UUID) error {
	statements := []string{
		`DELETE FROM trade_items WHERE trade_id IN (SELECT id FROM trades WHERE event_id = $1)`,
		`DELETE FROM trades WHERE event_id = $1`,
		`DELETE FROM picks WHERE event_id = $1`,
		`DELETE FROM sibling_links WHERE event_id = $1`,
		`DELETE FROM players WHERE event_id = $1`,
		`DELETE FROM teams WHERE event_id = $1`,
	}
	for _, q := range statements {
		if _, err := r.db.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("failed to purge event data: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetTeamsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	const q = `
		SELECT id, event_id, name, draft_order, owner_user_id, created_at
		FROM teams
		WHERE event_id = $1
		ORDER BY draft_order`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams by event: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		var owner uuid.NullUUID
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.DraftOrder, &owner, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		t.OwnerUserID = sqlutil.FromSqlUUID(owner)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *Repository) RecentPicks(ctx context.Context, eventID uuid.UUID, limit int) ([]PickView, error) {
	const q = `
		SELECT pk.id, pk.team_id, t.name, pk.player_id, pl.full_name,
		       pk.round, pk.pick_in_round, pk.overall_pick, pk.made_at
		FROM picks pk
		JOIN teams t ON t.id = pk.team_id
		JOIN players pl ON pl.id = pk.player_id
		WHERE pk.event_id = $1
		ORDER BY pk.overall_pick DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent picks: %w", err)
	}
	defer rows.Close()

	var picks []PickView
	for rows.Next() {
		var v PickView
		if err := rows.Scan(
			&v.PickID, &v.TeamID, &v.TeamName, &v.PlayerID, &v.PlayerName,
			&v.Round, &v.PickInRound, &v.OverallPick, &v.MadeAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pick view: %w", err)
		}
		picks = append(picks, v)
	}
	return picks, rows.Err()
}

func (r *Repository) CountPicks(ctx context.Context, eventID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM picks WHERE event_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, q, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count picks: %w", err)
	}
	return count, nil
}

func (r *Repository) InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	return r.outbox.Insert(ctx, eventID, eventType, payload)
}

func (r *Repository) exec(ctx context.Context, q, action string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) scanEvent(row *sql.Row) (*models.DraftEvent, error) {
	var e models.DraftEvent
	var clockEndsAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.Name, &e.Phase, &e.Rounds, &e.CurrentPick, &e.PickClockSecs,
		&e.IsPaused, &clockEndsAt, &e.PauseRemainingSecs, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft event: %w", err)
	}
	e.ClockEndsAt = sqlutil.FromSqlTime(clockEndsAt)
	return &e, nil
}
