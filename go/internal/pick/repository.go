package pick

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/outbox"
	"github.com/mcdev12/draftnight/go/internal/sqlutil"
)

// Constraint names from migrations/0001_init.up.sql. The committer maps
// violations of these onto the conflict sentinels.
const (
	constraintEventOverall = "picks_event_overall_key"
	constraintEventPlayer  = "picks_event_player_key"
)

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

func (r *Repository) GetEventForUpdate(ctx context.Context, eventID uuid.UUID) (*models.DraftEvent, error) {
	const q = `
		SELECT id, name, phase, rounds, current_pick, pick_clock_secs,
		       is_paused, clock_ends_at, pause_remaining_secs, created_at, updated_at
		FROM draft_events
		WHERE id = $1
		FOR UPDATE`
	return scanEvent(r.db.QueryRowContext(ctx, q, eventID))
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

func (r *Repository) GetPlayer(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	const q = `
		SELECT id, event_id, full_name, eligible, is_drafted, drafted_team_id, drafted_at, created_at
		FROM players
		WHERE id = $1`
	var p models.Player
	var teamID uuid.NullUUID
	var draftedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, playerID).Scan(
		&p.ID, &p.EventID, &p.FullName, &p.Eligible, &p.IsDrafted, &teamID, &draftedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	p.DraftedTeamID = sqlutil.FromSqlUUID(teamID)
	p.DraftedAt = sqlutil.FromSqlTime(draftedAt)
	return &p, nil
}

func (r *Repository) CommittedOveralls(ctx context.Context, eventID uuid.UUID) (map[int]bool, error) {
	const q = `SELECT overall_pick FROM picks WHERE event_id = $1`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get committed overalls: %w", err)
	}
	defer rows.Close()

	committed := make(map[int]bool)
	for rows.Next() {
		var overall int
		if err := rows.Scan(&overall); err != nil {
			return nil, fmt.Errorf("failed to scan overall: %w", err)
		}
		committed[overall] = true
	}
	return committed, rows.Err()
}

func (r *Repository) InsertPick(ctx context.Context, pick models.Pick) error {
	const q = `
		INSERT INTO picks (id, event_id, team_id, player_id, round, pick_in_round, overall_pick, made_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q,
		pick.ID, pick.EventID, pick.TeamID, pick.PlayerID,
		pick.Round, pick.PickInRound, pick.OverallPick, pick.MadeAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintEventOverall):
			return ErrSlotTaken
		case isUniqueViolation(err, constraintEventPlayer):
			return ErrPlayerDrafted
		}
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

func (r *Repository) MarkPlayerDrafted(ctx context.Context, playerID, teamID uuid.UUID, at time.Time) error {
	const q = `
		UPDATE players
		SET is_drafted = TRUE, drafted_team_id = $2, drafted_at = $3
		WHERE id = $1 AND is_drafted = FALSE`
	res, err := r.db.ExecContext(ctx, q, playerID, teamID, at)
	if err != nil {
		return fmt.Errorf("failed to mark player drafted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrPlayerDrafted
	}
	return nil
}

func (r *Repository) UpdateCurrentPick(ctx context.Context, eventID uuid.UUID, currentPick int) error {
	const q = `UPDATE draft_events SET current_pick = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, eventID, currentPick); err != nil {
		return fmt.Errorf("failed to update current pick: %w", err)
	}
	return nil
}

func (r *Repository) UpdateClockDeadline(ctx context.Context, eventID uuid.UUID, endsAt time.Time) error {
	const q = `UPDATE draft_events SET clock_ends_at = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, eventID, endsAt); err != nil {
		return fmt.Errorf("failed to update clock deadline: %w", err)
	}
	return nil
}

func (r *Repository) CompleteEvent(ctx context.Context, eventID uuid.UUID) error {
	const q = `
		UPDATE draft_events
		SET phase = 'COMPLETE', is_paused = FALSE, clock_ends_at = NULL,
		    pause_remaining_secs = 0, updated_at = NOW()
		WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, eventID); err != nil {
		return fmt.Errorf("failed to complete event: %w", err)
	}
	return nil
}

func (r *Repository) GetSiblingLink(ctx context.Context, playerID uuid.UUID) (*models.SiblingLink, error) {
	const q = `
		SELECT player_id, event_id, group_key, draft_cost, created_at
		FROM sibling_links
		WHERE player_id = $1`
	var link models.SiblingLink
	err := r.db.QueryRowContext(ctx, q, playerID).Scan(
		&link.PlayerID, &link.EventID, &link.GroupKey, &link.DraftCost, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sibling link: %w", err)
	}
	return &link, nil
}

// NextUndraftedInGroup returns the eligible, undrafted player sharing the
// group key, excluding the trigger player. Tie-break is oldest created_at
// then lowest id, which keeps the selection deterministic.
func (r *Repository) NextUndraftedInGroup(ctx context.Context, eventID uuid.UUID, groupKey string, excludePlayerID uuid.UUID) (*models.Player, error) {
	const q = `
		SELECT p.id, p.event_id, p.full_name, p.eligible, p.is_drafted, p.drafted_team_id, p.drafted_at, p.created_at
		FROM players p
		JOIN sibling_links sl ON sl.player_id = p.id
		WHERE sl.event_id = $1
		  AND sl.group_key = $2
		  AND p.id <> $3
		  AND p.eligible = TRUE
		  AND p.is_drafted = FALSE
		ORDER BY p.created_at, p.id
		LIMIT 1`
	var p models.Player
	var teamID uuid.NullUUID
	var draftedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, eventID, groupKey, excludePlayerID).Scan(
		&p.ID, &p.EventID, &p.FullName, &p.Eligible, &p.IsDrafted, &teamID, &draftedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next undrafted sibling: %w", err)
	}
	p.DraftedTeamID = sqlutil.FromSqlUUID(teamID)
	p.DraftedAt = sqlutil.FromSqlTime(draftedAt)
	return &p, nil
}

func (r *Repository) InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	return r.outbox.Insert(ctx, eventID, eventType, payload)
}

func scanEvent(row *sql.Row) (*models.DraftEvent, error) {
	var e models.DraftEvent
	var clockEndsAt sql.NullTime
	err := row.Scan(
		&e.ID, &e.Name, &e.Phase, &e.Rounds, &e.CurrentPick, &e.PickClockSecs,
		&e.IsPaused, &clockEndsAt, &e.PauseRemainingSecs, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get draft event: %w", err)
	}
	e.ClockEndsAt = sqlutil.FromSqlTime(clockEndsAt)
	return &e, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
