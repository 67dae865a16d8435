package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/sqlutil"
)

const playerColumns = `id, event_id, full_name, eligible, is_drafted, drafted_team_id, drafted_at, created_at`

// Repository handles all player pool database operations.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new player repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePlayer(ctx context.Context, p models.Player) error {
	const q = `
		INSERT INTO players (id, event_id, full_name, eligible)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.EventID, p.FullName, p.Eligible); err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	q := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

func (r *Repository) SetEligibility(ctx context.Context, id uuid.UUID, eligible bool) error {
	const q = `UPDATE players SET eligible = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, eligible)
	if err != nil {
		return fmt.Errorf("failed to set eligibility: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListAvailablePlayers(ctx context.Context, eventID uuid.UUID) ([]models.Player, error) {
	q := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE event_id = $1 AND eligible = TRUE AND is_drafted = FALSE
		ORDER BY full_name`
	return r.listPlayers(ctx, q, eventID)
}

func (r *Repository) ListRoster(ctx context.Context, teamID uuid.UUID) ([]models.Player, error) {
	q := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE drafted_team_id = $1
		ORDER BY drafted_at, id`
	return r.listPlayers(ctx, q, teamID)
}

func (r *Repository) listPlayers(ctx context.Context, q string, arg any) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	var teamID uuid.NullUUID
	var draftedAt sql.NullTime
	err := row.Scan(&p.ID, &p.EventID, &p.FullName, &p.Eligible, &p.IsDrafted, &teamID, &draftedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.DraftedTeamID = sqlutil.FromSqlUUID(teamID)
	p.DraftedAt = sqlutil.FromSqlTime(draftedAt)
	return &p, nil
}
