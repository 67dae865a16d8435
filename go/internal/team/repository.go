package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/sqlutil"
)

const constraintEventOrder = "teams_event_order_key"

// Repository handles all team database operations.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new team repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTeam(ctx context.Context, t models.Team) error {
	const q = `
		INSERT INTO teams (id, event_id, name, draft_order, owner_user_id)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.EventID, t.Name, t.DraftOrder, sqlutil.ToSqlUUID(t.OwnerUserID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintEventOrder {
			return ErrOrderTaken
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	const q = `
		SELECT id, event_id, name, draft_order, owner_user_id, created_at
		FROM teams
		WHERE id = $1`
	var t models.Team
	var owner uuid.NullUUID
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.EventID, &t.Name, &t.DraftOrder, &owner, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	t.OwnerUserID = sqlutil.FromSqlUUID(owner)
	return &t, nil
}

func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	const q = `
		SELECT id, event_id, name, draft_order, owner_user_id, created_at
		FROM teams
		WHERE event_id = $1
		ORDER BY draft_order`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
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
