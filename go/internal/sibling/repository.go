package sibling

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

// Repository handles sibling link database operations.
type Repository struct {
	db sqlutil.DBTX
}

// NewRepository creates a new sibling repository.
func NewRepository(db sqlutil.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLink(ctx context.Context, link models.SiblingLink) error {
	const q = `
		INSERT INTO sibling_links (player_id, event_id, group_key, draft_cost)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, q, link.PlayerID, link.EventID, link.GroupKey, link.DraftCost)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyLinked
		}
		return fmt.Errorf("failed to create sibling link: %w", err)
	}
	return nil
}

func (r *Repository) GetLinkByPlayer(ctx context.Context, playerID uuid.UUID) (*models.SiblingLink, error) {
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

func (r *Repository) DeleteLink(ctx context.Context, playerID uuid.UUID) error {
	const q = `DELETE FROM sibling_links WHERE player_id = $1`
	res, err := r.db.ExecContext(ctx, q, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete sibling link: %w", err)
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

func (r *Repository) ListGroup(ctx context.Context, eventID uuid.UUID, groupKey string) ([]models.SiblingLink, error) {
	const q = `
		SELECT player_id, event_id, group_key, draft_cost, created_at
		FROM sibling_links
		WHERE event_id = $1 AND group_key = $2
		ORDER BY created_at, player_id`
	rows, err := r.db.QueryContext(ctx, q, eventID, groupKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling group: %w", err)
	}
	defer rows.Close()

	var links []models.SiblingLink
	for rows.Next() {
		var link models.SiblingLink
		if err := rows.Scan(&link.PlayerID, &link.EventID, &link.GroupKey, &link.DraftCost, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sibling link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
