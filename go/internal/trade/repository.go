package trade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/draftnight/go/internal/models"
	"github.com/mcdev12/draftnight/go/internal/outbox"
	"github.com/mcdev12/draftnight/go/internal/sqlutil"
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
			return nil, fmt.Errorf("team %s: %w", id, ErrValidation)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	t.OwnerUserID = sqlutil.FromSqlUUID(owner)
	return &t, nil
}

func (r *Repository) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Player, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Player{}, nil
	}
	q := fmt.Sprintf(`
		SELECT id, event_id, full_name, eligible, is_drafted, drafted_team_id, drafted_at, created_at
		FROM players
		WHERE id IN (%s)`, placeholders(1, len(ids)))
	rows, err := r.db.QueryContext(ctx, q, uuidArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get players by ids: %w", err)
	}
	defer rows.Close()

	players := make(map[uuid.UUID]models.Player, len(ids))
	for rows.Next() {
		var p models.Player
		var teamID uuid.NullUUID
		var draftedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.EventID, &p.FullName, &p.Eligible, &p.IsDrafted, &teamID, &draftedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.DraftedTeamID = sqlutil.FromSqlUUID(teamID)
		p.DraftedAt = sqlutil.FromSqlTime(draftedAt)
		players[p.ID] = p
	}
	return players, rows.Err()
}

func (r *Repository) PickRoundsByPlayer(ctx context.Context, eventID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(playerIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}
	q := fmt.Sprintf(`
		SELECT player_id, round
		FROM picks
		WHERE event_id = $1 AND player_id IN (%s)`, placeholders(2, len(playerIDs)))
	args := append([]any{eventID}, uuidArgs(playerIDs)...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick rounds: %w", err)
	}
	defer rows.Close()

	rounds := make(map[uuid.UUID]int, len(playerIDs))
	for rows.Next() {
		var playerID uuid.UUID
		var round int
		if err := rows.Scan(&playerID, &round); err != nil {
			return nil, fmt.Errorf("failed to scan pick round: %w", err)
		}
		rounds[playerID] = round
	}
	return rounds, rows.Err()
}

func (r *Repository) InsertTrade(ctx context.Context, t models.Trade) error {
	const q = `
		INSERT INTO trades (id, event_id, from_team_id, to_team_id, status, parent_trade_id,
		                    from_avg_round, to_avg_round, round_delta, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.EventID, t.FromTeamID, t.ToTeamID, t.Status, sqlutil.ToSqlUUID(t.ParentTradeID),
		t.FromAvgRound, t.ToAvgRound, t.RoundDelta, t.Message, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

func (r *Repository) InsertTradeItems(ctx context.Context, items []models.TradeItem) error {
	const q = `
		INSERT INTO trade_items (id, trade_id, player_id, side)
		VALUES ($1, $2, $3, $4)`
	for _, item := range items {
		if _, err := r.db.ExecContext(ctx, q, item.ID, item.TradeID, item.PlayerID, item.Side); err != nil {
			return fmt.Errorf("failed to insert trade item: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	return r.getTrade(ctx, id, false)
}

func (r *Repository) GetTradeForUpdate(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	return r.getTrade(ctx, id, true)
}

func (r *Repository) getTrade(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.Trade, error) {
	q := `
		SELECT id, event_id, from_team_id, to_team_id, status, parent_trade_id,
		       from_avg_round, to_avg_round, round_delta, message, created_at, responded_at
		FROM trades
		WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	var t models.Trade
	var parentID uuid.NullUUID
	var respondedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.EventID, &t.FromTeamID, &t.ToTeamID, &t.Status, &parentID,
		&t.FromAvgRound, &t.ToAvgRound, &t.RoundDelta, &t.Message, &t.CreatedAt, &respondedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTradeNotFound
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	t.ParentTradeID = sqlutil.FromSqlUUID(parentID)
	t.RespondedAt = sqlutil.FromSqlTime(respondedAt)
	return &t, nil
}

func (r *Repository) GetTradeItems(ctx context.Context, tradeID uuid.UUID) ([]models.TradeItem, error) {
	const q = `
		SELECT id, trade_id, player_id, side
		FROM trade_items
		WHERE trade_id = $1
		ORDER BY side, player_id`
	rows, err := r.db.QueryContext(ctx, q, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade items: %w", err)
	}
	defer rows.Close()

	var items []models.TradeItem
	for rows.Next() {
		var item models.TradeItem
		if err := rows.Scan(&item.ID, &item.TradeID, &item.PlayerID, &item.Side); err != nil {
			return nil, fmt.Errorf("failed to scan trade item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus, respondedAt time.Time) error {
	const q = `UPDATE trades SET status = $2, responded_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrTradeNotFound
	}
	return nil
}

// ReassignPlayer moves a drafted player between rosters. The ownership
// predicate in the WHERE clause is the guard against concurrent trades:
// zero affected rows means the roster moved under us.
func (r *Repository) ReassignPlayer(ctx context.Context, playerID, fromTeamID, toTeamID uuid.UUID) error {
	const q = `
		UPDATE players
		SET drafted_team_id = $3
		WHERE id = $1 AND is_drafted = TRUE AND drafted_team_id = $2`
	res, err := r.db.ExecContext(ctx, q, playerID, fromTeamID, toTeamID)
	if err != nil {
		return fmt.Errorf("failed to reassign player: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrRosterChanged)
	}
	return nil
}

func (r *Repository) InsertOutboxEvent(ctx context.Context, eventID uuid.UUID, eventType string, payload []byte) error {
	return r.outbox.Insert(ctx, eventID, eventType, payload)
}

// placeholders renders "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", start+i)
	}
	return b.String()
}

func uuidArgs(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
