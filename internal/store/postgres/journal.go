package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/pairbot/internal/domain"
)

// Journal implements domain.Journal with append-only inserts. Rows are
// keyed by a fresh uuid each; the session id groups one process run.
type Journal struct {
	pool *pgxpool.Pool
}

// NewJournal creates a Journal backed by the given connection pool.
func NewJournal(pool *pgxpool.Pool) *Journal {
	return &Journal{pool: pool}
}

// AppendCommand records one outbound order command.
func (j *Journal) AppendCommand(ctx context.Context, rec domain.CommandRecord) error {
	const query = `
		INSERT INTO commands (id, session_id, order_id, command, side, price, volume, lane, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := j.pool.Exec(ctx, query,
		uuid.New(), rec.SessionID, rec.OrderID, rec.Command,
		string(rec.Side), rec.Price, rec.Volume, rec.Lane, rec.SentAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: append command: %w", err)
	}
	return nil
}

// AppendFill records one fill or hedge fill.
func (j *Journal) AppendFill(ctx context.Context, rec domain.FillRecord) error {
	const query = `
		INSERT INTO fills (id, session_id, order_id, hedge, price, volume, net_position, filled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := j.pool.Exec(ctx, query,
		uuid.New(), rec.SessionID, rec.OrderID, rec.Hedge,
		rec.Price, rec.Volume, rec.Position, rec.FilledAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: append fill: %w", err)
	}
	return nil
}

// AppendStatus records one order status update.
func (j *Journal) AppendStatus(ctx context.Context, rec domain.StatusRecord) error {
	const query = `
		INSERT INTO order_status (id, session_id, order_id, fill_volume, remaining_volume, fees, seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := j.pool.Exec(ctx, query,
		uuid.New(), rec.SessionID, rec.OrderID, rec.FillVolume,
		rec.RemainingVolume, rec.Fees, rec.SeenAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: append status: %w", err)
	}
	return nil
}
