package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-bot/internal/domain"
)

// UserLimitsRepository encapsulates per-user anti-spam state. Get lazily
// creates the row on first touch, so callers always see a record.
type UserLimitsRepository interface {
	Get(ctx context.Context, userID int64) (*domain.UserLimits, error)
	SetLastTicketTS(ctx context.Context, userID, ts int64) error
	SetLastCallTS(ctx context.Context, userID, ts int64) error
}

type userLimitsRepository struct {
	pool *pgxpool.Pool
}

// NewUserLimitsRepository instantiates the postgres-backed repository.
func NewUserLimitsRepository(pool *pgxpool.Pool) UserLimitsRepository {
	return &userLimitsRepository{pool: pool}
}

func (r *userLimitsRepository) Get(ctx context.Context, userID int64) (*domain.UserLimits, error) {
	const ensure = `
        INSERT INTO user_limits (user_id, last_ticket_ts, last_call_ts)
        VALUES ($1, 0, 0) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, ensure, userID); err != nil {
		return nil, err
	}

	const query = `SELECT user_id, last_ticket_ts, last_call_ts FROM user_limits WHERE user_id=$1`
	var limits domain.UserLimits
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&limits.UserID,
		&limits.LastTicketTS,
		&limits.LastCallTS,
	); err != nil {
		return nil, err
	}
	return &limits, nil
}

func (r *userLimitsRepository) SetLastTicketTS(ctx context.Context, userID, ts int64) error {
	const query = `
        INSERT INTO user_limits (user_id, last_ticket_ts, last_call_ts)
        VALUES ($1, $2, 0)
        ON CONFLICT (user_id) DO UPDATE SET last_ticket_ts=EXCLUDED.last_ticket_ts`
	_, err := r.pool.Exec(ctx, query, userID, ts)
	return err
}

func (r *userLimitsRepository) SetLastCallTS(ctx context.Context, userID, ts int64) error {
	const query = `
        INSERT INTO user_limits (user_id, last_ticket_ts, last_call_ts)
        VALUES ($1, 0, $2)
        ON CONFLICT (user_id) DO UPDATE SET last_call_ts=EXCLUDED.last_call_ts`
	_, err := r.pool.Exec(ctx, query, userID, ts)
	return err
}
