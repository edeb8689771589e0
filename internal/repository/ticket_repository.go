package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-bot/internal/domain"
)

// ErrTicketNotFound reports a lookup for a ticket that does not exist or was
// already removed.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository encapsulates ticket persistence. Each call is its own
// atomic statement; callers do not hold locks across calls.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListOpen(ctx context.Context, limit int) ([]domain.Ticket, error)
	CountOpen(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, userID, sinceTS int64) (int64, error)
	MarkAdminReplied(ctx context.Context, id, ts int64) error
	MarkAdminReminded(ctx context.Context, id, ts int64) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, username, status, message, created_ts, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Username,
		ticket.Status,
		ticket.Message,
		ticket.CreatedTS,
		ticket.CreatedAt,
	).Scan(&ticket.ID)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, username, status, message, created_ts, created_at,
               last_admin_reply_ts, last_admin_remind_ts
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Username,
		&ticket.Status,
		&ticket.Message,
		&ticket.CreatedTS,
		&ticket.CreatedAt,
		&ticket.LastAdminReplyTS,
		&ticket.LastAdminRemindTS,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListOpen(ctx context.Context, limit int) ([]domain.Ticket, error) {
	const query = `
        SELECT id, user_id, username, status, message, created_ts, created_at,
               last_admin_reply_ts, last_admin_remind_ts
        FROM tickets WHERE status=$1 ORDER BY id ASC LIMIT $2`
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusOpen, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountOpen(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE status=$1`
	var count int64
	err := r.pool.QueryRow(ctx, query, domain.TicketStatusOpen).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountCreatedSince(ctx context.Context, userID, sinceTS int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE user_id=$1 AND created_ts>=$2`
	var count int64
	err := r.pool.QueryRow(ctx, query, userID, sinceTS).Scan(&count)
	return count, err
}

func (r *ticketRepository) MarkAdminReplied(ctx context.Context, id, ts int64) error {
	const query = `UPDATE tickets SET last_admin_reply_ts=$1 WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, ts, id)
	return err
}

func (r *ticketRepository) MarkAdminReminded(ctx context.Context, id, ts int64) error {
	const query = `UPDATE tickets SET last_admin_remind_ts=$1 WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, ts, id)
	return err
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM tickets WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Username,
			&ticket.Status,
			&ticket.Message,
			&ticket.CreatedTS,
			&ticket.CreatedAt,
			&ticket.LastAdminReplyTS,
			&ticket.LastAdminRemindTS,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
