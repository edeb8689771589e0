package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spec-kit/support-bot/internal/domain"
)

// SQLite implementations of the repositories, used when no postgres DSN is
// configured. Queries mirror the postgres ones with ? placeholders.

type sqliteTicketRepository struct {
	db *sql.DB
}

// NewSQLiteTicketRepository instantiates the sqlite-backed ticket repository.
func NewSQLiteTicketRepository(db *sql.DB) TicketRepository {
	return &sqliteTicketRepository{db: db}
}

func (r *sqliteTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, username, status, message, created_ts, created_at)
        VALUES (?,?,?,?,?,?)`
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	res, err := r.db.ExecContext(ctx, query,
		ticket.UserID,
		ticket.Username,
		ticket.Status,
		ticket.Message,
		ticket.CreatedTS,
		ticket.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ticket.ID = id
	return nil
}

func (r *sqliteTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, username, status, message, created_ts, created_at,
               last_admin_reply_ts, last_admin_remind_ts
        FROM tickets WHERE id=?`
	var ticket domain.Ticket
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *sqliteTicketRepository) ListOpen(ctx context.Context, limit int) ([]domain.Ticket, error) {
	const query = `
        SELECT id, user_id, username, status, message, created_ts, created_at,
               last_admin_reply_ts, last_admin_remind_ts
        FROM tickets WHERE status=? ORDER BY id ASC LIMIT ?`
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, query, domain.TicketStatusOpen, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (r *sqliteTicketRepository) CountOpen(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE status=?`
	var count int64
	err := r.db.QueryRowContext(ctx, query, domain.TicketStatusOpen).Scan(&count)
	return count, err
}

func (r *sqliteTicketRepository) CountCreatedSince(ctx context.Context, userID, sinceTS int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE user_id=? AND created_ts>=?`
	var count int64
	err := r.db.QueryRowContext(ctx, query, userID, sinceTS).Scan(&count)
	return count, err
}

func (r *sqliteTicketRepository) MarkAdminReplied(ctx context.Context, id, ts int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tickets SET last_admin_reply_ts=? WHERE id=?`, ts, id)
	return err
}

func (r *sqliteTicketRepository) MarkAdminReminded(ctx context.Context, id, ts int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tickets SET last_admin_remind_ts=? WHERE id=?`, ts, id)
	return err
}

func (r *sqliteTicketRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type sqliteUserLimitsRepository struct {
	db *sql.DB
}

// NewSQLiteUserLimitsRepository instantiates the sqlite-backed limits repository.
func NewSQLiteUserLimitsRepository(db *sql.DB) UserLimitsRepository {
	return &sqliteUserLimitsRepository{db: db}
}

func (r *sqliteUserLimitsRepository) Get(ctx context.Context, userID int64) (*domain.UserLimits, error) {
	const ensure = `INSERT OR IGNORE INTO user_limits (user_id, last_ticket_ts, last_call_ts) VALUES (?, 0, 0)`
	if _, err := r.db.ExecContext(ctx, ensure, userID); err != nil {
		return nil, err
	}

	const query = `SELECT user_id, last_ticket_ts, last_call_ts FROM user_limits WHERE user_id=?`
	var limits domain.UserLimits
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&limits.UserID,
		&limits.LastTicketTS,
		&limits.LastCallTS,
	); err != nil {
		return nil, err
	}
	return &limits, nil
}

func (r *sqliteUserLimitsRepository) SetLastTicketTS(ctx context.Context, userID, ts int64) error {
	const query = `
        INSERT INTO user_limits (user_id, last_ticket_ts, last_call_ts) VALUES (?, ?, 0)
        ON CONFLICT (user_id) DO UPDATE SET last_ticket_ts=excluded.last_ticket_ts`
	_, err := r.db.ExecContext(ctx, query, userID, ts)
	return err
}

func (r *sqliteUserLimitsRepository) SetLastCallTS(ctx context.Context, userID, ts int64) error {
	const query = `
        INSERT INTO user_limits (user_id, last_ticket_ts, last_call_ts) VALUES (?, 0, ?)
        ON CONFLICT (user_id) DO UPDATE SET last_call_ts=excluded.last_call_ts`
	_, err := r.db.ExecContext(ctx, query, userID, ts)
	return err
}
