package persistence

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/config"
)

// SQLite wraps the fallback single-file database used when no postgres DSN is
// configured.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens (and if needed creates) the database file and initializes
// the schema.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	dir := filepath.Dir(cfg.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSQLiteSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("path", cfg.Path))
	return &SQLite{DB: db}, nil
}

func initSQLiteSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		username TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		message TEXT NOT NULL,
		created_ts INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		last_admin_reply_ts INTEGER,
		last_admin_remind_ts INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_status_id ON tickets (status, id);
	CREATE INDEX IF NOT EXISTS idx_tickets_user_created ON tickets (user_id, created_ts);

	CREATE TABLE IF NOT EXISTS user_limits (
		user_id INTEGER PRIMARY KEY,
		last_ticket_ts INTEGER NOT NULL DEFAULT 0,
		last_call_ts INTEGER NOT NULL DEFAULT 0
	);`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close releases the database handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies connectivity.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
