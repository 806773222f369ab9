// Package store persists strategies, content plans, and social media
// posts in SQLite. Rows are scoped by user_id and linked to their
// parent strategy by foreign key; access policy enforcement beyond
// that scoping belongs to the database deployment, not this package.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Config holds connection options.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// DefaultConfig returns sensible defaults for a single-node service.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// Open connects with WAL mode, foreign keys, and a busy timeout, then
// applies the schema.
func Open(path string) (*Store, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig connects with custom options.
func OpenWithConfig(cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS strategies (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	name            TEXT NOT NULL,
	business_type   TEXT NOT NULL DEFAULT '',
	objectives      TEXT NOT NULL DEFAULT '',
	audience        TEXT NOT NULL DEFAULT '',
	differentiation TEXT NOT NULL DEFAULT '',
	matrix_content  TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_strategies_user ON strategies(user_id);

CREATE TABLE IF NOT EXISTS content_plans (
	id                     TEXT PRIMARY KEY,
	strategy_id            TEXT NOT NULL REFERENCES strategies(id) ON DELETE CASCADE,
	special_considerations TEXT NOT NULL DEFAULT '',
	content_plan_text      TEXT NOT NULL,
	created_at             TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_content_plans_strategy ON content_plans(strategy_id);

CREATE TABLE IF NOT EXISTS social_media_posts (
	id              TEXT PRIMARY KEY,
	strategy_id     TEXT NOT NULL REFERENCES strategies(id) ON DELETE CASCADE,
	content_plan_id TEXT REFERENCES content_plans(id),
	post_type       TEXT NOT NULL,
	post_text       TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_strategy_created
	ON social_media_posts(strategy_id, created_at DESC);
`

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
