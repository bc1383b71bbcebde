package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"chatguard/config"
	"chatguard/pkg/logger"
)

var Pool *pgxpool.Pool

// Connect opens the global pool and pings it. An empty DATABASE_URL leaves
// Pool nil; callers fall back to the in-memory store.
func Connect(ctx context.Context, cfg *config.Config, l *logger.Logger) error {
	if cfg.DatabaseURL == "" {
		l.Logger.Warn("DATABASE_URL not provided; skipping database connection")
		return nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}

	// Connection pool settings
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = cfg.DBMaxConns
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	Pool = pool
	l.Infof("Database connection established")
	return nil
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}

func HealthCheck(ctx context.Context) error {
	if Pool == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return Pool.Ping(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS chats (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_chats_user_id ON chats(user_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS messages (
		id         BIGSERIAL PRIMARY KEY,
		chat_id    BIGINT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		role       TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id, created_at, id);`,
}

// InitSchema creates the users, chats and messages tables if they are missing.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("database not initialized")
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
