package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUser is a user created by Seed, with the chats opened on its behalf.
type SeedUser struct {
	Email string
	Name  string
	Chats []SeedChat
}

type SeedChat struct {
	Title    string
	Messages []SeedMessage
}

type SeedMessage struct {
	Role    string
	Content string
}

// SeedResult summarizes what Seed inserted.
type SeedResult struct {
	Users    int
	Chats    int
	Messages int
}

// DefaultSeedUsers returns the development fixture: one user with a short
// conversation and one user with no chats.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{
			Email: "alice@example.com",
			Name:  "Alice",
			Chats: []SeedChat{{
				Title: "Welcome",
				Messages: []SeedMessage{
					{Role: "user", Content: "Hello!"},
					{Role: "assistant", Content: "Hi Alice, how can I help?"},
				},
			}},
		},
		{Email: "bob@example.com", Name: "Bob"},
	}
}

// Seed inserts users and their chats in a single transaction. Users whose
// email already exists are left untouched along with their chats, so running
// it twice is harmless.
func Seed(ctx context.Context, pool *pgxpool.Pool, users []SeedUser) (SeedResult, error) {
	var res SeedResult
	if pool == nil {
		return res, errors.New("database not initialized")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, u := range users {
		var userID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO users (email, name) VALUES ($1, $2)
			 ON CONFLICT (email) DO NOTHING RETURNING id`,
			u.Email, u.Name,
		).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		res.Users++

		for _, c := range u.Chats {
			var chatID int64
			if err := tx.QueryRow(ctx,
				`INSERT INTO chats (user_id, title) VALUES ($1, $2) RETURNING id`,
				userID, c.Title,
			).Scan(&chatID); err != nil {
				return res, fmt.Errorf("seed chat %q: %w", c.Title, err)
			}
			res.Chats++

			for _, m := range c.Messages {
				if _, err := tx.Exec(ctx,
					`INSERT INTO messages (chat_id, content, role) VALUES ($1, $2, $3)`,
					chatID, m.Content, m.Role,
				); err != nil {
					return res, fmt.Errorf("seed message: %w", err)
				}
				res.Messages++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("commit seed: %w", err)
	}
	return res, nil
}

// TableExists reports whether a table exists in the public schema.
func TableExists(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
		table,
	).Scan(&exists)
	return exists, err
}

// TableCount returns the row count of one of the schema tables.
func TableCount(ctx context.Context, pool *pgxpool.Pool, table string) (int64, error) {
	var count int64
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&count)
	return count, err
}
