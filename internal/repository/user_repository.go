package repository

import (
	"context"
	"strings"

	"chatguard/internal/domain/user"
)

type PostgresUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, name) VALUES ($1, $2) RETURNING id, created_at`,
		strings.TrimSpace(u.Email), u.Name,
	).Scan(&u.ID, &u.CreatedAt)
	return translateError(err)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return user.User{}, translateError(err)
	}
	return u, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, created_at FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email),
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return user.User{}, translateError(err)
	}
	return u, nil
}
