package repository

import (
	"context"

	"chatguard/internal/domain/chat"
)

type PostgresChatRepository struct {
	db DBTX
}

func NewChatRepository(db DBTX) ChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO chats (user_id, title) VALUES ($1, $2) RETURNING id, created_at`,
		c.UserID, c.Title,
	).Scan(&c.ID, &c.CreatedAt)
	return translateError(err)
}

func (r *PostgresChatRepository) GetByID(ctx context.Context, id int64) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, created_at FROM chats WHERE id = $1`, id,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt)
	if err != nil {
		return chat.Chat{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresChatRepository) GetUserChats(ctx context.Context, userID int64, page, limit int) ([]chat.Chat, error) {
	limit, offset := pageBounds(page, limit)
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, created_at
		   FROM chats
		  WHERE user_id = $1
		  ORDER BY created_at DESC, id DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]chat.Chat, 0)
	for rows.Next() {
		var c chat.Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
