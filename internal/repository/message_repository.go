package repository

import (
	"context"

	"chatguard/internal/domain/message"
)

type PostgresMessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO messages (chat_id, content, role) VALUES ($1, $2, $3) RETURNING id, created_at`,
		m.ChatID, m.Content, string(m.Role),
	).Scan(&m.ID, &m.CreatedAt)
	return translateError(err)
}

func (r *PostgresMessageRepository) GetChatMessages(ctx context.Context, chatID int64, page, limit int) ([]message.Message, error) {
	limit, offset := pageBounds(page, limit)
	rows, err := r.db.Query(ctx,
		`SELECT id, chat_id, content, role, created_at
		   FROM messages
		  WHERE chat_id = $1
		  ORDER BY created_at ASC, id ASC
		  LIMIT $2 OFFSET $3`,
		chatID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]message.Message, 0)
	for rows.Next() {
		var m message.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Content, &role, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = message.Role(role)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
