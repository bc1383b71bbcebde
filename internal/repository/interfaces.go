package repository

import (
	"context"

	"chatguard/internal/domain/chat"
	"chatguard/internal/domain/message"
	"chatguard/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id int64) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

type ChatRepository interface {
	Create(ctx context.Context, c *chat.Chat) error
	GetByID(ctx context.Context, id int64) (chat.Chat, error)
	GetUserChats(ctx context.Context, userID int64, page, limit int) ([]chat.Chat, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetChatMessages(ctx context.Context, chatID int64, page, limit int) ([]message.Message, error)
}
