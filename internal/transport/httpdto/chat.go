package httpdto

import (
	"time"

	"chatguard/internal/domain/chat"
	"chatguard/internal/domain/message"
	"chatguard/internal/domain/user"
)

// UserDTO represents the authenticated user in API responses
type UserDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ChatDTO represents a chat in API responses
type ChatDTO struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// MessageDTO represents a chat message in API responses
type MessageDTO struct {
	ID        int64  `json:"id"`
	ChatID    int64  `json:"chat_id"`
	Content   string `json:"content"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CreateChatRequest is used for POST /v1/chats
type CreateChatRequest struct {
	Title string `json:"title"`
}

// AppendMessageRequest is used for POST /v1/chats/:id/messages
type AppendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Role    string `json:"role,omitempty"`
}

// PaginationQuery is bound from ?page=&limit=
type PaginationQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ChatListResponse is returned when listing chats
type ChatListResponse struct {
	Chats []ChatDTO `json:"chats"`
}

// MessageListResponse is returned when listing messages of a chat
type MessageListResponse struct {
	Messages []MessageDTO `json:"messages"`
}

func FromUser(u user.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

func FromChat(c chat.Chat) ChatDTO {
	return ChatDTO{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339)}
}

func FromMessage(m message.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Content:   m.Content,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
