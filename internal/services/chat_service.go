package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"chatguard/internal/domain/chat"
	"chatguard/internal/domain/message"
	"chatguard/internal/domain/user"
	"chatguard/internal/repository"
	chatguard_errors "chatguard/pkg/errors"
	"chatguard/pkg/logger"
)

const (
	defaultChatTitle = "New chat"
	maxTitleLength   = 200
	maxContentLength = 32 * 1024
)

// UserCache caches users resolved from token subjects. A miss is (nil, nil).
type UserCache interface {
	GetUser(ctx context.Context, subject string) (*user.User, error)
	SetUser(ctx context.Context, subject string, u user.User) error
	InvalidateUser(ctx context.Context, subject string) error
}

type ChatService struct {
	users    repository.UserRepository
	chats    repository.ChatRepository
	messages repository.MessageRepository
	cache    UserCache
	logger   *logger.Logger
}

// NewChatService wires the repositories. cache may be nil.
func NewChatService(
	users repository.UserRepository,
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	cache UserCache,
	l *logger.Logger,
) *ChatService {
	if l == nil {
		l = logger.NewNop()
	}
	return &ChatService{users: users, chats: chats, messages: messages, cache: cache, logger: l}
}

// ResolveUser maps a verified subject onto a stored user. Numeric subjects
// are user ids; subjects containing "@" are emails. A subject with no
// matching user is unauthorized.
func (s *ChatService) ResolveUser(ctx context.Context, subject string) (user.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return user.User{}, chatguard_errors.ErrUnauthorized
	}

	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, subject)
		if err != nil {
			s.logger.WithContext(ctx).Warn("user cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	u, err := s.lookupSubject(ctx, subject)
	if err != nil {
		if errors.Is(err, chatguard_errors.ErrNotFound) {
			return user.User{}, fmt.Errorf("%w: no user for subject", chatguard_errors.ErrUnauthorized)
		}
		return user.User{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, subject, u); err != nil {
			s.logger.WithContext(ctx).Warn("user cache write failed", zap.Error(err))
		}
	}
	return u, nil
}

// ForgetUser drops the cached user for subject, for when the cached row
// turned out to be gone.
func (s *ChatService) ForgetUser(ctx context.Context, subject string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, strings.TrimSpace(subject)); err != nil {
		s.logger.WithContext(ctx).Warn("user cache invalidation failed", zap.Error(err))
	}
}

func (s *ChatService) lookupSubject(ctx context.Context, subject string) (user.User, error) {
	if id, err := strconv.ParseInt(subject, 10, 64); err == nil && id > 0 {
		return s.users.GetUserByID(ctx, id)
	}
	if strings.Contains(subject, "@") {
		return s.users.GetUserByEmail(ctx, subject)
	}
	return user.User{}, chatguard_errors.ErrNotFound
}

func (s *ChatService) ListChats(ctx context.Context, userID int64, page, limit int) ([]chat.Chat, error) {
	return s.chats.GetUserChats(ctx, userID, page, limit)
}

func (s *ChatService) CreateChat(ctx context.Context, userID int64, title string) (chat.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultChatTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return chat.Chat{}, chatguard_errors.ErrInvalidInput
	}

	c := chat.Chat{UserID: userID, Title: title}
	if err := s.chats.Create(ctx, &c); err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, chatID int64, page, limit int) ([]message.Message, error) {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.messages.GetChatMessages(ctx, chatID, page, limit)
}

func (s *ChatService) AppendMessage(ctx context.Context, userID, chatID int64, content string, role message.Role) (message.Message, error) {
	if strings.TrimSpace(content) == "" || len(content) > maxContentLength {
		return message.Message{}, chatguard_errors.ErrInvalidInput
	}
	if role == "" {
		role = message.RoleUser
	}
	if !role.Valid() {
		return message.Message{}, chatguard_errors.ErrInvalidInput
	}
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return message.Message{}, err
	}

	m := message.Message{ChatID: chatID, Content: content, Role: role}
	if err := s.messages.Create(ctx, &m); err != nil {
		return message.Message{}, err
	}
	return m, nil
}

func (s *ChatService) ownedChat(ctx context.Context, userID, chatID int64) (chat.Chat, error) {
	c, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	if c.UserID != userID {
		return chat.Chat{}, chatguard_errors.ErrForbidden
	}
	return c, nil
}
