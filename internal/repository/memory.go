package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chatguard/internal/domain/chat"
	"chatguard/internal/domain/message"
	"chatguard/internal/domain/user"
	chatguard_errors "chatguard/pkg/errors"
)

// MemoryStore keeps users, chats and messages in process memory. It enforces
// the same unique and foreign-key constraints as the Postgres schema.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	users    map[int64]user.User
	chats    map[int64]chat.Chat
	messages map[int64]message.Message
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]user.User),
		chats:    make(map[int64]chat.Chat),
		messages: make(map[int64]message.Message),
		now:      time.Now,
	}
}

func (s *MemoryStore) Users() UserRepository       { return memoryUserRepo{s} }
func (s *MemoryStore) Chats() ChatRepository       { return memoryChatRepo{s} }
func (s *MemoryStore) Messages() MessageRepository { return memoryMessageRepo{s} }

func (s *MemoryStore) nextID() int64 {
	s.seq++
	return s.seq
}

type memoryUserRepo struct{ s *MemoryStore }

func (r memoryUserRepo) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.TrimSpace(u.Email)
	if email == "" {
		return chatguard_errors.ErrInvalidInput
	}
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, email) {
			return chatguard_errors.ErrAlreadyExists
		}
	}
	u.ID = r.s.nextID()
	u.Email = email
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r memoryUserRepo) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, chatguard_errors.ErrNotFound
	}
	return u, nil
}

func (r memoryUserRepo) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, chatguard_errors.ErrNotFound
}

type memoryChatRepo struct{ s *MemoryStore }

func (r memoryChatRepo) Create(ctx context.Context, c *chat.Chat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[c.UserID]; !ok {
		return chatguard_errors.ErrNotFound
	}
	c.ID = r.s.nextID()
	c.CreatedAt = r.s.now()
	r.s.chats[c.ID] = *c
	return nil
}

func (r memoryChatRepo) GetByID(ctx context.Context, id int64) (chat.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.chats[id]
	if !ok {
		return chat.Chat{}, chatguard_errors.ErrNotFound
	}
	return c, nil
}

func (r memoryChatRepo) GetUserChats(ctx context.Context, userID int64, page, limit int) ([]chat.Chat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]chat.Chat, 0)
	for _, c := range r.s.chats {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, page, limit), nil
}

type memoryMessageRepo struct{ s *MemoryStore }

func (r memoryMessageRepo) Create(ctx context.Context, m *message.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chats[m.ChatID]; !ok {
		return chatguard_errors.ErrNotFound
	}
	if !m.Role.Valid() {
		return chatguard_errors.ErrInvalidInput
	}
	m.ID = r.s.nextID()
	m.CreatedAt = r.s.now()
	r.s.messages[m.ID] = *m
	return nil
}

func (r memoryMessageRepo) GetChatMessages(ctx context.Context, chatID int64, page, limit int) ([]message.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]message.Message, 0)
	for _, m := range r.s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, page, limit), nil
}

func paginate[T any](items []T, page, limit int) []T {
	limit, offset := pageBounds(page, limit)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
