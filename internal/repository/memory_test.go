package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatguard/internal/domain/chat"
	"chatguard/internal/domain/message"
	"chatguard/internal/domain/user"
	chatguard_errors "chatguard/pkg/errors"
)

func TestMemoryUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	alice := &user.User{Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, users.Create(ctx, alice))
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	err := users.Create(ctx, &user.User{Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, chatguard_errors.ErrAlreadyExists)

	got, err := users.GetUserByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = users.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, chatguard_errors.ErrNotFound)
}

func TestMemoryChats_RequireUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Chats().Create(ctx, &chat.Chat{UserID: 42, Title: "orphan"})
	assert.ErrorIs(t, err, chatguard_errors.ErrNotFound)
}

func TestMemoryChats_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	alice := &user.User{Email: "alice@example.com"}
	bob := &user.User{Email: "bob@example.com"}
	require.NoError(t, store.Users().Create(ctx, alice))
	require.NoError(t, store.Users().Create(ctx, bob))

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.Chats().Create(ctx, &chat.Chat{UserID: alice.ID, Title: title}))
	}
	require.NoError(t, store.Chats().Create(ctx, &chat.Chat{UserID: bob.ID, Title: "bob's"}))

	chats, err := store.Chats().GetUserChats(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, "third", chats[0].Title)
	assert.Equal(t, "first", chats[2].Title)

	page2, err := store.Chats().GetUserChats(ctx, alice.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "first", page2[0].Title)

	empty, err := store.Chats().GetUserChats(ctx, alice.ID, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryMessages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u := &user.User{Email: "alice@example.com"}
	require.NoError(t, store.Users().Create(ctx, u))
	c := &chat.Chat{UserID: u.ID, Title: "t"}
	require.NoError(t, store.Chats().Create(ctx, c))

	require.NoError(t, store.Messages().Create(ctx, &message.Message{ChatID: c.ID, Content: "hi", Role: message.RoleUser}))
	require.NoError(t, store.Messages().Create(ctx, &message.Message{ChatID: c.ID, Content: "hello", Role: message.RoleAssistant}))

	err := store.Messages().Create(ctx, &message.Message{ChatID: c.ID, Content: "x", Role: "system"})
	assert.ErrorIs(t, err, chatguard_errors.ErrInvalidInput)

	err = store.Messages().Create(ctx, &message.Message{ChatID: 999, Content: "x", Role: message.RoleUser})
	assert.ErrorIs(t, err, chatguard_errors.ErrNotFound)

	msgs, err := store.Messages().GetChatMessages(ctx, c.ID, 1, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, message.RoleAssistant, msgs[1].Role)
}

func TestPageBounds(t *testing.T) {
	limit, offset := pageBounds(0, 0)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageBounds(3, 20)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	limit, _ = pageBounds(1, 1000)
	assert.Equal(t, 50, limit)
}
