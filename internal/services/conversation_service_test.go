package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wb_errors "whitebeat/pkg/errors"
)

func TestGetOrCreateIsOrderIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	first, err := env.conversations.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	second, err := env.conversations.GetOrCreate(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.Involves(alice.ID))
	assert.True(t, first.Involves(bob.ID))
}

func TestGetOrCreateRejectsSelfPair(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.conversations.GetOrCreate(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, wb_errors.ErrInvalidArgument)
}

func TestArchiveAffectsOnlyOwnSide(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	conv, err := env.conversations.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	updated, err := env.conversations.SetArchived(ctx, alice.ID, conv.ID, true)
	require.NoError(t, err)

	assert.True(t, updated.ArchivedFor(alice.ID))
	assert.False(t, updated.ArchivedFor(bob.ID))
}

func TestSetMutedByOutsiderIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")
	conv, err := env.conversations.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.conversations.SetMuted(ctx, eve.ID, conv.ID, true)
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)
}

func TestListForAnnotatesUnreadAndLastMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	env.sendDirect(t, alice.ID, bob.ID, "hey")
	env.sendDirect(t, alice.ID, bob.ID, "you there?")

	previews, err := env.conversations.ListFor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, previews, 1)

	p := previews[0]
	assert.Equal(t, alice.ID, p.OtherUserID)
	assert.EqualValues(t, 2, p.UnreadCount)
	require.NotNil(t, p.LastMessage)
	assert.Equal(t, "you there?", *p.LastMessage.Content)

	// The sender has nothing unread in the same thread.
	senderPreviews, err := env.conversations.ListFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, senderPreviews, 1)
	assert.EqualValues(t, 0, senderPreviews[0].UnreadCount)
}

func TestListForHidesDeletedForEveryonePreview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	kept := env.sendDirect(t, alice.ID, bob.ID, "first")
	gone := env.sendDirect(t, alice.ID, bob.ID, "oops")
	require.NoError(t, env.messageRepo.SetDeletedForEveryone(ctx, gone.ID))

	previews, err := env.conversations.ListFor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	require.NotNil(t, previews[0].LastMessage)
	assert.Equal(t, kept.ID, previews[0].LastMessage.ID)
}
