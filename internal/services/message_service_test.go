package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/message"
	wb_errors "whitebeat/pkg/errors"
)

func TestSendDirectCreatesConversationAndSequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	first := env.sendDirect(t, alice.ID, bob.ID, "hello")
	second := env.sendDirect(t, bob.ID, alice.ID, "hi back")

	require.NotNil(t, first.ConversationID)
	require.NotNil(t, second.ConversationID)
	assert.Equal(t, *first.ConversationID, *second.ConversationID)
	assert.EqualValues(t, 1, first.Seq)
	assert.EqualValues(t, 2, second.Seq)

	sender, err := env.userRepo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sender.TotalMessages)
}

func TestSendRequiresContentOrMedia(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.messages.Send(context.Background(), commands.SendMessageCommand{
		SenderID: alice.ID,
		Target:   message.DirectTarget(bob.ID),
	})
	assert.ErrorIs(t, err, wb_errors.ErrInvalidArgument)
}

func TestReplyMustShareContext(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	origin := env.sendDirect(t, alice.ID, bob.ID, "original")

	content := "out of thread"
	_, err := env.messages.Send(ctx, commands.SendMessageCommand{
		SenderID: alice.ID,
		Target:   message.DirectTarget(carol.ID),
		Content:  &content,
		ReplyTo:  &origin.ID,
	})
	assert.ErrorIs(t, err, wb_errors.ErrInvalidArgument)

	reply := "in thread"
	msg, err := env.messages.Send(ctx, commands.SendMessageCommand{
		SenderID: bob.ID,
		Target:   message.DirectTarget(alice.ID),
		Content:  &reply,
		ReplyTo:  &origin.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, msg.ReplyToID)
	assert.Equal(t, origin.ID, *msg.ReplyToID)
}

func TestEditBySenderOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "typo")

	_, err := env.messages.Edit(ctx, commands.EditMessageCommand{
		ActorID:    bob.ID,
		MessageID:  msg.ID,
		NewContent: "hijacked",
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)

	edited, err := env.messages.Edit(ctx, commands.EditMessageCommand{
		ActorID:    alice.ID,
		MessageID:  msg.ID,
		NewContent: "fixed",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", *edited.Content)
	assert.NotNil(t, edited.EditedAt)
}

func TestDeleteForEveryoneHidesFromBothSides(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "regret")
	convID := *msg.ConversationID

	require.NoError(t, env.messages.Delete(ctx, commands.DeleteMessageCommand{
		ActorID:     alice.ID,
		MessageID:   msg.ID,
		ForEveryone: true,
	}))

	alicePage, err := env.messages.ListConversation(ctx, convID, alice.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, alicePage.Messages)

	bobPage, err := env.messages.ListConversation(ctx, convID, bob.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, bobPage.Messages)
}

func TestLocalDeleteHidesOnlyForActor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "keep for bob")
	convID := *msg.ConversationID

	require.NoError(t, env.messages.Delete(ctx, commands.DeleteMessageCommand{
		ActorID:   alice.ID,
		MessageID: msg.ID,
	}))

	alicePage, err := env.messages.ListConversation(ctx, convID, alice.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, alicePage.Messages)

	bobPage, err := env.messages.ListConversation(ctx, convID, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, bobPage.Messages, 1)
	assert.Equal(t, msg.ID, bobPage.Messages[0].ID)
}

func TestDeleteByNonSenderForbidden(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "mine")

	err := env.messages.Delete(context.Background(), commands.DeleteMessageCommand{
		ActorID:     bob.ID,
		MessageID:   msg.ID,
		ForEveryone: true,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "unread")
	convID := *msg.ConversationID

	unread, err := env.messageRepo.UnreadConversationCount(ctx, convID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	cmd := commands.MarkReadCommand{ReaderID: bob.ID, ConversationID: &convID}
	require.NoError(t, env.messages.MarkRead(ctx, cmd))
	require.NoError(t, env.messages.MarkRead(ctx, cmd))

	unread, err = env.messageRepo.UnreadConversationCount(ctx, convID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestReactUpsertsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "react to me")

	_, err := env.messages.React(ctx, commands.ReactMessageCommand{
		UserID:    bob.ID,
		MessageID: msg.ID,
		Reaction:  message.ReactionLike,
	})
	require.NoError(t, err)

	second, err := env.messages.React(ctx, commands.ReactMessageCommand{
		UserID:    bob.ID,
		MessageID: msg.ID,
		Reaction:  message.ReactionLove,
	})
	require.NoError(t, err)
	assert.Equal(t, message.ReactionLove, second.Type)

	var count int64
	require.NoError(t, env.db.Model(&message.Reaction{}).
		Where("message_id = ? AND user_id = ?", msg.ID, bob.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReactByStrangerForbidden(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")
	msg := env.sendDirect(t, alice.ID, bob.ID, "private")

	_, err := env.messages.React(context.Background(), commands.ReactMessageCommand{
		UserID:    eve.ID,
		MessageID: msg.ID,
		Reaction:  message.ReactionWow,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)
}

func TestListPaginationHasMore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	var firstMsg message.Message
	for i, content := range []string{"one", "two", "three", "four", "five"} {
		m := env.sendDirect(t, alice.ID, bob.ID, content)
		if i == 0 {
			firstMsg = m
		}
	}

	page, err := env.messages.ListConversation(ctx, *firstMsg.ConversationID, bob.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 2)
	assert.EqualValues(t, 5, page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, "one", *page.Messages[0].Content)

	last, err := env.messages.ListConversation(ctx, *firstMsg.ConversationID, bob.ID, 4, 2)
	require.NoError(t, err)
	assert.Len(t, last.Messages, 1)
	assert.False(t, last.HasMore)
	assert.Equal(t, "five", *last.Messages[0].Content)
}

func TestForwardCopiesContentAndFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	origin := env.sendDirect(t, alice.ID, bob.ID, "pass it on")

	forwarded, err := env.messages.Forward(ctx, commands.ForwardMessageCommand{
		SenderID:  alice.ID,
		MessageID: origin.ID,
		Target:    message.DirectTarget(carol.ID),
	})
	require.NoError(t, err)

	assert.True(t, forwarded.IsForwarded)
	assert.Equal(t, "pass it on", *forwarded.Content)
	require.NotNil(t, forwarded.ConversationID)
	assert.NotEqual(t, *origin.ConversationID, *forwarded.ConversationID)
}

func TestForwardDeletedMessageNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	origin := env.sendDirect(t, alice.ID, bob.ID, "gone soon")

	require.NoError(t, env.messages.Delete(ctx, commands.DeleteMessageCommand{
		ActorID:     alice.ID,
		MessageID:   origin.ID,
		ForEveryone: true,
	}))

	_, err := env.messages.Forward(ctx, commands.ForwardMessageCommand{
		SenderID:  alice.ID,
		MessageID: origin.ID,
		Target:    message.DirectTarget(carol.ID),
	})
	assert.ErrorIs(t, err, wb_errors.ErrNotFound)
}

func TestMarkDeliveredIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	msg := env.sendDirect(t, alice.ID, bob.ID, "deliver me")

	require.NoError(t, env.messages.MarkDelivered(ctx, msg.ID, bob.ID))
	require.NoError(t, env.messages.MarkDelivered(ctx, msg.ID, bob.ID))

	var count int64
	require.NoError(t, env.db.Model(&message.Delivery{}).
		Where("message_id = ?", msg.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGroupUnreadCountAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	g := env.createGroup(t, alice.ID, "team", bob.ID)

	env.sendToGroup(t, alice.ID, g.ID, "first")
	env.sendToGroup(t, alice.ID, g.ID, "second")

	unread, err := env.messageRepo.UnreadGroupCount(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, env.messages.MarkRead(ctx, commands.MarkReadCommand{
		ReaderID: bob.ID,
		GroupID:  &g.ID,
	}))

	unread, err = env.messageRepo.UnreadGroupCount(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)

	// The sender's own messages are never counted as unread for them.
	senderUnread, err := env.messageRepo.UnreadGroupCount(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, senderUnread)
}
