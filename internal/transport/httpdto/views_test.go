package httpdto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitebeat/internal/domain/call"
	"whitebeat/internal/domain/conversation"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/domain/user"
)

func TestFromConversationIsViewerRelative(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	conv := conversation.Conversation{
		ID:             uuid.New(),
		UserLowID:      low,
		UserHighID:     high,
		ArchivedByLow:  true,
		MutedByHigh:    true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	asLow := FromConversation(conv, low)
	assert.Equal(t, high.String(), asLow.OtherUserID)
	assert.True(t, asLow.IsArchived)
	assert.False(t, asLow.IsMuted)

	asHigh := FromConversation(conv, high)
	assert.Equal(t, low.String(), asHigh.OtherUserID)
	assert.False(t, asHigh.IsArchived)
	assert.True(t, asHigh.IsMuted)
}

func TestFromConversationPreviewCarriesLastMessage(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	conv := conversation.Conversation{ID: uuid.New(), UserLowID: low, UserHighID: high}

	empty := FromConversationPreview(conv, low, nil, 0)
	assert.Nil(t, empty.LastMessage)

	content := "hi"
	last := message.Message{ID: uuid.New(), SenderID: high, Content: &content, CreatedAt: time.Now()}
	withLast := FromConversationPreview(conv, low, &last, 3)
	require.NotNil(t, withLast.LastMessage)
	assert.Equal(t, "hi", withLast.LastMessage.Content)
	assert.EqualValues(t, 3, withLast.UnreadCount)
}

func TestFromMessageMapsOptionalFields(t *testing.T) {
	convID := uuid.New()
	replyTo := uuid.New()
	content := "hello"
	edited := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	m := message.Message{
		ID:             uuid.New(),
		ConversationID: &convID,
		SenderID:       uuid.New(),
		Seq:            7,
		Type:           message.TypeText,
		Content:        &content,
		ReplyToID:      &replyTo,
		CreatedAt:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		EditedAt:       &edited,
		Reactions: []message.Reaction{
			{MessageID: uuid.New(), UserID: uuid.New(), Type: message.ReactionLove},
		},
	}

	dto := FromMessage(m)
	assert.Equal(t, convID.String(), dto.ConversationID)
	assert.Empty(t, dto.GroupID)
	assert.EqualValues(t, 7, dto.Seq)
	assert.Equal(t, "hello", dto.Content)
	assert.Equal(t, replyTo.String(), dto.ReplyToID)
	assert.Equal(t, "2025-06-01T10:00:00Z", dto.EditedAt)
	require.Len(t, dto.Reactions, 1)
	assert.Equal(t, string(message.ReactionLove), dto.Reactions[0].Type)
}

func TestFromCallOmitsUnsetTimestamps(t *testing.T) {
	c := call.Call{
		ID:           uuid.New(),
		CallerID:     uuid.New(),
		Type:         call.TypeAudio,
		Status:       call.StatusInitiated,
		SessionToken: "tok",
		StartedAt:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	dto := FromCall(c)
	assert.Empty(t, dto.AnsweredAt)
	assert.Empty(t, dto.EndedAt)
	assert.Empty(t, dto.ReceiverID)

	answered := c.StartedAt.Add(2 * time.Second)
	ended := c.StartedAt.Add(10 * time.Second)
	c.AnsweredAt = &answered
	c.EndedAt = &ended
	c.DurationSeconds = 8

	dto = FromCall(c)
	assert.Equal(t, "2025-06-01T09:00:02Z", dto.AnsweredAt)
	assert.EqualValues(t, 8, dto.DurationSeconds)

	rec := FromCallRecord(c, true)
	assert.True(t, rec.IsIncoming)
	assert.Equal(t, dto.ID, rec.Call.ID)
}

func TestFromUserMapsPointerFields(t *testing.T) {
	avatar := "https://cdn.example/a.png"
	u := user.User{
		ID:            uuid.New(),
		Username:      "alice",
		DisplayName:   "Alice",
		AvatarURL:     &avatar,
		StatusPrivacy: user.PrivacyContacts,
		CreatedAt:     time.Now(),
	}

	dto := FromUser(u)
	assert.Equal(t, "alice", dto.Username)
	assert.Equal(t, avatar, dto.AvatarURL)
	assert.Empty(t, dto.About)
	assert.Equal(t, string(user.PrivacyContacts), dto.StatusPrivacy)
}
