package httpdto

import (
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/domain/conversation"
	"whitebeat/internal/domain/message"
)

type OpenConversationRequest struct {
	UserID string `json:"user_id"`
}

type SetArchivedRequest struct {
	Archived bool `json:"archived"`
}

type SetMutedRequest struct {
	Muted bool `json:"muted"`
}

// ConversationDTO is the viewer-relative shape of a 1:1 thread: the caller
// sees the counterpart and their own archive/mute flags, never the raw
// canonical pair.
type ConversationDTO struct {
	ID          string `json:"id"`
	OtherUserID string `json:"other_user_id"`
	IsArchived  bool   `json:"is_archived"`
	IsMuted     bool   `json:"is_muted"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ConversationPreviewDTO annotates a thread for the conversation list
type ConversationPreviewDTO struct {
	Conversation ConversationDTO `json:"conversation"`
	LastMessage  *MessageDTO     `json:"last_message,omitempty"`
	UnreadCount  int64           `json:"unread_count"`
}

// FromConversation converts a domain conversation to ConversationDTO
func FromConversation(c conversation.Conversation, viewer uuid.UUID) ConversationDTO {
	return ConversationDTO{
		ID:          c.ID.String(),
		OtherUserID: c.OtherSide(viewer).String(),
		IsArchived:  c.ArchivedFor(viewer),
		IsMuted:     c.MutedFor(viewer),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// FromConversationPreview assembles the list entry for one thread
func FromConversationPreview(c conversation.Conversation, viewer uuid.UUID, last *message.Message, unread int64) ConversationPreviewDTO {
	dto := ConversationPreviewDTO{
		Conversation: FromConversation(c, viewer),
		UnreadCount:  unread,
	}
	if last != nil {
		lastDTO := FromMessage(*last)
		dto.LastMessage = &lastDTO
	}
	return dto
}
