package httpdto

import (
	"time"

	"whitebeat/internal/domain/message"
)

// SendMessageRequest addresses exactly one of receiver_id or group_id.
type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id,omitempty"`
	GroupID    string  `json:"group_id,omitempty"`
	Type       string  `json:"type,omitempty"`
	Content    *string `json:"content,omitempty"`
	MediaURL   *string `json:"media_url,omitempty"`
	ReplyToID  string  `json:"reply_to_id,omitempty"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

type DeleteMessageRequest struct {
	ForEveryone bool `json:"for_everyone"`
}

type ReactMessageRequest struct {
	Reaction string `json:"reaction"`
}

type MarkReadRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	GroupID        string `json:"group_id,omitempty"`
}

type ForwardMessageRequest struct {
	ReceiverID string `json:"receiver_id,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
}

// MessageDTO represents a message in API responses
type MessageDTO struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id,omitempty"`
	GroupID        string        `json:"group_id,omitempty"`
	SenderID       string        `json:"sender_id"`
	Seq            int64         `json:"seq"`
	Type           string        `json:"type"`
	Content        string        `json:"content,omitempty"`
	MediaURL       string        `json:"media_url,omitempty"`
	ReplyToID      string        `json:"reply_to_id,omitempty"`
	IsForwarded    bool          `json:"is_forwarded"`
	IsRead         bool          `json:"is_read"`
	CreatedAt      string        `json:"created_at"`
	EditedAt       string        `json:"edited_at,omitempty"`
	Reactions      []ReactionDTO `json:"reactions,omitempty"`
}

// ReactionDTO represents one user's reaction in API responses
type ReactionDTO struct {
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// MessagePageResponse is returned when listing a thread
type MessagePageResponse struct {
	Messages []MessageDTO `json:"messages"`
	Total    int64        `json:"total"`
	HasMore  bool         `json:"has_more"`
}

// FromMessage converts a domain message to MessageDTO
func FromMessage(m message.Message) MessageDTO {
	dto := MessageDTO{
		ID:          m.ID.String(),
		SenderID:    m.SenderID.String(),
		Seq:         m.Seq,
		Type:        string(m.Type),
		IsForwarded: m.IsForwarded,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.ConversationID != nil {
		dto.ConversationID = m.ConversationID.String()
	}
	if m.GroupID != nil {
		dto.GroupID = m.GroupID.String()
	}
	if m.Content != nil {
		dto.Content = *m.Content
	}
	if m.MediaURL != nil {
		dto.MediaURL = *m.MediaURL
	}
	if m.ReplyToID != nil {
		dto.ReplyToID = m.ReplyToID.String()
	}
	if m.EditedAt != nil {
		dto.EditedAt = m.EditedAt.Format(time.RFC3339)
	}
	if len(m.Reactions) > 0 {
		dto.Reactions = FromReactionSlice(m.Reactions)
	}
	return dto
}

// FromMessageSlice converts a slice of domain messages to MessageDTO slice
func FromMessageSlice(messages []message.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = FromMessage(m)
	}
	return dtos
}

// FromReaction converts a domain reaction to ReactionDTO
func FromReaction(r message.Reaction) ReactionDTO {
	return ReactionDTO{
		UserID:    r.UserID.String(),
		Type:      string(r.Type),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// FromReactionSlice converts a slice of domain reactions to ReactionDTO slice
func FromReactionSlice(reactions []message.Reaction) []ReactionDTO {
	dtos := make([]ReactionDTO, len(reactions))
	for i, r := range reactions {
		dtos[i] = FromReaction(r)
	}
	return dtos
}
