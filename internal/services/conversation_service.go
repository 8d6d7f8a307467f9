package services

import (
	"context"

	"github.com/google/uuid"

	"whitebeat/internal/domain/conversation"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/repository"
	wb_errors "whitebeat/pkg/errors"
)

// ConversationPreview is the read model ListFor assembles per thread:
// the counterpart, the last visible message and the caller-scoped unread
// count.
type ConversationPreview struct {
	Conversation conversation.Conversation
	OtherUserID  uuid.UUID
	LastMessage  *message.Message
	UnreadCount  int64
}

type ConversationService struct {
	repo        repository.ConversationRepository
	messageRepo repository.MessageRepository
	audit       *AuditPublisher
}

func NewConversationService(repo repository.ConversationRepository, messageRepo repository.MessageRepository, audit *AuditPublisher) *ConversationService {
	return &ConversationService{repo: repo, messageRepo: messageRepo, audit: audit}
}

// GetOrCreate resolves the single thread for an unordered pair, creating it
// lazily. Safe under concurrent first contact from both sides.
func (s *ConversationService) GetOrCreate(ctx context.Context, userA, userB uuid.UUID) (conversation.Conversation, error) {
	return s.repo.GetOrCreate(ctx, userA, userB)
}

func (s *ConversationService) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	return s.repo.GetByID(ctx, id)
}

// SetArchived toggles the caller's own side only.
func (s *ConversationService) SetArchived(ctx context.Context, userID, conversationID uuid.UUID, archived bool) (conversation.Conversation, error) {
	return s.setSideFlag(ctx, userID, conversationID, func(c *conversation.Conversation) {
		c.SetArchivedFor(userID, archived)
	}, "conversation.archive")
}

// SetMuted toggles the caller's own side only.
func (s *ConversationService) SetMuted(ctx context.Context, userID, conversationID uuid.UUID, muted bool) (conversation.Conversation, error) {
	return s.setSideFlag(ctx, userID, conversationID, func(c *conversation.Conversation) {
		c.SetMutedFor(userID, muted)
	}, "conversation.mute")
}

func (s *ConversationService) setSideFlag(ctx context.Context, userID, conversationID uuid.UUID, mutate func(*conversation.Conversation), action string) (conversation.Conversation, error) {
	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return conversation.Conversation{}, err
	}
	if !c.Involves(userID) {
		return conversation.Conversation{}, wb_errors.ErrForbidden
	}
	mutate(&c)
	if err := s.repo.Update(ctx, c); err != nil {
		return conversation.Conversation{}, err
	}
	s.audit.Record(ctx, userID, action, "conversation", c.ID.String(), nil)
	return c, nil
}

// ListFor returns the caller's threads annotated for the conversation list
// screen. Messages deleted for everyone never leak into previews.
func (s *ConversationService) ListFor(ctx context.Context, userID uuid.UUID) ([]ConversationPreview, error) {
	conversations, err := s.repo.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	previews := make([]ConversationPreview, 0, len(conversations))
	for _, c := range conversations {
		last, err := s.messageRepo.LastVisibleConversationMessage(ctx, c.ID, userID)
		if err != nil {
			return nil, err
		}
		unread, err := s.messageRepo.UnreadConversationCount(ctx, c.ID, userID)
		if err != nil {
			return nil, err
		}
		previews = append(previews, ConversationPreview{
			Conversation: c,
			OtherUserID:  c.OtherSide(userID),
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return previews, nil
}
