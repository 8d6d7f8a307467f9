package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/domain/audit"
	"whitebeat/internal/domain/call"
	"whitebeat/internal/domain/conversation"
	"whitebeat/internal/domain/group"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/domain/status"
	"whitebeat/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Update(ctx context.Context, u user.User) error

	// IncrementTotalMessages is an atomic counter bump, safe under
	// concurrent senders.
	IncrementTotalMessages(ctx context.Context, id uuid.UUID) error
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
	UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error

	UpsertContact(ctx context.Context, c *user.Contact) error
	RemoveContact(ctx context.Context, ownerID, contactID uuid.UUID) error
	GetContact(ctx context.Context, ownerID, contactID uuid.UUID) (user.Contact, error)
	ListContacts(ctx context.Context, ownerID uuid.UUID) ([]user.Contact, error)
	// IsVisibleContact reports a non-blocked contact edge from owner to other.
	IsVisibleContact(ctx context.Context, ownerID, otherID uuid.UUID) (bool, error)
}

type ConversationRepository interface {
	// GetOrCreate resolves the canonical pair to its single thread,
	// inserting under the pair uniqueness constraint and re-fetching on
	// conflict.
	GetOrCreate(ctx context.Context, userA, userB uuid.UUID) (conversation.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	Update(ctx context.Context, c conversation.Conversation) error
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	ListFor(ctx context.Context, userID uuid.UUID) ([]conversation.Conversation, error)
}

type GroupRepository interface {
	// Create inserts the group row and the creator membership atomically.
	Create(ctx context.Context, g *group.Group, creator *group.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (group.Group, error)
	Update(ctx context.Context, g group.Group) error

	GetMember(ctx context.Context, groupID, userID uuid.UUID) (group.Member, error)
	AddMember(ctx context.Context, m *group.Member) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	SetAdmin(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]group.Member, error)
	MemberCount(ctx context.Context, groupID uuid.UUID) (int64, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]group.Group, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	Update(ctx context.Context, m message.Message) error

	// NextSeq increments and returns the per-context sequence counter.
	// Call it inside the send transaction.
	NextSeq(ctx context.Context, kind string, contextID uuid.UUID) (int64, error)

	ListConversation(ctx context.Context, conversationID, viewerID uuid.UUID, offset, limit int) ([]message.Message, int64, error)
	ListGroup(ctx context.Context, groupID, viewerID uuid.UUID, offset, limit int) ([]message.Message, int64, error)

	MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	MarkGroupRead(ctx context.Context, groupID, readerID uuid.UUID) error
	MarkDelivered(ctx context.Context, messageID, userID uuid.UUID) error

	UpsertReaction(ctx context.Context, r *message.Reaction) error
	AddSuppression(ctx context.Context, messageID, userID uuid.UUID) error
	SetDeletedForEveryone(ctx context.Context, messageID uuid.UUID) error

	UnreadConversationCount(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
	UnreadGroupCount(ctx context.Context, groupID, userID uuid.UUID) (int64, error)
	LastVisibleConversationMessage(ctx context.Context, conversationID, viewerID uuid.UUID) (*message.Message, error)
	LastVisibleGroupMessage(ctx context.Context, groupID, viewerID uuid.UUID) (*message.Message, error)
}

type StatusRepository interface {
	Create(ctx context.Context, s *status.Status, audience []status.Audience) error
	GetByID(ctx context.Context, id uuid.UUID) (status.Status, error)
	// ListActive returns non-expired statuses of everyone but the viewer,
	// audience and views preloaded, grouped-by-author ordering.
	ListActive(ctx context.Context, viewerID uuid.UUID, now time.Time) ([]status.Status, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]status.Status, error)

	UpsertView(ctx context.Context, v *status.View) error
	CountViews(ctx context.Context, statusID uuid.UUID) (int64, error)
	// PurgeExpired is storage reclamation only; correctness never depends
	// on it running.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

type CallRepository interface {
	Create(ctx context.Context, c *call.Call) error
	GetByID(ctx context.Context, id uuid.UUID) (call.Call, error)
	Update(ctx context.Context, c call.Call) error
	HistoryFor(ctx context.Context, userID uuid.UUID) ([]call.Call, error)
}

type AuditRepository interface {
	Create(ctx context.Context, e *audit.Event) error
}
