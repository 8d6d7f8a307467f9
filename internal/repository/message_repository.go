package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whitebeat/internal/domain/message"
	wb_errors "whitebeat/pkg/errors"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Preload("Reactions").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, wb_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

func (r *PostgresMessageRepository) Update(ctx context.Context, m message.Message) error {
	m.Reactions = nil
	res := r.db.WithContext(ctx).Save(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wb_errors.ErrNotFound
	}
	return nil
}

// NextSeq upserts the per-context counter row and increments it. Run inside
// the send transaction so the row lock serializes concurrent senders.
func (r *PostgresMessageRepository) NextSeq(ctx context.Context, kind string, contextID uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)

	seed := message.Sequence{ContextKind: kind, ContextID: contextID, LastSeq: 0, UpdatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "context_kind"}, {Name: "context_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return 0, err
	}

	if err := db.Model(&message.Sequence{}).
		Where("context_kind = ? AND context_id = ?", kind, contextID).
		UpdateColumn("last_seq", gorm.Expr("last_seq + 1")).Error; err != nil {
		return 0, err
	}

	var row message.Sequence
	if err := db.
		Where("context_kind = ? AND context_id = ?", kind, contextID).
		Take(&row).Error; err != nil {
		return 0, err
	}
	return row.LastSeq, nil
}

// visibleTo excludes for-everyone deletions and the viewer's own local
// deletions. Every read path goes through it.
func visibleTo(db *gorm.DB, viewerID uuid.UUID) *gorm.DB {
	return db.
		Where("deleted_for_everyone = ?", false).
		Where("NOT EXISTS (SELECT 1 FROM message_suppressions s WHERE s.message_id = messages.id AND s.user_id = ?)", viewerID)
}

func (r *PostgresMessageRepository) ListConversation(ctx context.Context, conversationID, viewerID uuid.UUID, offset, limit int) ([]message.Message, int64, error) {
	return r.list(ctx, "conversation_id = ?", conversationID, viewerID, offset, limit)
}

func (r *PostgresMessageRepository) ListGroup(ctx context.Context, groupID, viewerID uuid.UUID, offset, limit int) ([]message.Message, int64, error) {
	return r.list(ctx, "group_id = ?", groupID, viewerID, offset, limit)
}

func (r *PostgresMessageRepository) list(ctx context.Context, contextCond string, contextID, viewerID uuid.UUID, offset, limit int) ([]message.Message, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	base := visibleTo(r.db.WithContext(ctx).Model(&message.Message{}).Where(contextCond, contextID), viewerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []message.Message
	err := base.
		Preload("Reactions").
		Order("created_at ASC, seq ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkConversationRead flips unread messages addressed to the reader.
// Monotonic: rows already read are left alone, read never becomes unread.
func (r *PostgresMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, readerID, false).
		UpdateColumn("is_read", true).Error
}

// MarkGroupRead adds the reader to the read-by set of every message in the
// group they have not read yet.
func (r *PostgresMessageRepository) MarkGroupRead(ctx context.Context, groupID, readerID uuid.UUID) error {
	var unreadIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Select("messages.id").
		Where("group_id = ? AND sender_id <> ?", groupID, readerID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads rr WHERE rr.message_id = messages.id AND rr.user_id = ?)", readerID).
		Find(&unreadIDs).Error
	if err != nil {
		return err
	}
	if len(unreadIDs) == 0 {
		return nil
	}

	now := time.Now()
	receipts := make([]message.ReadReceipt, 0, len(unreadIDs))
	for _, id := range unreadIDs {
		receipts = append(receipts, message.ReadReceipt{MessageID: id, UserID: readerID, ReadAt: now})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&receipts).Error
}

func (r *PostgresMessageRepository) MarkDelivered(ctx context.Context, messageID, userID uuid.UUID) error {
	d := message.Delivery{MessageID: messageID, UserID: userID, DeliveredAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&d).Error
}

// UpsertReaction keeps at most one reaction per (message, user); a repeat
// call with a different type replaces the previous one.
func (r *PostgresMessageRepository) UpsertReaction(ctx context.Context, reaction *message.Reaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "created_at"}),
		}).
		Create(reaction).Error
}

func (r *PostgresMessageRepository) AddSuppression(ctx context.Context, messageID, userID uuid.UUID) error {
	s := message.Suppression{MessageID: messageID, UserID: userID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&s).Error
}

func (r *PostgresMessageRepository) SetDeletedForEveryone(ctx context.Context, messageID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", messageID).
		UpdateColumn("deleted_for_everyone", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wb_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) UnreadConversationCount(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ? AND deleted_for_everyone = ?", conversationID, userID, false, false).
		Count(&count).Error
	return count, err
}

func (r *PostgresMessageRepository) UnreadGroupCount(ctx context.Context, groupID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("group_id = ? AND sender_id <> ? AND deleted_for_everyone = ?", groupID, userID, false).
		Where("NOT EXISTS (SELECT 1 FROM message_reads rr WHERE rr.message_id = messages.id AND rr.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

func (r *PostgresMessageRepository) LastVisibleConversationMessage(ctx context.Context, conversationID, viewerID uuid.UUID) (*message.Message, error) {
	return r.lastVisible(ctx, "conversation_id = ?", conversationID, viewerID)
}

func (r *PostgresMessageRepository) LastVisibleGroupMessage(ctx context.Context, groupID, viewerID uuid.UUID) (*message.Message, error) {
	return r.lastVisible(ctx, "group_id = ?", groupID, viewerID)
}

func (r *PostgresMessageRepository) lastVisible(ctx context.Context, contextCond string, contextID, viewerID uuid.UUID) (*message.Message, error) {
	var m message.Message
	err := visibleTo(r.db.WithContext(ctx).Model(&message.Message{}).Where(contextCond, contextID), viewerID).
		Order("created_at DESC, seq DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
