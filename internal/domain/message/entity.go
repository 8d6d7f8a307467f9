package message

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeText     Type = "TEXT"
	TypeImage    Type = "IMAGE"
	TypeVideo    Type = "VIDEO"
	TypeAudio    Type = "AUDIO"
	TypeDocument Type = "DOCUMENT"
	TypeLocation Type = "LOCATION"
	TypeContact  Type = "CONTACT"
	TypeSticker  Type = "STICKER"
	TypeGif      Type = "GIF"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "LIKE"
	ReactionLove  ReactionType = "LOVE"
	ReactionLaugh ReactionType = "LAUGH"
	ReactionWow   ReactionType = "WOW"
	ReactionSad   ReactionType = "SAD"
	ReactionAngry ReactionType = "ANGRY"
)

// ValidReactionType reports membership in the fixed reaction set.
func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Message belongs to exactly one addressing context: ConversationID xor
// GroupID. ReceiverID is set only for the direct case. DeletedForEveryone is
// retained for audit; readers must treat content as gone once it is set.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID *uuid.UUID `gorm:"type:uuid;index:idx_messages_conversation" json:"conversation_id,omitempty"`
	GroupID        *uuid.UUID `gorm:"type:uuid;index:idx_messages_group" json:"group_id,omitempty"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null" json:"sender_id"`
	ReceiverID     *uuid.UUID `gorm:"type:uuid" json:"receiver_id,omitempty"`

	// Seq is per-context monotonic, assigned inside the send transaction.
	// Lists order by (created_at, seq) so equal timestamps stay stable.
	Seq int64 `gorm:"not null" json:"seq"`

	Type     Type    `gorm:"type:varchar(16);default:'TEXT';not null" json:"type"`
	Content  *string `gorm:"type:text" json:"content,omitempty"`
	MediaURL *string `gorm:"type:text" json:"media_url,omitempty"`

	ReplyToID   *uuid.UUID `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	IsForwarded bool       `gorm:"default:false" json:"is_forwarded"`

	IsRead             bool `gorm:"default:false" json:"is_read"`
	DeletedForEveryone bool `gorm:"default:false" json:"deleted_for_everyone"`

	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`

	Reactions []Reaction `gorm:"foreignKey:MessageID" json:"reactions,omitempty"`
}

// Reaction is the single reaction a user holds on a message; a second
// reaction overwrites via upsert on the composite key.
type Reaction struct {
	MessageID uuid.UUID    `gorm:"type:uuid;primaryKey" json:"message_id"`
	UserID    uuid.UUID    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Type      ReactionType `gorm:"type:varchar(16);not null" json:"type"`
	CreatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ReadReceipt records a group member having read a message.
type ReadReceipt struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey" json:"message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReadAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"read_at"`
}

// Delivery records delivery to one recipient device-agnostically.
type Delivery struct {
	MessageID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"message_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DeliveredAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"delivered_at"`
}

// Suppression is a per-(message,user) local-delete record. A shared flag
// would conflate "delete for me" with "delete for everyone".
type Suppression struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey" json:"message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Sequence is the per-context counter incremented inside the send
// transaction to assign Message.Seq.
type Sequence struct {
	ContextKind string    `gorm:"type:varchar(16);primaryKey" json:"context_kind"`
	ContextID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"context_id"`
	LastSeq     int64     `gorm:"not null;default:0" json:"last_seq"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Message) TableName() string     { return "messages" }
func (Reaction) TableName() string    { return "message_reactions" }
func (ReadReceipt) TableName() string { return "message_reads" }
func (Delivery) TableName() string    { return "message_deliveries" }
func (Suppression) TableName() string { return "message_suppressions" }
func (Sequence) TableName() string    { return "chat_sequences" }
