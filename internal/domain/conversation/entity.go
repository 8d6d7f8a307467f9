package conversation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is exactly one 1:1 thread. The pair is stored canonically
// (UserLowID < UserHighID) so either party initiating first resolves to the
// same row; the unique index on the pair is what makes GetOrCreate race-safe.
type Conversation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserLowID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair,priority:1" json:"user_low_id"`
	UserHighID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair,priority:2" json:"user_high_id"`

	ArchivedByLow  bool `gorm:"default:false" json:"archived_by_low"`
	ArchivedByHigh bool `gorm:"default:false" json:"archived_by_high"`
	MutedByLow     bool `gorm:"default:false" json:"muted_by_low"`
	MutedByHigh    bool `gorm:"default:false" json:"muted_by_high"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_conversations_updated,sort:desc" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// CanonicalPair orders an unordered identity pair by the stable total order
// on uuid string form. Low always sorts first.
func CanonicalPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return a, b
	}
	return b, a
}

// Involves reports whether userID is one side of the thread.
func (c Conversation) Involves(userID uuid.UUID) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

// OtherSide returns the counterpart of userID.
func (c Conversation) OtherSide(userID uuid.UUID) uuid.UUID {
	if c.UserLowID == userID {
		return c.UserHighID
	}
	return c.UserLowID
}

// ArchivedFor reads the caller's own archive flag.
func (c Conversation) ArchivedFor(userID uuid.UUID) bool {
	if c.UserLowID == userID {
		return c.ArchivedByLow
	}
	return c.ArchivedByHigh
}

// MutedFor reads the caller's own mute flag.
func (c Conversation) MutedFor(userID uuid.UUID) bool {
	if c.UserLowID == userID {
		return c.MutedByLow
	}
	return c.MutedByHigh
}

// SetArchivedFor toggles only the caller's side.
func (c *Conversation) SetArchivedFor(userID uuid.UUID, archived bool) {
	if c.UserLowID == userID {
		c.ArchivedByLow = archived
		return
	}
	c.ArchivedByHigh = archived
}

// SetMutedFor toggles only the caller's side.
func (c *Conversation) SetMutedFor(userID uuid.UUID, muted bool) {
	if c.UserLowID == userID {
		c.MutedByLow = muted
		return
	}
	c.MutedByHigh = muted
}
