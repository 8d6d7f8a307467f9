package call

import (
	"time"

	"github.com/google/uuid"

	wb_errors "whitebeat/pkg/errors"
)

type Type string

const (
	TypeAudio Type = "AUDIO"
	TypeVideo Type = "VIDEO"
)

type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusRinging   Status = "RINGING"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusMissed    Status = "MISSED"
	StatusRejected  Status = "REJECTED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether s accepts no further transitions.
func Terminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusMissed, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// PreAnswer treats INITIATED and RINGING alike as "not yet answered".
func PreAnswer(s Status) bool {
	return s == StatusInitiated || s == StatusRinging
}

// Call is one voice/video session, direct (receiver set) or group (group
// set). SessionToken is the out-of-band signaling room identifier.
type Call struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CallerID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_calls_caller" json:"caller_id"`
	ReceiverID *uuid.UUID `gorm:"type:uuid;index:idx_calls_receiver" json:"receiver_id,omitempty"`
	GroupID    *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`

	Type   Type   `gorm:"type:varchar(16);not null" json:"type"`
	Status Status `gorm:"type:varchar(16);default:'INITIATED';not null" json:"status"`

	SessionToken string `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_token"`

	StartedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"started_at"`
	AnsweredAt      *time.Time `json:"answered_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int64      `gorm:"default:0" json:"duration_seconds"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Call) TableName() string {
	return "calls"
}

// Transition applies the state machine:
//
//	INITIATED/RINGING -> ONGOING -> COMPLETED
//	INITIATED/RINGING -> MISSED | REJECTED | FAILED
//
// ONGOING stamps AnsweredAt exactly once. Terminal states stamp EndedAt and
// derive the duration in whole seconds from AnsweredAt; a call that was
// never answered keeps duration 0. COMPLETED from a pre-answer state is
// rejected: unanswered calls end as missed, rejected or failed.
func (c *Call) Transition(to Status, now time.Time) error {
	if Terminal(c.Status) {
		return wb_errors.ErrInvalidState
	}

	switch to {
	case StatusRinging:
		if !PreAnswer(c.Status) {
			return wb_errors.ErrInvalidState
		}
		c.Status = StatusRinging
		return nil

	case StatusOngoing:
		if c.AnsweredAt == nil {
			answered := now
			c.AnsweredAt = &answered
		}
		c.Status = StatusOngoing
		return nil

	case StatusCompleted:
		if c.AnsweredAt == nil {
			return wb_errors.ErrInvalidState
		}
		return c.end(to, now)

	case StatusMissed, StatusRejected, StatusFailed:
		return c.end(to, now)
	}

	return wb_errors.ErrInvalidState
}

func (c *Call) end(to Status, now time.Time) error {
	ended := now
	c.EndedAt = &ended
	if c.AnsweredAt != nil {
		c.DurationSeconds = int64(ended.Sub(*c.AnsweredAt).Seconds())
	}
	c.Status = to
	return nil
}

// IsIncoming reports direction relative to a viewer.
func (c Call) IsIncoming(viewer uuid.UUID) bool {
	return c.CallerID != viewer
}
