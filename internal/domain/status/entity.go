package status

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeText  Type = "TEXT"
	TypeImage Type = "IMAGE"
	TypeVideo Type = "VIDEO"
)

type PrivacyMode string

const (
	PrivacyEveryone PrivacyMode = "EVERYONE"
	PrivacyContacts PrivacyMode = "CONTACTS"
	PrivacySelected PrivacyMode = "SELECTED"
	PrivacyExcept   PrivacyMode = "EXCEPT"
)

type AudienceKind string

const (
	AudienceVisible AudienceKind = "VISIBLE"
	AudienceHidden  AudienceKind = "HIDDEN"
)

// DefaultTTL is applied when a status is created without an explicit expiry.
const DefaultTTL = 24 * time.Hour

// Status is an ephemeral broadcast. Expiry is a query-time predicate: the
// row is never mutated or deleted for correctness, so view records created
// before expiry remain valid for analytics.
type Status struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_statuses_owner" json:"owner_id"`

	Type            Type    `gorm:"type:varchar(16);not null" json:"type"`
	Content         *string `gorm:"type:text" json:"content,omitempty"`
	MediaURL        *string `gorm:"type:text" json:"media_url,omitempty"`
	BackgroundColor *string `gorm:"type:varchar(16)" json:"background_color,omitempty"`

	Privacy PrivacyMode `gorm:"type:varchar(16);default:'EVERYONE';not null" json:"privacy"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index:idx_statuses_expires" json:"expires_at"`

	Audience []Audience `gorm:"foreignKey:StatusID" json:"audience,omitempty"`
	Views    []View     `gorm:"foreignKey:StatusID" json:"views,omitempty"`
}

// ActiveAt reports whether the status is still in its validity window.
func (s Status) ActiveAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Audience holds the explicit allow/deny entries used only by the
// SELECTED and EXCEPT privacy modes.
type Audience struct {
	StatusID  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"status_id"`
	UserID    uuid.UUID    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Kind      AudienceKind `gorm:"type:varchar(16);not null" json:"kind"`
	CreatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// View is the idempotent (status, viewer) record.
type View struct {
	StatusID uuid.UUID `gorm:"type:uuid;primaryKey" json:"status_id"`
	ViewerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"viewer_id"`
	ViewedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"viewed_at"`
}

func (Status) TableName() string   { return "statuses" }
func (Audience) TableName() string { return "status_audience" }
func (View) TableName() string     { return "status_views" }
