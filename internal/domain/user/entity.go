package user

import (
	"time"

	"github.com/google/uuid"
)

type PrivacyOption string

const (
	PrivacyEveryone PrivacyOption = "EVERYONE"
	PrivacyContacts PrivacyOption = "CONTACTS"
	PrivacyNobody   PrivacyOption = "NOBODY"
)

func ValidPrivacyOption(p PrivacyOption) bool {
	switch p {
	case PrivacyEveryone, PrivacyContacts, PrivacyNobody:
		return true
	}
	return false
}

// User is the identity record the engines reference. Credentials live with
// the external identity provider, not here.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	DisplayName string    `gorm:"type:varchar(128)" json:"display_name"`
	AvatarURL   *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	About       *string   `gorm:"type:text" json:"about,omitempty"`

	IsOnline   bool       `gorm:"default:false" json:"is_online"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`

	PhotoPrivacy    PrivacyOption `gorm:"type:varchar(16);default:'EVERYONE'" json:"photo_privacy"`
	StatusPrivacy   PrivacyOption `gorm:"type:varchar(16);default:'EVERYONE'" json:"status_privacy"`
	LastSeenPrivacy PrivacyOption `gorm:"type:varchar(16);default:'EVERYONE'" json:"last_seen_privacy"`

	// TotalMessages is a running counter bumped on every successful send.
	TotalMessages int64 `gorm:"default:0" json:"total_messages"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Contact is one edge of the owner's annotated adjacency set.
type Contact struct {
	OwnerID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"owner_id"`
	ContactID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"contact_id"`
	Nickname   *string   `gorm:"type:varchar(128)" json:"nickname,omitempty"`
	IsBlocked  bool      `gorm:"default:false" json:"is_blocked"`
	IsFavorite bool      `gorm:"default:false" json:"is_favorite"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Contact) TableName() string {
	return "user_contacts"
}
