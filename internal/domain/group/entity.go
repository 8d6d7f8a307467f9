package group

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named multi-party chat. The creator is always an initial
// member and admin; policy flags gate sending and info edits to admins.
type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	AvatarURL   *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	OnlyAdminsCanSend     bool `gorm:"default:false" json:"only_admins_can_send"`
	OnlyAdminsCanEditInfo bool `gorm:"default:false" json:"only_admins_can_edit_info"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Members []Member `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// Member carries the per-member admin flag; the admin set is this relation
// filtered on IsAdmin, never a second copy on Group.
type Member struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_group_members_user" json:"user_id"`
	IsAdmin  bool      `gorm:"default:false" json:"is_admin"`
	JoinedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joined_at"`
	AddedBy  *uuid.UUID `gorm:"type:uuid" json:"added_by,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

func (Member) TableName() string {
	return "group_members"
}
