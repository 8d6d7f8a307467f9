package httpdto

import (
	"time"

	"whitebeat/internal/domain/user"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName     *string `json:"display_name,omitempty"`
	About           *string `json:"about,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	PhotoPrivacy    *string `json:"photo_privacy,omitempty"`
	StatusPrivacy   *string `json:"status_privacy,omitempty"`
	LastSeenPrivacy *string `json:"last_seen_privacy,omitempty"`
}

type AddContactRequest struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname,omitempty"`
}

type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	About           string `json:"about,omitempty"`
	IsOnline        bool   `json:"is_online"`
	LastSeenAt      string `json:"last_seen_at,omitempty"`
	PhotoPrivacy    string `json:"photo_privacy"`
	StatusPrivacy   string `json:"status_privacy"`
	LastSeenPrivacy string `json:"last_seen_privacy"`
	TotalMessages   int64  `json:"total_messages"`
	CreatedAt       string `json:"created_at"`
}

// ContactDTO represents a contact edge in API responses
type ContactDTO struct {
	ContactID  string `json:"contact_id"`
	Nickname   string `json:"nickname,omitempty"`
	IsBlocked  bool   `json:"is_blocked"`
	IsFavorite bool   `json:"is_favorite"`
	CreatedAt  string `json:"created_at"`
}

// FromUser converts a domain user to UserDTO
func FromUser(u user.User) UserDTO {
	dto := UserDTO{
		ID:              u.ID.String(),
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		IsOnline:        u.IsOnline,
		PhotoPrivacy:    string(u.PhotoPrivacy),
		StatusPrivacy:   string(u.StatusPrivacy),
		LastSeenPrivacy: string(u.LastSeenPrivacy),
		TotalMessages:   u.TotalMessages,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
	if u.AvatarURL != nil {
		dto.AvatarURL = *u.AvatarURL
	}
	if u.About != nil {
		dto.About = *u.About
	}
	if u.LastSeenAt != nil {
		dto.LastSeenAt = u.LastSeenAt.Format(time.RFC3339)
	}
	return dto
}

// FromContact converts a domain contact to ContactDTO
func FromContact(c user.Contact) ContactDTO {
	dto := ContactDTO{
		ContactID:  c.ContactID.String(),
		IsBlocked:  c.IsBlocked,
		IsFavorite: c.IsFavorite,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
	if c.Nickname != nil {
		dto.Nickname = *c.Nickname
	}
	return dto
}

// FromContactSlice converts a slice of domain contacts to ContactDTO slice
func FromContactSlice(contacts []user.Contact) []ContactDTO {
	dtos := make([]ContactDTO, len(contacts))
	for i, c := range contacts {
		dtos[i] = FromContact(c)
	}
	return dtos
}
