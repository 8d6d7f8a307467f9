package httpdto

import (
	"time"

	"whitebeat/internal/domain/group"
)

type CreateGroupRequest struct {
	Name                  string   `json:"name"`
	Description           *string  `json:"description,omitempty"`
	AvatarURL             *string  `json:"avatar_url,omitempty"`
	MemberIDs             []string `json:"member_ids,omitempty"`
	OnlyAdminsCanSend     bool     `json:"only_admins_can_send"`
	OnlyAdminsCanEditInfo bool     `json:"only_admins_can_edit_info"`
}

type GroupMemberRequest struct {
	UserID string `json:"user_id"`
}

type SetAdminRequest struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

type UpdateGroupInfoRequest struct {
	Name                  *string `json:"name,omitempty"`
	Description           *string `json:"description,omitempty"`
	AvatarURL             *string `json:"avatar_url,omitempty"`
	OnlyAdminsCanSend     *bool   `json:"only_admins_can_send,omitempty"`
	OnlyAdminsCanEditInfo *bool   `json:"only_admins_can_edit_info,omitempty"`
}

// GroupDTO represents a group in API responses
type GroupDTO struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Description           string           `json:"description,omitempty"`
	AvatarURL             string           `json:"avatar_url,omitempty"`
	CreatedBy             string           `json:"created_by"`
	OnlyAdminsCanSend     bool             `json:"only_admins_can_send"`
	OnlyAdminsCanEditInfo bool             `json:"only_admins_can_edit_info"`
	CreatedAt             string           `json:"created_at"`
	Members               []GroupMemberDTO `json:"members,omitempty"`
}

// GroupMemberDTO represents a group member in API responses
type GroupMemberDTO struct {
	UserID   string `json:"user_id"`
	IsAdmin  bool   `json:"is_admin"`
	JoinedAt string `json:"joined_at"`
}

// GroupPreviewDTO annotates a group for the caller's group list
type GroupPreviewDTO struct {
	Group       GroupDTO    `json:"group"`
	MemberCount int64       `json:"member_count"`
	IsAdmin     bool        `json:"is_admin"`
	LastMessage *MessageDTO `json:"last_message,omitempty"`
	UnreadCount int64       `json:"unread_count"`
}

// FromGroup converts a domain group to GroupDTO
func FromGroup(g group.Group) GroupDTO {
	dto := GroupDTO{
		ID:                    g.ID.String(),
		Name:                  g.Name,
		CreatedBy:             g.CreatedBy.String(),
		OnlyAdminsCanSend:     g.OnlyAdminsCanSend,
		OnlyAdminsCanEditInfo: g.OnlyAdminsCanEditInfo,
		CreatedAt:             g.CreatedAt.Format(time.RFC3339),
	}
	if g.Description != nil {
		dto.Description = *g.Description
	}
	if g.AvatarURL != nil {
		dto.AvatarURL = *g.AvatarURL
	}
	if len(g.Members) > 0 {
		dto.Members = FromGroupMemberSlice(g.Members)
	}
	return dto
}

// FromGroupMember converts a domain member to GroupMemberDTO
func FromGroupMember(m group.Member) GroupMemberDTO {
	return GroupMemberDTO{
		UserID:   m.UserID.String(),
		IsAdmin:  m.IsAdmin,
		JoinedAt: m.JoinedAt.Format(time.RFC3339),
	}
}

// FromGroupMemberSlice converts a slice of domain members to GroupMemberDTO slice
func FromGroupMemberSlice(members []group.Member) []GroupMemberDTO {
	dtos := make([]GroupMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = FromGroupMember(m)
	}
	return dtos
}
