package commands

import (
	"fmt"

	"github.com/google/uuid"

	wb_errors "whitebeat/pkg/errors"
)

type CreateGroupCommand struct {
	CreatorID             uuid.UUID
	Name                  string
	Description           *string
	AvatarURL             *string
	MemberIDs             []uuid.UUID
	OnlyAdminsCanSend     bool
	OnlyAdminsCanEditInfo bool
}

func (c CreateGroupCommand) CommandType() string { return "group.create" }

func (c CreateGroupCommand) Validate() error {
	if c.CreatorID == uuid.Nil || c.Name == "" {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c CreateGroupCommand) IdempotencyKey() string { return "" }

type AddMemberCommand struct {
	ActorID  uuid.UUID
	GroupID  uuid.UUID
	TargetID uuid.UUID
}

func (c AddMemberCommand) CommandType() string { return "group.add_member" }

func (c AddMemberCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.GroupID == uuid.Nil || c.TargetID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c AddMemberCommand) IdempotencyKey() string {
	return fmt.Sprintf("group.add_member:%s:%s", c.GroupID, c.TargetID)
}

type RemoveMemberCommand struct {
	ActorID  uuid.UUID
	GroupID  uuid.UUID
	TargetID uuid.UUID
}

func (c RemoveMemberCommand) CommandType() string { return "group.remove_member" }

func (c RemoveMemberCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.GroupID == uuid.Nil || c.TargetID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c RemoveMemberCommand) IdempotencyKey() string {
	return fmt.Sprintf("group.remove_member:%s:%s", c.GroupID, c.TargetID)
}

type SetAdminCommand struct {
	ActorID  uuid.UUID
	GroupID  uuid.UUID
	TargetID uuid.UUID
	IsAdmin  bool
}

func (c SetAdminCommand) CommandType() string { return "group.set_admin" }

func (c SetAdminCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.GroupID == uuid.Nil || c.TargetID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c SetAdminCommand) IdempotencyKey() string { return "" }

type UpdateGroupInfoCommand struct {
	ActorID               uuid.UUID
	GroupID               uuid.UUID
	Name                  *string
	Description           *string
	AvatarURL             *string
	OnlyAdminsCanSend     *bool
	OnlyAdminsCanEditInfo *bool
}

func (c UpdateGroupInfoCommand) CommandType() string { return "group.update_info" }

func (c UpdateGroupInfoCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.GroupID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	if c.Name != nil && *c.Name == "" {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c UpdateGroupInfoCommand) IdempotencyKey() string { return "" }
