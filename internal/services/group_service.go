package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/group"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/proxy"
	"whitebeat/internal/repository"
	wb_errors "whitebeat/pkg/errors"
)

// CreateGroupResult carries the partial-success outcome: the group is
// created even when some invited identities cannot be resolved.
type CreateGroupResult struct {
	Group   group.Group
	Skipped []uuid.UUID
}

// GroupPreview is the caller-relative read model for the group list.
type GroupPreview struct {
	Group       group.Group
	MemberCount int64
	IsAdmin     bool
	LastMessage *message.Message
	UnreadCount int64
}

type GroupService struct {
	repo        repository.GroupRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	access      *proxy.AccessControl
	audit       *AuditPublisher
	bus         *commands.Bus
}

func NewGroupService(repo repository.GroupRepository, userRepo repository.UserRepository, messageRepo repository.MessageRepository, access *proxy.AccessControl, audit *AuditPublisher, bus *commands.Bus) *GroupService {
	if bus == nil {
		bus = commands.NewBus()
	}
	svc := &GroupService{repo: repo, userRepo: userRepo, messageRepo: messageRepo, access: access, audit: audit, bus: bus}
	svc.RegisterHandlers(bus)
	return svc
}

func (s *GroupService) RegisterHandlers(bus *commands.Bus) {
	if bus == nil {
		return
	}
	bus.Register("group.create", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.CreateGroupCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeCreate(ctx, typed)
	}))
	bus.Register("group.add_member", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.AddMemberCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeAddMember(ctx, typed)
	}))
	bus.Register("group.remove_member", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.RemoveMemberCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeRemoveMember(ctx, typed)
	}))
	bus.Register("group.set_admin", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.SetAdminCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeSetAdmin(ctx, typed)
	}))
	bus.Register("group.update_info", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.UpdateGroupInfoCommand)
		if !ok {
			return commands.Result{}, wb_errors.ErrInvalidArgument
		}
		return s.executeUpdateInfo(ctx, typed)
	}))
}

// Create inserts the group with the creator as member+admin atomically,
// then attempts each invited member independently. Unresolvable invitees
// are reported back, never rolled back over.
func (s *GroupService) Create(ctx context.Context, cmd commands.CreateGroupCommand) (CreateGroupResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateGroupResult{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return CreateGroupResult{}, err
	}
	return res.Payload.(CreateGroupResult), nil
}

func (s *GroupService) executeCreate(ctx context.Context, cmd commands.CreateGroupCommand) (commands.Result, error) {
	now := time.Now()
	g := &group.Group{
		ID:                    uuid.New(),
		Name:                  cmd.Name,
		Description:           cmd.Description,
		AvatarURL:             cmd.AvatarURL,
		CreatedBy:             cmd.CreatorID,
		OnlyAdminsCanSend:     cmd.OnlyAdminsCanSend,
		OnlyAdminsCanEditInfo: cmd.OnlyAdminsCanEditInfo,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	creator := &group.Member{
		GroupID:  g.ID,
		UserID:   cmd.CreatorID,
		IsAdmin:  true,
		JoinedAt: now,
	}
	if err := s.repo.Create(ctx, g, creator); err != nil {
		return commands.Result{}, err
	}

	var skipped []uuid.UUID
	for _, memberID := range cmd.MemberIDs {
		if memberID == cmd.CreatorID {
			continue
		}
		if _, err := s.userRepo.GetByID(ctx, memberID); err != nil {
			skipped = append(skipped, memberID)
			continue
		}
		addedBy := cmd.CreatorID
		m := &group.Member{GroupID: g.ID, UserID: memberID, JoinedAt: time.Now(), AddedBy: &addedBy}
		if err := s.repo.AddMember(ctx, m); err != nil {
			skipped = append(skipped, memberID)
		}
	}

	s.audit.Record(ctx, cmd.CreatorID, "group.created", "group", g.ID.String(), map[string]interface{}{"name": g.Name})

	created, err := s.repo.GetByID(ctx, g.ID)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Result{AggregateID: g.ID.String(), Payload: CreateGroupResult{Group: created, Skipped: skipped}}, nil
}

// AddMember is admin-gated and idempotent: adding an existing member is a
// no-op success.
func (s *GroupService) AddMember(ctx context.Context, cmd commands.AddMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	_, err := s.bus.Execute(ctx, cmd)
	return err
}

func (s *GroupService) executeAddMember(ctx context.Context, cmd commands.AddMemberCommand) (commands.Result, error) {
	if err := s.access.RequireGroupAdmin(ctx, cmd.ActorID, cmd.GroupID); err != nil {
		return commands.Result{}, err
	}
	if _, err := s.userRepo.GetByID(ctx, cmd.TargetID); err != nil {
		return commands.Result{}, err
	}
	addedBy := cmd.ActorID
	m := &group.Member{GroupID: cmd.GroupID, UserID: cmd.TargetID, JoinedAt: time.Now(), AddedBy: &addedBy}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.ActorID, "group.member_added", "group", cmd.GroupID.String(), map[string]interface{}{"user_id": cmd.TargetID.String()})
	return commands.Result{AggregateID: cmd.GroupID.String()}, nil
}

// RemoveMember is admin-gated; removing a non-member succeeds without
// effect and historical messages keep their sender references.
func (s *GroupService) RemoveMember(ctx context.Context, cmd commands.RemoveMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	_, err := s.bus.Execute(ctx, cmd)
	return err
}

func (s *GroupService) executeRemoveMember(ctx context.Context, cmd commands.RemoveMemberCommand) (commands.Result, error) {
	if err := s.access.RequireGroupAdmin(ctx, cmd.ActorID, cmd.GroupID); err != nil {
		return commands.Result{}, err
	}
	if err := s.repo.RemoveMember(ctx, cmd.GroupID, cmd.TargetID); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.ActorID, "group.member_removed", "group", cmd.GroupID.String(), map[string]interface{}{"user_id": cmd.TargetID.String()})
	return commands.Result{AggregateID: cmd.GroupID.String()}, nil
}

// SetAdmin promotes or demotes a member. Demoting the creator is rejected.
func (s *GroupService) SetAdmin(ctx context.Context, cmd commands.SetAdminCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	_, err := s.bus.Execute(ctx, cmd)
	return err
}

func (s *GroupService) executeSetAdmin(ctx context.Context, cmd commands.SetAdminCommand) (commands.Result, error) {
	if err := s.access.RequireGroupAdmin(ctx, cmd.ActorID, cmd.GroupID); err != nil {
		return commands.Result{}, err
	}
	g, err := s.repo.GetByID(ctx, cmd.GroupID)
	if err != nil {
		return commands.Result{}, err
	}
	if !cmd.IsAdmin && g.CreatedBy == cmd.TargetID {
		return commands.Result{}, wb_errors.ErrForbidden
	}
	if err := s.repo.SetAdmin(ctx, cmd.GroupID, cmd.TargetID, cmd.IsAdmin); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.ActorID, "group.admin_set", "group", cmd.GroupID.String(), map[string]interface{}{"user_id": cmd.TargetID.String(), "is_admin": cmd.IsAdmin})
	return commands.Result{AggregateID: cmd.GroupID.String()}, nil
}

// UpdateInfo mutates name/description/avatar/policy behind the edit-info
// gate.
func (s *GroupService) UpdateInfo(ctx context.Context, cmd commands.UpdateGroupInfoCommand) (group.Group, error) {
	if err := cmd.Validate(); err != nil {
		return group.Group{}, err
	}
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return group.Group{}, err
	}
	return res.Payload.(group.Group), nil
}

func (s *GroupService) executeUpdateInfo(ctx context.Context, cmd commands.UpdateGroupInfoCommand) (commands.Result, error) {
	if err := s.access.CanEditGroupInfo(ctx, cmd.ActorID, cmd.GroupID); err != nil {
		return commands.Result{}, err
	}
	g, err := s.repo.GetByID(ctx, cmd.GroupID)
	if err != nil {
		return commands.Result{}, err
	}
	if cmd.Name != nil {
		g.Name = *cmd.Name
	}
	if cmd.Description != nil {
		g.Description = cmd.Description
	}
	if cmd.AvatarURL != nil {
		g.AvatarURL = cmd.AvatarURL
	}
	if cmd.OnlyAdminsCanSend != nil {
		g.OnlyAdminsCanSend = *cmd.OnlyAdminsCanSend
	}
	if cmd.OnlyAdminsCanEditInfo != nil {
		g.OnlyAdminsCanEditInfo = *cmd.OnlyAdminsCanEditInfo
	}
	g.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, g); err != nil {
		return commands.Result{}, err
	}
	s.audit.Record(ctx, cmd.ActorID, "group.info_updated", "group", g.ID.String(), nil)
	return commands.Result{AggregateID: g.ID.String(), Payload: g}, nil
}

// Leave removes the caller's own membership; no admin gate.
func (s *GroupService) Leave(ctx context.Context, userID, groupID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, groupID); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.audit.Record(ctx, userID, "group.left", "group", groupID.String(), nil)
	return nil
}

func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (group.Group, error) {
	return s.repo.GetByID(ctx, id)
}

// AuthorizeSend is the gate the message engine consults before persisting
// a group message.
func (s *GroupService) AuthorizeSend(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	err := s.access.CanSendToGroup(ctx, userID, groupID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, wb_errors.ErrForbidden) {
		return false, nil
	}
	return false, err
}

// AuthorizeEditInfo is the analogous gate for info mutation.
func (s *GroupService) AuthorizeEditInfo(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	err := s.access.CanEditGroupInfo(ctx, userID, groupID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, wb_errors.ErrForbidden) {
		return false, nil
	}
	return false, err
}

// ListFor assembles the caller-relative group previews.
func (s *GroupService) ListFor(ctx context.Context, userID uuid.UUID) ([]GroupPreview, error) {
	groups, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	previews := make([]GroupPreview, 0, len(groups))
	for _, g := range groups {
		count, err := s.repo.MemberCount(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		isAdmin := false
		for _, m := range g.Members {
			if m.UserID == userID && m.IsAdmin {
				isAdmin = true
				break
			}
		}
		last, err := s.messageRepo.LastVisibleGroupMessage(ctx, g.ID, userID)
		if err != nil {
			return nil, err
		}
		unread, err := s.messageRepo.UnreadGroupCount(ctx, g.ID, userID)
		if err != nil {
			return nil, err
		}
		previews = append(previews, GroupPreview{
			Group:       g,
			MemberCount: count,
			IsAdmin:     isAdmin,
			LastMessage: last,
			UnreadCount: unread,
		})
	}
	return previews, nil
}
