package proxy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"whitebeat/internal/repository"
	wb_errors "whitebeat/pkg/errors"
)

// PrivilegedFunc is the injected authorization predicate. It replaces any
// identity-provider-specific role flag; the engines never inspect roles
// directly.
type PrivilegedFunc func(userID uuid.UUID) bool

type AccessControl struct {
	conversationRepo repository.ConversationRepository
	groupRepo        repository.GroupRepository
	isPrivileged     PrivilegedFunc
}

func NewAccessControl(conversationRepo repository.ConversationRepository, groupRepo repository.GroupRepository, isPrivileged PrivilegedFunc) *AccessControl {
	if isPrivileged == nil {
		isPrivileged = func(uuid.UUID) bool { return false }
	}
	return &AccessControl{
		conversationRepo: conversationRepo,
		groupRepo:        groupRepo,
		isPrivileged:     isPrivileged,
	}
}

func (a *AccessControl) IsPrivileged(userID uuid.UUID) bool {
	return a.isPrivileged(userID)
}

// CanViewConversation admits the two sides of the thread and privileged
// identities.
func (a *AccessControl) CanViewConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if a.isPrivileged(userID) {
		return nil
	}
	if a.conversationRepo == nil {
		return wb_errors.ErrForbidden
	}
	c, err := a.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !c.Involves(userID) {
		return wb_errors.ErrForbidden
	}
	return nil
}

// CanSendToGroup is the group send gate: member, and admin when the group
// restricts sending to admins.
func (a *AccessControl) CanSendToGroup(ctx context.Context, userID, groupID uuid.UUID) error {
	g, err := a.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	m, err := a.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, wb_errors.ErrNotFound) {
			return wb_errors.ErrForbidden
		}
		return err
	}
	if g.OnlyAdminsCanSend && !m.IsAdmin {
		return wb_errors.ErrForbidden
	}
	return nil
}

// CanEditGroupInfo is the analogous gate for name/description/avatar and
// policy flag mutation.
func (a *AccessControl) CanEditGroupInfo(ctx context.Context, userID, groupID uuid.UUID) error {
	g, err := a.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	m, err := a.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, wb_errors.ErrNotFound) {
			return wb_errors.ErrForbidden
		}
		return err
	}
	if g.OnlyAdminsCanEditInfo && !m.IsAdmin {
		return wb_errors.ErrForbidden
	}
	return nil
}

// RequireGroupAdmin gates membership mutation to admins (or the privileged
// predicate).
func (a *AccessControl) RequireGroupAdmin(ctx context.Context, userID, groupID uuid.UUID) error {
	if a.isPrivileged(userID) {
		return nil
	}
	m, err := a.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, wb_errors.ErrNotFound) {
			return wb_errors.ErrForbidden
		}
		return err
	}
	if !m.IsAdmin {
		return wb_errors.ErrForbidden
	}
	return nil
}

// RequireGroupMember admits any member.
func (a *AccessControl) RequireGroupMember(ctx context.Context, userID, groupID uuid.UUID) error {
	if a.isPrivileged(userID) {
		return nil
	}
	_, err := a.groupRepo.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, wb_errors.ErrNotFound) {
			return wb_errors.ErrForbidden
		}
		return err
	}
	return nil
}
