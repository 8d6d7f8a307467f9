package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/message"
	wb_errors "whitebeat/pkg/errors"
)

func TestCreateGroupSkipsUnknownInvitees(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	ghost := uuid.New()

	result, err := env.groups.Create(ctx, commands.CreateGroupCommand{
		CreatorID: alice.ID,
		Name:      "weekend plans",
		MemberIDs: []uuid.UUID{bob.ID, ghost},
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{ghost}, result.Skipped)

	members, err := env.groupRepo.ListMembers(ctx, result.Group.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestCreatorIsAdminMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	g := env.createGroup(t, alice.ID, "family")

	m, err := env.groupRepo.GetMember(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, m.IsAdmin)
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	g := env.createGroup(t, alice.ID, "team", bob.ID)

	err := env.groups.AddMember(ctx, commands.AddMemberCommand{
		ActorID:  bob.ID,
		GroupID:  g.ID,
		TargetID: carol.ID,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)

	err = env.groups.AddMember(ctx, commands.AddMemberCommand{
		ActorID:  alice.ID,
		GroupID:  g.ID,
		TargetID: carol.ID,
	})
	require.NoError(t, err)
}

func TestAddMemberIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	g := env.createGroup(t, alice.ID, "team", bob.ID)

	err := env.groups.AddMember(ctx, commands.AddMemberCommand{
		ActorID:  alice.ID,
		GroupID:  g.ID,
		TargetID: bob.ID,
	})
	require.NoError(t, err)

	members, err := env.groupRepo.ListMembers(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRemoveNonMemberIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	carol := env.createUser(t, "carol")
	g := env.createGroup(t, alice.ID, "team")

	err := env.groups.RemoveMember(ctx, commands.RemoveMemberCommand{
		ActorID:  alice.ID,
		GroupID:  g.ID,
		TargetID: carol.ID,
	})
	assert.NoError(t, err)
}

func TestRemovedMemberKeepsHistoricalMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	g := env.createGroup(t, alice.ID, "team", bob.ID)

	sent := env.sendToGroup(t, bob.ID, g.ID, "before removal")

	require.NoError(t, env.groups.RemoveMember(ctx, commands.RemoveMemberCommand{
		ActorID:  alice.ID,
		GroupID:  g.ID,
		TargetID: bob.ID,
	}))

	page, err := env.messages.ListGroup(ctx, g.ID, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, sent.ID, page.Messages[0].ID)
	assert.Equal(t, bob.ID, page.Messages[0].SenderID)
}

func TestDemotingCreatorIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	g := env.createGroup(t, alice.ID, "team", bob.ID)

	require.NoError(t, env.groups.SetAdmin(ctx, commands.SetAdminCommand{
		ActorID: alice.ID, GroupID: g.ID, TargetID: bob.ID, IsAdmin: true,
	}))

	err := env.groups.SetAdmin(ctx, commands.SetAdminCommand{
		ActorID: bob.ID, GroupID: g.ID, TargetID: alice.ID, IsAdmin: false,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)
}

func TestOnlyAdminsCanSendPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	result, err := env.groups.Create(ctx, commands.CreateGroupCommand{
		CreatorID:         alice.ID,
		Name:              "announcements",
		MemberIDs:         []uuid.UUID{bob.ID},
		OnlyAdminsCanSend: true,
	})
	require.NoError(t, err)
	g := result.Group

	content := "members only"
	_, err = env.messages.Send(ctx, commands.SendMessageCommand{
		SenderID: bob.ID,
		Target:   message.GroupTarget(g.ID),
		Content:  &content,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)

	env.sendToGroup(t, alice.ID, g.ID, "admins can")

	allowed, err := env.groups.AuthorizeSend(ctx, alice.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = env.groups.AuthorizeSend(ctx, bob.ID, g.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestNonMemberSendIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	eve := env.createUser(t, "eve")
	g := env.createGroup(t, alice.ID, "private")

	content := "let me in"
	_, err := env.messages.Send(ctx, commands.SendMessageCommand{
		SenderID: eve.ID,
		Target:   message.GroupTarget(g.ID),
		Content:  &content,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)
}

func TestUpdateInfoPolicyGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	result, err := env.groups.Create(ctx, commands.CreateGroupCommand{
		CreatorID:             alice.ID,
		Name:                  "locked",
		MemberIDs:             []uuid.UUID{bob.ID},
		OnlyAdminsCanEditInfo: true,
	})
	require.NoError(t, err)

	name := "renamed"
	_, err = env.groups.UpdateInfo(ctx, commands.UpdateGroupInfoCommand{
		ActorID: bob.ID,
		GroupID: result.Group.ID,
		Name:    &name,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)

	updated, err := env.groups.UpdateInfo(ctx, commands.UpdateGroupInfoCommand{
		ActorID: alice.ID,
		GroupID: result.Group.ID,
		Name:    &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestLeaveGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	g := env.createGroup(t, alice.ID, "team", bob.ID)

	require.NoError(t, env.groups.Leave(ctx, bob.ID, g.ID))

	_, err := env.groupRepo.GetMember(ctx, g.ID, bob.ID)
	assert.ErrorIs(t, err, wb_errors.ErrNotFound)
}
