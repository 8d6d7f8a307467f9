package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/group"
	"whitebeat/internal/domain/message"
	"whitebeat/internal/domain/user"
	"whitebeat/internal/proxy"
	"whitebeat/internal/repository"
	"whitebeat/internal/testutil"
)

type testEnv struct {
	db *gorm.DB

	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	groupRepo        repository.GroupRepository
	messageRepo      repository.MessageRepository
	statusRepo       repository.StatusRepository
	callRepo         repository.CallRepository

	access *proxy.AccessControl

	users         *UserService
	conversations *ConversationService
	groups        *GroupService
	messages      *MessageService
	statuses      *StatusService
	calls         *CallService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tdb := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { tdb.Teardown(t) })
	db := tdb.DB

	env := &testEnv{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		conversationRepo: repository.NewConversationRepository(db),
		groupRepo:        repository.NewGroupRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		statusRepo:       repository.NewStatusRepository(db),
		callRepo:         repository.NewCallRepository(db),
	}
	env.access = proxy.NewAccessControl(env.conversationRepo, env.groupRepo, nil)

	env.users = NewUserService(env.userRepo, nil, nil)
	env.conversations = NewConversationService(env.conversationRepo, env.messageRepo, nil)
	env.groups = NewGroupService(env.groupRepo, env.userRepo, env.messageRepo, env.access, nil, nil)
	env.messages = NewMessageService(db, env.messageRepo, env.conversationRepo, env.userRepo, env.access, nil, nil)
	env.statuses = NewStatusService(env.statusRepo, env.userRepo, nil)
	env.calls = NewCallService(env.callRepo, env.access, nil, nil)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string) user.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), username, username)
	require.NoError(t, err)
	return u
}

func (e *testEnv) createGroup(t *testing.T, creator uuid.UUID, name string, members ...uuid.UUID) group.Group {
	t.Helper()
	result, err := e.groups.Create(context.Background(), commands.CreateGroupCommand{
		CreatorID: creator,
		Name:      name,
		MemberIDs: members,
	})
	require.NoError(t, err)
	require.Empty(t, result.Skipped)
	return result.Group
}

func (e *testEnv) sendDirect(t *testing.T, sender, receiver uuid.UUID, content string) message.Message {
	t.Helper()
	msg, err := e.messages.Send(context.Background(), commands.SendMessageCommand{
		SenderID: sender,
		Target:   message.DirectTarget(receiver),
		Content:  &content,
	})
	require.NoError(t, err)
	return msg
}

func (e *testEnv) sendToGroup(t *testing.T, sender, groupID uuid.UUID, content string) message.Message {
	t.Helper()
	msg, err := e.messages.Send(context.Background(), commands.SendMessageCommand{
		SenderID: sender,
		Target:   message.GroupTarget(groupID),
		Content:  &content,
	})
	require.NoError(t, err)
	return msg
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
