package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/call"
	"whitebeat/internal/domain/message"
	wb_errors "whitebeat/pkg/errors"
)

func initiateDirectCall(t *testing.T, env *testEnv, caller, receiver uuid.UUID) call.Call {
	t.Helper()
	c, err := env.calls.Initiate(context.Background(), commands.InitiateCallCommand{
		CallerID: caller,
		Target:   message.DirectTarget(receiver),
		Type:     call.TypeAudio,
	})
	require.NoError(t, err)
	return c
}

func TestInitiateAssignsSessionToken(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	first := initiateDirectCall(t, env, alice.ID, bob.ID)
	second := initiateDirectCall(t, env, alice.ID, bob.ID)

	assert.Equal(t, call.StatusInitiated, first.Status)
	assert.NotEmpty(t, first.SessionToken)
	assert.NotEqual(t, first.SessionToken, second.SessionToken)
}

func TestCompletedCallDuration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	env.calls.WithClock(fixedClock(base))
	c := initiateDirectCall(t, env, alice.ID, bob.ID)

	_, err := env.calls.Transition(ctx, commands.TransitionCallCommand{
		ActorID: bob.ID, CallID: c.ID, To: call.StatusRinging,
	})
	require.NoError(t, err)

	env.calls.WithClock(fixedClock(base.Add(5 * time.Second)))
	_, err = env.calls.Transition(ctx, commands.TransitionCallCommand{
		ActorID: bob.ID, CallID: c.ID, To: call.StatusOngoing,
	})
	require.NoError(t, err)

	env.calls.WithClock(fixedClock(base.Add(100 * time.Second)))
	done, err := env.calls.Transition(ctx, commands.TransitionCallCommand{
		ActorID: alice.ID, CallID: c.ID, To: call.StatusCompleted,
	})
	require.NoError(t, err)

	assert.Equal(t, call.StatusCompleted, done.Status)
	assert.EqualValues(t, 95, done.DurationSeconds)
	require.NotNil(t, done.EndedAt)
}

func TestUnansweredCallHasZeroDuration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	c := initiateDirectCall(t, env, alice.ID, bob.ID)

	missed, err := env.calls.Transition(ctx, commands.TransitionCallCommand{
		ActorID: bob.ID, CallID: c.ID, To: call.StatusMissed,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, missed.DurationSeconds)
	assert.Nil(t, missed.AnsweredAt)
}

func TestCompleteWithoutAnswerIsInvalid(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	c := initiateDirectCall(t, env, alice.ID, bob.ID)

	_, err := env.calls.Transition(context.Background(), commands.TransitionCallCommand{
		ActorID: bob.ID, CallID: c.ID, To: call.StatusCompleted,
	})
	assert.ErrorIs(t, err, wb_errors.ErrInvalidState)
}

func TestTerminalCallRejectsTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	c := initiateDirectCall(t, env, alice.ID, bob.ID)

	_, err := env.calls.Transition(ctx, commands.TransitionCallCommand{
		ActorID: bob.ID, CallID: c.ID, To: call.StatusRejected,
	})
	require.NoError(t, err)

	_, err = env.calls.Transition(ctx, commands.TransitionCallCommand{
		ActorID: bob.ID, CallID: c.ID, To: call.StatusOngoing,
	})
	assert.ErrorIs(t, err, wb_errors.ErrInvalidState)
}

func TestTransitionByStrangerForbidden(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")
	c := initiateDirectCall(t, env, alice.ID, bob.ID)

	_, err := env.calls.Transition(context.Background(), commands.TransitionCallCommand{
		ActorID: eve.ID, CallID: c.ID, To: call.StatusOngoing,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)
}

func TestGroupCallRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")
	g := env.createGroup(t, alice.ID, "callers", bob.ID)

	_, err := env.calls.Initiate(ctx, commands.InitiateCallCommand{
		CallerID: eve.ID,
		Target:   message.GroupTarget(g.ID),
		Type:     call.TypeVideo,
	})
	assert.ErrorIs(t, err, wb_errors.ErrForbidden)

	c, err := env.calls.Initiate(ctx, commands.InitiateCallCommand{
		CallerID: alice.ID,
		Target:   message.GroupTarget(g.ID),
		Type:     call.TypeVideo,
	})
	require.NoError(t, err)
	require.NotNil(t, c.GroupID)
	assert.Equal(t, g.ID, *c.GroupID)
}

func TestHistoryAnnotatesDirection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	initiateDirectCall(t, env, alice.ID, bob.ID)
	initiateDirectCall(t, env, bob.ID, alice.ID)

	records, err := env.calls.HistoryFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		if r.Call.CallerID == alice.ID {
			assert.False(t, r.IsIncoming)
		} else {
			assert.True(t, r.IsIncoming)
		}
	}
}
