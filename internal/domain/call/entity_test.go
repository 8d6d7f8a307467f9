package call

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wb_errors "whitebeat/pkg/errors"
)

func newCall() *Call {
	receiver := uuid.New()
	return &Call{
		ID:           uuid.New(),
		CallerID:     uuid.New(),
		ReceiverID:   &receiver,
		Type:         TypeAudio,
		Status:       StatusInitiated,
		SessionToken: uuid.NewString(),
		StartedAt:    time.Now(),
	}
}

func TestTransitionAnsweredAndCompleted(t *testing.T) {
	c := newCall()
	answered := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	ended := answered.Add(95 * time.Second)

	require.NoError(t, c.Transition(StatusRinging, answered.Add(-5*time.Second)))
	require.NoError(t, c.Transition(StatusOngoing, answered))
	require.NotNil(t, c.AnsweredAt)
	require.NoError(t, c.Transition(StatusCompleted, ended))

	require.NotNil(t, c.EndedAt)
	assert.Equal(t, int64(95), c.DurationSeconds)
	assert.Equal(t, StatusCompleted, c.Status)
}

func TestTransitionOngoingDoesNotRestamp(t *testing.T) {
	c := newCall()
	first := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, c.Transition(StatusOngoing, first))
	require.NoError(t, c.Transition(StatusOngoing, first.Add(time.Minute)))

	require.NotNil(t, c.AnsweredAt)
	assert.True(t, c.AnsweredAt.Equal(first))
}

func TestTransitionUnansweredHasZeroDuration(t *testing.T) {
	for _, terminal := range []Status{StatusMissed, StatusRejected, StatusFailed} {
		c := newCall()
		require.NoError(t, c.Transition(terminal, time.Now()))
		assert.Equal(t, int64(0), c.DurationSeconds)
		assert.NotNil(t, c.EndedAt)
		assert.Nil(t, c.AnsweredAt)
	}
}

func TestTransitionCompletedRequiresAnswer(t *testing.T) {
	c := newCall()
	err := c.Transition(StatusCompleted, time.Now())
	assert.ErrorIs(t, err, wb_errors.ErrInvalidState)
	assert.Equal(t, StatusInitiated, c.Status)
}

func TestTransitionOutOfTerminalRejected(t *testing.T) {
	c := newCall()
	require.NoError(t, c.Transition(StatusRejected, time.Now()))

	for _, next := range []Status{StatusRinging, StatusOngoing, StatusCompleted, StatusMissed} {
		assert.ErrorIs(t, c.Transition(next, time.Now()), wb_errors.ErrInvalidState)
	}
}

func TestIsIncoming(t *testing.T) {
	c := newCall()
	assert.False(t, c.IsIncoming(c.CallerID))
	assert.True(t, c.IsIncoming(*c.ReceiverID))
}
