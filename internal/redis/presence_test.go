package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPresence(t *testing.T) (*miniredis.Miniredis, *PresenceStore) {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, NewPresenceStore(client, time.Minute)
}

func TestPresenceOnlineOffline(t *testing.T) {
	_, store := setupPresence(t)
	ctx := context.Background()

	require.NoError(t, store.SetOnline(ctx, "u1"))

	online, err := store.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, online)

	status, err := store.GetPresence(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, status.IsOnline)

	require.NoError(t, store.SetOffline(ctx, "u1"))

	online, err = store.IsOnline(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, online)

	status, err = store.GetPresence(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
	assert.False(t, status.LastSeen.IsZero())
}

func TestPresenceUnknownUserReadsOffline(t *testing.T) {
	_, store := setupPresence(t)

	status, err := store.GetPresence(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
}

func TestPresenceEntryExpires(t *testing.T) {
	server, store := setupPresence(t)
	ctx := context.Background()

	require.NoError(t, store.SetOnline(ctx, "u1"))
	server.FastForward(2 * time.Minute)

	status, err := store.GetPresence(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, status.IsOnline)
}

func TestHeartbeatRefreshesTTL(t *testing.T) {
	server, store := setupPresence(t)
	ctx := context.Background()

	require.NoError(t, store.SetOnline(ctx, "u1"))
	server.FastForward(30 * time.Second)
	require.NoError(t, store.Heartbeat(ctx, "u1"))
	server.FastForward(45 * time.Second)

	status, err := store.GetPresence(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, status.IsOnline)
}

func TestGetOnlineUsers(t *testing.T) {
	_, store := setupPresence(t)
	ctx := context.Background()

	require.NoError(t, store.SetOnline(ctx, "u1"))
	require.NoError(t, store.SetOnline(ctx, "u2"))
	require.NoError(t, store.SetOffline(ctx, "u2"))

	users, err := store.GetOnlineUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, users)
}
