package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitebeat/internal/commands"
	"whitebeat/internal/domain/status"
)

func postStatus(t *testing.T, env *testEnv, owner uuid.UUID, privacy status.PrivacyMode, audience ...uuid.UUID) status.Status {
	t.Helper()
	content := "what's up"
	st, err := env.statuses.Create(context.Background(), commands.CreateStatusCommand{
		OwnerID:  owner,
		Type:     status.TypeText,
		Content:  &content,
		Privacy:  privacy,
		Audience: audience,
	})
	require.NoError(t, err)
	return st
}

func feedAuthors(feed []AuthorFeed) []uuid.UUID {
	authors := make([]uuid.UUID, 0, len(feed))
	for _, f := range feed {
		authors = append(authors, f.AuthorID)
	}
	return authors
}

func TestStatusExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.statuses.WithClock(fixedClock(base))
	postStatus(t, env, alice.ID, status.PrivacyEveryone)

	env.statuses.WithClock(fixedClock(base.Add(23*time.Hour + 59*time.Minute)))
	feed, err := env.statuses.FeedFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	env.statuses.WithClock(fixedClock(base.Add(24*time.Hour + time.Second)))
	feed, err = env.statuses.FeedFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFeedExcludesOwnStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	postStatus(t, env, alice.ID, status.PrivacyEveryone)

	feed, err := env.statuses.FeedFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	mine, err := env.statuses.MyStatuses(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestContactsPrivacyRequiresContactEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	eve := env.createUser(t, "eve")

	require.NoError(t, env.users.AddContact(ctx, alice.ID, bob.ID, ""))
	postStatus(t, env, alice.ID, status.PrivacyContacts)

	feed, err := env.statuses.FeedFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	feed, err = env.statuses.FeedFor(ctx, eve.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestBlockedContactIsFilteredFromContactsPrivacy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	require.NoError(t, env.users.AddContact(ctx, alice.ID, bob.ID, ""))
	require.NoError(t, env.users.SetBlocked(ctx, alice.ID, bob.ID, true))
	postStatus(t, env, alice.ID, status.PrivacyContacts)

	feed, err := env.statuses.FeedFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestSelectedPrivacyAllowList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	postStatus(t, env, alice.ID, status.PrivacySelected, bob.ID)

	feed, err := env.statuses.FeedFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	feed, err = env.statuses.FeedFor(ctx, carol.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestExceptPrivacyDenyList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	postStatus(t, env, alice.ID, status.PrivacyExcept, bob.ID)

	feed, err := env.statuses.FeedFor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	feed, err = env.statuses.FeedFor(ctx, carol.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestFeedGroupsByAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	postStatus(t, env, alice.ID, status.PrivacyEveryone)
	postStatus(t, env, alice.ID, status.PrivacyEveryone)
	postStatus(t, env, bob.ID, status.PrivacyEveryone)

	feed, err := env.statuses.FeedFor(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, feedAuthors(feed))
	for _, f := range feed {
		if f.AuthorID == alice.ID {
			assert.Len(t, f.Statuses, 2)
		}
	}
}

func TestViewIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	st := postStatus(t, env, alice.ID, status.PrivacyEveryone)

	count, err := env.statuses.View(ctx, commands.ViewStatusCommand{ViewerID: bob.ID, StatusID: st.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = env.statuses.View(ctx, commands.ViewStatusCommand{ViewerID: bob.ID, StatusID: st.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestOwnerViewDoesNotCreateRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	st := postStatus(t, env, alice.ID, status.PrivacyEveryone)

	count, err := env.statuses.View(ctx, commands.ViewStatusCommand{ViewerID: alice.ID, StatusID: st.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestPurgeExpiredRemovesOnlyStale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.statuses.WithClock(fixedClock(base))
	old := postStatus(t, env, alice.ID, status.PrivacyEveryone)

	env.statuses.WithClock(fixedClock(base.Add(72 * time.Hour)))
	fresh := postStatus(t, env, alice.ID, status.PrivacyEveryone)

	purged, err := env.statuses.PurgeExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = env.statusRepo.GetByID(ctx, old.ID)
	assert.Error(t, err)
	_, err = env.statusRepo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
