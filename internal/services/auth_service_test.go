package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wb_errors "whitebeat/pkg/errors"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.IssueAccessToken(userID, "alice")
	require.NoError(t, err)

	parsedID, claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Hour)
	verifier := NewAuthService("secret-b", time.Hour)

	token, err := issuer.IssueAccessToken(uuid.New(), "alice")
	require.NoError(t, err)

	_, _, err = verifier.ParseAccessToken(token)
	assert.ErrorIs(t, err, wb_errors.ErrUnauthorized)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute)

	token, err := svc.IssueAccessToken(uuid.New(), "alice")
	require.NoError(t, err)

	_, _, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, wb_errors.ErrUnauthorized)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour)

	_, _, err := svc.ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, wb_errors.ErrUnauthorized)
}
