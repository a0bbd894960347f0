package service

import (
	"context"
	"testing"
	"time"

	"github.com/layer-3/nftgate/adapters/store"
	"github.com/layer-3/nftgate/adapters/tokenizer"
	"github.com/layer-3/nftgate/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) (*SessionService, *store.MemoryStore) {
	t.Helper()

	tk, err := tokenizer.NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	st := store.NewMemoryStore()
	return NewSessionService(tk, st, nil, zerolog.Nop()), st
}

func TestSessionIssueVerify(t *testing.T) {
	s, _ := newSessionService(t)
	ctx := context.Background()

	token, err := s.Issue(ctx, "cred-1", "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload := s.Verify(ctx, token)
	require.NotNil(t, payload)
	assert.Equal(t, "cred-1", payload.CredentialID)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, payload.IssuedAt+int64(SessionTTL.Seconds()), payload.ExpiresAt)
}

func TestSessionVerifyMalformedToken(t *testing.T) {
	s, _ := newSessionService(t)

	assert.Nil(t, s.Verify(context.Background(), "garbage"))
	assert.Nil(t, s.Verify(context.Background(), ""))
}

func TestSessionRevokeThenVerify(t *testing.T) {
	s, _ := newSessionService(t)
	ctx := context.Background()

	token, err := s.Issue(ctx, "cred-1", "")
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, token))

	// Signature is still valid but the store mirror is gone.
	assert.Nil(t, s.Verify(ctx, token))
}

func TestSessionVerifyExpiredMirror(t *testing.T) {
	s, st := newSessionService(t)
	ctx := context.Background()

	token, err := s.Issue(ctx, "cred-1", "")
	require.NoError(t, err)

	st.SetClock(func() time.Time { return time.Now().Add(SessionTTL + time.Minute) })

	assert.Nil(t, s.Verify(ctx, token))
}

func TestSessionRefresh(t *testing.T) {
	s, _ := newSessionService(t)
	ctx := context.Background()

	token, err := s.Issue(ctx, "cred-1", "user-1")
	require.NoError(t, err)

	newToken, err := s.Refresh(ctx, token)
	require.NoError(t, err)
	require.NotEmpty(t, newToken)

	// The new token verifies and carries the same binding; the old one is gone.
	payload := s.Verify(ctx, newToken)
	require.NotNil(t, payload)
	assert.Equal(t, "cred-1", payload.CredentialID)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Nil(t, s.Verify(ctx, token))
}

func TestSessionRefreshInvalidToken(t *testing.T) {
	s, _ := newSessionService(t)

	_, err := s.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, core.ErrInvalidSession)
}
