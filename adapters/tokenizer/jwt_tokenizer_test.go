package tokenizer

import (
	"testing"
	"time"

	"github.com/layer-3/nftgate/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayload(ttl time.Duration) *core.SessionPayload {
	now := time.Now()
	return &core.SessionPayload{
		CredentialID: "cred-1",
		UserID:       "user-1",
		IssuedAt:     now.Unix(),
		ExpiresAt:    now.Add(ttl).Unix(),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	payload := newPayload(30 * time.Minute)
	token, err := tk.Encode(payload)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := tk.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, payload.CredentialID, decoded.CredentialID)
	assert.Equal(t, payload.UserID, decoded.UserID)
	assert.Equal(t, payload.IssuedAt, decoded.IssuedAt)
	assert.Equal(t, payload.ExpiresAt, decoded.ExpiresAt)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("secret-a"))
	require.NoError(t, err)

	token, err := tk.Encode(newPayload(30 * time.Minute))
	require.NoError(t, err)

	other, err := NewJWTTokenizer([]byte("secret-b"))
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.Error(t, err)
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	token, err := tk.Encode(newPayload(-time.Minute))
	require.NoError(t, err)

	_, err = tk.Decode(token)
	assert.Error(t, err)
}

func TestDecodeRejectsMalformedToken(t *testing.T) {
	tk, err := NewJWTTokenizer([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tk.Decode("not.a.jwt")
	assert.Error(t, err)
}

func TestNewJWTTokenizerRejectsEmptySecret(t *testing.T) {
	_, err := NewJWTTokenizer(nil)
	assert.Error(t, err)
}
