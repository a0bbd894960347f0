package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/ports"
	"github.com/rs/zerolog"
)

// SessionTTL is the lifetime of a session token and of its TTL-store mirror.
const SessionTTL = 30 * time.Minute

const sessionKeyPrefix = "session:"

// SessionService issues, verifies, revokes and refreshes short-lived bearer
// tokens. Every issued token is mirrored in the TTL store under a key derived
// from the token itself, so revocation takes effect immediately even while the
// token's signature is still cryptographically valid.
type SessionService struct {
	tokenizer ports.Tokenizer
	store     ports.SessionStore
	events    ports.EventPublisher
	log       zerolog.Logger

	now func() time.Time
}

// NewSessionService creates a new session service. events may be nil when no
// publisher is wired.
func NewSessionService(tokenizer ports.Tokenizer, store ports.SessionStore, events ports.EventPublisher, logger zerolog.Logger) *SessionService {
	return &SessionService{
		tokenizer: tokenizer,
		store:     store,
		events:    events,
		log:       logger.With().Str("component", "session").Logger(),
		now:       time.Now,
	}
}

// Issue builds a session payload expiring in 30 minutes, signs it, and mirrors
// the serialized payload in the TTL store
func (s *SessionService) Issue(ctx context.Context, credentialID, userID string) (string, error) {
	now := s.now()
	payload := &core.SessionPayload{
		CredentialID: credentialID,
		UserID:       userID,
		IssuedAt:     now.Unix(),
		ExpiresAt:    now.Add(SessionTTL).Unix(),
	}

	token, err := s.tokenizer.Encode(payload)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session payload: %w", err)
	}

	if err := s.store.Set(ctx, sessionKeyPrefix+token, string(serialized), SessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Debug().Str("credential_id", credentialID).Msg("session issued")
	return token, nil
}

// Verify fails closed: it returns nil on a malformed token, a bad or expired
// signature, or a missing TTL-store entry. The reason is never distinguished
// to the caller.
func (s *SessionService) Verify(ctx context.Context, token string) *core.SessionPayload {
	payload, err := s.tokenizer.Decode(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("session token rejected")
		return nil
	}

	if _, err := s.store.Get(ctx, sessionKeyPrefix+token); err != nil {
		// Signature is still valid but the mirror is gone: revoked or expired.
		s.log.Debug().Str("credential_id", payload.CredentialID).Msg("session not present in store")
		return nil
	}

	return payload
}

// Revoke deletes the TTL-store mirror. The token's signature remains valid
// until expiry but Verify will reject it from now on.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if s.events != nil {
		credentialID := ""
		if payload, err := s.tokenizer.Decode(token); err == nil {
			credentialID = payload.CredentialID
		}
		if err := s.events.PublishSessionRevoked(ctx, credentialID); err != nil {
			s.log.Warn().Err(err).Msg("failed to publish session revoked event")
		}
	}

	return nil
}

// Refresh verifies the token, revokes it, and issues a replacement carrying
// forward the same credential and user. The two steps are not atomic; a crash
// between them leaves the old token revoked with no replacement, which fails
// safe.
func (s *SessionService) Refresh(ctx context.Context, token string) (string, error) {
	payload := s.Verify(ctx, token)
	if payload == nil {
		return "", core.ErrInvalidSession
	}

	if err := s.Revoke(ctx, token); err != nil {
		return "", err
	}

	return s.Issue(ctx, payload.CredentialID, payload.UserID)
}
