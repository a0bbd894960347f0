package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/nftgate/ports"
)

const (
	TopicIdentityVerified = "identity.verified"
	TopicSessionRevoked   = "session.revoked"
)

// IdentityVerifiedEvent is published after every successful verification
type IdentityVerifiedEvent struct {
	IdentityID    string `json:"identity_id"`
	WalletAddress string `json:"wallet_address"`
}

// SessionRevokedEvent is published when a session is revoked before expiry
type SessionRevokedEvent struct {
	CredentialID string `json:"credential_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishIdentityVerified publishes an identity verification event
func (p *WatermillPublisher) PublishIdentityVerified(ctx context.Context, identityID, walletAddress string) error {
	return p.publish(TopicIdentityVerified, identityID, IdentityVerifiedEvent{
		IdentityID:    identityID,
		WalletAddress: walletAddress,
	})
}

// PublishSessionRevoked publishes a session revocation event
func (p *WatermillPublisher) PublishSessionRevoked(ctx context.Context, credentialID string) error {
	return p.publish(TopicSessionRevoked, uuid.New().String(), SessionRevokedEvent{
		CredentialID: credentialID,
	})
}

func (p *WatermillPublisher) publish(topic, id string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(id, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
