package ports

import "context"

// EventPublisher publishes identity lifecycle events to notify other services
type EventPublisher interface {
	PublishIdentityVerified(ctx context.Context, identityID, walletAddress string) error
	PublishSessionRevoked(ctx context.Context, credentialID string) error
}
