package ports

import (
	"context"
	"time"
)

// SessionStore is a scoped key-value contract with expiry, backing session
// revocation. Expiry of entries is delegated to the underlying store.
type SessionStore interface {
	// Set adds a key with a value and expiration time
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get retrieves a value by key; returns core.ErrKeyNotFound when absent
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
