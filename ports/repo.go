package ports

import (
	"context"

	"github.com/layer-3/nftgate/core"
)

// IdentityRepository is the narrow persistence contract for identity records.
// Any storage engine satisfying it is substitutable.
type IdentityRepository interface {
	// FindByCredentialID returns the identity for a credential, or
	// core.ErrNotFound when none exists
	FindByCredentialID(ctx context.Context, credentialID string) (*core.Identity, error)

	// FindByWalletAddresses returns all identities whose wallet matches one of
	// the given addresses, compared case-insensitively
	FindByWalletAddresses(ctx context.Context, wallets []string) ([]core.Identity, error)

	// Upsert inserts the identity or replaces the row with the same credential id
	Upsert(ctx context.Context, identity *core.Identity) error
}
