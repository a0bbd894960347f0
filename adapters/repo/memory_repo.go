package repo

import (
	"context"
	"strings"
	"sync"

	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/ports"
)

// MemoryRepo is an in-memory implementation of the IdentityRepository port,
// primarily intended for testing
type MemoryRepo struct {
	identities map[string]core.Identity // keyed by credential id
	mu         sync.RWMutex
}

// NewMemoryRepo creates a new in-memory identity repository
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{identities: make(map[string]core.Identity)}
}

var _ ports.IdentityRepository = (*MemoryRepo)(nil)

// FindByCredentialID returns the identity for a credential, or core.ErrNotFound
func (r *MemoryRepo) FindByCredentialID(ctx context.Context, credentialID string) (*core.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[credentialID]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := cloneIdentity(identity)
	return &clone, nil
}

// FindByWalletAddresses returns identities matching any of the wallets,
// compared case-insensitively
func (r *MemoryRepo) FindByWalletAddresses(ctx context.Context, wallets []string) ([]core.Identity, error) {
	wanted := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		wanted[strings.ToLower(w)] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []core.Identity
	for _, identity := range r.identities {
		if _, ok := wanted[strings.ToLower(identity.WalletAddress)]; ok {
			matches = append(matches, cloneIdentity(identity))
		}
	}
	return matches, nil
}

// Upsert inserts or replaces the identity keyed by credential id
func (r *MemoryRepo) Upsert(ctx context.Context, identity *core.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.identities[identity.CredentialID] = cloneIdentity(*identity)
	return nil
}

func cloneIdentity(identity core.Identity) core.Identity {
	clone := identity
	clone.Badges = append([]string(nil), identity.Badges...)
	return clone
}
