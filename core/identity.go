package core

import "time"

// Identity is the persisted record for one verified credential. There is one
// row per credential id; the wallet address is fixed at creation and a
// re-verification with a different wallet is rejected rather than overwriting.
type Identity struct {
	ID                string    // Opaque unique identifier, generated once
	CredentialID      string    // WebAuthn credential id, unique
	WalletAddress     string    // Wallet the credential was registered with
	NFTTokenID        string    // Token id held at last check, empty when none
	NFTHolder         bool      // Whether the wallet held the NFT at last check
	NFTTier           string    // NFT tier label, empty when not held
	ReputationScore   float64   // Weighted score in [0,100]
	IsVerified        bool
	VerificationCount int       // Starts at 1, +1 per successful re-verification
	Badges            []string  // Fully recomputed on every update
	Tier              string    // Reputation bracket derived from the score
	CreatedAt         time.Time // Set once
	UpdatedAt         time.Time
	LastVerifiedAt    time.Time
	LastNFTCheck      time.Time
}

// NFTStatus is the transient result of an ownership check.
type NFTStatus struct {
	HasNFT     bool      `json:"hasNFT"`
	TokenID    string    `json:"tokenId,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	AcquiredAt time.Time `json:"acquiredAt,omitempty"`
}

// IdentityInfo is one entry of a batch identity query.
type IdentityInfo struct {
	WalletAddress   string    `json:"walletAddress"`
	IsVerified      bool      `json:"isVerified"`
	CredentialID    string    `json:"credentialId"`
	ReputationScore float64   `json:"reputationScore"`
	LastVerifiedAt  time.Time `json:"lastVerifiedAt"`
	NFTStatus       NFTStatus `json:"nftStatus"`
}

// VerifyResult is returned after a successful identity verification.
type VerifyResult struct {
	IdentityID    string    `json:"identityId"`
	WalletAddress string    `json:"walletAddress"`
	NFTStatus     NFTStatus `json:"nftStatus"`
	SessionToken  string    `json:"sessionToken"`
	CreatedAt     time.Time `json:"createdAt"`
}
