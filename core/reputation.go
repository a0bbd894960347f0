package core

import "time"

// Tier labels derived from the overall reputation score.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// Badge labels. Badges are recomputed from scratch on every update, never
// accumulated.
const (
	BadgeNFTHolder       = "NFT Holder"
	BadgeEarlyAdopter    = "Early Adopter"
	BadgeActiveDeveloper = "Active Developer"
	BadgeTrusted         = "Trusted"
)

// ReputationBreakdown holds the four component scores, each in [0,10].
type ReputationBreakdown struct {
	NFTHolder             float64 `json:"nftHolder"`
	TransactionCount      float64 `json:"transactionCount"`
	StakingDuration       float64 `json:"stakingDuration"`
	VerificationFrequency float64 `json:"verificationFrequency"`
}

// Reputation is the computed score for one credential.
type Reputation struct {
	CredentialID string              `json:"credentialId"`
	OverallScore float64             `json:"overallScore"`
	Breakdown    ReputationBreakdown `json:"breakdown"`
	Tier         string              `json:"tier"`
	Badges       []string            `json:"badges"`
}

// VerificationRecord is one entry of a developer's verification history.
type VerificationRecord struct {
	Date          time.Time `json:"date"`
	WalletAddress string    `json:"walletAddress"`
	Status        string    `json:"status"`
	NFTStatus     bool      `json:"nftStatus"`
}

// DeveloperProfile aggregates everything known about one credential.
type DeveloperProfile struct {
	CredentialID        string               `json:"credentialId"`
	WalletAddresses     []string             `json:"walletAddresses"`
	NFTProfile          NFTStatus            `json:"nftProfile"`
	Reputation          Reputation           `json:"reputation"`
	VerificationHistory []VerificationRecord `json:"verificationHistory"`
	CreatedAt           time.Time            `json:"createdAt"`
	LastNFTCheck        time.Time            `json:"lastNftCheck"`
}
