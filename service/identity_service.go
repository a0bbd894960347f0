package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/ports"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Reputation factor weights. NFT ownership dominates; the rest reward
// on-chain activity, account age and verification frequency.
const (
	weightNFTHolder    = 0.5
	weightTransactions = 0.15
	weightStaking      = 0.15
	weightVerification = 0.2
)

// Oracle is the ownership-oracle surface the identity engine depends on.
// *OwnershipService satisfies it.
type Oracle interface {
	CheckOwnership(ctx context.Context, wallet string) (core.NFTStatus, error)
	BatchCheckOwnership(ctx context.Context, wallets []string) map[string]core.NFTStatus
	TransactionCount(ctx context.Context, wallet string) (int, error)
}

// TokenIssuer issues session tokens for verified credentials.
// *SessionService satisfies it.
type TokenIssuer interface {
	Issue(ctx context.Context, credentialID, userID string) (string, error)
}

// IdentityService gates API access on NFT ownership and maintains a reputation
// score per verified credential.
type IdentityService struct {
	repo     ports.IdentityRepository
	oracle   Oracle
	sessions TokenIssuer
	events   ports.EventPublisher
	log      zerolog.Logger

	now func() time.Time
}

// NewIdentityService creates a new identity service. events may be nil.
func NewIdentityService(repo ports.IdentityRepository, oracle Oracle, sessions TokenIssuer, events ports.EventPublisher, logger zerolog.Logger) *IdentityService {
	return &IdentityService{
		repo:     repo,
		oracle:   oracle,
		sessions: sessions,
		events:   events,
		log:      logger.With().Str("component", "identity").Logger(),
		now:      time.Now,
	}
}

// VerifyIdentity checks NFT ownership for the wallet, creates or updates the
// identity record for the credential, and issues a session token. Non-holders
// are rejected with ErrAccessDenied before any record is touched; an existing
// credential presented with a different wallet is rejected with
// ErrWalletMismatch, never silently reassigned.
func (s *IdentityService) VerifyIdentity(ctx context.Context, credentialID, wallet string) (*core.VerifyResult, error) {
	status, err := s.oracle.CheckOwnership(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if !status.HasNFT {
		s.log.Info().Str("wallet", wallet).Msg("verification rejected, wallet holds no nft")
		return nil, core.ErrAccessDenied
	}

	identity, err := s.repo.FindByCredentialID(ctx, credentialID)
	now := s.now()

	switch {
	case errors.Is(err, core.ErrNotFound):
		score := initialScore(status.HasNFT)
		identity = &core.Identity{
			ID:                uuid.New().String(),
			CredentialID:      credentialID,
			WalletAddress:     wallet,
			NFTTokenID:        status.TokenID,
			NFTHolder:         status.HasNFT,
			NFTTier:           status.Tier,
			ReputationScore:   score,
			IsVerified:        true,
			VerificationCount: 1,
			Badges:            initialBadges(status.HasNFT),
			Tier:              tierFromScore(score),
			CreatedAt:         now,
			UpdatedAt:         now,
			LastVerifiedAt:    now,
			LastNFTCheck:      now,
		}
		s.log.Info().Str("identity_id", identity.ID).Str("wallet", wallet).Msg("identity created")

	case err != nil:
		return nil, fmt.Errorf("failed to look up identity: %w", err)

	default:
		if identity.WalletAddress != wallet {
			return nil, core.ErrWalletMismatch
		}

		identity.NFTTokenID = status.TokenID
		identity.NFTHolder = status.HasNFT
		identity.NFTTier = status.Tier
		identity.LastVerifiedAt = now
		identity.LastNFTCheck = now
		identity.VerificationCount++

		reputation := s.computeReputation(ctx, identity)
		identity.ReputationScore = reputation.OverallScore
		identity.Tier = reputation.Tier
		identity.Badges = reputation.Badges
		identity.UpdatedAt = now
		s.log.Info().Str("identity_id", identity.ID).Int("verification_count", identity.VerificationCount).Msg("identity updated")
	}

	if err := s.repo.Upsert(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to persist identity: %w", err)
	}

	token, err := s.sessions.Issue(ctx, credentialID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishIdentityVerified(ctx, identity.ID, wallet); err != nil {
			s.log.Warn().Err(err).Msg("failed to publish identity verified event")
		}
	}

	return &core.VerifyResult{
		IdentityID:    identity.ID,
		WalletAddress: wallet,
		NFTStatus:     status,
		SessionToken:  token,
		CreatedAt:     identity.CreatedAt,
	}, nil
}

// QueryIdentities returns one entry per input address. Known identities return
// their persisted NFT and reputation fields as-is; unknown addresses fall back
// to a single live batch ownership check performed for the whole input set.
// Persisted records are deliberately not refreshed from the oracle here, so
// reported NFT status for known identities can go stale between verifications.
func (s *IdentityService) QueryIdentities(ctx context.Context, wallets []string) ([]core.IdentityInfo, error) {
	found, err := s.repo.FindByWalletAddresses(ctx, wallets)
	if err != nil {
		return nil, fmt.Errorf("failed to query identities: %w", err)
	}

	byWallet := make(map[string]core.Identity, len(found))
	for _, identity := range found {
		byWallet[strings.ToLower(identity.WalletAddress)] = identity
	}

	liveStatuses := s.oracle.BatchCheckOwnership(ctx, wallets)

	infos := make([]core.IdentityInfo, 0, len(wallets))
	for _, wallet := range wallets {
		identity, ok := byWallet[strings.ToLower(wallet)]
		if !ok {
			infos = append(infos, core.IdentityInfo{
				WalletAddress: wallet,
				IsVerified:    false,
				NFTStatus:     liveStatuses[strings.ToLower(wallet)],
			})
			continue
		}

		infos = append(infos, core.IdentityInfo{
			WalletAddress:   wallet,
			IsVerified:      identity.IsVerified,
			CredentialID:    identity.CredentialID,
			ReputationScore: identity.ReputationScore,
			LastVerifiedAt:  identity.LastVerifiedAt,
			NFTStatus:       persistedStatus(&identity),
		})
	}

	return infos, nil
}

// GetReputation recomputes the reputation for a credential live, so the result
// can disagree with the persisted snapshot when the activity or age factors
// have shifted since the last verification.
func (s *IdentityService) GetReputation(ctx context.Context, credentialID string) (*core.Reputation, error) {
	identity, err := s.repo.FindByCredentialID(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	reputation := s.computeReputation(ctx, identity)
	return &reputation, nil
}

// GetDeveloperProfile aggregates the persisted identity, a live reputation
// recompute, and the (single-entry) verification history.
func (s *IdentityService) GetDeveloperProfile(ctx context.Context, credentialID string) (*core.DeveloperProfile, error) {
	identity, err := s.repo.FindByCredentialID(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	reputation := s.computeReputation(ctx, identity)

	return &core.DeveloperProfile{
		CredentialID:    credentialID,
		WalletAddresses: []string{identity.WalletAddress},
		NFTProfile:      persistedStatus(identity),
		Reputation:      reputation,
		VerificationHistory: []core.VerificationRecord{
			{
				Date:          identity.LastVerifiedAt,
				WalletAddress: identity.WalletAddress,
				Status:        "verified",
				NFTStatus:     identity.NFTHolder,
			},
		},
		CreatedAt:    identity.CreatedAt,
		LastNFTCheck: identity.LastNFTCheck,
	}, nil
}

// computeReputation derives the weighted score from four factors. The
// transaction factor falls back to a verification-count proxy when the oracle
// errors instead of degrading.
func (s *IdentityService) computeReputation(ctx context.Context, identity *core.Identity) core.Reputation {
	nftScore := 0.0
	if identity.NFTHolder {
		nftScore = 10
	}

	var txScore float64
	txCount, err := s.oracle.TransactionCount(ctx, identity.WalletAddress)
	if err != nil {
		s.log.Warn().Err(err).Str("wallet", identity.WalletAddress).Msg("transaction count unavailable, using verification fallback")
		txScore = math.Min(10, float64(identity.VerificationCount)*2)
	} else {
		txScore = math.Min(10, float64(txCount)/5)
	}

	days := s.now().Sub(identity.CreatedAt).Hours() / 24
	stakingScore := math.Min(10, days/10)

	verificationScore := math.Min(10, float64(identity.VerificationCount)*1.5)

	overall := nftScore*weightNFTHolder +
		txScore*weightTransactions +
		stakingScore*weightStaking +
		verificationScore*weightVerification

	return core.Reputation{
		CredentialID: identity.CredentialID,
		OverallScore: roundScore(overall),
		Breakdown: core.ReputationBreakdown{
			NFTHolder:             roundScore(nftScore),
			TransactionCount:      roundScore(txScore),
			StakingDuration:       roundScore(stakingScore),
			VerificationFrequency: roundScore(verificationScore),
		},
		Tier:   tierFromScore(overall),
		Badges: s.deriveBadges(identity, overall),
	}
}

// deriveBadges recomputes the badge set from scratch; badges are never
// accumulated across updates.
func (s *IdentityService) deriveBadges(identity *core.Identity, score float64) []string {
	badges := []string{}

	if identity.NFTHolder {
		badges = append(badges, core.BadgeNFTHolder)
	}

	days := s.now().Sub(identity.CreatedAt).Hours() / 24
	if days > 30 {
		badges = append(badges, core.BadgeEarlyAdopter)
	}

	if identity.VerificationCount >= 3 {
		badges = append(badges, core.BadgeActiveDeveloper)
	}

	if score >= 80 {
		badges = append(badges, core.BadgeTrusted)
	}

	return badges
}

func tierFromScore(score float64) string {
	switch {
	case score >= 85:
		return core.TierPlatinum
	case score >= 70:
		return core.TierGold
	case score >= 55:
		return core.TierSilver
	default:
		return core.TierBronze
	}
}

func initialScore(holder bool) float64 {
	if holder {
		return 70
	}
	return 50
}

func initialBadges(holder bool) []string {
	if holder {
		return []string{core.BadgeNFTHolder}
	}
	return []string{}
}

func persistedStatus(identity *core.Identity) core.NFTStatus {
	return core.NFTStatus{
		HasNFT:     identity.NFTHolder,
		TokenID:    identity.NFTTokenID,
		Tier:       identity.NFTTier,
		AcquiredAt: identity.LastNFTCheck,
	}
}

func roundScore(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

