package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/ports"
	"github.com/rs/zerolog"
)

// TierOrigin is the only NFT tier currently minted.
const TierOrigin = "Origin"

// OwnershipService resolves wallet addresses, checks NFT ownership against the
// ledger, and reads recent activity from the transaction indexer. Transient
// ledger and indexer failures degrade to conservative fallbacks ("not held",
// zero transactions) instead of propagating; a missing configuration does not.
type OwnershipService struct {
	contract ports.TokenContract   // nil when RPC or contract address is unset
	indexer  ports.ActivityIndexer // nil when the indexer is unset
	log      zerolog.Logger

	now func() time.Time
}

// NewOwnershipService creates a new ownership oracle. contract and indexer may
// be nil when unconfigured; ownership checks then fail with ErrNotConfigured
// rather than reporting a false "not held".
func NewOwnershipService(contract ports.TokenContract, indexer ports.ActivityIndexer, logger zerolog.Logger) *OwnershipService {
	return &OwnershipService{
		contract: contract,
		indexer:  indexer,
		log:      logger.With().Str("component", "oracle").Logger(),
		now:      time.Now,
	}
}

// ResolveAddress returns the canonical hex form of a wallet address. Native
// 0x-hex addresses pass through; bech32 addresses are decoded and re-encoded.
func (s *OwnershipService) ResolveAddress(address string) (common.Address, error) {
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		if !common.IsHexAddress(address) {
			return common.Address{}, fmt.Errorf("%w: %s", core.ErrInvalidAddress, address)
		}
		return common.HexToAddress(address), nil
	}

	_, data, err := bech32.Decode(address)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", core.ErrInvalidAddress, err)
	}

	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil || len(converted) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %s", core.ErrInvalidAddress, address)
	}

	return common.BytesToAddress(converted), nil
}

// CheckOwnership reports whether the wallet holds the configured NFT. An
// unconfigured oracle fails with ErrNotConfigured; any other failure degrades
// to a "not held" status so an ownership check never crashes the caller.
func (s *OwnershipService) CheckOwnership(ctx context.Context, wallet string) (core.NFTStatus, error) {
	if s.contract == nil {
		s.log.Error().Msg("ownership check attempted without rpc endpoint or contract address")
		return core.NFTStatus{}, core.ErrNotConfigured
	}

	owner, err := s.ResolveAddress(wallet)
	if err != nil {
		s.log.Warn().Str("wallet", wallet).Err(err).Msg("address resolution failed, reporting not held")
		return core.NFTStatus{}, nil
	}

	balance, err := s.contract.BalanceOf(ctx, owner)
	if err != nil {
		s.log.Warn().Str("wallet", wallet).Err(err).Msg("balance query failed, reporting not held")
		return core.NFTStatus{}, nil
	}

	if balance.Sign() <= 0 {
		return core.NFTStatus{}, nil
	}

	tokenID, err := s.contract.TokenOfOwnerByIndex(ctx, owner, big.NewInt(0))
	if err != nil {
		s.log.Warn().Str("wallet", wallet).Err(err).Msg("token id query failed, reporting not held")
		return core.NFTStatus{}, nil
	}

	return core.NFTStatus{
		HasNFT:     true,
		TokenID:    tokenID.String(),
		Tier:       TierOrigin,
		AcquiredAt: s.now(),
	}, nil
}

// BatchCheckOwnership fans out one ownership check per address concurrently.
// Each address's failure is isolated: a failed check yields a "not held" entry
// for that address only. Keys are lowercased.
func (s *OwnershipService) BatchCheckOwnership(ctx context.Context, wallets []string) map[string]core.NFTStatus {
	results := make(map[string]core.NFTStatus, len(wallets))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, wallet := range wallets {
		wg.Add(1)
		go func(wallet string) {
			defer wg.Done()

			status, err := s.CheckOwnership(ctx, wallet)
			if err != nil {
				status = core.NFTStatus{}
			}

			mu.Lock()
			results[strings.ToLower(wallet)] = status
			mu.Unlock()
		}(wallet)
	}
	wg.Wait()

	return results
}

// TransactionCount returns the number of recent transactions for the wallet.
// Indexer failures degrade to zero and are never surfaced; an invalid address
// or unconfigured indexer errors so callers can apply their own fallback.
func (s *OwnershipService) TransactionCount(ctx context.Context, wallet string) (int, error) {
	if s.indexer == nil {
		return 0, core.ErrNotConfigured
	}

	address, err := s.ResolveAddress(wallet)
	if err != nil {
		return 0, err
	}

	count, err := s.indexer.RecentTransactionCount(ctx, address)
	if err != nil {
		s.log.Warn().Str("wallet", wallet).Err(err).Msg("indexer query failed, reporting zero transactions")
		return 0, nil
	}

	return count, nil
}
