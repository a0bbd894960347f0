package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenContract reads ERC-721 state for the configured NFT contract.
type TokenContract interface {
	// BalanceOf returns the number of tokens held by owner
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)

	// TokenOfOwnerByIndex returns the token id at the given index of owner's holdings
	TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error)
}

// ActivityIndexer reports recent on-chain activity for an address.
type ActivityIndexer interface {
	// RecentTransactionCount returns the number of recent transactions for the
	// address, bounded by the indexer's page size
	RecentTransactionCount(ctx context.Context, address common.Address) (int, error)
}
