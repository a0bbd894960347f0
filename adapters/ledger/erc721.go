package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/layer-3/nftgate/ports"
)

// Read-only subset of the ERC-721 Enumerable interface.
const erc721ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"name":"tokenOfOwnerByIndex","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// ERC721Reader reads token ownership state from one NFT contract over
// JSON-RPC. It implements the TokenContract port.
type ERC721Reader struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract common.Address
}

var _ ports.TokenContract = (*ERC721Reader)(nil)

// NewERC721Reader dials the RPC endpoint and prepares the contract ABI
func NewERC721Reader(rpcURL string, contract common.Address) (*ERC721Reader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc endpoint: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc721 abi: %w", err)
	}

	return &ERC721Reader{
		client:   client,
		abi:      parsed,
		contract: contract,
	}, nil
}

// BalanceOf returns the number of tokens held by owner
func (r *ERC721Reader) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := r.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TokenOfOwnerByIndex returns the token id at the given index of owner's holdings
func (r *ERC721Reader) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	out, err := r.call(ctx, "tokenOfOwnerByIndex", owner, index)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the underlying RPC connection
func (r *ERC721Reader) Close() {
	r.client.Close()
}

func (r *ERC721Reader) call(ctx context.Context, method string, args ...any) (*big.Int, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	res, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := r.abi.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected %s output arity %d", method, len(out))
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", method, out[0])
	}

	return value, nil
}
