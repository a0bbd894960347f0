package core

import "errors"

var (
	// ErrAccessDenied is returned when a wallet does not hold the required NFT
	ErrAccessDenied = errors.New("nft required for access")

	// ErrWalletMismatch is returned when a credential is presented with a wallet
	// other than the one it was registered with
	ErrWalletMismatch = errors.New("wallet address does not match credential")

	// ErrNotFound is returned when no identity exists for a credential
	ErrNotFound = errors.New("identity not found")

	// ErrNotConfigured is returned when the ledger RPC endpoint or the NFT
	// contract address is missing
	ErrNotConfigured = errors.New("ownership oracle is not configured")

	// ErrInvalidAddress is returned when a wallet address cannot be decoded
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidSession is returned when a session token fails verification
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrKeyNotFound is returned by a session store when a key is absent
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreOperationFailed is returned when a store operation fails
	ErrStoreOperationFailed = errors.New("store operation failed")
)
