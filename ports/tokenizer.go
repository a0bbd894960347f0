package ports

import "github.com/layer-3/nftgate/core"

// Tokenizer converts between session payloads and signed tokens.
type Tokenizer interface {
	// Encode signs a payload into a compact token
	Encode(payload *core.SessionPayload) (string, error)

	// Decode verifies the signature and expiry of a token and returns its
	// payload; it errors on a malformed, tampered or expired token
	Decode(token string) (*core.SessionPayload, error)
}
