package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the credential binding
type SessionClaims struct {
	jwt.RegisteredClaims
	CredentialID string `json:"cid"`
	UserID       string `json:"uid,omitempty"`
}
