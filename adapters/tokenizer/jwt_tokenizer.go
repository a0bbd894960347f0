package tokenizer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/ports"
)

const AudienceSession = "session:access"

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs over a
// shared secret
type JWTTokenizer struct {
	secret []byte
}

// NewJWTTokenizer creates a new JWT tokenizer. The secret must not be empty;
// an empty secret would silently disable signing.
func NewJWTTokenizer(secret []byte) (ports.Tokenizer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("tokenizer: empty signing secret")
	}
	return &JWTTokenizer{secret: secret}, nil
}

// Encode signs a session payload into a compact JWT
func (j *JWTTokenizer) Encode(payload *core.SessionPayload) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.CredentialID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Unix(payload.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(payload.ExpiresAt, 0)),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
		CredentialID: payload.CredentialID,
		UserID:       payload.UserID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies a JWT and returns the session payload
func (j *JWTTokenizer) Decode(tokenStr string) (*core.SessionPayload, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithAudience(AudienceSession))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, core.ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	payload := &core.SessionPayload{
		CredentialID: claims.CredentialID,
		UserID:       claims.UserID,
		IssuedAt:     claims.IssuedAt.Unix(),
		ExpiresAt:    claims.ExpiresAt.Unix(),
	}

	return payload, nil
}
