package core

// SessionPayload is the content of a session token. A serialized copy is
// mirrored in the TTL store under a key derived from the token itself, so a
// session can be revoked before its signature expires.
type SessionPayload struct {
	CredentialID string `json:"credentialId"`
	UserID       string `json:"userId,omitempty"`
	IssuedAt     int64  `json:"iat"`
	ExpiresAt    int64  `json:"exp"`
}
