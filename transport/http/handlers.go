package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/nftgate/core"
	"github.com/layer-3/nftgate/service"
)

// Handlers contains HTTP handlers for the identity and session endpoints
type Handlers struct {
	identities *service.IdentityService
	sessions   *service.SessionService
}

// NewHandlers creates new handlers
func NewHandlers(identities *service.IdentityService, sessions *service.SessionService) *Handlers {
	return &Handlers{
		identities: identities,
		sessions:   sessions,
	}
}

// VerifyIdentity handles POST /verify
func (h *Handlers) VerifyIdentity(c *gin.Context) {
	var req struct {
		CredentialID  string `json:"credentialId" binding:"required"`
		WalletAddress string `json:"walletAddress" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.identities.VerifyIdentity(c.Request.Context(), req.CredentialID, req.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrAccessDenied):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "NFT required for access"})
		case errors.Is(err, core.ErrWalletMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address does not match credential"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"sessionToken":  result.SessionToken,
		"identityId":    result.IdentityID,
		"walletAddress": result.WalletAddress,
		"nftStatus":     result.NFTStatus,
		"createdAt":     result.CreatedAt,
	})
}

// QueryIdentities handles GET /identities?walletAddresses=a,b,c
func (h *Handlers) QueryIdentities(c *gin.Context) {
	var wallets []string
	for _, part := range strings.Split(c.Query("walletAddresses"), ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			wallets = append(wallets, addr)
		}
	}

	if len(wallets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one wallet address is required"})
		return
	}

	identities, err := h.identities.QueryIdentities(c.Request.Context(), wallets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"identities": identities})
}

// GetReputation handles GET /reputation/:credentialId
func (h *Handlers) GetReputation(c *gin.Context) {
	reputation, err := h.identities.GetReputation(c.Request.Context(), c.Param("credentialId"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reputation lookup failed"})
		return
	}

	c.JSON(http.StatusOK, reputation)
}

// GetDeveloperProfile handles GET /developer/:credentialId
func (h *Handlers) GetDeveloperProfile(c *gin.Context) {
	profile, err := h.identities.GetDeveloperProfile(c.Request.Context(), c.Param("credentialId"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile lookup failed"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// VerifySession handles POST /session/verify. Absent or malformed tokens get
// the same uniform invalid response as failed verification.
func (h *Handlers) VerifySession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	payload := h.sessions.Verify(c.Request.Context(), token)
	if payload == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "payload": payload})
}

// RefreshSession handles POST /session/refresh
func (h *Handlers) RefreshSession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	newToken, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionToken": newToken})
}

// RevokeSession handles POST /session/revoke
func (h *Handlers) RevokeSession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session revoked"})
}

// Me returns the credential bound to the authenticated session
func (h *Handlers) Me(c *gin.Context) {
	credentialID, exists := c.Get("credentialId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, _ := c.Get("userId")

	c.JSON(http.StatusOK, gin.H{
		"credentialId": credentialID,
		"userId":       userID,
	})
}
