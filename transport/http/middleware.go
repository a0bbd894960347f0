package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/nftgate/service"
)

// bearerToken extracts the token from an Authorization header; it returns an
// empty string when the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// SessionMiddleware creates middleware that validates session tokens. All
// failures collapse to one uniform 401 response; the specific reason is never
// exposed.
func SessionMiddleware(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		payload := sessions.Verify(c.Request.Context(), token)
		if payload == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set("credentialId", payload.CredentialID)
		c.Set("userId", payload.UserID)

		c.Next()
	}
}
