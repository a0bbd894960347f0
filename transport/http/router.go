package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/nftgate/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(identities *service.IdentityService, sessions *service.SessionService) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(identities, sessions)

	v1 := router.Group("/api/v1/n1nj4")
	{
		v1.POST("/verify", handlers.VerifyIdentity)
		v1.GET("/identities", handlers.QueryIdentities)
		v1.GET("/reputation/:credentialId", handlers.GetReputation)
		v1.GET("/developer/:credentialId", handlers.GetDeveloperProfile)

		session := v1.Group("/session")
		{
			session.POST("/verify", handlers.VerifySession)
			session.POST("/refresh", handlers.RefreshSession)
			session.POST("/revoke", handlers.RevokeSession)
		}
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(SessionMiddleware(sessions))
	{
		api.GET("/me", handlers.Me)
	}

	return router
}
