package http

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter sets up the Gin router
func SetupRouter(handlers *Handlers, chatSecret string) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(handlers.log), gin.Recovery())

	console := router.Group("/console")
	{
		console.POST("/login", handlers.Login)
		console.GET("/bindings/:id", handlers.GetBinding)
	}

	auth := router.Group("/auth")
	{
		auth.POST("/refresh", handlers.Refresh)
		auth.POST("/logout", handlers.Logout)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(handlers.authService))
	{
		api.GET("/me", handlers.Me)
	}

	// Chat bridge
	chatGroup := router.Group("/chat")
	chatGroup.Use(SharedSecretMiddleware(chatSecret))
	{
		chatGroup.POST("/commands/request-login-link", handlers.ChatCommand)
	}

	return router
}
