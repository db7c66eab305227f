package routes

import (
	"fast-vote-api/internal/handlers"
	"fast-vote-api/internal/middleware"
	"fast-vote-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes() *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// The hub lives for the whole process and is handed to the vote and
	// websocket handlers; tests replace it with a fresh instance.
	handlers.LiveHub = realtime.NewHub(handlers.DBPollFinder())

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Server Fast Vote API is running in Health Check Endpoint",
		})
	})

	// Every poll route runs behind the session-cookie middleware; it never
	// rejects, it just guarantees a session id is present.
	pollRoutes := ginRouter.Group("/poll")
	pollRoutes.Use(middleware.SessionMiddleware())
	{
		pollRoutes.GET("/assign-session", handlers.AssignSession)
		pollRoutes.POST("/create_poll", handlers.CreatePoll)
		pollRoutes.GET("/get-user-polls", handlers.GetUserPolls)
		pollRoutes.GET("/get-poll/:id", handlers.GetPoll)
		pollRoutes.POST("/vote", handlers.CastVote)
		pollRoutes.DELETE("/:id", handlers.DeletePoll)
	}

	// Live tally subscriptions; viewers only receive, so no session needed.
	ginRouter.GET("/ws/poll/:id", handlers.PollWebSocket)

	return ginRouter
}
