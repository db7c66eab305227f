package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AssignSession handles GET /poll/assign-session
// The session middleware has already minted a session id if the client had
// none; this endpoint just echoes it so the frontend can display it.
func AssignSession(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "session not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"session_id": sessionID,
	})
}
