package handlers

import (
	"errors"
	"log"
	"net/http"

	"fast-vote-api/internal/database"
	"fast-vote-api/internal/ledger"
	"fast-vote-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VoteRequest represents the request payload for casting a vote
type VoteRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

/*
*
CastVote handles POST /poll/vote
Records the session's vote for an option (at most one per session per
option), then pushes the recomputed tally to every websocket subscriber of
the option's poll. The voter's response never depends on broadcast delivery.
*/
func CastVote(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Session ID is missing",
		})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Resolve the poll up front so publication can be ordered per poll.
	var option models.Option
	if err := database.GetDB().Where("id = ?", req.OptionID).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "option not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch option"})
		}
		return
	}

	// Holding the poll's publish lock across commit and broadcast keeps
	// tallies arriving at subscribers in commit order.
	unlock := pollPublish.Lock(option.PollID)
	defer unlock()

	pollID, results, err := ledger.CastVote(database.GetDB(), sessionID, req.OptionID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrDuplicateVote):
			c.JSON(http.StatusBadRequest, gin.H{"status": "already voted"})
		case errors.Is(err, ledger.ErrOptionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "option not found"})
		case errors.Is(err, ledger.ErrSessionMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is missing"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		}
		return
	}

	// Fan out the fresh tally. Delivery failures are handled inside the hub
	// per connection and never surface to the voter.
	if LiveHub != nil {
		if bytes, err := models.NewVoteEvent(results).Marshal(); err == nil {
			LiveHub.Broadcast(pollID, bytes)
		} else {
			log.Println("failed to marshal vote event:", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "ok",
		"results": results,
	})
}
