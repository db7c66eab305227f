package handlers

import (
	"errors"
	"net/http"
	"time"

	"fast-vote-api/internal/database"
	"fast-vote-api/internal/ledger"
	"fast-vote-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePollRequest represents the request payload for creating a poll
type CreatePollRequest struct {
	PollText string   `json:"poll_text" binding:"required,max=255"`
	Options  []string `json:"options" binding:"required,min=2,max=5,dive,required,max=255"`
}

// PollResponse represents a poll with per-option vote counts
type PollResponse struct {
	ID       string                `json:"id"`
	PollText string                `json:"poll_text"`
	UserID   string                `json:"user_id"`
	PubDate  string                `json:"pub_date"`
	Options  []models.OptionResult `json:"options"`
}

// PollDetailResponse adds the requesting session's own vote state
type PollDetailResponse struct {
	PollResponse
	HasVoted bool   `json:"has_voted"`
	Votes    string `json:"votes"`
}

func toPollResponse(poll models.Poll, options []models.OptionResult) PollResponse {
	return PollResponse{
		ID:       poll.ID,
		PollText: poll.PollText,
		UserID:   poll.UserID,
		PubDate:  poll.PubDate.Format("2006-01-02 15:04:05"),
		Options:  options,
	}
}

/*
*
CreatePoll handles POST /poll/create_poll
Creates a poll with its ordered options (2 to 5) owned by the session.
Options are immutable after creation.
*/
func CreatePoll(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Session ID not found",
		})
		return
	}

	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	poll := models.Poll{
		ID:       uuid.NewString(),
		PollText: req.PollText,
		PubDate:  time.Now(),
		UserID:   sessionID,
	}
	options := make([]models.Option, 0, len(req.Options))
	for i, text := range req.Options {
		options = append(options, models.Option{
			ID:         uuid.NewString(),
			OptionText: text,
			PollID:     poll.ID,
			Position:   i,
		})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		return tx.Create(&options).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create poll",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "ok",
		"poll_id": poll.ID,
	})
}

/*
*
GetUserPolls handles GET /poll/get-user-polls
Returns all polls owned by the session, each with current vote counts.
*/
func GetUserPolls(c *gin.Context) {
	sessionID := c.GetString("session_id")

	var polls []models.Poll
	if err := database.GetDB().Where("user_id = ?", sessionID).Order("pub_date").Find(&polls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch polls",
		})
		return
	}

	resp := make([]PollResponse, 0, len(polls))
	for _, poll := range polls {
		options, err := ledger.Project(database.GetDB(), poll.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch polls",
			})
			return
		}
		resp = append(resp, toPollResponse(poll, options))
	}

	c.JSON(http.StatusOK, resp)
}

/*
*
GetPoll handles GET /poll/get-poll/:id
Returns the poll with vote counts plus whether (and for which option) the
requesting session has already voted on it.
*/
func GetPoll(c *gin.Context) {
	sessionID := c.GetString("session_id")
	pollID := c.Param("id")

	var poll models.Poll
	if err := database.GetDB().Where("id = ?", pollID).First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch poll"})
		}
		return
	}

	options, err := ledger.Project(database.GetDB(), poll.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch poll"})
		return
	}

	// This session's vote on any option of the poll, if one exists.
	var vote models.Vote
	votedOption := ""
	err = database.GetDB().
		Joins("JOIN options ON options.id = votes.option_id").
		Where("votes.user_id = ? AND options.poll_id = ?", sessionID, pollID).
		First(&vote).Error
	if err == nil {
		votedOption = vote.OptionID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch poll"})
		return
	}

	c.JSON(http.StatusOK, PollDetailResponse{
		PollResponse: toPollResponse(poll, options),
		HasVoted:     votedOption != "",
		Votes:        votedOption,
	})
}

/*
*
DeletePoll handles DELETE /poll/:id
Deletes a poll owned by the session along with its options and their votes,
all-or-nothing.
*/
func DeletePoll(c *gin.Context) {
	sessionID := c.GetString("session_id")
	pollID := c.Param("id")

	var poll models.Poll
	if err := database.GetDB().Where("id = ?", pollID).First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch poll"})
		}
		return
	}
	if poll.UserID != sessionID {
		c.JSON(http.StatusForbidden, gin.H{"status": "forbidden"})
		return
	}

	// Cascade: votes -> options -> poll in a single transaction.
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("option_id IN (?)",
			tx.Model(&models.Option{}).Select("id").Where("poll_id = ?", pollID),
		).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&poll).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete poll"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"id":     pollID,
	})
}
