package handlers

import (
	"fast-vote-api/internal/database"
	"fast-vote-api/internal/models"
	"fast-vote-api/internal/realtime"
)

// LiveHub is the process-wide subscriber registry. It is assigned once at
// startup by routes.SetupRoutes and replaced with a fresh hub in tests, the
// same way tests swap database.DB.
var LiveHub *realtime.Hub

// pollPublish serializes tally publication per poll so subscribers receive
// updates in vote commit order.
var pollPublish = realtime.NewKeyedMutex()

// DBPollFinder checks poll existence against the active database.
func DBPollFinder() realtime.PollFinder {
	return realtime.PollFinderFunc(func(pollID string) (bool, error) {
		var count int64
		err := database.GetDB().Model(&models.Poll{}).Where("id = ?", pollID).Count(&count).Error
		return count > 0, err
	})
}
