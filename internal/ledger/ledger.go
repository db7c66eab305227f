package ledger

import (
	"errors"
	"strings"

	"fast-vote-api/internal/models"
	"fast-vote-api/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSessionMissing means the caller reached the ledger without a session id.
	ErrSessionMissing = errors.New("session id is missing")
	// ErrOptionNotFound means the vote references an option that does not exist.
	ErrOptionNotFound = errors.New("option not found")
	// ErrDuplicateVote means this session already voted for this option.
	ErrDuplicateVote = errors.New("already voted")
)

// voteLocks serializes the duplicate check-and-insert per (session, option)
// pair. The composite unique index on votes backs this up at the storage
// level, but taking the lock first keeps the common race from ever reaching
// a constraint violation.
var voteLocks = realtime.NewKeyedMutex()

// CastVote records a vote for optionID by sessionID, enforcing at most one
// vote per (session, option) pair. On success it returns the option's poll id
// and the freshly projected tally for that poll, computed inside the same
// transaction so it reflects the write that triggered it. Broadcasting the
// tally is the caller's job.
func CastVote(db *gorm.DB, sessionID, optionID string) (string, []models.OptionResult, error) {
	if sessionID == "" {
		return "", nil, ErrSessionMissing
	}

	unlock := voteLocks.Lock(sessionID + "|" + optionID)
	defer unlock()

	var pollID string
	var results []models.OptionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var option models.Option
		if err := tx.Where("id = ?", optionID).First(&option).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}
		pollID = option.PollID

		var existing models.Vote
		err := tx.Where("user_id = ? AND option_id = ?", sessionID, optionID).First(&existing).Error
		if err == nil {
			return ErrDuplicateVote
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		vote := models.Vote{
			ID:       uuid.NewString(),
			UserID:   sessionID,
			OptionID: optionID,
		}
		if err := tx.Create(&vote).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateVote
			}
			return err
		}

		results, err = Project(tx, pollID)
		return err
	})
	if err != nil {
		return "", nil, err
	}
	return pollID, results, nil
}

// isUniqueViolation detects the composite-index backstop firing, which only
// happens if two writers for the same pair slip past the keyed lock (e.g.
// a second process sharing the database file).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
