package ledger

import (
	"fast-vote-api/internal/models"

	"gorm.io/gorm"
)

// Project recomputes the per-option vote counts for a poll in option creation
// order. Derived state only: recomputed on every call, never cached, so a
// tally can never be staler than the last committed vote the caller saw.
func Project(db *gorm.DB, pollID string) ([]models.OptionResult, error) {
	results := make([]models.OptionResult, 0)
	err := db.Table("options").
		Select("options.id, options.option_text, COUNT(votes.id) AS votes").
		Joins("LEFT JOIN votes ON votes.option_id = options.id").
		Where("options.poll_id = ?", pollID).
		Group("options.id, options.option_text, options.position").
		Order("options.position").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
