package testutil

import (
	"fast-vote-api/internal/models"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// Pin the pool to one connection: every pooled connection to ":memory:"
	// would otherwise open its own private database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Poll{}, &models.Option{}, &models.Vote{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedPoll inserts a poll owned by ownerSession with the given option texts
// and returns the poll plus its options in creation order.
func SeedPoll(db *gorm.DB, ownerSession, pollText string, optionTexts ...string) (models.Poll, []models.Option, error) {
	poll := models.Poll{
		ID:       uuid.NewString(),
		PollText: pollText,
		PubDate:  time.Now(),
		UserID:   ownerSession,
	}
	options := make([]models.Option, 0, len(optionTexts))
	for i, text := range optionTexts {
		options = append(options, models.Option{
			ID:         uuid.NewString(),
			OptionText: text,
			PollID:     poll.ID,
			Position:   i,
		})
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		return tx.Create(&options).Error
	})
	return poll, options, err
}
