package models

import (
	"time"
)

// Poll represents a question with a fixed set of options, created by a session.
type Poll struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	PollText string    `json:"poll_text" gorm:"not null"`
	PubDate  time.Time `json:"pub_date"`
	UserID   string    `json:"user_id" gorm:"column:user_id;not null;index"`
	Options  []Option  `json:"options"`
}

// TableName specifies the table name for Poll Model
func (Poll) TableName() string {
	return "polls"
}

// Option represents one selectable choice within a poll.
// Options are created together with their poll and never change afterwards.
type Option struct {
	ID         string `json:"id" gorm:"primaryKey"`
	OptionText string `json:"option_text" gorm:"not null"`
	PollID     string `json:"-" gorm:"column:poll_id;not null;index"`
	// Position preserves the creation order of options within a poll.
	Position int    `json:"-" gorm:"not null;default:0"`
	Votes    []Vote `json:"-"`
}

// TableName specifies the table name for Option Model
func (Option) TableName() string {
	return "options"
}
