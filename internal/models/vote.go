package models

// Vote represents a session's immutable choice of one option.
// The composite unique index backs the one-vote-per-session-per-option
// invariant at the storage level; the ledger enforces it on the hot path.
type Vote struct {
	ID       string `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_votes_user_option"`
	OptionID string `json:"option_id" gorm:"column:option_id;not null;uniqueIndex:idx_votes_user_option"`
}

// TableName specifies the table name for Vote Model
func (Vote) TableName() string {
	return "votes"
}
