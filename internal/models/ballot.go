package models

import (
	"time"
)

// Ballot is one user's trust vote on one Content. The composite unique
// index is the enforcement point for the one-ballot-per-user rule: two
// concurrent casts race to insert and the loser gets a duplicate-key error,
// never a silent overwrite. Ballots are immutable once cast.
type Ballot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"not null;uniqueIndex:idx_ballot_content_user" json:"content_id"`
	Content   Content   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ballot_content_user;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	OptionKey string    `gorm:"size:30;not null" json:"option_key"`
	CreatedAt time.Time `json:"created_at"`
}
