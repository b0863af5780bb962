package models

import (
	"time"
)

// User rows are owned by the external account service; this service only
// reads them to attach author names to comments and ballots.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"-"`
	Avatar    string    `gorm:"size:200" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}
