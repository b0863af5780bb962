package models

import (
	"time"
)

// Comment states. There is no state for hard-deleted comments: those rows
// are gone from the table.
const (
	CommentStateActive  = "active"
	CommentStateDeleted = "deleted" // body hidden, thread kept for replies
)

// Comment is a top-level remark or a single-level reply on a Content.
// AuthorID is nullable so soft-deleted comments can be anonymized while the
// row stays addressable. ParentID carries a RESTRICT constraint: a parent
// with surviving replies can never be hard-removed out from under them.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"not null;index" json:"content_id"`
	Content   Content   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID  *uint     `gorm:"index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // nil for top-level comments
	Parent    *Comment  `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	State     string    `gorm:"size:10;not null;default:'active';index" json:"state"`
	LikeCount int       `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}
