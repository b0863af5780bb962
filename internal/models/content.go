package models

import (
	"time"
)

// Content kinds.
const (
	ContentKindNews = "news"
	ContentKindPost = "post"
)

// Analysis classifications assigned to news content by the AI pipeline.
// Board posts carry none and fall back to the default vote schema.
const (
	AnalysisFact          = "FACT_ANALYSIS"
	AnalysisBias          = "BIAS_ANALYSIS"
	AnalysisComprehensive = "COMPREHENSIVE"
)

// Content is anything that can be voted on and commented: a curated news
// item or a community board post.
type Content struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Kind         string    `gorm:"size:10;not null;index" json:"kind"`
	Title        string    `gorm:"not null" json:"title"`
	Body         string    `gorm:"type:text" json:"body"`
	AnalysisType string    `gorm:"size:20" json:"analysis_type"` // news only
	Source       string    `gorm:"size:200" json:"source"`       // news only
	Summary      string    `gorm:"type:text" json:"summary"`     // news only
	BoardID      *uint     `gorm:"index" json:"board_id"`        // posts only
	Board        *Board    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"board,omitempty"`
	AuthorID     *uint     `gorm:"index" json:"author_id"`
	Author       *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	ViewCount    int       `gorm:"default:0" json:"view_count"`
	LikeCount    int       `gorm:"default:0" json:"like_count"`
	VoteCount    int       `gorm:"default:0" json:"vote_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Filled at query time, not stored.
	CommentCount int `gorm:"-" json:"comment_count"`
}
