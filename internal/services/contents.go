package services

import (
	"fmt"

	"factlab/internal/db"
	"factlab/internal/models"

	"gorm.io/gorm"
)

// GetContent loads one content item and bumps its view counter. The bump is
// a SQL increment; the returned struct reflects the new value.
func GetContent(contentID uint) (*models.Content, error) {
	res := db.DB.Model(&models.Content{}).
		Where("id = ?", contentID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return nil, storageErr("bump view count", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: content %d", ErrNotFound, contentID)
	}

	var content models.Content
	if err := db.DB.Preload("Board").Preload("Author").First(&content, contentID).Error; err != nil {
		return nil, storageErr("load content", err)
	}
	var count int64
	if err := db.DB.Model(&models.Comment{}).Where("content_id = ?", contentID).Count(&count).Error; err != nil {
		return nil, storageErr("count comments", err)
	}
	content.CommentCount = int(count)
	return &content, nil
}

// LikeContent bumps the content-level like counter (distinct from comment
// likes) and returns the new count.
func LikeContent(contentID uint) (int, error) {
	res := db.DB.Model(&models.Content{}).
		Where("id = ?", contentID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if res.Error != nil {
		return 0, storageErr("bump like count", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: content %d", ErrNotFound, contentID)
	}

	var content models.Content
	if err := db.DB.Select("id", "like_count").First(&content, contentID).Error; err != nil {
		return 0, storageErr("reload content", err)
	}
	return content.LikeCount, nil
}

// ListContents returns a newest-first page of content, optionally filtered
// by kind (news/post) and board.
func ListContents(kind string, boardID uint, page, perPage int) ([]models.Content, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 30
	}

	query := db.DB.Preload("Board").Preload("Author").Order("created_at DESC")
	if kind != "" {
		if kind != models.ContentKindNews && kind != models.ContentKindPost {
			return nil, fmt.Errorf("%w: unknown content kind %q", ErrValidation, kind)
		}
		query = query.Where("kind = ?", kind)
	}
	if boardID != 0 {
		query = query.Where("board_id = ?", boardID)
	}

	var contents []models.Content
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&contents).Error; err != nil {
		return nil, storageErr("list contents", err)
	}
	fillCommentCounts(contents)
	return contents, nil
}

// ListBoards returns the seeded board categories.
func ListBoards() ([]models.Board, error) {
	var boards []models.Board
	if err := db.DB.Order("id ASC").Find(&boards).Error; err != nil {
		return nil, storageErr("list boards", err)
	}
	return boards, nil
}

// fillCommentCounts batch-fills CommentCount for a page of content rows.
func fillCommentCounts(contents []models.Content) {
	if len(contents) == 0 {
		return
	}

	ids := make([]uint, len(contents))
	for i, c := range contents {
		ids[i] = c.ID
	}

	type countRow struct {
		ContentID uint
		Count     int
	}
	var rows []countRow
	db.DB.Model(&models.Comment{}).
		Select("content_id, COUNT(*) as count").
		Where("content_id IN ?", ids).
		Group("content_id").
		Scan(&rows)

	countMap := make(map[uint]int, len(rows))
	for _, r := range rows {
		countMap[r.ContentID] = r.Count
	}
	for i := range contents {
		contents[i].CommentCount = countMap[contents[i].ID]
	}
}

// contentExists is a cheap existence probe used by handlers that do not
// need the full row.
func contentExists(contentID uint) error {
	var count int64
	if err := db.DB.Model(&models.Content{}).Where("id = ?", contentID).Count(&count).Error; err != nil {
		return storageErr("probe content", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: content %d", ErrNotFound, contentID)
	}
	return nil
}
