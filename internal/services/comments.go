package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"factlab/internal/db"
	"factlab/internal/models"
	"factlab/internal/utils"

	"gorm.io/gorm"
)

// DeletedBodyPlaceholder replaces the body of a comment its author removed
// while replies were attached.
const DeletedBodyPlaceholder = "작성자가 삭제한 댓글입니다."

const maxCommentLength = 1000

const commentTreeTTL = 60 * time.Second

// CommentNode is one rendered entry of a content's comment tree.
type CommentNode struct {
	ID         uint          `json:"id"`
	AuthorID   *uint         `json:"author_id"`
	AuthorName string        `json:"author_name"`
	Body       string        `json:"body"`
	BodyHTML   string        `json:"body_html"`
	Deleted    bool          `json:"deleted"`
	LikeCount  int           `json:"like_count"`
	CreatedAt  time.Time     `json:"created_at"`
	Replies    []CommentNode `json:"replies,omitempty"`
}

func validateCommentBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: comment body is empty", ErrValidation)
	}
	if utf8.RuneCountInString(body) > maxCommentLength {
		return "", fmt.Errorf("%w: comment body exceeds %d characters", ErrValidation, maxCommentLength)
	}
	return body, nil
}

// CreateComment attaches a new top-level comment to a content item.
func CreateComment(contentID, authorID uint, body string) (*models.Comment, error) {
	body, err := validateCommentBody(body)
	if err != nil {
		return nil, err
	}

	if err := contentExists(contentID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ContentID: contentID,
		AuthorID:  &authorID,
		Body:      body,
		State:     models.CommentStateActive,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, storageErr("insert comment", err)
	}

	utils.GetCache().Delete(commentTreeCacheKey(contentID))
	return &comment, nil
}

// CreateReply attaches a reply under an existing top-level comment. Nesting
// is capped at one level: the parent must itself be top-level. A parent in
// soft-deleted state still accepts replies — its body is hidden, not its
// thread. A missing, foreign, or nested parent is reported as
// ErrParentNotFound so a stale client can refetch the tree.
func CreateReply(contentID, parentID, authorID uint, body string) (*models.Comment, error) {
	body, err := validateCommentBody(body)
	if err != nil {
		return nil, err
	}

	var parent models.Comment
	if err := db.DB.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %d", ErrParentNotFound, parentID)
		}
		return nil, storageErr("load parent comment", err)
	}
	if parent.ContentID != contentID || parent.ParentID != nil {
		return nil, fmt.Errorf("%w: comment %d is not a top-level comment of content %d", ErrParentNotFound, parentID, contentID)
	}

	reply := models.Comment{
		ContentID: contentID,
		AuthorID:  &authorID,
		ParentID:  &parentID,
		Body:      body,
		State:     models.CommentStateActive,
	}
	if err := db.DB.Create(&reply).Error; err != nil {
		// The parent can be hard-removed between the check above and the
		// insert; the foreign key turns that race into a clean failure.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("%w: comment %d", ErrParentNotFound, parentID)
		}
		return nil, storageErr("insert reply", err)
	}

	utils.GetCache().Delete(commentTreeCacheKey(contentID))
	return &reply, nil
}

// LikeComment bumps the like counter and returns the new count. The
// increment happens in SQL, not read-modify-write in Go, so concurrent
// likers never lose updates. Self-like policy belongs to the caller.
func LikeComment(commentID uint) (int, error) {
	res := db.DB.Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if res.Error != nil {
		return 0, storageErr("bump like count", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}

	var comment models.Comment
	if err := db.DB.Select("id", "content_id", "like_count").First(&comment, commentID).Error; err != nil {
		return 0, storageErr("reload comment", err)
	}
	utils.GetCache().Delete(commentTreeCacheKey(comment.ContentID))
	return comment.LikeCount, nil
}

// DeleteComment applies the author's delete to a comment.
//
// Replies always hard-delete. A top-level comment hard-deletes only when it
// has no replies; otherwise it soft-deletes: placeholder body, anonymized
// author, thread kept so existing replies stay in context. The replies
// check and the delete ride one transaction, and the hard delete itself is
// guarded by a NOT EXISTS on the replies, so a reply landing concurrently
// can never be orphaned.
func DeleteComment(commentID, userID uint) error {
	var contentID uint
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
			}
			return storageErr("load comment", err)
		}
		contentID = comment.ContentID

		if comment.AuthorID == nil || *comment.AuthorID != userID {
			return fmt.Errorf("%w: comment %d is not owned by user %d", ErrForbidden, commentID, userID)
		}

		// Replies have no children of their own; nothing to orphan.
		if comment.ParentID != nil {
			if err := tx.Delete(&comment).Error; err != nil {
				return storageErr("delete reply", err)
			}
			return nil
		}

		res := tx.Where("id = ? AND NOT EXISTS (SELECT 1 FROM comments r WHERE r.parent_id = ?)",
			commentID, commentID).
			Delete(&models.Comment{})
		if res.Error != nil {
			return storageErr("delete comment", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil // no replies: removed outright
		}

		// Replies exist: hide the body, keep the thread.
		if err := tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Updates(map[string]interface{}{
				"body":      DeletedBodyPlaceholder,
				"state":     models.CommentStateDeleted,
				"author_id": nil,
			}).Error; err != nil {
			return storageErr("soft-delete comment", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	utils.GetCache().Delete(commentTreeCacheKey(contentID))
	return nil
}

// CommentTree returns a content's top-level comments in creation order,
// each carrying its ordered replies. Soft-deleted comments keep their slot
// with the placeholder body and no author.
func CommentTree(contentID uint) ([]CommentNode, error) {
	cacheKey := commentTreeCacheKey(contentID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if tree, ok := cached.([]CommentNode); ok {
			return tree, nil
		}
	}

	if err := contentExists(contentID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := db.DB.Preload("Author").
		Where("content_id = ?", contentID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, storageErr("list comments", err)
	}

	// Two passes: index the top-level nodes, then hang replies off them.
	tree := make([]CommentNode, 0, len(comments))
	index := make(map[uint]int, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			tree = append(tree, newCommentNode(c))
			index[c.ID] = len(tree) - 1
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			tree[i].Replies = append(tree[i].Replies, newCommentNode(c))
		}
	}

	utils.GetCache().Set(cacheKey, tree, commentTreeTTL)
	return tree, nil
}

// RecentComments feeds the main-page ticker with the latest active comments.
func RecentComments(limit int) ([]models.Comment, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var comments []models.Comment
	if err := db.DB.Preload("Author").
		Where("state = ?", models.CommentStateActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, storageErr("list recent comments", err)
	}
	return comments, nil
}

// UserComments lists a user's own active comments, newest first.
func UserComments(userID uint, limit int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var comments []models.Comment
	if err := db.DB.Where("author_id = ? AND state = ?", userID, models.CommentStateActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, storageErr("list user comments", err)
	}
	return comments, nil
}

func newCommentNode(c models.Comment) CommentNode {
	node := CommentNode{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		BodyHTML:  string(utils.RenderMarkdown(c.Body)),
		Deleted:   c.State == models.CommentStateDeleted,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt,
	}
	if c.Author != nil {
		node.AuthorName = c.Author.Username
	}
	return node
}

func commentTreeCacheKey(contentID uint) string {
	return fmt.Sprintf("comments:content:%d", contentID)
}
