package services

import (
	"fmt"
	"log/slog"

	"factlab/internal/db"
	"factlab/internal/models"
)

// NotifyNewComment tells the content's author that someone commented, or
// the parent comment's author when the new comment is a reply. Fired in a
// goroutine by the handler: notification failures never fail the comment.
func NotifyNewComment(comment *models.Comment) {
	go func() {
		var err error
		if comment.ParentID != nil {
			err = notifyReply(comment)
		} else {
			err = notifyComment(comment)
		}
		if err != nil {
			slog.Warn("notification not delivered", "comment_id", comment.ID, "error", err)
		}
	}()
}

func notifyComment(comment *models.Comment) error {
	var content models.Content
	if err := db.DB.First(&content, comment.ContentID).Error; err != nil {
		return err
	}
	if content.AuthorID == nil || comment.AuthorID == nil {
		return nil // curated news without an author, or anonymized commenter
	}
	if *content.AuthorID == *comment.AuthorID {
		return nil // no self-notification
	}
	n := models.Notification{
		UserID:  *content.AuthorID,
		ActorID: comment.AuthorID,
		Type:    models.NotificationTypeCommentContent,
		Reason:  fmt.Sprintf("'%s' 글에 새 댓글이 달렸습니다.", content.Title),
	}
	return db.DB.Create(&n).Error
}

func notifyReply(reply *models.Comment) error {
	var parent models.Comment
	if err := db.DB.First(&parent, *reply.ParentID).Error; err != nil {
		return err
	}
	if parent.AuthorID == nil || reply.AuthorID == nil {
		return nil
	}
	if *parent.AuthorID == *reply.AuthorID {
		return nil
	}
	n := models.Notification{
		UserID:  *parent.AuthorID,
		ActorID: reply.AuthorID,
		Type:    models.NotificationTypeReplyComment,
		Reason:  "회원님의 댓글에 답글이 달렸습니다.",
	}
	return db.DB.Create(&n).Error
}

// UserNotifications lists a user's latest notifications.
func UserNotifications(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var notifications []models.Notification
	if err := db.DB.Preload("Actor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, storageErr("list notifications", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks one of the user's notifications read. Marking
// somebody else's notification is a not-found, not a forbidden: the row is
// simply outside the user's view.
func MarkNotificationRead(notificationID, userID uint) error {
	res := db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return storageErr("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
	}
	return nil
}

// MarkAllNotificationsRead clears the user's unread badge.
func MarkAllNotificationsRead(userID uint) error {
	if err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return storageErr("mark notifications read", err)
	}
	return nil
}
