package middleware

import (
	"net/http"

	"factlab/internal/db"
	"factlab/internal/models"
	"factlab/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "user"
const UnreadCountKey = "unread_count"

// AuthRequired rejects requests without a valid acting user. Every mutating
// route sits behind this, so stores are never touched unauthenticated.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthenticated",
				"message": services.ErrUnauthenticated.Error(),
			})
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session's user_id to a user row and puts it on the
// context. The session itself is written by the external account service;
// this is the whole identity contract from this side.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CurrentUserKey, &user)

				var count int64
				db.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", user.ID, false).Count(&count)
				c.Set(UnreadCountKey, count)
			}
		}
		c.Next()
	}
}
