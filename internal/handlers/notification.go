package handlers

import (
	"fmt"
	"net/http"

	"factlab/internal/services"
	"factlab/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := currentUser(c)

	notifications, err := services.UserNotifications(user.ID, utils.StringToInt(c.Query("limit")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) Read(c *gin.Context) {
	user := currentUser(c)
	id := utils.StringToUint(c.Param("id"))
	if id == 0 {
		fail(c, fmt.Errorf("%w: invalid notification id", services.ErrValidation))
		return
	}

	if err := services.MarkNotificationRead(id, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := currentUser(c)

	if err := services.MarkAllNotificationsRead(user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
