package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"factlab/internal/middleware"
	"factlab/internal/models"
	"factlab/internal/services"

	"github.com/gin-gonic/gin"
)

// currentUser returns the acting user set by middleware.LoadUser, or nil.
func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CurrentUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// fail maps a service error onto the wire taxonomy. Every kind keeps its
// own status and code so clients can render the right message instead of a
// generic alert box.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, services.ErrValidation):
		status, code = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, services.ErrDuplicateVote):
		status, code = http.StatusConflict, "duplicate_vote"
	case errors.Is(err, services.ErrParentNotFound):
		status, code = http.StatusNotFound, "parent_not_found"
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrStorage):
		status, code = http.StatusServiceUnavailable, "storage_unavailable"
		slog.Error("storage failure", "path", c.FullPath(), "error", err)
	default:
		slog.Error("unclassified failure", "path", c.FullPath(), "error", err)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}
