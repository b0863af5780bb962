package handlers

import (
	"fmt"
	"net/http"

	"factlab/internal/models"
	"factlab/internal/services"
	"factlab/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	Body            string `json:"body"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// Create posts a top-level comment, or a reply when parent_comment_id is
// present. Body shaping (trim, length) happens in the service.
func (h *CommentHandler) Create(c *gin.Context) {
	user := currentUser(c)
	contentID := utils.StringToUint(c.Param("id"))
	if contentID == 0 {
		fail(c, fmt.Errorf("%w: invalid content id", services.ErrValidation))
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: malformed request body", services.ErrValidation))
		return
	}

	var err error
	var comment *models.Comment
	if req.ParentCommentID != nil {
		comment, err = services.CreateReply(contentID, *req.ParentCommentID, user.ID, req.Body)
	} else {
		comment, err = services.CreateComment(contentID, user.ID, req.Body)
	}
	if err != nil {
		fail(c, err)
		return
	}

	services.NotifyNewComment(comment)
	c.JSON(http.StatusCreated, comment)
}

// Tree serves the content's comment tree: top-level comments in creation
// order, each with its ordered replies.
func (h *CommentHandler) Tree(c *gin.Context) {
	contentID := utils.StringToUint(c.Param("id"))
	if contentID == 0 {
		fail(c, fmt.Errorf("%w: invalid content id", services.ErrValidation))
		return
	}

	tree, err := services.CommentTree(contentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": tree})
}

// Delete applies the author's delete. Ownership is checked in the service,
// not trusted from the client.
func (h *CommentHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	commentID := utils.StringToUint(c.Param("id"))
	if commentID == 0 {
		fail(c, fmt.Errorf("%w: invalid comment id", services.ErrValidation))
		return
	}

	if err := services.DeleteComment(commentID, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Like bumps the like counter and returns the new count.
func (h *CommentHandler) Like(c *gin.Context) {
	commentID := utils.StringToUint(c.Param("id"))
	if commentID == 0 {
		fail(c, fmt.Errorf("%w: invalid comment id", services.ErrValidation))
		return
	}

	count, err := services.LikeComment(commentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"like_count": count})
}

// Recent serves the latest active comments for the main-page ticker.
func (h *CommentHandler) Recent(c *gin.Context) {
	comments, err := services.RecentComments(utils.StringToInt(c.Query("limit")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Mine lists the acting user's own comments.
func (h *CommentHandler) Mine(c *gin.Context) {
	user := currentUser(c)

	comments, err := services.UserComments(user.ID, utils.StringToInt(c.Query("limit")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
