package handlers

import (
	"fmt"
	"net/http"

	"factlab/internal/services"
	"factlab/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type castVoteRequest struct {
	OptionKey string `json:"option_key"`
}

// Cast records the acting user's ballot on a content item and returns the
// refreshed aggregate. A second ballot for the same pair comes back as
// 409 duplicate_vote with the aggregate untouched.
func (h *VoteHandler) Cast(c *gin.Context) {
	user := currentUser(c)
	contentID := utils.StringToUint(c.Param("id"))
	if contentID == 0 {
		fail(c, fmt.Errorf("%w: invalid content id", services.ErrValidation))
		return
	}

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OptionKey == "" {
		fail(c, fmt.Errorf("%w: option_key is required", services.ErrValidation))
		return
	}

	results, err := services.CastVote(contentID, user.ID, req.OptionKey)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, results)
}

// Results serves the zero-filled per-option counts plus total.
func (h *VoteHandler) Results(c *gin.Context) {
	contentID := utils.StringToUint(c.Param("id"))
	if contentID == 0 {
		fail(c, fmt.Errorf("%w: invalid content id", services.ErrValidation))
		return
	}

	results, err := services.VoteResultsFor(contentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// UserBallot reports one user's prior ballot on the content, if any.
func (h *VoteHandler) UserBallot(c *gin.Context) {
	contentID := utils.StringToUint(c.Param("id"))
	userID := utils.StringToUint(c.Param("userId"))
	if contentID == 0 || userID == 0 {
		fail(c, fmt.Errorf("%w: invalid id", services.ErrValidation))
		return
	}

	optionKey, err := services.UserBallot(contentID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content_id": contentID,
		"user_id":    userID,
		"voted":      optionKey != "",
		"option_key": optionKey,
	})
}

// MyBallots lists the acting user's voting history.
func (h *VoteHandler) MyBallots(c *gin.Context) {
	user := currentUser(c)

	ballots, err := services.UserBallots(user.ID, utils.StringToInt(c.Query("limit")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ballots": ballots})
}
