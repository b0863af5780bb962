package handlers

import (
	"fmt"
	"net/http"

	"factlab/internal/services"
	"factlab/internal/utils"
	"factlab/internal/voteschema"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct{}

func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// List serves the newest-first content feed, filtered by kind and board.
func (h *ContentHandler) List(c *gin.Context) {
	contents, err := services.ListContents(
		c.Query("kind"),
		utils.StringToUint(c.Query("board_id")),
		utils.StringToInt(c.DefaultQuery("page", "1")),
		utils.StringToInt(c.Query("per_page")),
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contents": contents})
}

// Detail serves one content item with its resolved vote schema and current
// aggregates, and counts the view.
func (h *ContentHandler) Detail(c *gin.Context) {
	contentID := utils.StringToUint(c.Param("id"))
	if contentID == 0 {
		fail(c, fmt.Errorf("%w: invalid content id", services.ErrValidation))
		return
	}

	content, err := services.GetContent(contentID)
	if err != nil {
		fail(c, err)
		return
	}

	results, err := services.VoteResultsFor(contentID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{
		"content":      content,
		"vote_schema":  voteschema.Resolve(content.AnalysisType),
		"vote_results": results,
	}

	// Let a signed-in reader see their own ballot without a second call.
	if user := currentUser(c); user != nil {
		optionKey, err := services.UserBallot(contentID, user.ID)
		if err != nil {
			fail(c, err)
			return
		}
		resp["my_ballot"] = optionKey
	}

	c.JSON(http.StatusOK, resp)
}

// Like bumps the content-level like counter.
func (h *ContentHandler) Like(c *gin.Context) {
	contentID := utils.StringToUint(c.Param("id"))
	if contentID == 0 {
		fail(c, fmt.Errorf("%w: invalid content id", services.ErrValidation))
		return
	}

	count, err := services.LikeContent(contentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"like_count": count})
}

// Boards serves the seeded board categories.
func (h *ContentHandler) Boards(c *gin.Context) {
	boards, err := services.ListBoards()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}
