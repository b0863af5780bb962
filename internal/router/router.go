package router

import (
	"factlab/internal/handlers"
	"factlab/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Setup wires the JSON API. Reads are public; every mutating route sits
// behind AuthRequired so no store is touched without an acting user.
func Setup(r *gin.Engine) {
	r.Use(middleware.LoadUser())

	contentHandler := handlers.NewContentHandler()
	voteHandler := handlers.NewVoteHandler()
	commentHandler := handlers.NewCommentHandler()
	notificationHandler := handlers.NewNotificationHandler()

	api := r.Group("/api")
	{
		api.GET("/boards", contentHandler.Boards)
		api.GET("/contents", contentHandler.List)
		api.GET("/contents/:id", contentHandler.Detail)
		api.GET("/contents/:id/votes", voteHandler.Results)
		api.GET("/contents/:id/votes/:userId", voteHandler.UserBallot)
		api.GET("/contents/:id/comments", commentHandler.Tree)
		api.GET("/comments/recent", commentHandler.Recent)
	}

	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/contents/:id/votes", voteHandler.Cast)
		authorized.POST("/contents/:id/likes", contentHandler.Like)
		authorized.POST("/contents/:id/comments", commentHandler.Create)
		authorized.DELETE("/comments/:id", commentHandler.Delete)
		authorized.POST("/comments/:id/likes", commentHandler.Like)

		authorized.GET("/me/votes", voteHandler.MyBallots)
		authorized.GET("/me/comments", commentHandler.Mine)
		authorized.GET("/me/notifications", notificationHandler.List)
		authorized.POST("/me/notifications/:id/read", notificationHandler.Read)
		authorized.POST("/me/notifications/read-all", notificationHandler.ReadAll)
	}
}
