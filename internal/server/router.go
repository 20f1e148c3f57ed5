package server

import (
	"github.com/buddyboard/buddyboard/internal/handlers"
	"github.com/buddyboard/buddyboard/internal/middleware"
	"github.com/buddyboard/buddyboard/internal/session"
	"github.com/gin-gonic/gin"
)

func registerRoutes(
	r *gin.Engine,
	sessions *session.Store,
	authH *handlers.AuthHandler,
	groupH *handlers.GroupHandler,
	messageH *handlers.MessageHandler,
	activityH *handlers.ActivityHandler,
	wsH *handlers.WebSocketHandler,
) {
	api := r.Group("/api")

	// Login endpoints carry no session yet.
	api.GET("/google/login", authH.GoogleLogin)
	api.GET("/google/callback", authH.GoogleCallback)
	api.POST("/logout", authH.Logout)

	authed := api.Group("")
	authed.Use(middleware.RequireLogin(sessions))
	{
		authed.GET("/profile", authH.Profile)

		groups := authed.Group("/groups")
		{
			groups.GET("/discover", groupH.Discover)
			groups.POST("/create", groupH.Create)
			groups.POST("/:id/join", groupH.Join)

			groups.GET("/:id/messages", messageH.ListMessages)
			groups.POST("/:id/send-message", messageH.SendMessage)

			groups.POST("/:id/complete", activityH.Complete)
			groups.GET("/:id/check-habit", activityH.CheckHabit)
			groups.GET("/:id/leaderboard", activityH.Leaderboard)
			groups.GET("/:id/activity", activityH.RecentActivity)
		}
	}

	r.GET("/ws", middleware.RequireLogin(sessions), wsH.Connect)
}
