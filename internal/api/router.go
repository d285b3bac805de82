package api

import (
	"github.com/gin-gonic/gin"
	"github.com/workpulse/daily-task-tracker/internal/auth"
	pkgauth "github.com/workpulse/daily-task-tracker/pkg/auth"
)

// SetupRouter registers the auth endpoints and the /task API surface.
func SetupRouter(router *gin.Engine, handler *Handler, authHandler *AuthHandler, jwtManager *pkgauth.JWTManager) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	taskGroup := router.Group("/task")
	taskGroup.Use(auth.AuthMiddleware(jwtManager))
	{
		tasks := taskGroup.Group("/tasks")
		{
			tasks.POST("", handler.CreateTask)
			tasks.GET("/:id", handler.GetTask)
			tasks.PUT("/:id", handler.UpdateTask)
			tasks.PUT("/:id/rework", handler.ReworkTask)
			tasks.PATCH("/:id/status", handler.UpdateTaskStatus)
			tasks.PATCH("/:id/review", auth.ReviewerOnly(), handler.ReviewTask)
			tasks.POST("/:id/comments", handler.AddComment)
			tasks.POST("/:id/attachments", handler.UploadAttachment)
		}

		taskGroup.GET("/attachments/:id", handler.DownloadAttachment)

		user := taskGroup.Group("/user/:userId")
		{
			user.GET("/daily-tasks", handler.ListUserDailyTasks)
			user.GET("/stats", handler.GetUserStats)
		}

		taskGroup.POST("/daily-tasks/:id/submit", handler.SubmitDailyTasks)
		taskGroup.GET("/teams", handler.ListTeams)

		taskTypes := taskGroup.Group("/task-types")
		{
			taskTypes.GET("", handler.ListTaskTypes)
			taskTypes.POST("", auth.AdminOnly(), handler.CreateTaskType)
			taskTypes.PUT("/:id", auth.AdminOnly(), handler.UpdateTaskType)
			taskTypes.DELETE("/:id", auth.AdminOnly(), handler.DeleteTaskType)
		}
	}
}
