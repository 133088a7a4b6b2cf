package api

import (
	"net/http"

	actionDelivery "execassist-backend/internal/action/delivery"
	actionUsecase "execassist-backend/internal/action/usecase"
	"execassist-backend/internal/auth/delivery"
	authUsecase "execassist-backend/internal/auth/usecase"
	followupDelivery "execassist-backend/internal/followup/delivery"
	followupUsecase "execassist-backend/internal/followup/usecase"
	"execassist-backend/internal/workspace"
	workspaceDelivery "execassist-backend/internal/workspace/delivery"
	"execassist-backend/pkg/ai"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, workspaceSvc *workspace.Service, followupUc followupUsecase.FollowupUsecase, actionUc actionUsecase.ActionUsecase, aiService ai.CompletionService) {
	authHandler := delivery.NewAuthHandler(authUc)
	workspaceHandler := workspaceDelivery.NewWorkspaceHandler(workspaceSvc)
	followupHandler := followupDelivery.NewFollowupHandler(followupUc)
	actionHandler := actionDelivery.NewActionHandler(actionUc, workspaceSvc, aiService)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.GET("/google/connect", delivery.AuthMiddleware(authUc), authHandler.GoogleConnect)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		// Mail routes (protected)
		mail := api.Group("/mail")
		mail.Use(delivery.AuthMiddleware(authUc))
		{
			mail.GET("/labels", workspaceHandler.ListLabels)
			mail.POST("/labels", workspaceHandler.CreateLabel)
			mail.GET("/messages", workspaceHandler.ListMessages)
			mail.GET("/messages/:id", workspaceHandler.GetMessage)
			mail.POST("/send", workspaceHandler.SendMessage)
			mail.POST("/autosort", workspaceHandler.AutoSort)
			mail.GET("/briefing", workspaceHandler.Briefing)
		}

		// Remaining workspace surfaces (protected)
		protected := api.Group("")
		protected.Use(delivery.AuthMiddleware(authUc))
		{
			protected.GET("/calendar/events", workspaceHandler.ListEvents)
			protected.GET("/drive/files", workspaceHandler.ListFiles)
			protected.GET("/tasklists", workspaceHandler.ListTaskLists)
		}

		// Follow-up task routes (protected)
		followups := api.Group("/followups")
		followups.Use(delivery.AuthMiddleware(authUc))
		{
			followups.POST("", followupHandler.Create)
			followups.GET("", followupHandler.List)
			followups.GET("/due", followupHandler.ListDue)
			followups.GET("/:id", followupHandler.Get)
			followups.GET("/:id/events", followupHandler.Events)
			followups.POST("/:id/approve", followupHandler.Approve)
			followups.POST("/:id/snooze", followupHandler.Snooze)
			followups.POST("/:id/dismiss", followupHandler.Dismiss)
			followups.POST("/:id/regenerate", followupHandler.Regenerate)
			followups.POST("/:id/sent", followupHandler.MarkSent)
		}

		// Assistant action routes (protected)
		actions := api.Group("/actions")
		actions.Use(delivery.AuthMiddleware(authUc))
		{
			actions.POST("/draft-reply", actionHandler.DraftReply)
			actions.POST("/schedule-meeting", actionHandler.ScheduleMeeting)
			actions.POST("/:id/confirm", actionHandler.Confirm)
			actions.POST("/:id/undo", actionHandler.Undo)
			actions.POST("/:id/feedback", actionHandler.Feedback)
			actions.GET("/metrics", actionHandler.Metrics)
		}
	}
}
