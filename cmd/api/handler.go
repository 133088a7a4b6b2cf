package api

import (
	actionUsecase "execassist-backend/internal/action/usecase"
	authUsecase "execassist-backend/internal/auth/usecase"
	followupUsecase "execassist-backend/internal/followup/usecase"
	"execassist-backend/internal/workspace"
	"execassist-backend/pkg/ai"
	"execassist-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	workspaceSvc    *workspace.Service
	followupUsecase followupUsecase.FollowupUsecase
	actionUsecase   actionUsecase.ActionUsecase
	aiService       ai.CompletionService
	config          *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, workspaceSvc *workspace.Service, followupUc followupUsecase.FollowupUsecase, actionUc actionUsecase.ActionUsecase, aiService ai.CompletionService, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:     authUc,
		workspaceSvc:    workspaceSvc,
		followupUsecase: followupUc,
		actionUsecase:   actionUc,
		aiService:       aiService,
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.workspaceSvc, h.followupUsecase, h.actionUsecase, h.aiService)

	return r.Run(addr)
}
