package main

import (
	"log"

	api "execassist-backend/cmd/api"
	actiondomain "execassist-backend/internal/action/domain"
	actionRepo "execassist-backend/internal/action/repository"
	actionUsecase "execassist-backend/internal/action/usecase"
	authdomain "execassist-backend/internal/auth/domain"
	authRepo "execassist-backend/internal/auth/repository"
	authUsecase "execassist-backend/internal/auth/usecase"
	creddomain "execassist-backend/internal/credential/domain"
	credRepo "execassist-backend/internal/credential/repository"
	credUsecase "execassist-backend/internal/credential/usecase"
	followupdomain "execassist-backend/internal/followup/domain"
	followupRepo "execassist-backend/internal/followup/repository"
	followupUsecase "execassist-backend/internal/followup/usecase"
	"execassist-backend/internal/workspace"
	"execassist-backend/pkg/ai"
	"execassist-backend/pkg/config"
	"execassist-backend/pkg/database"
	"execassist-backend/pkg/logger"
	"execassist-backend/pkg/statestore"
	"execassist-backend/pkg/surface"
)

func main() {
	// Load configuration
	cfg := config.Load()
	zlog := logger.New()
	defer zlog.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&creddomain.AccountCredential{},
		&followupdomain.FollowupTask{},
		&followupdomain.FollowupEvent{},
		&actiondomain.AssistantAction{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	credentialRepository := credRepo.NewCredentialRepository(db)
	followupRepository := followupRepo.NewFollowupRepository(db)
	actionRepository := actionRepo.NewActionRepository(db)

	// Single-use connect-flow markers live in redis
	states := statestore.New(cfg.RedisAddr)

	// Token coordinator and the remote surface gateways built on it
	coordinator := credUsecase.NewTokenCoordinator(credentialRepository, cfg)
	surfaces := surface.NewSet(cfg, coordinator)

	// Completion service degrades to templates when no key is configured
	aiService := ai.NewCompletionService(cfg)

	workspaceSvc := workspace.NewService(surfaces, aiService)

	// Initialize usecases
	authUc := authUsecase.NewAuthUsecase(userRepository, states, coordinator, cfg)
	followupUc := followupUsecase.NewFollowupUsecase(followupRepository, aiService)
	actionUc := actionUsecase.NewActionUsecase(actionRepository)

	// Initialize handler and start server
	handler := api.NewHandler(authUc, workspaceSvc, followupUc, actionUc, aiService, cfg)

	zlog.Info("starting server on :" + cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
