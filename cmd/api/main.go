package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/config"
	"github.com/autoseo-dev/autoseo-api/internal/database"
	"github.com/autoseo-dev/autoseo-api/internal/handler"
	"github.com/autoseo-dev/autoseo-api/internal/middleware"
	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/observability"
	"github.com/autoseo-dev/autoseo-api/internal/permissions"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
	"github.com/autoseo-dev/autoseo-api/internal/router"
	"github.com/autoseo-dev/autoseo-api/internal/scheduler"
	"github.com/autoseo-dev/autoseo-api/internal/service"
	"github.com/autoseo-dev/autoseo-api/pkg/ai"
	"github.com/autoseo-dev/autoseo-api/pkg/wordpress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	observability.RegisterMetrics()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.AdminGrant{},
		&models.Site{},
		&models.ContentItem{},
		&models.AuditLog{},
		&models.RoleApplication{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()

	roleRepo := repository.NewRoleRepository(db)
	if err := roleRepo.EnsureDefaults(ctx); err != nil {
		log.Fatalf("failed to seed default roles: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable; dashboard caching disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	siteRepo := repository.NewSiteRepository(db)
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	applicationRepo := repository.NewRoleApplicationRepository(db)
	grantRepo := repository.NewAdminGrantRepository(db)

	authorizer := permissions.NewAuthorizer(permissions.AuthorizationConfig{
		OwnerID:  cfg.OwnerUserID,
		AdminIDs: cfg.AdminUserIDs,
	}, grantRepo, logger)

	var composer service.DraftComposer
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		openaiComposer, err := ai.NewOpenAIComposer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai composer: %v", err)
		}
		composer = openaiComposer
	}

	publisher := wordpress.New(wordpress.Config{
		Timeout: cfg.PublishTimeout,
		Logger:  logger,
	})

	lifecycleService := service.NewContentLifecycleService(contentRepo, siteRepo, publisher, validate, logger)
	schedulerService := service.NewSchedulerService(siteRepo, contentRepo, composer, logger)
	applicationService := service.NewRoleApplicationService(applicationRepo, userRepo, validate, logger)
	auditService := service.NewAuditService(auditRepo, logger)
	dashboardService := service.NewDashboardService(contentRepo, siteRepo, applicationRepo, redisClient, cfg.DashboardCacheTTL, logger)

	var runner *scheduler.Runner
	if cfg.SchedulerEnabled {
		runner = scheduler.NewRunner(schedulerService, logger)
		sites, err := schedulerService.EnabledSites(ctx)
		if err != nil {
			log.Fatalf("failed to load sites for scheduling: %v", err)
		}
		runner.Rebuild(sites)
		defer runner.Stop()
	}

	contentHandler := handler.NewContentHandler(lifecycleService, logger)
	schedulerHandler := handler.NewSchedulerHandler(schedulerService, runner, logger)
	applicationHandler := handler.NewRoleApplicationHandler(applicationService, logger)
	auditHandler := handler.NewAuditLogHandler(auditService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ContentHandler:         contentHandler,
		SchedulerHandler:       schedulerHandler,
		RoleApplicationHandler: applicationHandler,
		AuditLogHandler:        auditHandler,
		DashboardHandler:       dashboardHandler,
		Authorizer:             authorizer,
		JWTMiddleware:          middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
