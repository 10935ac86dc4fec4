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

	"github.com/noah-isme/pathfinder-api/internal/config"
	"github.com/noah-isme/pathfinder-api/internal/database"
	"github.com/noah-isme/pathfinder-api/internal/handler"
	"github.com/noah-isme/pathfinder-api/internal/middleware"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/router"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
	"github.com/noah-isme/pathfinder-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Assessment{},
		&models.AssessmentQuestion{},
		&models.ProgressRecord{},
		&models.SkillProgress{},
		&models.LearningPath{},
		&models.CareerProfile{},
		&models.Skill{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	assessmentRepo := repository.NewAssessmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	learningPathRepo := repository.NewLearningPathRepository(db)
	careerRepo := repository.NewCareerRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	analyticsRepo := repository.NewAdminAnalyticsRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	recommendationService := service.NewRecommendationService(
		progressRepo,
		learningPathRepo,
		careerRepo,
		scoring.NewRanker(nil),
		redisClient,
		cfg.RecommendationCacheTTL,
		logger,
	)

	events := service.NewProgressEventBus(redisClient, cfg.EventChannel, natsConn, logger,
		service.InvalidateOnProgress(recommendationService, logger),
	)
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	events.Start(eventsCtx)

	assessmentService := service.NewAssessmentService(assessmentRepo, progressRepo, validate, activityService, events, recommendationService, logger)
	careerService := service.NewCareerService(careerRepo, validate, activityService, logger)
	learningPathService := service.NewLearningPathService(learningPathRepo, logger)
	skillService := service.NewSkillService(skillRepo, validate, activityService, logger)
	analyticsService := service.NewAdminAnalyticsService(analyticsRepo, redisClient, cfg.AnalyticsCacheTTL, logger)
	seedService := service.NewSeedService(assessmentRepo, learningPathRepo, careerRepo, validate, activityService, service.SeedConfig{
		Enabled:        cfg.SeedEnabled,
		Token:          cfg.SeedToken,
		ImportMaxBytes: cfg.CatalogImportMaxBytes,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.CatalogImportMaxBytes) + 1024*1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssessmentHandler:     handler.NewAssessmentHandler(assessmentService, router.SubmitLimiter(cfg), logger),
		RecommendationHandler: handler.NewRecommendationHandler(recommendationService, logger),
		CatalogHandler:        handler.NewCatalogHandler(careerService, learningPathService, skillService, logger),
		AdminCareerHandler:    handler.NewAdminCareerHandler(careerService, logger),
		AdminSkillHandler:     handler.NewAdminSkillHandler(skillService, logger),
		AdminActivityHandler:  handler.NewAdminActivityHandler(activityService, logger),
		AdminAnalyticsHandler: handler.NewAdminAnalyticsHandler(analyticsService, logger),
		SeedHandler:           handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Msg("server started")
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
