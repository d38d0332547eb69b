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

	"github.com/talentflow/talentflow-api/internal/config"
	"github.com/talentflow/talentflow-api/internal/database"
	"github.com/talentflow/talentflow-api/internal/engine"
	"github.com/talentflow/talentflow-api/internal/handler"
	"github.com/talentflow/talentflow-api/internal/middleware"
	"github.com/talentflow/talentflow-api/internal/models"
	"github.com/talentflow/talentflow-api/internal/repository"
	"github.com/talentflow/talentflow-api/internal/router"
	"github.com/talentflow/talentflow-api/internal/service"
	"github.com/talentflow/talentflow-api/pkg/ai"
	cloud "github.com/talentflow/talentflow-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Assessment{}, &models.Response{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventService := buildEventService(cfg, logger)
	eventService.Start(ctx)

	validate := validator.New(validator.WithRequiredStructEnabled())
	policy := engine.Policy{MultiChoice: engine.MultiChoicePolicy(cfg.MultiChoicePolicy)}

	assessmentRepo := repository.NewAssessmentRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	assessmentService := service.NewAssessmentService(assessmentRepo, validate, eventService, logger)
	responseService := service.NewResponseService(responseRepo, assessmentRepo, validate, eventService, policy, logger)
	statsService := service.NewStatsService(assessmentRepo, responseRepo, redisClient, cfg.StatsCacheTTL, logger)
	transferService := service.NewTransferService(assessmentService, responseRepo, statsService, logger)
	feedbackService := service.NewFeedbackService(responseRepo, assessmentRepo, buildSuggester(cfg, logger), logger)

	assessmentHandler := handler.NewAssessmentHandler(assessmentService, statsService, transferService, logger)
	responseHandler := handler.NewResponseHandler(responseService, feedbackService, logger)
	eventsHandler := handler.NewEventsHandler(eventService, logger)

	var uploadHandler *handler.UploadHandler
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploadService := service.NewUploadService(assessmentRepo, uploader, logger)
		uploadHandler = handler.NewUploadHandler(uploadService, logger)
	} else {
		logger.Warn().Msg("cloudinary is not configured; file upload answers are disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssessmentHandler: assessmentHandler,
		ResponseHandler:   responseHandler,
		UploadHandler:     uploadHandler,
		EventsHandler:     eventsHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildEventService(cfg config.Config, logger zerolog.Logger) service.EventService {
	if cfg.NatsURL == "" {
		logger.Warn().Msg("nats is not configured; events are broadcast to local clients only")
		return service.NewEventService(nil, cfg.EventsSubject, logger)
	}

	natsConn, err := database.ConnectNATS(cfg.NatsURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}

	return service.NewEventService(natsConn, cfg.EventsSubject, logger)
}

func buildSuggester(cfg config.Config, logger zerolog.Logger) ai.Suggester {
	if cfg.AIProvider != "openai" || cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("ai feedback suggestions are not configured")
		return nil
	}

	suggester, err := ai.NewOpenAISuggester(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create openai suggester: %v", err)
	}

	return suggester
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
