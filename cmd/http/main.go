package main

import (
	"context"
	"detection-service/internal/app/config"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/delivery/http/controllers"
	"detection-service/internal/app/delivery/http/middlewares"
	"detection-service/internal/app/delivery/http/routers"
	"detection-service/internal/app/drivers/database"
	"detection-service/internal/app/drivers/logger"
	"detection-service/internal/app/drivers/messaging"
	"detection-service/internal/app/drivers/storage"
	"detection-service/internal/app/services/core/detections"
	"detection-service/internal/app/services/shared/catalogs"
	"detection-service/internal/app/services/shared/eventqueue"
	"detection-service/internal/app/services/shared/locker"
	"detection-service/internal/app/services/shared/predictions"
	"detection-service/internal/app/services/shared/ratelimiter"
	"detection-service/internal/app/services/shared/redis"
	"detection-service/internal/pkg/constvars"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if err := config.Validate(internalConfig, driverConfig); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	accessLogger := logger.NewLogrusLogger(internalConfig)

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         zapLogger,
		AccessLogger:   accessLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}
	if driverConfig.Redis.Enabled {
		bootstrap.Redis = database.NewRedisClient(driverConfig, zapLogger)
	}
	if driverConfig.MongoDB.Enabled {
		bootstrap.MongoDB = database.NewMongoDB(driverConfig, zapLogger)
	}
	if driverConfig.Minio.Enabled {
		bootstrap.Minio = storage.NewMinio(driverConfig, zapLogger)
	}
	if driverConfig.RabbitMQ.Enabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig, zapLogger)
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		zapLogger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", internalConfig.App.Port),
		Handler: bootstrap.Router,
	}

	go func() {
		zapLogger.Info("Server started", zap.String(constvars.LoggingPortKey, internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to release drivers", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	zapLogger := bootstrap.Logger

	// Catalogs
	loadCtx, cancel := context.WithTimeout(context.Background(), time.Duration(internalConfig.Catalog.LoadTimeoutInSeconds)*time.Second)
	defer cancel()
	catalogData, catalogErr := catalogs.Load(loadCtx, newCatalogLoader(bootstrap), zapLogger)
	if catalogErr != nil {
		zapLogger.Error("Detection submission disabled, catalog could not be loaded",
			zap.String(constvars.LoggingCatalogSourceKey, internalConfig.Catalog.Source),
			zap.Error(catalogErr),
		)
	}

	// Prediction endpoints
	predictionHTTPClient := &http.Client{
		Timeout: time.Duration(internalConfig.Prediction.TimeoutInSeconds) * time.Second,
	}
	predictionClients := detections.PredictionClients{
		Structured: predictions.NewStructuredPredictionClient(internalConfig.Prediction.BaseUrl, predictionHTTPClient, zapLogger),
		Images:     predictions.NewImageBatchPredictionClient(internalConfig.Prediction.BaseUrl, predictionHTTPClient, zapLogger),
		Videos:     predictions.NewVideoBatchPredictionClient(internalConfig.Prediction.BaseUrl, predictionHTTPClient, zapLogger),
	}

	// Observers
	observers := []contracts.SubmissionObserver{detections.NewLoggingObserver(zapLogger)}
	if internalConfig.Detection.PublishOutcomes {
		eventQueue, err := eventqueue.NewService(bootstrap.RabbitMQ, zapLogger, constvars.DetectionOutcomeQueueName)
		if err != nil {
			return err
		}
		bootstrap.Closers = append(bootstrap.Closers, eventQueue.Close)
		observers = append(observers, eventqueue.NewOutcomePublisherObserver(
			eventQueue,
			constvars.DetectionOutcomeQueueName,
			time.Duration(internalConfig.Detection.PublishTimeoutInSeconds)*time.Second,
			zapLogger,
		))
	}
	observer := detections.NewMultiObserver(observers...)

	// Sessions
	orchestratorOptions := detections.OrchestratorOptions{AllOrNothing: internalConfig.Detection.AllOrNothing}
	registry := detections.NewRegistry(func() (*detections.Orchestrator, error) {
		return detections.NewOrchestrator(catalogData, predictionClients, observer, zapLogger, orchestratorOptions)
	}, zapLogger)

	// Submission lock
	var redisRepository contracts.RedisRepository
	var lockerService contracts.LockerService
	if bootstrap.Redis != nil {
		redisRepository = redis.NewRedisRepository(bootstrap.Redis)
		lockerService = locker.NewLockService(redisRepository, zapLogger)
	}

	detectionUsecase := detections.NewDetectionUsecase(detections.DetectionUsecaseParams{
		Catalogs:      catalogData,
		CatalogErr:    catalogErr,
		Registry:      registry,
		LockerService: lockerService,
		LockTTL:       time.Duration(internalConfig.Detection.SubmitLockTTLInSeconds) * time.Second,
	}, zapLogger)

	// Middlewares
	middlewareInstance := middlewares.NewMiddlewares(zapLogger, internalConfig)
	memoryLimiter := middlewares.NewRateLimiter(
		internalConfig.Detection.SubmissionsPerMinute,
		internalConfig.Detection.SubmissionBurst,
		zapLogger,
	)
	submissionLimiter := memoryLimiter.Limit
	if redisRepository != nil {
		submissionLimiter = middlewareInstance.SubmissionQuota(ratelimiter.NewResourceLimiter(redisRepository, zapLogger))
	}

	// Housekeeping
	idleTTL := time.Duration(internalConfig.Detection.SessionIdleTTLInMinutes) * time.Minute
	maintenanceWorker := detections.NewMaintenanceWorker(zapLogger, internalConfig.Detection.MaintenanceCronSpec,
		detections.MaintenanceJob{Name: "sweep idle sessions", Run: func() int { return registry.Sweep(idleTTL) }},
		detections.MaintenanceJob{Name: "drop idle rate limit visitors", Run: func() int { return memoryLimiter.Cleanup(idleTTL) }},
	)
	maintenanceWorker.Start()
	bootstrap.WorkerStop = maintenanceWorker.Stop

	// Controllers
	detectionController := controllers.NewDetectionController(zapLogger, detectionUsecase)
	catalogController := controllers.NewCatalogController(zapLogger, detectionUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewareInstance,
		bootstrap.AccessLogger,
		submissionLimiter,
		detectionController,
		catalogController,
	)
	return nil
}

func newCatalogLoader(bootstrap *config.Bootstrap) contracts.CatalogLoader {
	catalogConfig := bootstrap.InternalConfig.Catalog
	switch catalogConfig.Source {
	case constvars.CatalogSourceMinio:
		return catalogs.NewMinioCatalogLoader(bootstrap.Minio, catalogConfig.MinioBucketName, catalogConfig.MinioQuestionsObject, catalogConfig.MinioSuggestionObject)
	case constvars.CatalogSourceMongo:
		return catalogs.NewMongoCatalogLoader(bootstrap.MongoDB, catalogConfig.MongoDBName, catalogConfig.MongoQuestionsColl, catalogConfig.MongoSuggestionsColl)
	default:
		return catalogs.NewFileCatalogLoader(catalogConfig.QuestionsFilePath, catalogConfig.SuggestionsFilePath)
	}
}
