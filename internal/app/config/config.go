package config

import (
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"fmt"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Enabled:  utils.GetEnvBool("MONGODB_ENABLED", false),
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Enabled:  utils.GetEnvBool("REDIS_ENABLED", false),
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Enabled:  utils.GetEnvBool("RABBITMQ_ENABLED", false),
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Enabled:  utils.GetEnvBool("MINIO_ENABLED", false),
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", ""),
			Password: utils.GetEnvString("MINIO_PASSWORD", ""),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 256),
			AllowedOrigins:             utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"*"}),
		},
		Prediction: AppPrediction{
			BaseUrl:          utils.GetEnvString("PREDICTION_BASE_URL", "http://localhost:8000"),
			TimeoutInSeconds: utils.GetEnvInt("PREDICTION_TIMEOUT_IN_SECONDS", 300),
		},
		Catalog: AppCatalog{
			Source:                utils.GetEnvString("CATALOG_SOURCE", constvars.CatalogSourceFile),
			QuestionsFilePath:     utils.GetEnvString("CATALOG_QUESTIONS_FILE_PATH", "data/questionsData.json"),
			SuggestionsFilePath:   utils.GetEnvString("CATALOG_SUGGESTIONS_FILE_PATH", "data/suggestionsData.json"),
			MinioBucketName:       utils.GetEnvString("CATALOG_MINIO_BUCKET_NAME", "catalogs"),
			MinioQuestionsObject:  utils.GetEnvString("CATALOG_MINIO_QUESTIONS_OBJECT", "questionsData.json"),
			MinioSuggestionObject: utils.GetEnvString("CATALOG_MINIO_SUGGESTIONS_OBJECT", "suggestionsData.json"),
			MongoDBName:           utils.GetEnvString("CATALOG_MONGODB_NAME", "detection"),
			MongoQuestionsColl:    utils.GetEnvString("CATALOG_MONGODB_QUESTIONS_COLLECTION", "questions"),
			MongoSuggestionsColl:  utils.GetEnvString("CATALOG_MONGODB_SUGGESTIONS_COLLECTION", "suggestions"),
			LoadTimeoutInSeconds:  utils.GetEnvInt("CATALOG_LOAD_TIMEOUT_IN_SECONDS", 10),
		},
		Detection: AppDetection{
			AllOrNothing:            utils.GetEnvBool("APP_DETECTION_ALL_OR_NOTHING", false),
			PublishOutcomes:         utils.GetEnvBool("APP_DETECTION_PUBLISH_OUTCOMES", false),
			SessionIdleTTLInMinutes: utils.GetEnvInt("APP_DETECTION_SESSION_IDLE_TTL_IN_MINUTES", 30),
			MaintenanceCronSpec:     utils.GetEnvString("APP_DETECTION_MAINTENANCE_CRON_SPEC", "@every 1m"),
			SubmitLockTTLInSeconds:  utils.GetEnvInt("APP_DETECTION_SUBMIT_LOCK_TTL_IN_SECONDS", 600),
			SubmissionsPerMinute:    utils.GetEnvInt("APP_DETECTION_SUBMISSIONS_PER_MINUTE", 6),
			SubmissionBurst:         utils.GetEnvInt("APP_DETECTION_SUBMISSION_BURST", 2),
			PublishTimeoutInSeconds: utils.GetEnvInt("APP_DETECTION_PUBLISH_TIMEOUT_IN_SECONDS", 5),
		},
	}
}

// Validate checks both configs and the drivers the catalog source depends on.
func Validate(internalConfig *InternalConfig, driverConfig *DriverConfig) error {
	if err := utils.ValidateStruct(internalConfig); err != nil {
		return fmt.Errorf("invalid internal config: %s", exceptions.FormatAllValidationErrors(err))
	}
	if err := utils.ValidateStruct(driverConfig); err != nil {
		return fmt.Errorf("invalid driver config: %s", exceptions.FormatAllValidationErrors(err))
	}

	switch internalConfig.Catalog.Source {
	case constvars.CatalogSourceMinio:
		if !driverConfig.Minio.Enabled {
			return fmt.Errorf("catalog source %s requires MINIO_ENABLED=true", internalConfig.Catalog.Source)
		}
	case constvars.CatalogSourceMongo:
		if !driverConfig.MongoDB.Enabled {
			return fmt.Errorf("catalog source %s requires MONGODB_ENABLED=true", internalConfig.Catalog.Source)
		}
	}
	if internalConfig.Detection.PublishOutcomes && !driverConfig.RabbitMQ.Enabled {
		return fmt.Errorf("publishing detection outcomes requires RABBITMQ_ENABLED=true")
	}
	return nil
}
