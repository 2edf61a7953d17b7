package config

type InternalConfig struct {
	App        App           `mapstructure:"app" validate:"required"`
	Prediction AppPrediction `mapstructure:"prediction" validate:"required"`
	Catalog    AppCatalog    `mapstructure:"catalog" validate:"required"`
	Detection  AppDetection  `mapstructure:"detection" validate:"required"`
}

type App struct {
	Env                        string   `mapstructure:"env" validate:"required,oneof=development production"`
	Port                       string   `mapstructure:"port" validate:"required"`
	Version                    string   `mapstructure:"version" validate:"required"`
	EndpointPrefix             string   `mapstructure:"endpoint_prefix" validate:"required"`
	MaxRequests                int      `mapstructure:"max_requests" validate:"min=1"`
	MaxTimeRequestsPerSeconds  int      `mapstructure:"max_time_requests_per_seconds" validate:"min=1"`
	ShutdownTimeoutInSeconds   int      `mapstructure:"shutdown_timeout_in_seconds" validate:"min=1"`
	RequestBodyLimitInMegabyte int      `mapstructure:"request_body_limit_in_megabyte" validate:"min=1"`
	AllowedOrigins             []string `mapstructure:"allowed_origins"`
}

type AppPrediction struct {
	BaseUrl          string `mapstructure:"base_url" validate:"required,url"`
	TimeoutInSeconds int    `mapstructure:"timeout_in_seconds" validate:"min=1"`
}

// AppCatalog selects where the question and suggestion catalogs are loaded from.
type AppCatalog struct {
	Source                string `mapstructure:"source" validate:"required,oneof=file minio mongodb"`
	QuestionsFilePath     string `mapstructure:"questions_file_path"`
	SuggestionsFilePath   string `mapstructure:"suggestions_file_path"`
	MinioBucketName       string `mapstructure:"minio_bucket_name"`
	MinioQuestionsObject  string `mapstructure:"minio_questions_object"`
	MinioSuggestionObject string `mapstructure:"minio_suggestion_object"`
	MongoDBName           string `mapstructure:"mongodb_name"`
	MongoQuestionsColl    string `mapstructure:"mongo_questions_collection"`
	MongoSuggestionsColl  string `mapstructure:"mongo_suggestions_collection"`
	LoadTimeoutInSeconds  int    `mapstructure:"load_timeout_in_seconds" validate:"min=1"`
}

type AppDetection struct {
	// AllOrNothing discards partial results when any prediction call fails.
	AllOrNothing            bool   `mapstructure:"all_or_nothing"`
	PublishOutcomes         bool   `mapstructure:"publish_outcomes"`
	SessionIdleTTLInMinutes int    `mapstructure:"session_idle_ttl_in_minutes" validate:"min=1"`
	MaintenanceCronSpec     string `mapstructure:"maintenance_cron_spec" validate:"required"`
	SubmitLockTTLInSeconds  int    `mapstructure:"submit_lock_ttl_in_seconds" validate:"min=1"`
	SubmissionsPerMinute    int    `mapstructure:"submissions_per_minute" validate:"min=1"`
	SubmissionBurst         int    `mapstructure:"submission_burst" validate:"min=1"`
	PublishTimeoutInSeconds int    `mapstructure:"publish_timeout_in_seconds" validate:"min=1"`
}
