package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionIDKey      = "session_id"
	LoggingAttemptIDKey      = "attempt_id"
	LoggingEndpointKindKey   = "endpoint_kind"
	LoggingEndpointURLKey    = "endpoint_url"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingOperationKey      = "operation"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingErrorCodeKey      = "error_code"
	LoggingErrorMessageKey   = "error_message"
	LoggingFileCountKey      = "file_count"
	LoggingCatalogSourceKey  = "catalog_source"
	LoggingQuestionCountKey  = "question_count"
	LoggingPhaseKey          = "phase"
	LoggingQueueNameKey      = "queue_name"
	LoggingRedisKey          = "redis_key"
	LoggingLockValueKey      = "lock_value"
	LoggingFailedCallsKey    = "failed_calls"
	LoggingValidationKindKey = "validation_kind"
	LoggingFieldKey          = "field"
	LoggingEvictedKey        = "evicted"
	LoggingCronSpecKey       = "cron_spec"
	LoggingStackKey          = "stack"
	LoggingBodySizeKey       = "body_size"
	LoggingPortKey           = "port"
)
