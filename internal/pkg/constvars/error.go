package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":    "is required",
	"required_if": "is required when the driver is enabled",
	"min":         "must be at least %s",
	"max":         "maximum at %s",
	"url":         "must be a valid URL",
	"oneof":       "must be one of %s",
	"unique":      "must be unique",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientTooManyRequests               = "too many requests, please try again later"
	ErrClientDetectionInProgress           = "your previous submission is still being analyzed"
	ErrClientCatalogUnavailable            = "the questionnaire is not available right now, please try again later"
	ErrClientInvalidImageFormat            = "images must be png, jpeg, or jpg"
	ErrClientInvalidVideoFormat            = "videos must be avi or mp4"
	ErrClientRequestBodyTooLarge           = "request body must not exceed %d MB"
)

// Error messages for developers
const (
	ErrDevMissingRequestID         = "request id not found in context"
	ErrDevCannotParseJSON          = "cannot parse JSON"
	ErrDevCannotMarshalJSON        = "cannot marshal JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form"
	ErrDevCreateHTTPRequest        = "failed to create HTTP request"
	ErrDevSendHTTPRequest          = "failed to send HTTP request"
	ErrDevServerProcess            = "failed to process the request on the server"
	ErrDevServerDeadlineExceeded   = "deadline exceeded"
	ErrDevServerTooManyRequests    = "request limit exceeded"

	ErrDevDetectionValidation     = "detection submission failed normalization"
	ErrDevDetectionInProgress     = "detection submission already in progress for session %s"
	ErrDevCatalogUnavailable      = "question catalog is not loaded"
	ErrDevCatalogLoad             = "failed to load %s catalog from %s"
	ErrDevCatalogInvalid          = "catalog failed validation"
	ErrDevImageValidationFailed   = "uploaded image has unsupported extension"
	ErrDevVideoValidationFailed   = "uploaded video has unsupported extension"
	ErrDevRequestBodyTooLarge     = "request body exceeds the configured limit"
	ErrDevMinioGetObject          = "failed to get object %s from bucket %s"
	ErrDevMongoDBFindDocument     = "failed when do find document on database"
	ErrDevMongoDBIterateDocuments = "failed to iterate documents"
	ErrDevRedisGetData            = "failed to get data from redis"
	ErrDevRedisSetData            = "failed to set data into redis"
	ErrDevRedisDeleteData         = "failed to delete data from redis"
	ErrDevRedisUnlock             = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage  = "failed to publish message to queue %s"
	ErrDevRabbitMQPublishNotAcked = "broker did not acknowledge message on queue %s"
)
