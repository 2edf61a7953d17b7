package constvars

// Remote prediction endpoints, relative to the configured prediction base URL.
const (
	PredictionPathStructured = "/predict"
	PredictionPathImages     = "/predict-images"
	PredictionPathVideos     = "/predict-videos"
)

// Multipart field names used both by the inbound form and the outbound batch requests.
const (
	FormFieldImages            = "images"
	FormFieldVideos            = "videos"
	FormFieldQuestionPrefix    = "questions."
	FormFieldAgeMons           = "age_mons"
	FormFieldSex               = "sex"
	FormFieldEthnicity         = "ethnicity"
	FormFieldJaundice          = "jaundice"
	FormFieldFamilyMemWithASD  = "family_mem_with_asd"
	URLParamSessionID          = "session_id"
	DefaultMultipartMemoryInMB = 32
)

// Keys of the structured prediction payload.
const (
	PayloadKeyAgeMons          = "Age_Mons"
	PayloadKeySex              = "Sex"
	PayloadKeyEthnicity        = "Ethnicity"
	PayloadKeyJaundice         = "Jaundice"
	PayloadKeyFamilyMemWithASD = "Family_mem_with_ASD"
)

var AllowedImageExtensions = []string{".png", ".jpeg", ".jpg"}
var AllowedVideoExtensions = []string{".avi", ".mp4"}

const (
	CatalogSourceFile  = "file"
	CatalogSourceMinio = "minio"
	CatalogSourceMongo = "mongodb"
)

const (
	DetectionOutcomeQueueName  = "detection_outcome_queue"
	DetectionSubmitLockPrefix  = "detection:submit-lock:"
	DetectionSubmitLimitGroup  = "DETECTION-SUBMIT"
	DetectionEventTypeStarted  = "detection.started"
	DetectionEventTypeSettled  = "detection.settled"
	DetectionGenericFailureMsg = "Failed to fetch predictions. Please try again."
)
