package constvars

const (
	FindQuestionsSuccessMessage      = "questions retrieved successfully"
	FindSuggestionsSuccessMessage    = "suggestions retrieved successfully"
	DetectionSucceededMessage        = "detection finished successfully"
	DetectionFailedMessage           = "detection finished with failures"
	FindDetectionStateSuccessMessage = "detection state retrieved successfully"
)
