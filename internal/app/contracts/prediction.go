package contracts

import (
	"context"
	"detection-service/internal/app/models"
)

// StructuredPredictionClient sends the coerced questionnaire payload to the
// structured endpoint. Every failure is a *models.TransportError.
type StructuredPredictionClient interface {
	Predict(ctx context.Context, payload *models.StructuredPayload) (models.RemoteResult, error)
}

// BatchPredictionClient sends one multipart request with a part per file.
type BatchPredictionClient interface {
	Kind() models.EndpointKind
	Predict(ctx context.Context, batch models.FileBatch) (models.RemoteResult, error)
}
