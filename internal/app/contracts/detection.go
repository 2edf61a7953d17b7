package contracts

import (
	"context"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/dto/responses"

	"github.com/goccy/go-json"
)

type DetectionUsecase interface {
	SubmitDetection(ctx context.Context, sessionID string, raw *models.RawSubmission) (*responses.DetectionOutcome, error)
	FindDetectionState(ctx context.Context, sessionID string) (*responses.DetectionState, error)
	FindQuestions(ctx context.Context) ([]models.Question, error)
	FindSuggestions(ctx context.Context) (json.RawMessage, error)
}
