package contracts

import (
	"context"
	"detection-service/internal/app/models"

	"github.com/goccy/go-json"
)

type CatalogLoader interface {
	Source() string
	LoadQuestions(ctx context.Context) ([]models.Question, error)
	LoadSuggestions(ctx context.Context) (json.RawMessage, error)
}
