package catalogs

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"os"

	"github.com/goccy/go-json"
)

type fileCatalogLoader struct {
	QuestionsPath   string
	SuggestionsPath string
}

func NewFileCatalogLoader(questionsPath, suggestionsPath string) contracts.CatalogLoader {
	return &fileCatalogLoader{
		QuestionsPath:   questionsPath,
		SuggestionsPath: suggestionsPath,
	}
}

func (l *fileCatalogLoader) Source() string {
	return constvars.CatalogSourceFile
}

func (l *fileCatalogLoader) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	data, err := os.ReadFile(l.QuestionsPath)
	if err != nil {
		return nil, err
	}
	return decodeQuestions(data)
}

func (l *fileCatalogLoader) LoadSuggestions(ctx context.Context) (json.RawMessage, error) {
	data, err := os.ReadFile(l.SuggestionsPath)
	if err != nil {
		return nil, err
	}
	return decodeSuggestions(data)
}
