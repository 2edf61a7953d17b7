package catalogs

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var errSuggestionsNotJSON = errors.New("suggestions catalog is not valid JSON")

const (
	catalogNameQuestions   = "questions"
	catalogNameSuggestions = "suggestions"
)

// Load reads both catalogs from loader and validates the question catalog. A
// partially loaded catalog is never returned.
func Load(ctx context.Context, loader contracts.CatalogLoader, logger *zap.Logger) (*models.Catalogs, error) {
	start := time.Now()
	source := loader.Source()

	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		logger.Error("catalogs.Load error loading questions",
			zap.String(constvars.LoggingCatalogSourceKey, source),
			zap.Error(err),
		)
		return nil, exceptions.ErrCatalogLoad(err, catalogNameQuestions, source)
	}

	suggestions, err := loader.LoadSuggestions(ctx)
	if err != nil {
		logger.Error("catalogs.Load error loading suggestions",
			zap.String(constvars.LoggingCatalogSourceKey, source),
			zap.Error(err),
		)
		return nil, exceptions.ErrCatalogLoad(err, catalogNameSuggestions, source)
	}

	catalogs := &models.Catalogs{
		Questions:   questions,
		Suggestions: suggestions,
	}
	if err := utils.ValidateStruct(catalogs); err != nil {
		logger.Error("catalogs.Load question catalog failed validation",
			zap.String(constvars.LoggingCatalogSourceKey, source),
			zap.String(constvars.LoggingErrorMessageKey, exceptions.FormatAllValidationErrors(err)),
		)
		return nil, exceptions.ErrCatalogInvalid(err)
	}

	logger.Info("catalogs.Load catalogs loaded",
		zap.String(constvars.LoggingCatalogSourceKey, source),
		zap.Int(constvars.LoggingQuestionCountKey, len(questions)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	return catalogs, nil
}

func decodeQuestions(data []byte) ([]models.Question, error) {
	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return questions, nil
}

func decodeSuggestions(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, exceptions.ErrCannotParseJSON(errSuggestionsNotJSON)
	}
	return json.RawMessage(data), nil
}
