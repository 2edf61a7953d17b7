package controllers

import (
	"detection-service/internal/app/contracts"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

type CatalogController struct {
	Log              *zap.Logger
	DetectionUsecase contracts.DetectionUsecase
}

func NewCatalogController(logger *zap.Logger, detectionUsecase contracts.DetectionUsecase) *CatalogController {
	return &CatalogController{
		Log:              logger,
		DetectionUsecase: detectionUsecase,
	}
}

func (ctrl *CatalogController) FindQuestions(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("CatalogController.FindQuestions requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctrl.Log.Info("CatalogController.FindQuestions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := ctrl.DetectionUsecase.FindQuestions(r.Context())
	if err != nil {
		ctrl.Log.Error("CatalogController.FindQuestions error in DetectionUsecase.FindQuestions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("CatalogController.FindQuestions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingQuestionCountKey, len(response)),
	)

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindQuestionsSuccessMessage, response)
}

func (ctrl *CatalogController) FindSuggestions(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("CatalogController.FindSuggestions requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctrl.Log.Info("CatalogController.FindSuggestions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	response, err := ctrl.DetectionUsecase.FindSuggestions(r.Context())
	if err != nil {
		ctrl.Log.Error("CatalogController.FindSuggestions error in DetectionUsecase.FindSuggestions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindSuggestionsSuccessMessage, response)
}
