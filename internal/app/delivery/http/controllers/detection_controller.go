package controllers

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type DetectionController struct {
	Log              *zap.Logger
	DetectionUsecase contracts.DetectionUsecase
}

func NewDetectionController(logger *zap.Logger, detectionUsecase contracts.DetectionUsecase) *DetectionController {
	return &DetectionController{
		Log:              logger,
		DetectionUsecase: detectionUsecase,
	}
}

func (ctrl *DetectionController) SubmitDetection(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("DetectionController.SubmitDetection requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	sessionID := utils.GetSessionID(r.Context())

	ctrl.Log.Info("DetectionController.SubmitDetection called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	if err := r.ParseMultipartForm(constvars.DefaultMultipartMemoryInMB << 20); err != nil {
		ctrl.Log.Error("DetectionController.SubmitDetection error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	raw, err := buildRawSubmission(r.MultipartForm)
	if err != nil {
		ctrl.Log.Error("DetectionController.SubmitDetection rejected uploaded file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response, err := ctrl.DetectionUsecase.SubmitDetection(r.Context(), sessionID, raw)
	if err != nil {
		ctrl.Log.Error("DetectionController.SubmitDetection error in DetectionUsecase.SubmitDetection",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("DetectionController.SubmitDetection succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAttemptIDKey, response.AttemptID),
		zap.Bool(constvars.LoggingSuccessKey, response.Success),
	)

	message := constvars.DetectionSucceededMessage
	if !response.Success {
		message = constvars.DetectionFailedMessage
	}
	utils.BuildResponse(w, constvars.StatusOK, response.Success, message, response)
}

func (ctrl *DetectionController) FindDetectionState(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok {
		ctrl.Log.Error("DetectionController.FindDetectionState requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	sessionID := utils.GetSessionID(r.Context())

	ctrl.Log.Info("DetectionController.FindDetectionState called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	response, err := ctrl.DetectionUsecase.FindDetectionState(r.Context(), sessionID)
	if err != nil {
		ctrl.Log.Error("DetectionController.FindDetectionState error in DetectionUsecase.FindDetectionState",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("DetectionController.FindDetectionState succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPhaseKey, response.Phase),
	)

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindDetectionStateSuccessMessage, response)
}

// buildRawSubmission maps the form fields onto a submission. Values are kept
// as strings; coercion happens during normalization.
func buildRawSubmission(form *multipart.Form) (*models.RawSubmission, error) {
	raw := &models.RawSubmission{
		Answers: make(map[string]string),
		Demographics: models.RawDemographics{
			AgeMons:          firstValue(form, constvars.FormFieldAgeMons),
			Sex:              firstValue(form, constvars.FormFieldSex),
			Ethnicity:        firstValue(form, constvars.FormFieldEthnicity),
			Jaundice:         firstValue(form, constvars.FormFieldJaundice),
			FamilyMemWithASD: firstValue(form, constvars.FormFieldFamilyMemWithASD),
		},
	}

	for key, values := range form.Value {
		questionID, found := strings.CutPrefix(key, constvars.FormFieldQuestionPrefix)
		if !found || questionID == "" || len(values) == 0 {
			continue
		}
		raw.Answers[questionID] = values[0]
	}

	for _, fileHeader := range form.File[constvars.FormFieldImages] {
		if !hasAllowedExtension(fileHeader.Filename, constvars.AllowedImageExtensions) {
			return nil, exceptions.ErrImageValidation(fmt.Errorf("file %q", fileHeader.Filename))
		}
		raw.Images = append(raw.Images, models.NewFileFromHeader(fileHeader))
	}

	for _, fileHeader := range form.File[constvars.FormFieldVideos] {
		if !hasAllowedExtension(fileHeader.Filename, constvars.AllowedVideoExtensions) {
			return nil, exceptions.ErrVideoValidation(fmt.Errorf("file %q", fileHeader.Filename))
		}
		raw.Videos = append(raw.Videos, models.NewFileFromHeader(fileHeader))
	}

	return raw, nil
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func hasAllowedExtension(filename string, allowed []string) bool {
	return slices.Contains(allowed, strings.ToLower(filepath.Ext(filename)))
}
