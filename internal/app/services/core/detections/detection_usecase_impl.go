package detections

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/dto/responses"
	"detection-service/internal/pkg/exceptions"
	"detection-service/internal/pkg/utils"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type detectionUsecase struct {
	Catalogs      *models.Catalogs
	CatalogErr    error
	Registry      *Registry
	LockerService contracts.LockerService
	LockTTL       time.Duration
	Log           *zap.Logger
}

type DetectionUsecaseParams struct {
	Catalogs *models.Catalogs
	// CatalogErr is the startup load failure; when set, submission is disabled.
	CatalogErr    error
	Registry      *Registry
	LockerService contracts.LockerService
	LockTTL       time.Duration
}

func NewDetectionUsecase(params DetectionUsecaseParams, logger *zap.Logger) contracts.DetectionUsecase {
	return &detectionUsecase{
		Catalogs:      params.Catalogs,
		CatalogErr:    params.CatalogErr,
		Registry:      params.Registry,
		LockerService: params.LockerService,
		LockTTL:       params.LockTTL,
		Log:           logger,
	}
}

func (uc *detectionUsecase) SubmitDetection(ctx context.Context, sessionID string, raw *models.RawSubmission) (*responses.DetectionOutcome, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("detectionUsecase.SubmitDetection called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Int(constvars.LoggingFileCountKey, len(raw.Images)+len(raw.Videos)),
	)

	if err := uc.catalogAvailable(); err != nil {
		uc.Log.Error("detectionUsecase.SubmitDetection catalog unavailable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if uc.LockerService != nil {
		lockKey := constvars.DetectionSubmitLockPrefix + sessionID
		acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, uc.LockTTL)
		switch {
		case err != nil:
			// Fail open: the per-session state still rejects re-entry on this replica.
			uc.Log.Warn("detectionUsecase.SubmitDetection submit lock unavailable; continuing without it",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		case !acquired:
			return nil, exceptions.ErrDetectionInProgress(ErrSubmissionInProgress, sessionID)
		default:
			defer func() {
				if err := uc.LockerService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
					uc.Log.Warn("detectionUsecase.SubmitDetection failed to release submit lock",
						zap.String(constvars.LoggingRequestIDKey, requestID),
						zap.String(constvars.LoggingRedisKey, lockKey),
						zap.Error(err),
					)
				}
			}()
		}
	}

	orchestrator, err := uc.Registry.GetOrCreate(sessionID)
	if err != nil {
		uc.Log.Error("detectionUsecase.SubmitDetection error creating orchestrator",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrServerProcess(err)
	}

	outcome, err := orchestrator.Submit(ctx, raw)
	uc.Registry.Touch(sessionID)
	if err != nil {
		if errors.Is(err, ErrSubmissionInProgress) {
			return nil, exceptions.ErrDetectionInProgress(err, sessionID)
		}
		return nil, exceptions.ErrServerProcess(err)
	}

	if outcome.Failure != nil && outcome.Failure.Validation != nil {
		return nil, exceptions.ErrDetectionValidation(outcome.Failure.Validation)
	}

	response := responses.NewDetectionOutcome(sessionID, outcome)
	response.Suggestions = uc.Catalogs.Suggestions

	uc.Log.Info("detectionUsecase.SubmitDetection succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingAttemptIDKey, outcome.AttemptID),
		zap.Bool(constvars.LoggingSuccessKey, outcome.Succeeded()),
	)
	return response, nil
}

// FindDetectionState reports idle for a session that never submitted.
func (uc *detectionUsecase) FindDetectionState(ctx context.Context, sessionID string) (*responses.DetectionState, error) {
	uc.Log.Debug("detectionUsecase.FindDetectionState called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	orchestrator, ok := uc.Registry.Get(sessionID)
	if !ok {
		return responses.NewDetectionState(sessionID, models.StateSnapshot{Phase: models.SubmissionPhaseIdle}), nil
	}
	return responses.NewDetectionState(sessionID, orchestrator.State()), nil
}

func (uc *detectionUsecase) FindQuestions(ctx context.Context) ([]models.Question, error) {
	if err := uc.catalogAvailable(); err != nil {
		return nil, err
	}
	return uc.Catalogs.Questions, nil
}

func (uc *detectionUsecase) FindSuggestions(ctx context.Context) (json.RawMessage, error) {
	if err := uc.catalogAvailable(); err != nil {
		return nil, err
	}
	return uc.Catalogs.Suggestions, nil
}

func (uc *detectionUsecase) catalogAvailable() error {
	if uc.CatalogErr != nil {
		return exceptions.ErrCatalogUnavailable(uc.CatalogErr)
	}
	if uc.Catalogs == nil || len(uc.Catalogs.Questions) == 0 {
		return exceptions.ErrCatalogUnavailable(ErrEmptyCatalog)
	}
	return nil
}
