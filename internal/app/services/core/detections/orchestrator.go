package detections

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/utils"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var ErrEmptyCatalog = errors.New("question catalog is empty")

type OrchestratorOptions struct {
	// AllOrNothing discards every result when any call fails and hides which
	// calls failed.
	AllOrNothing bool
}

type PredictionClients struct {
	Structured contracts.StructuredPredictionClient
	Images     contracts.BatchPredictionClient
	Videos     contracts.BatchPredictionClient
}

// Orchestrator drives the submissions of one form session.
type Orchestrator struct {
	questionIDs []string
	clients     PredictionClients
	observer    contracts.SubmissionObserver
	state       *StateHolder
	log         *zap.Logger
	options     OrchestratorOptions
	now         func() time.Time
}

func NewOrchestrator(
	catalogs *models.Catalogs,
	clients PredictionClients,
	observer contracts.SubmissionObserver,
	log *zap.Logger,
	options OrchestratorOptions,
) (*Orchestrator, error) {
	if catalogs == nil || len(catalogs.Questions) == 0 {
		return nil, ErrEmptyCatalog
	}
	if observer == nil {
		observer = NopObserver{}
	}

	return &Orchestrator{
		questionIDs: catalogs.QuestionIDs(),
		clients:     clients,
		observer:    observer,
		state:       NewStateHolder(),
		log:         log,
		options:     options,
		now:         time.Now,
	}, nil
}

func (o *Orchestrator) State() models.StateSnapshot {
	return o.state.Snapshot()
}

// Submit runs one attempt and returns its outcome, including failed outcomes.
// The only error is ErrSubmissionInProgress, returned without touching state.
func (o *Orchestrator) Submit(ctx context.Context, raw *models.RawSubmission) (*models.SubmissionOutcome, error) {
	attemptID, err := o.state.Begin()
	if err != nil {
		return nil, err
	}

	requestID := utils.GetRequestID(ctx)
	o.log.Info("Orchestrator.Submit attempt started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAttemptIDKey, attemptID),
	)
	o.observer.OnSubmissionStart(ctx, attemptID)

	payload, err := Normalize(raw, o.questionIDs)
	if err != nil {
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			validationErr = &models.ValidationError{Field: err.Error()}
		}
		o.log.Info("Orchestrator.Submit normalization failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAttemptIDKey, attemptID),
			zap.String(constvars.LoggingValidationKindKey, string(validationErr.Kind)),
			zap.String(constvars.LoggingFieldKey, validationErr.Field),
		)
		outcome := &models.SubmissionOutcome{
			AttemptID: attemptID,
			Failure: &models.Failure{
				Message:    validationErr.Error(),
				Validation: validationErr,
			},
		}
		return o.settle(ctx, outcome), nil
	}

	calls := o.dispatch(context.WithoutCancel(ctx), attemptID, payload)
	return o.settle(ctx, o.aggregate(attemptID, calls)), nil
}

type callSlot struct {
	launched bool
	result   models.RemoteResult
	err      error
}

// dispatch runs every launched call to completion. A failed call never cancels
// the others; each call writes only its own slot.
func (o *Orchestrator) dispatch(ctx context.Context, attemptID string, payload *models.NormalizedPayload) map[models.EndpointKind]*callSlot {
	slots := make(map[models.EndpointKind]*callSlot, len(models.EndpointKinds))
	for _, kind := range models.EndpointKinds {
		slots[kind] = &callSlot{}
	}

	requestID := utils.GetRequestID(ctx)
	calls := pool.New().WithErrors()
	launch := func(kind models.EndpointKind, fileCount int, call func(context.Context) (models.RemoteResult, error)) {
		slot := slots[kind]
		slot.launched = true
		calls.Go(func() error {
			start := time.Now()
			var result models.RemoteResult
			var err error
			var catcher panics.Catcher
			catcher.Try(func() { result, err = call(ctx) })
			if recovered := catcher.Recovered(); recovered != nil {
				o.log.Error("Orchestrator.dispatch prediction call panicked",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingAttemptIDKey, attemptID),
					zap.String(constvars.LoggingEndpointKindKey, string(kind)),
					zap.String(constvars.LoggingStackKey, string(recovered.Stack)),
				)
				result, err = nil, &models.TransportError{
					Kind:    kind,
					Message: fmt.Sprintf("panic: %v", recovered.Value),
					Err:     recovered.AsError(),
				}
			}
			slot.result, slot.err = result, err

			fields := []zap.Field{
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingAttemptIDKey, attemptID),
				zap.String(constvars.LoggingEndpointKindKey, string(kind)),
				zap.Int(constvars.LoggingFileCountKey, fileCount),
				zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
				zap.Bool(constvars.LoggingSuccessKey, err == nil),
			}
			if err != nil {
				o.log.Warn("Orchestrator.dispatch prediction call failed", append(fields, zap.Error(err))...)
				return err
			}
			o.log.Info("Orchestrator.dispatch prediction call succeeded", fields...)
			return nil
		})
	}

	launch(models.EndpointKindStructured, 0, func(ctx context.Context) (models.RemoteResult, error) {
		return o.clients.Structured.Predict(ctx, payload.Structured)
	})
	if len(payload.ImageBatch) > 0 {
		launch(models.EndpointKindImages, len(payload.ImageBatch), func(ctx context.Context) (models.RemoteResult, error) {
			return o.clients.Images.Predict(ctx, payload.ImageBatch)
		})
	}
	if len(payload.VideoBatch) > 0 {
		launch(models.EndpointKindVideos, len(payload.VideoBatch), func(ctx context.Context) (models.RemoteResult, error) {
			return o.clients.Videos.Predict(ctx, payload.VideoBatch)
		})
	}

	if err := calls.Wait(); err != nil {
		o.log.Warn("Orchestrator.dispatch finished with failures",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAttemptIDKey, attemptID),
			zap.Error(err),
		)
	}
	return slots
}

// aggregate assembles the outcome in structured, images, videos order no matter
// which call finished first.
func (o *Orchestrator) aggregate(attemptID string, slots map[models.EndpointKind]*callSlot) *models.SubmissionOutcome {
	outcome := &models.SubmissionOutcome{AttemptID: attemptID}

	var failures []models.CallFailure
	for _, kind := range models.EndpointKinds {
		slot := slots[kind]
		if !slot.launched {
			continue
		}
		if slot.err != nil {
			failure := models.CallFailure{Kind: kind, Message: slot.err.Error()}
			var transportErr *models.TransportError
			if errors.As(slot.err, &transportErr) {
				failure.StatusCode = transportErr.StatusCode
				failure.Message = transportErr.Message
			}
			failures = append(failures, failure)
			continue
		}

		outcome.SetResult(kind, slot.result)
	}

	if len(failures) == 0 {
		return outcome
	}

	outcome.Failure = &models.Failure{
		Message: constvars.DetectionGenericFailureMsg,
		Calls:   failures,
	}
	if o.options.AllOrNothing {
		for _, kind := range models.EndpointKinds {
			outcome.SetResult(kind, nil)
		}
		outcome.Failure.Calls = nil
	}
	return outcome
}

func (o *Orchestrator) settle(ctx context.Context, outcome *models.SubmissionOutcome) *models.SubmissionOutcome {
	outcome.SettledAt = o.now()
	if !o.state.Settle(outcome.AttemptID, outcome) {
		o.log.Error("Orchestrator.settle attempt was not submitting",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingAttemptIDKey, outcome.AttemptID),
		)
		return outcome
	}

	o.log.Info("Orchestrator.settle attempt settled",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingAttemptIDKey, outcome.AttemptID),
		zap.Bool(constvars.LoggingSuccessKey, outcome.Succeeded()),
	)
	o.observer.OnSubmissionSettled(ctx, outcome)
	return outcome
}
