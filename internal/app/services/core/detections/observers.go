package detections

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type NopObserver struct{}

func (NopObserver) OnSubmissionStart(context.Context, string)                      {}
func (NopObserver) OnSubmissionSettled(context.Context, *models.SubmissionOutcome) {}

type loggingObserver struct {
	Log *zap.Logger
}

func NewLoggingObserver(logger *zap.Logger) contracts.SubmissionObserver {
	return &loggingObserver{Log: logger}
}

func (o *loggingObserver) OnSubmissionStart(ctx context.Context, attemptID string) {
	o.Log.Info("Submission started",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingSessionIDKey, utils.GetSessionID(ctx)),
		zap.String(constvars.LoggingAttemptIDKey, attemptID),
		zap.String(constvars.LoggingPhaseKey, string(models.SubmissionPhaseSubmitting)),
	)
}

func (o *loggingObserver) OnSubmissionSettled(ctx context.Context, outcome *models.SubmissionOutcome) {
	fields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingSessionIDKey, utils.GetSessionID(ctx)),
		zap.String(constvars.LoggingAttemptIDKey, outcome.AttemptID),
		zap.String(constvars.LoggingPhaseKey, string(models.SubmissionPhaseSettled)),
		zap.Bool(constvars.LoggingSuccessKey, outcome.Succeeded()),
	}
	if outcome.Failure != nil {
		fields = append(fields,
			zap.String(constvars.LoggingErrorMessageKey, outcome.Failure.Message),
			zap.Int(constvars.LoggingFailedCallsKey, len(outcome.Failure.Calls)),
		)
		o.Log.Warn("Submission settled with failure", fields...)
		return
	}
	o.Log.Info("Submission settled", fields...)
}

// MultiObserver notifies every observer in registration order.
type MultiObserver []contracts.SubmissionObserver

func NewMultiObserver(observers ...contracts.SubmissionObserver) MultiObserver {
	multi := make(MultiObserver, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			multi = append(multi, observer)
		}
	}
	return multi
}

func (m MultiObserver) OnSubmissionStart(ctx context.Context, attemptID string) {
	for _, observer := range m {
		observer.OnSubmissionStart(ctx, attemptID)
	}
}

func (m MultiObserver) OnSubmissionSettled(ctx context.Context, outcome *models.SubmissionOutcome) {
	for _, observer := range m {
		observer.OnSubmissionSettled(ctx, outcome)
	}
}
