package eventqueue

import (
	"context"
	"detection-service/internal/app/contracts"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"detection-service/internal/pkg/dto/responses"
	"detection-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// DetectionEvent is the message body published for every submission attempt.
type DetectionEvent struct {
	EventType  string                      `json:"event_type"`
	AttemptID  string                      `json:"attempt_id"`
	SessionID  string                      `json:"session_id,omitempty"`
	RequestID  string                      `json:"request_id,omitempty"`
	OccurredAt time.Time                   `json:"occurred_at"`
	Outcome    *responses.DetectionOutcome `json:"outcome,omitempty"`
}

type outcomePublisherObserver struct {
	Publisher contracts.EventPublisher
	QueueName string
	Timeout   time.Duration
	Log       *zap.Logger
	now       func() time.Time
}

// NewOutcomePublisherObserver publishes a started and a settled event per
// attempt. Publish failures are logged and never affect the attempt.
func NewOutcomePublisherObserver(publisher contracts.EventPublisher, queueName string, timeout time.Duration, logger *zap.Logger) contracts.SubmissionObserver {
	return &outcomePublisherObserver{
		Publisher: publisher,
		QueueName: queueName,
		Timeout:   timeout,
		Log:       logger,
		now:       time.Now,
	}
}

func (o *outcomePublisherObserver) OnSubmissionStart(ctx context.Context, attemptID string) {
	o.publish(ctx, &DetectionEvent{
		EventType:  constvars.DetectionEventTypeStarted,
		AttemptID:  attemptID,
		SessionID:  utils.GetSessionID(ctx),
		RequestID:  utils.GetRequestID(ctx),
		OccurredAt: o.now(),
	})
}

func (o *outcomePublisherObserver) OnSubmissionSettled(ctx context.Context, outcome *models.SubmissionOutcome) {
	sessionID := utils.GetSessionID(ctx)
	o.publish(ctx, &DetectionEvent{
		EventType:  constvars.DetectionEventTypeSettled,
		AttemptID:  outcome.AttemptID,
		SessionID:  sessionID,
		RequestID:  utils.GetRequestID(ctx),
		OccurredAt: outcome.SettledAt,
		Outcome:    responses.NewDetectionOutcome(sessionID, outcome),
	})
}

func (o *outcomePublisherObserver) publish(ctx context.Context, event *DetectionEvent) {
	requestID := utils.GetRequestID(ctx)

	body, err := json.Marshal(event)
	if err != nil {
		o.Log.Error("outcomePublisherObserver.publish error marshaling event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAttemptIDKey, event.AttemptID),
			zap.Error(err),
		)
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.Timeout)
	defer cancel()

	// A failed publish is only logged.
	_ = utils.LogOperation(o.Log, "publish "+event.EventType+" to "+o.QueueName, requestID, func() error {
		return o.Publisher.Publish(publishCtx, o.QueueName, body)
	})
}
