package contracts

import (
	"context"
	"detection-service/internal/app/models"
)

// SubmissionObserver receives the two presentation notifications of a
// submission attempt. Implementations must not block for long and cannot fail
// the attempt.
type SubmissionObserver interface {
	OnSubmissionStart(ctx context.Context, attemptID string)
	OnSubmissionSettled(ctx context.Context, outcome *models.SubmissionOutcome)
}

type EventPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}
