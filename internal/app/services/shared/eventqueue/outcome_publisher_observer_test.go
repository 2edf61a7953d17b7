package eventqueue

import (
	"context"
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	args := m.Called(ctx, queueName, body)
	return args.Error(0)
}

func TestOutcomePublisherObserver_PublishesStartedAndSettledEvents(t *testing.T) {
	publisher := new(MockEventPublisher)
	var bodies [][]byte
	publisher.On("Publish", mock.Anything, constvars.DetectionOutcomeQueueName, mock.Anything).
		Run(func(args mock.Arguments) {
			bodies = append(bodies, args.Get(2).([]byte))
		}).
		Return(nil).
		Twice()

	observer := NewOutcomePublisherObserver(publisher, constvars.DetectionOutcomeQueueName, time.Second, zap.NewNop())
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_SESSION_ID_KEY, "session-1")

	observer.OnSubmissionStart(ctx, "attempt-1")
	observer.OnSubmissionSettled(ctx, &models.SubmissionOutcome{
		AttemptID:        "attempt-1",
		StructuredResult: models.RemoteResult(`{"result":"positive"}`),
		SettledAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})

	publisher.AssertExpectations(t)
	require.Len(t, bodies, 2)

	var started, settled DetectionEvent
	require.NoError(t, json.Unmarshal(bodies[0], &started))
	require.NoError(t, json.Unmarshal(bodies[1], &settled))

	assert.Equal(t, constvars.DetectionEventTypeStarted, started.EventType)
	assert.Equal(t, "attempt-1", started.AttemptID)
	assert.Equal(t, "session-1", started.SessionID)
	assert.Nil(t, started.Outcome)

	assert.Equal(t, constvars.DetectionEventTypeSettled, settled.EventType)
	require.NotNil(t, settled.Outcome)
	assert.True(t, settled.Outcome.Success)
	assert.JSONEq(t, `{"result":"positive"}`, string(settled.Outcome.StructuredResult))
}

func TestOutcomePublisherObserver_PublishFailureIsSwallowed(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, constvars.DetectionOutcomeQueueName, mock.Anything).
		Return(errors.New("broker down"))

	observer := NewOutcomePublisherObserver(publisher, constvars.DetectionOutcomeQueueName, time.Second, zap.NewNop())

	assert.NotPanics(t, func() {
		observer.OnSubmissionSettled(context.Background(), &models.SubmissionOutcome{
			AttemptID: "attempt-2",
			Failure:   &models.Failure{Message: constvars.DetectionGenericFailureMsg},
		})
	})
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestOutcomePublisherObserver_PublishIsBoundedByTimeout(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, constvars.DetectionOutcomeQueueName, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
		}).
		Return(nil)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	observer := NewOutcomePublisherObserver(publisher, constvars.DetectionOutcomeQueueName, 50*time.Millisecond, zap.NewNop())
	observer.OnSubmissionStart(canceled, "attempt-3")

	publisher.AssertExpectations(t)
}
