package detections

import (
	"detection-service/internal/app/models"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSubmissionInProgress = errors.New("a submission is already in progress")

// StateHolder tracks idle, submitting and settled for one form session. Only the
// orchestrator writes to it; readers call Snapshot.
type StateHolder struct {
	mu       sync.RWMutex
	snapshot models.StateSnapshot
	now      func() time.Time
}

func NewStateHolder() *StateHolder {
	return &StateHolder{
		snapshot: models.StateSnapshot{Phase: models.SubmissionPhaseIdle},
		now:      time.Now,
	}
}

// Begin starts a new attempt and drops the previous outcome. It is rejected
// while another attempt is submitting.
func (s *StateHolder) Begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Phase == models.SubmissionPhaseSubmitting {
		return "", ErrSubmissionInProgress
	}

	attemptID := uuid.NewString()
	s.snapshot = models.StateSnapshot{
		Phase:     models.SubmissionPhaseSubmitting,
		AttemptID: attemptID,
		StartedAt: s.now(),
	}
	return attemptID, nil
}

// Settle records the outcome of the current attempt. It reports false when the
// attempt is not the one submitting, so an attempt settles at most once.
func (s *StateHolder) Settle(attemptID string, outcome *models.SubmissionOutcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Phase != models.SubmissionPhaseSubmitting || s.snapshot.AttemptID != attemptID {
		return false
	}

	s.snapshot.Phase = models.SubmissionPhaseSettled
	s.snapshot.SettledAt = s.now()
	s.snapshot.Outcome = outcome
	return true
}

func (s *StateHolder) Snapshot() models.StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
