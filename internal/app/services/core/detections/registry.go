package detections

import (
	"detection-service/internal/app/models"
	"detection-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OrchestratorFactory builds the orchestrator of a new session.
type OrchestratorFactory func() (*Orchestrator, error)

type session struct {
	orchestrator *Orchestrator
	lastSeen     time.Time
}

// Registry keeps one orchestrator per form session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  OrchestratorFactory
	log      *zap.Logger
	now      func() time.Time
}

func NewRegistry(factory OrchestratorFactory, logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		factory:  factory,
		log:      logger,
		now:      time.Now,
	}
}

func (r *Registry) GetOrCreate(sessionID string) (*Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = r.now()
		return s.orchestrator, nil
	}

	orchestrator, err := r.factory()
	if err != nil {
		return nil, err
	}
	r.sessions[sessionID] = &session{orchestrator: orchestrator, lastSeen: r.now()}
	r.log.Debug("Registry created session", zap.String(constvars.LoggingSessionIDKey, sessionID))
	return orchestrator, nil
}

// Get returns the orchestrator of an existing session without refreshing it.
func (r *Registry) Get(sessionID string) (*Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return s.orchestrator, true
}

// Touch marks a session as active. It is called when an attempt settles so a
// long submission does not count as idle time.
func (r *Registry) Touch(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = r.now()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than idleTTL. A session with a
// submission in flight is never evicted.
func (r *Registry) Sweep(idleTTL time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idleTTL)
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) {
			continue
		}
		if s.orchestrator.State().Phase == models.SubmissionPhaseSubmitting {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	return evicted
}
