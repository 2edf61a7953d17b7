package detections

import (
	"context"
	"detection-service/internal/app/models"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T, fixture *orchestratorFixture) *Registry {
	t.Helper()
	return NewRegistry(func() (*Orchestrator, error) {
		return NewOrchestrator(
			fixture.catalogs,
			PredictionClients{Structured: fixture.structured, Images: fixture.images, Videos: fixture.videos},
			fixture.observer,
			zap.NewNop(),
			OrchestratorOptions{},
		)
	}, zap.NewNop())
}

func TestRegistry_OneOrchestratorPerSession(t *testing.T) {
	registry := newTestRegistry(t, newFixture("A1"))

	first, err := registry.GetOrCreate("s1")
	require.NoError(t, err)
	again, err := registry.GetOrCreate("s1")
	require.NoError(t, err)
	other, err := registry.GetOrCreate("s2")
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, registry.Len())

	found, ok := registry.Get("s1")
	assert.True(t, ok)
	assert.Same(t, first, found)

	_, ok = registry.Get("unknown")
	assert.False(t, ok)
}

func TestRegistry_FactoryErrorIsNotCached(t *testing.T) {
	calls := 0
	registry := NewRegistry(func() (*Orchestrator, error) {
		calls++
		return nil, errors.New("no catalog")
	}, zap.NewNop())

	_, err := registry.GetOrCreate("s1")
	assert.Error(t, err)
	_, err = registry.GetOrCreate("s1")
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	registry := newTestRegistry(t, newFixture("A1"))
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	_, err := registry.GetOrCreate("old")
	require.NoError(t, err)
	now = now.Add(20 * time.Minute)
	_, err = registry.GetOrCreate("fresh")
	require.NoError(t, err)
	now = now.Add(15 * time.Minute)

	evicted := registry.Sweep(30 * time.Minute)

	assert.Equal(t, 1, evicted)
	_, ok := registry.Get("old")
	assert.False(t, ok)
	_, ok = registry.Get("fresh")
	assert.True(t, ok)
}

func TestRegistry_SweepKeepsSubmittingSessions(t *testing.T) {
	fixture := newFixture("A1")
	fixture.structured.payloads = make(chan *models.StructuredPayload, 1)
	fixture.structured.release = make(chan struct{})
	registry := newTestRegistry(t, fixture)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	orchestrator, err := registry.GetOrCreate("busy")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		orchestrator.Submit(context.Background(), completeSubmission([]string{"A1"}, 0, 0))
	}()
	<-fixture.structured.payloads

	now = now.Add(time.Hour)
	assert.Equal(t, 0, registry.Sweep(time.Minute))

	close(fixture.structured.release)
	<-done
	assert.Equal(t, 1, registry.Sweep(time.Minute))
}

func TestRegistry_TouchRefreshesActivity(t *testing.T) {
	registry := newTestRegistry(t, newFixture("A1"))
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	_, err := registry.GetOrCreate("s1")
	require.NoError(t, err)
	now = now.Add(25 * time.Minute)
	registry.Touch("s1")
	registry.Touch("unknown")
	now = now.Add(25 * time.Minute)

	assert.Equal(t, 0, registry.Sweep(30*time.Minute))
	assert.Equal(t, 1, registry.Len())
}
