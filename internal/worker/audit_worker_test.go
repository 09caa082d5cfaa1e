package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/events"
	"github.com/ibrasoft/command-centre/internal/service"
)

// memoryAuditRepository collects audit events for worker tests.
type memoryAuditRepository struct {
	created []domain.AuditEvent
}

func (r *memoryAuditRepository) Create(_ context.Context, event *domain.AuditEvent) error {
	event.ID = int64(len(r.created) + 1)
	event.Timestamp = time.Now()
	r.created = append(r.created, *event)
	return nil
}

func (r *memoryAuditRepository) GetByID(_ context.Context, id int64) (*domain.AuditEvent, error) {
	for _, event := range r.created {
		if event.ID == id {
			copied := event
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryAuditRepository) ListAll(_ context.Context) ([]domain.AuditEvent, error) {
	return r.created, nil
}

func (r *memoryAuditRepository) ListByEntity(_ context.Context, _ string, _ int64) ([]domain.AuditEvent, error) {
	return r.created, nil
}

func (r *memoryAuditRepository) ListByEventType(_ context.Context, _ string) ([]domain.AuditEvent, error) {
	return r.created, nil
}

func (r *memoryAuditRepository) ListByPerformedBy(_ context.Context, _ string) ([]domain.AuditEvent, error) {
	return r.created, nil
}

func (r *memoryAuditRepository) ListByTimeRange(_ context.Context, _, _ time.Time) ([]domain.AuditEvent, error) {
	return r.created, nil
}

func TestAuditWorkerRecordsRequestEvents(t *testing.T) {
	repo := &memoryAuditRepository{}
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, service.NewAuditService(repo), zap.NewNop())

	err := dispatcher.Publish(context.Background(),
		events.RequestEvent(events.EventRequestCreated, 100, "184325", "Request created: Launch teaser"))
	require.NoError(t, err)

	err = dispatcher.Publish(context.Background(),
		events.RequestEvent(events.EventRequestStatusAdvanced, 100, "0", "Status advanced from in queue to in progress"))
	require.NoError(t, err)

	require.Len(t, repo.created, 2)

	first := repo.created[0]
	assert.Equal(t, "CREATE", first.EventType)
	assert.Equal(t, "Request", first.EntityType)
	assert.Equal(t, int64(100), first.EntityID)
	assert.Equal(t, "184325", first.PerformedBy)

	second := repo.created[1]
	assert.Equal(t, "STATUS_ADVANCE", second.EventType)
	assert.Equal(t, "0", second.PerformedBy)
}

func TestAuditWorkerIgnoresUnknownEventTypes(t *testing.T) {
	repo := &memoryAuditRepository{}
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, service.NewAuditService(repo), zap.NewNop())

	err := dispatcher.Publish(context.Background(),
		events.RequestEvent(events.EventType("ticket_created"), 100, "1", "noise"))
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}
