package service

import (
	"context"
	"time"

	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/repository"
)

// AuditService records and queries the audit trail.
type AuditService struct {
	repo repository.AuditEventRepository
}

// NewAuditService builds the service.
func NewAuditService(repo repository.AuditEventRepository) *AuditService {
	return &AuditService{repo: repo}
}

// LogEvent persists a new audit record.
func (s *AuditService) LogEvent(ctx context.Context, eventType, entityType string, entityID int64, details, performedBy string) (*domain.AuditEvent, error) {
	event := &domain.AuditEvent{
		EventType:   eventType,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     details,
		PerformedBy: performedBy,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByID fetches one audit event.
func (s *AuditService) GetByID(ctx context.Context, id int64) (*domain.AuditEvent, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll returns the full audit trail, newest first.
func (s *AuditService) ListAll(ctx context.Context) ([]domain.AuditEvent, error) {
	return s.repo.ListAll(ctx)
}

// ListByEntity returns events for one entity.
func (s *AuditService) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error) {
	return s.repo.ListByEntity(ctx, entityType, entityID)
}

// ListByEventType returns events of one type.
func (s *AuditService) ListByEventType(ctx context.Context, eventType string) ([]domain.AuditEvent, error) {
	return s.repo.ListByEventType(ctx, eventType)
}

// ListByPerformedBy returns events performed by one actor.
func (s *AuditService) ListByPerformedBy(ctx context.Context, performedBy string) ([]domain.AuditEvent, error) {
	return s.repo.ListByPerformedBy(ctx, performedBy)
}

// ListByTimeRange returns events within [start, end].
func (s *AuditService) ListByTimeRange(ctx context.Context, start, end time.Time) ([]domain.AuditEvent, error) {
	return s.repo.ListByTimeRange(ctx, start, end)
}
