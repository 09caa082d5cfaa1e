package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrasoft/command-centre/internal/domain"
)

const auditColumns = `id, event_type, entity_type, entity_id, event_details, performed_by, event_timestamp`

// AuditEventRepository encapsulates audit trail persistence.
type AuditEventRepository interface {
	Create(ctx context.Context, event *domain.AuditEvent) error
	GetByID(ctx context.Context, id int64) (*domain.AuditEvent, error)
	ListAll(ctx context.Context) ([]domain.AuditEvent, error)
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error)
	ListByEventType(ctx context.Context, eventType string) ([]domain.AuditEvent, error)
	ListByPerformedBy(ctx context.Context, performedBy string) ([]domain.AuditEvent, error)
	ListByTimeRange(ctx context.Context, start, end time.Time) ([]domain.AuditEvent, error)
}

type auditEventRepository struct {
	pool *pgxpool.Pool
}

// NewAuditEventRepository instantiates repository.
func NewAuditEventRepository(pool *pgxpool.Pool) AuditEventRepository {
	return &auditEventRepository{pool: pool}
}

func (r *auditEventRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	const query = `
        INSERT INTO audit_events (event_type, entity_type, entity_id, event_details, performed_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, event_timestamp`
	return r.pool.QueryRow(ctx, query,
		event.EventType,
		event.EntityType,
		event.EntityID,
		event.Details,
		event.PerformedBy,
	).Scan(&event.ID, &event.Timestamp)
}

func (r *auditEventRepository) GetByID(ctx context.Context, id int64) (*domain.AuditEvent, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_events WHERE id=$1`
	var event domain.AuditEvent
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.EventType,
		&event.EntityType,
		&event.EntityID,
		&event.Details,
		&event.PerformedBy,
		&event.Timestamp,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *auditEventRepository) ListAll(ctx context.Context) ([]domain.AuditEvent, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_events ORDER BY event_timestamp DESC`
	return r.list(ctx, query)
}

func (r *auditEventRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEvent, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_events
        WHERE entity_type=$1 AND entity_id=$2 ORDER BY event_timestamp DESC`
	return r.list(ctx, query, entityType, entityID)
}

func (r *auditEventRepository) ListByEventType(ctx context.Context, eventType string) ([]domain.AuditEvent, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_events
        WHERE event_type=$1 ORDER BY event_timestamp DESC`
	return r.list(ctx, query, eventType)
}

func (r *auditEventRepository) ListByPerformedBy(ctx context.Context, performedBy string) ([]domain.AuditEvent, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_events
        WHERE performed_by=$1 ORDER BY event_timestamp DESC`
	return r.list(ctx, query, performedBy)
}

func (r *auditEventRepository) ListByTimeRange(ctx context.Context, start, end time.Time) ([]domain.AuditEvent, error) {
	const query = `SELECT ` + auditColumns + ` FROM audit_events
        WHERE event_timestamp BETWEEN $1 AND $2 ORDER BY event_timestamp DESC`
	return r.list(ctx, query, start, end)
}

func (r *auditEventRepository) list(ctx context.Context, query string, args ...any) ([]domain.AuditEvent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		if err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.EntityType,
			&event.EntityID,
			&event.Details,
			&event.PerformedBy,
			&event.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
