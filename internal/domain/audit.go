package domain

import "time"

// AuditEvent records a mutation performed through the API for audit purposes.
type AuditEvent struct {
	ID          int64
	EventType   string
	EntityType  string
	EntityID    int64
	Details     string
	PerformedBy string
	Timestamp   time.Time
}
