package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/events"
	"github.com/ibrasoft/command-centre/internal/service"
)

// requestEntityType is the audit trail entity name for marketing requests.
const requestEntityType = "Request"

// StartAuditWorker subscribes the audit trail to request lifecycle
// events so every mutation leaves an audit record.
func StartAuditWorker(dispatcher events.Dispatcher, audit *service.AuditService, logger *zap.Logger) {
	if dispatcher == nil || audit == nil {
		return
	}

	handler := func(ctx context.Context, event events.Event) error {
		_, err := audit.LogEvent(ctx, event.Type.AuditType(), requestEntityType,
			event.ChannelID, event.Details, event.Actor)
		if err != nil {
			logger.Error("failed to record audit event",
				zap.String("event_type", string(event.Type)),
				zap.Int64("channel_id", event.ChannelID),
				zap.Error(err),
			)
		}
		return err
	}

	for _, eventType := range []events.EventType{
		events.EventRequestCreated,
		events.EventRequestUpdated,
		events.EventRequestDeleted,
		events.EventRequestAssigned,
		events.EventRequestStatusChanged,
		events.EventRequestStatusAdvanced,
		events.EventRequestRequesterChanged,
		events.EventRequestDepartmentChanged,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
