package events

import (
	"time"

	"github.com/ibrasoft/command-centre/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated           EventType = "request_created"
	EventRequestUpdated           EventType = "request_updated"
	EventRequestDeleted           EventType = "request_deleted"
	EventRequestAssigned          EventType = "request_assigned"
	EventRequestStatusChanged     EventType = "request_status_changed"
	EventRequestStatusAdvanced    EventType = "request_status_advanced"
	EventRequestRequesterChanged  EventType = "request_requester_changed"
	EventRequestDepartmentChanged EventType = "request_department_changed"
)

// auditEventTypes maps dispatcher events to audit trail event types.
var auditEventTypes = map[EventType]string{
	EventRequestCreated:           "CREATE",
	EventRequestUpdated:           "UPDATE",
	EventRequestDeleted:           "DELETE",
	EventRequestAssigned:          "ASSIGN",
	EventRequestStatusChanged:     "STATUS_CHANGE",
	EventRequestStatusAdvanced:    "STATUS_ADVANCE",
	EventRequestRequesterChanged:  "REQUESTER_UPDATE",
	EventRequestDepartmentChanged: "DEPARTMENT_UPDATE",
}

// AuditType returns the audit trail name for this event type.
func (t EventType) AuditType() string {
	if name, ok := auditEventTypes[t]; ok {
		return name
	}
	return string(t)
}

// Event represents a domain event emitted when a request mutates.
// Actor is the acting subject: a Discord user ID, or "0" for the bot.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	ChannelID int64     `json:"channel_id"`
	Actor     string    `json:"actor"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// RequestEvent builds an event for the given request mutation.
func RequestEvent(eventType EventType, channelID int64, actor, details string) Event {
	return Event{
		Type:      eventType,
		ChannelID: channelID,
		Actor:     actor,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// ActorID renders an authenticated identity as an audit actor. The
// bot acts as "0", matching the convention the Discord bot expects.
func ActorID(identity *domain.Identity) string {
	if identity == nil {
		return ""
	}
	if identity.IsBot() {
		return "0"
	}
	return identity.Subject
}
