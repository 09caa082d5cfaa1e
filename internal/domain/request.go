package domain

import (
	"fmt"
	"time"
)

// RequestType enumerates the kinds of marketing deliverables.
type RequestType string

const (
	RequestTypePost RequestType = "POST"
	RequestTypeReel RequestType = "REEL"
)

var requestTypeDisplayNames = map[RequestType]string{
	RequestTypePost: "post",
	RequestTypeReel: "reel",
}

// DisplayName returns the human-facing name used by the Discord bot.
func (t RequestType) DisplayName() string {
	return requestTypeDisplayNames[t]
}

// RequestTypeFromDisplayName resolves a display name back to its type.
func RequestTypeFromDisplayName(name string) (RequestType, error) {
	for t, display := range requestTypeDisplayNames {
		if display == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown request type %q", name)
}

// RequestStatus enumerates lifecycle states for marketing requests.
type RequestStatus string

const (
	RequestStatusInQueue         RequestStatus = "IN_QUEUE"
	RequestStatusInProgress      RequestStatus = "IN_PROGRESS"
	RequestStatusAwaitingPosting RequestStatus = "AWAITING_POSTING"
	RequestStatusDone            RequestStatus = "DONE"
	RequestStatusBlocked         RequestStatus = "BLOCKED"
)

var requestStatusDisplayNames = map[RequestStatus]string{
	RequestStatusInQueue:         "in queue",
	RequestStatusInProgress:      "in progress",
	RequestStatusAwaitingPosting: "awaiting posting",
	RequestStatusDone:            "done",
	RequestStatusBlocked:         "blocked",
}

// DisplayName returns the human-facing name used by the Discord bot.
func (s RequestStatus) DisplayName() string {
	return requestStatusDisplayNames[s]
}

// RequestStatusFromDisplayName resolves a display name back to its status.
func RequestStatusFromDisplayName(name string) (RequestStatus, error) {
	for s, display := range requestStatusDisplayNames {
		if display == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", name)
}

// Next returns the status a request advances to in the normal workflow.
// DONE and BLOCKED requests cannot be advanced.
func (s RequestStatus) Next() (RequestStatus, error) {
	switch s {
	case RequestStatusInQueue:
		return RequestStatusInProgress, nil
	case RequestStatusInProgress:
		return RequestStatusAwaitingPosting, nil
	case RequestStatusAwaitingPosting:
		return RequestStatusDone, nil
	case RequestStatusDone:
		return "", fmt.Errorf("request is already done and cannot be advanced further")
	case RequestStatusBlocked:
		return "", fmt.Errorf("request is blocked and cannot be advanced automatically")
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Request is the aggregate for a marketing request. Each request lives
// in its own Discord channel, so the channel ID doubles as the key.
type Request struct {
	ChannelID             int64
	RequesterID           *int64
	RequesterDepartmentID *int64
	AssignedToID          *int64
	AdditionalAssigneeID  *int64
	MainMessageID         int64
	Title                 *string
	Description           *string
	RequestType           *RequestType
	Status                *RequestStatus
	PostingDate           *time.Time
	Room                  *string
	SignupURL             *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DepartmentCount aggregates request totals per requester department.
type DepartmentCount struct {
	DepartmentID *int64 `json:"departmentId"`
	Count        int64  `json:"count"`
}
