package service

import (
	"context"
	"fmt"

	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/events"
	"github.com/ibrasoft/command-centre/internal/repository"
	"github.com/ibrasoft/command-centre/pkg/util"
)

// RequestService coordinates the marketing request workflow. Every
// mutation publishes a domain event; the audit worker turns those into
// audit trail records.
type RequestService struct {
	requests   repository.RequestRepository
	cycles     *CycleService
	dispatcher events.Dispatcher
}

// NewRequestService builds the service.
func NewRequestService(requests repository.RequestRepository, cycles *CycleService, dispatcher events.Dispatcher) *RequestService {
	return &RequestService{requests: requests, cycles: cycles, dispatcher: dispatcher}
}

// ListAll returns every request ordered by posting date, nulls last.
func (s *RequestService) ListAll(ctx context.Context) ([]domain.Request, error) {
	return s.requests.ListAll(ctx)
}

// GetByChannelID fetches a single request.
func (s *RequestService) GetByChannelID(ctx context.Context, channelID int64) (*domain.Request, error) {
	return s.requests.GetByChannelID(ctx, channelID)
}

// ListByStatus filters requests by lifecycle status.
func (s *RequestService) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.Request, error) {
	return s.requests.ListByStatus(ctx, status)
}

// ListByRequester filters requests by the requesting user.
func (s *RequestService) ListByRequester(ctx context.Context, requesterID int64) ([]domain.Request, error) {
	return s.requests.ListByRequester(ctx, requesterID)
}

// ListByAssignedTo filters requests by assignee.
func (s *RequestService) ListByAssignedTo(ctx context.Context, assignedToID int64) ([]domain.Request, error) {
	return s.requests.ListByAssignedTo(ctx, assignedToID)
}

// CountByDepartment aggregates request totals per department.
func (s *RequestService) CountByDepartment(ctx context.Context) ([]domain.DepartmentCount, error) {
	return s.requests.CountByDepartment(ctx)
}

// Create persists a new request. When the requester is not set, the
// acting user becomes the requester.
func (s *RequestService) Create(ctx context.Context, request *domain.Request, actorID int64, actor string) (*domain.Request, error) {
	if request.RequesterID == nil {
		request.RequesterID = &actorID
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestCreated, request.ChannelID, actor,
		fmt.Sprintf("Request created: %s", stringOr(request.Title, "")))
	return request, nil
}

// Update overwrites a request's mutable fields. The requester is not
// touched here; it has its own operation.
func (s *RequestService) Update(ctx context.Context, channelID int64, details *domain.Request, actor string) (*domain.Request, error) {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	request.RequesterDepartmentID = details.RequesterDepartmentID
	request.AssignedToID = details.AssignedToID
	request.AdditionalAssigneeID = details.AdditionalAssigneeID
	request.Title = details.Title
	request.Description = details.Description
	request.Status = details.Status
	request.PostingDate = details.PostingDate
	request.Room = details.Room
	request.SignupURL = details.SignupURL

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestUpdated, channelID, actor,
		fmt.Sprintf("Request updated: %s", stringOr(request.Title, "")))
	return request, nil
}

// Delete removes a request.
func (s *RequestService) Delete(ctx context.Context, channelID int64, actor string) error {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, channelID); err != nil {
		return err
	}

	s.publish(ctx, events.EventRequestDeleted, channelID, actor,
		fmt.Sprintf("Request deleted: %s", stringOr(request.Title, "")))
	return nil
}

// Assign moves a request to a new assignee.
func (s *RequestService) Assign(ctx context.Context, channelID, assignedToID int64, actor string) (*domain.Request, error) {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	previous := request.AssignedToID
	request.AssignedToID = &assignedToID
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestAssigned, channelID, actor,
		fmt.Sprintf("Request assigned from %s to %d", int64Or(previous, "nobody"), assignedToID))
	return request, nil
}

// SetStatus forces a request into a specific status.
func (s *RequestService) SetStatus(ctx context.Context, channelID int64, status domain.RequestStatus, actor string) (*domain.Request, error) {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	previous := request.Status
	request.Status = &status
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	previousName := ""
	if previous != nil {
		previousName = previous.DisplayName()
	}
	s.publish(ctx, events.EventRequestStatusChanged, channelID, actor,
		fmt.Sprintf("Status changed from %s to %s", previousName, status.DisplayName()))
	return request, nil
}

// Advance moves a request to the next status in the workflow. DONE and
// BLOCKED requests cannot be advanced.
func (s *RequestService) Advance(ctx context.Context, channelID int64, actor string) (*domain.Request, error) {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if request.Status == nil {
		return nil, util.NewValidationError("request has no status to advance", nil)
	}

	current := *request.Status
	next, err := current.Next()
	if err != nil {
		return nil, util.NewValidationError(err.Error(), nil)
	}

	request.Status = &next
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestStatusAdvanced, channelID, actor,
		fmt.Sprintf("Status advanced from %s to %s", current.DisplayName(), next.DisplayName()))
	return request, nil
}

// UpdateRequester reassigns the requesting user.
func (s *RequestService) UpdateRequester(ctx context.Context, channelID, requesterID int64, actor string) (*domain.Request, error) {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	previous := request.RequesterID
	request.RequesterID = &requesterID
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestRequesterChanged, channelID, actor,
		fmt.Sprintf("Requester changed from %s to %d", int64Or(previous, "unset"), requesterID))
	return request, nil
}

// UpdateRequesterDepartment reassigns the requesting department.
func (s *RequestService) UpdateRequesterDepartment(ctx context.Context, channelID, departmentID int64, actor string) (*domain.Request, error) {
	request, err := s.requests.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	previous := request.RequesterDepartmentID
	request.RequesterDepartmentID = &departmentID
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestDepartmentChanged, channelID, actor,
		fmt.Sprintf("Requester department changed from %s to %d", int64Or(previous, "unset"), departmentID))
	return request, nil
}

// ContentCreatorWorkload lists reel requests whose posting date falls
// in the current development cycle's posting window.
func (s *RequestService) ContentCreatorWorkload(ctx context.Context) ([]domain.Request, CycleInfo, error) {
	cycle := s.cycles.CurrentDevelopmentCycle()
	requests, err := s.workload(ctx, cycle, typeFilter(domain.RequestTypeReel))
	return requests, cycle, err
}

// GraphicDesignerWorkload lists post requests whose posting date falls
// in the current development cycle's posting window.
func (s *RequestService) GraphicDesignerWorkload(ctx context.Context) ([]domain.Request, CycleInfo, error) {
	cycle := s.cycles.CurrentDevelopmentCycle()
	requests, err := s.workload(ctx, cycle, typeFilter(domain.RequestTypePost))
	return requests, cycle, err
}

// SocialMediaManagerWorkload lists every request due in the current
// posting cycle.
func (s *RequestService) SocialMediaManagerWorkload(ctx context.Context) ([]domain.Request, CycleInfo, error) {
	cycle := s.cycles.CurrentPostingCycle()
	requests, err := s.workload(ctx, cycle, func(domain.Request) bool { return true })
	return requests, cycle, err
}

func (s *RequestService) workload(ctx context.Context, cycle CycleInfo, include func(domain.Request) bool) ([]domain.Request, error) {
	all, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Request, 0)
	for _, request := range all {
		if request.PostingDate == nil || !include(request) {
			continue
		}
		if cycle.InPostingWindow(*request.PostingDate) {
			result = append(result, request)
		}
	}
	return result, nil
}

func typeFilter(t domain.RequestType) func(domain.Request) bool {
	return func(r domain.Request) bool {
		return r.RequestType != nil && *r.RequestType == t
	}
}

func (s *RequestService) publish(ctx context.Context, eventType events.EventType, channelID int64, actor, details string) {
	_ = s.dispatcher.Publish(ctx, events.RequestEvent(eventType, channelID, actor, details))
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func int64Or(value *int64, fallback string) string {
	if value == nil {
		return fallback
	}
	return fmt.Sprintf("%d", *value)
}
