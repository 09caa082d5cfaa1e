package dto

import (
	"fmt"
	"time"

	"github.com/ibrasoft/command-centre/internal/domain"
)

// postingDateFormat is the wire format for posting dates.
const postingDateFormat = "2006-01-02"

// maxDescriptionLength caps request descriptions, matching the column size.
const maxDescriptionLength = 4000

// RequestPayload is the request body for creating or updating a
// marketing request. Pointer fields are optional.
type RequestPayload struct {
	ChannelID             int64   `json:"channelID"`
	RequesterID           *int64  `json:"requesterID"`
	RequesterDepartmentID *int64  `json:"requesterDepartmentID"`
	AssignedToID          *int64  `json:"assignedToID"`
	AdditionalAssigneeID  *int64  `json:"additionalAssigneeID"`
	MainMessageID         int64   `json:"mainMessageID"`
	Title                 *string `json:"title"`
	Description           *string `json:"description"`
	RequestType           *string `json:"requestType"`
	Status                *string `json:"status"`
	PostingDate           *string `json:"postingDate"`
	Room                  *string `json:"room"`
	SignupURL             *string `json:"signupUrl"`
}

// ToDomain converts the payload into a domain request, validating the
// enum fields, description length, and date format.
func (p *RequestPayload) ToDomain() (*domain.Request, error) {
	if p.Description != nil && len(*p.Description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds %d characters", maxDescriptionLength)
	}

	request := &domain.Request{
		ChannelID:             p.ChannelID,
		RequesterID:           p.RequesterID,
		RequesterDepartmentID: p.RequesterDepartmentID,
		AssignedToID:          p.AssignedToID,
		AdditionalAssigneeID:  p.AdditionalAssigneeID,
		MainMessageID:         p.MainMessageID,
		Title:                 p.Title,
		Description:           p.Description,
		Room:                  p.Room,
		SignupURL:             p.SignupURL,
	}

	if p.RequestType != nil {
		requestType, err := domain.RequestTypeFromDisplayName(*p.RequestType)
		if err != nil {
			return nil, err
		}
		request.RequestType = &requestType
	}
	if p.Status != nil {
		status, err := domain.RequestStatusFromDisplayName(*p.Status)
		if err != nil {
			return nil, err
		}
		request.Status = &status
	}
	if p.PostingDate != nil {
		date, err := time.Parse(postingDateFormat, *p.PostingDate)
		if err != nil {
			return nil, err
		}
		request.PostingDate = &date
	}
	return request, nil
}

// RequestResponse is the wire representation of a marketing request.
type RequestResponse struct {
	ChannelID             int64   `json:"channelID"`
	RequesterID           *int64  `json:"requesterID"`
	RequesterDepartmentID *int64  `json:"requesterDepartmentID"`
	AssignedToID          *int64  `json:"assignedToID"`
	AdditionalAssigneeID  *int64  `json:"additionalAssigneeID"`
	MainMessageID         int64   `json:"mainMessageID"`
	Title                 *string `json:"title"`
	Description           *string `json:"description"`
	RequestType           *string `json:"requestType"`
	Status                *string `json:"status"`
	PostingDate           *string `json:"postingDate"`
	Room                  *string `json:"room"`
	SignupURL             *string `json:"signupUrl"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

// FromRequest maps a domain request to its wire representation.
func FromRequest(request *domain.Request) RequestResponse {
	response := RequestResponse{
		ChannelID:             request.ChannelID,
		RequesterID:           request.RequesterID,
		RequesterDepartmentID: request.RequesterDepartmentID,
		AssignedToID:          request.AssignedToID,
		AdditionalAssigneeID:  request.AdditionalAssigneeID,
		MainMessageID:         request.MainMessageID,
		Title:                 request.Title,
		Description:           request.Description,
		Room:                  request.Room,
		SignupURL:             request.SignupURL,
		CreatedAt:             request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             request.UpdatedAt.Format(time.RFC3339),
	}

	if request.RequestType != nil {
		name := request.RequestType.DisplayName()
		response.RequestType = &name
	}
	if request.Status != nil {
		name := request.Status.DisplayName()
		response.Status = &name
	}
	if request.PostingDate != nil {
		date := request.PostingDate.Format(postingDateFormat)
		response.PostingDate = &date
	}
	return response
}

// FromRequests maps a slice of domain requests.
func FromRequests(requests []domain.Request) []RequestResponse {
	result := make([]RequestResponse, len(requests))
	for i := range requests {
		result[i] = FromRequest(&requests[i])
	}
	return result
}
