package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrasoft/command-centre/internal/api/dto"
	"github.com/ibrasoft/command-centre/internal/auth"
	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/events"
	"github.com/ibrasoft/command-centre/internal/service"
	"github.com/ibrasoft/command-centre/pkg/util"
)

// RequestsHandler exposes the marketing request CRUD and workflow API.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requests *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requests}
}

// List handles GET /api/requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	requests, err := h.requests.ListAll(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequests(requests))
}

// GetByChannel handles GET /api/requests/channel/:channelId.
func (h *RequestsHandler) GetByChannel(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	request, err := h.requests.GetByChannelID(c.UserContext(), channelID)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(request))
}

// ListByStatus handles GET /api/requests/status/:status.
func (h *RequestsHandler) ListByStatus(c *fiber.Ctx) error {
	status, err := domain.RequestStatusFromDisplayName(c.Params("status"))
	if err != nil {
		return util.NewValidationError("invalid status: "+c.Params("status"), nil)
	}
	requests, err := h.requests.ListByStatus(c.UserContext(), status)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequests(requests))
}

// ListByRequester handles GET /api/requests/requester/:requesterId.
func (h *RequestsHandler) ListByRequester(c *fiber.Ctx) error {
	requesterID, err := pathID(c, "requesterId")
	if err != nil {
		return err
	}
	requests, err := h.requests.ListByRequester(c.UserContext(), requesterID)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequests(requests))
}

// ListByAssignedTo handles GET /api/requests/assigned/:assignedToId.
func (h *RequestsHandler) ListByAssignedTo(c *fiber.Ctx) error {
	assignedToID, err := pathID(c, "assignedToId")
	if err != nil {
		return err
	}
	requests, err := h.requests.ListByAssignedTo(c.UserContext(), assignedToID)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequests(requests))
}

// MyRequests handles GET /api/requests/my-requests for browser users.
func (h *RequestsHandler) MyRequests(c *fiber.Ctx) error {
	identity := mustIdentity(c)
	if identity == nil || identity.IsBot() {
		return util.NewUnauthorized("user identity required")
	}

	subject, err := strconv.ParseInt(identity.Subject, 10, 64)
	if err != nil {
		return util.NewUnauthorized("subject is not a Discord user id")
	}

	requests, err := h.requests.ListByRequester(c.UserContext(), subject)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequests(requests))
}

// CountByDepartment handles GET /api/requests/countByDepartment.
func (h *RequestsHandler) CountByDepartment(c *fiber.Ctx) error {
	counts, err := h.requests.CountByDepartment(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(counts)
}

// Create handles POST /api/requests. The bot must supply a requester
// ID; a browser user becomes the requester when none is given.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	identity := mustIdentity(c)
	if identity == nil {
		return util.NewUnauthorized("authentication required")
	}

	var payload dto.RequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	request, err := payload.ToDomain()
	if err != nil {
		return util.NewValidationError(err.Error(), nil)
	}

	actorID := int64(0)
	if identity.IsBot() {
		if request.RequesterID == nil {
			return util.NewValidationError("bot requests must include requesterID", nil)
		}
		actorID = *request.RequesterID
	} else {
		parsed, err := strconv.ParseInt(identity.Subject, 10, 64)
		if err != nil {
			return util.NewUnauthorized("subject is not a Discord user id")
		}
		actorID = parsed
	}

	created, err := h.requests.Create(c.UserContext(), request, actorID, events.ActorID(identity))
	if err != nil {
		return util.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.FromRequest(created))
}

// Update handles PUT /api/requests/channel/:channelId.
func (h *RequestsHandler) Update(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}

	var payload dto.RequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	details, err := payload.ToDomain()
	if err != nil {
		return util.NewValidationError(err.Error(), nil)
	}

	updated, err := h.requests.Update(c.UserContext(), channelID, details, actor(c))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(updated))
}

// Delete handles DELETE /api/requests/channel/:channelId.
func (h *RequestsHandler) Delete(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	if err := h.requests.Delete(c.UserContext(), channelID, actor(c)); err != nil {
		return util.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign handles PATCH /api/requests/channel/:channelId/assign/:assignedToId.
func (h *RequestsHandler) Assign(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	assignedToID, err := pathID(c, "assignedToId")
	if err != nil {
		return err
	}

	updated, err := h.requests.Assign(c.UserContext(), channelID, assignedToID, actor(c))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(updated))
}

// SetStatus handles PATCH /api/requests/channel/:channelId/status/:status.
func (h *RequestsHandler) SetStatus(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	status, err := domain.RequestStatusFromDisplayName(c.Params("status"))
	if err != nil {
		return util.NewValidationError("invalid status: "+c.Params("status"), nil)
	}

	updated, err := h.requests.SetStatus(c.UserContext(), channelID, status, actor(c))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(updated))
}

// Advance handles PATCH /api/requests/channel/:channelId/advance.
func (h *RequestsHandler) Advance(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}

	updated, err := h.requests.Advance(c.UserContext(), channelID, actor(c))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(updated))
}

// UpdateRequester handles PATCH /api/requests/channel/:channelId/requester/:requesterId.
func (h *RequestsHandler) UpdateRequester(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	requesterID, err := pathID(c, "requesterId")
	if err != nil {
		return err
	}

	updated, err := h.requests.UpdateRequester(c.UserContext(), channelID, requesterID, actor(c))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(updated))
}

// UpdateDepartment handles PATCH /api/requests/channel/:channelId/department/:departmentId.
func (h *RequestsHandler) UpdateDepartment(c *fiber.Ctx) error {
	channelID, err := pathID(c, "channelId")
	if err != nil {
		return err
	}
	departmentID, err := pathID(c, "departmentId")
	if err != nil {
		return err
	}

	updated, err := h.requests.UpdateRequesterDepartment(c.UserContext(), channelID, departmentID, actor(c))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(dto.FromRequest(updated))
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, util.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

func mustIdentity(c *fiber.Ctx) *domain.Identity {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil
	}
	return identity
}

func actor(c *fiber.Ctx) string {
	return events.ActorID(mustIdentity(c))
}
