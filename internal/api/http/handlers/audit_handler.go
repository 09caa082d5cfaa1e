package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrasoft/command-centre/internal/service"
	"github.com/ibrasoft/command-centre/pkg/util"
)

// AuditHandler exposes the audit trail API.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/audit-events.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	items, err := h.audit.ListAll(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(items)
}

// GetByID handles GET /api/audit-events/:id.
func (h *AuditHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.audit.GetByID(c.UserContext(), id)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(event)
}

// ListByEntity handles GET /api/audit-events/entity/:entityType/:entityId.
func (h *AuditHandler) ListByEntity(c *fiber.Ctx) error {
	entityID, err := pathID(c, "entityId")
	if err != nil {
		return err
	}
	items, err := h.audit.ListByEntity(c.UserContext(), c.Params("entityType"), entityID)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(items)
}

// ListByType handles GET /api/audit-events/type/:eventType.
func (h *AuditHandler) ListByType(c *fiber.Ctx) error {
	items, err := h.audit.ListByEventType(c.UserContext(), c.Params("eventType"))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(items)
}

// ListByUser handles GET /api/audit-events/user/:performedBy.
func (h *AuditHandler) ListByUser(c *fiber.Ctx) error {
	items, err := h.audit.ListByPerformedBy(c.UserContext(), c.Params("performedBy"))
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(items)
}

// ListByDateRange handles GET /api/audit-events/daterange?start=...&end=...
func (h *AuditHandler) ListByDateRange(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return util.NewValidationError("invalid start timestamp", nil)
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return util.NewValidationError("invalid end timestamp", nil)
	}

	items, err := h.audit.ListByTimeRange(c.UserContext(), start, end)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(items)
}

// Create handles POST /api/audit-events for manual audit records.
func (h *AuditHandler) Create(c *fiber.Ctx) error {
	var payload struct {
		EventType   string `json:"eventType"`
		EntityType  string `json:"entityType"`
		EntityID    int64  `json:"entityId"`
		Details     string `json:"eventDetails"`
		PerformedBy string `json:"performedBy"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if payload.EventType == "" || payload.EntityType == "" {
		return util.NewValidationError("eventType and entityType required", nil)
	}

	event, err := h.audit.LogEvent(c.UserContext(), payload.EventType, payload.EntityType,
		payload.EntityID, payload.Details, payload.PerformedBy)
	if err != nil {
		return util.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(event)
}
