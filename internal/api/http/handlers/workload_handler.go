package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrasoft/command-centre/internal/api/dto"
	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/service"
	"github.com/ibrasoft/command-centre/pkg/util"
)

// WorkloadHandler exposes per-role workload views over the bi-weekly
// content cycle.
type WorkloadHandler struct {
	requests *service.RequestService
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(requests *service.RequestService) *WorkloadHandler {
	return &WorkloadHandler{requests: requests}
}

// ContentCreators handles GET /api/workload/content-creators: reel
// requests due in the current development cycle.
func (h *WorkloadHandler) ContentCreators(c *fiber.Ctx) error {
	requests, cycle, err := h.requests.ContentCreatorWorkload(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(workloadResponse(requests, cycle))
}

// GraphicDesigners handles GET /api/workload/graphic-designers: post
// requests due in the current development cycle.
func (h *WorkloadHandler) GraphicDesigners(c *fiber.Ctx) error {
	requests, cycle, err := h.requests.GraphicDesignerWorkload(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(workloadResponse(requests, cycle))
}

// SocialMediaManagers handles GET /api/workload/social-media-managers:
// everything posting in the current posting cycle.
func (h *WorkloadHandler) SocialMediaManagers(c *fiber.Ctx) error {
	requests, cycle, err := h.requests.SocialMediaManagerWorkload(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(workloadResponse(requests, cycle))
}

func workloadResponse(requests []domain.Request, cycle service.CycleInfo) fiber.Map {
	const dateFormat = "2006-01-02"
	return fiber.Map{
		"cycleInfo": fiber.Map{
			"cycleNumber":      cycle.CycleNumber,
			"developmentStart": cycle.DevelopmentStart.Format(dateFormat),
			"developmentEnd":   cycle.DevelopmentEnd.Format(dateFormat),
			"postingStart":     cycle.PostingStart.Format(dateFormat),
			"postingEnd":       cycle.PostingEnd.Format(dateFormat),
		},
		"requests": dto.FromRequests(requests),
		"count":    len(requests),
	}
}
