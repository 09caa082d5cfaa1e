package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrasoft/command-centre/internal/api/dto"
	"github.com/ibrasoft/command-centre/internal/discord"
	"github.com/ibrasoft/command-centre/pkg/util"
)

// MappingsHandler resolves Discord IDs to display names from the
// mapping cache.
type MappingsHandler struct {
	mappings *discord.MappingService
}

// NewMappingsHandler constructs handler.
func NewMappingsHandler(mappings *discord.MappingService) *MappingsHandler {
	return &MappingsHandler{mappings: mappings}
}

// Nickname handles GET /api/mappings/users/:userId.
func (h *MappingsHandler) Nickname(c *fiber.Ctx) error {
	userID := c.Params("userId")
	return c.JSON(fiber.Map{"id": userID, "name": h.mappings.Nickname(userID)})
}

// RoleName handles GET /api/mappings/roles/:roleId.
func (h *MappingsHandler) RoleName(c *fiber.Ctx) error {
	roleID := c.Params("roleId")
	return c.JSON(fiber.Map{"id": roleID, "name": h.mappings.RoleName(roleID)})
}

// Nicknames handles POST /api/mappings/users for bulk lookups.
func (h *MappingsHandler) Nicknames(c *fiber.Ctx) error {
	var payload dto.MappingLookupRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	return c.JSON(h.mappings.Nicknames(payload.IDs))
}

// RoleNames handles POST /api/mappings/roles for bulk lookups.
func (h *MappingsHandler) RoleNames(c *fiber.Ctx) error {
	var payload dto.MappingLookupRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	return c.JSON(h.mappings.RoleNames(payload.IDs))
}
