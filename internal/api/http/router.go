package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrasoft/command-centre/internal/api/http/handlers"
	"github.com/ibrasoft/command-centre/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Requests   *handlers.RequestsHandler
	Audit      *handlers.AuditHandler
	Workload   *handlers.WorkloadHandler
	Mappings   *handlers.MappingsHandler
	Gatekeeper *auth.Gatekeeper
}

// RegisterRoutes wires HTTP routes. The gatekeeper runs on every request and
// decides for itself which paths pass through unauthenticated.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gatekeeper.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Get("/login", cfg.Auth.Login)
	authGroup.Get("/callback", cfg.Auth.Callback)
	authGroup.Get("/success", cfg.Auth.Success)
	authGroup.Get("/failure", cfg.Auth.Failure)
	authGroup.Get("/user", cfg.Auth.User)
	authGroup.Get("/guilds", cfg.Auth.Guilds)
	authGroup.Post("/bot-token", cfg.Auth.BotToken)

	requests := app.Group("/api/requests")
	requests.Get("/", cfg.Requests.List)
	requests.Post("/", cfg.Requests.Create)
	requests.Get("/my-requests", cfg.Requests.MyRequests)
	requests.Get("/countByDepartment", cfg.Requests.CountByDepartment)
	requests.Get("/status/:status", cfg.Requests.ListByStatus)
	requests.Get("/requester/:requesterId", cfg.Requests.ListByRequester)
	requests.Get("/assigned/:assignedToId", cfg.Requests.ListByAssignedTo)
	requests.Get("/channel/:channelId", cfg.Requests.GetByChannel)
	requests.Put("/channel/:channelId", cfg.Requests.Update)
	requests.Delete("/channel/:channelId", cfg.Requests.Delete)
	requests.Patch("/channel/:channelId/assign/:assignedToId", cfg.Requests.Assign)
	requests.Patch("/channel/:channelId/status/:status", cfg.Requests.SetStatus)
	requests.Patch("/channel/:channelId/advance", cfg.Requests.Advance)
	requests.Patch("/channel/:channelId/requester/:requesterId", cfg.Requests.UpdateRequester)
	requests.Patch("/channel/:channelId/department/:departmentId", cfg.Requests.UpdateDepartment)

	audit := app.Group("/api/audit-events")
	audit.Get("/", cfg.Audit.List)
	audit.Post("/", cfg.Audit.Create)
	audit.Get("/entity/:entityType/:entityId", cfg.Audit.ListByEntity)
	audit.Get("/type/:eventType", cfg.Audit.ListByType)
	audit.Get("/user/:performedBy", cfg.Audit.ListByUser)
	audit.Get("/daterange", cfg.Audit.ListByDateRange)
	audit.Get("/:id", cfg.Audit.GetByID)

	workload := app.Group("/api/workload")
	workload.Get("/content-creators", cfg.Workload.ContentCreators)
	workload.Get("/graphic-designers", cfg.Workload.GraphicDesigners)
	workload.Get("/social-media-managers", cfg.Workload.SocialMediaManagers)

	mappings := app.Group("/api/mappings")
	mappings.Get("/users/:userId", cfg.Mappings.Nickname)
	mappings.Get("/roles/:roleId", cfg.Mappings.RoleName)
	mappings.Post("/users", cfg.Mappings.Nicknames)
	mappings.Post("/roles", cfg.Mappings.RoleNames)
}
