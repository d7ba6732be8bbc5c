package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-orders/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	References *handlers.ReferenceHandler
	Orders     *handlers.OrdersHandler
	Views      *handlers.ViewHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	refs := cfg.References
	app.Get("/buildings", refs.ListBuildings)
	app.Post("/buildings", refs.CreateBuilding)
	app.Put("/buildings/:id", refs.UpdateBuilding)
	app.Delete("/buildings/:id", refs.DeleteBuilding)
	app.Get("/buildings/:id/sectors", refs.ListBuildingSectors)

	app.Get("/sectors", refs.ListSectors)
	app.Post("/sectors", refs.CreateSector)
	app.Put("/sectors/:id", refs.UpdateSector)
	app.Delete("/sectors/:id", refs.DeleteSector)

	app.Get("/teams", refs.ListTeams)
	app.Post("/teams", refs.CreateTeam)
	app.Put("/teams/:id", refs.UpdateTeam)
	app.Delete("/teams/:id", refs.DeleteTeam)
	app.Get("/teams/:id/professionals", refs.ListTeamProfessionals)

	app.Get("/professionals", refs.ListProfessionals)
	app.Post("/professionals", refs.CreateProfessional)
	app.Put("/professionals/:id", refs.UpdateProfessional)
	app.Delete("/professionals/:id", refs.DeleteProfessional)

	app.Get("/reasons", refs.ListReasons)
	app.Post("/reasons", refs.CreateReason)
	app.Put("/reasons/:id", refs.UpdateReason)
	app.Delete("/reasons/:id", refs.DeleteReason)

	app.Get("/orders", cfg.Orders.List)
	app.Get("/orders/:id", cfg.Orders.Get)

	drafts := app.Group("/drafts")
	drafts.Post("", cfg.Orders.OpenDraft)
	drafts.Get("/:id", cfg.Orders.GetDraft)
	drafts.Patch("/:id", cfg.Orders.PatchDraft)
	drafts.Delete("/:id", cfg.Orders.AbandonDraft)
	drafts.Post("/:id/diagnosis", cfg.Orders.RequestDiagnosis)
	drafts.Post("/:id/submit", cfg.Orders.SubmitDraft)

	selection := app.Group("/selection")
	selection.Get("", cfg.Views.Selection)
	selection.Post("/toggle", cfg.Views.Toggle)
	selection.Post("/toggle-all", cfg.Views.ToggleAll)
	selection.Delete("", cfg.Views.ClearSelection)

	app.Post("/print", cfg.Views.Print)
	app.Get("/dashboard", cfg.Views.Dashboard)
}
