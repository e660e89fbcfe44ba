package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Automation *handlers.AutomationHandler
	Workload   *handlers.WorkloadHandler
	Mode       *handlers.ModeHandler
	Config     *handlers.ConfigHandler
	Metrics    *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health", cfg.Health.Health)
	app.Get("/test-ollama", cfg.Health.TestOllama)

	app.Post("/process-tickets", cfg.Automation.ProcessTickets)

	app.Get("/team-workload", cfg.Workload.TeamWorkload)
	app.Get("/debug-workload/:user_id", cfg.Workload.DebugWorkload)

	app.Post("/enable-test-mode", cfg.Mode.EnableTestMode)
	app.Post("/disable-test-mode", cfg.Mode.DisableTestMode)

	app.Get("/config", cfg.Config.Config)
	app.Get("/metrics", cfg.Metrics.Metrics)
}
