package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/ai"
	"github.com/spec-kit/devops-automation/internal/api/dto"
	"github.com/spec-kit/devops-automation/internal/domain"
	"github.com/spec-kit/devops-automation/internal/service"
)

// HealthHandler responds to liveness and dependency health probes.
type HealthHandler struct {
	serviceName string
	version     string
	health      *service.HealthService
	workload    *service.WorkloadService
	ollama      *ai.Client
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, health *service.HealthService, workload *service.WorkloadService, ollama *ai.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		health:      health,
		workload:    workload,
		ollama:      ollama,
	}
}

// Root GET / returns the static identity payload.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": h.serviceName,
		"version": h.version,
		"status":  "healthy",
		"features": []string{
			"Ollama AI Integration",
			"Smart Priority Management",
			"Workload-based Assignment",
			"Business Hours Awareness",
		},
		"business_hours": h.workload.BusinessHoursNow(),
		"timestamp":      time.Now(),
	})
}

// Health GET /health reports structured dependency availability.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	report := h.health.Check(c.UserContext())
	response := dto.FromHealthReport(h.serviceName, report)
	if report.Overall == domain.HealthStatusUnhealthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}
	return c.JSON(response)
}

// TestOllama GET /test-ollama probes the AI backend directly.
func (h *HealthHandler) TestOllama(c *fiber.Ctx) error {
	report := h.ollama.TestConnection(c.UserContext())
	response := dto.OllamaTestResponse{
		Success:         report.Success,
		Endpoint:        report.Endpoint,
		Model:           report.Model,
		AvailableModels: report.AvailableModels,
		TestAnalysis:    report.TestAnalysis,
		Error:           report.Error,
	}
	if !report.Success {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}
	return c.JSON(response)
}
