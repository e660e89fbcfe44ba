package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/observability"
)

// MetricsHandler exposes accumulated processing counters for ops inspection.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Metrics GET /metrics.
func (h *MetricsHandler) Metrics(c *fiber.Ctx) error {
	totals := h.metrics.BatchTotals()
	return c.JSON(fiber.Map{
		"batches_run":         totals.BatchesRun,
		"tickets_processed":   totals.TicketsProcessed,
		"ticket_failures":     totals.TicketFailures,
		"priority_downgrades": totals.PriorityDowngrades,
		"ollama_analyses":     totals.GeneratedAnalyses,
		"fallback_analyses":   totals.FallbackAnalyses,
	})
}
