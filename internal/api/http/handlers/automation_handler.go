package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/api/dto"
	"github.com/spec-kit/devops-automation/internal/service"
)

// AutomationHandler exposes the batch processing endpoint.
type AutomationHandler struct {
	orchestrator *service.Orchestrator
}

// NewAutomationHandler constructs handler.
func NewAutomationHandler(orchestrator *service.Orchestrator) *AutomationHandler {
	return &AutomationHandler{orchestrator: orchestrator}
}

// ProcessTickets POST /process-tickets. Triggers one batch; a batch already
// in flight yields a conflict.
func (h *AutomationHandler) ProcessTickets(c *fiber.Ctx) error {
	result, err := h.orchestrator.ProcessBatch(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBatchResult(result))
}
