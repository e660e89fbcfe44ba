package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/api/dto"
	"github.com/spec-kit/devops-automation/internal/domain"
	"github.com/spec-kit/devops-automation/internal/service"
	apperrors "github.com/spec-kit/devops-automation/pkg/util"
)

// WorkloadHandler exposes team workload reporting.
type WorkloadHandler struct {
	workload *service.WorkloadService
	modes    *service.ModeController
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(workload *service.WorkloadService, modes *service.ModeController) *WorkloadHandler {
	return &WorkloadHandler{workload: workload, modes: modes}
}

// TeamWorkload GET /team-workload.
func (h *WorkloadHandler) TeamWorkload(c *fiber.Ctx) error {
	view, err := h.workload.TeamWorkload(c.UserContext(), h.modes.Store())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromWorkloadView(view))
}

// DebugWorkload GET /debug-workload/:user_id returns the raw in-progress
// count plus the roster entry for one member.
func (h *WorkloadHandler) DebugWorkload(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("user_id"))
	if err != nil || userID <= 0 {
		return apperrors.NewValidationError("user_id must be a positive integer", nil)
	}

	counts, err := h.modes.Store().InProgressCounts(c.UserContext())
	if err != nil {
		return apperrors.NewDependencyUnavailable("ticket tracker", err)
	}

	roster := h.workload.Roster()
	response := fiber.Map{
		"user_id":         userID,
		"current_tickets": counts[userID],
		"on_roster":       false,
		"mode":            h.modes.CurrentMode(),
	}
	for _, member := range append(append([]domain.TeamMember(nil), roster.L1...), roster.L2...) {
		if member.ID == userID {
			response["on_roster"] = true
			response["name"] = member.Name
			response["tier"] = member.Tier
			if member.MaxTickets > 0 {
				response["max_tickets"] = member.MaxTickets
			}
			break
		}
	}
	return c.JSON(response)
}
