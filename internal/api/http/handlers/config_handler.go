package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/config"
	"github.com/spec-kit/devops-automation/internal/service"
)

// ConfigHandler exposes non-secret operational configuration.
type ConfigHandler struct {
	cfg   *config.Config
	modes *service.ModeController
}

// NewConfigHandler constructs handler.
func NewConfigHandler(cfg *config.Config, modes *service.ModeController) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, modes: modes}
}

// Config GET /config. The tracker API key is never serialized.
func (h *ConfigHandler) Config(c *fiber.Ctx) error {
	l1Capacity := 0
	if len(h.cfg.Team.L1) > 0 {
		l1Capacity = h.cfg.Team.L1[0].MaxTickets
	}

	return c.JSON(fiber.Map{
		"service": h.cfg.App.Name,
		"redmine": fiber.Map{
			"base_url":      h.cfg.Redmine.BaseURL,
			"project_id":    h.cfg.Redmine.ProjectID,
			"team_group_id": h.cfg.Redmine.TeamGroupID,
		},
		"ollama": fiber.Map{
			"base_url": h.cfg.Ollama.BaseURL,
			"model":    h.cfg.Ollama.Model,
			"timeout":  h.cfg.Ollama.TimeoutSeconds,
		},
		"team": fiber.Map{
			"l1_members":     len(h.cfg.Team.L1),
			"l2_members":     len(h.cfg.Team.L2),
			"l1_max_tickets": l1Capacity,
		},
		"business_hours": fiber.Map{
			"start":         h.cfg.Hours.StartHour,
			"end":           h.cfg.Hours.EndHour,
			"timezone":      h.cfg.Hours.Timezone,
			"weekdays_only": h.cfg.Hours.WeekdaysOnly,
		},
		"critical_environments": h.cfg.Team.ProductionAliases,
		"mode":                  h.modes.CurrentMode(),
	})
}
