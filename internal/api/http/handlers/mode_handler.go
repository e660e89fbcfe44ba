package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-automation/internal/api/dto"
	"github.com/spec-kit/devops-automation/internal/service"
)

// ModeHandler exposes the execution mode toggle.
type ModeHandler struct {
	modes *service.ModeController
}

// NewModeHandler constructs handler.
func NewModeHandler(modes *service.ModeController) *ModeHandler {
	return &ModeHandler{modes: modes}
}

// EnableTestMode POST /enable-test-mode.
func (h *ModeHandler) EnableTestMode(c *fiber.Ctx) error {
	mode, err := h.modes.EnableTestMode()
	if err != nil {
		return err
	}
	return c.JSON(dto.ModeResponse{Mode: string(mode)})
}

// DisableTestMode POST /disable-test-mode.
func (h *ModeHandler) DisableTestMode(c *fiber.Ctx) error {
	mode, err := h.modes.DisableTestMode()
	if err != nil {
		return err
	}
	return c.JSON(dto.ModeResponse{Mode: string(mode)})
}
